package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bgraf/baukasten/config"
	"github.com/bgraf/baukasten/logging"
)

var (
	cfgFile string
	// cfgErr is set by initConfig and reported before any command runs.
	cfgErr error
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "baukasten",
	Short: "Baukasten edits and publishes component based pages",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgErr != nil {
			return cfgErr
		}

		logger, err := logging.New(config.LogLevel())
		if err != nil {
			return err
		}

		if used := viper.ConfigFileUsed(); len(used) > 0 {
			logger.Sugar().Debugf("using config file %s", used)
		}

		cmd.SetContext(logging.NewContext(cmd.Context(), logger))
		return nil
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.baukasten.yaml)")

	rootCmd.PersistentFlags().StringP("pages-dir", "p", "", "Pages directory")
	mustBind(config.KeyPagesDirectory, rootCmd.PersistentFlags().Lookup("pages-dir"))

	rootCmd.PersistentFlags().String("log-level", config.DefaultLogLevel(), "Log level (debug, info, warn, error)")
	mustBind(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	config.SetDefaults()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in the working and home directory with name ".baukasten" (without extension).
		if dir, err := os.Getwd(); err == nil {
			viper.AddConfigPath(dir)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".baukasten")
	}

	viper.SetEnvPrefix("baukasten")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	cfgErr = readConfig(viper.GetViper())
}

// readConfig reads the config file. A missing file is fine when none was named
// explicitly, flags and environment suffice.
func readConfig(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}

	return fmt.Errorf("read config: %w", err)
}
