package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bgraf/baukasten/building"
	"github.com/bgraf/baukasten/config"
	"github.com/bgraf/baukasten/filesystem"
	"github.com/bgraf/baukasten/logging"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Publish all pages as a static site",
	RunE:  runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringP("output", "O", "", "Build directory")
	mustBind(config.KeyBuildDirectory, buildCmd.Flags().Lookup("output"))

	buildCmd.Flags().Bool("clean", false, "Rebuild all pages")
}

func runBuild(cmd *cobra.Command, args []string) error {
	if !config.HasPagesDirectory() {
		return fmt.Errorf("no pages directory configured")
	}

	if !config.HasBuildDirectory() {
		return fmt.Errorf("no build directory configured")
	}

	isCleanBuild, err := cmd.Flags().GetBool("clean")
	if err != nil {
		return err
	}

	logger := logging.FromContext(cmd.Context())

	var dirs [3]string
	for i, dir := range []string{config.PagesDirectory(), config.BuildDirectory(), config.MediaDirectory()} {
		if dirs[i], err = filesystem.Abs(dir); err != nil {
			return err
		}
	}

	opts := building.Options{
		Clean:          isCleanBuild,
		PagesDirectory: dirs[0],
		BuildDirectory: dirs[1],
		MediaDirectory: dirs[2],
		SiteTitle:      config.SiteTitle(),
		Locale:         config.Locale(),
		Logger:         logger,
	}

	logger.Info("building",
		zap.String("pages", opts.PagesDirectory),
		zap.String("build", opts.BuildDirectory))

	return building.Build(opts)
}
