package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bgraf/baukasten/cmd/serve"
	"github.com/bgraf/baukasten/config"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the editing server",
	RunE:  serve.RunServeCmd,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("address", "a", "", "Listen address")
	mustBind(config.KeyServeAddress, serveCmd.Flags().Lookup("address"))

	serveCmd.Flags().StringP("media-dir", "m", "", "Media directory")
	mustBind(config.KeyMediaDirectory, serveCmd.Flags().Lookup("media-dir"))
}
