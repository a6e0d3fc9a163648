package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/restyle/internal/api"
	"github.com/jackzampolin/restyle/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "restyle",
	Short: "Photo restyling with a curated, editable prompt catalog",
	Long: `restyle turns photos into stylized images (cartoon, anime, vintage and so on)
using an image-editing model. Styles come from a prompt catalog: a built-in
default set plus your own edits, which persist across restarts.

Start the server with 'restyle serve', then browse the catalog at
http://localhost:8080/ or drive it from the command line with 'restyle api'.`,
	Version:       version.GitRelease,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.restyle/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "restyle home directory (default: ~/.restyle)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml, json or toml",
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
