package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/skyvault-labs/s5vector/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "s5vector",
	Short: "Vector databases with folder hierarchy over content-addressed storage",
	Long: `s5vector manages named vector databases persisted through a
content-addressed blob store and a mutable registry of manifest pointers.
Vectors carry caller-computed embeddings and arbitrary metadata; folders are
derived from the folderPath metadata key plus an explicit folder list on each
database's manifest.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
