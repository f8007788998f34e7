package cmd

import (
	"github.com/spf13/cobra"

	"github.com/skyvault-labs/s5vector/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file through an interactive wizard",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
