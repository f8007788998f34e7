package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skyvault-labs/s5vector/internal/report"
)

var reportOutput string

var reportCmd = &cobra.Command{
	Use:   "report <db>",
	Short: "Render an HTML overview of a database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		env, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer env.Close()

		info, err := env.Store.GetDatabase(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		folders, err := env.Store.ListFolders(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		page, err := report.Generate(*info, folders)
		if err != nil {
			return err
		}

		if reportOutput == "" {
			_, err = os.Stdout.Write(page)
			return err
		}
		if err := os.WriteFile(reportOutput, page, 0644); err != nil {
			return err
		}
		fmt.Printf("Wrote report to %s\n", reportOutput)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(reportCmd)
}
