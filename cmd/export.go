package cmd

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <db>",
	Short: "Export a database to JSONL (header line + one vector per line)",
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

		out := os.Stdout
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}

		var bar *progressbar.ProgressBar
		progress := func(done, total int) {
			if exportOutput == "" {
				return // keep stdout clean when piping
			}
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetDescription("Exporting "+args[0]),
					progressbar.OptionSetWidth(40),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)
			}
			_ = bar.Set(done)
		}

		if err := env.Store.Export(cmd.Context(), args[0], out, progress); err != nil {
			return err
		}
		if bar != nil {
			_ = bar.Finish()
		}
		if exportOutput != "" {
			fmt.Printf("Exported %s to %s\n", args[0], exportOutput)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}
