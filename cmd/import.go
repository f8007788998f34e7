package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var importInput string

var importCmd = &cobra.Command{
	Use:   "import [db]",
	Short: "Import a JSONL export (database name defaults to the export header)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 1 {
			name = args[0]
		}

		var in io.Reader = os.Stdin
		if importInput != "" {
			f, err := os.Open(importInput)
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		env, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer env.Close()

		bar := progressbar.NewOptions(-1,
			progressbar.OptionSetDescription("Importing vectors"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionClearOnFinish(),
		)
		progress := func(done int) {
			_ = bar.Set(done)
		}

		imported, err := env.Store.Import(cmd.Context(), name, in, progress)
		_ = bar.Finish()
		if err != nil {
			return err
		}

		fmt.Printf("Imported %d vector(s)\n", imported)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVarP(&importInput, "input", "i", "", "input file (default stdin)")
	rootCmd.AddCommand(importCmd)
}
