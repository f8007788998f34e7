package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/skyvault-labs/s5vector/internal/search"
)

var (
	searchEmbedding string
	searchFile      string
	searchLimit     int
	searchFolder    string
	searchRecursive bool
)

var searchCmd = &cobra.Command{
	Use:   "search <db>",
	Short: "Find the nearest vectors to a query embedding",
	Long: `Runs a similarity search with a caller-computed query embedding,
passed either inline as a JSON array (--embedding) or from a file/stdin
(--file). Results can be restricted to a folder.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := []byte(searchEmbedding)
		if searchEmbedding == "" {
			var in io.Reader = os.Stdin
			if searchFile != "" {
				f, err := os.Open(searchFile)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			data, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("reading embedding: %w", err)
			}
			raw = data
		}

		var embedding []float32
		if err := json.Unmarshal(raw, &embedding); err != nil {
			return fmt.Errorf("embedding must be a JSON array of numbers")
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

		limit := searchLimit
		if limit <= 0 {
			limit = cfg.Search.DefaultLimit
		}

		results, err := env.Index.Search(cmd.Context(), args[0], embedding, limit, search.Options{
			Folder:     searchFolder,
			Recursive:  searchRecursive,
			Oversample: cfg.Search.Oversample,
		})
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("No results.")
			return nil
		}

		for i, r := range results {
			fmt.Printf("%2d. %s  similarity=%.4f\n", i+1, r.ID, r.Similarity)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchEmbedding, "embedding", "", "query embedding as a JSON array")
	searchCmd.Flags().StringVarP(&searchFile, "file", "f", "", "file holding the query embedding (default stdin)")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "maximum results (default from config)")
	searchCmd.Flags().StringVar(&searchFolder, "folder", "", "restrict results to this folder")
	searchCmd.Flags().BoolVar(&searchRecursive, "recursive", false, "include the folder's whole subtree")

	rootCmd.AddCommand(searchCmd)
}
