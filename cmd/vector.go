package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skyvault-labs/s5vector/internal/store"
)

var vectorCmd = &cobra.Command{
	Use:   "vector",
	Short: "Manage vectors",
}

var vectorPutFile string

var vectorPutCmd = &cobra.Command{
	Use:   "put <db>",
	Short: "Add or replace vectors from a JSON file (or stdin)",
	Long: `Reads a JSON array of vectors (or a single vector object) and writes
them to the database. Each vector is {"id", "embedding", "metadata"}; folder
placement goes in metadata under the folderPath key.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = os.Stdin
		if vectorPutFile != "" {
			f, err := os.Open(vectorPutFile)
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		data, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("reading vectors: %w", err)
		}

		var vecs []store.Vector
		if err := json.Unmarshal(data, &vecs); err != nil {
			var single store.Vector
			if err := json.Unmarshal(data, &single); err != nil {
				return fmt.Errorf("input is neither a vector array nor a vector object")
			}
			vecs = []store.Vector{single}
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

		stored, err := env.Store.PutVectors(cmd.Context(), args[0], vecs)
		if err != nil {
			return err
		}
		fmt.Printf("Stored %d vector(s) in %s\n", len(stored), args[0])
		return nil
	},
}

var vectorGetCmd = &cobra.Command{
	Use:   "get <db> <id>...",
	Short: "Fetch vectors by id (missing ids are skipped)",
	Args:  cobra.MinimumNArgs(2),
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

		vecs, err := env.Store.GetVectors(cmd.Context(), args[0], args[1:])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(vecs)
	},
}

var vectorListCmd = &cobra.Command{
	Use:   "list <db>",
	Short: "List all vectors in a database",
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

		vecs, err := env.Store.ListVectors(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(vecs) == 0 {
			fmt.Println("No vectors.")
			return nil
		}
		for _, vec := range vecs {
			line := fmt.Sprintf("%s  dims=%d", vec.ID, len(vec.Embedding))
			if folder := vec.FolderPath(); folder != "" {
				line += "  folder=" + folder
			}
			fmt.Println(line)
		}
		return nil
	},
}

var vectorDeleteCmd = &cobra.Command{
	Use:   "delete <db> <id>",
	Short: "Delete a vector by id",
	Args:  cobra.ExactArgs(2),
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

		if err := env.Store.DeleteVector(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Deleted vector %s from %s\n", args[1], args[0])
		return nil
	},
}

var (
	vectorPruneMeta    []string
	vectorPruneFolders string
)

var vectorPruneCmd = &cobra.Command{
	Use:   "prune <db>",
	Short: "Delete every vector matching a metadata filter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := store.Filter{FolderPattern: vectorPruneFolders}
		if len(vectorPruneMeta) > 0 {
			filter.Metadata = make(map[string]string, len(vectorPruneMeta))
			for _, pair := range vectorPruneMeta {
				key, value, ok := strings.Cut(pair, "=")
				if !ok {
					return fmt.Errorf("invalid --meta %q: expected key=value", pair)
				}
				filter.Metadata[key] = value
			}
		}
		if filter.IsEmpty() {
			return fmt.Errorf("pass --meta and/or --folders to select vectors")
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

		deleted, err := env.Store.DeleteVectors(cmd.Context(), args[0], filter)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d vector(s) from %s\n", len(deleted), args[0])
		return nil
	},
}

var vectorMoveCmd = &cobra.Command{
	Use:   "move <db> <id> <folder>",
	Short: "Move a vector into a folder (empty folder = root)",
	Args:  cobra.ExactArgs(3),
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

		if err := env.Store.MoveVector(cmd.Context(), args[0], args[1], args[2]); err != nil {
			return err
		}
		fmt.Printf("Moved vector %s to %q\n", args[1], args[2])
		return nil
	},
}

func init() {
	vectorPutCmd.Flags().StringVarP(&vectorPutFile, "file", "f", "", "JSON file to read vectors from (default stdin)")
	vectorPruneCmd.Flags().StringArrayVar(&vectorPruneMeta, "meta", nil, "metadata equality filter, key=value (repeatable)")
	vectorPruneCmd.Flags().StringVar(&vectorPruneFolders, "folders", "", "doublestar glob over folder paths, e.g. 'docs/**'")

	vectorCmd.AddCommand(vectorPutCmd, vectorGetCmd, vectorListCmd, vectorDeleteCmd, vectorPruneCmd, vectorMoveCmd)
	rootCmd.AddCommand(vectorCmd)
}
