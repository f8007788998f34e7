package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var folderCmd = &cobra.Command{
	Use:   "folder",
	Short: "Manage folder hierarchy",
}

var folderListCmd = &cobra.Command{
	Use:   "list <db>",
	Short: "List folders with per-folder vector counts",
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

		folders, err := env.Store.ListFolders(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(folders) == 0 {
			fmt.Println("No folders.")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "FOLDER\tVECTORS")
		for _, f := range folders {
			fmt.Fprintf(tw, "%s\t%d\n", f.Path, f.VectorCount)
		}
		return tw.Flush()
	},
}

var folderPathsCmd = &cobra.Command{
	Use:   "paths <db>",
	Short: "List folder paths only",
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

		paths, err := env.Store.ListFolderPaths(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Println(p)
		}
		return nil
	},
}

var folderStatsKey string

var folderStatsCmd = &cobra.Command{
	Use:   "stats <db> [path]",
	Short: "Aggregate a folder subtree (whole database when path is omitted)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 2 {
			path = args[1]
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

		stats, err := env.Store.FolderStats(cmd.Context(), args[0], path, folderStatsKey)
		if err != nil {
			return err
		}

		scope := stats.Path
		if scope == "" {
			scope = "(root)"
		}
		fmt.Printf("Folder:   %s\n", scope)
		fmt.Printf("Vectors:  %d\n", stats.VectorCount)
		fmt.Printf("Storage:  %d bytes\n", stats.StorageSize)
		if folderStatsKey != "" {
			fmt.Printf("%s: min %g, max %g, avg %g\n", folderStatsKey, stats.Min, stats.Max, stats.Avg)
		}
		return nil
	},
}

var folderCreateCmd = &cobra.Command{
	Use:   "create <db> <path>",
	Short: "Create an empty folder",
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

		if err := env.Store.CreateFolder(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Created folder %s in %s\n", args[1], args[0])
		return nil
	},
}

var folderRenameCmd = &cobra.Command{
	Use:   "rename <db> <old> <new>",
	Short: "Rename a folder, cascading to every vector in its subtree",
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

		moved, err := env.Store.RenameFolder(cmd.Context(), args[0], args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Printf("Renamed %s to %s (%d vector(s) updated)\n", args[1], args[2], moved)
		return nil
	},
}

var folderMoveCmd = &cobra.Command{
	Use:   "move <db> <src> <dst>",
	Short: "Move a folder's contents under another path (merging if it exists)",
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

		moved, err := env.Store.MoveFolder(cmd.Context(), args[0], args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Printf("Moved %s to %s (%d vector(s) updated)\n", args[1], args[2], moved)
		return nil
	},
}

var folderDeleteCmd = &cobra.Command{
	Use:   "delete <db> <path>",
	Short: "Delete a folder and every vector in its subtree",
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

		deleted, err := env.Store.DeleteFolder(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Deleted folder %s (%d vector(s) removed)\n", args[1], len(deleted))
		return nil
	},
}

func init() {
	folderStatsCmd.Flags().StringVar(&folderStatsKey, "key", "", "metadata key whose numeric values to aggregate")

	folderCmd.AddCommand(folderListCmd, folderPathsCmd, folderStatsCmd, folderCreateCmd, folderRenameCmd, folderMoveCmd, folderDeleteCmd)
	rootCmd.AddCommand(folderCmd)
}
