package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skyvault-labs/s5vector/internal/store"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage vector databases",
}

var (
	dbCreateDimensions  int
	dbCreateOwner       string
	dbCreateDescription string
	dbCreateUseFolders  bool
)

var dbCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new database",
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

		owner := dbCreateOwner
		if owner == "" {
			owner = cfg.Owner
		}

		info, err := env.Store.CreateDatabase(cmd.Context(), args[0], store.CreateOptions{
			Dimensions:  dbCreateDimensions,
			Owner:       owner,
			Description: dbCreateDescription,
			UseFolders:  dbCreateUseFolders,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Created database %s (%d dimensions)\n", info.Name, info.Dimensions)
		return nil
	},
}

var dbListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all databases",
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

		infos, err := env.Store.ListDatabases(cmd.Context())
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			fmt.Println("No databases.")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tDIMS\tVECTORS\tSIZE\tOWNER\tCREATED")
		for _, info := range infos {
			created := ""
			if !info.CreatedAt.IsZero() {
				created = info.CreatedAt.Format("2006-01-02 15:04")
			}
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t%s\n",
				info.Name, info.Dimensions, info.VectorCount, info.StorageSize, info.Owner, created)
		}
		return tw.Flush()
	},
}

var dbInfoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "Show a database's metadata",
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

		fmt.Printf("Name:        %s\n", info.Name)
		fmt.Printf("Dimensions:  %d\n", info.Dimensions)
		fmt.Printf("Vectors:     %d\n", info.VectorCount)
		fmt.Printf("Storage:     %d bytes\n", info.StorageSize)
		fmt.Printf("Owner:       %s\n", info.Owner)
		fmt.Printf("Folders:     %v\n", info.UseFolders)
		if info.Description != "" {
			fmt.Printf("Description: %s\n", info.Description)
		}
		if !info.CreatedAt.IsZero() {
			fmt.Printf("Created:     %s\n", info.CreatedAt.Format("2006-01-02 15:04:05 UTC"))
		}
		if !info.UpdatedAt.IsZero() {
			fmt.Printf("Updated:     %s\n", info.UpdatedAt.Format("2006-01-02 15:04:05 UTC"))
		}
		return nil
	},
}

var (
	dbUpdateDescription string
	dbUpdateOwner       string
)

var dbUpdateCmd = &cobra.Command{
	Use:   "update <name>",
	Short: "Update a database's metadata",
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

		opts := store.UpdateOptions{}
		if cmd.Flags().Changed("description") {
			opts.Description = &dbUpdateDescription
		}
		if cmd.Flags().Changed("owner") {
			opts.Owner = &dbUpdateOwner
		}
		if opts.Description == nil && opts.Owner == nil {
			return fmt.Errorf("nothing to update: pass --description and/or --owner")
		}

		if _, err := env.Store.UpdateDatabase(cmd.Context(), args[0], opts); err != nil {
			return err
		}
		fmt.Printf("Updated database %s\n", args[0])
		return nil
	},
}

var dbDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a database and all its vectors",
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

		if err := env.Store.DeleteDatabase(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted database %s\n", args[0])
		return nil
	},
}

func init() {
	dbCreateCmd.Flags().IntVar(&dbCreateDimensions, "dimensions", 0, "embedding dimensions (0 = accept any)")
	dbCreateCmd.Flags().StringVar(&dbCreateOwner, "owner", "", "database owner (defaults to config owner)")
	dbCreateCmd.Flags().StringVar(&dbCreateDescription, "description", "", "database description (markdown)")
	dbCreateCmd.Flags().BoolVar(&dbCreateUseFolders, "folders", true, "enable folder hierarchy")

	dbUpdateCmd.Flags().StringVar(&dbUpdateDescription, "description", "", "new description")
	dbUpdateCmd.Flags().StringVar(&dbUpdateOwner, "owner", "", "new owner")

	dbCmd.AddCommand(dbCreateCmd, dbListCmd, dbInfoCmd, dbUpdateCmd, dbDeleteCmd)
	rootCmd.AddCommand(dbCmd)
}
