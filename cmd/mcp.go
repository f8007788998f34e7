package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/skyvault-labs/s5vector/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing vector store tools for AI agents.`,
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

		// Stdout carries the MCP protocol; status goes to stderr.
		fmt.Fprintln(os.Stderr, "s5vector MCP server started on stdio")

		mcpserver.Version = Version
		srv := mcpserver.NewServer(env.Store, env.Index)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
