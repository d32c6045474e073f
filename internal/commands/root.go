// Package commands implements the statement command line tool.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/gripfinance/grip-backend/internal/version"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "statement",
		Short:   "Parse mutual fund statements and manage the Grip database",
		Version: version.Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newParseCommand())
	rootCmd.AddCommand(newMigrateCommand())

	return rootCmd
}
