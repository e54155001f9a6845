package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/banksync-dev/banksync/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "banksync",
		Short:   "Mirror bank transactions into a personal-finance ledger",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newSyncCommand())
	rootCmd.AddCommand(newInitCommand())

	return rootCmd
}
