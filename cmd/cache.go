package cmd

import (
	"fmt"

	"github.com/huangsam/pactsafe/internal/iocache"
	"github.com/huangsam/pactsafe/internal/outwriter"
	"github.com/spf13/cobra"
)

// cacheCmd focused on response cache management.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the response cache",
	Long: `Manage the in-process response cache that stores group loads.

The cache lives for as long as the process, so these commands matter most
for the long-running mcp server. Entries are bounded by --cache-max-entries
and expire after --cache-ttl when one is set.

Subcommands:
  status - Show cache statistics
  clear  - Remove all cached responses`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:     "clear",
	Short:   "Remove all cached responses",
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := iocache.ClearCache(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared successfully.")
		return nil
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics",
	Long: `Show the backend, entry count, limits and entry timestamps of the
response cache.

Examples:
  pactsafe cache status
  pactsafe cache status --output json`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		status, err := client.CacheStatus()
		if err != nil {
			return err
		}
		return outwriter.NewOutWriter().WriteCacheStatus(status, cfg)
	},
}
