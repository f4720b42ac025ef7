package cmd

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"
)

// preloadCmd warms the response cache with one or more groups.
var preloadCmd = &cobra.Command{
	Use:   "preload <group-key>...",
	Short: "Fetch groups into the response cache in the background",
	Long: `Fetch every named group concurrently and keep the responses in the
response cache. Up to --workers requests run at once.

This is mostly useful inside a long-lived process such as the mcp server,
and as a quick check that every group key resolves.

Examples:
  pactsafe preload checkout signup billing
  pactsafe preload checkout --refresh --workers 8`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, args []string) error {
		refresh, _ := cmd.Flags().GetBool("refresh")

		var (
			mu   sync.Mutex
			errs []error
			wg   sync.WaitGroup
		)
		for _, key := range args {
			wg.Add(1)
			client.PreloadAsync(rootCtx, key, refresh, func(err error) {
				defer wg.Done()
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					errs = append(errs, err)
					fmt.Fprintf(cmd.OutOrStdout(), "⚠️  %s: %v\n", key, err)
					return
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✅ %s preloaded\n", key)
			})
		}
		wg.Wait()

		if len(errs) > 0 {
			return fmt.Errorf("%d of %d groups failed to preload: %w", len(errs), len(args), errors.Join(errs...))
		}
		return nil
	},
}
