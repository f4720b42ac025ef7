package cmd

import (
	"time"

	"github.com/huangsam/pactsafe/core"
	"github.com/huangsam/pactsafe/internal/outwriter"
	"github.com/spf13/cobra"
)

// groupCmd loads one contract group and prints its contracts.
var groupCmd = &cobra.Command{
	Use:   "group <group-key>",
	Short: "Show the contracts, versions and acceptance text of a group",
	Long: `Load a contract group from the platform and print its contracts.

The table output lists each contract with its published version and a
link into the legal center, followed by the acceptance sentence a signer
would see.

Examples:
  # Print the checkout group
  pactsafe group checkout --site-access-id $SID

  # Export the contracts for reporting
  pactsafe group checkout --output parquet --output-file checkout.parquet`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts []core.CallOption
		if fromCache, _ := cmd.Flags().GetBool("from-cache"); fromCache {
			opts = append(opts, core.FromCache())
		}

		start := time.Now()
		group, err := client.LoadGroup(rootCtx, args[0], opts...)
		if err != nil {
			return err
		}
		return outwriter.NewOutWriter().WriteGroup(group, cfg, time.Since(start))
	},
}
