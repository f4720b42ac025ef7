package cmd

import (
	"time"

	"github.com/huangsam/pactsafe/internal/outwriter"
	"github.com/spf13/cobra"
)

// statusCmd reports which contracts a signer still owes.
var statusCmd = &cobra.Command{
	Use:   "status <signer-id> <group-key>",
	Short: "Check whether a signer has accepted the latest contracts of a group",
	Long: `Ask the platform which contracts of a group the signer has accepted at
their latest published version.

Examples:
  pactsafe status user@example.com checkout
  pactsafe status user@example.com checkout --output json`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, args []string) error {
		start := time.Now()
		status, err := client.SignedStatus(rootCtx, args[0], args[1])
		if err != nil {
			return err
		}
		return outwriter.NewOutWriter().WriteStatus(status, cfg, time.Since(start))
	},
}
