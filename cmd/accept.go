package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/pactsafe/internal/contract"
	"github.com/spf13/cobra"
)

// acceptCmd walks a signer through the clickwrap flow for a group.
var acceptCmd = &cobra.Command{
	Use:   "accept <signer-id> <group-key>",
	Short: "Show a group to a signer and record whether they accept it",
	Long: `Run the clickwrap flow for one signer:

  1. load the group and check which contracts the signer still owes
  2. print the acceptance text, plus a change summary for returning signers
  3. record a displayed event
  4. record agreed or disagreed depending on the answer

Nothing is sent when the signer already accepted the latest versions.

Examples:
  pactsafe accept user@example.com checkout
  pactsafe accept user@example.com checkout --yes --first-name Ada`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, args []string) error {
		signer, err := signerFromFlags(cmd.Flags(), args[0])
		if err != nil {
			return err
		}
		yes, _ := cmd.Flags().GetBool("yes")
		out := cmd.OutOrStdout()

		cw := client.Clickwrap()
		if _, err := cw.Load(rootCtx, args[1]); err != nil {
			return err
		}
		status, err := cw.NeedsAcceptance(rootCtx, signer.ID)
		if err != nil {
			return err
		}
		if !status.NeedsAcceptance {
			fmt.Fprintf(out, "✅ %s has already accepted every contract in %s\n", signer.ID, args[1])
			return nil
		}

		if len(status.AcceptedContractIDs()) > 0 {
			if summary, _ := cw.ChangeSummary(status.OutstandingContractIDs); summary != "" {
				fmt.Fprintln(out, contract.HeadingColor.Sprint(summary))
			}
		}
		text, err := cw.AcceptanceText()
		if err != nil {
			return err
		}
		links, err := cw.ContractLinks()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, text)
		for _, link := range links {
			fmt.Fprintf(out, "  - %s: %s\n", link.Title, link.URL)
		}

		if err := cw.SendDisplayed(rootCtx, signer); err != nil {
			return err
		}

		if !yes {
			yes, err = confirm(cmd.InOrStdin(), out)
			if err != nil {
				return err
			}
		}
		if !yes {
			if err := cw.SendDisagreed(rootCtx, signer); err != nil {
				return err
			}
			fmt.Fprintf(out, "❌ %s declined %s\n", signer.ID, args[1])
			return nil
		}
		if err := cw.SendAgreed(rootCtx, signer); err != nil {
			return err
		}
		fmt.Fprintf(out, "✅ %s accepted %s\n", signer.ID, args[1])
		return nil
	},
}

// confirm asks a yes/no question. Anything but an explicit yes declines.
func confirm(in io.Reader, out io.Writer) (bool, error) {
	if _, err := fmt.Fprint(out, "Accept? [y/N] "); err != nil {
		return false, err
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
