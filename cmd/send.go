package cmd

import (
	"fmt"
	"net/url"

	"github.com/huangsam/pactsafe/core"
	"github.com/huangsam/pactsafe/internal/contract"
	"github.com/huangsam/pactsafe/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// sendCmd records a single activity event.
var sendCmd = &cobra.Command{
	Use:   "send <event> <signer-id> <group-key>",
	Short: "Record a signer activity against a group",
	Long: `Send one activity event for a signer against the latest version of a group.

Supported events: agreed, displayed, updated, visited, sent, disagreed.

Signer attributes and extra custom data travel with the event and show up
on the platform next to the acceptance record.

Examples:
  pactsafe send agreed user@example.com checkout --first-name Ada --last-name Lovelace
  pactsafe send displayed user@example.com checkout --custom plan=pro --custom seats=5
  pactsafe send agreed user@example.com checkout --page-url https://shop.example.com/checkout`,
	Args:    cobra.ExactArgs(3),
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, args []string) error {
		event, err := schema.ParseActivityEvent(args[0])
		if err != nil {
			return err
		}
		signer, err := signerFromFlags(cmd.Flags(), args[1])
		if err != nil {
			return err
		}
		conn, err := connectionFromFlags(cmd.Flags())
		if err != nil {
			return err
		}

		group, err := client.LoadGroup(rootCtx, args[2], core.FromCache())
		if err != nil {
			return err
		}
		err = client.SendActivity(rootCtx, core.ActivityRequest{
			Event:      event,
			Signer:     signer,
			Group:      group,
			Connection: &conn,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Recorded %s for %s on %s (%d contracts)\n", event, signer.ID, group.Key, len(group.Contracts))
		return nil
	},
}

func signerFromFlags(flags *pflag.FlagSet, id string) (schema.Signer, error) {
	signer := schema.NewSigner(id)
	signer.CustomData.FirstName, _ = flags.GetString("first-name")
	signer.CustomData.LastName, _ = flags.GetString("last-name")
	signer.CustomData.CompanyName, _ = flags.GetString("company-name")
	signer.CustomData.Title, _ = flags.GetString("title")

	pairs, _ := flags.GetStringSlice("custom")
	extra, err := contract.ParseKeyValues(pairs)
	if err != nil {
		return schema.Signer{}, fmt.Errorf("--custom: %w", err)
	}
	if len(extra) > 0 {
		signer.CustomData.Extra = extra
	}
	return signer, signer.Validate()
}

func connectionFromFlags(flags *pflag.FlagSet) (schema.ConnectionData, error) {
	conn := schema.NewConnectionData()
	conn.PageTitle, _ = flags.GetString("page-title")
	conn.Referrer, _ = flags.GetString("referrer")

	pageURL, _ := flags.GetString("page-url")
	if pageURL == "" {
		return conn, nil
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return conn, fmt.Errorf("--page-url: %w", err)
	}
	conn.PageURL = pageURL
	conn.PageDomain = u.Hostname()
	conn.PagePath = u.Path
	conn.PageQuery = u.RawQuery
	return conn, nil
}
