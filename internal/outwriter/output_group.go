package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/pactsafe/internal/contract"
	"github.com/huangsam/pactsafe/internal/parquet"
	"github.com/huangsam/pactsafe/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// groupView is the serialized form of a group with its rendered text.
type groupView struct {
	schema.Group   `yaml:",inline"`
	AcceptanceText string                `json:"acceptance_text" yaml:"acceptance_text"`
	Links          []schema.ContractLink `json:"links" yaml:"links"`
}

// WriteGroup outputs a group, dispatching on the configured format.
func WriteGroup(g *schema.Group, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, newGroupView(g))
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.YAMLOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeYAML(w, newGroupView(g))
		}, "Wrote YAML"); err != nil {
			return fmt.Errorf("error writing YAML output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeGroupCSV(w, g)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteContractsParquet(parquet.ContractRows(g, time.Now()), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		reportParquet(cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeGroupTable(w, g, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

func newGroupView(g *schema.Group) groupView {
	return groupView{Group: *g, AcceptanceText: g.AcceptanceText(), Links: g.ContractLinks()}
}

// writeGroupTable prints a summary header, one row per contract and the
// acceptance text a signer would see.
func writeGroupTable(w io.Writer, g *schema.Group, cfg *contract.Config, duration time.Duration) error {
	heading := fmt.Sprintf("Group %s (id %d)", g.Key, g.ID)
	if g.Type != "" {
		heading += " · " + g.Type
	}
	if cfg.UseColors {
		heading = contract.HeadingColor.Sprint(heading)
	}
	if _, err := fmt.Fprintln(w, heading); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "ID", "Title", "Version", "Link"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	linkWidth := getMaxTableLinkWidth(cfg)
	var data [][]string
	for _, row := range parquet.ContractRows(g, time.Time{}) {
		data = append(data, []string{
			strconv.Itoa(int(row.Position) + 1),
			strconv.FormatInt(row.ContractID, 10),
			contract.TruncateText(row.Title, 30),
			row.PublishedVersion,
			contract.TruncateText(row.URL, linkWidth),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Acceptance: %s\n", g.AcceptanceText()); err != nil {
		return err
	}
	return writeFooter(w, cfg, duration)
}

// writeGroupCSV writes one record per contract.
func writeGroupCSV(w io.Writer, g *schema.Group) error {
	header := []string{
		"group_key",
		"group_id",
		"position",
		"contract_id",
		"title",
		"contract_key",
		"published_version",
		"legal_center_url",
		"change_summary",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, row := range parquet.ContractRows(g, time.Time{}) {
			summary := ""
			if row.ChangeSummary != nil {
				summary = *row.ChangeSummary
			}
			rec := []string{
				row.GroupKey,
				strconv.FormatInt(row.GroupID, 10),
				strconv.Itoa(int(row.Position) + 1),
				strconv.FormatInt(row.ContractID, 10),
				row.Title,
				row.Key,
				row.PublishedVersion,
				row.URL,
				summary,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
