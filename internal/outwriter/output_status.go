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

// WriteStatus outputs a signed status, dispatching on the configured format.
func WriteStatus(s schema.SignedStatus, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, s)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.YAMLOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeYAML(w, s)
		}, "Wrote YAML"); err != nil {
			return fmt.Errorf("error writing YAML output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStatusCSV(w, s)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteStatusParquet(parquet.StatusRows(s, time.Now()), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		reportParquet(cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStatusTable(w, s, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

func writeStatusTable(w io.Writer, s schema.SignedStatus, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Contract", "Status"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, row := range parquet.StatusRows(s, time.Time{}) {
		label := contract.GetPlainLabel(&row.Accepted)
		if cfg.UseColors {
			label = contract.GetColorLabel(&row.Accepted)
		}
		data = append(data, []string{row.ContractID, label})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if s.NeedsAcceptance {
		if _, err := fmt.Fprintf(w, "Signer %s must accept %d contract(s) in %s\n", s.SignerID, len(s.OutstandingContractIDs), s.GroupKey); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintf(w, "Signer %s has accepted every contract in %s\n", s.SignerID, s.GroupKey); err != nil {
			return err
		}
	}
	return writeFooter(w, cfg, duration)
}

func writeStatusCSV(w io.Writer, s schema.SignedStatus) error {
	header := []string{"signer_id", "group_key", "contract_id", "accepted"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, row := range parquet.StatusRows(s, time.Time{}) {
			rec := []string{row.SignerID, row.GroupKey, row.ContractID, strconv.FormatBool(row.Accepted)}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
