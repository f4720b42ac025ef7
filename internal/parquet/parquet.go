// Package parquet exports groups and signed status as Parquet files
// using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/huangsam/pactsafe/schema"
	"github.com/parquet-go/parquet-go"
)

// ContractRow is one contract of a loaded group.
type ContractRow struct {
	// GroupKey and GroupID identify the parent group
	GroupKey string `parquet:"group_key,snappy"`
	GroupID  int64  `parquet:"group_id,snappy"`

	// Position is the contract's index in the group's contract list
	Position int32 `parquet:"position,snappy"`

	ContractID       int64  `parquet:"contract_id,snappy"`
	Title            string `parquet:"title,snappy"`
	Key              string `parquet:"contract_key,snappy"`
	PublishedVersion string `parquet:"published_version,snappy"`
	URL              string `parquet:"legal_center_url,snappy"`

	// ChangeSummary is only present when the platform supplied one
	ChangeSummary *string `parquet:"change_summary,optional,snappy"`

	// LoadedAt is when the group was fetched (nanosecond TIMESTAMP)
	LoadedAt time.Time `parquet:"loaded_at,snappy"`
}

// StatusRow is the acceptance state of one contract for one signer.
type StatusRow struct {
	SignerID   string    `parquet:"signer_id,snappy"`
	GroupKey   string    `parquet:"group_key,snappy"`
	ContractID string    `parquet:"contract_id,snappy"`
	Accepted   bool      `parquet:"accepted,snappy"`
	CheckedAt  time.Time `parquet:"checked_at,snappy"`
}

// ContractRows flattens a group in contract order. Contracts without
// metadata are kept with empty descriptive columns.
func ContractRows(g *schema.Group, loadedAt time.Time) []ContractRow {
	rows := make([]ContractRow, 0, len(g.Contracts))
	for i, id := range g.Contracts {
		data := g.ContractData[strconv.FormatInt(id, 10)]
		row := ContractRow{
			GroupKey:         g.Key,
			GroupID:          g.ID,
			Position:         int32(i),
			ContractID:       id,
			Title:            data.Title,
			Key:              data.Key,
			PublishedVersion: data.PublishedVersion,
			LoadedAt:         loadedAt,
		}
		if data.Key != "" {
			row.URL = g.LegalCenterURL + "#" + data.Key
		}
		if data.ChangeSummary != "" {
			summary := data.ChangeSummary
			row.ChangeSummary = &summary
		}
		rows = append(rows, row)
	}
	return rows
}

// StatusRows flattens a signed status ordered like its outstanding list,
// accepted contracts first.
func StatusRows(s schema.SignedStatus, checkedAt time.Time) []StatusRow {
	rows := make([]StatusRow, 0, len(s.Contracts))
	for _, id := range s.AcceptedContractIDs() {
		rows = append(rows, StatusRow{SignerID: s.SignerID, GroupKey: s.GroupKey, ContractID: id, Accepted: true, CheckedAt: checkedAt})
	}
	for _, id := range s.OutstandingContractIDs {
		rows = append(rows, StatusRow{SignerID: s.SignerID, GroupKey: s.GroupKey, ContractID: id, Accepted: false, CheckedAt: checkedAt})
	}
	return rows
}

// WriteContractsParquet writes contract rows to outputPath.
func WriteContractsParquet(data []ContractRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteStatusParquet writes status rows to outputPath.
func WriteStatusParquet(data []StatusRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet infers the file schema from T's struct tags.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}
