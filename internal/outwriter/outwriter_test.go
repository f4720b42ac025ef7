package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/pactsafe/internal/contract"
	"github.com/huangsam/pactsafe/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testGroup() *schema.Group {
	return &schema.Group{
		Key:                "checkout",
		ID:                 7,
		Type:               "clickwrap",
		Contracts:          []int64{10, 20},
		Versions:           []string{"v10", "v20"},
		AcceptanceLanguage: "I agree to the {{contracts}}",
		LegalCenterURL:     "https://example.com/legal",
		ContractData: map[string]schema.Contract{
			"10": {Title: "Terms", Key: "terms", PublishedVersion: "v10"},
			"20": {Title: "Privacy", Key: "privacy", PublishedVersion: "v20", ChangeSummary: "Cookies"},
		},
	}
}

func testStatus() schema.SignedStatus {
	s := schema.ReduceStatus(map[string]bool{"10": true, "20": false})
	s.SignerID = "user@example.com"
	s.GroupKey = "checkout"
	return s
}

func testConfig(output schema.OutputMode, outputFile string) *contract.Config {
	return &contract.Config{
		BaseURL:      schema.DefaultBaseURL,
		CacheBackend: schema.MemoryBackend,
		Output:       output,
		OutputFile:   outputFile,
		Width:        120,
	}
}

func TestGetMaxTableLinkWidth(t *testing.T) {
	tests := []struct {
		width    int
		expected int
	}{
		{60, 20},
		{120, 50},
		{400, 80},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, getMaxTableLinkWidth(&contract.Config{Width: tt.width}))
	}
}

func TestWriteGroupTable(t *testing.T) {
	var buf bytes.Buffer
	err := writeGroupTable(&buf, testGroup(), testConfig(schema.TextOut, ""), 1500*time.Millisecond)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Group checkout (id 7)")
	assert.Contains(t, out, "Terms")
	assert.Contains(t, out, "https://example.com/legal#privacy")
	assert.Contains(t, out, "Acceptance: I agree to the Terms and Privacy.")
	assert.Contains(t, out, "Completed in 1.5s")
}

func TestWriteGroupCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeGroupCSV(&buf, testGroup()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "group_key", records[0][0])
	assert.Equal(t, []string{"checkout", "7", "2", "20", "Privacy", "privacy", "v20", "https://example.com/legal#privacy", "Cookies"}, records[2])
}

func TestWriteGroupFormats(t *testing.T) {
	dir := t.TempDir()

	t.Run("json", func(t *testing.T) {
		path := filepath.Join(dir, "group.json")
		require.NoError(t, WriteGroup(testGroup(), testConfig(schema.JSONOut, path), time.Second))

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(raw, &decoded))
		assert.Equal(t, "checkout", decoded["key"])
		assert.Equal(t, "I agree to the Terms and Privacy.", decoded["acceptance_text"])
		assert.Len(t, decoded["links"], 2)
	})

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(dir, "group.yaml")
		require.NoError(t, WriteGroup(testGroup(), testConfig(schema.YAMLOut, path), time.Second))

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		var decoded map[string]any
		require.NoError(t, yaml.Unmarshal(raw, &decoded))
		assert.Equal(t, "checkout", decoded["key"])
		assert.Equal(t, 7, decoded["group"])
		assert.Equal(t, "I agree to the Terms and Privacy.", decoded["acceptance_text"])
	})

	t.Run("parquet", func(t *testing.T) {
		path := filepath.Join(dir, "group.parquet")
		require.NoError(t, WriteGroup(testGroup(), testConfig(schema.ParquetOut, path), time.Second))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	})

	t.Run("csv", func(t *testing.T) {
		path := filepath.Join(dir, "group.csv")
		require.NoError(t, WriteGroup(testGroup(), testConfig(schema.CSVOut, path), time.Second))
		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 3, strings.Count(string(raw), "\n"))
	})
}

func TestWriteStatusTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeStatusTable(&buf, testStatus(), testConfig(schema.TextOut, ""), time.Second))

	out := buf.String()
	assert.Contains(t, out, contract.AcceptedValue)
	assert.Contains(t, out, contract.OutstandingValue)
	assert.Contains(t, out, "Signer user@example.com must accept 1 contract(s) in checkout")

	buf.Reset()
	done := schema.ReduceStatus(map[string]bool{"10": true})
	done.SignerID = "user@example.com"
	done.GroupKey = "checkout"
	require.NoError(t, writeStatusTable(&buf, done, testConfig(schema.TextOut, ""), time.Second))
	assert.Contains(t, buf.String(), "has accepted every contract")
}

func TestWriteStatusCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeStatusCSV(&buf, testStatus()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"signer_id", "group_key", "contract_id", "accepted"},
		{"user@example.com", "checkout", "10", "true"},
		{"user@example.com", "checkout", "20", "false"},
	}, records)
}

func TestWriteStatusJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	require.NoError(t, WriteStatus(testStatus(), testConfig(schema.JSONOut, path), time.Second))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded schema.SignedStatus
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, testStatus(), decoded)
}

func TestWriteCacheStatus(t *testing.T) {
	status := schema.CacheStatus{Backend: "memory", Connected: true, TotalEntries: 2, MaxEntries: 256}
	dir := t.TempDir()

	textPath := filepath.Join(dir, "cache.txt")
	require.NoError(t, WriteCacheStatus(status, testConfig(schema.TextOut, textPath)))
	raw, err := os.ReadFile(textPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Total Entries: 2 / 256")

	yamlPath := filepath.Join(dir, "cache.yaml")
	require.NoError(t, WriteCacheStatus(status, testConfig(schema.YAMLOut, yamlPath)))
	raw, err = os.ReadFile(yamlPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "total_entries: 2")
}

func TestOutWriterDelegates(t *testing.T) {
	ow := NewOutWriter()
	path := filepath.Join(t.TempDir(), "status.csv")
	require.NoError(t, ow.WriteStatus(testStatus(), testConfig(schema.CSVOut, path), time.Second))
	_, err := os.Stat(path)
	require.NoError(t, err)
}
