package decode

import (
	"testing"

	"github.com/huangsam/pactsafe/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validGroup = `{
  "key": "example-group",
  "group": 42,
  "contracts": [10, 20],
  "versions": ["v10", "v20"],
  "major_versions": null,
  "type": "clickwrap",
  "style": null,
  "acceptance_language": "I agree to {{contracts}}",
  "legal_center_url": "https://example.com/legal",
  "confirmation_email": true,
  "locale": "en-US",
  "render_id": "abc",
  "auto_run": false,
  "contract_data": {
    "10": {"published_version": "v10", "title": "Terms", "key": "terms", "change_summary": null},
    "20": {"published_version": "v20", "title": "Privacy", "key": "privacy"}
  }
}`

func TestDecodeGroup(t *testing.T) {
	g, err := DecodeGroup([]byte(validGroup))
	require.NoError(t, err)
	require.NotNil(t, g)

	assert.Equal(t, "example-group", g.Key)
	assert.Equal(t, int64(42), g.ID)
	assert.Equal(t, []int64{10, 20}, g.Contracts)
	assert.Equal(t, []string{"v10", "v20"}, g.Versions)
	assert.Nil(t, g.MajorVersions, "null optional field decodes as absent")
	assert.Empty(t, g.Style)
	assert.True(t, g.ConfirmationEmail)
	assert.Equal(t, "Terms", g.ContractData["10"].Title)
	assert.Empty(t, g.ContractData["10"].ChangeSummary)
	assert.Equal(t, "I agree to Terms and Privacy.", g.AcceptanceText())
}

func TestDecodeGroupMinimal(t *testing.T) {
	g, err := DecodeGroup([]byte(`{"key":"k","group":1,"contracts":[]}`))
	require.NoError(t, err)
	assert.Equal(t, "k", g.Key)
	assert.Empty(t, g.Contracts)
}

func TestDecodeGroupNullContractData(t *testing.T) {
	t.Run("null entry is absent", func(t *testing.T) {
		g, err := DecodeGroup([]byte(`{"key":"k","group":1,"contracts":[1,2],
"contract_data":{"1":null,"2":{"title":"Terms","key":"terms"}}}`))
		require.NoError(t, err)
		assert.NotContains(t, g.ContractData, "1")
		assert.Equal(t, "Terms", g.ContractData["2"].Title)
		assert.Equal(t, "By clicking below, you agree to our Terms.", g.AcceptanceText())
	})

	t.Run("all entries null", func(t *testing.T) {
		g, err := DecodeGroup([]byte(`{"key":"k","group":1,"contracts":[1],"contract_data":{"1":null}}`))
		require.NoError(t, err)
		assert.Nil(t, g.ContractData)
	})

	t.Run("null entry for unknown contract is ignored", func(t *testing.T) {
		_, err := DecodeGroup([]byte(`{"key":"k","group":1,"contracts":[1],"contract_data":{"9":null}}`))
		assert.NoError(t, err)
	})
}

func TestDecodeGroupFailures(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"missing group id", `{"key":"k","contracts":[1]}`},
		{"missing key", `{"group":1,"contracts":[1]}`},
		{"missing contracts", `{"key":"k","group":1}`},
		{"group id is a string", `{"key":"k","group":"1","contracts":[1]}`},
		{"contracts hold strings", `{"key":"k","group":1,"contracts":["1"]}`},
		{"null contracts", `{"key":"k","group":1,"contracts":null}`},
		{"contract data outside contracts", `{"key":"k","group":1,"contracts":[1],"contract_data":{"2":{"title":"x"}}}`},
		{"not an object", `[1,2,3]`},
		{"malformed", `{"key":`},
		{"empty", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := DecodeGroup([]byte(tt.payload))
			require.Error(t, err)
			assert.Nil(t, g, "no partial group on failure")
			assert.True(t, schema.IsDecodeError(err))
		})
	}
}

func TestDecodeActivityStatus(t *testing.T) {
	status, err := DecodeActivityStatus([]byte(`{"1": true, "2": false, "3": false}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"1": true, "2": false, "3": false}, status)

	reduced := schema.ReduceStatus(status)
	assert.True(t, reduced.NeedsAcceptance)
	assert.ElementsMatch(t, []string{"2", "3"}, reduced.OutstandingContractIDs)

	empty, err := DecodeActivityStatus([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDecodeActivityStatusFailures(t *testing.T) {
	for _, payload := range []string{`{"1":"yes"}`, `null`, `[true]`, `nope`, ``} {
		t.Run(payload, func(t *testing.T) {
			status, err := DecodeActivityStatus([]byte(payload))
			require.Error(t, err)
			assert.Nil(t, status)
			assert.True(t, schema.IsDecodeError(err))
		})
	}
}
