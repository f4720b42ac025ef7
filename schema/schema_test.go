package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduceStatus(t *testing.T) {
	tests := []struct {
		name        string
		input       map[string]bool
		needs       bool
		outstanding []string
	}{
		{"mixed", map[string]bool{"1": true, "2": false, "3": false}, true, []string{"2", "3"}},
		{"all accepted", map[string]bool{"1": true, "2": true}, false, []string{}},
		{"empty", map[string]bool{}, false, []string{}},
		{"numeric order", map[string]bool{"100": false, "9": false, "20": true}, true, []string{"9", "100"}},
		{"non numeric last", map[string]bool{"b": false, "a": false, "7": false}, true, []string{"7", "a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := ReduceStatus(tt.input)
			assert.Equal(t, tt.needs, status.NeedsAcceptance)
			assert.Equal(t, tt.outstanding, status.OutstandingContractIDs)
			assert.Equal(t, tt.input, status.Contracts)
		})
	}
}

func TestAcceptedContractIDs(t *testing.T) {
	status := ReduceStatus(map[string]bool{"30": true, "4": true, "7": false})
	assert.Equal(t, []string{"4", "30"}, status.AcceptedContractIDs())
	assert.Empty(t, ReduceStatus(nil).AcceptedContractIDs())
}

func TestParseActivityEvent(t *testing.T) {
	for _, event := range AllActivityEvents {
		got, err := ParseActivityEvent(string(event))
		require.NoError(t, err)
		assert.Equal(t, event, got)
	}

	got, err := ParseActivityEvent("  AGREED ")
	require.NoError(t, err)
	assert.Equal(t, Agreed, got)

	_, err = ParseActivityEvent("clicked")
	assert.ErrorIs(t, err, ErrUnknownEvent)
}

func TestCustomDataJSON(t *testing.T) {
	t.Run("reserved wins over extras", func(t *testing.T) {
		data := CustomData{
			FirstName: "Ada",
			Title:     "Engineer",
			Extra:     map[string]string{"plan": "pro", "first_name": "ignored"},
		}
		b, err := json.Marshal(data)
		require.NoError(t, err)
		assert.JSONEq(t, `{"first_name":"Ada","title":"Engineer","plan":"pro"}`, string(b))
	})

	t.Run("unset reserved keeps extra", func(t *testing.T) {
		data := CustomData{Extra: map[string]string{"title": "from extra"}}
		assert.Equal(t, map[string]string{"title": "from extra"}, data.Fields())
	})

	t.Run("device name uses the platform key", func(t *testing.T) {
		data := CustomData{DeviceName: "build-host"}
		b, err := json.Marshal(data)
		require.NoError(t, err)
		assert.JSONEq(t, `{"ios_device_name":"build-host"}`, string(b))

		var decoded CustomData
		require.NoError(t, json.Unmarshal(b, &decoded))
		assert.Equal(t, "build-host", decoded.DeviceName)
		assert.Nil(t, decoded.Extra)
	})

	t.Run("decode splits extras", func(t *testing.T) {
		var data CustomData
		err := json.Unmarshal([]byte(`{"last_name":"Lovelace","plan":"pro"}`), &data)
		require.NoError(t, err)
		assert.Equal(t, "Lovelace", data.LastName)
		assert.Equal(t, map[string]string{"plan": "pro"}, data.Extra)
	})
}

func TestSignerValidate(t *testing.T) {
	assert.Error(t, Signer{}.Validate())
	assert.NoError(t, NewSigner("user@example.com").Validate())
}

func TestConnectionData(t *testing.T) {
	conn := NewConnectionData()
	assert.Equal(t, ClientLibrary, conn.ClientLibrary)
	assert.Equal(t, ClientVersion, conn.ClientVersion)
	assert.Equal(t, DeviceFingerprint(), conn.DeviceFingerprint, "fingerprint is stable per host")

	fields := conn.Fields()
	assert.NotContains(t, fields, "page_title")
	conn.PageTitle = "Checkout"
	assert.Equal(t, "Checkout", conn.Fields()["page_title"])
}

func TestErrorTaxonomy(t *testing.T) {
	cause := errors.New("boom")

	t.Run("wrapped errors keep their class", func(t *testing.T) {
		err := fmt.Errorf("load group: %w", &TransportError{Method: "GET", Err: cause})
		assert.True(t, IsTransportError(err))
		assert.ErrorIs(t, err, cause)
		assert.False(t, IsHTTPError(err))
	})

	t.Run("http status is recoverable", func(t *testing.T) {
		err := fmt.Errorf("wrap: %w", &HTTPError{StatusCode: 404, Status: "404 Not Found"})
		assert.True(t, IsHTTPError(err))
		assert.Equal(t, 404, StatusCode(err))
		assert.Equal(t, 0, StatusCode(cause))
	})

	t.Run("configuration error", func(t *testing.T) {
		err := &ConfigurationError{Field: "site_access_id", Err: ErrMissingSiteAccessID}
		assert.True(t, IsConfigurationError(err))
		assert.ErrorIs(t, err, ErrMissingSiteAccessID)
		assert.Contains(t, err.Error(), "site_access_id")
	})

	t.Run("decode and url errors", func(t *testing.T) {
		assert.True(t, IsDecodeError(&DecodeError{Target: "group", Err: cause}))
		assert.True(t, IsURLConstructionError(&URLConstructionError{URL: "::", Err: cause}))
	})
}

func TestCacheModeString(t *testing.T) {
	assert.Equal(t, "none", CacheNone.String())
	assert.Equal(t, "use", CacheUse.String())
	assert.Equal(t, "refresh", CacheRefresh.String())
}
