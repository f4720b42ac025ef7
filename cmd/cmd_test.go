package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/huangsam/pactsafe/schema"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGroupJSON = `{"key":"checkout","group":7,"contracts":[10,11],"versions":["v10","v11"],
"legal_center_url":"https://example.com/legal",
"contract_data":{"10":{"title":"Terms","key":"terms","published_version":"v10"},
"11":{"title":"Privacy Policy","key":"privacy","published_version":"v11"}}}`

// platform fakes the three endpoints and records every activity sent.
type platform struct {
	mu     sync.Mutex
	events []url.Values
	status string
}

func (p *platform) sent() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, q := range p.events {
		out[i] = q.Get("et")
	}
	return out
}

func newPlatform(t *testing.T, status string) (*platform, string) {
	t.Helper()
	p := &platform{status: status}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("sid") != "site-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case schema.GroupPath:
			if r.URL.Query().Get("gkey") != "checkout" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = w.Write([]byte(testGroupJSON))
		case schema.ActivityPath:
			p.mu.Lock()
			p.events = append(p.events, r.URL.Query())
			p.mu.Unlock()
		case schema.StatusPath:
			_, _ = w.Write([]byte(p.status))
		}
	}))
	t.Cleanup(srv.Close)
	return p, srv.URL
}

// run executes the CLI with the given arguments and captures command output.
func run(t *testing.T, baseURL, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	full := append([]string{"--site-access-id", "site-123", "--base-url", baseURL, "--color", "no"}, args...)
	rootCmd.SetArgs(full)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestGroupCommandWritesJSON(t *testing.T) {
	_, base := newPlatform(t, `{}`)
	path := filepath.Join(t.TempDir(), "group.json")

	_, err := run(t, base, "", "group", "checkout", "--output", "json", "--output-file", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded struct {
		Key            string `json:"key"`
		AcceptanceText string `json:"acceptance_text"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "checkout", decoded.Key)
	assert.Equal(t, "By clicking below, you agree to our Terms and Privacy Policy.", decoded.AcceptanceText)
}

func TestGroupCommandUnknownKey(t *testing.T) {
	_, base := newPlatform(t, `{}`)
	_, err := run(t, base, "", "group", "missing", "--output", "json", "--output-file", filepath.Join(t.TempDir(), "x.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestPreloadCommand(t *testing.T) {
	_, base := newPlatform(t, `{}`)

	out, err := run(t, base, "", "preload", "checkout")
	require.NoError(t, err)
	assert.Contains(t, out, "checkout preloaded")

	out, err = run(t, base, "", "preload", "checkout", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 groups failed")
	assert.Contains(t, out, "missing")
}

func TestSendCommand(t *testing.T) {
	p, base := newPlatform(t, `{}`)

	out, err := run(t, base, "", "send", "agreed", "user@example.com", "checkout",
		"--first-name", "Ada", "--custom", "plan=pro", "--page-url", "https://shop.example.com/checkout?step=2")
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded agreed for user@example.com on checkout")

	require.Len(t, p.events, 1)
	q := p.events[0]
	assert.Equal(t, "agreed", q.Get("et"))
	assert.Equal(t, "user@example.com", q.Get("sig"))
	assert.Equal(t, "10,11", q.Get("cid"))
	assert.Equal(t, "shop.example.com", q.Get("page_domain"))
	assert.Equal(t, "step=2", q.Get("page_query"))
	assert.Contains(t, q.Get("cus"), `"plan":"pro"`)
	assert.Contains(t, q.Get("cus"), `"first_name":"Ada"`)
}

func TestSendCommandRejectsBadEvent(t *testing.T) {
	p, base := newPlatform(t, `{}`)
	_, err := run(t, base, "", "send", "clicked", "user@example.com", "checkout")
	require.Error(t, err)
	assert.Empty(t, p.sent())
}

func TestAcceptCommand(t *testing.T) {
	t.Run("already accepted sends nothing", func(t *testing.T) {
		p, base := newPlatform(t, `{"10":true,"11":true}`)
		out, err := run(t, base, "", "accept", "user@example.com", "checkout", "--yes")
		require.NoError(t, err)
		assert.Contains(t, out, "already accepted")
		assert.Empty(t, p.sent())
	})

	t.Run("returning signer sees change summary", func(t *testing.T) {
		p, base := newPlatform(t, `{"10":true,"11":false}`)
		out, err := run(t, base, "y\n", "accept", "user@example.com", "checkout", "--yes=false")
		require.NoError(t, err)
		assert.Contains(t, out, "We've updated the following: Privacy Policy.")
		assert.Contains(t, out, "Accept? [y/N]")
		assert.Equal(t, []string{"displayed", "agreed"}, p.sent())
	})

	t.Run("declined", func(t *testing.T) {
		p, base := newPlatform(t, `{"10":false,"11":false}`)
		out, err := run(t, base, "n\n", "accept", "user@example.com", "checkout", "--yes=false")
		require.NoError(t, err)
		assert.NotContains(t, out, "We've updated")
		assert.Contains(t, out, "declined")
		assert.Equal(t, []string{"displayed", "disagreed"}, p.sent())
	})
}

func TestConfigValidationFailsBeforeIO(t *testing.T) {
	p, base := newPlatform(t, `{}`)
	_, err := run(t, base, "", "send", "agreed", "user@example.com", "checkout", "--workers", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers")
	assert.Empty(t, p.sent())

	// restore the default for later tests sharing the root command
	_, err = run(t, base, "", "version", "--workers", "4")
	require.NoError(t, err)
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" yes ", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"sure\n", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got, err := confirm(strings.NewReader(tt.input), &out)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Equal(t, "Accept? [y/N] ", out.String())
	}
}

func TestSignerFromFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addSignerFlags(flags)
	require.NoError(t, flags.Parse([]string{"--first-name", "Ada", "--title", "CTO", "--custom", "plan=pro", "--custom", "seats=5"}))

	signer, err := signerFromFlags(flags, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada", signer.CustomData.FirstName)
	assert.Equal(t, "CTO", signer.CustomData.Title)
	assert.Equal(t, map[string]string{"plan": "pro", "seats": "5"}, signer.CustomData.Extra)

	_, err = signerFromFlags(flags, "")
	assert.Error(t, err)

	bad := pflag.NewFlagSet("bad", pflag.ContinueOnError)
	addSignerFlags(bad)
	require.NoError(t, bad.Parse([]string{"--custom", "novalue"}))
	_, err = signerFromFlags(bad, "user@example.com")
	assert.ErrorContains(t, err, "--custom")
}

func TestConnectionFromFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("page-url", "", "")
	flags.String("page-title", "", "")
	flags.String("referrer", "", "")
	require.NoError(t, flags.Parse([]string{"--page-url", "https://shop.example.com/cart?x=1", "--page-title", "Cart"}))

	conn, err := connectionFromFlags(flags)
	require.NoError(t, err)
	assert.Equal(t, "shop.example.com", conn.PageDomain)
	assert.Equal(t, "/cart", conn.PagePath)
	assert.Equal(t, "x=1", conn.PageQuery)
	assert.Equal(t, "Cart", conn.PageTitle)
	assert.Equal(t, schema.ClientLibrary, conn.ClientLibrary)
}
