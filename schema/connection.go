package schema

import (
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ConnectionData is the environment metadata attached to every activity.
// It is built fresh for each send.
type ConnectionData struct {
	ClientLibrary     string `json:"client_library"`
	ClientVersion     string `json:"client_version"`
	DeviceFingerprint string `json:"device_fingerprint"`
	Environment       string `json:"environment"`
	OperatingSystem   string `json:"operating_system"`
	ScreenResolution  string `json:"screen_resolution,omitempty"`
	BrowserLocale     string `json:"browser_locale"`
	BrowserTimezone   string `json:"browser_timezone"`
	PageDomain        string `json:"page_domain,omitempty"`
	PagePath          string `json:"page_path,omitempty"`
	PageQuery         string `json:"page_query,omitempty"`
	PageTitle         string `json:"page_title,omitempty"`
	PageURL           string `json:"page_url,omitempty"`
	Referrer          string `json:"referrer,omitempty"`
}

// NewConnectionData describes the running process.
func NewConnectionData() ConnectionData {
	return ConnectionData{
		ClientLibrary:     ClientLibrary,
		ClientVersion:     ClientVersion,
		DeviceFingerprint: DeviceFingerprint(),
		Environment:       "server",
		OperatingSystem:   runtime.GOOS + " " + runtime.GOARCH,
		BrowserLocale:     currentLocale(),
		BrowserTimezone:   currentTimezone(),
	}
}

// DeviceFingerprint returns a stable identifier for this host.
func DeviceFingerprint() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown-host"
	}
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(host)).String()
}

// Fields returns the non-empty connection fields keyed by wire name.
func (c ConnectionData) Fields() map[string]string {
	all := map[string]string{
		"client_library":     c.ClientLibrary,
		"client_version":     c.ClientVersion,
		"device_fingerprint": c.DeviceFingerprint,
		"environment":        c.Environment,
		"operating_system":   c.OperatingSystem,
		"screen_resolution":  c.ScreenResolution,
		"browser_locale":     c.BrowserLocale,
		"browser_timezone":   c.BrowserTimezone,
		"page_domain":        c.PageDomain,
		"page_path":          c.PagePath,
		"page_query":         c.PageQuery,
		"page_title":         c.PageTitle,
		"page_url":           c.PageURL,
		"referrer":           c.Referrer,
	}
	for k, v := range all {
		if v == "" {
			delete(all, k)
		}
	}
	return all
}

func currentLocale() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(key)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		return v
	}
	return "en_US"
}

func currentTimezone() string {
	if tz := os.Getenv("TZ"); tz != "" {
		return strings.TrimPrefix(tz, ":")
	}
	if name := time.Local.String(); name != "Local" {
		return name
	}
	name, _ := time.Now().Zone()
	return name
}
