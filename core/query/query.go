// Package query builds the canonical, escaped query strings sent to the
// consent platform endpoints.
package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/gowebpki/jcs"
	"github.com/huangsam/pactsafe/schema"
)

const upperhex = "0123456789ABCDEF"

// Param is a single query parameter.
type Param struct {
	Name  string
	Value string
}

// Params is an ordered parameter list. Order is preserved on the wire.
type Params []Param

// Add appends a parameter.
func (p *Params) Add(name, value string) {
	*p = append(*p, Param{Name: name, Value: value})
}

// AddOptional appends a parameter only when ok is true.
func (p *Params) AddOptional(name, value string, ok bool) {
	if ok {
		p.Add(name, value)
	}
}

// Get returns the first value stored under name.
func (p Params) Get(name string) (string, bool) {
	for _, param := range p {
		if param.Name == name {
			return param.Value, true
		}
	}
	return "", false
}

// Names returns the parameter names in order.
func (p Params) Names() []string {
	names := make([]string, len(p))
	for i, param := range p {
		names[i] = param.Name
	}
	return names
}

// Encode renders the list as a query string. Each value is escaped
// exactly once with EscapeString.
func (p Params) Encode() string {
	var sb strings.Builder
	for i, param := range p {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(EscapeString(param.Name))
		sb.WriteByte('=')
		sb.WriteString(EscapeString(param.Value))
	}
	return sb.String()
}

// EscapeString percent-escapes every byte outside the RFC 3986 unreserved
// set. The output is safe inside a host, a path segment or a query value.
func EscapeString(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !unreserved(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(upperhex[c>>4])
		sb.WriteByte(upperhex[c&15])
	}
	return sb.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}

// FormatContractIDs comma-joins ids. The second result is false for an
// empty list, which callers treat as "omit the parameter".
func FormatContractIDs(ids []int64) (string, bool) {
	if len(ids) == 0 {
		return "", false
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ","), true
}

// FormatVersions comma-joins version ids, omitting an empty list.
func FormatVersions(versions []string) (string, bool) {
	if len(versions) == 0 {
		return "", false
	}
	return strings.Join(versions, ","), true
}

// FormatBool renders the literal strings "true" and "false".
func FormatBool(b bool) string {
	return strconv.FormatBool(b)
}

// EncodeJSON marshals v into canonical compact JSON (RFC 8785), so the
// same data always yields the same parameter value.
func EncodeJSON(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal json: %w", err)
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("canonicalize json: %w", err)
	}
	return string(canonical), nil
}

// GroupParams builds the group-load parameters.
func GroupParams(siteAccessID, groupKey string) Params {
	var p Params
	p.Add("sid", siteAccessID)
	p.Add("gkey", groupKey)
	return p
}

// StatusParams builds the signed-status parameters.
func StatusParams(signerID, groupKey string, testMode bool, siteAccessID string) Params {
	var p Params
	p.Add("sig", signerID)
	p.Add("gkey", groupKey)
	p.Add("tm", FormatBool(testMode))
	p.Add("sid", siteAccessID)
	return p
}

// ActivityInput is the flattened data for one activity send.
type ActivityInput struct {
	Event             schema.ActivityEvent
	SignerID          string
	ContractIDs       []int64
	Versions          []string
	GroupID           int64
	ConfirmationEmail bool
	TestMode          bool
	SiteAccessID      string
	CustomData        schema.CustomData
	Connection        schema.ConnectionData
}

// ActivityParams builds the activity-send parameters: et, sig, cid, vid,
// gid, cnf, tm, sid and cus, followed by the connection fields sorted by
// name.
func ActivityParams(in ActivityInput) (Params, error) {
	cus, err := EncodeJSON(in.CustomData)
	if err != nil {
		return nil, fmt.Errorf("custom data: %w", err)
	}

	var p Params
	p.Add("et", string(in.Event))
	p.Add("sig", in.SignerID)
	cid, ok := FormatContractIDs(in.ContractIDs)
	p.AddOptional("cid", cid, ok)
	vid, ok := FormatVersions(in.Versions)
	p.AddOptional("vid", vid, ok)
	p.Add("gid", strconv.FormatInt(in.GroupID, 10))
	p.Add("cnf", FormatBool(in.ConfirmationEmail))
	p.Add("tm", FormatBool(in.TestMode))
	p.Add("sid", in.SiteAccessID)
	p.Add("cus", cus)

	fields := in.Connection.Fields()
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p.Add(name, fields[name])
	}
	return p, nil
}

// BuildURL joins base, path and params into a request URL. An unusable
// base fails with *schema.URLConstructionError.
func BuildURL(base, path string, params Params) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", &schema.URLConstructionError{URL: base, Err: err}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", &schema.URLConstructionError{URL: base, Err: fmt.Errorf("unsupported scheme %q", u.Scheme)}
	}
	if u.Host == "" {
		return "", &schema.URLConstructionError{URL: base, Err: errors.New("missing host")}
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return "", &schema.URLConstructionError{URL: base, Err: errors.New("base must not carry a query or fragment")}
	}

	raw := strings.TrimRight(base, "/") + path
	if len(params) > 0 {
		raw += "?" + params.Encode()
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return "", &schema.URLConstructionError{URL: raw, Err: err}
	}
	return raw, nil
}
