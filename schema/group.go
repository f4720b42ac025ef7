package schema

import (
	"strconv"
	"strings"
)

// Group is a named bundle of contracts that a signer accepts together.
// Values are decoded from the group-load endpoint and never mutated.
type Group struct {
	Key                 string              `json:"key" yaml:"key"`
	ID                  int64               `json:"group" yaml:"group"`
	Contracts           []int64             `json:"contracts" yaml:"contracts"`
	Versions            []string            `json:"versions" yaml:"versions"`
	MajorVersions       []string            `json:"major_versions,omitempty" yaml:"major_versions,omitempty"`
	Type                string              `json:"type,omitempty" yaml:"type,omitempty"`
	Style               string              `json:"style,omitempty" yaml:"style,omitempty"`
	AcceptanceLanguage  string              `json:"acceptance_language,omitempty" yaml:"acceptance_language,omitempty"`
	LegalCenterURL      string              `json:"legal_center_url,omitempty" yaml:"legal_center_url,omitempty"`
	ContractData        map[string]Contract `json:"contract_data,omitempty" yaml:"contract_data,omitempty"`
	ConfirmationEmail   bool                `json:"confirmation_email" yaml:"confirmation_email"`
	BlockFormSubmission bool                `json:"block_form_submission,omitempty" yaml:"block_form_submission,omitempty"`
	AlertMessage        string              `json:"alert_message,omitempty" yaml:"alert_message,omitempty"`
	Triggered           bool                `json:"triggered,omitempty" yaml:"triggered,omitempty"`
	DisplayAll          bool                `json:"display_all,omitempty" yaml:"display_all,omitempty"`
	RenderedTime        int64               `json:"rendered_time,omitempty" yaml:"rendered_time,omitempty"`
	ContractHTML        string              `json:"contract_html,omitempty" yaml:"contract_html,omitempty"`
	Locale              string              `json:"locale,omitempty" yaml:"locale,omitempty"`
}

// Contract holds the per-contract metadata published with a group.
type Contract struct {
	PublishedVersion string `json:"published_version,omitempty" yaml:"published_version,omitempty"`
	Title            string `json:"title,omitempty" yaml:"title,omitempty"`
	Key              string `json:"key,omitempty" yaml:"key,omitempty"`
	ChangeSummary    string `json:"change_summary,omitempty" yaml:"change_summary,omitempty"`
}

// ContractLink is a contract title with its legal center anchor.
type ContractLink struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ContractIDs returns the contract ids as strings, in group order.
func (g *Group) ContractIDs() []string {
	ids := make([]string, len(g.Contracts))
	for i, id := range g.Contracts {
		ids[i] = strconv.FormatInt(id, 10)
	}
	return ids
}

// CleanAcceptanceLanguage returns the acceptance language with every
// occurrence of param removed. The default template is used when the
// group carries none.
func (g *Group) CleanAcceptanceLanguage(param string) string {
	language := g.AcceptanceLanguage
	if language == "" {
		language = DefaultAcceptanceLanguage
	}
	return strings.ReplaceAll(language, param, "")
}

// ContractLinks returns title and legal center link for every contract
// that has metadata, ordered by the group's contract list.
func (g *Group) ContractLinks() []ContractLink {
	return g.linksFor(g.ContractIDs())
}

// AcceptanceText renders the acceptance language as plain text with the
// contract titles appended in place of the placeholder.
func (g *Group) AcceptanceText() string {
	prefix := g.CleanAcceptanceLanguage(ContractsPlaceholder)
	titles := titlesOf(g.ContractLinks())
	if len(titles) == 0 {
		return strings.TrimSpace(prefix)
	}
	if prefix != "" && !strings.HasSuffix(prefix, " ") {
		prefix += " "
	}
	return prefix + JoinTitles(titles) + "."
}

// ChangeSummary describes which of the given contracts were updated.
// It returns an empty string when none of the ids has metadata.
func (g *Group) ChangeSummary(contractIDs []string) string {
	titles := titlesOf(g.linksFor(contractIDs))
	if len(titles) == 0 {
		return ""
	}
	return ChangeSummaryPrefix + JoinTitles(titles) + "."
}

func (g *Group) linksFor(ids []string) []ContractLink {
	links := make([]ContractLink, 0, len(ids))
	for _, id := range ids {
		c, ok := g.ContractData[id]
		if !ok {
			continue
		}
		links = append(links, ContractLink{
			ID:    id,
			Title: c.Title,
			URL:   g.LegalCenterURL + "#" + c.Key,
		})
	}
	return links
}

func titlesOf(links []ContractLink) []string {
	titles := make([]string, 0, len(links))
	for _, l := range links {
		if l.Title != "" {
			titles = append(titles, l.Title)
		}
	}
	return titles
}

// JoinTitles joins titles into a readable list: "A", "A and B",
// "A, B and C".
func JoinTitles(titles []string) string {
	switch len(titles) {
	case 0:
		return ""
	case 1:
		return titles[0]
	default:
		return strings.Join(titles[:len(titles)-1], ", ") + " and " + titles[len(titles)-1]
	}
}
