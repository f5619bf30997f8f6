package settings

import (
	"fmt"
	"strings"
)

// DetailLevel selects how much of a setting's documentation Describe
// returns.
type DetailLevel string

// Detail levels, from cheapest to fullest.
const (
	// DetailSummary returns the title and a short help excerpt only.
	DetailSummary DetailLevel = "summary"
	// DetailFull adds the type, default, constraints, and full help text.
	DetailFull DetailLevel = "full"
)

// MaxSummaryLen caps the help excerpt returned at DetailSummary.
const MaxSummaryLen = 120

// Doc is progressive documentation for one setting.
type Doc struct {
	Key     string   `json:"key"`
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Bin     Bin      `json:"bin,omitempty"`
	Type    Type     `json:"type,omitempty"`
	Default any      `json:"default,omitempty"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Choices []string `json:"choices,omitempty"`
	Help    string   `json:"help,omitempty"`
}

// Describe returns documentation for key at the requested detail level.
// Unknown keys return ErrUnknownKey; unknown levels return
// ErrInvalidDetail.
func (s *InMemoryStore) Describe(key string, level DetailLevel) (Doc, error) {
	d, ok := s.Definition(key)
	if !ok {
		return Doc{}, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	doc := Doc{
		Key:     d.Key,
		Title:   d.Title,
		Summary: summarize(d.Help),
	}

	switch level {
	case DetailSummary:
		return doc, nil
	case DetailFull:
		doc.Bin = d.Bin
		doc.Type = d.Type
		doc.Default = d.Default
		doc.Min = d.Min
		doc.Max = d.Max
		doc.Choices = append([]string(nil), d.Choices...)
		doc.Help = d.Help
		return doc, nil
	default:
		return Doc{}, fmt.Errorf("%w: %q", ErrInvalidDetail, level)
	}
}

// summarize returns the first sentence of help, truncated to
// MaxSummaryLen.
func summarize(help string) string {
	help = strings.TrimSpace(help)
	if i := strings.Index(help, ". "); i >= 0 {
		help = help[:i+1]
	}
	if len(help) > MaxSummaryLen {
		help = help[:MaxSummaryLen]
	}
	return help
}
