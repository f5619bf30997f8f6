package search

import (
	"strings"

	"github.com/mistial-dev/deathnote/settings"
)

// DocsFromDefinitions converts setting definitions into searchable
// docs, preserving input order. The doc text folds together the key,
// title, bin, help, and tags so free-text queries hit any of them.
func DocsFromDefinitions(defs []settings.Definition) []Doc {
	docs := make([]Doc, 0, len(defs))
	for _, d := range defs {
		parts := []string{d.Key, d.Title, string(d.Bin), d.Help}
		parts = append(parts, d.Tags...)
		docs = append(docs, Doc{
			ID:   d.Key,
			Text: strings.ToLower(strings.Join(parts, " ")),
			Summary: Summary{
				Key:   d.Key,
				Title: d.Title,
				Bin:   d.Bin,
				Help:  d.Help,
				Tags:  append([]string(nil), d.Tags...),
			},
		})
	}
	return docs
}
