// Package search provides BM25 ranking over setting definitions.
//
// # Usage
//
// The primary type is [Searcher]:
//
//	searcher := search.NewSearcher(search.Config{})
//	defer searcher.Close()
//
//	docs := search.DocsFromDefinitions(store.AllDefinitions())
//	results, err := searcher.Search("voice", 10, docs)
//
// # Configuration
//
// [Config] allows customization of field boosts and safety limits:
//
//	cfg := search.Config{
//	    TitleBoost:    3,    // Boost title matches (default: 3)
//	    BinBoost:      2,    // Boost bin matches (default: 2)
//	    TagsBoost:     2,    // Boost tag matches (default: 2)
//	    MaxDocs:       1000, // Limit documents to index (0 = unlimited)
//	    MaxDocTextLen: 5000, // Truncate long doc text (0 = unlimited)
//	}
//
// # Thread Safety
//
// Searcher is safe for concurrent use. It caches the Bleve index by a
// fingerprint of the document set and only rebuilds when the set changes.
//
// # Behavior
//
// Empty queries return the first N documents. Non-empty queries use BM25
// ranking with deterministic tie-breaking (score DESC, then ID ASC).
package search
