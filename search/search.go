package search

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/mistial-dev/deathnote/settings"
)

// Default field boosts.
const (
	DefaultTitleBoost = 3.0
	DefaultBinBoost   = 2.0
	DefaultTagsBoost  = 2.0
)

// Summary is the ranked result returned for a matching definition.
type Summary struct {
	Key   string       `json:"key"`
	Title string       `json:"title"`
	Bin   settings.Bin `json:"bin"`
	Help  string       `json:"help,omitempty"`
	Tags  []string     `json:"tags,omitempty"`
}

// Doc is one searchable definition. ID must be unique within a set.
type Doc struct {
	ID      string
	Text    string
	Summary Summary
}

// Config customizes ranking boosts and safety limits. Zero values take
// the defaults; zero caps mean unlimited.
type Config struct {
	TitleBoost    float64
	BinBoost      float64
	TagsBoost     float64
	MaxDocs       int
	MaxDocTextLen int
}

// Searcher ranks docs with BM25 over an in-memory Bleve index. The
// index is cached by document-set fingerprint and rebuilt only when the
// set changes. Safe for concurrent use.
type Searcher struct {
	cfg Config

	mu          sync.Mutex
	idx         bleve.Index
	fingerprint string
	byID        map[string]Summary
}

// NewSearcher creates a searcher. Call Close when done to release the
// cached index.
func NewSearcher(cfg Config) *Searcher {
	if cfg.TitleBoost <= 0 {
		cfg.TitleBoost = DefaultTitleBoost
	}
	if cfg.BinBoost <= 0 {
		cfg.BinBoost = DefaultBinBoost
	}
	if cfg.TagsBoost <= 0 {
		cfg.TagsBoost = DefaultTagsBoost
	}
	return &Searcher{cfg: cfg}
}

// Close releases the cached index. The searcher can still be reused; a
// later Search rebuilds from scratch.
func (s *Searcher) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked()
}

func (s *Searcher) closeLocked() error {
	if s.idx == nil {
		return nil
	}
	err := s.idx.Close()
	s.idx = nil
	s.fingerprint = ""
	s.byID = nil
	return err
}

// Search ranks docs against query and returns at most limit summaries.
// An empty query returns the first limit docs in input order.
func (s *Searcher) Search(query string, limit int, docs []Doc) ([]Summary, error) {
	if limit <= 0 {
		return []Summary{}, nil
	}
	docs = s.capDocs(docs)

	if strings.TrimSpace(query) == "" {
		n := min(limit, len(docs))
		out := make([]Summary, 0, n)
		for _, d := range docs[:n] {
			out = append(out, d.Summary)
		}
		return out, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureIndexLocked(docs); err != nil {
		return nil, err
	}

	req := bleve.NewSearchRequest(s.buildQuery(query))
	req.Size = limit
	res, err := s.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	type hit struct {
		id    string
		score float64
	}
	hits := make([]hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hits = append(hits, hit{id: h.ID, score: h.Score})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].id < hits[j].id
	})

	out := make([]Summary, 0, len(hits))
	for _, h := range hits {
		if sum, ok := s.byID[h.id]; ok {
			out = append(out, sum)
		}
	}
	return out, nil
}

// capDocs applies the MaxDocs and MaxDocTextLen limits.
func (s *Searcher) capDocs(docs []Doc) []Doc {
	if s.cfg.MaxDocs > 0 && len(docs) > s.cfg.MaxDocs {
		docs = docs[:s.cfg.MaxDocs]
	}
	if s.cfg.MaxDocTextLen <= 0 {
		return docs
	}
	capped := make([]Doc, len(docs))
	for i, d := range docs {
		if len(d.Text) > s.cfg.MaxDocTextLen {
			d.Text = d.Text[:s.cfg.MaxDocTextLen]
		}
		capped[i] = d
	}
	return capped
}

// ensureIndexLocked rebuilds the Bleve index when the doc set changed.
func (s *Searcher) ensureIndexLocked(docs []Doc) error {
	fp := computeFingerprint(docs)
	if s.idx != nil && fp == s.fingerprint {
		return nil
	}
	if err := s.closeLocked(); err != nil {
		return fmt.Errorf("close stale index: %w", err)
	}

	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	batch := idx.NewBatch()
	byID := make(map[string]Summary, len(docs))
	for _, d := range docs {
		byID[d.ID] = d.Summary
		err := batch.Index(d.ID, map[string]any{
			"text":  d.Text,
			"title": d.Summary.Title,
			"bin":   string(d.Summary.Bin),
			"tags":  strings.Join(d.Summary.Tags, " "),
		})
		if err != nil {
			idx.Close()
			return fmt.Errorf("index doc %s: %w", d.ID, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		idx.Close()
		return fmt.Errorf("apply batch: %w", err)
	}

	s.idx = idx
	s.fingerprint = fp
	s.byID = byID
	return nil
}

// buildQuery matches the query against every field, with the boosted
// fields contributing more to the score.
func (s *Searcher) buildQuery(q string) query.Query {
	text := bleve.NewMatchQuery(q)
	text.SetField("text")

	title := bleve.NewMatchQuery(q)
	title.SetField("title")
	title.SetBoost(s.cfg.TitleBoost)

	bin := bleve.NewMatchQuery(q)
	bin.SetField("bin")
	bin.SetBoost(s.cfg.BinBoost)

	tags := bleve.NewMatchQuery(q)
	tags.SetField("tags")
	tags.SetBoost(s.cfg.TagsBoost)

	return bleve.NewDisjunctionQuery(text, title, bin, tags)
}
