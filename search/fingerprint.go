package search

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"
)

// computeFingerprint generates a stable hash of the document slice.
// The fingerprint changes when document content changes, enabling
// efficient cache invalidation for the BM25 index.
func computeFingerprint(docs []Doc) string {
	h := sha256.New()

	for _, doc := range docs {
		h.Write([]byte(doc.ID))
		h.Write([]byte{0}) // separator

		h.Write([]byte(doc.Text))
		h.Write([]byte{0})

		h.Write([]byte(doc.Summary.Key))
		h.Write([]byte{0})
		h.Write([]byte(doc.Summary.Title))
		h.Write([]byte{0})
		h.Write([]byte(doc.Summary.Bin))
		h.Write([]byte{0})
		h.Write([]byte(doc.Summary.Help))
		h.Write([]byte{0})

		// Tags sorted for order-independence
		sortedTags := slices.Clone(doc.Summary.Tags)
		slices.Sort(sortedTags)
		h.Write([]byte(strings.Join(sortedTags, "\x01")))
		h.Write([]byte{0})
	}

	return hex.EncodeToString(h.Sum(nil))
}
