package pipeline

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer strips combining marks so "Café Perú" and "Cafe Peru"
// produce the same key. Listing and detail pages are inconsistent about
// accents in Spanish names.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func normalizeKeyPart(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if folded, _, err := transform.String(foldTransformer, s); err == nil {
		return folded
	}
	return s
}

// DedupKey builds the normalized identity key for a business. Two records
// with identical names but different addresses are distinct; this is a
// deliberate heuristic, not entity resolution.
func DedupKey(name, address string) string {
	return normalizeKeyPart(name) + "-" + normalizeKeyPart(address)
}

// Deduplicator tracks which business identities a job has already admitted.
// The seen-set only grows; there is no removal.
type Deduplicator struct {
	seen map[string]struct{}
}

// NewDeduplicator creates an empty Deduplicator for one job.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]struct{})}
}

// Admit returns true for the first occurrence of a key and irrevocably marks
// it seen. Subsequent occurrences return false.
func (d *Deduplicator) Admit(name, address string) bool {
	key := DedupKey(name, address)
	if _, ok := d.seen[key]; ok {
		return false
	}
	d.seen[key] = struct{}{}
	return true
}

// Len reports how many distinct identities have been admitted.
func (d *Deduplicator) Len() int {
	return len(d.seen)
}
