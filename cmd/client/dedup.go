package main

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// recentFinals remembers the last few final transcripts so that a backend
// re-sending a near-identical final is printed only once.
type recentFinals struct {
	mu        sync.Mutex
	texts     []string
	next      int
	count     int
	threshold float64
}

func newRecentFinals(capacity int, threshold float64) *recentFinals {
	if capacity <= 0 {
		capacity = 1
	}
	return &recentFinals{
		texts:     make([]string, capacity),
		threshold: threshold,
	}
}

// Seen reports whether text is similar to a remembered final. Unseen texts
// are remembered, evicting the oldest entry once full.
func (r *recentFinals) Seen(text string) bool {
	norm := normalizeText(text)
	if norm == "" {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := 0; i < r.count; i++ {
		if similarity(norm, r.texts[i]) >= r.threshold {
			return true
		}
	}
	r.texts[r.next] = norm
	r.next = (r.next + 1) % len(r.texts)
	if r.count < len(r.texts) {
		r.count++
	}
	return false
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// similarity is 1 minus the edit distance over the longer length, in runes.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
}
