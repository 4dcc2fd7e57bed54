// Package glossary maintains a bounded table of recurring names and terms
// and the target-language rendering each one has settled on. The table is
// serialized into every translation prompt so the oracle keeps terminology
// consistent across rows.
package glossary

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

type entry struct {
	term      string // original surface form, for display
	rendering string // agreed target-language form; empty until learned
	seen      uint64 // recency marker, higher = more recent
}

// Glossary maps normalized source terms to their renderings. It holds at
// most capacity entries; inserting past capacity evicts the single
// least-recently-seen entry.
type Glossary struct {
	capacity int
	clock    uint64
	entries  map[string]*entry
}

func New(capacity int) *Glossary {
	if capacity < 1 {
		capacity = 1
	}
	return &Glossary{
		capacity: capacity,
		entries:  make(map[string]*entry, capacity),
	}
}

// normalizeTerm produces the matching key: trimmed, NFC-normalized,
// lowercased.
func normalizeTerm(term string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(term)))
}

// Lookup returns the rendering recorded for term, if any. ok reports whether
// the term is known at all; the rendering may be empty for a term that has
// been observed but whose target form has not been learned yet.
func (g *Glossary) Lookup(term string) (rendering string, ok bool) {
	e, ok := g.entries[normalizeTerm(term)]
	if !ok {
		return "", false
	}
	return e.rendering, true
}

// Upsert records term with the given rendering and refreshes its recency.
// An empty rendering never overwrites a non-empty one. When the glossary is
// full and term is new, the least-recently-seen entry is evicted first.
func (g *Glossary) Upsert(term, rendering string) {
	key := normalizeTerm(term)
	if key == "" {
		return
	}

	g.clock++
	if e, ok := g.entries[key]; ok {
		if rendering != "" {
			e.rendering = rendering
		}
		e.seen = g.clock
		return
	}

	if len(g.entries) >= g.capacity {
		g.evictOldest()
	}
	g.entries[key] = &entry{
		term:      strings.TrimSpace(term),
		rendering: rendering,
		seen:      g.clock,
	}
}

func (g *Glossary) evictOldest() {
	var oldestKey string
	var oldest uint64
	first := true
	for key, e := range g.entries {
		if first || e.seen < oldest {
			oldestKey, oldest = key, e.seen
			first = false
		}
	}
	if !first {
		delete(g.entries, oldestKey)
	}
}

func (g *Glossary) Len() int {
	return len(g.entries)
}

// PromptBlock serializes the glossary as one line per term, most recently
// used first, for inclusion in the translation prompt. Terms with a learned
// rendering appear as "term = rendering"; bare terms are listed alone as
// names to keep consistent. Returns "" when the glossary is empty.
func (g *Glossary) PromptBlock() string {
	if len(g.entries) == 0 {
		return ""
	}

	all := make([]*entry, 0, len(g.entries))
	for _, e := range g.entries {
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].seen > all[j].seen })

	var sb strings.Builder
	for _, e := range all {
		if e.rendering != "" {
			fmt.Fprintf(&sb, "- %s = %s\n", e.term, e.rendering)
		} else {
			fmt.Fprintf(&sb, "- %s\n", e.term)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
