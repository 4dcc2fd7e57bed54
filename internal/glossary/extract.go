package glossary

import (
	"regexp"
	"strings"
)

// termRe matches a capitalized token: an uppercase letter followed by at
// least two more word characters. Unicode classes keep it working for
// Cyrillic and accented Latin scripts alike.
var termRe = regexp.MustCompile(`\p{Lu}[\p{L}\p{N}'’-]{2,}`)

// ExtractTerms pulls candidate glossary terms (proper-noun-shaped tokens)
// from the given texts, deduplicated case-insensitively in order of first
// appearance.
func ExtractTerms(texts ...string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, text := range texts {
		for _, tok := range termRe.FindAllString(text, -1) {
			key := normalizeTerm(tok)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, tok)
		}
	}
	return out
}

// Observe updates the glossary after a line has been translated. Candidate
// terms come from the speaker name and both source columns. A rendering is
// only recorded when the term itself appears verbatim (case-insensitively)
// in the translated line, which is the common case for names; an entry with
// a wrong rendering poisons every later row, while one with no rendering
// costs nothing. Terms without a verbatim match are refreshed unrendered.
func (g *Glossary) Observe(speaker, sourcePrimary, sourceSecondary, translated string) {
	terms := ExtractTerms(speaker, sourcePrimary, sourceSecondary)
	if len(terms) == 0 {
		return
	}

	folded := normalizeTerm(translated)
	for _, term := range terms {
		if strings.Contains(folded, normalizeTerm(term)) {
			g.Upsert(term, term)
		} else {
			g.Upsert(term, "")
		}
	}
}
