// Package markup shields inline transcript markup from the translation
// model. Subtitle-style sheets carry formatting tags inside dialogue cells
// (HTML-like <i>…</i> pairs, ASS override blocks such as {\an8}); models
// tend to translate, mangle, or drop them. Shield swaps each tag for a
// numbered token [PH0], [PH1], … before the exchange, and Unshield puts
// the originals back afterwards.
package markup

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// HTML-like tags: <i>, </b>, <font color="red">
	reTag = regexp.MustCompile(`<[^<>]+>`)

	// ASS/SSA override blocks: {\i1}, {\an8\pos(10,20)}
	reOverride = regexp.MustCompile(`\{\\[^{}]*\}`)

	reToken = regexp.MustCompile(`\[PH(\d+)\]`)
)

// Shield replaces inline markup in text with numbered tokens, in order of
// appearance. The returned slice holds the originals for Unshield.
func Shield(text string) (string, []string) {
	var tags []string

	sub := func(match string) string {
		token := fmt.Sprintf("[PH%d]", len(tags))
		tags = append(tags, match)
		return token
	}

	text = reTag.ReplaceAllStringFunc(text, sub)
	text = reOverride.ReplaceAllStringFunc(text, sub)

	return text, tags
}

// Unshield substitutes tokens in text back with the tags captured by
// Shield. Tokens with indices Shield never issued are left untouched.
func Unshield(text string, tags []string) string {
	return reToken.ReplaceAllStringFunc(text, func(match string) string {
		m := reToken.FindStringSubmatch(match)
		idx, err := strconv.Atoi(m[1])
		if err != nil || idx >= len(tags) {
			return match
		}
		return tags[idx]
	})
}

// Missing reports the indices of tokens that the model dropped from the
// translated text.
func Missing(text string, tags []string) []int {
	var missing []int
	for i := range tags {
		if !strings.Contains(text, fmt.Sprintf("[PH%d]", i)) {
			missing = append(missing, i)
		}
	}
	return missing
}

// Hint is appended to the prompt whenever Shield captured at least one tag.
const Hint = "Keep every [PHn] token exactly where it belongs in the translation. Do not translate, reorder, or remove them."
