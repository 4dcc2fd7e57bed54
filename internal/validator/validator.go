// Package validator checks that oracle output is actually written in the
// target language. A model that answers in English instead of the target
// language produces output that is syntactically fine and semantically
// useless, so a confident mismatch is treated upstream as a malformed
// response.
package validator

import (
	"fmt"
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

// minCheckRunes is the shortest text worth detecting. Dialogue lines below
// this give unreliable detections and pass unchecked.
const minCheckRunes = 20

// Validator wraps a lingua language detector. Building the detector loads
// language models and is expensive; construct once and reuse.
type Validator struct {
	det lingua.LanguageDetector
}

func New() *Validator {
	return &Validator{
		det: lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			Build(),
	}
}

// Check returns an error when text is confidently detected as a language
// other than targetCode (an ISO 639-1 code such as "sv"). Empty target
// codes, short texts, and indeterminate detections all pass.
func (v *Validator) Check(text, targetCode string) error {
	if targetCode == "" {
		return nil
	}

	text = strings.TrimSpace(text)
	if len([]rune(text)) < minCheckRunes {
		return nil
	}

	lang, ok := v.det.DetectLanguageOf(text)
	if !ok {
		return nil
	}

	detected := lang.IsoCode639_1().String()
	if !strings.EqualFold(detected, targetCode) {
		return fmt.Errorf("expected %s but detected %s", strings.ToLower(targetCode), strings.ToLower(detected))
	}
	return nil
}
