package validator

import (
	"strings"
	"testing"
)

// Building the detector loads language models; share one across tests.
var shared = New()

func TestCheck_EmptyTargetCodePasses(t *testing.T) {
	if err := shared.Check("This is clearly English text of some length.", ""); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCheck_ShortTextPasses(t *testing.T) {
	// Under 20 runes, detection is skipped regardless of language.
	if err := shared.Check("Okej då.", "sv"); err != nil {
		t.Errorf("unexpected error for short text: %v", err)
	}
}

func TestCheck_MatchingLanguagePasses(t *testing.T) {
	text := "Jag förstår inte varför du alltid kommer för sent till våra möten."
	if err := shared.Check(text, "sv"); err != nil {
		t.Errorf("unexpected error for Swedish text: %v", err)
	}
}

func TestCheck_TargetCodeCaseInsensitive(t *testing.T) {
	text := "Jag förstår inte varför du alltid kommer för sent till våra möten."
	if err := shared.Check(text, "SV"); err != nil {
		t.Errorf("unexpected error for uppercase target code: %v", err)
	}
}

func TestCheck_MismatchedLanguageFails(t *testing.T) {
	text := "I am sorry, but I cannot translate this sentence for you right now."
	err := shared.Check(text, "sv")
	if err == nil {
		t.Fatal("expected error for English text against Swedish target")
	}
	if !strings.Contains(err.Error(), "sv") {
		t.Errorf("expected error to name the target code, got %q", err)
	}
}
