package oracle

import (
	"strings"
	"testing"
)

func TestBuildSystemPrompt(t *testing.T) {
	req := Request{
		TargetLang:    "Swedish",
		BasePrompt:    "Use informal register throughout.",
		Synopsis:      "Olena returns to the village after ten years abroad.",
		GlossaryBlock: "- Olena\n- Hlyboke = Hlyboke",
		Context: []Exchange{
			{Speaker: "Olena", Source: "Привіт", Target: "Hej"},
			{Source: "Хто там?", Target: "Vem där?"},
		},
	}

	prompt := buildSystemPrompt(req)

	for _, want := range []string{
		"into Swedish",
		"Use informal register throughout.",
		"EPISODE SYNOPSIS:",
		"Olena returns to the village",
		"TERMINOLOGY",
		"- Hlyboke = Hlyboke",
		"RECENT DIALOGUE",
		"Olena: Привіт => Hej",
		"(unknown): Хто там? => Vem där?",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("system prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildSystemPrompt_OmitsEmptySections(t *testing.T) {
	prompt := buildSystemPrompt(Request{TargetLang: "Swedish"})

	for _, absent := range []string{"SYNOPSIS", "TERMINOLOGY", "RECENT DIALOGUE"} {
		if strings.Contains(prompt, absent) {
			t.Errorf("expected no %s section in minimal prompt:\n%s", absent, prompt)
		}
	}
}

func TestBuildUserPrompt(t *testing.T) {
	prompt := buildUserPrompt(Request{
		TargetLang:      "Swedish",
		Speaker:         "Taras",
		SourcePrimary:   "Я не знаю.",
		SourceSecondary: "I don't know.",
	})

	for _, want := range []string{"Speaker: Taras", "Source: Я не знаю.", "English gloss: I don't know."} {
		if !strings.Contains(prompt, want) {
			t.Errorf("user prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildUserPrompt_GlossOnlyRow(t *testing.T) {
	prompt := buildUserPrompt(Request{
		TargetLang:      "Swedish",
		SourceSecondary: "",
		SourcePrimary:   "",
	})

	if !strings.Contains(prompt, "Source: (empty)") {
		t.Errorf("expected (empty) placeholder for missing source:\n%s", prompt)
	}
	if strings.Contains(prompt, "Speaker:") {
		t.Errorf("expected no speaker line when speaker is empty:\n%s", prompt)
	}
	if strings.Contains(prompt, "English gloss:") {
		t.Errorf("expected no gloss line when gloss is empty:\n%s", prompt)
	}
}
