package oracle

import (
	"fmt"
	"strings"
)

// buildSystemPrompt renders the per-run framing: role and register, optional
// base prompt and episode synopsis, the glossary block, and the rolling
// dialogue window as precedent. The current line goes in the user prompt.
func buildSystemPrompt(req Request) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are a professional subtitle translator working on a bilingual dialogue script.\n")
	fmt.Fprintf(&sb, "Translate each line into %s, preserving the speaker's voice, register, and any stage cues.\n", req.TargetLang)
	fmt.Fprintf(&sb, "Reply with the %s line only: no speaker label, no quotes, no explanations.", req.TargetLang)

	if req.BasePrompt != "" {
		sb.WriteString("\n\n")
		sb.WriteString(strings.TrimSpace(req.BasePrompt))
	}

	if req.Synopsis != "" {
		sb.WriteString("\n\nEPISODE SYNOPSIS:\n")
		sb.WriteString(strings.TrimSpace(req.Synopsis))
	}

	if req.GlossaryBlock != "" {
		sb.WriteString("\n\nTERMINOLOGY (keep these names and terms consistent):\n")
		sb.WriteString(req.GlossaryBlock)
	}

	if len(req.Context) > 0 {
		fmt.Fprintf(&sb, "\n\nRECENT DIALOGUE (already translated, for continuity only - do not retranslate):\n")
		for _, ex := range req.Context {
			speaker := ex.Speaker
			if speaker == "" {
				speaker = "(unknown)"
			}
			fmt.Fprintf(&sb, "%s: %s => %s\n", speaker, ex.Source, ex.Target)
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// buildUserPrompt renders the current row as the final instruction.
func buildUserPrompt(req Request) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Translate this line into %s.\n", req.TargetLang)
	if req.Speaker != "" {
		fmt.Fprintf(&sb, "Speaker: %s\n", req.Speaker)
	}
	fmt.Fprintf(&sb, "Source: %s\n", orEmpty(req.SourcePrimary))
	if req.SourceSecondary != "" {
		fmt.Fprintf(&sb, "English gloss: %s\n", req.SourceSecondary)
	}

	return strings.TrimRight(sb.String(), "\n")
}

func orEmpty(s string) string {
	if s == "" {
		return "(empty)"
	}
	return s
}
