// Package postprocess normalizes raw oracle output into the single
// translated line the pipeline stores. The output contract is one
// target-language line with no speaker label and no commentary; models
// routinely violate all three, so everything here is about undoing that.
package postprocess

import (
	"regexp"
	"strings"
)

// Clean strips common LLM artifacts: reasoning blocks, instruction echoes,
// and outer quote wrapping. The result is trimmed but may still span
// multiple lines; see SingleLine.
func Clean(text string) string {
	text = stripReasoningBlocks(text)
	text = stripEchoPrefix(strings.TrimSpace(text))
	text = stripOuterQuotes(strings.TrimSpace(text))
	return strings.TrimSpace(text)
}

// reasoningRe matches complete <think>-style blocks. Each tag variant is
// listed explicitly; RE2 has no backreferences.
var reasoningRe = regexp.MustCompile(
	`(?is)<think>.*?</think>|<thinking>.*?</thinking>|<reasoning>.*?</reasoning>`,
)

// openReasoningRe catches a reasoning tag the model never closed.
var openReasoningRe = regexp.MustCompile(`(?is)(?:<think>|<thinking>|<reasoning>).*$`)

func stripReasoningBlocks(text string) string {
	text = reasoningRe.ReplaceAllString(text, "")
	return openReasoningRe.ReplaceAllString(text, "")
}

// echoRe matches introductory phrases some models prepend despite being told
// not to. Anchored to the start and requiring a colon to avoid eating
// legitimate content.
var echoRe = regexp.MustCompile(
	`(?i)^(?:(?:certainly|sure|of course)[,.]?\s*)?(?:here(?:'s| is)(?: the)? )?(?:the )?(?:translation|translated (?:line|text))\s*:`,
)

func stripEchoPrefix(text string) string {
	if loc := echoRe.FindStringIndex(text); loc != nil {
		return strings.TrimSpace(text[loc[1]:])
	}
	return text
}

// quotePairs are the outer wrappers stripped when they enclose the whole
// line. Guillemets and curly quotes included; models are not picky.
var quotePairs = [][2]rune{
	{'"', '"'},
	{'\'', '\''},
	{'«', '»'},
	{'“', '”'},
	{'‘', '’'},
}

func stripOuterQuotes(text string) string {
	runes := []rune(text)
	if len(runes) < 2 {
		return text
	}
	for _, pair := range quotePairs {
		if runes[0] == pair[0] && runes[len(runes)-1] == pair[1] {
			return strings.TrimSpace(string(runes[1 : len(runes)-1]))
		}
	}
	return text
}

// SingleLine collapses cleaned output to its first meaningful line and
// removes a leading speaker label when it matches the given speaker. A
// leading list bullet or dialogue dash is dropped too. Returns "" when
// nothing usable remains.
func SingleLine(text, speaker string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimSpace(strings.TrimLeft(line, "•* "))
		line = stripSpeakerLabel(line, speaker)
		line = stripOuterQuotes(line)
		if line != "" {
			return line
		}
	}
	return ""
}

// stripSpeakerLabel removes a "Speaker:" prefix, but only when the prefix is
// the row's own speaker. Anything else before a colon may be content.
func stripSpeakerLabel(line, speaker string) string {
	speaker = strings.TrimSpace(speaker)
	if speaker == "" {
		return line
	}
	idx := strings.Index(line, ":")
	if idx < 0 {
		return line
	}
	if strings.EqualFold(strings.TrimSpace(line[:idx]), speaker) {
		return strings.TrimSpace(line[idx+1:])
	}
	return line
}
