// Package sanitize turns free-form model replies into text the parsers can
// rely on. It is a pipeline of independent stages: strip thinking blocks,
// drop reasoning noise, extract short answers, and validate the language of
// fields that must stay in the source language.
package sanitize

import (
	"regexp"
	"strings"
)

// Mode selects how much of the reply the caller expects to keep.
type Mode int

// Sanitize modes.
const (
	// ModeFull keeps the whole reply minus thinking and reasoning noise.
	// Used for multi-field structured answers.
	ModeFull Mode = iota
	// ModeShort reduces the reply to a single word or phrase.
	ModeShort
)

// shortAnswerMaxWords is the longest line still considered "an answer"
// rather than an explanation.
const shortAnswerMaxWords = 8

var (
	thinkBlock    = regexp.MustCompile(`(?is)<think(?:ing)?>.*?</think(?:ing)?>`)
	thinkTrailing = regexp.MustCompile(`(?is)<think(?:ing)?>.*$`)

	// Lines that are the model talking to itself rather than answering.
	reasoningMarkers = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(but\s+)?wait\b`),
		regexp.MustCompile(`(?i)^let\s+me\b`),
		regexp.MustCompile(`(?i)^let's\b`),
		regexp.MustCompile(`(?i)^so\s+the\s+instruction`),
		regexp.MustCompile(`(?i)^(hmm|okay|ok|alright|right)[,.]?\s`),
		regexp.MustCompile(`(?i)^(actually|first|hold on)[,:]`),
		regexp.MustCompile(`(?i)^i\s+(think|need|should|will|'ll|am\s+going)\b`),
		regexp.MustCompile(`(?i)^the\s+user\s+(wants|asked|is)\b`),
		regexp.MustCompile(`\?\s*$`),
	}

	// A structured-field label ends a reasoning block.
	fieldLabel = regexp.MustCompile(`^\s*\**[A-Z][A-Z_ ]{1,30}:`)

	answerLabel = regexp.MustCompile(`(?i)^\s*\**(?:answer|result|response|output|word|equivalent)\**\s*[:\-]\s*(.+)$`)
)

// Clean runs the full pipeline for the given mode. The thinking stripper
// always runs first.
func Clean(s string, mode Mode) string {
	s = StripThinking(s)
	if mode == ModeShort {
		return ExtractShort(s)
	}
	return RemoveReasoning(s)
}

// StripThinking removes paired <think>/<thinking> blocks, plus any
// unterminated trailing opening tag.
func StripThinking(s string) string {
	s = thinkBlock.ReplaceAllString(s, "")
	s = thinkTrailing.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// RemoveReasoning drops reasoning-marker lines from a full answer. A run of
// such lines is treated as one reasoning block that only ends once a line
// carries an expected field label, at which point normal lines are kept
// again.
func RemoveReasoning(s string) string {
	var kept []string
	inReasoning := false
	for _, line := range strings.Split(s, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if !inReasoning {
				kept = append(kept, line)
			}
			continue
		}
		if fieldLabel.MatchString(trimmed) {
			inReasoning = false
			kept = append(kept, line)
			continue
		}
		if inReasoning || isReasoningLine(trimmed) {
			inReasoning = true
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// ExtractShort reduces a reply to a single word or phrase. The fallback
// chain guarantees a non-empty result for non-empty input: a reply that is
// already one short line is returned unwrapped; otherwise an explicit
// "answer:" style label wins; otherwise the last short non-reasoning line;
// otherwise the first short non-reasoning line; otherwise the raw first
// line.
func ExtractShort(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lines := nonEmptyLines(s)
	if len(lines) == 1 && wordCount(lines[0]) <= shortAnswerMaxWords {
		if m := answerLabel.FindStringSubmatch(lines[0]); m != nil {
			return Unwrap(m[1])
		}
		return Unwrap(lines[0])
	}
	for _, line := range lines {
		if m := answerLabel.FindStringSubmatch(line); m != nil {
			return Unwrap(m[1])
		}
	}
	for i := len(lines) - 1; i >= 0; i-- {
		if !isReasoningLine(lines[i]) && wordCount(lines[i]) <= shortAnswerMaxWords {
			return Unwrap(lines[i])
		}
	}
	for _, line := range lines {
		if !isReasoningLine(line) && wordCount(line) <= shortAnswerMaxWords {
			return Unwrap(line)
		}
	}
	return lines[0]
}

// Unwrap strips markdown emphasis, inline code, surrounding quotes, and a
// trailing period from a short answer, repeating until nothing is left to
// strip.
func Unwrap(s string) string {
	s = strings.TrimSpace(s)
	for {
		trimmed := strings.TrimSuffix(s, ".")
		trimmed = strings.Trim(trimmed, "*_`\"'«»“”")
		trimmed = strings.TrimSpace(trimmed)
		if trimmed == s {
			return s
		}
		s = trimmed
	}
}

func isReasoningLine(line string) bool {
	for _, re := range reasoningMarkers {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

func nonEmptyLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
