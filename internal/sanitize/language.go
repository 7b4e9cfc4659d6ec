package sanitize

import (
	"regexp"
	"strings"

	"github.com/glossapp/gloss/internal/proto"
)

// wrongLanguageThreshold is the fraction of tokens allowed to come from the
// wrong language's common-word set before a field is rejected.
const wrongLanguageThreshold = 0.3

var (
	tokenPattern = regexp.MustCompile(`[\p{L}']+`)

	// Lines a model uses to introduce an answer in English instead of
	// answering in the target language.
	explanationOpener = regexp.MustCompile(`(?i)^(the|here|note|this|sure|certainly|translation|in english|simplified)\b`)

	scriptPatterns = map[proto.Script]*regexp.Regexp{
		proto.Cyrillic:     regexp.MustCompile(`\p{Cyrillic}`),
		proto.CJK:          regexp.MustCompile(`[\p{Han}\p{Hiragana}\p{Katakana}]`),
		proto.Hangul:       regexp.MustCompile(`\p{Hangul}`),
		proto.ArabicScript: regexp.MustCompile(`\p{Arabic}`),
	}
)

// WrongLanguageRatio returns the fraction of tokens in s that belong to
// English's common-word set without also being common in the target
// language. A non-English field scoring high is almost certainly an answer
// the model gave in English.
func WrongLanguageRatio(s string, target proto.Language) float64 {
	tokens := tokenPattern.FindAllString(strings.ToLower(s), -1)
	if len(tokens) == 0 {
		return 0
	}
	english := proto.English.CommonWords()
	targetWords := target.CommonWords()
	wrong := 0
	for _, tok := range tokens {
		if _, ok := english[tok]; !ok {
			continue
		}
		if _, ok := targetWords[tok]; ok {
			continue
		}
		wrong++
	}
	return float64(wrong) / float64(len(tokens))
}

// LooksWrongLanguage reports whether a field that must stay in target
// exceeds the wrong-language threshold. English targets are never rejected.
func LooksWrongLanguage(s string, target proto.Language) bool {
	if target == proto.English || target == "" {
		return false
	}
	return WrongLanguageRatio(s, target) > wrongLanguageThreshold
}

// RescueLine scans the raw reply for the first line that does look like the
// target language: a script-range match for non-Latin targets, or a line
// carrying language-specific diacritics (and not opening like an English
// explanation) for Latin ones. The boolean reports whether a line was
// found; callers keep their original field when it is false.
func RescueLine(raw string, target proto.Language) (string, bool) {
	lines := nonEmptyLines(StripThinking(raw))
	if script := target.Script(); script != proto.Latin {
		re := scriptPatterns[script]
		for _, line := range lines {
			if re.MatchString(line) {
				return Unwrap(stripLabel(line)), true
			}
		}
		return "", false
	}
	diacritics := target.Diacritics()
	if diacritics == "" {
		return "", false
	}
	for _, line := range lines {
		// A label means the line is an answer, not an explanation.
		candidate := stripLabel(line)
		if !strings.ContainsAny(strings.ToLower(candidate), diacritics) {
			continue
		}
		if explanationOpener.MatchString(candidate) {
			continue
		}
		return Unwrap(candidate), true
	}
	return "", false
}

func stripLabel(line string) string {
	if loc := fieldLabel.FindStringIndex(line); loc != nil {
		return strings.TrimSpace(line[loc[1]:])
	}
	return line
}
