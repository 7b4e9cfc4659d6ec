package backend

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/glossapp/gloss/internal/proto"
	"github.com/glossapp/gloss/internal/sanitize"
)

// Label-based response parsing. Every field is optional: when the expected
// labels are missing entirely, the cleaned text lands in the caller's most
// relevant field and the rest stay empty. Parsing never fails.

var (
	labelLine    = regexp.MustCompile(`^\s*\**([A-Z][A-Z_ ]{1,30}?)\**\s*:\s*(.*)$`)
	numberedLine = regexp.MustCompile(`^\s*(\d+)[.)]\s*(.+)$`)
	ipaSlashes   = regexp.MustCompile(`/[^/]+/`)
)

// parseFields scans LABEL: value lines out of a cleaned reply. Lines
// without a label extend the value of the label before them.
func parseFields(cleaned string) map[string]string {
	fields := map[string]string{}
	current := ""
	for _, line := range strings.Split(cleaned, "\n") {
		if m := labelLine.FindStringSubmatch(line); m != nil {
			current = strings.ReplaceAll(strings.TrimSpace(m[1]), " ", "_")
			value := sanitize.Unwrap(m[2])
			if prev, ok := fields[current]; ok && prev != "" && value != "" {
				value = prev + " " + value
			}
			fields[current] = value
			continue
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || current == "" {
			continue
		}
		if fields[current] == "" {
			fields[current] = sanitize.Unwrap(trimmed)
		} else {
			fields[current] += " " + trimmed
		}
	}
	return fields
}

func field(fields map[string]string, names ...string) string {
	for _, name := range names {
		if v, ok := fields[name]; ok && v != "" {
			return v
		}
	}
	return ""
}

func parseDefinition(raw string, lang proto.Language) proto.Definition {
	cleaned := sanitize.Clean(raw, sanitize.ModeFull)
	fields := parseFields(cleaned)
	def := proto.Definition{
		Text:         field(fields, "DEFINITION", "MEANING"),
		Translation:  field(fields, "TRANSLATION"),
		PartOfSpeech: field(fields, "POS", "PART_OF_SPEECH"),
	}
	if lang.HasArticles() {
		def.Article = field(fields, "ARTICLE")
	}
	if def.Text == "" {
		def.Text = strings.TrimSpace(cleaned)
	}
	return def
}

func parseIPA(raw string) proto.IPAResult {
	cleaned := sanitize.Clean(raw, sanitize.ModeFull)
	fields := parseFields(cleaned)
	res := proto.IPAResult{
		IPA:       field(fields, "IPA", "TRANSCRIPTION"),
		Syllables: field(fields, "SYLLABLES"),
	}
	if res.IPA == "" {
		// No label; settle for anything between slashes, then for a short
		// answer.
		if m := ipaSlashes.FindString(cleaned); m != "" {
			res.IPA = m
		} else {
			res.IPA = sanitize.ExtractShort(raw)
		}
	}
	return res
}

// parseBatchIPA maps numbered transcription lines back onto the original
// word list. sent holds, per original index, the 1-based request position
// or 0 for words that were never sent.
func parseBatchIPA(raw string, words []string, sent []int) []proto.IPAResult {
	byPosition := map[int]string{}
	for _, line := range strings.Split(sanitize.Clean(raw, sanitize.ModeFull), "\n") {
		m := numberedLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		value := strings.TrimSpace(m[2])
		if ipa := ipaSlashes.FindString(value); ipa != "" {
			value = ipa
		} else {
			value = sanitize.Unwrap(value)
		}
		byPosition[n] = value
	}

	out := make([]proto.IPAResult, len(words))
	for i := range words {
		if sent[i] == 0 {
			continue
		}
		out[i] = proto.IPAResult{IPA: byPosition[sent[i]]}
	}
	return out
}

func parseSimplification(raw string, lang proto.Language) proto.Simplification {
	cleaned := sanitize.Clean(raw, sanitize.ModeFull)
	fields := parseFields(cleaned)
	simp := proto.Simplification{
		Simplified:            field(fields, "SIMPLIFIED", "SIMPLE"),
		OriginalTranslation:   field(fields, "ORIGINAL_TRANSLATION"),
		SimplifiedTranslation: field(fields, "SIMPLIFIED_TRANSLATION"),
	}
	if simp.Simplified == "" {
		simp.Simplified = strings.TrimSpace(cleaned)
	}
	// A non-compliant model tends to "simplify" into English. When the
	// simplified text trips the wrong-language check, rescue the first
	// line of the raw reply that does look like the target language.
	if sanitize.LooksWrongLanguage(simp.Simplified, lang) {
		if line, ok := sanitize.RescueLine(raw, lang); ok {
			simp.Simplified = line
		}
	}
	return simp
}

func parseEquivalentWord(raw, simplified string) proto.EquivalentWord {
	eq := proto.EquivalentWord{Equivalent: sanitize.Clean(raw, sanitize.ModeShort)}
	return eq.Validate(simplified)
}

func parsePhraseMeaning(raw string) proto.PhraseMeaning {
	cleaned := sanitize.Clean(raw, sanitize.ModeFull)
	fields := parseFields(cleaned)
	pm := proto.PhraseMeaning{
		Meaning: field(fields, "MEANING"),
		Literal: field(fields, "LITERAL", "LITERAL_TRANSLATION"),
	}
	if pm.Meaning == "" {
		pm.Meaning = strings.TrimSpace(cleaned)
	}
	return pm
}

func parseStudyEntry(raw string, lang proto.Language) proto.StudyEntry {
	cleaned := sanitize.Clean(raw, sanitize.ModeFull)
	fields := parseFields(cleaned)
	entry := proto.StudyEntry{
		Definition:         field(fields, "DEFINITION"),
		Example:            field(fields, "EXAMPLE"),
		ExampleTranslation: field(fields, "EXAMPLE_TRANSLATION"),
	}
	if entry.Definition == "" {
		entry.Definition = strings.TrimSpace(cleaned)
	}
	if sanitize.LooksWrongLanguage(entry.Example, lang) {
		if line, ok := sanitize.RescueLine(raw, lang); ok {
			entry.Example = line
		}
	}
	return entry
}

func parseGrammar(raw string) proto.GrammarAnalysis {
	cleaned := sanitize.Clean(raw, sanitize.ModeFull)
	fields := parseFields(cleaned)
	ga := proto.GrammarAnalysis{
		Structure: field(fields, "STRUCTURE"),
		Tenses:    field(fields, "TENSES", "TENSE"),
		Notes:     field(fields, "NOTES", "NOTE"),
	}
	if ga.Structure == "" && ga.Tenses == "" && ga.Notes == "" {
		ga.Structure = strings.TrimSpace(cleaned)
	}
	return ga
}

func parseContextualMeaning(raw string) proto.ContextualMeaning {
	cleaned := sanitize.Clean(raw, sanitize.ModeFull)
	fields := parseFields(cleaned)
	cm := proto.ContextualMeaning{
		Meaning:  field(fields, "MEANING"),
		Nuance:   field(fields, "NUANCE"),
		Register: field(fields, "REGISTER"),
	}
	if cm.Meaning == "" {
		cm.Meaning = strings.TrimSpace(cleaned)
	}
	return cm
}
