// Package proto holds the shared types exchanged between the reader's
// features and the AI backends.
package proto

import "strings"

// Roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat message sent to a backend.
type Message struct {
	Role    string
	Content string
}

// ConnectionStatus is the result of a backend connection test. Diagnostics
// only, never part of the feature path.
type ConnectionStatus struct {
	OK      bool
	Models  []string
	Message string
}

// Definition is a word definition in reading context.
type Definition struct {
	Text         string
	Translation  string
	PartOfSpeech string
	Article      string
}

// IPAResult is the phonetic transcription of a single word.
type IPAResult struct {
	IPA       string
	Syllables string
}

// Zero reports whether the result carries no transcription at all.
func (r IPAResult) Zero() bool {
	return r.IPA == "" && r.Syllables == ""
}

// Simplification is a sentence rewritten with simpler vocabulary and
// grammar. The translations are only filled for non-English targets.
type Simplification struct {
	Simplified            string
	OriginalTranslation   string
	SimplifiedTranslation string
}

// EquivalentWord maps a word from an original sentence onto the word that
// replaced it in the simplified sentence. NeedsRegeneration is set when the
// model returned something that is not actually part of the simplified
// sentence; the caller should then re-run simplification forcing the exact
// substitution.
type EquivalentWord struct {
	Equivalent        string
	NeedsRegeneration bool
}

// Validate checks that the equivalent really occurs in the simplified
// sentence (case-insensitive) and flags regeneration otherwise.
func (e EquivalentWord) Validate(simplified string) EquivalentWord {
	if e.Equivalent == "" {
		e.NeedsRegeneration = true
		return e
	}
	if !strings.Contains(strings.ToLower(simplified), strings.ToLower(e.Equivalent)) {
		e.NeedsRegeneration = true
	}
	return e
}

// PhraseMeaning explains a multi-word expression in its sentence.
type PhraseMeaning struct {
	Meaning string
	Literal string
}

// StudyEntry is a flashcard-ready record for a word.
type StudyEntry struct {
	Definition         string
	Example            string
	ExampleTranslation string
}

// GrammarAnalysis explains the grammatical structure of a sentence.
type GrammarAnalysis struct {
	Structure string
	Tenses    string
	Notes     string
}

// ContextualMeaning explains what a word means in one specific sentence, as
// opposed to its dictionary meaning.
type ContextualMeaning struct {
	Meaning  string
	Nuance   string
	Register string
}
