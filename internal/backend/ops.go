package backend

import (
	"context"
	"regexp"

	"github.com/glossapp/gloss/internal/proto"
)

// Token budgets per operation. Short lookups stay cheap; analyses get room
// to finish their sentences.
const (
	tokensShort    = 120
	tokensFields   = 300
	tokensBatch    = 800
	tokensAnalysis = 1000
)

// punctuationOnly matches tokens with no letters at all, which are skipped
// before a batch request and mapped back as zero results.
var punctuationOnly = regexp.MustCompile(`^[^\p{L}]*$`)

// Definition looks a word up as used in its sentence.
func (c *Client) Definition(ctx context.Context, word, sentence string, lang proto.Language) (proto.Definition, error) {
	raw, err := c.chat(ctx, definitionPrompt(word, sentence, lang), tokensFields)
	if err != nil {
		return proto.Definition{}, err
	}
	return parseDefinition(raw, lang), nil
}

// Pronunciation transcribes a single word.
func (c *Client) Pronunciation(ctx context.Context, word string, lang proto.Language) (proto.IPAResult, error) {
	raw, err := c.chat(ctx, pronunciationPrompt(word, lang), tokensShort)
	if err != nil {
		return proto.IPAResult{}, err
	}
	return parseIPA(raw), nil
}

// BatchPronunciation transcribes many words in one request. The result has
// exactly one entry per input word: punctuation-only tokens never reach the
// backend and come back as zero results, and the numbered reply lines are
// mapped onto the original positions.
func (c *Client) BatchPronunciation(ctx context.Context, words []string, lang proto.Language) ([]proto.IPAResult, error) {
	sent := make([]int, len(words))
	var requested []string
	for i, w := range words {
		if punctuationOnly.MatchString(w) {
			continue
		}
		requested = append(requested, w)
		sent[i] = len(requested)
	}
	if len(requested) == 0 {
		return make([]proto.IPAResult, len(words)), nil
	}
	raw, err := c.chat(ctx, batchPronunciationPrompt(requested, lang), tokensBatch)
	if err != nil {
		return nil, err
	}
	return parseBatchIPA(raw, words, sent), nil
}

// Simplify rewrites a sentence with easier vocabulary and grammar. For
// non-English languages the result also carries English translations of
// both versions, and the simplified text is held to the source language.
func (c *Client) Simplify(ctx context.Context, sentence string, lang proto.Language) (proto.Simplification, error) {
	raw, err := c.chat(ctx, simplifyPrompt(sentence, lang), tokensFields)
	if err != nil {
		return proto.Simplification{}, err
	}
	return parseSimplification(raw, lang), nil
}

// EquivalentWord finds which word of the simplified sentence replaced the
// given word of the original. A reply that is not actually a substring of
// the simplified sentence flags NeedsRegeneration.
func (c *Client) EquivalentWord(ctx context.Context, word, original, simplified string) (proto.EquivalentWord, error) {
	raw, err := c.chat(ctx, equivalentWordPrompt(word, original, simplified), tokensShort)
	if err != nil {
		return proto.EquivalentWord{}, err
	}
	return parseEquivalentWord(raw, simplified), nil
}

// ResimplifyForcingWord re-runs simplification requiring the exact
// substitution the equivalent-word check settled on.
func (c *Client) ResimplifyForcingWord(ctx context.Context, sentence, word, equivalent string, lang proto.Language) (proto.Simplification, error) {
	raw, err := c.chat(ctx, resimplifyPrompt(sentence, word, equivalent, lang), tokensFields)
	if err != nil {
		return proto.Simplification{}, err
	}
	return parseSimplification(raw, lang), nil
}

// PhraseMeaning explains a multi-word expression in context.
func (c *Client) PhraseMeaning(ctx context.Context, phrase, sentence string, lang proto.Language) (proto.PhraseMeaning, error) {
	raw, err := c.chat(ctx, phraseMeaningPrompt(phrase, sentence, lang), tokensFields)
	if err != nil {
		return proto.PhraseMeaning{}, err
	}
	return parsePhraseMeaning(raw), nil
}

// StudyEntry builds a flashcard-ready record for a word.
func (c *Client) StudyEntry(ctx context.Context, word, sentence string, lang proto.Language) (proto.StudyEntry, error) {
	raw, err := c.chat(ctx, studyEntryPrompt(word, sentence, lang), tokensFields)
	if err != nil {
		return proto.StudyEntry{}, err
	}
	return parseStudyEntry(raw, lang), nil
}

// GrammarAnalysis explains the grammatical structure of a sentence.
func (c *Client) GrammarAnalysis(ctx context.Context, sentence string, lang proto.Language) (proto.GrammarAnalysis, error) {
	raw, err := c.chat(ctx, grammarPrompt(sentence, lang), tokensAnalysis)
	if err != nil {
		return proto.GrammarAnalysis{}, err
	}
	return parseGrammar(raw), nil
}

// ContextualMeaning explains what a word means in one specific sentence.
func (c *Client) ContextualMeaning(ctx context.Context, word, sentence string, lang proto.Language) (proto.ContextualMeaning, error) {
	raw, err := c.chat(ctx, contextualMeaningPrompt(word, sentence, lang), tokensAnalysis)
	if err != nil {
		return proto.ContextualMeaning{}, err
	}
	return parseContextualMeaning(raw), nil
}
