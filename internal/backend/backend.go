// Package backend dispatches the reader's AI features to interchangeable
// providers: one local inference server and four cloud APIs, all speaking
// the OpenAI chat-completions wire format. Cloud backends fall back through
// a per-provider model chain when rate limited; everything else about a
// provider is data in its Descriptor.
package backend

import (
	"context"

	"github.com/glossapp/gloss/internal/proto"
)

// Backend is the capability contract every provider satisfies. Callers
// treat all five interchangeably. Every method returns a typed error from
// this package; parse shortfalls degrade to safe defaults instead of
// failing.
type Backend interface {
	// TestConnection probes the backend. Diagnostics only.
	TestConnection(ctx context.Context) proto.ConnectionStatus

	Definition(ctx context.Context, word, sentence string, lang proto.Language) (proto.Definition, error)
	Pronunciation(ctx context.Context, word string, lang proto.Language) (proto.IPAResult, error)
	// BatchPronunciation issues one request for all words. The result
	// always has the same length as words: punctuation-only tokens are
	// filtered out before the request and mapped back as zero results.
	BatchPronunciation(ctx context.Context, words []string, lang proto.Language) ([]proto.IPAResult, error)
	Simplify(ctx context.Context, sentence string, lang proto.Language) (proto.Simplification, error)
	EquivalentWord(ctx context.Context, word, original, simplified string) (proto.EquivalentWord, error)
	ResimplifyForcingWord(ctx context.Context, sentence, word, equivalent string, lang proto.Language) (proto.Simplification, error)
	PhraseMeaning(ctx context.Context, phrase, sentence string, lang proto.Language) (proto.PhraseMeaning, error)
	StudyEntry(ctx context.Context, word, sentence string, lang proto.Language) (proto.StudyEntry, error)
	GrammarAnalysis(ctx context.Context, sentence string, lang proto.Language) (proto.GrammarAnalysis, error)
	ContextualMeaning(ctx context.Context, word, sentence string, lang proto.Language) (proto.ContextualMeaning, error)
}

// Config is the mutable per-instance configuration. The factory updates it
// in place when settings change, so callers holding an instance see new
// credentials on their next call.
type Config struct {
	// Endpoint overrides the descriptor's base URL. Only meaningful for
	// the local backend.
	Endpoint string
	APIKey   string
	Model    string
}
