package backend

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/glossapp/gloss/internal/proto"
)

func TestParseDefinition(t *testing.T) {
	t.Run("labeled fields", func(t *testing.T) {
		raw := "DEFINITION: a small dog\nTRANSLATION: puppy\nPOS: noun\nARTICLE: el"
		def := parseDefinition(raw, proto.Spanish)
		require.Equal(t, proto.Definition{
			Text:         "a small dog",
			Translation:  "puppy",
			PartOfSpeech: "noun",
			Article:      "el",
		}, def)
	})

	t.Run("article only for article languages", func(t *testing.T) {
		raw := "DEFINITION: a small dog\nARTICLE: el"
		def := parseDefinition(raw, proto.Russian)
		require.Empty(t, def.Article)
	})

	t.Run("markdown bold labels", func(t *testing.T) {
		raw := "**DEFINITION:** a small dog"
		require.Equal(t, "a small dog", parseDefinition(raw, proto.Spanish).Text)
	})

	t.Run("no labels degrades to raw text", func(t *testing.T) {
		raw := "a small dog, often kept as a pet"
		def := parseDefinition(raw, proto.Spanish)
		require.Equal(t, raw, def.Text)
		require.Empty(t, def.Translation)
		require.Empty(t, def.PartOfSpeech)
	})

	t.Run("thinking stripped before parsing", func(t *testing.T) {
		raw := "<think>which sense?</think>DEFINITION: a small dog"
		require.Equal(t, "a small dog", parseDefinition(raw, proto.Spanish).Text)
	})
}

func TestParseIPA(t *testing.T) {
	t.Run("labeled", func(t *testing.T) {
		res := parseIPA("IPA: /ˈpe.ro/\nSYLLABLES: pe-rro")
		require.Equal(t, proto.IPAResult{IPA: "/ˈpe.ro/", Syllables: "pe-rro"}, res)
	})

	t.Run("bare slashes", func(t *testing.T) {
		res := parseIPA("The transcription is /ˈpe.ro/ in standard Spanish.")
		require.Equal(t, "/ˈpe.ro/", res.IPA)
	})

	t.Run("plain short answer", func(t *testing.T) {
		res := parseIPA("ˈpe.ro")
		require.Equal(t, "ˈpe.ro", res.IPA)
	})
}

func TestParseBatchIPA(t *testing.T) {
	words := []string{"casa", "perro", "...", "gato", "sol"}
	sent := []int{1, 2, 0, 3, 4}
	raw := "1. /ˈka.sa/\n2. /ˈpe.ro/\n3. /ˈga.to/\n4. /sol/"

	results := parseBatchIPA(raw, words, sent)
	require.Len(t, results, len(words))
	require.Equal(t, "/ˈka.sa/", results[0].IPA)
	require.Equal(t, "/ˈpe.ro/", results[1].IPA)
	require.True(t, results[2].Zero(), "punctuation entry must stay empty")
	require.Equal(t, "/ˈga.to/", results[3].IPA)
	require.Equal(t, "/sol/", results[4].IPA)
}

func TestParseSimplification(t *testing.T) {
	t.Run("all fields", func(t *testing.T) {
		raw := "SIMPLIFIED: El niño está feliz.\n" +
			"ORIGINAL_TRANSLATION: The boy is overjoyed.\n" +
			"SIMPLIFIED_TRANSLATION: The boy is happy."
		simp := parseSimplification(raw, proto.Spanish)
		require.Equal(t, "El niño está feliz", simp.Simplified)
		require.Equal(t, "The boy is overjoyed", simp.OriginalTranslation)
		require.Equal(t, "The boy is happy", simp.SimplifiedTranslation)
	})

	t.Run("wrong language rescued from raw reply", func(t *testing.T) {
		raw := "SIMPLIFIED: The boy is happy.\n" +
			"By the way: El niño está feliz."
		simp := parseSimplification(raw, proto.Spanish)
		require.Equal(t, "By the way: El niño está feliz", simp.Simplified)
	})

	t.Run("wrong language kept when nothing to rescue", func(t *testing.T) {
		raw := "SIMPLIFIED: The boy is happy."
		simp := parseSimplification(raw, proto.Spanish)
		require.Equal(t, "The boy is happy", simp.Simplified)
	})

	t.Run("english target never rescued", func(t *testing.T) {
		raw := "SIMPLIFIED: The boy is happy."
		simp := parseSimplification(raw, proto.English)
		require.Equal(t, "The boy is happy", simp.Simplified)
	})
}

func TestParseEquivalentWord(t *testing.T) {
	t.Run("substring accepted", func(t *testing.T) {
		eq := parseEquivalentWord("ANSWER: feliz", "El niño está feliz.")
		require.Equal(t, "feliz", eq.Equivalent)
		require.False(t, eq.NeedsRegeneration)
	})

	t.Run("case insensitive", func(t *testing.T) {
		eq := parseEquivalentWord("Feliz", "el niño está FELIZ")
		require.False(t, eq.NeedsRegeneration)
	})

	t.Run("not a substring flags regeneration", func(t *testing.T) {
		eq := parseEquivalentWord("contento", "El niño está feliz.")
		require.Equal(t, "contento", eq.Equivalent)
		require.True(t, eq.NeedsRegeneration)
	})

	t.Run("empty reply flags regeneration", func(t *testing.T) {
		eq := parseEquivalentWord("", "El niño está feliz.")
		require.True(t, eq.NeedsRegeneration)
	})
}

func TestParseGrammar(t *testing.T) {
	raw := "STRUCTURE: subject, verb, adjective\nTENSES: present indicative\nNOTES: estar for moods"
	ga := parseGrammar(raw)
	require.Equal(t, "subject, verb, adjective", ga.Structure)
	require.Equal(t, "present indicative", ga.Tenses)
	require.Equal(t, "estar for moods", ga.Notes)
}

func TestParseContextualMeaning(t *testing.T) {
	raw := "MEANING: happy\nNUANCE: momentary state, not character\nREGISTER: neutral"
	cm := parseContextualMeaning(raw)
	require.Equal(t, "happy", cm.Meaning)
	require.Equal(t, "momentary state, not character", cm.Nuance)
	require.Equal(t, "neutral", cm.Register)
}

func TestParseStudyEntry(t *testing.T) {
	raw := "DEFINITION: happy\nEXAMPLE: El niño está feliz.\nEXAMPLE_TRANSLATION: The boy is happy."
	entry := parseStudyEntry(raw, proto.Spanish)
	require.Equal(t, "happy", entry.Definition)
	require.Equal(t, "El niño está feliz", entry.Example)
	require.Equal(t, "The boy is happy", entry.ExampleTranslation)
}
