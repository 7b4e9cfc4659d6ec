package backend

import (
	"fmt"
	"strings"

	"github.com/glossapp/gloss/internal/proto"
)

// Prompt builders. One per capability, shared by all backends. Answers are
// requested as LABEL: lines so parsing stays mechanical. Every request also
// carries noPreamble as its system message; the sanitizer cleans up the
// models that explain themselves anyway.

const noPreamble = "Reply with only the lines requested, no preamble and no explanation."

func definitionPrompt(word, sentence string, lang proto.Language) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Define the %s word %q as used in this sentence: %q\n\n", lang.Title(), word, sentence)
	b.WriteString("Reply in exactly this format:\n")
	b.WriteString("DEFINITION: <short definition in English>\n")
	if lang != proto.English {
		b.WriteString("TRANSLATION: <the closest single English equivalent>\n")
	}
	b.WriteString("POS: <part of speech>\n")
	if lang.HasArticles() {
		fmt.Fprintf(&b, "ARTICLE: <the %s article if the word is a noun, otherwise leave empty>\n", lang.Title())
	}
	return b.String()
}

func pronunciationPrompt(word string, lang proto.Language) string {
	return fmt.Sprintf(
		"Give the IPA transcription of the %s word %q.\n\n"+
			"Reply in exactly this format:\n"+
			"IPA: <transcription between slashes>\n"+
			"SYLLABLES: <the word split into syllables with hyphens>\n",
		lang.Title(), word,
	)
}

func batchPronunciationPrompt(words []string, lang proto.Language) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Give the IPA transcription of each of these %s words.\n\n", lang.Title())
	for i, w := range words {
		fmt.Fprintf(&b, "%d. %s\n", i+1, w)
	}
	b.WriteString("\nReply with one line per word, keeping the numbering:\n")
	b.WriteString("1. /<transcription>/\n")
	return b.String()
}

func simplifyPrompt(sentence string, lang proto.Language) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rewrite this %s sentence with simpler vocabulary and grammar, keeping its meaning: %q\n\n", lang.Title(), sentence)
	b.WriteString("Reply in exactly this format:\n")
	fmt.Fprintf(&b, "SIMPLIFIED: <the simpler sentence, in %s>\n", lang.Title())
	if lang != proto.English {
		b.WriteString("ORIGINAL_TRANSLATION: <English translation of the original sentence>\n")
		b.WriteString("SIMPLIFIED_TRANSLATION: <English translation of the simpler sentence>\n")
		fmt.Fprintf(&b, "\nThe SIMPLIFIED line must be written in %s, not English.\n", lang.Title())
	}
	return b.String()
}

func equivalentWordPrompt(word, original, simplified string) string {
	return fmt.Sprintf(
		"The sentence %q was simplified to %q.\n"+
			"Which word or phrase in the simplified sentence plays the role of %q from the original?\n\n"+
			"ANSWER: <word or phrase copied verbatim from the simplified sentence>\n",
		original, simplified, word,
	)
}

func resimplifyPrompt(sentence, word, equivalent string, lang proto.Language) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rewrite this %s sentence with simpler vocabulary and grammar, keeping its meaning: %q\n", lang.Title(), sentence)
	fmt.Fprintf(&b, "Your rewrite must use the exact word %q in place of %q.\n\n", equivalent, word)
	b.WriteString("Reply in exactly this format:\n")
	fmt.Fprintf(&b, "SIMPLIFIED: <the simpler sentence, in %s>\n", lang.Title())
	if lang != proto.English {
		b.WriteString("ORIGINAL_TRANSLATION: <English translation of the original sentence>\n")
		b.WriteString("SIMPLIFIED_TRANSLATION: <English translation of the simpler sentence>\n")
	}
	return b.String()
}

func phraseMeaningPrompt(phrase, sentence string, lang proto.Language) string {
	return fmt.Sprintf(
		"Explain the %s expression %q as used in this sentence: %q\n\n"+
			"Reply in exactly this format:\n"+
			"MEANING: <what the expression means here, in English>\n"+
			"LITERAL: <word-for-word translation, if it differs>\n",
		lang.Title(), phrase, sentence,
	)
}

func studyEntryPrompt(word, sentence string, lang proto.Language) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a flashcard for the %s word %q", lang.Title(), word)
	if sentence != "" {
		fmt.Fprintf(&b, ", first seen in: %q", sentence)
	}
	b.WriteString("\n\nReply in exactly this format:\n")
	b.WriteString("DEFINITION: <short definition in English>\n")
	fmt.Fprintf(&b, "EXAMPLE: <a new simple example sentence in %s>\n", lang.Title())
	if lang != proto.English {
		b.WriteString("EXAMPLE_TRANSLATION: <English translation of the example>\n")
	}
	return b.String()
}

func grammarPrompt(sentence string, lang proto.Language) string {
	return fmt.Sprintf(
		"Explain the grammar of this %s sentence for a learner: %q\n\n"+
			"Reply in exactly this format:\n"+
			"STRUCTURE: <how the sentence is built>\n"+
			"TENSES: <the tenses and moods used>\n"+
			"NOTES: <anything a learner would trip over>\n",
		lang.Title(), sentence,
	)
}

func contextualMeaningPrompt(word, sentence string, lang proto.Language) string {
	return fmt.Sprintf(
		"In this %s sentence, what does %q mean here specifically? Sentence: %q\n\n"+
			"Reply in exactly this format:\n"+
			"MEANING: <the meaning in this sentence, in English>\n"+
			"NUANCE: <how it differs from the word's usual meaning, if at all>\n"+
			"REGISTER: <formal, neutral, colloquial, slang...>\n",
		lang.Title(), word, sentence,
	)
}
