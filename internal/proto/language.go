package proto

import "strings"

// Language is a reading language, identified by its lowercase English name.
type Language string

// Languages the reader ships with.
const (
	English    Language = "english"
	Spanish    Language = "spanish"
	French     Language = "french"
	German     Language = "german"
	Italian    Language = "italian"
	Portuguese Language = "portuguese"
	Dutch      Language = "dutch"
	Russian    Language = "russian"
	Ukrainian  Language = "ukrainian"
	Japanese   Language = "japanese"
	Chinese    Language = "chinese"
	Korean     Language = "korean"
	Arabic     Language = "arabic"
)

// ParseLanguage normalizes a user-supplied language name. Unknown names are
// passed through as-is so prompts still read naturally.
func ParseLanguage(s string) Language {
	return Language(strings.ToLower(strings.TrimSpace(s)))
}

// Title returns the language name capitalized for use inside prompts.
func (l Language) Title() string {
	if l == "" {
		return ""
	}
	s := string(l)
	return strings.ToUpper(s[:1]) + s[1:]
}

// HasArticles reports whether noun-article hints make sense for the
// language. Article hints are opt-in per language.
func (l Language) HasArticles() bool {
	switch l {
	case Spanish, French, German, Italian, Portuguese, Dutch:
		return true
	default:
		return false
	}
}

// Script is the writing system a language uses.
type Script int

// Writing systems the wrong-language rescue knows how to recognize.
const (
	Latin Script = iota
	Cyrillic
	CJK
	Hangul
	ArabicScript
)

// Script returns the writing system of the language.
func (l Language) Script() Script {
	switch l {
	case Russian, Ukrainian:
		return Cyrillic
	case Japanese, Chinese:
		return CJK
	case Korean:
		return Hangul
	case Arabic:
		return ArabicScript
	default:
		return Latin
	}
}

// Diacritics returns the characters that mark text as belonging to a
// Latin-script language, used when a script range alone cannot tell the
// language apart from English.
func (l Language) Diacritics() string {
	switch l {
	case Spanish:
		return "áéíóúüñ¿¡"
	case French:
		return "àâæçéèêëîïôùûüÿœ"
	case German:
		return "äöüß"
	case Italian:
		return "àèéìòù"
	case Portuguese:
		return "ãõáâàéêíóôúç"
	case Dutch:
		return "ĳéëï"
	default:
		return ""
	}
}

// CommonWords returns a small closed set of high-frequency function words
// for the language. The language guard counts how many tokens of a field
// fall into the wrong language's set.
func (l Language) CommonWords() map[string]struct{} {
	return commonWords[l]
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

var commonWords = map[Language]map[string]struct{}{
	English: wordSet(
		"the", "and", "is", "are", "was", "were", "this", "that", "these",
		"those", "with", "have", "has", "had", "you", "they", "from", "not",
		"but", "for", "of", "to", "it", "on", "as", "be", "at", "by", "we",
		"he", "she", "his", "her", "its", "their", "an", "will", "would",
		"can", "could", "should", "there", "here", "what", "which", "when",
		"where", "who", "how", "why", "or", "if", "because", "about", "into",
		"than", "then", "them", "been", "being", "does", "did", "doing",
		"means", "meaning", "word", "sentence", "simple", "simplified",
	),
	Spanish: wordSet(
		"el", "la", "los", "las", "un", "una", "de", "del", "que", "y", "en",
		"es", "está", "son", "por", "para", "con", "su", "sus", "se", "no",
		"muy", "más", "pero", "como", "este", "esta", "esto",
	),
	French: wordSet(
		"le", "la", "les", "un", "une", "des", "de", "du", "que", "qui",
		"et", "en", "est", "sont", "dans", "pour", "avec", "son", "ses",
		"ce", "cette", "ne", "pas", "très", "plus", "mais", "comme", "il",
		"elle", "nous", "vous",
	),
	German: wordSet(
		"der", "die", "das", "ein", "eine", "einen", "und", "ist", "sind",
		"war", "in", "im", "mit", "für", "auf", "von", "zu", "nicht",
		"sehr", "mehr", "aber", "wie", "dieser", "diese", "dieses", "er",
		"sie", "es", "wir", "ihr", "den", "dem",
	),
	Italian: wordSet(
		"il", "lo", "la", "i", "gli", "le", "un", "una", "di", "del",
		"che", "e", "in", "è", "sono", "per", "con", "suo", "sua", "si",
		"non", "molto", "più", "ma", "come", "questo", "questa",
	),
	Portuguese: wordSet(
		"o", "a", "os", "as", "um", "uma", "de", "do", "da", "que", "e",
		"em", "é", "são", "por", "para", "com", "seu", "sua", "se", "não",
		"muito", "mais", "mas", "como", "este", "esta", "isso",
	),
	Dutch: wordSet(
		"de", "het", "een", "en", "is", "zijn", "was", "in", "met", "voor",
		"op", "van", "naar", "niet", "heel", "meer", "maar", "zoals", "dit",
		"deze", "dat", "hij", "zij", "wij",
	),
}
