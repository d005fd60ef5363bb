// Package textparse splits prose into sentences and word tokens.
//
// Splitting is deliberately simple: a sentence ends at the first whitespace
// following '.', '?', '!', '|' or ';', and each sentence keeps its
// terminator. Non-Latin scripts pass through without internal splitting.
package textparse

import (
	"regexp"
	"strings"
)

var (
	sentenceEnd = regexp.MustCompile(`[.?!|;]\s+`)
	wordToken   = regexp.MustCompile(`[A-Za-z']+`)
)

// SplitIntoSentences splits text into trimmed, non-empty sentences.
// A trailing fragment without closing punctuation is kept as the last
// sentence. Empty input yields nil.
func SplitIntoSentences(text string) []string {
	if text == "" {
		return nil
	}

	var sentences []string
	last := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		s := strings.TrimSpace(text[last:loc[1]])
		if s != "" {
			sentences = append(sentences, s)
		}
		last = loc[1]
	}

	if last < len(text) {
		if rest := strings.TrimSpace(text[last:]); rest != "" {
			sentences = append(sentences, rest)
		}
	}

	return sentences
}

// ExtractWords returns the lowercased word tokens of text, in order.
// A token is a maximal run of ASCII letters and apostrophes.
func ExtractWords(text string) []string {
	matches := wordToken.FindAllString(text, -1)
	words := make([]string, 0, len(matches))
	for _, m := range matches {
		words = append(words, strings.ToLower(m))
	}
	return words
}
