//-------------------------------------------------------------------------
//
// Cascade Search
//
// Copyright (c) 2025 - 2026, Cascade Search contributors
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

// Package tokenizer provides the shared text normalizer used by every
// stage of the retrieval cascade. Indexing and querying must use the
// exact same tokenizer so that term matching is consistent end to end.
package tokenizer

import (
	"strings"
	"unicode"
)

// stopWords is the fixed English stop-word list. It is shared by
// every stage; changing it changes index and query semantics
// simultaneously.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"but": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "of": true, "with": true, "by": true, "is": true,
	"are": true, "was": true, "were": true, "be": true, "been": true,
	"have": true, "has": true, "had": true, "do": true, "does": true,
	"did": true, "will": true, "would": true, "could": true, "should": true,
	"may": true, "might": true, "can": true, "this": true, "that": true,
	"these": true, "those": true, "i": true, "you": true, "he": true,
	"she": true, "it": true, "we": true, "they": true, "me": true,
	"him": true, "her": true, "us": true, "them": true,
}

// Tokenizer normalizes text into a sequence of accepted terms:
// lowercased, split on word boundaries, with short tokens and stop
// words removed. It is deterministic and holds no mutable state, so a
// single instance may be shared by every stage and used concurrently.
type Tokenizer struct{}

// New returns the shared tokenizer. There is no configuration:
// spec-mandated behavior is fixed so that Stage-1 and Stage-2 can
// re-tokenize independently and still agree.
func New() *Tokenizer {
	return &Tokenizer{}
}

// Tokenize splits text into accepted tokens, in order.
func (t *Tokenizer) Tokenize(text string) []string {
	text = strings.ToLower(text)

	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		token := current.String()
		if isAccepted(token) {
			tokens = append(tokens, token)
		}
		current.Reset()
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	return tokens
}

// isAccepted reports whether a token survives the length and
// stop-word filters.
func isAccepted(token string) bool {
	if len([]rune(token)) <= 2 {
		return false
	}
	return !stopWords[token]
}

// TermFrequencies tokenizes text and returns a term -> count map.
func (t *Tokenizer) TermFrequencies(text string) map[string]int {
	freqs := make(map[string]int)
	for _, tok := range t.Tokenize(text) {
		freqs[tok]++
	}
	return freqs
}

// Count returns the number of accepted tokens in text.
func (t *Tokenizer) Count(text string) int {
	return len(t.Tokenize(text))
}
