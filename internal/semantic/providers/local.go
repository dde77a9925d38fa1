//-------------------------------------------------------------------------
//
// Cascade Search
//
// Copyright (c) 2025 - 2026, Cascade Search contributors
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

// Package providers supplies concrete semantic.Embedder
// implementations: three network-backed providers (openai, voyage,
// ollama) and a deterministic local provider with no external
// dependency, for tests and for seeding a corpus without API access.
package providers

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/cascadesearch/retrieval-cascade/internal/semantic"
	"github.com/cascadesearch/retrieval-cascade/internal/tokenizer"
)

// Local is a deterministic, network-free embedder. Its Load builds a
// TF-IDF vocabulary from a seed corpus; Embed projects text into that
// vocabulary's term space and L2-normalizes the result. It has no
// notion of "the right" semantic model, but it is fully reproducible
// and exercises the same Embedder contract as the network providers.
type Local struct {
	gate *semantic.LoadGate

	mu         sync.RWMutex
	tok        *tokenizer.Tokenizer
	seedTexts  []string
	vocabulary map[string]int // term -> index
	idf        []float64
	dimension  int
}

// NewLocal creates a Local embedder that will build its vocabulary
// from seedTexts on Load.
func NewLocal(seedTexts []string) *Local {
	return &Local{
		gate:      semantic.NewLoadGate(),
		tok:       tokenizer.New(),
		seedTexts: seedTexts,
	}
}

// Load builds the document-frequency vocabulary used to project text
// into vectors.
func (l *Local) Load(ctx context.Context) error {
	return l.gate.Ensure(ctx, func(ctx context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()

		df := make(map[string]int)
		n := len(l.seedTexts)
		if n == 0 {
			n = 1
			l.seedTexts = []string{""}
		}

		for _, text := range l.seedTexts {
			seen := make(map[string]bool)
			for _, term := range l.tok.Tokenize(text) {
				if seen[term] {
					continue
				}
				seen[term] = true
				df[term]++
			}
		}

		terms := make([]string, 0, len(df))
		for term := range df {
			terms = append(terms, term)
		}
		sort.Strings(terms)

		vocab := make(map[string]int, len(terms))
		idf := make([]float64, len(terms))
		for i, term := range terms {
			vocab[term] = i
			idf[i] = math.Log(float64(n+1)/float64(df[term]+1)) + 1
		}

		l.vocabulary = vocab
		l.idf = idf
		l.dimension = len(terms)
		if l.dimension == 0 {
			l.dimension = 1
		}
		return nil
	})
}

// Ready reports whether Load has completed.
func (l *Local) Ready() bool { return l.gate.Ready() }

// Embed projects text into the vocabulary's TF-IDF term space and
// L2-normalizes the result to a unit vector.
func (l *Local) Embed(ctx context.Context, text string) ([]float32, error) {
	if !l.Ready() {
		return nil, &semantic.NotReadyError{Provider: l.ModelName()}
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	vec := make([]float64, l.dimension)
	freqs := l.tok.TermFrequencies(text)
	for term, tf := range freqs {
		idx, ok := l.vocabulary[term]
		if !ok {
			continue
		}
		vec[idx] = float64(tf) * l.idf[idx]
	}

	var norm float64
	for _, x := range vec {
		norm += x * x
	}
	norm = math.Sqrt(norm)

	out := make([]float32, len(vec))
	if norm > 0 {
		for i, x := range vec {
			out[i] = float32(x / norm)
		}
	}
	return out, nil
}

// Dimensions returns the established vocabulary size.
func (l *Local) Dimensions() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.dimension
}

// ModelName identifies this provider.
func (l *Local) ModelName() string { return "local-tfidf" }

var _ semantic.Embedder = (*Local)(nil)
