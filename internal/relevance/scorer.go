//-------------------------------------------------------------------------
//
// Cascade Search
//
// Copyright (c) 2025 - 2026, Cascade Search contributors
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

package relevance

import (
	"sort"
	"sync"

	"github.com/cascadesearch/retrieval-cascade/internal/document"
	"github.com/cascadesearch/retrieval-cascade/internal/tokenizer"
)

// Method selects which scoring function Scorer.Score uses.
type Method string

const (
	MethodBM25  Method = "bm25"
	MethodTFIDF Method = "tfidf"
)

// Result is one scored candidate from Stage-2, carrying the score
// breakdown spec.md requires for diagnostics.
type Result struct {
	ID        string
	Title     string
	Excerpt   string
	Content   string
	URL       string
	Score     float64
	Breakdown map[string]float64
	DocLength int
}

// Stats reports Stage-2 corpus statistics.
type Stats struct {
	DocumentCount int
	AverageLength float64
}

// Scorer maintains its own copy of the corpus, independent of
// Stage-1, and independently re-tokenizes on add/remove per spec — it
// must not depend on the lexical index's internals.
type Scorer struct {
	mu sync.RWMutex

	tok *tokenizer.Tokenizer
	bm  *BM25

	docs      map[string]*document.Document
	docTokens map[string][]string
	docLens   map[string]int
	termFreqs map[string]map[string]int // docID -> term -> tf, cached per Open Question (a)
	docFreqs  map[string]int            // term -> document frequency

	totalDocs int
	totalLen  int
}

// NewScorer creates an empty Stage-2 scorer with default BM25
// parameters.
func NewScorer() *Scorer {
	return NewScorerWithParams(DefaultK1, DefaultB)
}

// NewScorerWithParams creates an empty Stage-2 scorer with custom BM25
// parameters.
func NewScorerWithParams(k1, b float64) *Scorer {
	return &Scorer{
		tok:       tokenizer.New(),
		bm:        NewBM25WithParams(k1, b),
		docs:      make(map[string]*document.Document),
		docTokens: make(map[string][]string),
		docLens:   make(map[string]int),
		termFreqs: make(map[string]map[string]int),
		docFreqs:  make(map[string]int),
	}
}

// AddDocument tokenizes and indexes a document, replacing any existing
// entry with the same id.
func (s *Scorer) AddDocument(d *document.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[d.ID]; exists {
		s.removeLocked(d.ID)
	}

	tokens := s.tok.Tokenize(d.CombinedText())
	freqs := make(map[string]int)
	for _, tok := range tokens {
		freqs[tok]++
	}

	for term := range freqs {
		s.docFreqs[term]++
	}

	s.docs[d.ID] = d
	s.docTokens[d.ID] = tokens
	s.docLens[d.ID] = len(tokens)
	s.termFreqs[d.ID] = freqs

	s.totalDocs++
	s.totalLen += len(tokens)
	s.refreshCorpusStats()
}

// RemoveDocument removes a document by id, restoring corpus
// statistics to their pre-add values.
func (s *Scorer) RemoveDocument(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(id)
}

func (s *Scorer) removeLocked(id string) bool {
	tokens, ok := s.docTokens[id]
	if !ok {
		return false
	}

	seen := make(map[string]bool)
	for _, term := range tokens {
		if seen[term] {
			continue
		}
		seen[term] = true
		s.docFreqs[term]--
		if s.docFreqs[term] <= 0 {
			delete(s.docFreqs, term)
		}
	}

	s.totalLen -= len(tokens)
	s.totalDocs--
	delete(s.docs, id)
	delete(s.docTokens, id)
	delete(s.docLens, id)
	delete(s.termFreqs, id)
	s.refreshCorpusStats()
	return true
}

func (s *Scorer) refreshCorpusStats() {
	avg := 0.0
	if s.totalDocs > 0 {
		avg = float64(s.totalLen) / float64(s.totalDocs)
	}
	s.bm.SetCorpusStats(s.totalDocs, avg)
}

// Score ranks the given candidate ids against query using method,
// omitting zero-score documents and truncating to maxResults.
// Candidates absent from the scorer's own corpus are silently
// skipped.
func (s *Scorer) Score(candidateIDs []string, query string, method Method, maxResults int) []Result {
	s.mu.RLock()
	defer s.mu.RUnlock()

	queryTerms := s.tok.TermFrequencies(query)
	if len(queryTerms) == 0 {
		return nil
	}

	results := make([]Result, 0, len(candidateIDs))
	for _, id := range candidateIDs {
		d, ok := s.docs[id]
		if !ok {
			continue
		}

		docLen := s.docLens[id]
		var total float64
		var breakdown map[string]float64

		switch method {
		case MethodTFIDF:
			total, breakdown = TFIDF(queryTerms, s.termFreqs[id], s.docFreqs, docLen, s.totalDocs)
		default:
			total, breakdown = s.bm.ScoreDocument(queryTerms, s.termFreqs[id], s.docFreqs, docLen)
		}

		if total == 0 {
			continue
		}

		results = append(results, Result{
			ID:        id,
			Title:     d.Title,
			Excerpt:   d.Excerpt(200),
			Content:   d.CombinedText(),
			URL:       d.URL,
			Score:     total,
			Breakdown: breakdown,
			DocLength: docLen,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})

	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

// GetDocument returns a stored document by id.
func (s *Scorer) GetDocument(id string) (*document.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docs[id]
	return d, ok
}

// DocLength returns the cached length of a document, or 0 if absent.
func (s *Scorer) DocLength(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docLens[id]
}

// Stats returns Stage-2 corpus statistics.
func (s *Scorer) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	avg := 0.0
	if s.totalDocs > 0 {
		avg = float64(s.totalLen) / float64(s.totalDocs)
	}
	return Stats{DocumentCount: s.totalDocs, AverageLength: avg}
}
