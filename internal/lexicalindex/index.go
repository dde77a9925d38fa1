//-------------------------------------------------------------------------
//
// Cascade Search
//
// Copyright (c) 2025 - 2026, Cascade Search contributors
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

// Package lexicalindex implements Stage-1 of the retrieval cascade: an
// in-memory inverted index with boolean retrieval over it.
package lexicalindex

import (
	"sort"
	"sync"

	"github.com/cascadesearch/retrieval-cascade/internal/document"
	"github.com/cascadesearch/retrieval-cascade/internal/tokenizer"
)

// Operator is a boolean retrieval operator.
type Operator string

const (
	OpAND Operator = "AND"
	OpOR  Operator = "OR"
	OpNOT Operator = "NOT"
)

// postingList is one term's inverted-index entry.
type postingList struct {
	docIDs    map[string]bool
	termFreqs map[string]int // docID -> term frequency
}

func newPostingList() *postingList {
	return &postingList{
		docIDs:    make(map[string]bool),
		termFreqs: make(map[string]int),
	}
}

// Stats reports index-wide statistics.
type Stats struct {
	DocumentCount      int
	UniqueTermCount    int
	TotalTokens        int
	AverageTokensPerDoc float64
}

// Index is the Stage-1 in-memory inverted index.
type Index struct {
	mu sync.RWMutex

	tok *tokenizer.Tokenizer

	postings  map[string]*postingList // term -> posting list
	docs      map[string]*document.Document
	docTokens map[string][]string // docID -> tokenized text, cached for remove
	totalDocs int
	totalLen  int
}

// New creates an empty Stage-1 index.
func New() *Index {
	return &Index{
		tok:       tokenizer.New(),
		postings:  make(map[string]*postingList),
		docs:      make(map[string]*document.Document),
		docTokens: make(map[string][]string),
	}
}

// AddDocument tokenizes the document's title+content and indexes it.
// Adding a document whose id already exists first removes the stale
// entry, so re-adding is idempotent.
func (idx *Index) AddDocument(d *document.Document) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, exists := idx.docs[d.ID]; exists {
		idx.removeLocked(d.ID)
	}

	tokens := idx.tok.Tokenize(d.CombinedText())
	freqs := make(map[string]int)
	for _, tok := range tokens {
		freqs[tok]++
	}

	for term, tf := range freqs {
		pl, ok := idx.postings[term]
		if !ok {
			pl = newPostingList()
			idx.postings[term] = pl
		}
		pl.docIDs[d.ID] = true
		pl.termFreqs[d.ID] = tf
	}

	idx.docs[d.ID] = d
	idx.docTokens[d.ID] = tokens
	idx.totalDocs++
	idx.totalLen += len(tokens)
}

// RemoveDocument removes a document by id, reporting whether it was
// present.
func (idx *Index) RemoveDocument(id string) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.removeLocked(id)
}

func (idx *Index) removeLocked(id string) bool {
	tokens, ok := idx.docTokens[id]
	if !ok {
		return false
	}

	seen := make(map[string]bool)
	for _, term := range tokens {
		if seen[term] {
			continue
		}
		seen[term] = true
		pl, ok := idx.postings[term]
		if !ok {
			continue
		}
		delete(pl.docIDs, id)
		delete(pl.termFreqs, id)
		if len(pl.docIDs) == 0 {
			delete(idx.postings, term)
		}
	}

	idx.totalLen -= len(tokens)
	idx.totalDocs--
	delete(idx.docs, id)
	delete(idx.docTokens, id)
	return true
}

// GetDocument returns a stored document by id.
func (idx *Index) GetDocument(id string) (*document.Document, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	d, ok := idx.docs[id]
	return d, ok
}

// Candidates tokenizes the query and returns the union of posting
// lists for all query tokens, truncated deterministically (sorted by
// id) to maxResults. An empty query yields an empty result.
func (idx *Index) Candidates(query string, maxResults int) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	tokens := idx.tok.Tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	union := make(map[string]bool)
	for _, term := range tokens {
		pl, ok := idx.postings[term]
		if !ok {
			continue
		}
		for id := range pl.docIDs {
			union[id] = true
		}
	}
	if len(union) == 0 {
		return nil
	}

	return truncateSorted(union, maxResults)
}

// BooleanSearch evaluates a boolean query against the index.
func (idx *Index) BooleanSearch(terms []string, op Operator, maxResults int) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	normalized := make([]string, 0, len(terms))
	for _, term := range terms {
		normalized = append(normalized, idx.tok.Tokenize(term)...)
	}

	var result map[string]bool

	switch op {
	case OpOR:
		result = make(map[string]bool)
		for _, term := range normalized {
			if pl, ok := idx.postings[term]; ok {
				for id := range pl.docIDs {
					result[id] = true
				}
			}
		}
	case OpAND:
		result = make(map[string]bool)
		for i, term := range normalized {
			pl, ok := idx.postings[term]
			if !ok {
				result = make(map[string]bool)
				break
			}
			if i == 0 {
				for id := range pl.docIDs {
					result[id] = true
				}
				continue
			}
			for id := range result {
				if !pl.docIDs[id] {
					delete(result, id)
				}
			}
		}
	case OpNOT:
		excluded := make(map[string]bool)
		for _, term := range normalized {
			if pl, ok := idx.postings[term]; ok {
				for id := range pl.docIDs {
					excluded[id] = true
				}
			}
		}
		result = make(map[string]bool)
		for id := range idx.docs {
			if !excluded[id] {
				result[id] = true
			}
		}
	default:
		return nil
	}

	return truncateSorted(result, maxResults)
}

// TermFrequency returns the frequency of term within document id; 0
// when the document does not contain it.
func (idx *Index) TermFrequency(id, term string) int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	pl, ok := idx.postings[term]
	if !ok {
		return 0
	}
	return pl.termFreqs[id]
}

// DocumentFrequency returns the number of documents containing term.
func (idx *Index) DocumentFrequency(term string) int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	pl, ok := idx.postings[term]
	if !ok {
		return 0
	}
	return len(pl.docIDs)
}

// Stats returns index-wide statistics.
func (idx *Index) Stats() Stats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	avg := 0.0
	if idx.totalDocs > 0 {
		avg = float64(idx.totalLen) / float64(idx.totalDocs)
	}

	return Stats{
		DocumentCount:       idx.totalDocs,
		UniqueTermCount:     len(idx.postings),
		TotalTokens:         idx.totalLen,
		AverageTokensPerDoc: avg,
	}
}

// CheckInvariants verifies, for every posting list, that
// documentFrequency == |documentIds| == |keys(termFrequency)| and
// every id refers to a still-present document. It is exposed for
// tests; production code never calls it on the hot path.
func (idx *Index) CheckInvariants() error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	for term, pl := range idx.postings {
		if len(pl.docIDs) != len(pl.termFreqs) {
			return &invariantError{term: term, reason: "docIDs and termFreqs size mismatch"}
		}
		for id := range pl.docIDs {
			if _, ok := pl.termFreqs[id]; !ok {
				return &invariantError{term: term, reason: "docID missing from termFreqs"}
			}
			if _, ok := idx.docs[id]; !ok {
				return &invariantError{term: term, reason: "docID refers to an absent document"}
			}
		}
	}
	return nil
}

type invariantError struct {
	term   string
	reason string
}

func (e *invariantError) Error() string {
	return "lexicalindex: invariant violated for term " + e.term + ": " + e.reason
}

func truncateSorted(set map[string]bool, max int) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if max > 0 && len(ids) > max {
		ids = ids[:max]
	}
	return ids
}
