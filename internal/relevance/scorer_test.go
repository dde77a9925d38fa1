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
	"testing"

	"github.com/cascadesearch/retrieval-cascade/internal/document"
)

func scorerDoc(id, title, content string) *document.Document {
	return &document.Document{ID: id, Title: title, Content: content}
}

func TestScorerRanksHigherMatch(t *testing.T) {
	s := NewScorer()
	s.AddDocument(scorerDoc("d1", "Machine Learning", "algorithms that learn from data"))
	s.AddDocument(scorerDoc("d2", "Deep Learning", "neural networks with multiple layers"))
	// With only two documents a term found in one of them has an IDF of
	// ln(1.5/1.5) = 0; a third, unrelated document keeps it positive.
	s.AddDocument(scorerDoc("d3", "Data Science", "statistics and probability for analysis"))

	results := s.Score([]string{"d1", "d2"}, "neural networks", MethodBM25, 10)
	if len(results) == 0 {
		t.Fatalf("Score returned no results")
	}
	if results[0].ID != "d2" {
		t.Errorf("top result = %s, want d2", results[0].ID)
	}
}

func TestScorerOmitsZeroScore(t *testing.T) {
	s := NewScorer()
	s.AddDocument(scorerDoc("d1", "Machine Learning", "algorithms that learn from data"))

	results := s.Score([]string{"d1"}, "unrelated", MethodBM25, 10)
	if len(results) != 0 {
		t.Errorf("Score = %v, want empty for non-matching query", results)
	}
}

func TestScorerKeepsNegativeScore(t *testing.T) {
	s := NewScorer()
	// "shared" occurs in every document, so BM25's IDF term for it goes
	// negative; the lone query match still produced a nonzero score and
	// must not be dropped by the zero-score filter.
	s.AddDocument(scorerDoc("d1", "One", "shared shared shared"))
	s.AddDocument(scorerDoc("d2", "Two", "shared shared shared"))
	s.AddDocument(scorerDoc("d3", "Three", "shared shared shared"))

	results := s.Score([]string{"d1"}, "shared", MethodBM25, 10)
	if len(results) != 1 {
		t.Fatalf("Score = %v, want the sole candidate kept despite a negative score", results)
	}
	if results[0].Score >= 0 {
		t.Fatalf("Score = %v, want a negative score to exercise the == 0 guard", results[0].Score)
	}
}

func TestScorerTruncation(t *testing.T) {
	s := NewScorer()
	ids := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		id := string(rune('a' + i))
		s.AddDocument(scorerDoc(id, "shared", "shared shared term"))
		ids = append(ids, id)
	}

	results := s.Score(ids, "shared", MethodBM25, 5)
	if len(results) != 5 {
		t.Errorf("Score truncated length = %d, want 5", len(results))
	}
}

func TestScorerAddRemoveRestoresStats(t *testing.T) {
	s := NewScorer()
	s.AddDocument(scorerDoc("d1", "Machine Learning", "algorithms that learn from data"))
	before := s.Stats()

	s.AddDocument(scorerDoc("tmp", "Temp", "temporary content for this test case"))
	s.RemoveDocument("tmp")

	after := s.Stats()
	if before != after {
		t.Errorf("stats after add/remove = %+v, want %+v", after, before)
	}
}

func TestScorerExcerptTruncatedTo200(t *testing.T) {
	s := NewScorer()
	long := ""
	for i := 0; i < 50; i++ {
		long += "word "
	}
	s.AddDocument(scorerDoc("d1", "Title", long))

	results := s.Score([]string{"d1"}, "word", MethodBM25, 10)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if len([]rune(results[0].Excerpt)) > 201 {
		t.Errorf("excerpt length = %d, want <= 201", len([]rune(results[0].Excerpt)))
	}
}

func TestScorerMethodComparisonBothPositive(t *testing.T) {
	s := NewScorer()
	s.AddDocument(scorerDoc("d1", "Machine Learning", "algorithms that learn from data"))
	s.AddDocument(scorerDoc("d2", "Deep Learning", "neural networks with multiple layers"))
	// "learning" is in two of five documents, so both the BM25 IDF
	// ln(3.5/2.5) and the TF-IDF IDF ln(5/2) are positive.
	s.AddDocument(scorerDoc("d3", "Data Science", "statistics and probability for analysis"))
	s.AddDocument(scorerDoc("d4", "Databases", "relational storage and query planning"))
	s.AddDocument(scorerDoc("d5", "Compilers", "parsing code generation and optimization"))

	bm25Results := s.Score([]string{"d1", "d2"}, "learning", MethodBM25, 10)
	tfidfResults := s.Score([]string{"d1", "d2"}, "learning", MethodTFIDF, 10)

	if len(bm25Results) == 0 || len(tfidfResults) == 0 {
		t.Fatalf("expected both methods to produce results")
	}
}

func TestScorerIndependentOfLexicalIndex(t *testing.T) {
	// The scorer must be usable with candidate ids it was never told
	// about by Stage-1 — unknown ids are silently skipped rather than
	// causing a panic or error.
	s := NewScorer()
	s.AddDocument(scorerDoc("d1", "Machine Learning", "algorithms that learn from data"))

	results := s.Score([]string{"d1", "unknown-id"}, "learning", MethodBM25, 10)
	if len(results) != 1 || results[0].ID != "d1" {
		t.Errorf("Score with unknown id = %v, want only d1", results)
	}
}
