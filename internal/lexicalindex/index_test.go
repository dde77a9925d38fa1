//-------------------------------------------------------------------------
//
// Cascade Search
//
// Copyright (c) 2025 - 2026, Cascade Search contributors
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

package lexicalindex

import (
	"reflect"
	"sort"
	"testing"

	"github.com/cascadesearch/retrieval-cascade/internal/document"
)

func doc(id, title, content string) *document.Document {
	return &document.Document{ID: id, Title: title, Content: content}
}

func twoDocIndex() *Index {
	idx := New()
	idx.AddDocument(doc("d1", "Machine Learning", "algorithms that learn from data"))
	idx.AddDocument(doc("d2", "Deep Learning", "neural networks with multiple layers"))
	return idx
}

func TestCandidatesUnion(t *testing.T) {
	idx := twoDocIndex()
	got := idx.Candidates("learning", 100)
	sort.Strings(got)
	want := []string{"d1", "d2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Candidates = %v, want %v", got, want)
	}
}

func TestCandidatesEmptyQuery(t *testing.T) {
	idx := twoDocIndex()
	if got := idx.Candidates("the a an", 100); got != nil {
		t.Errorf("Candidates(stopwords only) = %v, want nil", got)
	}
}

func TestCandidatesEmptyIndex(t *testing.T) {
	idx := New()
	if got := idx.Candidates("learning", 100); got != nil {
		t.Errorf("Candidates on empty index = %v, want nil", got)
	}
}

func TestCandidatesTruncation(t *testing.T) {
	idx := New()
	for i := 0; i < 10; i++ {
		idx.AddDocument(doc(string(rune('a'+i)), "shared", "term"))
	}
	got := idx.Candidates("shared", 3)
	if len(got) != 3 {
		t.Errorf("Candidates truncated length = %d, want 3", len(got))
	}
}

func TestBooleanAND(t *testing.T) {
	idx := twoDocIndex()
	got := idx.BooleanSearch([]string{"machine", "deep"}, OpAND, 100)
	if len(got) != 0 {
		t.Errorf("AND(machine,deep) = %v, want empty", got)
	}
}

func TestBooleanOR(t *testing.T) {
	idx := twoDocIndex()
	got := idx.BooleanSearch([]string{"machine", "deep"}, OpOR, 100)
	sort.Strings(got)
	want := []string{"d1", "d2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("OR(machine,deep) = %v, want %v", got, want)
	}
}

func TestBooleanNOT(t *testing.T) {
	idx := twoDocIndex()
	got := idx.BooleanSearch([]string{"neural"}, OpNOT, 100)
	want := []string{"d1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NOT(neural) = %v, want %v", got, want)
	}
}

func TestBooleanLaws(t *testing.T) {
	idx := twoDocIndex()

	and := toSet(idx.BooleanSearch([]string{"learning"}, OpAND, 1000))
	or := toSet(idx.BooleanSearch([]string{"learning"}, OpOR, 1000))
	if !reflect.DeepEqual(and, or) {
		t.Errorf("AND([t]) != OR([t]): %v vs %v", and, or)
	}

	andMulti := toSet(idx.BooleanSearch([]string{"machine", "deep"}, OpAND, 1000))
	orMulti := toSet(idx.BooleanSearch([]string{"machine", "deep"}, OpOR, 1000))
	for id := range andMulti {
		if !orMulti[id] {
			t.Errorf("AND result %q not contained in OR result", id)
		}
	}

	all := toSet(idx.BooleanSearch([]string{"nonexistentterm"}, OpNOT, 1000))
	notNeural := toSet(idx.BooleanSearch([]string{"neural"}, OpNOT, 1000))
	neuralPostings := toSet(idx.Candidates("neural", 1000))
	for id := range all {
		if neuralPostings[id] && notNeural[id] {
			t.Errorf("NOT law violated for %q", id)
		}
	}
}

func toSet(ids []string) map[string]bool {
	s := make(map[string]bool, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

func TestAddRemoveRoundTrip(t *testing.T) {
	idx := twoDocIndex()
	before := idx.Stats()

	idx.AddDocument(doc("d3", "Temporary", "transient content for testing"))
	if ok := idx.RemoveDocument("d3"); !ok {
		t.Fatalf("RemoveDocument(d3) = false, want true")
	}

	after := idx.Stats()
	if before != after {
		t.Errorf("stats after add/remove round trip = %+v, want %+v", after, before)
	}
}

func TestRemoveUnknownDocument(t *testing.T) {
	idx := twoDocIndex()
	if ok := idx.RemoveDocument("does-not-exist"); ok {
		t.Errorf("RemoveDocument(unknown) = true, want false")
	}
}

func TestReAddIsIdempotent(t *testing.T) {
	idx := New()
	idx.AddDocument(doc("d1", "Title", "content one"))
	idx.AddDocument(doc("d1", "Title", "content two words"))

	if got := idx.Stats().DocumentCount; got != 1 {
		t.Errorf("DocumentCount after re-add = %d, want 1", got)
	}

	d, ok := idx.GetDocument("d1")
	if !ok || d.Content != "content two words" {
		t.Errorf("GetDocument(d1) = %+v, %v, want updated content", d, ok)
	}
}

func TestInvariantsHoldAfterMutation(t *testing.T) {
	idx := New()
	for i := 0; i < 20; i++ {
		idx.AddDocument(doc(string(rune('a'+i)), "shared common", "overlapping terms appear here"))
	}
	for i := 0; i < 10; i++ {
		idx.RemoveDocument(string(rune('a' + i)))
	}
	if err := idx.CheckInvariants(); err != nil {
		t.Errorf("CheckInvariants() = %v, want nil", err)
	}
}

func TestStats(t *testing.T) {
	idx := twoDocIndex()
	stats := idx.Stats()
	if stats.DocumentCount != 2 {
		t.Errorf("DocumentCount = %d, want 2", stats.DocumentCount)
	}
	if stats.AverageTokensPerDoc <= 0 {
		t.Errorf("AverageTokensPerDoc = %v, want > 0", stats.AverageTokensPerDoc)
	}
}
