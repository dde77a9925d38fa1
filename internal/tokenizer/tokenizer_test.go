//-------------------------------------------------------------------------
//
// Cascade Search
//
// Copyright (c) 2025 - 2026, Cascade Search contributors
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

package tokenizer

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tok := New()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "basic sentence",
			in:   "Machine Learning algorithms that learn from data",
			want: []string{"machine", "learning", "algorithms", "learn", "from", "data"},
		},
		{
			name: "punctuation is stripped",
			in:   "neural-networks, with multiple layers!",
			want: []string{"neural", "networks", "multiple", "layers"},
		},
		{
			name: "numbers are kept",
			in:   "top 10 results for 2026",
			want: []string{"top", "results", "2026"},
		},
		{
			name: "stop words removed",
			in:   "the quick and the dead",
			want: []string{"quick", "dead"},
		},
		{
			name: "short tokens dropped",
			in:   "it is a go program",
			want: []string{"program"},
		},
		{
			name: "empty input",
			in:   "",
			want: nil,
		},
		{
			name: "mixed case normalizes",
			in:   "ALGORITHMS Algorithms algorithms",
			want: []string{"algorithms", "algorithms", "algorithms"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tok.Tokenize(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTokenizeDeterministic(t *testing.T) {
	tok := New()
	s := "Deep Learning neural networks with multiple layers"
	first := tok.Tokenize(s)
	second := tok.Tokenize(s)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Tokenize is not deterministic: %v != %v", first, second)
	}
}

func TestTokenizeFiltersLengthAndStopWords(t *testing.T) {
	tok := New()
	for _, s := range []string{
		"the quick brown fox and a lazy dog",
		"it is on at to for of with by is are",
		"go up in to",
	} {
		for _, token := range tok.Tokenize(s) {
			if len([]rune(token)) <= 2 {
				t.Errorf("tokenize(%q) produced short token %q", s, token)
			}
			if stopWords[token] {
				t.Errorf("tokenize(%q) produced stop word %q", s, token)
			}
		}
	}
}

func TestTermFrequencies(t *testing.T) {
	tok := New()
	freqs := tok.TermFrequencies("learning learning algorithms")
	want := map[string]int{"learning": 2, "algorithms": 1}
	if !reflect.DeepEqual(freqs, want) {
		t.Errorf("TermFrequencies = %v, want %v", freqs, want)
	}
}

func TestCount(t *testing.T) {
	tok := New()
	if got := tok.Count("machine learning algorithms"); got != 3 {
		t.Errorf("Count = %d, want 3", got)
	}
}
