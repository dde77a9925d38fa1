//-------------------------------------------------------------------------
//
// Cascade Search
//
// Copyright (c) 2025 - 2026, Cascade Search contributors
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNoOpManagerHandlerReturns404(t *testing.T) {
	m := NoOpManager()
	if m.Enabled() {
		t.Fatal("NoOpManager should report disabled")
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestNoOpManagerRecordingMethodsDoNotPanic(t *testing.T) {
	m := NoOpManager()
	m.ObserveStageDuration(StageLexical, 0.1)
	m.IncSearches("search")
	m.IncDocumentsIndexed()
	m.IncDocumentsRemoved()
	m.SetCorpusSize(10)
}

func TestManagerExposesRegisteredMetrics(t *testing.T) {
	m := NewManager(DefaultConfig())
	if !m.Enabled() {
		t.Fatal("enabled manager should report enabled")
	}

	m.ObserveStageDuration(StageSemantic, 0.05)
	m.IncSearches("quickSearch")
	m.IncDocumentsIndexed()
	m.SetCorpusSize(42)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := rec.Body.String()
	for _, want := range []string{
		"cascade_stage_duration_seconds",
		"cascade_searches_total",
		"cascade_documents_indexed_total",
		"cascade_corpus_size 42",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
