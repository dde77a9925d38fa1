//-------------------------------------------------------------------------
//
// Cascade Search
//
// Copyright (c) 2025 - 2026, Cascade Search contributors
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

package cascade

import (
	"github.com/cascadesearch/retrieval-cascade/internal/document"
	"github.com/cascadesearch/retrieval-cascade/internal/lexicalindex"
	"github.com/cascadesearch/retrieval-cascade/internal/personalize"
)

// SearchRequest is the input to Search and QuickSearch.
type SearchRequest struct {
	Query   string
	UserID  string
	Limit   int
	Offset  int
	Filters document.Metadata
	Context *personalize.RequestContext
}

// SearchResult is one ranked, transport-facing result.
type SearchResult struct {
	ID       string
	Title    string
	Content  string
	URL      string
	Score    float64
	Metadata document.Metadata
}

// LayerStat reports one stage's contribution to a search: how many
// items it produced and how long it took.
type LayerStat struct {
	Count         int
	ExecutionTime float64 // milliseconds
}

// LayerStats reports every stage's contribution to a single search
// call. A stage the call never reached (because an earlier stage
// produced no candidates) is reported with a zero LayerStat, per
// spec's "not an error" rule for empty Stage-1 output.
type LayerStats struct {
	Layer1 LayerStat
	Layer2 LayerStat
	Layer3 LayerStat
	Layer4 LayerStat
}

// SearchResponse is the result of Search or QuickSearch.
type SearchResponse struct {
	Results               []SearchResult
	TotalCount            int
	ExecutionTime         float64 // milliseconds
	LayerStats            LayerStats
	PersonalizationScore  float64
}

// BooleanSearchRequest is the input to BooleanSearch.
type BooleanSearchRequest struct {
	Terms    []string
	Operator lexicalindex.Operator
	Limit    int
}

// ServiceStats reports per-stage corpus statistics for the stats
// operation.
type ServiceStats struct {
	Layer1 lexicalindex.Stats
	Layer2 struct {
		DocumentCount int
		AverageLength float64
	}
	Layer3 struct {
		VectorCount int
		Dimension   int
		ModelName   string
	}
	Layer4 struct {
		ProfileCount int
	}
}

// HealthStatus reports per-stage readiness for the health operation.
type HealthStatus struct {
	Layer1Ready bool
	Layer2Ready bool
	Layer3Ready bool
	Layer4Ready bool
}

// Healthy reports whether every stage is ready to serve traffic.
func (h HealthStatus) Healthy() bool {
	return h.Layer1Ready && h.Layer2Ready && h.Layer3Ready && h.Layer4Ready
}
