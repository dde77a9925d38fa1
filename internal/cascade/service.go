//-------------------------------------------------------------------------
//
// Cascade Search
//
// Copyright (c) 2025 - 2026, Cascade Search contributors
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

// Package cascade aggregates the four retrieval stages into the
// surface the transport speaks: search, quickSearch, booleanSearch,
// semanticSearch, findSimilar, document mutation, behavior recording,
// profile updates, stats, and health.
package cascade

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/cascadesearch/retrieval-cascade/internal/config"
	"github.com/cascadesearch/retrieval-cascade/internal/document"
	"github.com/cascadesearch/retrieval-cascade/internal/lexicalindex"
	"github.com/cascadesearch/retrieval-cascade/internal/metrics"
	"github.com/cascadesearch/retrieval-cascade/internal/personalize"
	"github.com/cascadesearch/retrieval-cascade/internal/relevance"
	"github.com/cascadesearch/retrieval-cascade/internal/semantic"
)

// tunables holds the subset of configuration config.Watcher can push a
// hot reload of without a process restart.
type tunables struct {
	limits  config.LimitsConfig
	weights config.WeightsConfig
}

// Service is the aggregating entry point over all four stages. Stage
// invocations within a single add/remove/search call happen in order:
// Stage-1, Stage-2, Stage-3, Stage-4.
type Service struct {
	index    *lexicalindex.Index
	scorer   *relevance.Scorer
	reranker *semantic.Reranker
	personal *personalize.Reranker
	profiles *personalize.Store

	tunables atomic.Pointer[tunables]

	metrics *metrics.Manager
	logger  *slog.Logger
}

// New builds a Service wired to a fresh, empty corpus around the
// given embedder.
func New(cfg *config.Config, embedder semantic.Embedder, metricsManager *metrics.Manager, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if metricsManager == nil {
		metricsManager = metrics.NoOpManager()
	}

	profiles := personalize.NewStore()
	svc := &Service{
		index:    lexicalindex.New(),
		scorer:   relevance.NewScorerWithParams(cfg.BM25.K1, cfg.BM25.B),
		reranker: semantic.New(embedder),
		personal: personalize.New(profiles),
		profiles: profiles,
		metrics:  metricsManager,
		logger:   logger,
	}
	svc.tunables.Store(&tunables{limits: cfg.Limits, weights: cfg.Weights})
	return svc
}

// SetTunables replaces the limits and weights the cascade reads on its
// next operation. Safe to call concurrently with Search and friends;
// an in-flight search keeps using the snapshot it already read.
func (s *Service) SetTunables(limits config.LimitsConfig, weights config.WeightsConfig) {
	s.tunables.Store(&tunables{limits: limits, weights: weights})
}

// LoadEmbedder triggers Stage-3's one-shot embedding-model load.
func (s *Service) LoadEmbedder(ctx context.Context) error {
	if err := s.reranker.Load(ctx); err != nil {
		return wrapSearchError(CodeInitializationError, err)
	}
	return nil
}

func validateDocument(d *document.Document) error {
	if strings.TrimSpace(d.ID) == "" {
		return &ValidationError{Field: "id", Message: "required"}
	}
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Field: "title", Message: "required"}
	}
	if strings.TrimSpace(d.Content) == "" {
		return &ValidationError{Field: "content", Message: "required"}
	}
	return nil
}

// AddDocument fans a document out to Stage-1, Stage-2, and Stage-3 in
// that order. A Stage-3 failure (embedder not ready, embed call
// failed) rolls the document back out of Stage-1 and Stage-2 so the
// three stages never diverge on which documents they hold.
func (s *Service) AddDocument(ctx context.Context, d *document.Document) error {
	if err := validateDocument(d); err != nil {
		return wrapSearchError(CodeAddDocumentError, err)
	}

	s.index.AddDocument(d)
	s.scorer.AddDocument(d)

	if err := s.reranker.AddDocument(ctx, d); err != nil {
		s.index.RemoveDocument(d.ID)
		s.scorer.RemoveDocument(d.ID)
		return wrapSearchError(CodeAddDocumentError, &LayerError{Stage: "semantic", Err: err})
	}

	s.metrics.IncDocumentsIndexed()
	s.metrics.SetCorpusSize(s.index.Stats().DocumentCount)
	return nil
}

// AddDocuments adds each document in order, stopping at the first
// failure and returning that document's error unchanged; documents
// added before it stay added.
func (s *Service) AddDocuments(ctx context.Context, docs []*document.Document) error {
	for _, d := range docs {
		if err := s.AddDocument(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

// RemoveDocument fans a removal out to all three document-holding
// stages. It reports success if the id was present in at least one of
// them, and NotFoundError if present in none.
func (s *Service) RemoveDocument(id string) error {
	r1 := s.index.RemoveDocument(id)
	r2 := s.scorer.RemoveDocument(id)
	r3 := s.reranker.RemoveDocument(id)

	if !r1 && !r2 && !r3 {
		return &NotFoundError{ID: id}
	}

	s.metrics.IncDocumentsRemoved()
	s.metrics.SetCorpusSize(s.index.Stats().DocumentCount)
	return nil
}

// Search runs the full four-stage cascade: Stage-1 candidate
// generation, Stage-2 BM25 scoring, Stage-3 semantic re-ranking with
// score fusion, and Stage-4 personalization. An empty Stage-1
// candidate set is not an error: it returns an empty result with full
// layer stats, every unreached stage reported at zero.
func (s *Service) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	requestID := uuid.NewString()
	logger := s.logger.With("requestId", requestID, "operation", "search")
	s.metrics.IncSearches("search")
	tun := s.tunables.Load()

	query := strings.TrimSpace(req.Query)
	if query == "" || len(query) > 500 {
		return nil, wrapSearchError(CodeSearchError, &ValidationError{Field: "query", Message: "must be 1-500 characters"})
	}

	limit := req.Limit
	if limit <= 0 {
		limit = tun.limits.MaxFinalResults
	}
	if limit > 100 {
		limit = 100
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	var stats LayerStats

	start1 := time.Now()
	candidateIDs := s.index.Candidates(query, tun.limits.MaxResultsLayer1)
	stats.Layer1 = LayerStat{Count: len(candidateIDs), ExecutionTime: elapsedMS(start1)}
	s.metrics.ObserveStageDuration(metrics.StageLexical, time.Since(start1).Seconds())

	if len(candidateIDs) == 0 {
		logger.Debug("no stage-1 candidates")
		return &SearchResponse{Results: nil, TotalCount: 0, LayerStats: stats}, nil
	}

	start2 := time.Now()
	scored := s.scorer.Score(candidateIDs, query, relevance.MethodBM25, tun.limits.MaxResultsLayer2)
	stats.Layer2 = LayerStat{Count: len(scored), ExecutionTime: elapsedMS(start2)}
	s.metrics.ObserveStageDuration(metrics.StageRelevance, time.Since(start2).Seconds())

	if len(scored) == 0 {
		return &SearchResponse{Results: nil, TotalCount: 0, LayerStats: stats}, nil
	}

	if !s.reranker.Ready() {
		return nil, wrapSearchError(CodeInitializationError, &NotInitializedError{Provider: s.reranker.ModelName()})
	}

	candidates3 := make([]semantic.Candidate, len(scored))
	for i, r := range scored {
		candidates3[i] = semantic.Candidate{Result: r}
	}

	start3 := time.Now()
	reranked, err := s.reranker.Rerank(ctx, candidates3, query, tun.limits.MaxResultsLayer3)
	stats.Layer3 = LayerStat{Count: len(reranked), ExecutionTime: elapsedMS(start3)}
	s.metrics.ObserveStageDuration(metrics.StageSemantic, time.Since(start3).Seconds())
	if err != nil {
		return nil, wrapSearchError(CodeSearchError, &LayerError{Stage: "semantic", Err: err})
	}

	start4 := time.Now()
	fetch := offset + limit
	final, personalizationScore := s.personal.Rerank(reranked, req.UserID, req.Context, personalize.Weights(tun.weights), fetch)
	if offset > 0 {
		if offset >= len(final) {
			final = nil
		} else {
			final = final[offset:]
		}
	}
	stats.Layer4 = LayerStat{Count: len(final), ExecutionTime: elapsedMS(start4)}
	s.metrics.ObserveStageDuration(metrics.StagePersonalize, time.Since(start4).Seconds())

	results := make([]SearchResult, len(final))
	for i, r := range final {
		results[i] = SearchResult{
			ID:       r.ID,
			Title:    r.Title,
			Content:  r.Excerpt,
			URL:      r.URL,
			Score:    r.Score,
			Metadata: r.Metadata,
		}
	}

	total := stats.Layer1.ExecutionTime + stats.Layer2.ExecutionTime + stats.Layer3.ExecutionTime + stats.Layer4.ExecutionTime

	return &SearchResponse{
		Results:              results,
		TotalCount:           len(reranked),
		ExecutionTime:        total,
		LayerStats:           stats,
		PersonalizationScore: personalizationScore,
	}, nil
}

// QuickSearch runs Stage-1 alone, returning the raw inverted-index
// candidate set.
func (s *Service) QuickSearch(req SearchRequest) (*SearchResponse, error) {
	s.metrics.IncSearches("quickSearch")
	tun := s.tunables.Load()

	query := strings.TrimSpace(req.Query)
	if query == "" || len(query) > 500 {
		return nil, wrapSearchError(CodeSearchError, &ValidationError{Field: "query", Message: "must be 1-500 characters"})
	}

	limit := req.Limit
	if limit <= 0 {
		limit = tun.limits.MaxFinalResults
	}

	start := time.Now()
	ids := s.index.Candidates(query, tun.limits.MaxResultsLayer1)
	elapsed := elapsedMS(start)
	s.metrics.ObserveStageDuration(metrics.StageLexical, time.Since(start).Seconds())

	if len(ids) > limit {
		ids = ids[:limit]
	}

	results := make([]SearchResult, 0, len(ids))
	for _, id := range ids {
		d, ok := s.index.GetDocument(id)
		if !ok {
			continue
		}
		results = append(results, SearchResult{
			ID:      d.ID,
			Title:   d.Title,
			Content: d.Excerpt(200),
			URL:     d.URL,
		})
	}

	return &SearchResponse{
		Results:       results,
		TotalCount:    len(ids),
		ExecutionTime: elapsed,
		LayerStats:    LayerStats{Layer1: LayerStat{Count: len(ids), ExecutionTime: elapsed}},
	}, nil
}

// BooleanSearch runs a Stage-1 boolean query and returns the matching
// document ids.
func (s *Service) BooleanSearch(req BooleanSearchRequest) ([]string, LayerStat, error) {
	s.metrics.IncSearches("booleanSearch")

	if len(req.Terms) == 0 {
		return nil, LayerStat{}, wrapSearchError(CodeSearchError, &ValidationError{Field: "terms", Message: "at least one term is required"})
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.tunables.Load().limits.MaxResultsLayer1
	}

	start := time.Now()
	ids := s.index.BooleanSearch(req.Terms, req.Operator, limit)
	stat := LayerStat{Count: len(ids), ExecutionTime: elapsedMS(start)}
	s.metrics.ObserveStageDuration(metrics.StageLexical, time.Since(start).Seconds())
	return ids, stat, nil
}

// SemanticSearch runs Stage-3 standalone over the entire corpus.
func (s *Service) SemanticSearch(ctx context.Context, query string, limit int) ([]semantic.Similarity, error) {
	s.metrics.IncSearches("semanticSearch")

	if strings.TrimSpace(query) == "" {
		return nil, wrapSearchError(CodeSearchError, &ValidationError{Field: "query", Message: "required"})
	}
	if !s.reranker.Ready() {
		return nil, wrapSearchError(CodeInitializationError, &NotInitializedError{Provider: s.reranker.ModelName()})
	}

	start := time.Now()
	results, err := s.reranker.SemanticSearch(ctx, query, limit)
	s.metrics.ObserveStageDuration(metrics.StageSemantic, time.Since(start).Seconds())
	if err != nil {
		return nil, wrapSearchError(CodeSearchError, &LayerError{Stage: "semantic", Err: err})
	}
	return results, nil
}

// FindSimilar returns documents most similar to id's stored Stage-3
// vector. An unknown id is a client misuse, surfaced as a LayerError
// wrapped in a SearchError rather than NotFoundError, per spec.
func (s *Service) FindSimilar(id string, limit int) ([]semantic.Similarity, error) {
	s.metrics.IncSearches("findSimilar")

	results, ok, err := s.reranker.FindSimilar(id, limit)
	if err != nil {
		return nil, wrapSearchError(CodeSearchError, &LayerError{Stage: "semantic", Err: err})
	}
	if !ok {
		return nil, wrapSearchError(CodeSearchError, &LayerError{Stage: "semantic", Err: errors.New("id has no stored vector")})
	}
	return results, nil
}

// RecordBehavior ingests a single Stage-4 behavior event.
func (s *Service) RecordBehavior(userID string, action personalize.Action, data personalize.BehaviorData) (*personalize.UserProfile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, &ValidationError{Field: "userId", Message: "required"}
	}
	switch action {
	case personalize.ActionClick, personalize.ActionSearch, personalize.ActionTimeSpent:
	default:
		return nil, &ValidationError{Field: "action", Message: "unknown action"}
	}
	return s.profiles.RecordBehavior(userID, action, data), nil
}

// UpdateUserProfile upserts a user's preferences and/or demographics.
func (s *Service) UpdateUserProfile(userID string, update personalize.ProfileUpdate) (*personalize.UserProfile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, &ValidationError{Field: "userId", Message: "required"}
	}
	return s.profiles.UpdateProfile(userID, update), nil
}

// Stats reports per-stage corpus statistics.
func (s *Service) Stats() ServiceStats {
	var out ServiceStats
	out.Layer1 = s.index.Stats()

	scorerStats := s.scorer.Stats()
	out.Layer2.DocumentCount = scorerStats.DocumentCount
	out.Layer2.AverageLength = scorerStats.AverageLength

	out.Layer3.VectorCount = s.reranker.Size()
	out.Layer3.Dimension = s.reranker.Dimension()
	out.Layer3.ModelName = s.reranker.ModelName()

	out.Layer4.ProfileCount = s.profiles.Count()
	return out
}

// Health reports per-stage readiness. Stage-1, Stage-2, and Stage-4
// have no load phase and are always ready; Stage-3 is ready once its
// embedding model has finished loading.
func (s *Service) Health() HealthStatus {
	return HealthStatus{
		Layer1Ready: true,
		Layer2Ready: true,
		Layer3Ready: s.reranker.Ready(),
		Layer4Ready: true,
	}
}

func elapsedMS(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
