//-------------------------------------------------------------------------
//
// Cascade Search
//
// Copyright (c) 2025 - 2026, Cascade Search contributors
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

package semantic

import (
	"context"
	"sort"

	"github.com/cascadesearch/retrieval-cascade/internal/document"
	"github.com/cascadesearch/retrieval-cascade/internal/relevance"
)

// FusionBM25Weight and FusionCosineWeight are the fixed score-fusion
// coefficients for Stage-3: finalScore = 0.6*bm25 + 0.4*cos.
const (
	FusionBM25Weight   = 0.6
	FusionCosineWeight = 0.4
)

// Candidate is a Stage-2 result carried into Stage-3 for re-ranking.
type Candidate struct {
	relevance.Result
}

// Result is a Stage-3 ranked result: the fused score plus the raw
// cosine similarity Stage-4 and observability consumers may want.
type Result struct {
	ID         string
	Title      string
	Excerpt    string
	Content    string
	URL        string
	BM25Score  float64
	Cosine     float64
	FinalScore float64
	Snapshot   Snapshot
}

// Reranker is the Stage-3 component: an embedder plus the vector
// store it populates.
type Reranker struct {
	embedder Embedder
	store    *Store
}

// New creates a Stage-3 re-ranker around the given embedding provider.
func New(embedder Embedder) *Reranker {
	return &Reranker{embedder: embedder, store: NewStore()}
}

// Load triggers the embedder's one-shot load, cooperatively shared
// across concurrent callers.
func (r *Reranker) Load(ctx context.Context) error {
	return r.embedder.Load(ctx)
}

// Ready reports whether the underlying embedder has completed its
// load.
func (r *Reranker) Ready() bool {
	return r.embedder.Ready()
}

// AddDocument embeds title+content and stores the resulting vector
// under the document id, together with a metadata snapshot.
func (r *Reranker) AddDocument(ctx context.Context, d *document.Document) error {
	if !r.embedder.Ready() {
		return &NotReadyError{Provider: r.embedder.ModelName()}
	}

	vector, err := r.embedder.Embed(ctx, d.CombinedText())
	if err != nil {
		return err
	}

	snap := Snapshot{
		Title:     d.Title,
		Category:  d.Category,
		Tags:      append([]string(nil), d.Tags...),
		CreatedAt: d.CreatedAt,
		Metadata:  d.Metadata.Clone(),
	}
	return r.store.Upsert(d.ID, vector, snap)
}

// RemoveDocument deletes a document's vector.
func (r *Reranker) RemoveDocument(id string) bool {
	return r.store.Delete(id)
}

// Rerank embeds query, computes cosine similarity against every
// Stage-2 candidate that has a stored vector, fuses it with the
// candidate's BM25 score, re-sorts by fused score descending, and
// truncates to maxResults. Candidates without a stored vector get
// cosine similarity 0, per spec.
func (r *Reranker) Rerank(ctx context.Context, candidates []Candidate, query string, maxResults int) ([]Result, error) {
	if !r.embedder.Ready() {
		return nil, &NotReadyError{Provider: r.embedder.ModelName()}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	qv, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		vector, snap, ok := r.store.Get(c.ID)
		var cos float64
		if ok {
			cos, err = CosineSimilarity(qv, vector)
			if err != nil {
				return nil, err
			}
		}

		final := FusionBM25Weight*c.Score + FusionCosineWeight*cos
		results = append(results, Result{
			ID:         c.ID,
			Title:      c.Title,
			Excerpt:    c.Excerpt,
			Content:    c.Content,
			URL:        c.URL,
			BM25Score:  c.Score,
			Cosine:     cos,
			FinalScore: final,
			Snapshot:   snap,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].FinalScore != results[j].FinalScore {
			return results[i].FinalScore > results[j].FinalScore
		}
		return results[i].ID < results[j].ID
	})

	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}

// SemanticSearch embeds query and scores it against every stored
// vector in the corpus, returning the top-K by similarity. This is
// the O(N*D)-per-query standalone Stage-3 operation.
func (r *Reranker) SemanticSearch(ctx context.Context, query string, limit int) ([]Similarity, error) {
	if !r.embedder.Ready() {
		return nil, &NotReadyError{Provider: r.embedder.ModelName()}
	}

	qv, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	similarities, err := r.store.SimilarityTo(qv, "")
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(similarities) > limit {
		similarities = similarities[:limit]
	}
	return similarities, nil
}

// FindSimilar returns the top-K documents most similar to the stored
// vector for id, excluding id itself. Returns ok=false if id has no
// stored vector.
func (r *Reranker) FindSimilar(id string, limit int) ([]Similarity, bool, error) {
	vector, _, ok := r.store.Get(id)
	if !ok {
		return nil, false, nil
	}

	similarities, err := r.store.SimilarityTo(vector, id)
	if err != nil {
		return nil, false, err
	}

	if limit > 0 && len(similarities) > limit {
		similarities = similarities[:limit]
	}
	return similarities, true, nil
}

// Size returns the number of vectors in the store.
func (r *Reranker) Size() int {
	return r.store.Size()
}

// Dimension returns the store's established vector dimension.
func (r *Reranker) Dimension() int {
	return r.store.Dimension()
}

// ModelName returns the underlying embedder's model name.
func (r *Reranker) ModelName() string {
	return r.embedder.ModelName()
}
