//-------------------------------------------------------------------------
//
// Cascade Search
//
// Copyright (c) 2025 - 2026, Cascade Search contributors
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

package personalize

import (
	"math"
	"sort"
	"time"

	"github.com/cascadesearch/retrieval-cascade/internal/document"
	"github.com/cascadesearch/retrieval-cascade/internal/semantic"
)

// Weights are the per-phase coefficients applied in the s + s*b*w
// adjustment. Defaults match the spec's configuration surface.
type Weights struct {
	UserProfileWeight float64
	ContextWeight     float64
	TemporalWeight    float64
}

// DefaultWeights returns the spec's default personalization weights.
func DefaultWeights() Weights {
	return Weights{UserProfileWeight: 0.3, ContextWeight: 0.2, TemporalWeight: 0.1}
}

// Result is a Stage-4 ranked result: the Stage-3 result plus the final
// adjusted score and the per-phase boosts recorded for observability.
type Result struct {
	ID                   string
	Title                string
	Excerpt              string
	URL                  string
	Score                float64
	Metadata             document.Metadata
	PersonalizationBoost float64
	ContextBoost         float64
	TemporalBoost        float64
}

// Reranker is the Stage-4 component: a user-profile store plus the
// pure boost functions it drives.
type Reranker struct {
	profiles *Store
}

// New creates a Stage-4 re-ranker backed by profiles.
func New(profiles *Store) *Reranker {
	return &Reranker{profiles: profiles}
}

// Rerank applies user-profile (if userID is non-empty), contextual (if
// ctx is non-nil), and temporal (always) adjustments to candidates in
// that order, re-sorts by final score descending, and truncates to
// maxResults. It also returns the request-level personalizationScore:
// the sum of applicable weights, clamped to 1.0.
func (rr *Reranker) Rerank(candidates []semantic.Result, userID string, ctx *RequestContext, weights Weights, maxResults int) ([]Result, float64) {
	now := time.Now()
	if ctx != nil && !ctx.Timestamp.IsZero() {
		now = ctx.Timestamp
	}

	var profile *UserProfile
	if userID != "" && rr.profiles != nil {
		profile = rr.profiles.Get(userID)
	}

	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		score := c.FinalScore

		var profileBoost float64
		if userID != "" {
			profileBoost = userProfileBoost(profile, c)
			score = adjust(score, profileBoost, weights.UserProfileWeight)
		}

		var ctxBoost float64
		if ctx != nil {
			ctxBoost = contextualBoost(ctx, c)
			score = adjust(score, ctxBoost, weights.ContextWeight)
		}

		tempBoost := temporalBoost(now, c)
		score = adjust(score, tempBoost, weights.TemporalWeight)

		results = append(results, Result{
			ID:                   c.ID,
			Title:                c.Title,
			Excerpt:              c.Excerpt,
			URL:                  c.URL,
			Score:                score,
			Metadata:             augmentMetadata(c.Snapshot.Metadata, profileBoost, ctxBoost, tempBoost),
			PersonalizationBoost: profileBoost,
			ContextBoost:         ctxBoost,
			TemporalBoost:        tempBoost,
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

	return results, personalizationScore(userID, ctx, weights)
}

// adjust applies the spec's s + s*b*w formula.
func adjust(s, b, w float64) float64 {
	return s + s*b*w
}

func personalizationScore(userID string, ctx *RequestContext, weights Weights) float64 {
	var score float64
	if userID != "" {
		score += weights.UserProfileWeight
	}
	if ctx != nil {
		score += weights.ContextWeight
	}
	score += weights.TemporalWeight
	return math.Min(score, 1.0)
}

// augmentMetadata returns a copy of base with per-phase boost values
// recorded for observability, per spec.
func augmentMetadata(base document.Metadata, profileBoost, ctxBoost, tempBoost float64) document.Metadata {
	out := base.Clone()
	if out == nil {
		out = make(document.Metadata)
	}
	out["personalizationBoost"] = document.Number(profileBoost)
	out["contextBoost"] = document.Number(ctxBoost)
	out["temporalBoost"] = document.Number(tempBoost)
	return out
}
