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
	"testing"
	"time"

	"github.com/cascadesearch/retrieval-cascade/internal/document"
	"github.com/cascadesearch/retrieval-cascade/internal/semantic"
)

func TestRerankAppliesUserProfileBoost(t *testing.T) {
	profiles := NewStore()
	profiles.UpdateProfile("u1", ProfileUpdate{Preferences: &Preferences{Categories: []string{"tech"}}})

	candidates := []semantic.Result{
		{ID: "d1", FinalScore: 1.0, Snapshot: semantic.Snapshot{Category: "tech", Metadata: document.Metadata{}}},
	}

	rr := New(profiles)
	results, score := rr.Rerank(candidates, "u1", nil, DefaultWeights(), 10)
	if len(results) != 1 {
		t.Fatalf("Rerank returned %d results, want 1", len(results))
	}

	want := 1.0 + 1.0*0.20*DefaultWeights().UserProfileWeight
	if math.Abs(results[0].Score-want) > 1e-9 {
		t.Errorf("Score = %v, want %v", results[0].Score, want)
	}
	if math.Abs(results[0].PersonalizationBoost-0.20) > 1e-9 {
		t.Errorf("PersonalizationBoost = %v, want 0.20", results[0].PersonalizationBoost)
	}

	wantScore := math.Min(DefaultWeights().UserProfileWeight+DefaultWeights().TemporalWeight, 1.0)
	if math.Abs(score-wantScore) > 1e-9 {
		t.Errorf("personalizationScore = %v, want %v", score, wantScore)
	}
}

func TestRerankNoUserIDSkipsProfilePhase(t *testing.T) {
	profiles := NewStore()
	profiles.UpdateProfile("u1", ProfileUpdate{Preferences: &Preferences{Categories: []string{"tech"}}})

	candidates := []semantic.Result{
		{ID: "d1", FinalScore: 1.0, Snapshot: semantic.Snapshot{Category: "tech"}},
	}

	rr := New(profiles)
	results, _ := rr.Rerank(candidates, "", nil, DefaultWeights(), 10)
	if results[0].PersonalizationBoost != 0 {
		t.Errorf("PersonalizationBoost = %v, want 0 without userID", results[0].PersonalizationBoost)
	}
}

func TestRerankReSortsByFinalScore(t *testing.T) {
	profiles := NewStore()
	profiles.RecordBehavior("u1", ActionClick, BehaviorData{DocumentID: "d2"})

	candidates := []semantic.Result{
		{ID: "d1", FinalScore: 1.0},
		{ID: "d2", FinalScore: 1.05},
	}

	rr := New(profiles)
	results, _ := rr.Rerank(candidates, "u1", nil, DefaultWeights(), 10)
	if results[0].ID != "d2" {
		t.Errorf("expected d2 (boosted by click history) to rank first, got %v", results[0].ID)
	}
}

func TestRerankTruncatesToMaxResults(t *testing.T) {
	rr := New(NewStore())
	candidates := []semantic.Result{
		{ID: "d1", FinalScore: 3},
		{ID: "d2", FinalScore: 2},
		{ID: "d3", FinalScore: 1},
	}
	results, _ := rr.Rerank(candidates, "", nil, DefaultWeights(), 2)
	if len(results) != 2 {
		t.Errorf("Rerank returned %d results, want 2", len(results))
	}
}

func TestRerankAugmentsMetadata(t *testing.T) {
	rr := New(NewStore())
	candidates := []semantic.Result{
		{ID: "d1", FinalScore: 1.0, Snapshot: semantic.Snapshot{Metadata: document.Metadata{"x": document.String("y")}}},
	}
	results, _ := rr.Rerank(candidates, "", nil, DefaultWeights(), 10)

	if _, ok := results[0].Metadata.StringAt("x"); !ok {
		t.Errorf("original metadata lost after augmentation")
	}
	if _, ok := results[0].Metadata.NumberAt("personalizationBoost"); !ok {
		t.Errorf("missing personalizationBoost in augmented metadata")
	}
	if _, ok := results[0].Metadata.NumberAt("contextBoost"); !ok {
		t.Errorf("missing contextBoost in augmented metadata")
	}
	if _, ok := results[0].Metadata.NumberAt("temporalBoost"); !ok {
		t.Errorf("missing temporalBoost in augmented metadata")
	}
}

func TestPersonalizationScoreClampedToOne(t *testing.T) {
	rr := New(NewStore())
	weights := Weights{UserProfileWeight: 0.8, ContextWeight: 0.7, TemporalWeight: 0.6}
	ctx := &RequestContext{Device: "mobile"}
	_, score := rr.Rerank(nil, "u1", ctx, weights, 10)
	if score != 1.0 {
		t.Errorf("personalizationScore = %v, want clamped 1.0", score)
	}
}

func TestRerankContextualTimestampOverridesNow(t *testing.T) {
	rr := New(NewStore())
	fixed := time.Date(2026, 1, 5, 7, 0, 0, 0, time.UTC)
	candidates := []semantic.Result{
		{ID: "d1", FinalScore: 1.0, Snapshot: semantic.Snapshot{Category: "news"}},
	}
	ctx := &RequestContext{Timestamp: fixed}
	results, _ := rr.Rerank(candidates, "", ctx, DefaultWeights(), 10)
	if results[0].TemporalBoost < 0.05 {
		t.Errorf("TemporalBoost = %v, want >= 0.05 using fixed ctx timestamp", results[0].TemporalBoost)
	}
}
