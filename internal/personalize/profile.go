//-------------------------------------------------------------------------
//
// Cascade Search
//
// Copyright (c) 2025 - 2026, Cascade Search contributors
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

// Package personalize implements the Stage-4 personalization
// re-ranker: user-profile, contextual, and temporal score boosts
// layered on top of a Stage-3 result set, plus the bounded user
// behavior history that feeds the user-profile boost.
package personalize

import (
	"strings"
	"sync"
	"time"
)

const (
	clickHistoryCap  = 100
	searchHistoryCap = 50
)

// Preferences holds a user's declared affinities.
type Preferences struct {
	Categories []string
	Languages  []string
	Topics     []string
}

// Behavior holds a user's observed activity, each history bounded to
// its most recent entries.
type Behavior struct {
	ClickHistory  []string
	SearchHistory []string
	TimeSpent     map[string]float64 // documentId -> accumulated milliseconds
}

// Demographics holds optional self-reported or inferred attributes.
type Demographics struct {
	Age       int
	Location  string
	Interests []string
}

// UserProfile is the Stage-4 record for one user.
type UserProfile struct {
	UserID       string
	Preferences  Preferences
	Behavior     Behavior
	Demographics *Demographics
	LastUpdated  time.Time
}

func newProfile(userID string) *UserProfile {
	return &UserProfile{
		UserID:      userID,
		Behavior:    Behavior{TimeSpent: make(map[string]float64)},
		LastUpdated: time.Now(),
	}
}

// Store is the in-memory, per-user profile table. Updates for a given
// user are serialized through a per-store lock; the spec requires no
// more than that a single user's concurrent updates not race.
type Store struct {
	mu       sync.Mutex
	profiles map[string]*UserProfile
}

// NewStore creates an empty profile store.
func NewStore() *Store {
	return &Store{profiles: make(map[string]*UserProfile)}
}

// Get returns a copy-free read of the profile for userID, or nil if
// none exists. Callers must not mutate the returned value.
func (s *Store) Get(userID string) *UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profiles[userID]
}

// Count returns the number of profiles currently held.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.profiles)
}

// Action is a recorded unit of user behavior.
type Action string

const (
	ActionClick     Action = "click"
	ActionSearch    Action = "search"
	ActionTimeSpent Action = "time_spent"
)

// BehaviorData carries the payload for a recorded action. Which fields
// are meaningful depends on the action kind.
type BehaviorData struct {
	DocumentID string
	Query      string
	TimeSpent  float64 // milliseconds, for ActionTimeSpent
}

// RecordBehavior applies one behavior event to userID's profile,
// creating the profile lazily if this is its first event.
func (s *Store) RecordBehavior(userID string, action Action, data BehaviorData) *UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.profiles[userID]
	if p == nil {
		p = newProfile(userID)
		s.profiles[userID] = p
	}

	switch action {
	case ActionClick:
		p.Behavior.ClickHistory = appendUnique(p.Behavior.ClickHistory, data.DocumentID, clickHistoryCap)
	case ActionSearch:
		p.Behavior.SearchHistory = appendBounded(p.Behavior.SearchHistory, data.Query, searchHistoryCap)
	case ActionTimeSpent:
		if p.Behavior.TimeSpent == nil {
			p.Behavior.TimeSpent = make(map[string]float64)
		}
		p.Behavior.TimeSpent[data.DocumentID] += data.TimeSpent
	}
	p.LastUpdated = time.Now()
	return p
}

// ProfileUpdate is a partial UserProfile: nil/zero fields are left
// untouched by UpdateProfile, per the upsert-preserving-missing-fields
// semantics the spec requires.
type ProfileUpdate struct {
	Preferences  *Preferences
	Demographics *Demographics
}

// UpdateProfile upserts userID's preferences and/or demographics,
// creating the profile lazily if absent. Fields left nil in update are
// preserved from the existing profile.
func (s *Store) UpdateProfile(userID string, update ProfileUpdate) *UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.profiles[userID]
	if p == nil {
		p = newProfile(userID)
		s.profiles[userID] = p
	}

	if update.Preferences != nil {
		p.Preferences = *update.Preferences
	}
	if update.Demographics != nil {
		p.Demographics = update.Demographics
	}
	p.LastUpdated = time.Now()
	return p
}

func appendUnique(history []string, id string, cap int) []string {
	if id == "" {
		return history
	}
	for _, existing := range history {
		if existing == id {
			return history
		}
	}
	return appendBounded(history, id, cap)
}

func appendBounded(history []string, item string, cap int) []string {
	if item == "" {
		return history
	}
	history = append(history, item)
	if len(history) > cap {
		history = history[len(history)-cap:]
	}
	return history
}

// hasCategory reports whether any of categories matches target
// case-insensitively.
func hasCategory(categories []string, target string) bool {
	target = strings.ToLower(target)
	for _, c := range categories {
		if strings.ToLower(c) == target {
			return true
		}
	}
	return false
}
