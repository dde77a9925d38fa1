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
	"strconv"
	"testing"
)

func TestRecordBehaviorLazyCreatesProfile(t *testing.T) {
	s := NewStore()
	if s.Get("u1") != nil {
		t.Fatalf("expected no profile before first behavior")
	}
	s.RecordBehavior("u1", ActionClick, BehaviorData{DocumentID: "d1"})
	p := s.Get("u1")
	if p == nil {
		t.Fatalf("expected lazily created profile")
	}
	if len(p.Behavior.ClickHistory) != 1 || p.Behavior.ClickHistory[0] != "d1" {
		t.Errorf("ClickHistory = %v, want [d1]", p.Behavior.ClickHistory)
	}
}

func TestRecordBehaviorClickDeduplicates(t *testing.T) {
	s := NewStore()
	s.RecordBehavior("u1", ActionClick, BehaviorData{DocumentID: "d1"})
	s.RecordBehavior("u1", ActionClick, BehaviorData{DocumentID: "d1"})
	p := s.Get("u1")
	if len(p.Behavior.ClickHistory) != 1 {
		t.Errorf("ClickHistory = %v, want single entry", p.Behavior.ClickHistory)
	}
}

func TestRecordBehaviorClickHistoryCapped(t *testing.T) {
	s := NewStore()
	for i := 0; i < 150; i++ {
		s.RecordBehavior("u1", ActionClick, BehaviorData{DocumentID: strconv.Itoa(i)})
	}
	p := s.Get("u1")
	if len(p.Behavior.ClickHistory) != clickHistoryCap {
		t.Errorf("ClickHistory length = %d, want %d", len(p.Behavior.ClickHistory), clickHistoryCap)
	}
	if p.Behavior.ClickHistory[len(p.Behavior.ClickHistory)-1] != strconv.Itoa(149) {
		t.Errorf("most recent click dropped, last = %v", p.Behavior.ClickHistory[len(p.Behavior.ClickHistory)-1])
	}
}

func TestRecordBehaviorSearchHistoryCapped(t *testing.T) {
	s := NewStore()
	for i := 0; i < 75; i++ {
		s.RecordBehavior("u1", ActionSearch, BehaviorData{Query: strconv.Itoa(i)})
	}
	p := s.Get("u1")
	if len(p.Behavior.SearchHistory) != searchHistoryCap {
		t.Errorf("SearchHistory length = %d, want %d", len(p.Behavior.SearchHistory), searchHistoryCap)
	}
}

func TestRecordBehaviorTimeSpentAccumulates(t *testing.T) {
	s := NewStore()
	s.RecordBehavior("u1", ActionTimeSpent, BehaviorData{DocumentID: "d1", TimeSpent: 100})
	s.RecordBehavior("u1", ActionTimeSpent, BehaviorData{DocumentID: "d1", TimeSpent: 250})
	p := s.Get("u1")
	if p.Behavior.TimeSpent["d1"] != 350 {
		t.Errorf("TimeSpent[d1] = %v, want 350", p.Behavior.TimeSpent["d1"])
	}
}

func TestUpdateProfilePreservesMissingFields(t *testing.T) {
	s := NewStore()
	s.UpdateProfile("u1", ProfileUpdate{Preferences: &Preferences{Categories: []string{"tech"}}})
	s.UpdateProfile("u1", ProfileUpdate{Demographics: &Demographics{Age: 30}})

	p := s.Get("u1")
	if len(p.Preferences.Categories) != 1 || p.Preferences.Categories[0] != "tech" {
		t.Errorf("Preferences not preserved: %v", p.Preferences)
	}
	if p.Demographics == nil || p.Demographics.Age != 30 {
		t.Errorf("Demographics not applied: %v", p.Demographics)
	}
}
