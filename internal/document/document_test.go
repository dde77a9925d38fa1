//-------------------------------------------------------------------------
//
// Cascade Search
//
// Copyright (c) 2025 - 2026, Cascade Search contributors
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

package document

import (
	"encoding/json"
	"testing"
)

func TestCombinedText(t *testing.T) {
	d := &Document{Title: "Machine Learning", Content: "algorithms that learn"}
	if got, want := d.CombinedText(), "Machine Learning algorithms that learn"; got != want {
		t.Errorf("CombinedText() = %q, want %q", got, want)
	}

	empty := &Document{Title: "Only title"}
	if got, want := empty.CombinedText(), "Only title"; got != want {
		t.Errorf("CombinedText() = %q, want %q", got, want)
	}
}

func TestExcerptTruncates(t *testing.T) {
	d := &Document{Content: "short"}
	if got := d.Excerpt(200); got != "short" {
		t.Errorf("Excerpt() = %q, want %q", got, "short")
	}

	longContent := ""
	for i := 0; i < 250; i++ {
		longContent += "a"
	}
	long := &Document{Content: longContent}
	excerpt := long.Excerpt(200)
	if got := len([]rune(excerpt)); got != 201 {
		t.Errorf("Excerpt() length = %d, want 201 (200 chars + ellipsis)", got)
	}
	if excerpt[len(excerpt)-len("…"):] != "…" {
		t.Errorf("Excerpt() = %q, want to end with ellipsis", excerpt)
	}
}

func TestMetadataAccessors(t *testing.T) {
	m := Metadata{
		"category":         String("technology"),
		"mobileOptimized":  Bool(true),
		"priority":         Number(3),
		"tags":             List(String("go"), String("search")),
		"location":         Object(Metadata{"lat": Number(1.5), "lng": Number(2.5)}),
	}

	if v, ok := m.StringAt("category"); !ok || v != "technology" {
		t.Errorf("StringAt(category) = %q, %v", v, ok)
	}
	if v, ok := m.BoolAt("mobileOptimized"); !ok || !v {
		t.Errorf("BoolAt(mobileOptimized) = %v, %v", v, ok)
	}
	if v, ok := m.NumberAt("priority"); !ok || v != 3 {
		t.Errorf("NumberAt(priority) = %v, %v", v, ok)
	}
	if _, ok := m.StringAt("missing"); ok {
		t.Errorf("StringAt(missing) should not be ok")
	}
	loc, ok := m.ObjectAt("location")
	if !ok {
		t.Fatalf("ObjectAt(location) not ok")
	}
	if lat, _ := loc.NumberAt("lat"); lat != 1.5 {
		t.Errorf("lat = %v, want 1.5", lat)
	}
}

func TestMetadataRoundTripsJSON(t *testing.T) {
	m := Metadata{
		"category": String("technology"),
		"priority": Number(2),
		"tags":     List(String("a"), String("b")),
	}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded Metadata
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if v, _ := decoded.StringAt("category"); v != "technology" {
		t.Errorf("decoded category = %q", v)
	}
	if v, _ := decoded.NumberAt("priority"); v != 2 {
		t.Errorf("decoded priority = %v", v)
	}
	tags, _ := decoded.ListAt("tags")
	if len(tags) != 2 || tags[0].Str != "a" || tags[1].Str != "b" {
		t.Errorf("decoded tags = %v", tags)
	}
}

func TestMetadataCloneIsDeep(t *testing.T) {
	orig := Metadata{"tags": List(String("a"))}
	clone := orig.Clone()
	clone["tags"] = List(String("b"))

	tags, _ := orig.ListAt("tags")
	if tags[0].Str != "a" {
		t.Errorf("Clone mutated original: %v", tags)
	}
}
