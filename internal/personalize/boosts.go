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
	"strings"
	"time"

	"github.com/cascadesearch/retrieval-cascade/internal/semantic"
)

const earthRadiusKM = 6371.0

// GeoPoint is a latitude/longitude pair, optionally with a request
// radius the caller cares about (unused by the boost itself, carried
// for symmetry with the request contract).
type GeoPoint struct {
	Lat    float64
	Lng    float64
	Radius float64
}

// RequestContext is the optional per-request contextual signal set.
type RequestContext struct {
	Location        *GeoPoint
	Timestamp       time.Time
	Device          string
	SessionID       string
	PreviousQueries []string
}

func ageGroupBounds(group string) (lo, hi int, ok bool) {
	switch group {
	case "teen":
		return 13, 19, true
	case "young_adult":
		return 20, 30, true
	case "adult":
		return 31, 50, true
	case "senior":
		return 51, 100, true
	default:
		return 0, 0, false
	}
}

// userProfileBoost computes b for the user-profile phase: the sum of
// every matching signal's contribution, each individually bounded as
// the spec prescribes.
func userProfileBoost(p *UserProfile, r semantic.Result) float64 {
	if p == nil {
		return 0
	}

	var b float64

	if category, ok := r.Snapshot.Metadata.StringAt("category"); ok && category != "" && hasCategory(p.Preferences.Categories, category) {
		b += 0.20
	} else if r.Snapshot.Category != "" && hasCategory(p.Preferences.Categories, r.Snapshot.Category) {
		b += 0.20
	}

	for _, clicked := range p.Behavior.ClickHistory {
		if clicked == r.ID {
			b += 0.15
			break
		}
	}

	b += searchHistoryOverlap(p.Behavior.SearchHistory, r)

	if t, ok := p.Behavior.TimeSpent[r.ID]; ok {
		b += math.Min(t/1000, 0.10)
	}

	if p.Demographics != nil {
		if p.Demographics.Age > 0 {
			if ageGroup, ok := r.Snapshot.Metadata.StringAt("ageGroup"); ok {
				if lo, hi, ok := ageGroupBounds(ageGroup); ok && p.Demographics.Age >= lo && p.Demographics.Age <= hi {
					b += 0.10
				}
			}
		}
		if fraction := interestOverlapFraction(p.Demographics.Interests, r.Snapshot.Tags); fraction > 0 {
			b += 0.15 * fraction
		}
	}

	return b
}

// searchHistoryOverlap awards +0.05 for every past-query word that
// appears in the result's title+content, capped at +0.20.
func searchHistoryOverlap(history []string, r semantic.Result) float64 {
	haystack := strings.ToLower(r.Title + " " + r.Content)
	var hits float64
	for _, query := range history {
		for _, word := range strings.Fields(strings.ToLower(query)) {
			if word == "" {
				continue
			}
			if strings.Contains(haystack, word) {
				hits += 0.05
			}
		}
	}
	return math.Min(hits, 0.20)
}

// interestOverlapFraction is the fraction of interests that
// case-insensitive-substring-match any of the result's tags.
func interestOverlapFraction(interests, tags []string) float64 {
	if len(interests) == 0 || len(tags) == 0 {
		return 0
	}
	lowerTags := make([]string, len(tags))
	for i, t := range tags {
		lowerTags[i] = strings.ToLower(t)
	}

	var matched int
	for _, interest := range interests {
		interest = strings.ToLower(interest)
		for _, tag := range lowerTags {
			if strings.Contains(tag, interest) || strings.Contains(interest, tag) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(interests))
}

// contextualBoost computes b for the contextual phase.
func contextualBoost(ctx *RequestContext, r semantic.Result) float64 {
	if ctx == nil {
		return 0
	}

	var b float64
	b += locationBoost(ctx.Location, r)
	b += deviceBoost(ctx.Device, r)
	// Session is reserved; contributes 0 in this version.
	b += priorQueryBoost(ctx.PreviousQueries, r)
	return b
}

func locationBoost(loc *GeoPoint, r semantic.Result) float64 {
	if loc == nil {
		return 0
	}
	resultLat, latOK := r.Snapshot.Metadata.NumberAt("lat")
	resultLng, lngOK := r.Snapshot.Metadata.NumberAt("lng")
	if !latOK || !lngOK {
		return 0
	}

	d := haversineKM(loc.Lat, loc.Lng, resultLat, resultLng)
	switch {
	case d < 1:
		return 0.20
	case d < 5:
		return 0.10
	case d < 10:
		return 0.05
	default:
		return 0
	}
}

func deviceBoost(device string, r semantic.Result) float64 {
	var b float64
	switch device {
	case "mobile":
		if mobile, ok := r.Snapshot.Metadata.BoolAt("mobileOptimized"); ok && mobile {
			b += 0.10
		}
	case "desktop":
		if desktop, ok := r.Snapshot.Metadata.BoolAt("desktopOptimized"); ok && desktop {
			b += 0.05
		}
	}
	return b
}

func priorQueryBoost(queries []string, r semantic.Result) float64 {
	haystack := strings.ToLower(r.Title + " " + r.Content)
	var hits float64
	for _, query := range queries {
		for _, word := range strings.Fields(strings.ToLower(query)) {
			if word == "" {
				continue
			}
			if strings.Contains(haystack, word) {
				hits += 0.03
			}
		}
	}
	return math.Min(hits, 0.10)
}

// haversineKM returns the great-circle distance in kilometers between
// two lat/lng points.
func haversineKM(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKM * c
}

var hourlyCategories = map[string][]int{
	"news":          {6, 7, 8, 18, 19, 20},
	"entertainment": {19, 20, 21, 22, 23},
	"work":          {9, 10, 11, 14, 15, 16},
	"shopping":      {10, 11, 12, 15, 16, 17, 20, 21},
}

var weekdayCategories = map[string][]time.Weekday{
	"work":          {time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
	"entertainment": {time.Friday, time.Saturday, time.Sunday},
	"shopping":      {time.Saturday, time.Sunday},
	"news":          {time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday},
}

// temporalBoost computes b for the temporal phase, always applied.
func temporalBoost(now time.Time, r semantic.Result) float64 {
	var b float64

	category, _ := r.Snapshot.Metadata.StringAt("category")
	if category == "" {
		category = r.Snapshot.Category
	}

	if hours, ok := hourlyCategories[category]; ok && containsInt(hours, now.Hour()) {
		b += 0.05
	}
	if days, ok := weekdayCategories[category]; ok && containsWeekday(days, now.Weekday()) {
		b += 0.03
	}

	if !r.Snapshot.CreatedAt.IsZero() {
		age := now.Sub(r.Snapshot.CreatedAt)
		switch {
		case age < time.Hour:
			b += 0.10
		case age < 24*time.Hour:
			b += 0.05
		case age < 168*time.Hour:
			b += 0.02
		}
	}

	return b
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func containsWeekday(xs []time.Weekday, x time.Weekday) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
