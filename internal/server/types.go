//-------------------------------------------------------------------------
//
// Cascade Search
//
// Copyright (c) 2025 - 2026, Cascade Search contributors
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

package server

import "github.com/cascadesearch/retrieval-cascade/internal/document"

// GeoPointPayload is the wire shape of a request-context location.
type GeoPointPayload struct {
	Lat    float64 `json:"lat" validate:"required"`
	Lng    float64 `json:"lng" validate:"required"`
	Radius float64 `json:"radius,omitempty"`
}

// ContextPayload is the wire shape of SearchRequest.context.
type ContextPayload struct {
	Location        *GeoPointPayload `json:"location,omitempty"`
	Timestamp       string           `json:"timestamp,omitempty" validate:"omitempty,rfc3339"`
	Device          string           `json:"device,omitempty" validate:"omitempty,oneof=mobile desktop tablet"`
	SessionID       string           `json:"sessionId,omitempty"`
	PreviousQueries []string         `json:"previousQueries,omitempty"`
}

// SearchRequestPayload is the wire shape of search and quickSearch
// request bodies.
type SearchRequestPayload struct {
	Query   string            `json:"query" validate:"required,min=1,max=500"`
	UserID  string            `json:"userId,omitempty"`
	Limit   int               `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
	Offset  int               `json:"offset,omitempty" validate:"omitempty,min=0"`
	Filters map[string]any    `json:"filters,omitempty"`
	Context *ContextPayload   `json:"context,omitempty"`
}

// BooleanSearchRequestPayload is the wire shape of booleanSearch.
type BooleanSearchRequestPayload struct {
	Terms    []string `json:"terms" validate:"required,min=1"`
	Operator string   `json:"operator" validate:"required,oneof=AND OR NOT"`
	Limit    int      `json:"limit,omitempty" validate:"omitempty,min=1"`
}

// SemanticSearchRequestPayload is the wire shape of semanticSearch.
type SemanticSearchRequestPayload struct {
	Query string `json:"query" validate:"required,min=1,max=500"`
	Limit int    `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
}

// DocumentPayload is the wire shape of a document in an addDocument(s)
// request body.
type DocumentPayload struct {
	ID        string         `json:"id" validate:"required"`
	Title     string         `json:"title" validate:"required"`
	Content   string         `json:"content" validate:"required"`
	URL       string         `json:"url,omitempty"`
	Category  string         `json:"category,omitempty"`
	Tags      []string       `json:"tags,omitempty"`
	CreatedAt string         `json:"createdAt,omitempty" validate:"omitempty,rfc3339"`
	UpdatedAt string         `json:"updatedAt,omitempty" validate:"omitempty,rfc3339"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// BehaviorPayload is the wire shape of recordBehavior.
type BehaviorPayload struct {
	Action     string  `json:"action" validate:"required,oneof=click search time_spent"`
	DocumentID string  `json:"documentId,omitempty"`
	Query      string  `json:"query,omitempty"`
	TimeSpent  float64 `json:"timeSpent,omitempty"`
}

// ProfileUpdatePayload is the wire shape of updateUserProfile.
type ProfileUpdatePayload struct {
	Preferences *PreferencesPayload  `json:"preferences,omitempty"`
	Demographics *DemographicsPayload `json:"demographics,omitempty"`
}

// PreferencesPayload mirrors personalize.Preferences.
type PreferencesPayload struct {
	Categories []string `json:"categories,omitempty"`
	Languages  []string `json:"languages,omitempty"`
	Topics     []string `json:"topics,omitempty"`
}

// DemographicsPayload mirrors personalize.Demographics.
type DemographicsPayload struct {
	Age       int      `json:"age,omitempty"`
	Location  string   `json:"location,omitempty"`
	Interests []string `json:"interests,omitempty"`
}

// SearchResultPayload is one transport-facing ranked result.
type SearchResultPayload struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Content  string         `json:"content"`
	URL      string         `json:"url,omitempty"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// LayerStatPayload reports one stage's contribution to a search.
type LayerStatPayload struct {
	Count         int     `json:"count"`
	ExecutionTime float64 `json:"executionTime"`
}

// SearchResponsePayload is the response envelope for search and
// quickSearch.
type SearchResponsePayload struct {
	Success bool                `json:"success"`
	Data    SearchResponseData  `json:"data"`
}

// SearchResponseData is the data payload of SearchResponsePayload.
type SearchResponseData struct {
	Results       []SearchResultPayload `json:"results"`
	TotalCount    int                   `json:"totalCount"`
	ExecutionTime float64               `json:"executionTime"`
	LayerStats    LayerStatsPayload     `json:"layerStats"`
}

// LayerStatsPayload reports every stage's contribution to one search.
type LayerStatsPayload struct {
	Layer1 LayerStatPayload `json:"layer1"`
	Layer2 LayerStatPayload `json:"layer2"`
	Layer3 LayerStatPayload `json:"layer3"`
	Layer4 LayerStatPayload `json:"layer4"`
}

func metadataToPayload(m document.Metadata) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = valueToAny(v)
	}
	return out
}

func valueToAny(v document.Value) any {
	switch v.Kind {
	case document.KindString:
		return v.Str
	case document.KindNumber:
		return v.Num
	case document.KindBool:
		return v.Bool
	case document.KindList:
		items := make([]any, len(v.List))
		for i, item := range v.List {
			items[i] = valueToAny(item)
		}
		return items
	case document.KindObject:
		return metadataToPayload(v.Object)
	default:
		return nil
	}
}

func anyToValue(v any) document.Value {
	switch val := v.(type) {
	case string:
		return document.String(val)
	case float64:
		return document.Number(val)
	case bool:
		return document.Bool(val)
	case []any:
		items := make([]document.Value, len(val))
		for i, item := range val {
			items[i] = anyToValue(item)
		}
		return document.List(items...)
	case map[string]any:
		return document.Object(anyMapToMetadata(val))
	default:
		return document.Value{}
	}
}

func anyMapToMetadata(m map[string]any) document.Metadata {
	if m == nil {
		return nil
	}
	out := make(document.Metadata, len(m))
	for k, v := range m {
		out[k] = anyToValue(v)
	}
	return out
}
