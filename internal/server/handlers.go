//-------------------------------------------------------------------------
//
// Cascade Search
//
// Copyright (c) 2025 - 2026, Cascade Search contributors
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cascadesearch/retrieval-cascade/internal/cascade"
	"github.com/cascadesearch/retrieval-cascade/internal/document"
	"github.com/cascadesearch/retrieval-cascade/internal/lexicalindex"
	"github.com/cascadesearch/retrieval-cascade/internal/personalize"
)

// HealthResponse is the response for the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Layer1 bool   `json:"layer1Ready"`
	Layer2 bool   `json:"layer2Ready"`
	Layer3 bool   `json:"layer3Ready"`
	Layer4 bool   `json:"layer4Ready"`
}

// StatsResponse is the response for the stats endpoint.
type StatsResponse struct {
	Layer1 lexicalindex.Stats `json:"layer1"`
	Layer2 struct {
		DocumentCount int     `json:"documentCount"`
		AverageLength float64 `json:"averageLength"`
	} `json:"layer2"`
	Layer3 struct {
		VectorCount int    `json:"vectorCount"`
		Dimension   int    `json:"dimension"`
		ModelName   string `json:"modelName"`
	} `json:"layer3"`
	Layer4 struct {
		ProfileCount int `json:"profileCount"`
	} `json:"layer4"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func decodeAndValidate[T any](r *http.Request) (T, error) {
	var payload T
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return payload, err
	}
	if err := validate.Struct(payload); err != nil {
		return payload, err
	}
	return payload, nil
}

// handleHealth handles GET /v1/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := s.cascade.Health()
	status := "healthy"
	if !health.Healthy() {
		status = "degraded"
	}
	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status: status,
		Layer1: health.Layer1Ready,
		Layer2: health.Layer2Ready,
		Layer3: health.Layer3Ready,
		Layer4: health.Layer4Ready,
	})
}

// handleMetrics handles GET /v1/metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	s.metrics.Handler().ServeHTTP(w, r)
}

// handleStats handles GET /v1/stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.cascade.Stats()
	resp := StatsResponse{Layer1: stats.Layer1}
	resp.Layer2.DocumentCount = stats.Layer2.DocumentCount
	resp.Layer2.AverageLength = stats.Layer2.AverageLength
	resp.Layer3.VectorCount = stats.Layer3.VectorCount
	resp.Layer3.Dimension = stats.Layer3.Dimension
	resp.Layer3.ModelName = stats.Layer3.ModelName
	resp.Layer4.ProfileCount = stats.Layer4.ProfileCount
	s.respondJSON(w, http.StatusOK, resp)
}

func contextFromPayload(p *ContextPayload) *personalize.RequestContext {
	if p == nil {
		return nil
	}
	ctx := &personalize.RequestContext{
		Device:          p.Device,
		SessionID:       p.SessionID,
		PreviousQueries: p.PreviousQueries,
	}
	if p.Location != nil {
		ctx.Location = &personalize.GeoPoint{
			Lat:    p.Location.Lat,
			Lng:    p.Location.Lng,
			Radius: p.Location.Radius,
		}
	}
	if p.Timestamp != "" {
		if ts, err := time.Parse(time.RFC3339, p.Timestamp); err == nil {
			ctx.Timestamp = ts
		}
	}
	return ctx
}

func toSearchResponsePayload(resp *cascade.SearchResponse) SearchResponsePayload {
	results := make([]SearchResultPayload, len(resp.Results))
	for i, r := range resp.Results {
		results[i] = SearchResultPayload{
			ID:       r.ID,
			Title:    r.Title,
			Content:  r.Content,
			URL:      r.URL,
			Score:    r.Score,
			Metadata: metadataToPayload(r.Metadata),
		}
	}

	return SearchResponsePayload{
		Success: true,
		Data: SearchResponseData{
			Results:       results,
			TotalCount:    resp.TotalCount,
			ExecutionTime: resp.ExecutionTime,
			LayerStats: LayerStatsPayload{
				Layer1: LayerStatPayload{Count: resp.LayerStats.Layer1.Count, ExecutionTime: resp.LayerStats.Layer1.ExecutionTime},
				Layer2: LayerStatPayload{Count: resp.LayerStats.Layer2.Count, ExecutionTime: resp.LayerStats.Layer2.ExecutionTime},
				Layer3: LayerStatPayload{Count: resp.LayerStats.Layer3.Count, ExecutionTime: resp.LayerStats.Layer3.ExecutionTime},
				Layer4: LayerStatPayload{Count: resp.LayerStats.Layer4.Count, ExecutionTime: resp.LayerStats.Layer4.ExecutionTime},
			},
		},
	}
}

// handleSearch handles POST /v1/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeAndValidate[SearchRequestPayload](r)
	if err != nil {
		s.respondValidationError(w, err)
		return
	}

	req := cascade.SearchRequest{
		Query:   payload.Query,
		UserID:  payload.UserID,
		Limit:   payload.Limit,
		Offset:  payload.Offset,
		Filters: anyMapToMetadata(payload.Filters),
		Context: contextFromPayload(payload.Context),
	}

	resp, err := s.cascade.Search(r.Context(), req)
	if err != nil {
		s.respondCascadeError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, toSearchResponsePayload(resp))
}

// handleQuickSearch handles POST /v1/search/quick.
func (s *Server) handleQuickSearch(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeAndValidate[SearchRequestPayload](r)
	if err != nil {
		s.respondValidationError(w, err)
		return
	}

	resp, err := s.cascade.QuickSearch(cascade.SearchRequest{
		Query: payload.Query,
		Limit: payload.Limit,
	})
	if err != nil {
		s.respondCascadeError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, toSearchResponsePayload(resp))
}

// handleBooleanSearch handles POST /v1/search/boolean.
func (s *Server) handleBooleanSearch(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeAndValidate[BooleanSearchRequestPayload](r)
	if err != nil {
		s.respondValidationError(w, err)
		return
	}

	ids, stat, err := s.cascade.BooleanSearch(cascade.BooleanSearchRequest{
		Terms:    payload.Terms,
		Operator: lexicalindex.Operator(payload.Operator),
		Limit:    payload.Limit,
	})
	if err != nil {
		s.respondCascadeError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"ids":        ids,
			"layerStats": LayerStatPayload{Count: stat.Count, ExecutionTime: stat.ExecutionTime},
		},
	})
}

// handleSemanticSearch handles POST /v1/search/semantic.
func (s *Server) handleSemanticSearch(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeAndValidate[SemanticSearchRequestPayload](r)
	if err != nil {
		s.respondValidationError(w, err)
		return
	}

	results, err := s.cascade.SemanticSearch(r.Context(), payload.Query, payload.Limit)
	if err != nil {
		s.respondCascadeError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    map[string]any{"results": results},
	})
}

// handleFindSimilar handles GET /v1/documents/{id}/similar.
func (s *Server) handleFindSimilar(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	results, err := s.cascade.FindSimilar(id, limit)
	if err != nil {
		s.respondCascadeError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    map[string]any{"results": results},
	})
}

func documentFromPayload(p DocumentPayload) *document.Document {
	d := &document.Document{
		ID:       p.ID,
		Title:    p.Title,
		Content:  p.Content,
		URL:      p.URL,
		Category: p.Category,
		Tags:     p.Tags,
		Metadata: anyMapToMetadata(p.Metadata),
	}
	if p.CreatedAt != "" {
		if ts, err := time.Parse(time.RFC3339, p.CreatedAt); err == nil {
			d.CreatedAt = ts
		}
	}
	if p.UpdatedAt != "" {
		if ts, err := time.Parse(time.RFC3339, p.UpdatedAt); err == nil {
			d.UpdatedAt = ts
		}
	}
	return d
}

// handleAddDocuments handles POST /v1/documents. The body is either a
// single Document object or a JSON array of Documents; both fan out
// through the same per-document path.
func (s *Server) handleAddDocuments(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		s.respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body: "+err.Error())
		return
	}

	var payloads []DocumentPayload
	if err := json.Unmarshal(raw, &payloads); err != nil {
		var single DocumentPayload
		if err := json.Unmarshal(raw, &single); err != nil {
			s.respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body: "+err.Error())
			return
		}
		payloads = []DocumentPayload{single}
	}

	for _, p := range payloads {
		if err := validate.Struct(p); err != nil {
			s.respondValidationError(w, err)
			return
		}
	}

	docs := make([]*document.Document, len(payloads))
	for i, p := range payloads {
		docs[i] = documentFromPayload(p)
	}

	if err := s.cascade.AddDocuments(r.Context(), docs); err != nil {
		s.respondCascadeError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]any{"success": true})
}

// handleRemoveDocument handles DELETE /v1/documents/{id}.
func (s *Server) handleRemoveDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.cascade.RemoveDocument(id); err != nil {
		s.respondCascadeError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleRecordBehavior handles POST /v1/users/{id}/behavior.
func (s *Server) handleRecordBehavior(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	payload, err := decodeAndValidate[BehaviorPayload](r)
	if err != nil {
		s.respondValidationError(w, err)
		return
	}

	profile, err := s.cascade.RecordBehavior(userID, personalize.Action(payload.Action), personalize.BehaviorData{
		DocumentID: payload.DocumentID,
		Query:      payload.Query,
		TimeSpent:  payload.TimeSpent,
	})
	if err != nil {
		s.respondCascadeError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{"success": true, "data": profile})
}

// handleUpdateProfile handles PUT /v1/users/{id}/profile.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	payload, err := decodeAndValidate[ProfileUpdatePayload](r)
	if err != nil {
		s.respondValidationError(w, err)
		return
	}

	update := personalize.ProfileUpdate{}
	if payload.Preferences != nil {
		update.Preferences = &personalize.Preferences{
			Categories: payload.Preferences.Categories,
			Languages:  payload.Preferences.Languages,
			Topics:     payload.Preferences.Topics,
		}
	}
	if payload.Demographics != nil {
		update.Demographics = &personalize.Demographics{
			Age:       payload.Demographics.Age,
			Location:  payload.Demographics.Location,
			Interests: payload.Demographics.Interests,
		}
	}

	profile, err := s.cascade.UpdateUserProfile(userID, update)
	if err != nil {
		s.respondCascadeError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{"success": true, "data": profile})
}

// respondJSON sends a JSON response with RFC 8631 Link header for API
// discovery.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Link", `</v1/openapi.json>; rel="service-desc"`)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// respondError sends an error response.
func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, ErrorResponse{
		Error: ErrorDetail{Code: code, Message: message},
	})
}

// respondValidationError sends a 400 response for a request-body
// decode or struct-tag validation failure.
func (s *Server) respondValidationError(w http.ResponseWriter, err error) {
	fields := decodeErrors(err)
	message := "invalid request"
	if len(fields) > 0 {
		message = fields[0].Field + ": " + fields[0].Message
	}
	s.respondError(w, http.StatusBadRequest, "INVALID_REQUEST", message)
}

// respondCascadeError maps a cascade error to the transport's HTTP
// status per spec: SearchError -> 400 with its code, NotFoundError ->
// 404, anything else -> 500.
func (s *Server) respondCascadeError(w http.ResponseWriter, err error) {
	var nfe *cascade.NotFoundError
	if errors.As(err, &nfe) {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", nfe.Error())
		return
	}

	var se *cascade.SearchError
	if errors.As(err, &se) {
		s.respondError(w, http.StatusBadRequest, se.Code, se.Error())
		return
	}

	s.logger.Error("unhandled cascade error", "error", err)
	s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}
