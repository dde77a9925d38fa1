//-------------------------------------------------------------------------
//
// Cascade Search
//
// Copyright (c) 2025 - 2026, Cascade Search contributors
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

package server

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /v1/openapi.json", s.handleOpenAPI)
	s.mux.HandleFunc("GET /v1/health", s.handleHealth)
	s.mux.HandleFunc("GET /v1/metrics", s.handleMetrics)
	s.mux.HandleFunc("GET /v1/stats", s.handleStats)

	s.mux.HandleFunc("POST /v1/search", s.handleSearch)
	s.mux.HandleFunc("POST /v1/search/quick", s.handleQuickSearch)
	s.mux.HandleFunc("POST /v1/search/boolean", s.handleBooleanSearch)
	s.mux.HandleFunc("POST /v1/search/semantic", s.handleSemanticSearch)

	s.mux.HandleFunc("GET /v1/documents/{id}/similar", s.handleFindSimilar)
	s.mux.HandleFunc("POST /v1/documents", s.handleAddDocuments)
	s.mux.HandleFunc("DELETE /v1/documents/{id}", s.handleRemoveDocument)

	s.mux.HandleFunc("POST /v1/users/{id}/behavior", s.handleRecordBehavior)
	s.mux.HandleFunc("PUT /v1/users/{id}/profile", s.handleUpdateProfile)
}
