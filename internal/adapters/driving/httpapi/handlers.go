package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/logger"
)

type searchBody struct {
	Query          string `json:"query"`
	OrganizationID string `json:"organizationId,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	session, ok := SessionFrom(r.Context())
	if !ok {
		s.writeError(w, domain.ErrUnauthenticated)
		return
	}

	var body searchBody
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		s.writeError(w, fmt.Errorf("%w: request body: %w", domain.ErrInvalidInput, err))
		return
	}

	org := body.OrganizationID
	if org == "" {
		org = session.OrganizationID
	}
	resp, err := s.search.Search(r.Context(), domain.SearchRequest{
		Query:          body.Query,
		UserID:         session.UserID,
		OrganizationID: org,
		RequestID:      w.Header().Get(requestIDHeader),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealthSummary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.health.GetHealthSummary())
}

func (s *Server) handleProviderHealth(w http.ResponseWriter, r *http.Request) {
	p, err := domain.ParseProviderID(chi.URLParam(r, "provider"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	h, ok := s.health.GetIntegrationHealth(p)
	if !ok {
		writeJSON(w, http.StatusNotFound, domain.ErrorEnvelope{
			Error:     fmt.Sprintf("no health recorded for %s", p),
			Code:      "NOT_FOUND",
			Timestamp: s.now().UTC(),
		})
		return
	}
	writeJSON(w, http.StatusOK, h)
}

// writeError writes the error envelope. Internal errors are logged and
// replaced by a generic message.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := domain.HTTPStatus(err)
	env := domain.NewErrorEnvelope(err, s.now())
	if status >= http.StatusInternalServerError {
		logger.Error("request failed: %v", err)
		env.Error = "internal server error"
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		status = http.StatusRequestEntityTooLarge
	}
	writeJSON(w, status, env)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("write response: %v", err)
	}
}
