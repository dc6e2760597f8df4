// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/crease/internal/domain/model"
)

// SignupDependencies defines the interface for signup handling.
type SignupDependencies interface {
	AddSignup(ctx context.Context, name, phone string) (model.Week, error)
	CurrentWeek(ctx context.Context) (model.Week, error)
}

// SignupHandler handles signup intake and the week read model.
type SignupHandler struct {
	deps SignupDependencies
}

// NewSignupHandler creates a new signup handler.
func NewSignupHandler(deps SignupDependencies) *SignupHandler {
	return &SignupHandler{deps: deps}
}

// signupRequest mirrors the JSON schema for POST /signup.
type signupRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (s signupRequest) validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("missing name")
	}
	return nil
}

// HandlePostSignup handles POST /signup requests.
func (h *SignupHandler) HandlePostSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	week, err := h.deps.AddSignup(r.Context(), req.Name, req.Phone)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	writeJSON(w, http.StatusAccepted, toWeekResponse(week))
}

// HandleGetWeek handles GET /week requests.
func (h *SignupHandler) HandleGetWeek(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	week, err := h.deps.CurrentWeek(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}
	writeJSON(w, http.StatusOK, toWeekResponse(week))
}
