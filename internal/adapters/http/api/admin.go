// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// AdminHandler handles token-guarded operational endpoints.
type AdminHandler struct {
	deps  AdminDependencies
	token string
}

// NewAdminHandler creates a new admin handler. An empty token disables
// every admin endpoint.
func NewAdminHandler(deps AdminDependencies, token string) *AdminHandler {
	return &AdminHandler{deps: deps, token: token}
}

// authorized checks the admin token from the X-Admin-Token header or
// the token query parameter.
func (h *AdminHandler) authorized(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	got := r.Header.Get("X-Admin-Token")
	if got == "" {
		got = r.URL.Query().Get("token")
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) == 1
}

// guard rejects non-POST and unauthorized requests.
func (h *AdminHandler) guard(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return false
	}
	if !h.authorized(r) {
		writeError(w, http.StatusForbidden, "forbidden", ErrUnauthorized)
		return false
	}
	return true
}

type quotaRequest struct {
	Quota int `json:"quota"`
}

// HandleSetQuota handles POST /admin/quota requests.
func (h *AdminHandler) HandleSetQuota(w http.ResponseWriter, r *http.Request) {
	if !h.guard(w, r) {
		return
	}
	var req quotaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	week, err := h.deps.SetQuota(r.Context(), req.Quota)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	writeJSON(w, http.StatusOK, toWeekResponse(week))
}

type goalieRequest struct {
	Phone string `json:"phone"`
}

// HandleSetGoalie handles POST /admin/goalie requests. An empty phone
// clears the goalie contact.
func (h *AdminHandler) HandleSetGoalie(w http.ResponseWriter, r *http.Request) {
	if !h.guard(w, r) {
		return
	}
	var req goalieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.deps.SetGoaliePhone(r.Context(), req.Phone); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "ok"})
}

type broadcastRequest struct {
	Phone string `json:"phone"`
}

// HandleBroadcastAdd handles POST /admin/broadcast/add requests.
func (h *AdminHandler) HandleBroadcastAdd(w http.ResponseWriter, r *http.Request) {
	if !h.guard(w, r) {
		return
	}
	var req broadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.deps.AddBroadcastNumber(r.Context(), req.Phone); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"numbers": h.deps.BroadcastNumbers(r.Context()),
	})
}

// HandleBroadcastRemove handles POST /admin/broadcast/remove requests.
func (h *AdminHandler) HandleBroadcastRemove(w http.ResponseWriter, r *http.Request) {
	if !h.guard(w, r) {
		return
	}
	var req broadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	h.deps.RemoveBroadcastNumber(r.Context(), req.Phone)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"numbers": h.deps.BroadcastNumbers(r.Context()),
	})
}

// HandleBroadcastSend handles POST /admin/broadcast/send requests.
func (h *AdminHandler) HandleBroadcastSend(w http.ResponseWriter, r *http.Request) {
	if !h.guard(w, r) {
		return
	}
	sent, err := h.deps.BroadcastRoster(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sent": sent})
}

// HandleNotifyGoalie handles POST /admin/notify-goalie requests.
func (h *AdminHandler) HandleNotifyGoalie(w http.ResponseWriter, r *http.Request) {
	if !h.guard(w, r) {
		return
	}
	if err := h.deps.NotifyGoalie(r.Context()); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "ok"})
}

// HandlePayGoalie handles POST /admin/pay-goalie requests.
func (h *AdminHandler) HandlePayGoalie(w http.ResponseWriter, r *http.Request) {
	if !h.guard(w, r) {
		return
	}
	if err := h.deps.PayGoalie(r.Context()); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "ok"})
}

type testSMSRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// HandleTestSMS handles POST /admin/test-sms requests.
func (h *AdminHandler) HandleTestSMS(w http.ResponseWriter, r *http.Request) {
	if !h.guard(w, r) {
		return
	}
	var req testSMSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if strings.TrimSpace(req.To) == "" || strings.TrimSpace(req.Body) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing to or body"))
		return
	}
	if err := h.deps.SendSMS(r.Context(), req.To, req.Body); err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "ok"})
}
