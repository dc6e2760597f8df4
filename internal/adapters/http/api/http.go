// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/crease/internal/domain/model"
)

// Dependencies required by the public HTTP handlers. Using an interface
// bundle keeps the handler layer loosely coupled to implementations in
// other packages.
type Dependencies interface {
	// SeenAndRecord atomically checks if a message id was seen and
	// records it if not. Returns true if already seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes a message id from the seen list after a failed
	// enqueue so the transport can retry.
	Unrecord(ctx context.Context, id string)

	// EnqueueInbound pushes an inbound message for async processing.
	// Returns false on backpressure.
	EnqueueInbound(ctx context.Context, m model.InboundMessage) bool

	// AddSignup validates and appends a signup to the current week.
	AddSignup(ctx context.Context, name, phone string) (model.Week, error)

	// CurrentWeek exposes the signup page read model.
	CurrentWeek(ctx context.Context) (model.Week, error)
}

// AdminDependencies are the operations behind the admin token.
type AdminDependencies interface {
	SetQuota(ctx context.Context, quota int) (model.Week, error)
	SetGoaliePhone(ctx context.Context, phone string) error
	GoaliePhone(ctx context.Context) (string, bool)
	NotifyGoalie(ctx context.Context) error
	PayGoalie(ctx context.Context) error
	SendSMS(ctx context.Context, to, body string) error
	AddBroadcastNumber(ctx context.Context, phone string) error
	RemoveBroadcastNumber(ctx context.Context, phone string)
	BroadcastNumbers(ctx context.Context) []string
	BroadcastRoster(ctx context.Context) (int, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	signupHandler  *SignupHandler
	webhookHandler *WebhookHandler
	adminHandler   *AdminHandler
}

// NewServer creates a new API server with all handlers. An empty
// adminToken disables the admin endpoints.
func NewServer(deps Dependencies, admin AdminDependencies, statsProvider StatsProvider, adminToken string) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		signupHandler:  NewSignupHandler(deps),
		webhookHandler: NewWebhookHandler(deps),
		adminHandler:   NewAdminHandler(admin, adminToken),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/signup", MetricsMiddleware(s.signupHandler.HandlePostSignup, "signup"))
	mux.HandleFunc("/week", MetricsMiddleware(s.signupHandler.HandleGetWeek, "week"))
	mux.HandleFunc("/sms-webhook", MetricsMiddleware(s.webhookHandler.HandleInbound, "sms-webhook"))

	mux.HandleFunc("/admin/quota", MetricsMiddleware(s.adminHandler.HandleSetQuota, "admin_quota"))
	mux.HandleFunc("/admin/goalie", MetricsMiddleware(s.adminHandler.HandleSetGoalie, "admin_goalie"))
	mux.HandleFunc("/admin/broadcast/add", MetricsMiddleware(s.adminHandler.HandleBroadcastAdd, "admin_broadcast_add"))
	mux.HandleFunc("/admin/broadcast/remove", MetricsMiddleware(s.adminHandler.HandleBroadcastRemove, "admin_broadcast_remove"))
	mux.HandleFunc("/admin/broadcast/send", MetricsMiddleware(s.adminHandler.HandleBroadcastSend, "admin_broadcast_send"))
	mux.HandleFunc("/admin/notify-goalie", MetricsMiddleware(s.adminHandler.HandleNotifyGoalie, "admin_notify_goalie"))
	mux.HandleFunc("/admin/pay-goalie", MetricsMiddleware(s.adminHandler.HandlePayGoalie, "admin_pay_goalie"))
	mux.HandleFunc("/admin/test-sms", MetricsMiddleware(s.adminHandler.HandleTestSMS, "admin_test_sms"))
}

// weekResponse mirrors the read shape returned by week queries.
type weekResponse struct {
	Year           int              `json:"year"`
	Week           int              `json:"week"`
	Quota          int              `json:"quota"`
	Count          int              `json:"count"`
	GoalieNotified bool             `json:"goalie_notified"`
	Signups        []signupResponse `json:"signups"`
}

type signupResponse struct {
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	CreatedAt string `json:"created_at"`
}

func toWeekResponse(w model.Week) weekResponse {
	out := weekResponse{
		Year:           w.ISOYear,
		Week:           w.ISOWeek,
		Quota:          w.Quota,
		Count:          w.Count(),
		GoalieNotified: w.GoalieNotified,
		Signups:        make([]signupResponse, 0, len(w.Signups)),
	}
	for _, s := range w.Signups {
		out.Signups = append(out.Signups, signupResponse{
			Name:      s.Name,
			Phone:     s.Phone,
			CreatedAt: s.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	return out
}

type ackResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
