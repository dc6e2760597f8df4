// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/okian/crease/internal/domain/model"
	"github.com/okian/crease/pkg/metrics"
)

// WebhookDependencies defines the interface for inbound SMS handling.
type WebhookDependencies interface {
	SeenAndRecord(ctx context.Context, id string) bool
	Unrecord(ctx context.Context, id string)
	EnqueueInbound(ctx context.Context, m model.InboundMessage) bool
}

// WebhookHandler handles Twilio-style inbound SMS callbacks.
type WebhookHandler struct {
	deps WebhookDependencies
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(deps WebhookDependencies) *WebhookHandler {
	return &WebhookHandler{deps: deps}
}

// emptyTwiML acknowledges the callback without sending a reply; replies
// go out asynchronously through the normal send path.
const emptyTwiML = `<?xml version="1.0" encoding="UTF-8"?><Response></Response>`

// HandleInbound handles POST /sms-webhook requests. The transport posts
// form fields From, Body, and MessageSid. Well-formed posts always get
// 200 so the transport does not retry; duplicates by MessageSid are
// dropped before reaching the queue.
func (h *WebhookHandler) HandleInbound(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	from := strings.TrimSpace(r.PostFormValue("From"))
	body := r.PostFormValue("Body")
	sid := strings.TrimSpace(r.PostFormValue("MessageSid"))

	if from == "" || strings.TrimSpace(body) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	metrics.RecordMessageReceived()

	// Idempotency check - mark as seen first. Transports without a
	// message id skip deduplication.
	if sid != "" && h.deps.SeenAndRecord(r.Context(), sid) {
		writeTwiML(w)
		return
	}

	m := model.InboundMessage{
		MessageID: sid,
		From:      from,
		Body:      body,
		Received:  time.Now(),
	}
	if ok := h.deps.EnqueueInbound(r.Context(), m); !ok {
		// Rollback the "seen" status since enqueue failed
		if sid != "" {
			h.deps.Unrecord(r.Context(), sid)
		}
		writeError(w, http.StatusTooManyRequests, "backpressure", ErrBackpressure)
		return
	}
	writeTwiML(w)
}

func writeTwiML(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(emptyTwiML))
}
