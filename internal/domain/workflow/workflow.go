// Package workflow drives the notify -> confirm -> collect-handle -> pay
// progression for a week's goalie.
//
// The workflow is re-entrant: it keeps no session state between
// messages and re-derives the current state on every invocation from
// the persisted week, settings, and handle-record facts. Processing is
// serialized per sender phone number, which preserves the
// at-most-one-payout invariant when the transport redelivers or the
// sender double-texts.
package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/crease/internal/domain/analysis"
	"github.com/okian/crease/internal/domain/handle"
	"github.com/okian/crease/internal/domain/model"
	"github.com/okian/crease/pkg/logger"
	"github.com/okian/crease/pkg/metrics"
)

// Default workflow configuration constants.
const (
	defaultPayoutAmount = 10.00
	defaultSendTimeout  = 10 * time.Second
)

// Store is the narrow view of persistence the workflow needs.
type Store interface {
	WeekNeedingGoalie(ctx context.Context) (model.Week, bool)
	GoaliePhone(ctx context.Context) (string, bool)
	HandleRecord(ctx context.Context, phone string) (model.HandleRecord, bool)
	StoreHandleRecord(ctx context.Context, phone, handle string) error
}

// Messenger sends a text message to a phone number.
type Messenger interface {
	Send(ctx context.Context, to, body string) error
}

// Payer sends a fixed-amount payout to a payment handle.
type Payer interface {
	SendPayout(ctx context.Context, weekID int64, amount float64, handle string) error
}

// Workflow interprets inbound messages from the goalie contact.
type Workflow struct {
	store     Store
	messenger Messenger
	payer     Payer
	analyzer  *analysis.Analyzer

	amount      float64
	sendTimeout time.Duration

	// Per-phone locks serialize processing for a sender. Entries are
	// never removed; the key space is the handful of configured phones.
	locks sync.Map // phone -> *sync.Mutex

	log logger.Logger
}

// New creates a Workflow with configuration options.
func New(store Store, messenger Messenger, payer Payer, opts ...Option) *Workflow {
	w := &Workflow{
		store:       store,
		messenger:   messenger,
		payer:       payer,
		analyzer:    analysis.New(),
		amount:      defaultPayoutAmount,
		sendTimeout: defaultSendTimeout,
		log:         logger.Get().Named("workflow"),
	}

	// Apply all options
	for _, opt := range opts {
		opt(w)
	}

	return w
}

// lockFor returns the serialization mutex for a phone number.
func (w *Workflow) lockFor(phone string) *sync.Mutex {
	mu, _ := w.locks.LoadOrStore(phone, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// HandleInboundMessage interprets one inbound SMS. A sender or week
// mismatch is not an error; it short-circuits to no-op. Transport
// failures are reported back to the sender and logged, never retried.
func (w *Workflow) HandleInboundMessage(ctx context.Context, from, body string) error {
	mu := w.lockFor(from)
	mu.Lock()
	defer mu.Unlock()

	goaliePhone, ok := w.store.GoaliePhone(ctx)
	if !ok || from != goaliePhone {
		w.log.Info(ctx, "message not from goalie phone, ignoring",
			logger.String("from", from),
		)
		metrics.RecordMessageIgnored("unknown_sender")
		return nil
	}

	week, ok := w.store.WeekNeedingGoalie(ctx)
	if !ok {
		w.log.Info(ctx, "no current week needing goalie confirmation")
		metrics.RecordMessageIgnored("no_pending_week")
		return nil
	}

	start := time.Now()
	res := w.analyzer.Analyze(body)
	metrics.RecordAnalysisLatency(float64(time.Since(start).Milliseconds()))

	w.log.Debug(ctx, "message analyzed",
		logger.Bool("isConfirmation", res.IsConfirmation),
		logger.String("confidence", string(res.Confidence)),
		logger.Float64("score", res.ConfidenceScore),
		logger.String("reasoning", res.Reasoning),
	)

	if res.IsConfirmation {
		return w.handleConfirmation(ctx, from, week, res)
	}

	if h, found := handle.Extract(body); found {
		return w.handleNewHandle(ctx, from, week, h)
	}

	w.log.Info(ctx, "message matched neither confirmation nor handle patterns",
		logger.String("from", from),
	)
	metrics.RecordMessageIgnored("unmatched")
	return nil
}

// handleConfirmation acts on a detected confirmation. Only Medium and
// above reach this point; Low and VeryLow classify as not-a-confirmation.
func (w *Workflow) handleConfirmation(ctx context.Context, from string, week model.Week, res analysis.Result) error {
	metrics.RecordConfirmationDetected(string(res.Confidence))
	w.log.Info(ctx, "goalie confirmation detected",
		logger.String("confidence", string(res.Confidence)),
		logger.Float64("score", res.ConfidenceScore),
	)

	rec, haveHandle := w.store.HandleRecord(ctx, from)

	if !res.HighConfidence() && !haveHandle {
		// Medium confidence without a known handle: ask for an explicit
		// yes/no before touching money.
		w.send(ctx, from, fmt.Sprintf(
			"I think you confirmed the goalie (confidence: %.0f%%). "+
				"Please reply 'YES' to confirm and proceed with payment, or 'NO' if I misunderstood.",
			res.ConfidenceScore*100))
		return nil
	}

	if !haveHandle {
		w.send(ctx, from, fmt.Sprintf(
			"Great! I'm %.0f%% confident you confirmed the goalie. "+
				"To send your payment, please reply with your Venmo username (e.g., @username)",
			res.ConfidenceScore*100))
		return nil
	}

	if w.payout(ctx, week.ID, rec.Handle) {
		w.send(ctx, from, fmt.Sprintf(
			"Payment sent to @%s! Thanks for securing the goalie. (Confidence: %.0f%%)",
			rec.Handle, res.ConfidenceScore*100))
	} else {
		w.send(ctx, from, "Payment failed. Please contact admin.")
	}
	return nil
}

// handleNewHandle stores a freshly extracted handle and pays out.
func (w *Workflow) handleNewHandle(ctx context.Context, from string, week model.Week, h string) error {
	metrics.RecordHandleExtracted()
	if err := w.store.StoreHandleRecord(ctx, from, h); err != nil {
		return fmt.Errorf("store handle for %s: %w", from, err)
	}
	w.log.Info(ctx, "payment handle stored",
		logger.String("from", from),
		logger.String("handle", h),
	)

	if w.payout(ctx, week.ID, h) {
		w.send(ctx, from, fmt.Sprintf("Payment sent to @%s! Thanks for securing the goalie.", h))
	} else {
		w.send(ctx, from, "Payment failed. Please contact admin.")
	}
	return nil
}

// payout invokes the payment capability under a timeout. Failures are
// logged and reported to the caller as false; the stored handle is kept.
func (w *Workflow) payout(ctx context.Context, weekID int64, h string) bool {
	sendCtx, cancel := context.WithTimeout(ctx, w.sendTimeout)
	defer cancel()

	if err := w.payer.SendPayout(sendCtx, weekID, w.amount, h); err != nil {
		w.log.Error(ctx, "payout failed",
			logger.Int64("weekID", weekID),
			logger.String("handle", h),
			logger.Error(err),
		)
		return false
	}
	return true
}

// send delivers a reply best-effort under a timeout; failures are logged.
func (w *Workflow) send(ctx context.Context, to, body string) {
	sendCtx, cancel := context.WithTimeout(ctx, w.sendTimeout)
	defer cancel()

	if err := w.messenger.Send(sendCtx, to, body); err != nil {
		w.log.Error(ctx, "reply send failed",
			logger.String("to", to),
			logger.Error(err),
		)
	}
}
