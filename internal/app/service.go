// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	msgqueue "github.com/okian/crease/internal/adapters/mq/queue"
	workerpool "github.com/okian/crease/internal/adapters/mq/worker"
	"github.com/okian/crease/internal/adapters/payment"
	"github.com/okian/crease/internal/adapters/repository"
	"github.com/okian/crease/internal/adapters/sms"
	"github.com/okian/crease/internal/domain/dedupe"
	"github.com/okian/crease/internal/domain/model"
	"github.com/okian/crease/internal/domain/workflow"
	"github.com/okian/crease/pkg/logger"
	"github.com/okian/crease/pkg/metrics"
)

// Service implements the API dependencies for the signup system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     repository.Store
	deduper   dedupe.Deduper
	msgQueue  msgqueue.Queue
	messenger sms.Sender
	payer     payment.Payer
	flow      *workflow.Workflow
	pool      *workerpool.Pool

	// Configuration
	workerCount  int
	queueSize    int
	dedupeSize   int
	defaultQuota int
	payoutAmount float64
	sendTimeout  time.Duration

	twilioAccountSID string
	twilioAuthToken  string
	twilioFrom       string
	paypalClientID   string
	paypalSecret     string
	paypalLive       bool

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the inbound message queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the message-id deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithDefaultQuota sets the quota assigned to lazily created weeks.
func WithDefaultQuota(quota int) Option {
	return func(s *Service) {
		if quota > 0 {
			s.defaultQuota = quota
		}
	}
}

// WithPayoutAmount sets the fixed goalie payout in USD.
func WithPayoutAmount(amount float64) Option {
	return func(s *Service) {
		if amount > 0 {
			s.payoutAmount = amount
		}
	}
}

// WithSendTimeout bounds each outbound SMS or payout call.
func WithSendTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.sendTimeout = timeout
		}
	}
}

// WithTwilio sets the Twilio credentials. All empty keeps SMS in
// dry-run mode.
func WithTwilio(accountSID, authToken, from string) Option {
	return func(s *Service) {
		s.twilioAccountSID = accountSID
		s.twilioAuthToken = authToken
		s.twilioFrom = from
	}
}

// WithPayPal sets the PayPal credentials. Empty keeps payouts in
// dry-run mode.
func WithPayPal(clientID, secret string, live bool) Option {
	return func(s *Service) {
		s.paypalClientID = clientID
		s.paypalSecret = secret
		s.paypalLive = live
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:  runtime.NumCPU() * 2,
		queueSize:    10_000,
		dedupeSize:   50_000,
		defaultQuota: 16,
		payoutAmount: 10.00,
		sendTimeout:  10 * time.Second,
		logger:       nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting signup service...")

	// Initialize components
	s.store = repository.NewMemStore(
		repository.WithDefaultQuota(s.defaultQuota),
	)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.msgQueue = msgqueue.NewInMemoryQueue(
		msgqueue.WithCapacity(s.queueSize),
	)

	smsOpts := []sms.Option{sms.WithFrom(s.twilioFrom)}
	if s.twilioAccountSID != "" && s.twilioAuthToken != "" {
		smsOpts = append(smsOpts, sms.WithCredentials(s.twilioAccountSID, s.twilioAuthToken))
	}
	s.messenger = sms.New(smsOpts...)

	payOpts := []payment.Option{}
	if s.paypalClientID != "" && s.paypalSecret != "" {
		payOpts = append(payOpts, payment.WithCredentials(s.paypalClientID, s.paypalSecret, s.paypalLive))
	}
	payer, err := payment.New(payOpts...)
	if err != nil {
		return fmt.Errorf("init payment client: %w", err)
	}
	s.payer = payer

	s.flow = workflow.New(s.store, s.messenger, s.payer,
		workflow.WithPayoutAmount(s.payoutAmount),
		workflow.WithSendTimeout(s.sendTimeout),
	)

	// Create and start worker pool draining the inbound queue
	s.pool = workerpool.NewPool(s.workerCount, s.msgQueue, s.flow)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "signup service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("defaultQuota", s.defaultQuota),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping signup service...")

	// Close the queue so workers drain and exit, then wait for them.
	if s.msgQueue != nil {
		_ = s.msgQueue.Close()
	}
	if s.pool != nil {
		s.pool.Stop()
	}

	s.started = false
	s.logger.Info(context.Background(), "signup service stopped")
}

// AddSignup validates and appends a signup to the current week, then
// runs the notify-once quota check. The goalie notification fires
// exactly once per week even under concurrent signups; it is claimed
// atomically before the SMS is sent.
func (s *Service) AddSignup(ctx context.Context, name, phone string) (model.Week, error) {
	sig, err := model.NewSignup(name, phone, time.Now())
	if err != nil {
		return model.Week{}, err
	}

	week, err := s.store.AddSignup(ctx, sig)
	if err != nil {
		return model.Week{}, fmt.Errorf("add signup: %w", err)
	}
	metrics.RecordSignup()
	s.logger.Info(ctx, "signup added",
		logger.String("name", sig.Name),
		logger.Int("count", week.Count()),
		logger.Int("quota", week.Quota),
	)

	if week.QuotaReached() {
		s.notifyGoalieOnce(ctx, week)
	}
	return week, nil
}

// notifyGoalieOnce claims the notification flag and, if this call won
// the claim, sends the roster to the goalie phone. A send failure after
// a won claim is logged; the flag stays set and there is no retry.
func (s *Service) notifyGoalieOnce(ctx context.Context, week model.Week) {
	claimed, err := s.store.ClaimGoalieNotification(ctx, week.ID)
	if err != nil {
		s.logger.Error(ctx, "claim goalie notification failed",
			logger.Int64("weekID", week.ID),
			logger.Error(err),
		)
		return
	}
	if !claimed {
		return
	}

	metrics.RecordQuotaReached()
	phone, ok := s.store.GoaliePhone(ctx)
	if !ok {
		s.logger.Warn(ctx, "quota reached but no goalie phone configured",
			logger.Int64("weekID", week.ID),
		)
		return
	}

	body := fmt.Sprintf("Quota reached for Week %d, %d! We have %d skaters. Can you play this week?\n\n%s",
		week.ISOWeek, week.ISOYear, week.Count(), sms.FormatSignupList(week.Signups))

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()
	if err := s.messenger.Send(sendCtx, phone, body); err != nil {
		s.logger.Error(ctx, "goalie notification send failed",
			logger.Int64("weekID", week.ID),
			logger.Error(err),
		)
		return
	}
	metrics.RecordGoalieNotified()
	s.logger.Info(ctx, "goalie notified",
		logger.Int64("weekID", week.ID),
		logger.String("phone", phone),
	)
}

// CurrentWeek returns the current week read model.
func (s *Service) CurrentWeek(ctx context.Context) (model.Week, error) {
	return s.store.CurrentWeek(ctx)
}

// SetQuota changes the quota for the current week.
func (s *Service) SetQuota(ctx context.Context, quota int) (model.Week, error) {
	week, err := s.store.CurrentWeek(ctx)
	if err != nil {
		return model.Week{}, err
	}
	if err := s.store.SetQuota(ctx, week.ID, quota); err != nil {
		return model.Week{}, err
	}
	return s.store.Week(ctx, week.ID)
}

// SetGoaliePhone stores the goalie contact. Empty clears it.
func (s *Service) SetGoaliePhone(ctx context.Context, phone string) error {
	return s.store.SetGoaliePhone(ctx, phone)
}

// GoaliePhone returns the configured goalie contact, if any.
func (s *Service) GoaliePhone(ctx context.Context) (string, bool) {
	return s.store.GoaliePhone(ctx)
}

// NotifyGoalie manually sends the current roster to the goalie phone.
// It also attempts the notification claim so a quota-met week will not
// notify a second time on its own.
func (s *Service) NotifyGoalie(ctx context.Context) error {
	phone, ok := s.store.GoaliePhone(ctx)
	if !ok {
		return ErrNoGoaliePhone
	}
	week, err := s.store.CurrentWeek(ctx)
	if err != nil {
		return err
	}

	if claimed, err := s.store.ClaimGoalieNotification(ctx, week.ID); err == nil && claimed {
		metrics.RecordQuotaReached()
	}

	body := fmt.Sprintf("Goalie check for Week %d, %d: we have %d of %d skaters.\n\n%s",
		week.ISOWeek, week.ISOYear, week.Count(), week.Quota, sms.FormatSignupList(week.Signups))

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()
	if err := s.messenger.Send(sendCtx, phone, body); err != nil {
		return fmt.Errorf("notify goalie: %w", err)
	}
	metrics.RecordGoalieNotified()
	return nil
}

// PayGoalie manually pays the goalie using the handle on file.
func (s *Service) PayGoalie(ctx context.Context) error {
	phone, ok := s.store.GoaliePhone(ctx)
	if !ok {
		return ErrNoGoaliePhone
	}
	rec, ok := s.store.HandleRecord(ctx, phone)
	if !ok {
		return ErrNoHandleOnFile
	}
	week, err := s.store.CurrentWeek(ctx)
	if err != nil {
		return err
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()
	if err := s.payer.SendPayout(sendCtx, week.ID, s.payoutAmount, rec.Handle); err != nil {
		return fmt.Errorf("pay goalie: %w", err)
	}
	return nil
}

// SendSMS sends an arbitrary text to a phone number (admin test path).
func (s *Service) SendSMS(ctx context.Context, to, body string) error {
	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()
	return s.messenger.Send(sendCtx, to, body)
}

// AddBroadcastNumber appends a number to the broadcast list.
func (s *Service) AddBroadcastNumber(ctx context.Context, phone string) error {
	return s.store.AddBroadcastNumber(ctx, phone)
}

// RemoveBroadcastNumber removes a number from the broadcast list.
func (s *Service) RemoveBroadcastNumber(ctx context.Context, phone string) {
	s.store.RemoveBroadcastNumber(ctx, phone)
}

// BroadcastNumbers returns the broadcast list in insertion order.
func (s *Service) BroadcastNumbers(ctx context.Context) []string {
	return s.store.BroadcastNumbers(ctx)
}

// BroadcastRoster sends the current roster to every broadcast number.
// Per-number failures are logged and counted but do not stop the send.
func (s *Service) BroadcastRoster(ctx context.Context) (int, error) {
	week, err := s.store.CurrentWeek(ctx)
	if err != nil {
		return 0, err
	}
	numbers := s.store.BroadcastNumbers(ctx)
	body := fmt.Sprintf("Week %d, %d: %d of %d spots filled.\n\n%s",
		week.ISOWeek, week.ISOYear, week.Count(), week.Quota, sms.FormatSignupList(week.Signups))

	sent := 0
	for _, n := range numbers {
		sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
		err := s.messenger.Send(sendCtx, n, body)
		cancel()
		if err != nil {
			s.logger.Error(ctx, "broadcast send failed",
				logger.String("to", n),
				logger.Error(err),
			)
			continue
		}
		sent++
	}
	return sent, nil
}

// SeenAndRecord atomically checks if a message id was seen and records
// it if not. Returns true if the message was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordMessageDuplicate()
	}
	return seen
}

// Unrecord removes a message id from the seen list, allowing a retry
// after backpressure.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// EnqueueInbound submits an inbound message for asynchronous
// interpretation. Returns false when the queue is full.
func (s *Service) EnqueueInbound(ctx context.Context, m model.InboundMessage) bool {
	s.logger.Debug(ctx, "enqueueing inbound message",
		logger.String("messageID", m.MessageID),
		logger.String("from", m.From),
	)

	ok := s.msgQueue.Enqueue(ctx, m)
	if ok {
		metrics.UpdateQueueSize(s.msgQueue.Len(ctx))
	}
	return ok
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.msgQueue.Len(ctx)
		stats["queueLength"] = queueLen
		stats["trackedWeeks"] = s.store.WeekCount(ctx)
		stats["seenMessages"] = s.deduper.Size()

		if week, err := s.store.CurrentWeek(ctx); err == nil {
			stats["currentWeek"] = map[string]interface{}{
				"year":           week.ISOYear,
				"week":           week.ISOWeek,
				"quota":          week.Quota,
				"count":          week.Count(),
				"goalieNotified": week.GoalieNotified,
			}
		}

		metrics.UpdateQueueSize(queueLen)
	}

	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}
