// Package payment provides the goalie payout transport. With PayPal
// credentials it creates a Venmo-wallet payout; without them it logs the
// payout instead (dry-run).
package payment

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/plutov/paypal/v4"

	"github.com/okian/crease/pkg/logger"
	"github.com/okian/crease/pkg/metrics"
)

// Payouts API enum values for Venmo recipients.
const (
	recipientTypeUserHandle = "USER_HANDLE"
	recipientWalletVenmo    = "VENMO"
)

// Payer sends a fixed-amount payout to a payment handle.
type Payer interface {
	SendPayout(ctx context.Context, weekID int64, amount float64, handle string) error
}

// PayoutSender implements Payer over the PayPal Payouts API, falling
// back to dry-run when no credentials are configured.
type PayoutSender struct {
	client *paypal.Client
	log    logger.Logger
}

// New creates a PayoutSender with configuration options. Without
// WithCredentials the sender stays in dry-run mode.
func New(opts ...Option) (*PayoutSender, error) {
	p := &PayoutSender{
		log: logger.Get().Named("payment"),
	}

	// Apply all options
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// SendPayout pays amount to the given handle for a week's goalie
// service. Failures are not retried here; the workflow informs the
// sender and logs the result.
func (p *PayoutSender) SendPayout(ctx context.Context, weekID int64, amount float64, h string) error {
	if h == "" {
		return ErrNoHandle
	}

	if p.client == nil {
		txn := "DRYRUN-" + uuid.NewString()
		p.log.Info(ctx, "payout dry-run",
			logger.Int64("weekID", weekID),
			logger.Float64("amount", amount),
			logger.String("handle", h),
			logger.String("transaction", txn),
		)
		metrics.RecordPayoutSent()
		return nil
	}

	if _, err := p.client.GetAccessToken(ctx); err != nil {
		metrics.RecordPayoutError()
		return fmt.Errorf("paypal access token: %w", err)
	}

	payout := paypal.Payout{
		SenderBatchHeader: &paypal.SenderBatchHeader{
			SenderBatchID: uuid.NewString(),
			EmailSubject:  "Weekly Skate goalie payout",
		},
		Items: []paypal.PayoutItem{
			{
				RecipientType:   recipientTypeUserHandle,
				RecipientWallet: recipientWalletVenmo,
				Receiver:        h,
				Amount: &paypal.AmountPayout{
					Currency: "USD",
					Value:    strconv.FormatFloat(amount, 'f', 2, 64),
				},
				Note:         fmt.Sprintf("Goalie fee for week %d", weekID),
				SenderItemID: fmt.Sprintf("week-%d", weekID),
			},
		},
	}

	resp, err := p.client.CreatePayout(ctx, payout)
	if err != nil {
		metrics.RecordPayoutError()
		return fmt.Errorf("paypal payout to %s: %w", h, err)
	}

	batchID := ""
	if resp.BatchHeader != nil {
		batchID = resp.BatchHeader.PayoutBatchID
	}
	p.log.Info(ctx, "payout created",
		logger.Int64("weekID", weekID),
		logger.Float64("amount", amount),
		logger.String("handle", h),
		logger.String("batchID", batchID),
	)
	metrics.RecordPayoutSent()
	return nil
}
