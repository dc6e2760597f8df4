// Package sms provides the outbound SMS transport. With Twilio
// credentials it sends real messages; without them it logs the message
// body instead (dry-run), which keeps local development safe.
package sms

import (
	"context"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/okian/crease/internal/domain/model"
	"github.com/okian/crease/pkg/logger"
	"github.com/okian/crease/pkg/metrics"
)

// Sender sends a text message to a phone number.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// Messenger implements Sender over Twilio, falling back to dry-run when
// no credentials are configured.
type Messenger struct {
	client *twilio.RestClient
	from   string
	log    logger.Logger
}

// New creates a Messenger with configuration options. Without
// WithCredentials the messenger stays in dry-run mode.
func New(opts ...Option) *Messenger {
	m := &Messenger{
		log: logger.Get().Named("sms"),
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Send delivers body to the given phone number. Failures are returned
// to the caller; the caller decides whether to inform the user.
func (m *Messenger) Send(ctx context.Context, to, body string) error {
	if m.client == nil || m.from == "" {
		m.log.Info(ctx, "sms dry-run",
			logger.String("to", to),
			logger.String("body", body),
		)
		metrics.RecordSMSSent()
		return nil
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(m.from)
	params.SetBody(body)

	msg, err := m.client.Api.CreateMessage(params)
	if err != nil {
		metrics.RecordSMSError()
		return fmt.Errorf("twilio send to %s: %w", to, err)
	}

	sid := ""
	if msg.Sid != nil {
		sid = *msg.Sid
	}
	m.log.Info(ctx, "sms sent",
		logger.String("to", to),
		logger.String("sid", sid),
	)
	metrics.RecordSMSSent()
	return nil
}

// FormatSignupList renders the roster for inclusion in an SMS body.
func FormatSignupList(signups []model.Signup) string {
	if len(signups) == 0 {
		return "No signups yet."
	}
	lines := []string{"Weekly Skate Signups:"}
	for i, s := range signups {
		phone := s.Phone
		if phone == "" {
			phone = "(no phone)"
		}
		lines = append(lines, fmt.Sprintf("%d. %s %s - %s",
			i+1, s.Name, phone, s.CreatedAt.Format("2006-01-02 15:04")))
	}
	return strings.Join(lines, "\n")
}
