package smoketest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/okian/crease/pkg/logger"
)

// Goalie phone the run registers and then texts from.
const goaliePhone = "+15559990000"

// processingDelay gives the async pipeline time to drain before checks.
const processingDelay = 2 * time.Second

// Run executes the complete smoke test against a running service.
func Run(ctx context.Context, cfg *Config) error {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("smoketest")

	log.Info(ctx, "starting smoke test",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("signups", cfg.Signups),
	)

	c := newClient(cfg)

	// Step 1: service must be up.
	if err := checkHealth(ctx, c); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	// Step 2: register a goalie phone so quota completion has a target.
	if cfg.AdminToken != "" {
		status, _, err := c.postJSON(ctx, "/admin/goalie", map[string]string{"phone": goaliePhone})
		if err != nil {
			return fmt.Errorf("set goalie phone: %w", err)
		}
		if status != http.StatusOK {
			return fmt.Errorf("set goalie phone: unexpected status %d", status)
		}
		log.Info(ctx, "goalie phone registered", logger.String("phone", goaliePhone))
	} else {
		log.Warn(ctx, "no admin token; skipping goalie phone setup")
	}

	// Step 3: submit signups.
	if err := submitSignups(ctx, c, cfg, stats); err != nil {
		return fmt.Errorf("signup submission failed: %w", err)
	}

	// Step 4: drive the confirmation conversation through the webhook,
	// re-posting one SID to exercise deduplication.
	if err := driveWebhook(ctx, c, stats); err != nil {
		return fmt.Errorf("webhook drive failed: %w", err)
	}

	// Step 5: wait for the async pipeline, then read the week back.
	time.Sleep(processingDelay)
	if err := verifyWeek(ctx, c, cfg, stats); err != nil {
		return fmt.Errorf("week verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	log.Info(ctx, "smoke test completed successfully")
	return nil
}

// checkHealth verifies the service is running.
func checkHealth(ctx context.Context, c *client) error {
	status, _, err := c.get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("connect to service: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("health check returned status %d", status)
	}
	return nil
}

// submitSignups posts the generated roster one by one.
func submitSignups(ctx context.Context, c *client, cfg *Config, stats *Stats) error {
	log := logger.Get().Named("smoketest")
	for _, s := range generateSignups(cfg.Signups) {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled during signups: %w", ctx.Err())
		default:
		}

		stats.SignupsSubmitted++
		status, body, err := c.postJSON(ctx, "/signup", s)
		if err != nil {
			return err
		}
		if status != http.StatusAccepted {
			stats.SignupsFailed++
			log.Warn(ctx, "signup rejected",
				logger.String("name", s.Name),
				logger.Int("status", status),
				logger.String("body", string(body)),
			)
			continue
		}
		stats.SignupsAccepted++
	}
	return nil
}

// driveWebhook posts a confirmation message, a duplicate of it, and a
// handle-bearing follow-up from the goalie phone.
func driveWebhook(ctx context.Context, c *client, stats *Stats) error {
	post := func(sid, body string) (int, error) {
		stats.WebhooksSubmitted++
		status, _, err := c.postForm(ctx, "/sms-webhook", url.Values{
			"From":       {goaliePhone},
			"Body":       {body},
			"MessageSid": {sid},
		})
		return status, err
	}

	sid := newMessageSid()
	if status, err := post(sid, confirmationBody(stats.WebhooksSubmitted)); err != nil {
		return err
	} else if status != http.StatusOK {
		stats.WebhooksFailed++
		return fmt.Errorf("webhook returned status %d", status)
	}

	// Same SID again: must be absorbed, not reprocessed.
	if status, err := post(sid, confirmationBody(stats.WebhooksSubmitted)); err != nil {
		return err
	} else if status == http.StatusOK {
		stats.WebhooksDuplicate++
	}

	if status, err := post(newMessageSid(), "my venmo is @smoke-goalie"); err != nil {
		return err
	} else if status != http.StatusOK {
		stats.WebhooksFailed++
		return fmt.Errorf("handle webhook returned status %d", status)
	}
	return nil
}

// verifyWeek reads the week back and checks the roster count.
func verifyWeek(ctx context.Context, c *client, cfg *Config, stats *Stats) error {
	log := logger.Get().Named("smoketest")

	status, body, err := c.get(ctx, "/week")
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("week endpoint returned status %d", status)
	}

	var week struct {
		Count          int  `json:"count"`
		Quota          int  `json:"quota"`
		GoalieNotified bool `json:"goalie_notified"`
	}
	if err := json.Unmarshal(body, &week); err != nil {
		return fmt.Errorf("decode week response: %w", err)
	}

	if week.Count < stats.SignupsAccepted {
		return fmt.Errorf("week count %d below accepted signups %d", week.Count, stats.SignupsAccepted)
	}
	log.Info(ctx, "week verified",
		logger.Int("count", week.Count),
		logger.Int("quota", week.Quota),
		logger.Bool("goalieNotified", week.GoalieNotified),
	)
	return nil
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	logger.Get().Info(ctx, "final statistics",
		logger.Int("signupsSubmitted", stats.SignupsSubmitted),
		logger.Int("signupsAccepted", stats.SignupsAccepted),
		logger.Int("signupsFailed", stats.SignupsFailed),
		logger.Int("webhooksSubmitted", stats.WebhooksSubmitted),
		logger.Int("webhooksDuplicate", stats.WebhooksDuplicate),
		logger.Int("webhooksFailed", stats.WebhooksFailed),
		logger.String("duration", stats.Duration.String()),
	)
}
