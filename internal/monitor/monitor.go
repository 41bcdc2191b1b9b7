// Package monitor runs the periodic health check: message flow, bot
// credentials and database reachability, with a single best-effort recovery
// and an email alert when the score drops below 50.
package monitor

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"dealshub/backend/internal/models"
	"dealshub/backend/internal/storage"
)

// alertThreshold is the score below which an alert email goes out.
const alertThreshold = 50

// BotChecker is the slice of the Telegram client the monitor needs.
type BotChecker interface {
	CheckBot() error
}

// Mailer sends alert emails. A nil Mailer disables alerting entirely.
type Mailer interface {
	SendAlert(subject, body string) error
}

// Monitor wires the three sub-checks together.
type Monitor struct {
	Storage   storage.Storage
	Bot       BotChecker
	Mailer    Mailer
	IngestURL string
	// HTTPClient fires the manual-run recovery poke; defaults to a 10s
	// timeout client.
	HTTPClient *http.Client
	Logger     *zap.Logger
}

func New(s storage.Storage, bot BotChecker, mailer Mailer, ingestURL string, logger *zap.Logger) *Monitor {
	return &Monitor{
		Storage:    s,
		Bot:        bot,
		Mailer:     mailer,
		IngestURL:  ingestURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Logger:     logger,
	}
}

// Score maps the number of passing sub-checks onto the coarse health score.
// This is the single scoring function; the status endpoint reports the same
// number.
func Score(passed int) int {
	switch passed {
	case 3:
		return 100
	case 2:
		return 66
	case 1:
		return 33
	default:
		return 0
	}
}

// Run executes one monitoring pass and persists the snapshot. Every
// sub-check fails soft: its error lands in the snapshot, never in Run's
// control flow.
func (m *Monitor) Run() *models.HealthCheck {
	hc := &models.HealthCheck{}
	var errs []string

	// Message flow: anything ingested in the last 24 hours?
	count, err := m.Storage.CountMessagesSince(time.Now().UTC().Add(-24 * time.Hour))
	if err != nil {
		errs = append(errs, fmt.Sprintf("message flow: %v", err))
	} else {
		hc.RecentCount = count
		hc.MessageFlowOK = count > 0
		if count == 0 {
			errs = append(errs, "message flow: no messages in the last 24h")
		}
	}

	// Bot credentials.
	if m.Bot == nil {
		errs = append(errs, "bot: no telegram client configured")
	} else if err := m.Bot.CheckBot(); err != nil {
		errs = append(errs, fmt.Sprintf("bot: %v", err))
	} else {
		hc.BotOK = true
	}

	// Database reachability.
	if err := m.Storage.Ping(); err != nil {
		errs = append(errs, fmt.Sprintf("database: %v", err))
	} else {
		hc.DatabaseOK = true
	}

	passed := 0
	for _, ok := range []bool{hc.MessageFlowOK, hc.BotOK, hc.DatabaseOK} {
		if ok {
			passed++
		}
	}
	hc.Score = Score(passed)
	hc.Error = strings.Join(errs, "; ")

	if passed < 3 {
		hc.Recovery = m.recover(hc)
	}

	if hc.Score < alertThreshold {
		m.alert(hc)
	}

	if err := m.Storage.SaveHealthCheck(hc); err != nil {
		m.Logger.Error("Failed to persist health check", zap.Error(err))
	}

	m.Logger.Info("Health check complete",
		zap.Int("score", hc.Score),
		zap.Bool("message_flow", hc.MessageFlowOK),
		zap.Bool("bot", hc.BotOK),
		zap.Bool("database", hc.DatabaseOK))
	return hc
}

// recover makes exactly one best-effort attempt per run: reconnect the
// storage client for a dead database, or poke the ingestion endpoint when
// messages stopped flowing. Outcomes are recorded, never retried.
func (m *Monitor) recover(hc *models.HealthCheck) string {
	if !hc.DatabaseOK {
		if err := m.Storage.Reconnect(); err != nil {
			return fmt.Sprintf("storage reconnect failed: %v", err)
		}
		return "storage reconnected"
	}

	if !hc.MessageFlowOK && m.IngestURL != "" {
		resp, err := m.HTTPClient.Get(m.IngestURL)
		if err != nil {
			return fmt.Sprintf("ingest poke failed: %v", err)
		}
		resp.Body.Close()
		return fmt.Sprintf("ingest poked: %s", resp.Status)
	}

	return ""
}

func (m *Monitor) alert(hc *models.HealthCheck) {
	if m.Mailer == nil {
		return
	}

	subject := fmt.Sprintf("DealsHub health degraded (score %d)", hc.Score)
	body := fmt.Sprintf(
		"Health score: %d\nMessage flow ok: %v (recent: %d)\nBot ok: %v\nDatabase ok: %v\nErrors: %s\nRecovery: %s\n",
		hc.Score, hc.MessageFlowOK, hc.RecentCount, hc.BotOK, hc.DatabaseOK, hc.Error, hc.Recovery)

	if err := m.Mailer.SendAlert(subject, body); err != nil {
		m.Logger.Error("Failed to send alert email", zap.Error(err))
		return
	}
	hc.Notified = true
}
