package bus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/agnivade/asr_relay/internal/config"
)

// Event kinds carried in Event.Kind.
const (
	KindSessionStarted = "session_started"
	KindTranscript     = "transcript"
	KindSessionEnded   = "session_ended"
)

// Event is the JSON payload published for every recorded session event.
type Event struct {
	Kind      string    `json:"kind"`
	SessionID string    `json:"session_id"`
	Provider  string    `json:"provider"`
	Text      string    `json:"text,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher fans session events out on NATS. Transcripts go to
// <subject>.<provider>; session lifecycle events to <subject>.<provider>.sessions.
type Publisher struct {
	conn    *nats.Conn
	subject string
	log     *zap.Logger
	clock   func() time.Time
}

// Connect dials the configured NATS servers.
func Connect(cfg config.BusConfig, logger *zap.Logger) (*Publisher, error) {
	if len(cfg.Servers) == 0 {
		return nil, errors.New("no NATS servers configured")
	}

	options := []nats.Option{
		nats.Name("asr-relay"),
		nats.Timeout(cfg.ConnectTimeout()),
	}
	if cfg.Token != "" {
		options = append(options, nats.Token(cfg.Token))
	}

	url := strings.Join(cfg.Servers, ",")
	conn, err := nats.Connect(url, options...)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	log := logger.With(zap.String("component", "bus"))
	log.Info("connected to NATS", zap.String("servers", url))

	return &Publisher{
		conn:    conn,
		subject: cfg.Subject,
		log:     log,
		clock:   time.Now,
	}, nil
}

// Close drains pending publishes and closes the connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.log.Info("closing NATS connection")
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}

func (p *Publisher) publish(subject string, ev Event) error {
	ev.Timestamp = p.clock().UTC()
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

func (p *Publisher) transcriptSubject(provider string) string {
	return p.subject + "." + provider
}

func (p *Publisher) sessionSubject(provider string) string {
	return p.subject + "." + provider + ".sessions"
}

func (p *Publisher) SessionStarted(_ context.Context, sessionID, provider string) error {
	return p.publish(p.sessionSubject(provider), Event{
		Kind:      KindSessionStarted,
		SessionID: sessionID,
		Provider:  provider,
	})
}

func (p *Publisher) Transcript(_ context.Context, sessionID, provider, text string) error {
	return p.publish(p.transcriptSubject(provider), Event{
		Kind:      KindTranscript,
		SessionID: sessionID,
		Provider:  provider,
		Text:      text,
	})
}

func (p *Publisher) SessionEnded(_ context.Context, sessionID, provider, reason string) error {
	return p.publish(p.sessionSubject(provider), Event{
		Kind:      KindSessionEnded,
		SessionID: sessionID,
		Provider:  provider,
		Reason:    reason,
	})
}
