package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the relay instruments.
type Metrics struct {
	sessionsStarted metric.Int64Counter
	sessionsActive  metric.Int64UpDownCounter
	sessionsClosed  metric.Int64Counter
	audioBytes      metric.Int64Counter
	messagesSent    metric.Int64Counter
}

// NewMetrics registers the relay instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var m Metrics
	var err, errs error

	m.sessionsStarted, err = meter.Int64Counter("asr_relay_sessions_started",
		metric.WithDescription("Client sessions accepted."))
	errs = errors.Join(errs, err)

	m.sessionsActive, err = meter.Int64UpDownCounter("asr_relay_sessions_active",
		metric.WithDescription("Client sessions currently open."))
	errs = errors.Join(errs, err)

	m.sessionsClosed, err = meter.Int64Counter("asr_relay_sessions_closed",
		metric.WithDescription("Client sessions closed, by reason."))
	errs = errors.Join(errs, err)

	m.audioBytes, err = meter.Int64Counter("asr_relay_audio_bytes",
		metric.WithDescription("Audio bytes forwarded to backends."),
		metric.WithUnit("By"))
	errs = errors.Join(errs, err)

	m.messagesSent, err = meter.Int64Counter("asr_relay_messages_sent",
		metric.WithDescription("Unified messages written to clients, by type."))
	errs = errors.Join(errs, err)

	if errs != nil {
		return nil, errs
	}
	return &m, nil
}

func providerAttr(provider string) attribute.KeyValue {
	return attribute.String("provider", provider)
}

func (m *Metrics) SessionStarted(ctx context.Context, provider string) {
	attrs := metric.WithAttributes(providerAttr(provider))
	m.sessionsStarted.Add(ctx, 1, attrs)
	m.sessionsActive.Add(ctx, 1, attrs)
}

// SessionClosed records the end of a session. reason is one of the error
// kinds, or "normal".
func (m *Metrics) SessionClosed(ctx context.Context, provider, reason string) {
	m.sessionsActive.Add(ctx, -1, metric.WithAttributes(providerAttr(provider)))
	m.sessionsClosed.Add(ctx, 1, metric.WithAttributes(
		providerAttr(provider),
		attribute.String("reason", reason),
	))
}

func (m *Metrics) AudioForwarded(ctx context.Context, provider string, n int) {
	m.audioBytes.Add(ctx, int64(n), metric.WithAttributes(providerAttr(provider)))
}

func (m *Metrics) MessageSent(ctx context.Context, provider, messageType string) {
	m.messagesSent.Add(ctx, 1, metric.WithAttributes(
		providerAttr(provider),
		attribute.String("type", messageType),
	))
}
