package asr_relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/agnivade/asr_relay/internal/telemetry"
	"github.com/agnivade/asr_relay/providers"
)

const (
	writeWait     = 10 * time.Second
	recordTimeout = 2 * time.Second

	defaultTerminateTimeout = 5 * time.Second
)

// Reasons a session ended, as reported to metrics and recorders. Failures
// use the providers.Kind name.
const (
	reasonNormal           = "normal"
	reasonTerminateTimeout = "terminate_timeout"
	reasonShutdown         = "shutdown"
)

// clientConn is the subset of *websocket.Conn used by the relay.
type clientConn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Recorder receives session lifecycle events and final transcripts.
// Failures are logged and never affect the session.
type Recorder interface {
	SessionStarted(ctx context.Context, sessionID, provider string) error
	Transcript(ctx context.Context, sessionID, provider, text string) error
	SessionEnded(ctx context.Context, sessionID, provider, reason string) error
}

type uplinkResult int

const (
	// uplinkStopped: the relay closed the client connection itself.
	uplinkStopped uplinkResult = iota
	uplinkDisconnected
	uplinkTerminated
	uplinkFailed
)

// Relay pairs one client connection with one backend session. It runs the
// uplink (client to backend) and downlink (backend to client) pumps and
// releases both connections exactly once.
type Relay struct {
	id       string
	provider providers.Provider
	config   providers.SessionConfig
	client   clientConn
	session  providers.Session

	log              *zap.Logger
	metrics          *telemetry.Metrics
	recorders        []Recorder
	terminateTimeout time.Duration

	mu    sync.Mutex
	state State

	// writeMu serializes client writes with the transition to CLOSED, so
	// nothing is written once the session is closed.
	writeMu    sync.Mutex
	clientGone atomic.Bool
	errOnce    sync.Once
	closeOnce  sync.Once
	started    bool
}

type relayParams struct {
	id               string
	provider         providers.Provider
	config           providers.SessionConfig
	client           clientConn
	log              *zap.Logger
	metrics          *telemetry.Metrics
	recorders        []Recorder
	terminateTimeout time.Duration
}

func newRelay(p relayParams) *Relay {
	if p.terminateTimeout <= 0 {
		p.terminateTimeout = defaultTerminateTimeout
	}
	return &Relay{
		id:               p.id,
		provider:         p.provider,
		config:           p.config,
		client:           p.client,
		log:              p.log.With(zap.String("session_id", p.id), zap.String("provider", p.provider.Name())),
		metrics:          p.metrics,
		recorders:        p.recorders,
		terminateTimeout: p.terminateTimeout,
		state:            StateConnecting,
	}
}

// State returns the current session state.
func (r *Relay) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Relay) transition(next State) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.state.canTransition(next) {
		return false
	}
	r.log.Debug("state transition", zap.Stringer("from", r.state), zap.Stringer("to", next))
	r.state = next
	return true
}

func (r *Relay) markClosed() {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	r.transition(StateClosed)
}

// Run connects to the backend and relays until the session ends. It returns
// once both connections are released and both pumps have exited.
func (r *Relay) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	r.metrics.SessionStarted(ctx, r.provider.Name())

	session, err := r.provider.Connect(ctx, r.config)
	if err != nil {
		r.log.Error("backend connect failed", zap.Error(err))
		r.sendError(providers.ErrorMessage(fmt.Sprintf("Failed to connect to %s: %s",
			r.provider.DisplayName(), describe(err))))
		r.teardown(ctx, providers.KindConnect.String())
		return
	}
	r.session = session
	r.transition(StateActive)
	r.started = true
	r.record(ctx, func(ctx context.Context, rec Recorder) error {
		return rec.SessionStarted(ctx, r.id, r.provider.Name())
	})
	r.log.Info("session started")

	r.send(providers.StatusMessage("Connected to " + r.provider.DisplayName()))

	upDone := make(chan uplinkResult, 1)
	downDone := make(chan string, 1)
	go func() { upDone <- r.uplink() }()
	go func() { downDone <- r.downlink(ctx) }()

	var (
		reason     string
		upExited   bool
		downExited bool
	)
	select {
	case res := <-upDone:
		upExited = true
		switch res {
		case uplinkTerminated:
			timer := time.NewTimer(r.terminateTimeout)
			select {
			case reason = <-downDone:
				downExited = true
			case <-timer.C:
				r.log.Warn("backend did not end the stream in time, closing",
					zap.Duration("timeout", r.terminateTimeout))
				reason = reasonTerminateTimeout
			case <-ctx.Done():
				reason = reasonShutdown
			}
			timer.Stop()
		case uplinkDisconnected:
			reason = providers.KindClientDisconnect.String()
		default:
			reason = providers.KindBackend.String()
		}
	case reason = <-downDone:
		downExited = true
	case <-ctx.Done():
		reason = reasonShutdown
	}

	r.teardown(ctx, reason)
	cancel()
	if !upExited {
		<-upDone
	}
	if !downExited {
		<-downDone
	}
}

// uplink forwards client frames until the client goes away, a terminate
// signal is processed, or forwarding fails.
func (r *Relay) uplink() uplinkResult {
	for {
		messageType, data, err := r.client.ReadMessage()
		if err != nil {
			if r.State() == StateClosed {
				return uplinkStopped
			}
			r.clientGone.Store(true)
			r.markClosed()
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				r.log.Info("client disconnected", zap.Error(err))
			} else {
				r.log.Info("client disconnected")
			}
			return uplinkDisconnected
		}

		switch messageType {
		case websocket.BinaryMessage:
			if r.State() != StateActive {
				continue
			}
			if err := r.session.SendAudio(data); err != nil {
				r.log.Error("forwarding audio failed", zap.Error(err))
				r.sendError(r.backendErrorMessage(err))
				return uplinkFailed
			}
			r.metrics.AudioForwarded(context.Background(), r.provider.Name(), len(data))

		case websocket.TextMessage:
			if _, err := parseControlSignal(data); err != nil {
				r.log.Warn("invalid control message", zap.Error(err))
				r.send(providers.ErrorMessage("invalid control message: " + describe(err)))
				continue
			}
			if !r.transition(StateTerminating) {
				// The backend already ended the stream.
				return uplinkTerminated
			}
			r.log.Debug("terminate requested by client")
			if err := r.session.SendTerminate(); err != nil {
				r.log.Error("sending terminate failed", zap.Error(err))
				r.sendError(r.backendErrorMessage(err))
				return uplinkFailed
			}
			return uplinkTerminated
		}
	}
}

// downlink forwards normalized backend events until the backend ends its
// stream or fails. It returns the reason the session should end with.
func (r *Relay) downlink(ctx context.Context) string {
	for {
		ev, err := r.session.NextEvent(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				r.transition(StateTerminating)
				r.log.Debug("backend stream ended")
				return reasonNormal
			}
			if ctx.Err() != nil || r.State() == StateClosed {
				return reasonShutdown
			}
			r.log.Error("backend stream failed", zap.Error(err))
			r.sendError(r.backendErrorMessage(err))
			return providers.KindOf(err).String()
		}

		msg, ok := r.provider.Normalize(ev)
		if !ok {
			continue
		}
		if msg.Type == providers.TypeError {
			r.log.Error("backend reported an error", zap.String("message", msg.Message))
			r.sendError(msg)
			return providers.KindBackend.String()
		}
		if !r.send(msg) {
			continue
		}
		if msg.Type == providers.TypeTranscript && msg.IsFinal && msg.Text != "" {
			r.record(ctx, func(ctx context.Context, rec Recorder) error {
				return rec.Transcript(ctx, r.id, r.provider.Name(), msg.Text)
			})
		}
	}
}

// send writes msg to the client unless the session is already closed.
func (r *Relay) send(msg providers.Message) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		r.log.Error("marshal message", zap.Error(err))
		return false
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	if r.State() == StateClosed {
		return false
	}
	if err := r.client.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		r.log.Debug("setting write deadline", zap.Error(err))
	}
	if err := r.client.WriteMessage(websocket.TextMessage, data); err != nil {
		r.log.Debug("client write failed", zap.Error(err))
		return false
	}
	r.metrics.MessageSent(context.Background(), r.provider.Name(), string(msg.Type))
	return true
}

// sendError writes the single terminal error message of the session.
func (r *Relay) sendError(msg providers.Message) {
	r.errOnce.Do(func() {
		r.send(msg)
	})
}

func (r *Relay) backendErrorMessage(err error) providers.Message {
	return providers.ErrorMessage(fmt.Sprintf("%s error: %s", r.provider.DisplayName(), describe(err)))
}

// teardown closes the backend session and the client connection once.
func (r *Relay) teardown(ctx context.Context, reason string) {
	r.closeOnce.Do(func() {
		r.writeMu.Lock()
		r.transition(StateClosed)
		if !r.clientGone.Load() {
			code := websocket.CloseNormalClosure
			switch reason {
			case reasonNormal, reasonTerminateTimeout:
			case reasonShutdown:
				code = websocket.CloseGoingAway
			default:
				code = websocket.CloseInternalServerErr
			}
			if err := r.client.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(code, ""), time.Now().Add(time.Second)); err != nil {
				r.log.Debug("writing close frame", zap.Error(err))
			}
		}
		r.writeMu.Unlock()

		if r.session != nil {
			if err := r.session.Close(); err != nil {
				r.log.Warn("closing backend session", zap.Error(err))
			}
		}
		if err := r.client.Close(); err != nil {
			r.log.Debug("closing client connection", zap.Error(err))
		}

		r.metrics.SessionClosed(context.WithoutCancel(ctx), r.provider.Name(), reason)
		if r.started {
			r.record(ctx, func(ctx context.Context, rec Recorder) error {
				return rec.SessionEnded(ctx, r.id, r.provider.Name(), reason)
			})
		}
		r.log.Info("session closed", zap.String("reason", reason))
	})
}

func (r *Relay) record(ctx context.Context, fn func(context.Context, Recorder) error) {
	if len(r.recorders) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	for _, rec := range r.recorders {
		if err := fn(ctx, rec); err != nil {
			r.log.Warn("recorder failed", zap.Error(err))
		}
	}
}

// describe returns the message of err without the provider prefix.
func describe(err error) string {
	var perr *providers.Error
	if errors.As(err, &perr) {
		return perr.Err.Error()
	}
	return err.Error()
}
