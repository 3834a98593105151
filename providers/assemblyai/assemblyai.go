package assemblyai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/agnivade/asr_relay/providers"
)

const (
	providerName = "assemblyai"
	displayName  = "AssemblyAI"

	// DefaultEndpoint is the AssemblyAI universal streaming endpoint.
	DefaultEndpoint = "wss://streaming.assemblyai.com/v3/ws"
)

// Event types sent by the streaming API.
const (
	EventBegin       = "Begin"
	EventTurn        = "Turn"
	EventTermination = "Termination"
)

var terminateMessage = []byte(`{"type":"Terminate"}`)

// Event is a single AssemblyAI streaming event. Fields not relevant to the
// event type are left zero.
type Event struct {
	Type string `json:"type"`

	// Begin
	ID        string `json:"id,omitempty"`
	ExpiresAt int64  `json:"expires_at,omitempty"`

	// Turn
	TurnOrder       int    `json:"turn_order,omitempty"`
	Transcript      string `json:"transcript,omitempty"`
	EndOfTurn       bool   `json:"end_of_turn,omitempty"`
	TurnIsFormatted bool   `json:"turn_is_formatted,omitempty"`

	// Termination
	AudioDurationSeconds   float64 `json:"audio_duration_seconds,omitempty"`
	SessionDurationSeconds float64 `json:"session_duration_seconds,omitempty"`

	// Error is set instead of Type when the server reports a failure.
	Error string `json:"error,omitempty"`
}

// wsConn is a local interface that wraps the methods we need
// from *websocket.Conn to enable easier testing
type wsConn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	SetReadDeadline(t time.Time) error
	Close() error
}

// Options configures the AssemblyAI provider.
type Options struct {
	// APIKey is the AssemblyAI credential. It must come from the environment.
	APIKey string
	// Endpoint overrides DefaultEndpoint.
	Endpoint string
	// FormatTurns asks the service to punctuate and format final turns.
	FormatTurns bool
	// HandshakeTimeout bounds the websocket handshake.
	HandshakeTimeout time.Duration
}

// Provider implements the providers.Provider interface for AssemblyAI's
// streaming API. Events arrive as sequential websocket text messages.
type Provider struct {
	opts Options
	log  *zap.Logger
}

// NewProvider creates a new AssemblyAI provider.
func NewProvider(opts Options, logger *zap.Logger) *Provider {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.HandshakeTimeout <= 0 {
		opts.HandshakeTimeout = 10 * time.Second
	}
	return &Provider{
		opts: opts,
		log:  logger.With(zap.String("provider", providerName)),
	}
}

// Name returns the name of the provider.
func (p *Provider) Name() string {
	return providerName
}

// DisplayName returns the human readable provider name.
func (p *Provider) DisplayName() string {
	return displayName
}

func (p *Provider) streamURL(config providers.SessionConfig) (string, error) {
	u, err := url.Parse(p.opts.Endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("sample_rate", strconv.Itoa(config.SampleRate))
	q.Set("encoding", "pcm_s16le")
	q.Set("format_turns", strconv.FormatBool(p.opts.FormatTurns))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Connect dials the AssemblyAI streaming websocket.
func (p *Provider) Connect(ctx context.Context, config providers.SessionConfig) (providers.Session, error) {
	streamURL, err := p.streamURL(config)
	if err != nil {
		return nil, providers.ConnectError(providerName, err)
	}

	header := http.Header{}
	header.Set("Authorization", p.opts.APIKey)

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: p.opts.HandshakeTimeout,
	}
	conn, resp, err := dialer.DialContext(ctx, streamURL, header)
	if err != nil {
		if resp != nil {
			err = fmt.Errorf("%w (status %s)", err, resp.Status)
		}
		return nil, providers.ConnectError(providerName, err)
	}

	p.log.Debug("connected to assemblyai")
	return &Session{conn: conn}, nil
}

// Normalize maps an AssemblyAI event into a unified message.
func (p *Provider) Normalize(event providers.Event) (providers.Message, bool) {
	return Normalize(event, p.opts.FormatTurns)
}

// Normalize maps an AssemblyAI event into a unified message. Every event
// shape yields exactly one message. With formatTurns set, a turn is final
// once its formatted text arrives; otherwise at the end of the turn.
func Normalize(event providers.Event, formatTurns bool) (providers.Message, bool) {
	ev, ok := event.(*Event)
	if !ok || ev == nil {
		return providers.Message{}, false
	}

	if ev.Error != "" {
		return providers.ErrorMessage("AssemblyAI error: " + ev.Error), true
	}

	switch ev.Type {
	case EventTurn:
		final := ev.EndOfTurn
		if formatTurns {
			final = ev.TurnIsFormatted
		}
		return providers.TranscriptMessage(ev.Transcript, final), true
	case EventBegin:
		return providers.StatusMessage(fmt.Sprintf("AssemblyAI session %s started", ev.ID)), true
	case EventTermination:
		return providers.StatusMessage(fmt.Sprintf("AssemblyAI session terminated after %.1fs of audio",
			ev.AudioDurationSeconds)), true
	default:
		return providers.StatusMessage("AssemblyAI event: " + ev.Type), true
	}
}

// Session implements the providers.Session interface for AssemblyAI.
type Session struct {
	conn wsConn

	// mu serializes writes; gorilla allows a single concurrent writer.
	mu            sync.Mutex
	terminateOnce sync.Once
	terminateErr  error

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// SendAudio sends audio data as a binary websocket frame.
func (s *Session) SendAudio(audioData []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.WriteMessage(websocket.BinaryMessage, audioData); err != nil {
		return providers.BackendError(providerName, err)
	}
	return nil
}

// SendTerminate sends the Terminate control message. AssemblyAI answers with
// a Termination event and closes the stream.
func (s *Session) SendTerminate() error {
	s.terminateOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if err := s.conn.WriteMessage(websocket.TextMessage, terminateMessage); err != nil {
			s.terminateErr = providers.BackendError(providerName, err)
		}
	})
	return s.terminateErr
}

// NextEvent reads the next event from the websocket.
func (s *Session) NextEvent(ctx context.Context) (providers.Event, error) {
	stop := context.AfterFunc(ctx, func() {
		s.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	for {
		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, s.readError(err)
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, providers.BackendError(providerName, fmt.Errorf("decode event: %w", err))
		}
		return &ev, nil
	}
}

func (s *Session) readError(err error) error {
	if s.closed.Load() || errors.Is(err, io.EOF) ||
		websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		return io.EOF
	}
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		return providers.BackendError(providerName,
			fmt.Errorf("stream closed with code %d: %s", closeErr.Code, closeErr.Text))
	}
	return providers.BackendError(providerName, err)
}

// Close closes the websocket connection.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.closeErr = s.conn.Close()
	})
	return s.closeErr
}
