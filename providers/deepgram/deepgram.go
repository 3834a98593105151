package deepgram

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http/httptrace"
	"strings"
	"sync"

	api "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/websocket/interfaces"
	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	client "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/listen"
	"go.uber.org/zap"

	"github.com/agnivade/asr_relay/providers"
)

const (
	providerName = "deepgram"
	displayName  = "Deepgram"
	defaultModel = "nova-2"
)

// dgStream is a local interface that wraps the methods we need
// from listenv1ws.WSCallback to enable easier testing
type dgStream interface {
	io.Writer
	WriteJSON(payload interface{}) error
	Stop()
}

// closeStream asks Deepgram to flush pending results and close the socket.
type closeStream struct {
	Type string `json:"type"`
}

// sdkInit guards the SDK's global logger setup, which registers command
// line flags and panics when run twice.
var sdkInit sync.Once

// callbackHandler implements api.LiveMessageCallback. The SDK invokes it from
// its own read goroutine; every event the relay cares about is handed over
// through the session queue, nothing else is touched here.
type callbackHandler struct {
	queue *providers.Queue
	log   *zap.Logger
}

func (h *callbackHandler) Open(or *api.OpenResponse) error {
	h.log.Debug("deepgram stream opened")
	return nil
}

func (h *callbackHandler) Message(mr *api.MessageResponse) error {
	h.queue.Push(mr)
	return nil
}

func (h *callbackHandler) Metadata(md *api.MetadataResponse) error {
	return nil
}

func (h *callbackHandler) SpeechStarted(ssr *api.SpeechStartedResponse) error {
	return nil
}

func (h *callbackHandler) UtteranceEnd(ur *api.UtteranceEndResponse) error {
	return nil
}

func (h *callbackHandler) Close(cr *api.CloseResponse) error {
	h.log.Debug("deepgram stream closed")
	h.queue.Finish()
	return nil
}

func (h *callbackHandler) Error(er *api.ErrorResponse) error {
	h.queue.Push(er)
	return nil
}

func (h *callbackHandler) UnhandledEvent(byData []byte) error {
	h.log.Debug("unhandled deepgram event", zap.ByteString("event", byData))
	return nil
}

// Options configures the Deepgram provider.
type Options struct {
	// APIKey is the Deepgram credential. It must come from the environment.
	APIKey string
	// Host overrides the Deepgram API host, e.g. for self-hosted deployments.
	Host string
	// Model is the Deepgram model name. Defaults to nova-2.
	Model string
	// QueueSize bounds the per-session event queue.
	QueueSize int
}

// Provider implements the providers.Provider interface for Deepgram's live
// transcription API. Deepgram delivers events through SDK callbacks.
type Provider struct {
	opts Options
	log  *zap.Logger
}

// NewProvider creates a new Deepgram provider.
func NewProvider(opts Options, logger *zap.Logger) *Provider {
	sdkInit.Do(client.InitWithDefault)

	if opts.Model == "" {
		opts.Model = defaultModel
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

// Connect opens a Deepgram live transcription websocket.
func (p *Provider) Connect(ctx context.Context, config providers.SessionConfig) (providers.Session, error) {
	cOptions := &interfaces.ClientOptions{
		APIKey:          p.opts.APIKey,
		Host:            p.opts.Host,
		EnableKeepAlive: true,
	}

	tOptions := &interfaces.LiveTranscriptionOptions{
		Model:          p.opts.Model,
		Language:       config.LanguageCode,
		Punctuate:      true,
		Encoding:       "linear16",
		Channels:       config.Channels,
		SampleRate:     config.SampleRate,
		InterimResults: config.InterimResults,
	}

	queue := providers.NewQueue(p.opts.QueueSize)
	handler := &callbackHandler{queue: queue, log: p.log}
	session := &Session{queue: queue, log: p.log}

	// The SDK only closes its socket through the CloseStream handshake, so
	// keep hold of the raw connection to be able to drop it silently.
	sessCtx, cancel := context.WithCancel(ctx)
	sessCtx = httptrace.WithClientTrace(sessCtx, &httptrace.ClientTrace{
		GotConn: func(info httptrace.GotConnInfo) {
			session.setConn(info.Conn)
		},
	})
	session.cancel = cancel

	dgClient, err := client.NewWSUsingCallbackWithCancel(sessCtx, cancel, "", cOptions, tOptions, handler)
	if err != nil {
		cancel()
		return nil, providers.ConnectError(providerName, err)
	}

	if success := dgClient.Connect(); !success {
		cancel()
		return nil, providers.ConnectError(providerName, errors.New("failed to connect to deepgram"))
	}

	session.client = dgClient
	return session, nil
}

// Normalize maps a Deepgram event into a unified message.
func (p *Provider) Normalize(event providers.Event) (providers.Message, bool) {
	return Normalize(event)
}

// Normalize maps a Deepgram event into a unified message. Results whose first
// alternative is blank are suppressed.
func Normalize(event providers.Event) (providers.Message, bool) {
	switch ev := event.(type) {
	case *api.MessageResponse:
		if ev == nil || len(ev.Channel.Alternatives) == 0 {
			return providers.Message{}, false
		}
		text := strings.TrimSpace(ev.Channel.Alternatives[0].Transcript)
		if text == "" {
			return providers.Message{}, false
		}
		return providers.TranscriptMessage(text, ev.IsFinal), true
	case *api.ErrorResponse:
		if ev == nil {
			return providers.ErrorMessage(""), true
		}
		description := ev.Description
		if description == "" {
			description = ev.Type
		}
		return providers.ErrorMessage("Deepgram error: " + description), true
	default:
		return providers.Message{}, false
	}
}

// Session implements the providers.Session interface for Deepgram.
type Session struct {
	client dgStream
	queue  *providers.Queue
	log    *zap.Logger
	cancel context.CancelFunc

	mu         sync.Mutex
	conn       net.Conn
	terminated bool

	terminateOnce sync.Once
	terminateErr  error
	closeOnce     sync.Once
}

func (s *Session) setConn(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn = conn
}

// SendAudio sends audio data to the Deepgram stream.
func (s *Session) SendAudio(audioData []byte) error {
	if _, err := s.client.Write(audioData); err != nil {
		return providers.BackendError(providerName, err)
	}
	return nil
}

// SendTerminate sends CloseStream. Deepgram answers with the remaining
// results and then closes the socket, which ends the event stream.
func (s *Session) SendTerminate() error {
	s.terminateOnce.Do(func() {
		s.mu.Lock()
		s.terminated = true
		s.mu.Unlock()
		if err := s.client.WriteJSON(closeStream{Type: "CloseStream"}); err != nil {
			s.terminateErr = providers.BackendError(providerName, err)
		}
	})
	return s.terminateErr
}

// NextEvent returns the next event delivered by the SDK callbacks.
func (s *Session) NextEvent(ctx context.Context) (providers.Event, error) {
	return s.queue.Next(ctx)
}

// Close releases the queue and the Deepgram connection. After SendTerminate
// the SDK finishes the close handshake; otherwise the socket is dropped
// without sending anything more to Deepgram.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		// The SDK may still be inside a callback; closing the queue
		// unblocks any pending Push before the client is stopped.
		s.queue.Close()

		s.mu.Lock()
		terminated, conn := s.terminated, s.conn
		s.mu.Unlock()

		if terminated {
			if s.client != nil {
				s.client.Stop()
			}
			return
		}

		// Cancelling first makes every later SDK write fail before it
		// reaches the socket.
		if s.cancel != nil {
			s.cancel()
		}
		if conn != nil {
			if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
				s.log.Debug("closing deepgram connection", zap.Error(err))
			}
		}
	})
	return nil
}
