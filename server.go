package asr_relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"

	"github.com/agnivade/asr_relay/internal/telemetry"
	"github.com/agnivade/asr_relay/providers"
)

// Options configures a Server. Zero values fall back to defaults.
type Options struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration

	// Session is passed to every backend connection.
	Session providers.SessionConfig
	// TerminateTimeout bounds the wait for the backend after a terminate.
	TerminateTimeout time.Duration

	Logger  *zap.Logger
	Metrics *telemetry.Metrics
	// MetricsHandler, when set, is mounted at MetricsPath.
	MetricsHandler http.Handler
	MetricsPath    string
	Recorders      []Recorder
}

type Server struct {
	srv       *http.Server
	log       *zap.Logger
	providers map[string]providers.Provider
	opts      Options
	upgrader  websocket.Upgrader

	baseCtx  context.Context
	cancel   context.CancelFunc
	sessions sync.WaitGroup
}

func New(opts Options, provs ...providers.Provider) *Server {
	if opts.Addr == "" {
		opts.Addr = ":8081"
	}
	if opts.ReadHeaderTimeout <= 0 {
		opts.ReadHeaderTimeout = 10 * time.Second
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 60 * time.Second
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 30 * time.Second
	}
	if opts.Session.SampleRate == 0 {
		opts.Session = providers.SessionConfig{SampleRate: 16000, Channels: 1, LanguageCode: "en-US", InterimResults: true}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Metrics == nil {
		// Instruments on a noop meter never fail to register.
		opts.Metrics, _ = telemetry.NewMetrics(noop.NewMeterProvider().Meter(""))
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}

	baseCtx, cancel := context.WithCancel(context.Background())
	server := &Server{
		log:       opts.Logger,
		providers: make(map[string]providers.Provider, len(provs)),
		opts:      opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  8192,
			WriteBufferSize: 8192,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		baseCtx: baseCtx,
		cancel:  cancel,
	}
	for _, p := range provs {
		server.providers[p.Name()] = p
	}

	server.srv = &http.Server{
		Addr:              opts.Addr,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		IdleTimeout:       opts.IdleTimeout,
		Handler:           server.routes(),
	}
	return server
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleInfo)
	r.Get("/stream/{provider}", s.handleStream)
	r.Get("/ws/{provider}", s.handleStream)
	if s.opts.MetricsHandler != nil {
		r.Method(http.MethodGet, s.opts.MetricsPath, s.opts.MetricsHandler)
	}
	return r
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

type providerInfo struct {
	Name   string `json:"name"`
	Stream string `json:"stream"`
	Alias  string `json:"alias"`
}

type audioInfo struct {
	Encoding   string `json:"encoding"`
	SampleRate int    `json:"sample_rate"`
	Channels   int    `json:"channels"`
}

type serviceInfo struct {
	Message   string                  `json:"message"`
	Endpoints map[string]providerInfo `json:"endpoints"`
	Audio     audioInfo               `json:"audio"`
	Control   []ControlSignal         `json:"control"`
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	info := serviceInfo{
		Message:   "ASR relay server",
		Endpoints: make(map[string]providerInfo, len(s.providers)),
		Audio: audioInfo{
			Encoding:   "pcm_s16le",
			SampleRate: s.opts.Session.SampleRate,
			Channels:   s.opts.Session.Channels,
		},
		Control: []ControlSignal{{Type: ControlTerminate}},
	}
	for _, name := range s.providerNames() {
		info.Endpoints[name] = providerInfo{
			Name:   s.providers[name].DisplayName(),
			Stream: "/stream/" + name,
			Alias:  "/ws/" + name,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(info); err != nil {
		s.log.Warn("writing info response", zap.Error(err))
	}
}

func (s *Server) providerNames() []string {
	names := make([]string, 0, len(s.providers))
	for name := range s.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Server) Start() error {
	s.log.Info("starting server",
		zap.String("addr", s.srv.Addr),
		zap.Strings("providers", s.providerNames()))

	err := s.srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop stops accepting connections, ends live sessions and waits for them to
// release their connections.
func (s *Server) Stop() error {
	s.log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()

	err := s.srv.Shutdown(ctx)
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.sessions.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.log.Warn("sessions still open after shutdown timeout")
		if err == nil {
			err = ctx.Err()
		}
	}
	return err
}
