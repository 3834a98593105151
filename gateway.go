package asr_relay

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// handleStream resolves the provider from the route, upgrades the connection
// and runs a relay for it until the session closes.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "provider")
	provider, ok := s.providers[name]
	if !ok {
		http.Error(w, fmt.Sprintf("unknown provider %q", name), http.StatusNotFound)
		return
	}

	// Stop may already have started draining.
	if s.baseCtx.Err() != nil {
		http.Error(w, "server is shutting down", http.StatusServiceUnavailable)
		return
	}
	s.sessions.Add(1)
	defer s.sessions.Done()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	relay := newRelay(relayParams{
		id:               uuid.NewString(),
		provider:         provider,
		config:           s.opts.Session,
		client:           conn,
		log:              s.log.With(zap.String("request_id", middleware.GetReqID(r.Context()))),
		metrics:          s.opts.Metrics,
		recorders:        s.opts.Recorders,
		terminateTimeout: s.opts.TerminateTimeout,
	})
	relay.Run(s.baseCtx)
}
