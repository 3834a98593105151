package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	relay "github.com/agnivade/asr_relay"
	"github.com/agnivade/asr_relay/internal/bus"
	"github.com/agnivade/asr_relay/internal/config"
	"github.com/agnivade/asr_relay/internal/journal"
	"github.com/agnivade/asr_relay/internal/telemetry"
	"github.com/agnivade/asr_relay/providers"
	"github.com/agnivade/asr_relay/providers/assemblyai"
	"github.com/agnivade/asr_relay/providers/deepgram"
	"github.com/agnivade/asr_relay/providers/google"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file (optional)")
	flag.Parse()

	// A missing .env is fine; credentials may come from the real environment.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		zap.NewExample().Fatal("loading config", zap.Error(err))
	}

	logger, err := newLogger(cfg.Telemetry.LogLevel)
	if err != nil {
		zap.NewExample().Fatal("creating logger", zap.Error(err))
	}
	defer logger.Sync()

	tel, err := telemetry.Setup()
	if err != nil {
		logger.Fatal("setting up telemetry", zap.Error(err))
	}
	metrics, err := telemetry.NewMetrics(tel.Meter())
	if err != nil {
		logger.Fatal("creating metrics", zap.Error(err))
	}

	var recorders []relay.Recorder
	if cfg.Journal.Path != "" {
		store, err := journal.Open(context.Background(), cfg.Journal.Path, logger)
		if err != nil {
			logger.Fatal("opening journal", zap.Error(err))
		}
		defer store.Close()
		recorders = append(recorders, store)
	}
	if len(cfg.Bus.Servers) > 0 {
		publisher, err := bus.Connect(cfg.Bus, logger)
		if err != nil {
			logger.Fatal("connecting to bus", zap.Error(err))
		}
		defer publisher.Close()
		recorders = append(recorders, publisher)
	}

	var provs []providers.Provider
	if cfg.AssemblyAI.Enabled {
		provs = append(provs, assemblyai.NewProvider(assemblyai.Options{
			APIKey:           cfg.AssemblyAI.APIKey,
			Endpoint:         cfg.AssemblyAI.Endpoint,
			FormatTurns:      cfg.AssemblyAI.FormatTurns,
			HandshakeTimeout: cfg.AssemblyAI.HandshakeTimeout(),
		}, logger))
	}
	if cfg.Deepgram.Enabled {
		provs = append(provs, deepgram.NewProvider(deepgram.Options{
			APIKey:    cfg.Deepgram.APIKey,
			Host:      cfg.Deepgram.Host,
			Model:     cfg.Deepgram.Model,
			QueueSize: cfg.Session.QueueSize,
		}, logger))
	}
	if cfg.Google.Enabled {
		// Credentials come from GOOGLE_APPLICATION_CREDENTIALS.
		speechClient, err := speech.NewClient(context.Background())
		if err != nil {
			logger.Fatal("creating speech client", zap.Error(err))
		}
		defer speechClient.Close()
		provs = append(provs, google.NewProvider(speechClient, logger))
	}

	s := relay.New(relay.Options{
		Addr:              cfg.HTTP.Addr,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout(),
		IdleTimeout:       cfg.HTTP.IdleTimeout(),
		ShutdownTimeout:   cfg.HTTP.ShutdownTimeout(),
		Session: providers.SessionConfig{
			SampleRate:     cfg.Audio.SampleRate,
			Channels:       cfg.Audio.Channels,
			LanguageCode:   cfg.Audio.Language,
			InterimResults: cfg.Audio.InterimResults,
		},
		TerminateTimeout: cfg.Session.TerminateTimeout(),
		Logger:           logger,
		Metrics:          metrics,
		MetricsHandler:   tel.Handler(),
		MetricsPath:      cfg.Telemetry.MetricsPath,
		Recorders:        recorders,
	}, provs...)

	go func() {
		if err := s.Start(); err != nil {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	if err := s.Stop(); err != nil {
		logger.Error("error during server shutdown", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := tel.Shutdown(ctx); err != nil {
		logger.Warn("shutting down telemetry", zap.Error(err))
	}
	logger.Info("server exited")
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
