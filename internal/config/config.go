package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Environment variables holding backend credentials. Credentials are never
// read from the config file.
const (
	EnvAssemblyAIKey = "ASSEMBLYAI_API_KEY"
	EnvDeepgramKey   = "DEEPGRAM_API_KEY"
	EnvBusToken      = "ASR_RELAY_BUS_TOKEN"
)

type HTTPConfig struct {
	Addr                string `yaml:"addr"`
	ReadHeaderTimeoutMS int    `yaml:"read_header_timeout_ms"`
	IdleTimeoutMS       int    `yaml:"idle_timeout_ms"`
	ShutdownTimeoutMS   int    `yaml:"shutdown_timeout_ms"`
}

type AudioConfig struct {
	SampleRate     int    `yaml:"sample_rate"`
	Channels       int    `yaml:"channels"`
	Language       string `yaml:"language"`
	InterimResults bool   `yaml:"interim_results"`
}

type SessionConfig struct {
	// TerminateTimeoutMS bounds the wait for the backend to end its stream
	// after a terminate signal.
	TerminateTimeoutMS int `yaml:"terminate_timeout_ms"`
	// QueueSize is the capacity of the callback delivery queue.
	QueueSize int `yaml:"queue_size"`
}

type AssemblyAIConfig struct {
	Enabled            bool   `yaml:"enabled"`
	APIKey             string `yaml:"-"`
	Endpoint           string `yaml:"endpoint"`
	FormatTurns        bool   `yaml:"format_turns"`
	HandshakeTimeoutMS int    `yaml:"handshake_timeout_ms"`
}

type DeepgramConfig struct {
	Enabled bool   `yaml:"enabled"`
	APIKey  string `yaml:"-"`
	Model   string `yaml:"model"`
	Host    string `yaml:"host"` // empty for Deepgram's hosted API
}

// GoogleConfig enables the Google backend. Credentials come from Application
// Default Credentials.
type GoogleConfig struct {
	Enabled bool `yaml:"enabled"`
}

type TelemetryConfig struct {
	LogLevel    string `yaml:"log_level"`
	MetricsPath string `yaml:"metrics_path"`
}

// JournalConfig configures the SQLite transcript journal. An empty path
// disables it.
type JournalConfig struct {
	Path string `yaml:"path"`
}

// BusConfig configures NATS publishing of transcripts. No servers disables it.
type BusConfig struct {
	Servers          []string `yaml:"servers"`
	Subject          string   `yaml:"subject"`
	Token            string   `yaml:"-"`
	ConnectTimeoutMS int      `yaml:"connect_timeout_ms"`
}

type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Audio      AudioConfig      `yaml:"audio"`
	Session    SessionConfig    `yaml:"session"`
	AssemblyAI AssemblyAIConfig `yaml:"assemblyai"`
	Deepgram   DeepgramConfig   `yaml:"deepgram"`
	Google     GoogleConfig     `yaml:"google"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Journal    JournalConfig    `yaml:"journal"`
	Bus        BusConfig        `yaml:"bus"`
}

func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:                ":8081",
			ReadHeaderTimeoutMS: 10000,
			IdleTimeoutMS:       60000,
			ShutdownTimeoutMS:   30000,
		},
		Audio: AudioConfig{
			SampleRate:     16000,
			Channels:       1,
			Language:       "en-US",
			InterimResults: true,
		},
		Session: SessionConfig{
			TerminateTimeoutMS: 5000,
			QueueSize:          64,
		},
		AssemblyAI: AssemblyAIConfig{
			Enabled:            true,
			Endpoint:           "wss://streaming.assemblyai.com/v3/ws",
			FormatTurns:        true,
			HandshakeTimeoutMS: 10000,
		},
		Deepgram: DeepgramConfig{
			Enabled: true,
			Model:   "nova-2",
		},
		Google: GoogleConfig{
			Enabled: false,
		},
		Telemetry: TelemetryConfig{
			LogLevel:    "info",
			MetricsPath: "/metrics",
		},
		Bus: BusConfig{
			Subject:          "asr.transcripts",
			ConnectTimeoutMS: 2000,
		},
	}
}

// Load reads the optional YAML file at path on top of Default, then applies
// environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, fmt.Errorf("config file not found: %w", err)
			}
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.HTTP.Addr, "ASR_RELAY_HTTP_ADDR")
	overrideInt(&cfg.HTTP.ReadHeaderTimeoutMS, "ASR_RELAY_HTTP_READ_HEADER_TIMEOUT_MS")
	overrideInt(&cfg.HTTP.IdleTimeoutMS, "ASR_RELAY_HTTP_IDLE_TIMEOUT_MS")
	overrideInt(&cfg.HTTP.ShutdownTimeoutMS, "ASR_RELAY_HTTP_SHUTDOWN_TIMEOUT_MS")
	overrideInt(&cfg.Audio.SampleRate, "ASR_RELAY_AUDIO_SAMPLE_RATE")
	overrideInt(&cfg.Audio.Channels, "ASR_RELAY_AUDIO_CHANNELS")
	overrideString(&cfg.Audio.Language, "ASR_RELAY_AUDIO_LANGUAGE")
	overrideBool(&cfg.Audio.InterimResults, "ASR_RELAY_AUDIO_INTERIM_RESULTS")
	overrideInt(&cfg.Session.TerminateTimeoutMS, "ASR_RELAY_SESSION_TERMINATE_TIMEOUT_MS")
	overrideInt(&cfg.Session.QueueSize, "ASR_RELAY_SESSION_QUEUE_SIZE")
	overrideBool(&cfg.AssemblyAI.Enabled, "ASR_RELAY_ASSEMBLYAI_ENABLED")
	overrideString(&cfg.AssemblyAI.APIKey, EnvAssemblyAIKey)
	overrideString(&cfg.AssemblyAI.Endpoint, "ASR_RELAY_ASSEMBLYAI_ENDPOINT")
	overrideBool(&cfg.AssemblyAI.FormatTurns, "ASR_RELAY_ASSEMBLYAI_FORMAT_TURNS")
	overrideInt(&cfg.AssemblyAI.HandshakeTimeoutMS, "ASR_RELAY_ASSEMBLYAI_HANDSHAKE_TIMEOUT_MS")
	overrideBool(&cfg.Deepgram.Enabled, "ASR_RELAY_DEEPGRAM_ENABLED")
	overrideString(&cfg.Deepgram.APIKey, EnvDeepgramKey)
	overrideString(&cfg.Deepgram.Model, "ASR_RELAY_DEEPGRAM_MODEL")
	overrideString(&cfg.Deepgram.Host, "ASR_RELAY_DEEPGRAM_HOST")
	overrideBool(&cfg.Google.Enabled, "ASR_RELAY_GOOGLE_ENABLED")
	overrideString(&cfg.Telemetry.LogLevel, "ASR_RELAY_LOG_LEVEL")
	overrideString(&cfg.Telemetry.MetricsPath, "ASR_RELAY_METRICS_PATH")
	overrideString(&cfg.Journal.Path, "ASR_RELAY_JOURNAL_PATH")
	overrideStringSlice(&cfg.Bus.Servers, "ASR_RELAY_BUS_SERVERS")
	overrideString(&cfg.Bus.Subject, "ASR_RELAY_BUS_SUBJECT")
	overrideString(&cfg.Bus.Token, EnvBusToken)
	overrideInt(&cfg.Bus.ConnectTimeoutMS, "ASR_RELAY_BUS_CONNECT_TIMEOUT_MS")
}

func overrideString(target *string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		*target = strings.TrimSpace(value)
	}
}

func overrideInt(target *int, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

func overrideBool(target *bool, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			*target = parsed
		}
	}
}

func overrideStringSlice(target *[]string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		var trimmed []string
		for _, p := range strings.Split(value, ",") {
			if s := strings.TrimSpace(p); s != "" {
				trimmed = append(trimmed, s)
			}
		}
		if len(trimmed) > 0 {
			*target = trimmed
		}
	}
}

func validate(cfg Config) error {
	if cfg.HTTP.Addr == "" {
		return errors.New("http.addr must not be empty")
	}
	if cfg.HTTP.ShutdownTimeoutMS <= 0 {
		return errors.New("http.shutdown_timeout_ms must be positive")
	}
	if cfg.Audio.SampleRate <= 0 {
		return errors.New("audio.sample_rate must be positive")
	}
	if cfg.Audio.Channels <= 0 {
		return errors.New("audio.channels must be positive")
	}
	if cfg.Session.TerminateTimeoutMS <= 0 {
		return errors.New("session.terminate_timeout_ms must be positive")
	}
	if cfg.Session.QueueSize <= 0 {
		return errors.New("session.queue_size must be >= 1")
	}
	if !cfg.AssemblyAI.Enabled && !cfg.Deepgram.Enabled && !cfg.Google.Enabled {
		return errors.New("at least one provider must be enabled")
	}
	if cfg.AssemblyAI.Enabled {
		if cfg.AssemblyAI.APIKey == "" {
			return fmt.Errorf("assemblyai is enabled but %s is not set", EnvAssemblyAIKey)
		}
		if cfg.AssemblyAI.Endpoint == "" {
			return errors.New("assemblyai.endpoint must not be empty")
		}
	}
	if cfg.Deepgram.Enabled && cfg.Deepgram.APIKey == "" {
		return fmt.Errorf("deepgram is enabled but %s is not set", EnvDeepgramKey)
	}
	if _, err := zapcore.ParseLevel(cfg.Telemetry.LogLevel); err != nil {
		return fmt.Errorf("telemetry.log_level: %w", err)
	}
	if !strings.HasPrefix(cfg.Telemetry.MetricsPath, "/") {
		return errors.New("telemetry.metrics_path must start with /")
	}
	if len(cfg.Bus.Servers) > 0 && cfg.Bus.Subject == "" {
		return errors.New("bus.subject must not be empty when bus.servers is set")
	}
	return nil
}

// TerminateTimeout returns the bounded terminate wait as a duration.
func (c SessionConfig) TerminateTimeout() time.Duration {
	return time.Duration(c.TerminateTimeoutMS) * time.Millisecond
}

func (c HTTPConfig) ReadHeaderTimeout() time.Duration {
	return time.Duration(c.ReadHeaderTimeoutMS) * time.Millisecond
}

func (c HTTPConfig) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutMS) * time.Millisecond
}

func (c HTTPConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}

func (c AssemblyAIConfig) HandshakeTimeout() time.Duration {
	return time.Duration(c.HandshakeTimeoutMS) * time.Millisecond
}

func (c BusConfig) ConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutMS) * time.Millisecond
}
