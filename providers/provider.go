package providers

import (
	"context"
)

// Provider connects to one streaming speech-recognition backend and knows how
// to translate that backend's events into the unified client schema.
// AssemblyAI, Deepgram and Google each implement this interface; the relay
// never sees anything backend specific.
type Provider interface {
	// Name returns the route name of the provider (e.g. "deepgram").
	Name() string

	// DisplayName returns the human readable name used in status messages.
	DisplayName() string

	// Connect opens a new backend connection with the given configuration.
	// The context bounds the lifetime of the connection, not just the dial.
	// Failures are returned as *Error with KindConnect.
	Connect(ctx context.Context, config SessionConfig) (Session, error)

	// Normalize maps a backend-native event, as returned by Session.NextEvent,
	// into a Message. The second return value is false when the event is
	// intentionally suppressed. Normalize must be free of side effects.
	Normalize(event Event) (Message, bool)
}

// Session is a single live backend connection owned by exactly one relay.
type Session interface {
	// SendAudio forwards raw audio bytes unmodified.
	// Audio data should match the format specified in SessionConfig.
	SendAudio(audioData []byte) error

	// SendTerminate emits the backend-specific end-of-audio signal.
	// Calling it more than once has no additional effect.
	SendTerminate() error

	// NextEvent blocks until the backend produces its next event.
	// It returns io.EOF once the backend has ended the stream.
	// Cancelling ctx or calling Close interrupts the wait.
	NextEvent(ctx context.Context) (Event, error)

	// Close releases the backend connection. It is idempotent and may be
	// called concurrently with NextEvent.
	Close() error
}

// Event is a backend-native event. Only the Provider that produced it can
// interpret it, through Normalize.
type Event interface{}

// SessionConfig holds provider-agnostic configuration for backend sessions.
type SessionConfig struct {
	// SampleRate is the audio sample rate in Hz (e.g., 16000)
	SampleRate int

	// Channels is the number of interleaved audio channels.
	Channels int

	// LanguageCode specifies the language for transcription (e.g., "en-US")
	LanguageCode string

	// InterimResults indicates whether to return interim (non-final) results
	InterimResults bool
}
