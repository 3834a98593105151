package google

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/agnivade/asr_relay/providers"
)

const (
	providerName = "google"
	displayName  = "Google Speech"
)

// streamingRecognizeClient is a local interface that wraps the methods we need
// from speechpb.Speech_StreamingRecognizeClient to enable easier testing
type streamingRecognizeClient interface {
	Send(*speechpb.StreamingRecognizeRequest) error
	Recv() (*speechpb.StreamingRecognizeResponse, error)
	CloseSend() error
}

// Provider implements the providers.Provider interface for Google Speech-to-Text API.
// Responses are pulled from a gRPC stream.
type Provider struct {
	client *speech.Client
	log    *zap.Logger
}

// NewProvider creates a new Google Speech provider with the given client.
func NewProvider(client *speech.Client, logger *zap.Logger) *Provider {
	return &Provider{
		client: client,
		log:    logger.With(zap.String("provider", providerName)),
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

// Connect opens a StreamingRecognize stream and sends the initial configuration.
func (p *Provider) Connect(ctx context.Context, config providers.SessionConfig) (providers.Session, error) {
	streamCtx, cancel := context.WithCancel(ctx)
	stream, err := p.client.StreamingRecognize(streamCtx)
	if err != nil {
		cancel()
		return nil, providers.ConnectError(providerName, err)
	}

	req := &speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config: &speechpb.RecognitionConfig{
					Encoding:          speechpb.RecognitionConfig_LINEAR16,
					SampleRateHertz:   int32(config.SampleRate),
					AudioChannelCount: int32(config.Channels),
					LanguageCode:      config.LanguageCode,
				},
				InterimResults: config.InterimResults,
			},
		},
	}

	if err := stream.Send(req); err != nil {
		stream.CloseSend()
		cancel()
		return nil, providers.ConnectError(providerName, err)
	}

	return &Session{
		stream: stream,
		cancel: cancel,
	}, nil
}

// Normalize maps a Google response into a unified message.
func (p *Provider) Normalize(event providers.Event) (providers.Message, bool) {
	return Normalize(event)
}

// Normalize maps a StreamingRecognizeResponse into a unified message. Only the
// first result is considered; responses without transcript text are suppressed.
func Normalize(event providers.Event) (providers.Message, bool) {
	resp, ok := event.(*speechpb.StreamingRecognizeResponse)
	if !ok || resp == nil {
		return providers.Message{}, false
	}

	if resp.Error != nil {
		return providers.ErrorMessage("Google error: " + resp.Error.GetMessage()), true
	}

	if len(resp.Results) == 0 || len(resp.Results[0].Alternatives) == 0 {
		return providers.Message{}, false
	}

	result := resp.Results[0]
	text := strings.TrimSpace(result.Alternatives[0].Transcript)
	if text == "" {
		return providers.Message{}, false
	}
	return providers.TranscriptMessage(text, result.IsFinal), true
}

// Session implements the providers.Session interface for Google Speech-to-Text API.
type Session struct {
	stream streamingRecognizeClient
	cancel context.CancelFunc

	terminateOnce sync.Once
	terminateErr  error
	closeOnce     sync.Once
}

// SendAudio sends audio data to the Google Speech stream.
func (s *Session) SendAudio(audioData []byte) error {
	req := &speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{
			AudioContent: audioData,
		},
	}
	if err := s.stream.Send(req); err != nil {
		return providers.BackendError(providerName, err)
	}
	return nil
}

// SendTerminate half-closes the stream; Google flushes final results and
// then ends the response stream.
func (s *Session) SendTerminate() error {
	s.terminateOnce.Do(func() {
		if err := s.stream.CloseSend(); err != nil {
			s.terminateErr = providers.BackendError(providerName, err)
		}
	})
	return s.terminateErr
}

// NextEvent receives the next response from the Google Speech stream.
func (s *Session) NextEvent(ctx context.Context) (providers.Event, error) {
	stop := context.AfterFunc(ctx, s.cancelStream)
	defer stop()

	resp, err := s.stream.Recv()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, io.EOF) || status.Code(err) == codes.Canceled {
			return nil, io.EOF
		}
		return nil, providers.BackendError(providerName, err)
	}
	return resp, nil
}

func (s *Session) cancelStream() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Close cancels the Google Speech stream. It does not half-close it first, so
// no pending results are flushed.
func (s *Session) Close() error {
	s.closeOnce.Do(s.cancelStream)
	return nil
}
