package google

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/cloud/speech/v1"
	rpcstatus "google.golang.org/genproto/googleapis/rpc/status"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/agnivade/asr_relay/providers"
)

func response(text string, final bool) *speech.StreamingRecognizeResponse {
	return &speech.StreamingRecognizeResponse{
		Results: []*speech.StreamingRecognitionResult{
			{
				IsFinal: final,
				Alternatives: []*speech.SpeechRecognitionAlternative{
					{
						Transcript: text,
						Confidence: 0.95,
					},
				},
			},
		},
	}
}

func TestSession_SendAudio(t *testing.T) {
	tests := []struct {
		name        string
		audioData   []byte
		setupMock   func(*mockstreamingRecognizeClient)
		expectedErr string
	}{
		{
			name:      "successful send",
			audioData: []byte("test audio data"),
			setupMock: func(m *mockstreamingRecognizeClient) {
				m.EXPECT().Send(mock.MatchedBy(func(req *speech.StreamingRecognizeRequest) bool {
					return string(req.GetAudioContent()) == "test audio data"
				})).Return(nil)
			},
		},
		{
			name:      "send error",
			audioData: []byte("test audio data"),
			setupMock: func(m *mockstreamingRecognizeClient) {
				m.EXPECT().Send(mock.AnythingOfType("*speechpb.StreamingRecognizeRequest")).Return(errors.New("send failed"))
			},
			expectedErr: "google: send failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStream := newMockstreamingRecognizeClient(t)
			tt.setupMock(mockStream)

			session := &Session{stream: mockStream}

			err := session.SendAudio(tt.audioData)

			if tt.expectedErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.expectedErr, err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSession_NextEvent(t *testing.T) {
	tests := []struct {
		name        string
		setupMock   func(*mockstreamingRecognizeClient)
		expectEvent bool
		expectedErr error
		expectKind  providers.Kind
	}{
		{
			name: "response",
			setupMock: func(m *mockstreamingRecognizeClient) {
				m.EXPECT().Recv().Return(response("hello world", true), nil)
			},
			expectEvent: true,
		},
		{
			name: "io.EOF error",
			setupMock: func(m *mockstreamingRecognizeClient) {
				m.EXPECT().Recv().Return(nil, io.EOF)
			},
			expectedErr: io.EOF,
		},
		{
			name: "context canceled error",
			setupMock: func(m *mockstreamingRecognizeClient) {
				m.EXPECT().Recv().Return(nil, status.Error(codes.Canceled, "context canceled"))
			},
			expectedErr: io.EOF,
		},
		{
			name: "other grpc error",
			setupMock: func(m *mockstreamingRecognizeClient) {
				m.EXPECT().Recv().Return(nil, status.Error(codes.Unauthenticated, "bad credentials"))
			},
			expectKind: providers.KindBackend,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStream := newMockstreamingRecognizeClient(t)
			tt.setupMock(mockStream)

			session := &Session{stream: mockStream}

			ev, err := session.NextEvent(context.Background())

			switch {
			case tt.expectEvent:
				require.NoError(t, err)
				assert.NotNil(t, ev)
			case tt.expectedErr != nil:
				assert.ErrorIs(t, err, tt.expectedErr)
			default:
				require.Error(t, err)
				assert.Equal(t, tt.expectKind, providers.KindOf(err))
				assert.Equal(t, codes.Unauthenticated, status.Code(errors.Unwrap(err)))
			}
		})
	}
}

func TestSession_SendTerminate_Idempotent(t *testing.T) {
	mockStream := newMockstreamingRecognizeClient(t)
	mockStream.EXPECT().CloseSend().Return(nil).Once()

	session := &Session{stream: mockStream}
	assert.NoError(t, session.SendTerminate())
	assert.NoError(t, session.SendTerminate())
}

func TestSession_CloseCancelsWithoutHalfClose(t *testing.T) {
	mockStream := newMockstreamingRecognizeClient(t)

	cancelled := 0
	session := &Session{
		stream: mockStream,
		cancel: func() { cancelled++ },
	}

	assert.NoError(t, session.Close())
	assert.NoError(t, session.Close())
	assert.Equal(t, 1, cancelled)
	mockStream.AssertNotCalled(t, "CloseSend")
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		event      providers.Event
		expectSent bool
		expected   providers.Message
	}{
		{
			name:       "final result",
			event:      response("hello world", true),
			expectSent: true,
			expected:   providers.TranscriptMessage("hello world", true),
		},
		{
			name:       "interim result",
			event:      response("hello", false),
			expectSent: true,
			expected:   providers.TranscriptMessage("hello", false),
		},
		{
			name:       "blank transcript",
			event:      response("  ", true),
			expectSent: false,
		},
		{
			name:       "no results",
			event:      &speech.StreamingRecognizeResponse{},
			expectSent: false,
		},
		{
			name: "empty alternatives",
			event: &speech.StreamingRecognizeResponse{
				Results: []*speech.StreamingRecognitionResult{{IsFinal: true}},
			},
			expectSent: false,
		},
		{
			name: "error status",
			event: &speech.StreamingRecognizeResponse{
				Error: &rpcstatus.Status{Code: int32(codes.ResourceExhausted), Message: "quota exceeded"},
			},
			expectSent: true,
			expected:   providers.ErrorMessage("Google error: quota exceeded"),
		},
		{
			name:       "foreign event",
			event:      "not a response",
			expectSent: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, ok := Normalize(tt.event)
			assert.Equal(t, tt.expectSent, ok)
			if tt.expectSent {
				assert.Equal(t, tt.expected, msg)
			}
		})
	}
}
