package providers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_MarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		msg      Message
		expected string
	}{
		{
			name:     "final transcript",
			msg:      TranscriptMessage("hello world", true),
			expected: `{"type":"transcript","text":"hello world","is_final":true}`,
		},
		{
			name:     "interim transcript keeps is_final",
			msg:      TranscriptMessage("hello", false),
			expected: `{"type":"transcript","text":"hello","is_final":false}`,
		},
		{
			name:     "status",
			msg:      StatusMessage("Connected to Deepgram"),
			expected: `{"type":"status","message":"Connected to Deepgram"}`,
		},
		{
			name:     "error",
			msg:      ErrorMessage("boom"),
			expected: `{"type":"error","message":"boom"}`,
		},
		{
			name:     "error without description",
			msg:      ErrorMessage(""),
			expected: `{"type":"error","message":"unknown error"}`,
		},
		{
			name:     "status ignores transcript fields",
			msg:      Message{Type: TypeStatus, Message: "ok", Text: "leak", IsFinal: true},
			expected: `{"type":"status","message":"ok"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.msg)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(data))
		})
	}
}

func TestMessage_MarshalJSON_UnknownType(t *testing.T) {
	_, err := json.Marshal(Message{Type: "Turn"})
	assert.Error(t, err)
}

func TestKindOf(t *testing.T) {
	connectErr := ConnectError("assemblyai", errors.New("401 Unauthorized"))
	assert.Equal(t, KindConnect, KindOf(connectErr))
	assert.Equal(t, KindConnect, KindOf(fmt.Errorf("wrapped: %w", connectErr)))
	assert.Equal(t, KindBackend, KindOf(BackendError("deepgram", io.ErrUnexpectedEOF)))
	assert.Equal(t, KindBackend, KindOf(errors.New("plain")))

	assert.Equal(t, "assemblyai: 401 Unauthorized", connectErr.Error())
	assert.ErrorIs(t, BackendError("deepgram", io.ErrUnexpectedEOF), io.ErrUnexpectedEOF)
	assert.Equal(t, "connect", KindConnect.String())
	assert.Equal(t, "malformed_control", KindMalformedControl.String())
}
