package providers

import (
	"encoding/json"
	"fmt"
)

// MessageType discriminates the unified messages sent to clients.
type MessageType string

const (
	TypeStatus     MessageType = "status"
	TypeTranscript MessageType = "transcript"
	TypeError      MessageType = "error"
)

// Message is the only shape ever written to a client.
// Text and IsFinal are meaningful only for transcripts, Message only for
// status and error messages; MarshalJSON emits exactly those fields.
type Message struct {
	Type    MessageType `json:"type"`
	Text    string      `json:"text,omitempty"`
	IsFinal bool        `json:"is_final,omitempty"`
	Message string      `json:"message,omitempty"`
}

// StatusMessage returns a status message.
func StatusMessage(text string) Message {
	return Message{Type: TypeStatus, Message: text}
}

// TranscriptMessage returns a transcript message.
func TranscriptMessage(text string, isFinal bool) Message {
	return Message{Type: TypeTranscript, Text: text, IsFinal: isFinal}
}

// ErrorMessage returns an error message. An empty description is replaced so
// that the message field is always present.
func ErrorMessage(description string) Message {
	if description == "" {
		description = "unknown error"
	}
	return Message{Type: TypeError, Message: description}
}

type transcriptWire struct {
	Type    MessageType `json:"type"`
	Text    string      `json:"text"`
	IsFinal bool        `json:"is_final"`
}

type noticeWire struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
}

// MarshalJSON implements json.Marshaler.
func (m Message) MarshalJSON() ([]byte, error) {
	switch m.Type {
	case TypeTranscript:
		return json.Marshal(transcriptWire{Type: m.Type, Text: m.Text, IsFinal: m.IsFinal})
	case TypeStatus, TypeError:
		return json.Marshal(noticeWire{Type: m.Type, Message: m.Message})
	default:
		return nil, fmt.Errorf("unknown message type %q", m.Type)
	}
}
