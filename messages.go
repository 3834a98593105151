package asr_relay

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/agnivade/asr_relay/providers"
)

// ControlTerminate asks the relay to flush the backend and end the session.
const ControlTerminate = "terminate"

// ControlSignal is a client text frame. Only {"type":"terminate"} is defined.
type ControlSignal struct {
	Type string `json:"type"`
}

// parseControlSignal decodes a client text frame. Unparseable frames and
// unknown types are reported as KindMalformedControl errors.
func parseControlSignal(data []byte) (ControlSignal, error) {
	var sig ControlSignal
	if err := json.Unmarshal(data, &sig); err != nil {
		return sig, &providers.Error{Kind: providers.KindMalformedControl, Err: fmt.Errorf("decode: %w", err)}
	}
	switch sig.Type {
	case ControlTerminate:
		return sig, nil
	case "":
		return sig, &providers.Error{Kind: providers.KindMalformedControl, Err: errors.New("missing type")}
	default:
		return sig, &providers.Error{Kind: providers.KindMalformedControl, Err: fmt.Errorf("unknown type %q", sig.Type)}
	}
}
