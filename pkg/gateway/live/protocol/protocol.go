// Package protocol defines the /v1/live WebSocket wire frames. Text frames
// carry JSON control messages; binary frames carry raw PCM16 caller audio.
package protocol

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	ProtocolVersion1 = "1"

	TypeHello         = "hello"
	TypeTextTurn      = "text_turn"
	TypeSwitchChannel = "switch_channel"
	TypeRate          = "rate"
	TypeBye           = "bye"

	TypeSessionStarted = "session_started"
	TypeTranscript     = "transcript"
	TypeAssistantText  = "assistant_text"
	TypeAudio          = "audio"
	TypeToolCall       = "tool_call"
	TypeToolResult     = "tool_result"
	TypeIntent         = "intent"
	TypeWarning        = "warning"
	TypeError          = "error"
	TypeGoodbye        = "goodbye"
)

type DecodeError struct {
	Code    string
	Message string
	Param   string
}

func (e *DecodeError) Error() string {
	if e == nil {
		return ""
	}
	if strings.TrimSpace(e.Param) == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Param)
}

func badRequest(message, param string) *DecodeError {
	return &DecodeError{Code: "bad_request", Message: message, Param: param}
}

// ClientHello opens a conversation. SessionID binds the connection to the
// omnichannel session; reconnecting with the same id resumes its state.
type ClientHello struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	SessionID       string `json:"session_id"`
	Channel         string `json:"channel,omitempty"`
	CitizenID       string `json:"citizen_id,omitempty"`
}

// ClientTextTurn carries one typed utterance, the text-channel stand-in for
// caller audio.
type ClientTextTurn struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ClientSwitchChannel moves the live session to a different channel without
// dropping state.
type ClientSwitchChannel struct {
	Type    string `json:"type"`
	Channel string `json:"channel"`
}

// ClientRate records a 1-5 satisfaction rating.
type ClientRate struct {
	Type   string `json:"type"`
	Rating int    `json:"rating"`
}

// ClientBye ends the conversation cleanly.
type ClientBye struct {
	Type string `json:"type"`
}

// ClientMessage is the decoded union of client JSON frames; exactly one
// field is non-nil.
type ClientMessage struct {
	Hello         *ClientHello
	TextTurn      *ClientTextTurn
	SwitchChannel *ClientSwitchChannel
	Rate          *ClientRate
	Bye           *ClientBye
}

// DecodeClientMessage decodes one text frame.
func DecodeClientMessage(raw []byte) (ClientMessage, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return ClientMessage{}, badRequest("invalid JSON frame", "")
	}

	switch probe.Type {
	case TypeHello:
		var m ClientHello
		if err := json.Unmarshal(raw, &m); err != nil {
			return ClientMessage{}, badRequest("invalid hello frame", "")
		}
		if strings.TrimSpace(m.SessionID) == "" {
			return ClientMessage{}, badRequest("session_id is required", "session_id")
		}
		if m.ProtocolVersion != "" && m.ProtocolVersion != ProtocolVersion1 {
			return ClientMessage{}, badRequest("unsupported protocol_version", "protocol_version")
		}
		return ClientMessage{Hello: &m}, nil
	case TypeTextTurn:
		var m ClientTextTurn
		if err := json.Unmarshal(raw, &m); err != nil {
			return ClientMessage{}, badRequest("invalid text_turn frame", "")
		}
		if strings.TrimSpace(m.Text) == "" {
			return ClientMessage{}, badRequest("text is required", "text")
		}
		return ClientMessage{TextTurn: &m}, nil
	case TypeSwitchChannel:
		var m ClientSwitchChannel
		if err := json.Unmarshal(raw, &m); err != nil {
			return ClientMessage{}, badRequest("invalid switch_channel frame", "")
		}
		if strings.TrimSpace(m.Channel) == "" {
			return ClientMessage{}, badRequest("channel is required", "channel")
		}
		return ClientMessage{SwitchChannel: &m}, nil
	case TypeRate:
		var m ClientRate
		if err := json.Unmarshal(raw, &m); err != nil {
			return ClientMessage{}, badRequest("invalid rate frame", "")
		}
		return ClientMessage{Rate: &m}, nil
	case TypeBye:
		return ClientMessage{Bye: &ClientBye{Type: TypeBye}}, nil
	default:
		return ClientMessage{}, badRequest(fmt.Sprintf("unknown frame type %q", probe.Type), "type")
	}
}

// Server frames.

type ServerSessionStarted struct {
	Type           string `json:"type"`
	SessionID      string `json:"session_id"`
	ConversationID string `json:"conversation_id"`
	Channel        string `json:"channel"`
}

type ServerTranscript struct {
	Type  string `json:"type"`
	Role  string `json:"role"`
	Text  string `json:"text"`
	Final bool   `json:"final"`
}

type ServerAudio struct {
	Type string `json:"type"`
	// Data is base64-encoded PCM16 model audio.
	Data string `json:"data"`
}

type ServerToolCall struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	CallID string `json:"call_id"`
}

type ServerToolResult struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	CallID string `json:"call_id"`
	Text   string `json:"text"`
}

type ServerIntent struct {
	Type     string   `json:"type"`
	Primary  string   `json:"primary"`
	Agents   []string `json:"agents_needed"`
	Strategy string   `json:"strategy"`
}

type ServerError struct {
	Type    string `json:"type"`
	Scope   string `json:"scope"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Fatal   bool   `json:"fatal"`
}

type ServerWarning struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ServerGoodbye struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}
