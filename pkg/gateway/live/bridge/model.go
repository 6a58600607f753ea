package bridge

import "context"

// ModelToolCall is a function call requested by the model.
type ModelToolCall struct {
	ID   string
	Name string
	Args map[string]any
}

// ModelEvent is one unit of model output. Fields are sparse; consumers check
// what is set.
type ModelEvent struct {
	// UserTranscript is the recognized caller speech, when the model session
	// transcribes inbound audio.
	UserTranscript string

	// AssistantText is a chunk of the assistant reply transcript.
	AssistantText string

	// Audio is a chunk of PCM16 model speech.
	Audio []byte

	ToolCalls []ModelToolCall

	TurnComplete bool
	Interrupted  bool

	// Err terminates the session; no further events follow.
	Err error
}

// ModelSession is one live model conversation. Events closes after the
// session ends or fails.
type ModelSession interface {
	SendText(text string) error
	SendAudio(pcm []byte) error
	SendToolResponse(callID, name, result string) error
	Events() <-chan ModelEvent
	Close() error
}

// ModelDialer opens model sessions. The Gemini dialer is the production
// implementation; tests substitute a scripted one.
type ModelDialer interface {
	Dial(ctx context.Context) (ModelSession, error)
}
