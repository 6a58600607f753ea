package bridge

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dialmate-ai/dialmate/pkg/agent/analytics"
	"github.com/dialmate-ai/dialmate/pkg/agent/catalog"
	"github.com/dialmate-ai/dialmate/pkg/agent/intent"
	"github.com/dialmate-ai/dialmate/pkg/agent/session"
	"github.com/dialmate-ai/dialmate/pkg/agent/sim"
	"github.com/dialmate-ai/dialmate/pkg/agent/store"
	"github.com/dialmate-ai/dialmate/pkg/agent/tools"
	livesessions "github.com/dialmate-ai/dialmate/pkg/gateway/live/sessions"
)

type fakeModel struct {
	mu            sync.Mutex
	texts         []string
	audio         [][]byte
	toolResponses []string

	events    chan ModelEvent
	closeOnce sync.Once
}

func newFakeModel() *fakeModel {
	return &fakeModel{events: make(chan ModelEvent, 16)}
}

func (f *fakeModel) SendText(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeModel) SendAudio(pcm []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.audio = append(f.audio, append([]byte(nil), pcm...))
	return nil
}

func (f *fakeModel) SendToolResponse(callID, name, result string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toolResponses = append(f.toolResponses, callID+"|"+name+"|"+result)
	return nil
}

func (f *fakeModel) Events() <-chan ModelEvent { return f.events }

func (f *fakeModel) Close() error {
	f.closeOnce.Do(func() { close(f.events) })
	return nil
}

func (f *fakeModel) sentTexts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.texts...)
}

func (f *fakeModel) sentAudio() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.audio)
}

func (f *fakeModel) sentToolResponses() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.toolResponses...)
}

type fakeDialer struct {
	model ModelSession
}

func (d fakeDialer) Dial(context.Context) (ModelSession, error) { return d.model, nil }

type bridgeEnv struct {
	sessions  *session.Manager
	analytics *analytics.Tracker
	model     *fakeModel
	conn      *websocket.Conn
}

func newBridgeEnv(t *testing.T, cfg Config, dialer ModelDialer) *bridgeEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := session.NewManager()
	cat := catalog.New()
	tracker := analytics.NewTracker(nil)
	registry := tools.NewRegistry(tools.Deps{
		Catalog:   cat,
		Sessions:  sessions,
		Carts:     store.NewMemoryCarts(),
		Requests:  store.NewMemoryRequests(),
		Analytics: tracker,
		Rand:      sim.NewSeeded(1),
		Logger:    logger,
	})

	b := New(cfg, Deps{
		Dialer:    dialer,
		Sessions:  sessions,
		Intents:   intent.NewClassifier(sessions),
		Strategy:  intent.NewSelector(sessions, cat),
		Tools:     registry,
		Analytics: tracker,
		Tracker:   livesessions.NewTracker(),
		Logger:    logger,
	})

	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	env := &bridgeEnv{sessions: sessions, analytics: tracker, conn: conn}
	if fd, ok := dialer.(fakeDialer); ok {
		env.model, _ = fd.model.(*fakeModel)
	}
	return env
}

func (e *bridgeEnv) sendJSON(t *testing.T, v string) {
	t.Helper()
	if err := e.conn.WriteMessage(websocket.TextMessage, []byte(v)); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// readFrame returns the next JSON frame of the wanted type, failing on any
// frame type not in skip.
func (e *bridgeEnv) readFrame(t *testing.T, want string, skip ...string) map[string]any {
	t.Helper()
	skippable := make(map[string]bool, len(skip))
	for _, s := range skip {
		skippable[s] = true
	}

	_ = e.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		_, raw, err := e.conn.ReadMessage()
		if err != nil {
			t.Fatalf("read while waiting for %q: %v", want, err)
		}
		var frame map[string]any
		if err := json.Unmarshal(raw, &frame); err != nil {
			t.Fatalf("bad frame %q: %v", raw, err)
		}
		typ, _ := frame["type"].(string)
		if typ == want {
			return frame
		}
		if !skippable[typ] {
			t.Fatalf("expected %q, got %q: %v", want, typ, frame)
		}
	}
}

func TestBridgeHelloStartsConversation(t *testing.T) {
	env := newBridgeEnv(t, Config{}, fakeDialer{model: newFakeModel()})

	env.sendJSON(t, `{"type":"hello","session_id":"s1","channel":"phone","citizen_id":"CIT002"}`)
	frame := env.readFrame(t, "session_started")

	if frame["session_id"] != "s1" || frame["channel"] != "phone" {
		t.Fatalf("unexpected session_started: %v", frame)
	}
	if id, _ := frame["conversation_id"].(string); !strings.HasPrefix(id, "conv_") {
		t.Fatalf("conversation_id = %v", frame["conversation_id"])
	}

	sess := env.sessions.GetOrCreate("s1")
	if sess.CitizenID != "CIT002" || sess.Channel != "phone" {
		t.Fatalf("session not bound: %+v", sess)
	}
	if env.analytics.Snapshot().TotalConversations != 1 {
		t.Fatalf("conversation not tracked")
	}
}

func TestBridgeTextTurn(t *testing.T) {
	model := newFakeModel()
	env := newBridgeEnv(t, Config{}, fakeDialer{model: model})

	env.sendJSON(t, `{"type":"hello","session_id":"s1"}`)
	env.readFrame(t, "session_started")

	env.sendJSON(t, `{"type":"text_turn","text":"track my pending delivery"}`)

	frame := env.readFrame(t, "intent")
	if frame["primary"] != "post_service" {
		t.Fatalf("unexpected intent: %v", frame)
	}
	frame = env.readFrame(t, "transcript")
	if frame["role"] != "user" || frame["text"] != "track my pending delivery" {
		t.Fatalf("unexpected transcript: %v", frame)
	}

	// The utterance is forwarded to the model verbatim.
	deadline := time.Now().Add(2 * time.Second)
	for len(model.sentTexts()) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("model never received the turn")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := model.sentTexts()[0]; got != "track my pending delivery" {
		t.Fatalf("model got %q", got)
	}
}

func TestBridgeAssistantReply(t *testing.T) {
	model := newFakeModel()
	env := newBridgeEnv(t, Config{}, fakeDialer{model: model})

	env.sendJSON(t, `{"type":"hello","session_id":"s1"}`)
	env.readFrame(t, "session_started")

	model.events <- ModelEvent{AssistantText: "Your request "}
	model.events <- ModelEvent{AssistantText: "is approved.", TurnComplete: true}

	var final map[string]any
	for i := 0; i < 3; i++ {
		frame := env.readFrame(t, "transcript")
		if frame["final"] == true {
			final = frame
			break
		}
	}
	if final == nil {
		t.Fatalf("no final transcript")
	}
	if final["role"] != "assistant" || final["text"] != "Your request is approved." {
		t.Fatalf("unexpected final transcript: %v", final)
	}

	history := env.sessions.GetOrCreate("s1").History
	last := history[len(history)-1]
	if last.Role != "assistant" || last.Message != "Your request is approved." {
		t.Fatalf("assistant turn not recorded: %+v", last)
	}
}

func TestBridgeToolCallRoundTrip(t *testing.T) {
	model := newFakeModel()
	env := newBridgeEnv(t, Config{}, fakeDialer{model: model})

	env.sendJSON(t, `{"type":"hello","session_id":"s1"}`)
	env.readFrame(t, "session_started")

	model.events <- ModelEvent{ToolCalls: []ModelToolCall{
		{ID: "t1", Name: "get_session_context", Args: map[string]any{"session_id": "s1"}},
	}}

	frame := env.readFrame(t, "tool_call")
	if frame["name"] != "get_session_context" || frame["call_id"] != "t1" {
		t.Fatalf("unexpected tool_call: %v", frame)
	}

	frame = env.readFrame(t, "tool_result")
	text, _ := frame["text"].(string)
	if !strings.Contains(text, "Citizen CIT001") {
		t.Fatalf("unexpected tool_result: %v", frame)
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(model.sentToolResponses()) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("tool response never reached the model")
		}
		time.Sleep(5 * time.Millisecond)
	}
	resp := model.sentToolResponses()[0]
	if !strings.HasPrefix(resp, "t1|get_session_context|") {
		t.Fatalf("unexpected tool response: %q", resp)
	}
}

func TestBridgeForwardsAudio(t *testing.T) {
	model := newFakeModel()
	env := newBridgeEnv(t, Config{MaxAudioFrameBytes: 1024}, fakeDialer{model: model})

	env.sendJSON(t, `{"type":"hello","session_id":"s1"}`)
	env.readFrame(t, "session_started")

	if err := env.conn.WriteMessage(websocket.BinaryMessage, []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("write audio: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for model.sentAudio() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("audio never reached the model")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestBridgeRejectsOversizedAudio(t *testing.T) {
	env := newBridgeEnv(t, Config{MaxAudioFrameBytes: 4}, fakeDialer{model: newFakeModel()})

	env.sendJSON(t, `{"type":"hello","session_id":"s1"}`)
	env.readFrame(t, "session_started")

	if err := env.conn.WriteMessage(websocket.BinaryMessage, make([]byte, 64)); err != nil {
		t.Fatalf("write audio: %v", err)
	}

	frame := env.readFrame(t, "error")
	if frame["code"] != "audio_frame_too_large" || frame["fatal"] != true {
		t.Fatalf("unexpected error frame: %v", frame)
	}
}

func TestBridgeByeSendsGoodbye(t *testing.T) {
	env := newBridgeEnv(t, Config{}, fakeDialer{model: newFakeModel()})

	env.sendJSON(t, `{"type":"hello","session_id":"s1"}`)
	env.readFrame(t, "session_started")

	env.sendJSON(t, `{"type":"rate","rating":5}`)
	env.sendJSON(t, `{"type":"bye"}`)

	frame := env.readFrame(t, "goodbye")
	msg, _ := frame["message"].(string)
	if !strings.Contains(msg, "anything else I can help") {
		t.Fatalf("unexpected goodbye: %v", frame)
	}

	// The rating arrived before the bye and must be recorded.
	if got := env.analytics.Snapshot().AvgSatisfaction; got != 5 {
		t.Fatalf("satisfaction = %v", got)
	}
}

func TestBridgeFirstFrameMustBeHello(t *testing.T) {
	env := newBridgeEnv(t, Config{}, fakeDialer{model: newFakeModel()})

	env.sendJSON(t, `{"type":"text_turn","text":"hi"}`)
	frame := env.readFrame(t, "error")
	if frame["code"] != "bad_hello" || frame["fatal"] != true {
		t.Fatalf("unexpected error frame: %v", frame)
	}
}

func TestBridgeWithoutDialer(t *testing.T) {
	env := newBridgeEnv(t, Config{}, nil)

	env.sendJSON(t, `{"type":"hello","session_id":"s1"}`)
	frame := env.readFrame(t, "error")
	if frame["code"] != "model_unavailable" {
		t.Fatalf("unexpected error frame: %v", frame)
	}
}
