// Package bridge pumps one /v1/live WebSocket against a live model session.
// The caller side speaks the protocol package frames; the model side is a
// ModelSession, so tests can script it and production can dial Gemini.
package bridge

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dialmate-ai/dialmate/pkg/agent/analytics"
	"github.com/dialmate-ai/dialmate/pkg/agent/intent"
	"github.com/dialmate-ai/dialmate/pkg/agent/session"
	"github.com/dialmate-ai/dialmate/pkg/agent/tools"
	"github.com/dialmate-ai/dialmate/pkg/gateway/live/protocol"
	livesessions "github.com/dialmate-ai/dialmate/pkg/gateway/live/sessions"
)

type Config struct {
	MaxJSONMessageBytes int64
	MaxAudioFrameBytes  int
	HandshakeTimeout    time.Duration
	WriteTimeout        time.Duration
	PingInterval        time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxJSONMessageBytes <= 0 {
		c.MaxJSONMessageBytes = 64 * 1024
	}
	if c.MaxAudioFrameBytes <= 0 {
		c.MaxAudioFrameBytes = 8192
	}
	if c.HandshakeTimeout <= 0 {
		c.HandshakeTimeout = 5 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 5 * time.Second
	}
	if c.PingInterval <= 0 {
		c.PingInterval = 20 * time.Second
	}
	return c
}

type Deps struct {
	Dialer    ModelDialer
	Sessions  *session.Manager
	Intents   *intent.Classifier
	Strategy  *intent.Selector
	Tools     *tools.Registry
	Analytics *analytics.Tracker
	Tracker   *livesessions.Tracker
	Logger    *slog.Logger
}

type Bridge struct {
	cfg      Config
	deps     Deps
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func New(cfg Config, deps Deps) *Bridge {
	cfg = cfg.withDefaults()
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{
		cfg:    cfg,
		deps:   deps,
		logger: logger,
		upgrader: websocket.Upgrader{
			HandshakeTimeout: cfg.HandshakeTimeout,
			ReadBufferSize:   4096,
			WriteBufferSize:  4096,
			// Browser origins are filtered by the CORS middleware; the
			// upgrade itself accepts any origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		b.logger.Warn("live upgrade failed", "err", err)
		return
	}
	b.run(r.Context(), conn)
}

func (b *Bridge) run(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()
	conn.SetReadLimit(b.cfg.MaxJSONMessageBytes)

	out := &frameWriter{conn: conn, timeout: b.cfg.WriteTimeout}

	hello, err := b.readHello(conn)
	if err != nil {
		_ = out.sendJSON(protocol.ServerError{
			Type: protocol.TypeError, Scope: "client", Code: "bad_hello",
			Message: err.Error(), Fatal: true,
		})
		return
	}

	sessionID := hello.SessionID
	sess := b.deps.Sessions.GetOrCreate(sessionID)
	if hello.CitizenID != "" {
		b.deps.Sessions.BindCitizen(sessionID, hello.CitizenID)
	}
	if hello.Channel != "" && hello.Channel != sess.Channel {
		sess = b.deps.Sessions.SwitchChannel(sessionID, hello.Channel)
	}

	conversationID := "conv_" + uuid.NewString()
	b.deps.Analytics.TrackConversationStart()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if b.deps.Dialer == nil {
		_ = out.sendJSON(protocol.ServerError{
			Type: protocol.TypeError, Scope: "model", Code: "model_unavailable",
			Message: "no live model is configured", Fatal: true,
		})
		return
	}
	model, err := b.deps.Dialer.Dial(ctx)
	if err != nil {
		b.logger.Error("model dial failed", "err", err, "conversation_id", conversationID)
		_ = out.sendJSON(protocol.ServerError{
			Type: protocol.TypeError, Scope: "model", Code: "model_unavailable",
			Message: "could not reach the live model", Fatal: true,
		})
		return
	}
	defer model.Close()

	unregister := b.deps.Tracker.Register(conversationID, livesessions.Handle{
		Channel: sess.Channel,
		Cancel:  cancel,
		Warn: func(code, message string) error {
			return out.sendJSON(protocol.ServerWarning{Type: protocol.TypeWarning, Code: code, Message: message})
		},
	})
	defer unregister()

	b.logger.Info("live conversation started",
		"conversation_id", conversationID, "session_id", sessionID, "channel", sess.Channel)

	_ = out.sendJSON(protocol.ServerSessionStarted{
		Type:           protocol.TypeSessionStarted,
		SessionID:      sessionID,
		ConversationID: conversationID,
		Channel:        sess.Channel,
	})

	go b.pingLoop(ctx, conn)
	go b.pumpModel(ctx, cancel, sessionID, model, out)

	b.readLoop(ctx, cancel, conn, sessionID, model, out)
	b.logger.Info("live conversation ended", "conversation_id", conversationID, "session_id", sessionID)
}

// readHello expects the first text frame to be a hello within the handshake
// window.
func (b *Bridge) readHello(conn *websocket.Conn) (*protocol.ClientHello, error) {
	_ = conn.SetReadDeadline(time.Now().Add(b.cfg.HandshakeTimeout))
	defer conn.SetReadDeadline(time.Time{})

	msgType, raw, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	if msgType != websocket.TextMessage {
		return nil, &protocol.DecodeError{Code: "bad_request", Message: "first frame must be a hello"}
	}
	msg, err := protocol.DecodeClientMessage(raw)
	if err != nil {
		return nil, err
	}
	if msg.Hello == nil {
		return nil, &protocol.DecodeError{Code: "bad_request", Message: "first frame must be a hello"}
	}
	return msg.Hello, nil
}

func (b *Bridge) readLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, sessionID string, model ModelSession, out *frameWriter) {
	defer cancel()

	for {
		if ctx.Err() != nil {
			return
		}
		msgType, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		switch msgType {
		case websocket.BinaryMessage:
			if len(raw) > b.cfg.MaxAudioFrameBytes {
				_ = out.sendJSON(protocol.ServerError{
					Type: protocol.TypeError, Scope: "client", Code: "audio_frame_too_large",
					Message: "audio frame exceeds the configured limit", Fatal: true,
				})
				return
			}
			if err := model.SendAudio(raw); err != nil {
				b.modelSendFailed(out, err)
				return
			}
		case websocket.TextMessage:
			msg, err := protocol.DecodeClientMessage(raw)
			if err != nil {
				_ = out.sendJSON(protocol.ServerError{
					Type: protocol.TypeError, Scope: "client", Code: "bad_request",
					Message: err.Error(),
				})
				continue
			}
			if done := b.handleClientMessage(ctx, msg, sessionID, model, out); done {
				return
			}
		}
	}
}

// handleClientMessage processes one decoded frame; true means the
// conversation is over.
func (b *Bridge) handleClientMessage(ctx context.Context, msg protocol.ClientMessage, sessionID string, model ModelSession, out *frameWriter) bool {
	switch {
	case msg.Hello != nil:
		_ = out.sendJSON(protocol.ServerError{
			Type: protocol.TypeError, Scope: "client", Code: "bad_request",
			Message: "conversation is already started",
		})

	case msg.TextTurn != nil:
		text := msg.TextTurn.Text
		b.deps.Sessions.RecordTurn(sessionID, "user", text)
		res := b.deps.Intents.Classify(text, sessionID)
		_ = out.sendJSON(protocol.ServerIntent{
			Type:     protocol.TypeIntent,
			Primary:  res.Primary,
			Agents:   res.AgentsNeeded,
			Strategy: intent.Strategy(res.Primary),
		})
		_ = out.sendJSON(protocol.ServerTranscript{
			Type: protocol.TypeTranscript, Role: "user", Text: text, Final: true,
		})
		if err := model.SendText(text); err != nil {
			b.modelSendFailed(out, err)
			return true
		}

	case msg.SwitchChannel != nil:
		sess := b.deps.Sessions.SwitchChannel(sessionID, msg.SwitchChannel.Channel)
		_ = out.sendJSON(protocol.ServerSessionStarted{
			Type:      protocol.TypeSessionStarted,
			SessionID: sessionID,
			Channel:   sess.Channel,
		})

	case msg.Rate != nil:
		b.deps.Analytics.TrackSatisfaction(msg.Rate.Rating)

	case msg.Bye != nil:
		goodbye := b.deps.Strategy.ClosingStatement(sessionID)
		if b.deps.Strategy.ShouldSuggestAdditional(sessionID) {
			if s := b.deps.Strategy.AdditionalSuggestion(sessionID); s != "" {
				goodbye = s + " " + goodbye
			}
		}
		_ = out.sendJSON(protocol.ServerGoodbye{Type: protocol.TypeGoodbye, Message: goodbye})
		_ = out.sendClose(websocket.CloseNormalClosure)
		return true
	}
	return false
}

func (b *Bridge) pumpModel(ctx context.Context, cancel context.CancelFunc, sessionID string, model ModelSession, out *frameWriter) {
	defer cancel()

	var reply strings.Builder
	for ev := range model.Events() {
		if ev.Err != nil {
			b.logger.Error("model session failed", "err", ev.Err, "session_id", sessionID)
			_ = out.sendJSON(protocol.ServerError{
				Type: protocol.TypeError, Scope: "model", Code: "model_error",
				Message: "the live model connection failed", Fatal: true,
			})
			return
		}

		if ev.UserTranscript != "" {
			b.deps.Sessions.RecordTurn(sessionID, "user", ev.UserTranscript)
			_ = out.sendJSON(protocol.ServerTranscript{
				Type: protocol.TypeTranscript, Role: "user", Text: ev.UserTranscript, Final: true,
			})
		}
		if ev.AssistantText != "" {
			reply.WriteString(ev.AssistantText)
			_ = out.sendJSON(protocol.ServerTranscript{
				Type: protocol.TypeTranscript, Role: "assistant", Text: ev.AssistantText, Final: false,
			})
		}
		if len(ev.Audio) > 0 {
			_ = out.sendJSON(protocol.ServerAudio{
				Type: protocol.TypeAudio,
				Data: base64.StdEncoding.EncodeToString(ev.Audio),
			})
		}

		for _, tc := range ev.ToolCalls {
			if tc.ID == "" {
				tc.ID = uuid.NewString()
			}
			_ = out.sendJSON(protocol.ServerToolCall{
				Type: protocol.TypeToolCall, Name: tc.Name, CallID: tc.ID,
			})
			call := tools.Call{Name: tc.Name, ID: tc.ID, Args: tools.Args(tc.Args)}
			b.deps.Tools.Dispatch(ctx, call, func(text string) {
				if err := model.SendToolResponse(call.ID, call.Name, text); err != nil {
					b.logger.Warn("tool response send failed", "tool", call.Name, "err", err)
				}
				_ = out.sendJSON(protocol.ServerToolResult{
					Type: protocol.TypeToolResult, Name: call.Name, CallID: call.ID, Text: text,
				})
			})
		}

		if ev.Interrupted {
			reply.Reset()
		}
		if ev.TurnComplete && reply.Len() > 0 {
			b.deps.Sessions.RecordTurn(sessionID, "assistant", reply.String())
			_ = out.sendJSON(protocol.ServerTranscript{
				Type: protocol.TypeTranscript, Role: "assistant", Text: reply.String(), Final: true,
			})
			reply.Reset()
		}
	}
}

func (b *Bridge) modelSendFailed(out *frameWriter, err error) {
	b.logger.Error("model send failed", "err", err)
	_ = out.sendJSON(protocol.ServerError{
		Type: protocol.TypeError, Scope: "model", Code: "model_error",
		Message: "the live model connection failed", Fatal: true,
	})
}

func (b *Bridge) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(b.cfg.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deadline := time.Now().Add(b.cfg.WriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}

// frameWriter serializes concurrent JSON writes onto one connection.
type frameWriter struct {
	mu      sync.Mutex
	conn    *websocket.Conn
	timeout time.Duration
}

func (w *frameWriter) sendJSON(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.SetWriteDeadline(time.Now().Add(w.timeout))
	return w.conn.WriteJSON(v)
}

func (w *frameWriter) sendClose(code int) error {
	deadline := time.Now().Add(w.timeout)
	return w.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, ""), deadline)
}
