package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dialmate-ai/dialmate/pkg/agent/intent"
	"github.com/dialmate-ai/dialmate/pkg/agent/session"
	"github.com/dialmate-ai/dialmate/pkg/core"
	"github.com/dialmate-ai/dialmate/pkg/gateway/apierror"
	"github.com/dialmate-ai/dialmate/pkg/gateway/mw"
)

const maxSessionBodyBytes = 16 * 1024

// SessionHandler serves GET /v1/sessions/{id}.
type SessionHandler struct {
	Sessions *session.Manager
}

func (h SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeBadRequest(w, r, "session id is required")
		return
	}

	sess := h.Sessions.GetOrCreate(id)
	writeJSON(w, map[string]any{
		"session": sess,
		"summary": h.Sessions.Summary(id),
	})
}

// SwitchChannelHandler serves POST /v1/sessions/{id}/channel.
type SwitchChannelHandler struct {
	Sessions *session.Manager
}

func (h SwitchChannelHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeBadRequest(w, r, "session id is required")
		return
	}

	var body struct {
		Channel string `json:"channel"`
	}
	if err := decodeJSONBody(w, r, &body); err != nil {
		writeBadRequest(w, r, err.Error())
		return
	}

	switch body.Channel {
	case session.ChannelWeb, session.ChannelPhone, session.ChannelWhatsApp, session.ChannelKiosk:
	default:
		writeBadRequest(w, r, "unknown channel")
		return
	}

	sess := h.Sessions.SwitchChannel(id, body.Channel)
	writeJSON(w, map[string]any{
		"session": sess,
		"summary": h.Sessions.Summary(id),
	})
}

// TurnHandler serves POST /v1/sessions/{id}/turns: record one utterance and
// return the routing decision without involving the live model. This is the
// text-channel path and the quickest way to exercise the classifier.
type TurnHandler struct {
	Sessions *session.Manager
	Intents  *intent.Classifier
	Strategy *intent.Selector
}

func (h TurnHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeBadRequest(w, r, "session id is required")
		return
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := decodeJSONBody(w, r, &body); err != nil {
		writeBadRequest(w, r, err.Error())
		return
	}
	if strings.TrimSpace(body.Message) == "" {
		writeBadRequest(w, r, "message is required")
		return
	}

	h.Sessions.RecordTurn(id, "user", body.Message)
	res := h.Intents.Classify(body.Message, id)

	resp := map[string]any{
		"primary_intent":    res.Primary,
		"agents_needed":     res.AgentsNeeded,
		"strategy":          intent.Strategy(res.Primary),
		"closing_statement": h.Strategy.ClosingStatement(id),
	}
	if h.Strategy.ShouldSuggestAdditional(id) {
		if s := h.Strategy.AdditionalSuggestion(id); s != "" {
			resp["additional_suggestion"] = s
		}
	}
	writeJSON(w, resp)
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxSessionBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}

func writeBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	reqID, _ := mw.RequestIDFrom(r.Context())
	apierror.Write(w, core.NewInvalidRequestError(message), reqID)
}
