package bridge

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"google.golang.org/genai"

	"github.com/dialmate-ai/dialmate/pkg/agent/tools"
)

const systemInstruction = `You are DialMate, a warm and efficient voice assistant for government citizen services.
Help callers discover services, check eligibility, submit applications, and track requests.
Always use the provided tools for lookups and actions instead of inventing details.
Keep replies short and conversational; this is a voice call, so avoid markdown, lists, and symbols.
Expand numbers and abbreviations for speech. Confirm before submitting applications or payments.`

// GeminiConfig configures the Gemini Live dialer.
type GeminiConfig struct {
	APIKey string
	Model  string
	Voice  string
	// Declarations is the tool surface advertised to the model.
	Declarations []tools.Declaration
}

// GeminiDialer opens Gemini Live sessions over google.golang.org/genai.
type GeminiDialer struct {
	cfg    GeminiConfig
	logger *slog.Logger
}

func NewGeminiDialer(cfg GeminiConfig, logger *slog.Logger) *GeminiDialer {
	if logger == nil {
		logger = slog.Default()
	}
	return &GeminiDialer{cfg: cfg, logger: logger}
}

func (d *GeminiDialer) Dial(ctx context.Context) (ModelSession, error) {
	if d.cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  d.cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	connectCfg := &genai.LiveConnectConfig{
		ResponseModalities: []genai.Modality{genai.ModalityAudio},
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: d.cfg.Voice},
			},
		},
		InputAudioTranscription:  &genai.AudioTranscriptionConfig{},
		OutputAudioTranscription: &genai.AudioTranscriptionConfig{},
	}
	if decls := functionDeclarations(d.cfg.Declarations); len(decls) > 0 {
		connectCfg.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	live, err := client.Live.Connect(ctx, d.cfg.Model, connectCfg)
	if err != nil {
		return nil, fmt.Errorf("connect gemini live: %w", err)
	}

	s := &geminiSession{
		live:   live,
		events: make(chan ModelEvent, 32),
		logger: d.logger,
	}
	go s.pump()
	return s, nil
}

func functionDeclarations(decls []tools.Declaration) []*genai.FunctionDeclaration {
	out := make([]*genai.FunctionDeclaration, 0, len(decls))
	for _, d := range decls {
		properties := make(map[string]*genai.Schema, len(d.Params))
		var required []string
		for _, p := range d.Params {
			t := genai.TypeString
			if p.Type == "number" {
				t = genai.TypeNumber
			}
			properties[p.Name] = &genai.Schema{Type: t, Description: p.Description}
			if p.Required {
				required = append(required, p.Name)
			}
		}
		out = append(out, &genai.FunctionDeclaration{
			Name:        d.Name,
			Description: d.Description,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: properties,
				Required:   required,
			},
		})
	}
	return out
}

type geminiSession struct {
	live   *genai.Session
	events chan ModelEvent
	logger *slog.Logger

	closeOnce sync.Once
}

func (s *geminiSession) SendText(text string) error {
	return s.live.SendClientContent(genai.LiveClientContentInput{
		Turns: []*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: text}},
		}},
	})
}

func (s *geminiSession) SendAudio(pcm []byte) error {
	return s.live.SendRealtimeInput(genai.LiveRealtimeInput{
		Media: &genai.Blob{
			MIMEType: "audio/pcm;rate=16000",
			Data:     pcm,
		},
	})
}

func (s *geminiSession) SendToolResponse(callID, name, result string) error {
	return s.live.SendToolResponse(genai.LiveToolResponseInput{
		FunctionResponses: []*genai.FunctionResponse{{
			ID:       callID,
			Name:     name,
			Response: map[string]any{"result": result},
		}},
	})
}

func (s *geminiSession) Events() <-chan ModelEvent {
	return s.events
}

func (s *geminiSession) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.live.Close()
	})
	return err
}

// pump translates Gemini Live server messages into ModelEvents until the
// connection ends.
func (s *geminiSession) pump() {
	defer close(s.events)

	for {
		msg, err := s.live.Receive()
		if err != nil {
			if err != io.EOF {
				s.events <- ModelEvent{Err: err}
			}
			return
		}
		if msg == nil {
			continue
		}

		if tc := msg.ToolCall; tc != nil && len(tc.FunctionCalls) > 0 {
			ev := ModelEvent{}
			for _, fc := range tc.FunctionCalls {
				if fc == nil {
					continue
				}
				ev.ToolCalls = append(ev.ToolCalls, ModelToolCall{
					ID:   fc.ID,
					Name: fc.Name,
					Args: fc.Args,
				})
			}
			s.events <- ev
		}

		sc := msg.ServerContent
		if sc == nil {
			continue
		}

		ev := ModelEvent{
			TurnComplete: sc.TurnComplete,
			Interrupted:  sc.Interrupted,
		}
		if sc.InputTranscription != nil {
			ev.UserTranscript = sc.InputTranscription.Text
		}
		if sc.OutputTranscription != nil {
			ev.AssistantText = sc.OutputTranscription.Text
		}
		if sc.ModelTurn != nil {
			for _, part := range sc.ModelTurn.Parts {
				if part == nil {
					continue
				}
				if part.Text != "" && ev.AssistantText == "" {
					ev.AssistantText = part.Text
				}
				if part.InlineData != nil && len(part.InlineData.Data) > 0 {
					ev.Audio = append(ev.Audio, part.InlineData.Data...)
				}
			}
		}
		s.events <- ev
	}
}
