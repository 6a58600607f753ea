package intent

import (
	"github.com/dialmate-ai/dialmate/pkg/agent/catalog"
	"github.com/dialmate-ai/dialmate/pkg/agent/session"
)

var strategies = map[string]string{
	ServiceDiscovery:      "Ask open-ended questions about needs, eligibility, and preferences. Suggest 2-3 relevant services.",
	ApplicationManagement: "Confirm details, suggest additional services, mention available benefits.",
	ServiceRequest:        "Summarize request, check eligibility, provide submission options, ensure smooth process.",
	PostService:           "Show empathy, provide quick updates, offer alternatives if needed.",
	EligibilityInquiry:    "Highlight requirements, mention available benefits, suggest qualifying services.",
	GeneralInquiry:        "Be helpful, guide toward services, understand needs through questions.",
}

var closings = map[string]string{
	ServiceRequest:        "Thank you for your application! You'll receive confirmation shortly. Is there anything else I can help with?",
	ServiceDiscovery:      "Would you like to apply for any of these services, or shall I show you more options?",
	ApplicationManagement: "Your application is ready! Would you like to proceed with submission?",
	PostService:           "I'm glad I could help! Feel free to reach out if you need anything else.",
}

var concernResponses = map[string]string{
	"eligibility":   "I understand. Let me check your eligibility requirements and available alternatives for you.",
	"documentation": "This service has clear documentation guidelines. I can guide you through the required documents.",
	"waiting_time":  "We have options for expedited processing. I can also provide detailed timeline guidance.",
	"delivery":      "We offer multiple delivery options including digital certificates and physical mail.",
	"comparison":    "Let me show you how this service compares with alternatives in terms of benefits.",
}

// Cross-sell text per service category, checked in this fixed order so the
// suggestion picked from a cart's category set is reproducible.
var suggestionOrder = []string{"Healthcare", "Education", "Housing", "Employment", "Transportation"}

var suggestions = map[string]string{
	"Healthcare":     "Would you like to apply for our supplemental health benefits? We have programs that complement your current application!",
	"Education":      "These would pair well with our education grants! Can I show you some matching scholarship options?",
	"Housing":        "Don't forget housing assistance! A subsidy or loan would complete your support package.",
	"Employment":     "Add some training programs to complete your application - we have excellent options!",
	"Transportation": "This pairs perfectly with our mobility assistance programs.",
}

// Strategy returns the conversation-strategy directive for an intent label.
// The directive is guidance text for the model, not executed logic.
func Strategy(primary string) string {
	if s, ok := strategies[primary]; ok {
		return s
	}
	return "Be citizen-centric and helpful."
}

// HandleConcern returns canned objection-handling text for a concern type.
func HandleConcern(concernType string) string {
	if r, ok := concernResponses[concernType]; ok {
		return r
	}
	return "I understand your concern. Let me help you with that."
}

// Selector derives closing statements and cross-sell suggestions from live
// session state.
type Selector struct {
	sessions *session.Manager
	catalog  *catalog.Catalog
}

func NewSelector(sessions *session.Manager, cat *catalog.Catalog) *Selector {
	return &Selector{sessions: sessions, catalog: cat}
}

// ClosingStatement picks a closing by the session's current intent.
func (s *Selector) ClosingStatement(sessionID string) string {
	sess := s.sessions.GetOrCreate(sessionID)
	if c, ok := closings[sess.CurrentIntent]; ok {
		return c
	}
	return "Is there anything else I can help you with today?"
}

// ShouldSuggestAdditional reports whether a cross-sell opportunity exists.
// The policy deliberately skips empty carts and citizens who already have
// many pending items: only 1-2 applications qualify.
func (s *Selector) ShouldSuggestAdditional(sessionID string) bool {
	n := len(s.sessions.GetOrCreate(sessionID).Cart)
	return n >= 1 && n <= 2
}

// AdditionalSuggestion returns cross-sell text for the first cart category
// that has one, walking categories in the fixed priority order. Empty cart
// returns empty text.
func (s *Selector) AdditionalSuggestion(sessionID string) string {
	sess := s.sessions.GetOrCreate(sessionID)
	if len(sess.Cart) == 0 {
		return ""
	}

	inCart := make(map[string]bool)
	for _, item := range sess.Cart {
		if svc, ok := s.catalog.Service(item.ServiceID); ok {
			inCart[svc.Category] = true
		}
	}
	for _, category := range suggestionOrder {
		if inCart[category] {
			return suggestions[category]
		}
	}
	return "Would you like to see additional services that might benefit you?"
}
