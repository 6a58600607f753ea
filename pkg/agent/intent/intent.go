// Package intent classifies free-text utterances into a coarse conversation
// intent and maps intents to response strategies. The classifier is a
// deterministic decision list, not a scored model: rules are evaluated in a
// fixed priority order and the first match wins.
package intent

import (
	"strings"

	"github.com/dialmate-ai/dialmate/pkg/agent/session"
)

// Primary intent labels.
const (
	ServiceDiscovery      = "service_discovery"
	ApplicationManagement = "application_management"
	ServiceRequest        = "service_request"
	PostService           = "post_service"
	EligibilityInquiry    = "eligibility_inquiry"
	GeneralInquiry        = "general_inquiry"
)

// Capability groups a worker pool would need for each intent.
const (
	AgentInformation  = "information_agent"
	AgentAvailability = "availability_agent"
	AgentApplication  = "application_agent"
	AgentBenefits     = "benefits_agent"
	AgentDelivery     = "delivery_agent"
	AgentSupport      = "support_agent"
)

// Result is the classifier output for one utterance.
type Result struct {
	Primary      string
	AgentsNeeded []string
}

type rule struct {
	keywords []string
	primary  string
	agents   []string
}

// Priority order is load-bearing: "submit" appears in both the
// application_management and service_request keyword sets, and the earlier
// rule wins. Reordering changes classification.
var rules = []rule{
	{
		keywords: []string{"looking for", "show me", "need", "want", "search", "find", "services"},
		primary:  ServiceDiscovery,
		agents:   []string{AgentInformation, AgentAvailability},
	},
	{
		keywords: []string{"application", "apply", "form", "submit", "request"},
		primary:  ApplicationManagement,
		agents:   []string{AgentApplication, AgentBenefits},
	},
	{
		keywords: []string{"submit", "complete", "process", "register", "enroll"},
		primary:  ServiceRequest,
		agents:   []string{AgentApplication, AgentDelivery, AgentBenefits},
	},
	{
		keywords: []string{"track", "status", "update", "follow-up", "feedback"},
		primary:  PostService,
		agents:   []string{AgentSupport, AgentDelivery},
	},
	{
		keywords: []string{"eligible", "qualify", "requirements", "criteria", "benefits"},
		primary:  EligibilityInquiry,
		agents:   []string{AgentBenefits, AgentInformation},
	},
}

// Classifier writes the chosen intent back into the session as a side effect.
type Classifier struct {
	sessions *session.Manager
}

func NewClassifier(sessions *session.Manager) *Classifier {
	return &Classifier{sessions: sessions}
}

// Classify is total: every utterance maps to exactly one primary intent,
// falling back to general_inquiry. Matching is a case-insensitive substring
// test against each rule's keyword set.
func (c *Classifier) Classify(utterance, sessionID string) Result {
	lower := strings.ToLower(utterance)

	res := Result{
		Primary:      GeneralInquiry,
		AgentsNeeded: []string{AgentInformation},
	}
	for _, r := range rules {
		if matchesAny(lower, r.keywords) {
			res.Primary = r.primary
			res.AgentsNeeded = append([]string(nil), r.agents...)
			break
		}
	}

	if c.sessions != nil {
		c.sessions.SetIntent(sessionID, res.Primary)
	}
	return res
}

func matchesAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
