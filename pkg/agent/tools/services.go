package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/dialmate-ai/dialmate/pkg/agent/catalog"
	"github.com/dialmate-ai/dialmate/pkg/agent/sim"
	"github.com/dialmate-ai/dialmate/pkg/agent/store"
)

// Fabricated tracking statuses used when a request id is not in the ledger.
// Deliberate demo behavior: unknown ids get a plausible status instead of
// "not found".
var requestStatuses = []string{"Submitted", "Under review", "Approved", "Processing", "Completed"}

func (r *Registry) registerServiceTools() {
	r.register(Declaration{
		Name:        "search_services",
		Description: "Search government services by name, category, or eligibility",
		Params: []Param{
			str("query", "Service name or keyword"),
			str("category", "Category like Healthcare, Education, Housing"),
			str("eligibility", "Eligibility keyword, e.g. students, unemployed"),
		},
	}, "information_agent", r.searchServices)

	r.register(Declaration{
		Name:        "get_service_recommendations",
		Description: "Get personalized service recommendations for a citizen",
		Params:      []Param{str("citizen_id", "Citizen ID")},
	}, "information_agent", r.serviceRecommendations)

	r.register(Declaration{
		Name:        "check_service_availability",
		Description: "Check whether a service is currently accepting applications",
		Params: []Param{
			reqStr("service_id", "Service ID like SVC001"),
			str("region", "Region name, or all"),
		},
	}, "availability_agent", r.checkServiceAvailability)

	r.register(Declaration{
		Name:        "add_to_applications",
		Description: "Add a service to the citizen's in-progress applications",
		Params: []Param{
			str("session_id", "Session ID"),
			reqStr("service_id", "Service ID to apply for"),
		},
	}, "application_agent", r.addToApplications)

	r.register(Declaration{
		Name:        "view_applications",
		Description: "List the citizen's in-progress applications",
		Params:      []Param{str("session_id", "Session ID")},
	}, "application_agent", r.viewApplications)

	r.register(Declaration{
		Name:        "check_eligibility",
		Description: "Check citizen eligibility for a benefit type",
		Params: []Param{
			str("citizen_id", "Citizen ID"),
			str("benefit_type", "Benefit type like healthcare_subsidy"),
		},
	}, "benefits_agent", r.checkEligibility)

	r.register(Declaration{
		Name:        "check_benefits_points",
		Description: "Check citizen benefits points, tier, and redemption value",
		Params:      []Param{str("citizen_id", "Citizen ID")},
	}, "benefits_agent", r.checkBenefitsPoints)

	r.register(Declaration{
		Name:        "process_application",
		Description: "Submit the citizen's in-progress applications",
		Params: []Param{
			str("session_id", "Session ID"),
			str("citizen_id", "Citizen ID"),
		},
	}, "application_agent", r.processApplication)

	r.register(Declaration{
		Name:        "schedule_document_delivery",
		Description: "Schedule document delivery or office pickup for a request",
		Params: []Param{
			str("request_id", "Request ID"),
			str("delivery_type", "home or pickup"),
			str("date", "Preferred date"),
		},
	}, "delivery_agent", r.scheduleDocumentDelivery)

	r.register(Declaration{
		Name:        "track_request",
		Description: "Track the status of a submitted request",
		Params:      []Param{reqStr("request_id", "Request ID")},
	}, "support_agent", r.trackRequest)

	r.register(Declaration{
		Name:        "initiate_revision",
		Description: "Start a revision or update on a submitted request",
		Params: []Param{
			reqStr("request_id", "Request ID"),
			str("reason", "Why the revision is needed"),
			str("action", "revision or update"),
		},
	}, "support_agent", r.initiateRevision)

	r.register(Declaration{
		Name:        "escalate_to_human",
		Description: "Escalate to a human agent with conversation context",
		Params: []Param{
			str("session_id", "Session ID"),
			str("reason", "Reason for escalation"),
		},
	}, "support_agent", r.escalateToHuman)

	r.register(Declaration{
		Name:        "get_session_context",
		Description: "Get the session context summary for continuity",
		Params:      []Param{str("session_id", "Session ID")},
	}, "support_agent", r.getSessionContext)

	r.register(Declaration{
		Name:        "schedule_appointment",
		Description: "Schedule an in-person appointment at a requested time and place",
		Params: []Param{
			str("date_time", "Requested date and time"),
			str("place", "Office or location"),
		},
	}, "delivery_agent", r.scheduleAppointment)
}

func (r *Registry) searchServices(_ context.Context, call Call, respond func(string)) {
	query := call.Args.String("query", "")
	category := call.Args.String("category", "")
	eligibility := call.Args.String("eligibility", "")

	results := r.deps.Catalog.SearchServices(query, category, eligibility)
	if len(results) == 0 {
		respond("No services found matching your criteria.")
		return
	}

	shown := results
	if len(shown) > 5 {
		shown = shown[:5]
	}
	names := make([]string, len(shown))
	for i, s := range shown {
		names[i] = fmt.Sprintf("%s - %s", s.Name, s.ID)
	}
	respond(fmt.Sprintf("Found %d services: %s", len(results), strings.Join(names, ", ")))
}

func (r *Registry) serviceRecommendations(_ context.Context, call Call, respond func(string)) {
	citizenID := call.Args.String("citizen_id", catalog.DefaultCitizenID)
	citizen, _ := r.deps.Catalog.Citizen(citizenID)

	history := make(map[string]bool, len(citizen.ServiceHistory))
	for _, id := range citizen.ServiceHistory {
		history[id] = true
	}

	// Complementary pairings: healthcare history suggests education and
	// housing support; education history suggests healthcare and employment.
	var recs []string
	if history["SVC001"] || history["SVC008"] {
		recs = append(recs, "SVC002", "SVC010")
	}
	if history["SVC002"] || history["SVC007"] {
		recs = append(recs, "SVC001", "SVC009")
	}
	if len(recs) == 0 {
		recs = []string{"SVC005", "SVC006", "SVC010"}
	}
	if len(recs) > 3 {
		recs = recs[:3]
	}

	names := make([]string, 0, len(recs))
	for _, id := range recs {
		if svc, ok := r.deps.Catalog.Service(id); ok {
			names = append(names, svc.Name)
		}
	}
	respond(fmt.Sprintf("Based on your profile, I recommend: %s", strings.Join(names, ", ")))
}

func (r *Registry) checkServiceAvailability(_ context.Context, call Call, respond func(string)) {
	serviceID := call.Args.String("service_id", "")
	region := call.Args.String("region", "all")

	svc, ok := r.deps.Catalog.Service(serviceID)
	if !ok {
		respond(fmt.Sprintf("Service %s not found.", serviceID))
		return
	}

	if region == "all" {
		status := "Temporarily unavailable"
		if svc.Availability.Status == catalog.StatusActive {
			status = "Available"
		}
		next := svc.Availability.NextAvailable
		if next == "" {
			next = "N/A"
		}
		respond(fmt.Sprintf("%s is %s. Next available: %s.", svc.Name, status, next))
		return
	}

	status, ok := svc.Availability.Regions[region]
	if !ok {
		status = "unknown"
	}
	respond(fmt.Sprintf("%s status in %s: %s.", svc.Name, region, status))
}

func (r *Registry) addToApplications(ctx context.Context, call Call, respond func(string)) {
	sessionID := call.Args.String("session_id", "default")
	serviceID := call.Args.String("service_id", "")

	svc, ok := r.deps.Catalog.Service(serviceID)
	if !ok {
		respond(fmt.Sprintf("Service %s not found.", serviceID))
		return
	}
	if svc.Availability.Status != catalog.StatusActive {
		respond(fmt.Sprintf("Sorry, %s is currently unavailable.", svc.Name))
		return
	}

	items, err := r.deps.Carts.Append(ctx, sessionID, store.CartItem{ServiceID: serviceID, Status: store.ItemDraft})
	if err != nil {
		r.logger.Error("cart append failed", "session_id", sessionID, "service_id", serviceID, "err", err)
		respond(FallbackMessage)
		return
	}

	r.deps.Sessions.SetCart(sessionID, items)
	r.deps.Sessions.RecordTurn(sessionID, "system", fmt.Sprintf("Added %s to applications", serviceID))
	respond(fmt.Sprintf("Added %s to your applications.", svc.Name))
}

func (r *Registry) viewApplications(ctx context.Context, call Call, respond func(string)) {
	sessionID := call.Args.String("session_id", "default")

	items, err := r.deps.Carts.Items(ctx, sessionID)
	if err != nil {
		r.logger.Error("cart read failed", "session_id", sessionID, "err", err)
		respond(FallbackMessage)
		return
	}
	if len(items) == 0 {
		respond("You have no applications yet. Let me help you get started!")
		return
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		name := item.ServiceID
		if svc, ok := r.deps.Catalog.Service(item.ServiceID); ok {
			name = svc.Name
		}
		lines = append(lines, fmt.Sprintf("%s - Status: %s", name, item.Status))
	}
	respond(fmt.Sprintf("Your applications: %s.", strings.Join(lines, ", ")))
}

func (r *Registry) checkEligibility(_ context.Context, call Call, respond func(string)) {
	citizenID := call.Args.String("citizen_id", catalog.DefaultCitizenID)
	benefitType := call.Args.String("benefit_type", "")

	citizen, _ := r.deps.Catalog.Citizen(citizenID)

	eligible := false
	if rule, ok := r.deps.Catalog.Benefit(benefitType); ok {
		eligible = citizen.Income <= rule.MaxIncome && citizen.Age >= rule.MinAge
	}

	if eligible {
		respond(fmt.Sprintf("You are eligible for %s. Additional benefits may apply.", benefitType))
		return
	}
	respond(fmt.Sprintf("You may not be eligible for %s based on current criteria. Let me check alternatives.", benefitType))
}

func (r *Registry) checkBenefitsPoints(_ context.Context, call Call, respond func(string)) {
	citizenID := call.Args.String("citizen_id", catalog.DefaultCitizenID)

	citizen, known := r.deps.Catalog.Citizen(citizenID)
	if !known {
		respond("Citizen not found.")
		return
	}

	// Fixed conversion: one point is worth ten rupees of benefits.
	redemption := citizen.Points * 10
	respond(fmt.Sprintf(
		"%s, you have %d benefits points (%s tier) = ₹%d value. Benefits: %s. Would you like to apply points to your applications?",
		citizen.Name, citizen.Points, citizen.Tier, redemption, r.deps.Catalog.TierPerks(citizen.Tier)))
}

func (r *Registry) processApplication(ctx context.Context, call Call, respond func(string)) {
	sessionID := call.Args.String("session_id", "default")
	citizenID := call.Args.String("citizen_id", catalog.DefaultCitizenID)

	// Simulated 75% submission success. Failure leaves the cart untouched so
	// the caller can simply re-invoke.
	if !sim.Chance(r.deps.Rand, 3, 4) {
		respond("Application submission failed. Please check your information and try again.")
		return
	}

	items, err := r.deps.Carts.Drain(ctx, sessionID)
	if err != nil {
		r.logger.Error("cart drain failed", "session_id", sessionID, "err", err)
		respond(FallbackMessage)
		return
	}

	requestID := fmt.Sprintf("REQ%d", sim.Between(r.deps.Rand, 10000, 99999))
	req := store.Request{
		ID:        requestID,
		CitizenID: citizenID,
		Items:     items,
		Status:    store.RequestSubmitted,
		CreatedAt: r.deps.now(),
	}
	if err := r.deps.Requests.Put(ctx, req); err != nil {
		r.logger.Error("request put failed", "request_id", requestID, "err", err)
		respond(FallbackMessage)
		return
	}

	r.deps.Sessions.SetCart(sessionID, nil)
	respond(fmt.Sprintf("Application submitted successfully! Request ID: %s. You'll receive confirmation shortly.", requestID))
}

func (r *Registry) scheduleDocumentDelivery(_ context.Context, call Call, respond func(string)) {
	requestID := call.Args.String("request_id", "REQ12345")
	deliveryType := call.Args.String("delivery_type", "home")
	date := call.Args.String("date", "tomorrow")

	if deliveryType == "home" {
		respond(fmt.Sprintf("Documents for %s scheduled for home delivery on %s. Estimated delivery: 5-7 business days.", requestID, date))
		return
	}
	respond(fmt.Sprintf("Documents for %s ready for pickup at office on %s. We'll notify you when it's ready.", requestID, date))
}

func (r *Registry) trackRequest(ctx context.Context, call Call, respond func(string)) {
	requestID := call.Args.String("request_id", "")

	req, ok, err := r.deps.Requests.Get(ctx, requestID)
	if err != nil {
		r.logger.Error("request read failed", "request_id", requestID, "err", err)
		ok = false
	}

	status := ""
	if ok {
		status = req.Status
	} else {
		status = sim.Pick(r.deps.Rand, requestStatuses)
	}
	respond(fmt.Sprintf("Request %s status: %s. Expected processing time: 7-10 business days.", requestID, status))
}

func (r *Registry) initiateRevision(ctx context.Context, call Call, respond func(string)) {
	requestID := call.Args.String("request_id", "")
	action := call.Args.String("action", "revision")

	revisionID := fmt.Sprintf("REV%d", sim.Between(r.deps.Rand, 1000, 9999))

	status := store.RequestUpdateInitiated
	if action == "revision" {
		status = store.RequestRevisionInitiated
	}
	if err := r.deps.Requests.SetStatus(ctx, requestID, status); err != nil {
		r.logger.Error("request status update failed", "request_id", requestID, "err", err)
	}

	if action == "revision" {
		respond(fmt.Sprintf(
			"Revision initiated for request %s. Revision ID: %s. What changes would you like to make? I can guide you through the process.",
			requestID, revisionID))
		return
	}
	respond(fmt.Sprintf(
		"Update initiated for request %s. Update ID: %s. You can submit additional documents or information. We'll process the update within 3-5 business days.",
		requestID, revisionID))
}

func (r *Registry) escalateToHuman(_ context.Context, call Call, respond func(string)) {
	sessionID := call.Args.String("session_id", "default")
	reason := call.Args.String("reason", "general inquiry")

	// The summary is produced for the (hypothetical) receiving agent; actual
	// transfer is a no-op placeholder in this demo.
	summary := r.deps.Sessions.Summary(sessionID)
	r.logger.Info("escalation requested", "session_id", sessionID, "reason", reason, "summary", summary)

	respond(fmt.Sprintf(
		"I'm connecting you to a human agent who can better assist with %s. They'll have your conversation history and application details. Please hold.",
		reason))
}

func (r *Registry) getSessionContext(_ context.Context, call Call, respond func(string)) {
	sessionID := call.Args.String("session_id", "default")
	respond(r.deps.Sessions.Summary(sessionID))
}

func (r *Registry) scheduleAppointment(_ context.Context, call Call, respond func(string)) {
	dateTime := call.Args.String("date_time", "the requested time")
	place := call.Args.String("place", "your nearest office")
	respond(fmt.Sprintf("Your appointment has been scheduled for %s at %s.", dateTime, place))
}
