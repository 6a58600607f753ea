package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/dialmate-ai/dialmate/pkg/agent/store"
)

func TestSearchServicesTool(t *testing.T) {
	env := newTestEnv()

	got := env.invoke("search_services", Args{"query": "passport"})
	if got != "Found 1 services: Passport Renewal Service - SVC003" {
		t.Fatalf("unexpected response: %q", got)
	}
}

func TestSearchServicesCapsAtFiveShown(t *testing.T) {
	env := newTestEnv()

	got := env.invoke("search_services", Args{})
	if !strings.HasPrefix(got, "Found 12 services: ") {
		t.Fatalf("unexpected response: %q", got)
	}
	if n := strings.Count(got, "SVC"); n != 5 {
		t.Fatalf("expected 5 listed services, saw %d in %q", n, got)
	}
}

func TestServiceRecommendationsFromHistory(t *testing.T) {
	env := newTestEnv()

	// CIT001's history includes SVC001, which pairs with education and
	// environment programs.
	got := env.invoke("get_service_recommendations", Args{"citizen_id": "CIT001"})
	if got != "Based on your profile, I recommend: Education Grant Application, Environmental Grant" {
		t.Fatalf("unexpected response: %q", got)
	}

	// CIT009 has no history and gets the default set.
	got = env.invoke("get_service_recommendations", Args{"citizen_id": "CIT009"})
	if !strings.Contains(got, "Unemployment Benefits") || !strings.Contains(got, "Senior Citizen Support") {
		t.Fatalf("unexpected default recommendations: %q", got)
	}
}

func TestCheckServiceAvailability(t *testing.T) {
	env := newTestEnv()

	got := env.invoke("check_service_availability", Args{"service_id": "SVC001"})
	if got != "Healthcare Subsidy Program is Available. Next available: N/A." {
		t.Fatalf("unexpected response: %q", got)
	}

	got = env.invoke("check_service_availability", Args{"service_id": "SVC001", "region": "north"})
	if got != "Healthcare Subsidy Program status in north: unknown." {
		t.Fatalf("unexpected response: %q", got)
	}

	got = env.invoke("check_service_availability", Args{"service_id": "SVC404"})
	if got != "Service SVC404 not found." {
		t.Fatalf("unexpected response: %q", got)
	}
}

func TestAddToApplications(t *testing.T) {
	env := newTestEnv()

	got := env.invoke("add_to_applications", Args{"session_id": "s1", "service_id": "SVC001"})
	if got != "Added Healthcare Subsidy Program to your applications." {
		t.Fatalf("unexpected response: %q", got)
	}

	items, _ := env.carts.Items(context.Background(), "s1")
	if len(items) != 1 || items[0].ServiceID != "SVC001" || items[0].Status != store.ItemDraft {
		t.Fatalf("cart not updated: %+v", items)
	}

	sess := env.sessions.GetOrCreate("s1")
	if len(sess.Cart) != 1 {
		t.Fatalf("session cart snapshot not updated: %+v", sess.Cart)
	}
	if len(sess.History) == 0 || sess.History[len(sess.History)-1].Role != "system" {
		t.Fatalf("expected a system history entry, got %+v", sess.History)
	}
}

func TestAddToApplicationsUnknownService(t *testing.T) {
	env := newTestEnv()

	got := env.invoke("add_to_applications", Args{"session_id": "s1", "service_id": "SVC404"})
	if got != "Service SVC404 not found." {
		t.Fatalf("unexpected response: %q", got)
	}
	if items, _ := env.carts.Items(context.Background(), "s1"); len(items) != 0 {
		t.Fatalf("cart must stay empty, got %+v", items)
	}
}

func TestViewApplications(t *testing.T) {
	env := newTestEnv()

	got := env.invoke("view_applications", Args{"session_id": "s1"})
	if got != "You have no applications yet. Let me help you get started!" {
		t.Fatalf("unexpected response: %q", got)
	}

	env.invoke("add_to_applications", Args{"session_id": "s1", "service_id": "SVC003"})
	got = env.invoke("view_applications", Args{"session_id": "s1"})
	if got != "Your applications: Passport Renewal Service - Status: draft." {
		t.Fatalf("unexpected response: %q", got)
	}
}

func TestCheckEligibility(t *testing.T) {
	env := newTestEnv()

	// CIT001: income 300000, age 35 against max income 400000, min age 0.
	got := env.invoke("check_eligibility", Args{"citizen_id": "CIT001", "benefit_type": "healthcare_subsidy"})
	if !strings.HasPrefix(got, "You are eligible for healthcare_subsidy") {
		t.Fatalf("unexpected response: %q", got)
	}

	// CIT002: income 500000 exceeds the cap.
	got = env.invoke("check_eligibility", Args{"citizen_id": "CIT002", "benefit_type": "healthcare_subsidy"})
	if !strings.HasPrefix(got, "You may not be eligible for healthcare_subsidy") {
		t.Fatalf("unexpected response: %q", got)
	}

	// CIT003: age 28 below senior_support's min age 60.
	got = env.invoke("check_eligibility", Args{"citizen_id": "CIT003", "benefit_type": "senior_support"})
	if !strings.HasPrefix(got, "You may not be eligible") {
		t.Fatalf("unexpected response: %q", got)
	}

	// Unknown benefit types are never eligible.
	got = env.invoke("check_eligibility", Args{"citizen_id": "CIT001", "benefit_type": "free_money"})
	if !strings.HasPrefix(got, "You may not be eligible") {
		t.Fatalf("unexpected response: %q", got)
	}
}

func TestCheckBenefitsPoints(t *testing.T) {
	env := newTestEnv()

	got := env.invoke("check_benefits_points", Args{"citizen_id": "CIT404"})
	if got != "Citizen not found." {
		t.Fatalf("unexpected response: %q", got)
	}

	got = env.invoke("check_benefits_points", Args{"citizen_id": "CIT001"})
	if !strings.Contains(got, "2500 benefits points (Gold tier) = ₹25000 value") {
		t.Fatalf("unexpected response: %q", got)
	}
}

func TestProcessApplicationSuccess(t *testing.T) {
	// First draw passes the 3/4 success gate; second fixes the request id.
	env := newTestEnv(0, 234)

	env.invoke("add_to_applications", Args{"session_id": "s1", "service_id": "SVC001"})
	got := env.invoke("process_application", Args{"session_id": "s1", "citizen_id": "CIT001"})
	if got != "Application submitted successfully! Request ID: REQ10234. You'll receive confirmation shortly." {
		t.Fatalf("unexpected response: %q", got)
	}

	if items, _ := env.carts.Items(context.Background(), "s1"); len(items) != 0 {
		t.Fatalf("cart must be drained, got %+v", items)
	}
	if len(env.sessions.GetOrCreate("s1").Cart) != 0 {
		t.Fatalf("session cart snapshot must be cleared")
	}

	req, ok, _ := env.requests.Get(context.Background(), "REQ10234")
	if !ok {
		t.Fatalf("request missing from ledger")
	}
	if req.CitizenID != "CIT001" || req.Status != store.RequestSubmitted || len(req.Items) != 1 {
		t.Fatalf("unexpected ledger entry: %+v", req)
	}
}

func TestProcessApplicationFailureLeavesCart(t *testing.T) {
	// Draw 3 of 4 fails the success gate.
	env := newTestEnv(3)

	env.invoke("add_to_applications", Args{"session_id": "s1", "service_id": "SVC001"})
	got := env.invoke("process_application", Args{"session_id": "s1"})
	if got != "Application submission failed. Please check your information and try again." {
		t.Fatalf("unexpected response: %q", got)
	}

	if items, _ := env.carts.Items(context.Background(), "s1"); len(items) != 1 {
		t.Fatalf("failed submission must leave the cart intact, got %+v", items)
	}
}

func TestScheduleDocumentDelivery(t *testing.T) {
	env := newTestEnv()

	got := env.invoke("schedule_document_delivery", Args{})
	if got != "Documents for REQ12345 scheduled for home delivery on tomorrow. Estimated delivery: 5-7 business days." {
		t.Fatalf("unexpected response: %q", got)
	}

	got = env.invoke("schedule_document_delivery", Args{"request_id": "REQ777", "delivery_type": "pickup", "date": "Friday"})
	if got != "Documents for REQ777 ready for pickup at office on Friday. We'll notify you when it's ready." {
		t.Fatalf("unexpected response: %q", got)
	}
}

func TestTrackRequestPrefersLedger(t *testing.T) {
	env := newTestEnv()

	_ = env.requests.Put(context.Background(), store.Request{ID: "REQ11111", Status: store.RequestSubmitted})
	got := env.invoke("track_request", Args{"request_id": "REQ11111"})
	if got != "Request REQ11111 status: submitted. Expected processing time: 7-10 business days." {
		t.Fatalf("unexpected response: %q", got)
	}
}

func TestTrackRequestFabricatesUnknownStatus(t *testing.T) {
	// Draw 2 picks requestStatuses[2].
	env := newTestEnv(2)

	got := env.invoke("track_request", Args{"request_id": "REQ99999"})
	if got != "Request REQ99999 status: Approved. Expected processing time: 7-10 business days." {
		t.Fatalf("unexpected response: %q", got)
	}
}

func TestInitiateRevision(t *testing.T) {
	// Draw 500 fixes the revision id at REV1500.
	env := newTestEnv(500)

	_ = env.requests.Put(context.Background(), store.Request{ID: "REQ1", Status: store.RequestSubmitted})
	got := env.invoke("initiate_revision", Args{"request_id": "REQ1", "action": "revision"})
	if !strings.Contains(got, "Revision initiated for request REQ1. Revision ID: REV1500.") {
		t.Fatalf("unexpected response: %q", got)
	}

	req, _, _ := env.requests.Get(context.Background(), "REQ1")
	if req.Status != store.RequestRevisionInitiated {
		t.Fatalf("ledger status = %s", req.Status)
	}
}

func TestInitiateUpdate(t *testing.T) {
	env := newTestEnv(500)

	_ = env.requests.Put(context.Background(), store.Request{ID: "REQ2", Status: store.RequestSubmitted})
	got := env.invoke("initiate_revision", Args{"request_id": "REQ2", "action": "update"})
	if !strings.Contains(got, "Update initiated for request REQ2. Update ID: REV1500.") {
		t.Fatalf("unexpected response: %q", got)
	}

	req, _, _ := env.requests.Get(context.Background(), "REQ2")
	if req.Status != store.RequestUpdateInitiated {
		t.Fatalf("ledger status = %s", req.Status)
	}
}

func TestEscalateToHuman(t *testing.T) {
	env := newTestEnv()

	got := env.invoke("escalate_to_human", Args{"session_id": "s1", "reason": "billing dispute"})
	if !strings.Contains(got, "billing dispute") || !strings.Contains(got, "Please hold") {
		t.Fatalf("unexpected response: %q", got)
	}
}

func TestGetSessionContext(t *testing.T) {
	env := newTestEnv()

	env.invoke("add_to_applications", Args{"session_id": "s1", "service_id": "SVC001"})
	got := env.invoke("get_session_context", Args{"session_id": "s1"})
	if got != "Citizen CIT001 on web. 1 applications in progress. Current activity: browsing." {
		t.Fatalf("unexpected response: %q", got)
	}
}

func TestScheduleAppointment(t *testing.T) {
	env := newTestEnv()

	got := env.invoke("schedule_appointment", Args{"date_time": "Monday 10am", "place": "Delhi office"})
	if got != "Your appointment has been scheduled for Monday 10am at Delhi office." {
		t.Fatalf("unexpected response: %q", got)
	}
}
