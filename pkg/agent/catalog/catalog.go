// Package catalog holds the read-only reference data the agent operates on:
// government services, retail products, citizen records, and benefit rules.
// A Catalog is constructed once at startup and shared by reference; nothing
// in it mutates after construction.
package catalog

import (
	"sort"
	"strings"
)

const (
	// DefaultCitizenID is the fallback identity bound to sessions that never
	// authenticate. Matches the seeded citizen records.
	DefaultCitizenID = "CIT001"

	// StatusActive marks a service that accepts new applications.
	StatusActive = "active"
)

// Availability describes whether a service currently accepts applications.
type Availability struct {
	Status        string
	NextAvailable string
	Regions       map[string]string
}

// Service is one government service offering.
type Service struct {
	ID           string
	Name         string
	Category     string
	Eligibility  string
	Availability Availability
}

// Product is one retail catalog entry, used by the retail tool family.
type Product struct {
	SKU      string
	Name     string
	Category string
	Price    float64
	InStock  bool
}

// Citizen is a known caller profile.
type Citizen struct {
	ID             string
	Name           string
	Tier           string
	Points         int
	ServiceHistory []string
	Income         int
	Age            int
	Channel        string
}

// Benefit is an eligibility rule: eligible iff income <= MaxIncome and
// age >= MinAge.
type Benefit struct {
	MaxIncome   int
	MinAge      int
	Description string
}

// Catalog bundles all reference data behind one handle.
type Catalog struct {
	services  map[string]Service
	products  map[string]Product
	citizens  map[string]Citizen
	benefits  map[string]Benefit
	svcOrder  []string
	skuOrder  []string
	tierPerks map[string]string
}

// New returns a catalog populated with the demo seed data.
func New() *Catalog {
	return build(seedServices, seedProducts, seedCitizens, seedBenefits)
}

func build(services []Service, products []Product, citizens []Citizen, benefits map[string]Benefit) *Catalog {
	c := &Catalog{
		services: make(map[string]Service, len(services)),
		products: make(map[string]Product, len(products)),
		citizens: make(map[string]Citizen, len(citizens)),
		benefits: make(map[string]Benefit, len(benefits)),
		tierPerks: map[string]string{
			"Platinum": "Priority processing, additional subsidies, extended support",
			"Gold":     "Faster processing, 20% additional benefits",
			"Silver":   "Standard benefits with 10% bonus",
			"Bronze":   "Basic benefits with points earning",
		},
	}
	for _, s := range services {
		c.services[s.ID] = s
		c.svcOrder = append(c.svcOrder, s.ID)
	}
	for _, p := range products {
		c.products[p.SKU] = p
		c.skuOrder = append(c.skuOrder, p.SKU)
	}
	for _, cz := range citizens {
		c.citizens[cz.ID] = cz
	}
	for k, b := range benefits {
		c.benefits[k] = b
	}
	return c
}

// Service looks up a service by id.
func (c *Catalog) Service(id string) (Service, bool) {
	s, ok := c.services[id]
	return s, ok
}

// Product looks up a product by SKU.
func (c *Catalog) Product(sku string) (Product, bool) {
	p, ok := c.products[sku]
	return p, ok
}

// Citizen looks up a citizen, falling back to the default record when the id
// is unknown. The second return reports whether the id itself was known.
func (c *Catalog) Citizen(id string) (Citizen, bool) {
	cz, ok := c.citizens[id]
	if !ok {
		return c.citizens[DefaultCitizenID], false
	}
	return cz, true
}

// Benefit looks up an eligibility rule by benefit type.
func (c *Catalog) Benefit(benefitType string) (Benefit, bool) {
	b, ok := c.benefits[benefitType]
	return b, ok
}

// TierPerks describes the benefit tier, empty for unknown tiers.
func (c *Catalog) TierPerks(tier string) string {
	return c.tierPerks[tier]
}

// SearchServices scans the catalog in seed order. A service matches when the
// query appears in its name, the category filter appears in its category, or
// the query is empty; an eligibility filter additionally narrows by substring.
// All matching is case-insensitive.
func (c *Catalog) SearchServices(query, category, eligibility string) []Service {
	query = strings.ToLower(query)
	category = strings.ToLower(category)
	eligibility = strings.ToLower(eligibility)

	var out []Service
	for _, id := range c.svcOrder {
		s := c.services[id]
		if !(strings.Contains(strings.ToLower(s.Name), query) ||
			strings.Contains(strings.ToLower(s.Category), category) ||
			query == "") {
			continue
		}
		if eligibility != "" && !strings.Contains(strings.ToLower(s.Eligibility), eligibility) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// SearchProducts scans products by name substring, category, and price cap.
func (c *Catalog) SearchProducts(query, category string, maxPrice float64) []Product {
	query = strings.ToLower(query)
	category = strings.ToLower(category)

	var out []Product
	for _, sku := range c.skuOrder {
		p := c.products[sku]
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		if maxPrice > 0 && p.Price > maxPrice {
			continue
		}
		out = append(out, p)
	}
	return out
}

// AlternativesInCategory returns other products sharing the category of sku,
// in seed order.
func (c *Catalog) AlternativesInCategory(sku string) []Product {
	p, ok := c.products[sku]
	if !ok {
		return nil
	}
	var out []Product
	for _, other := range c.skuOrder {
		if other == sku {
			continue
		}
		alt := c.products[other]
		if alt.Category == p.Category {
			out = append(out, alt)
		}
	}
	return out
}

// ServiceIDs returns all service ids in seed order.
func (c *Catalog) ServiceIDs() []string {
	out := make([]string, len(c.svcOrder))
	copy(out, c.svcOrder)
	return out
}

// CitizenIDs returns all citizen ids sorted.
func (c *Catalog) CitizenIDs() []string {
	out := make([]string, 0, len(c.citizens))
	for id := range c.citizens {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
