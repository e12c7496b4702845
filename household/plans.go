/*
plans.go - Subscription plan catalog

PURPOSE:
  Defines the plan tiers a family can subscribe to and maps payment
  provider price IDs back to plan names. The provider itself (checkout,
  webhooks) is an external collaborator; this catalog is the only
  billing knowledge the application carries.

PRICING:
  Prices are decimals, never floats. Annual prices carry roughly a 20%
  discount over twelve monthly payments.
*/
package household

import "github.com/shopspring/decimal"

// =============================================================================
// PLAN CATALOG
// =============================================================================

type PlanName string

const (
	PlanFree       PlanName = "free"
	PlanFamilyPlus PlanName = "family_plus"
	PlanFamilyPro  PlanName = "family_pro"
)

// Plan is one subscription tier.
type Plan struct {
	Name        PlanName        `json:"name"`
	Label       string          `json:"label"`
	Description string          `json:"description"`
	MonthlyUSD  decimal.Decimal `json:"monthly_usd"`
	AnnualUSD   decimal.Decimal `json:"annual_usd"`

	// Provider price IDs, configured per deployment. Empty on the free
	// tier and in deployments without billing configured.
	PriceMonthlyID string `json:"-"`
	PriceAnnualID  string `json:"-"`

	// MaxChildren caps child members per family. 0 = unlimited.
	MaxChildren int `json:"max_children"`
}

// PriceIDs carries the deployment's configured provider price IDs into
// the catalog.
type PriceIDs struct {
	FamilyPlusMonthly string `yaml:"family_plus_monthly"`
	FamilyPlusAnnual  string `yaml:"family_plus_annual"`
	FamilyProMonthly  string `yaml:"family_pro_monthly"`
	FamilyProAnnual   string `yaml:"family_pro_annual"`
}

// Catalog returns the plan tiers with the given price IDs attached.
func Catalog(prices PriceIDs) []Plan {
	return []Plan{
		{
			Name:        PlanFree,
			Label:       "Free",
			Description: "Basic chores and calendar for one household",
			MonthlyUSD:  decimal.Zero,
			AnnualUSD:   decimal.Zero,
			MaxChildren: 2,
		},
		{
			Name:           PlanFamilyPlus,
			Label:          "Family Plus",
			Description:    "Up to 6 kids, recurring chores, rewards, calendar sharing",
			MonthlyUSD:     decimal.New(1000, -2), // $10.00
			AnnualUSD:      decimal.New(9600, -2), // ~20% off
			PriceMonthlyID: prices.FamilyPlusMonthly,
			PriceAnnualID:  prices.FamilyPlusAnnual,
			MaxChildren:    6,
		},
		{
			Name:           PlanFamilyPro,
			Label:          "Family Pro",
			Description:    "Unlimited kids and integrations, priority support",
			MonthlyUSD:     decimal.New(1800, -2),  // $18.00
			AnnualUSD:      decimal.New(17280, -2), // ~20% off
			PriceMonthlyID: prices.FamilyProMonthly,
			PriceAnnualID:  prices.FamilyProAnnual,
			MaxChildren:    0, // unlimited
		},
	}
}

// PlanByName finds a plan in the catalog; unknown names resolve to the
// free tier so a stale or corrupted plan field never locks a family out.
func PlanByName(prices PriceIDs, name PlanName) Plan {
	catalog := Catalog(prices)
	for _, p := range catalog {
		if p.Name == name {
			return p
		}
	}
	return catalog[0]
}

// PriceToPlan maps a provider price ID to a plan name, falling back to
// free for unknown or empty IDs.
func PriceToPlan(prices PriceIDs, priceID string) PlanName {
	if priceID == "" {
		return PlanFree
	}
	for _, p := range Catalog(prices) {
		if p.PriceMonthlyID != "" && priceID == p.PriceMonthlyID {
			return p.Name
		}
		if p.PriceAnnualID != "" && priceID == p.PriceAnnualID {
			return p.Name
		}
	}
	return PlanFree
}
