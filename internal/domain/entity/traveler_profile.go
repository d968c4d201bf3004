package entity

import "strings"

// CabinClass is the requested or offered cabin. It doubles as the comfort tier of a traveler.
type CabinClass string

const (
	CabinEconomy        CabinClass = "ECONOMY"
	CabinPremiumEconomy CabinClass = "PREMIUM_ECONOMY"
	CabinBusiness       CabinClass = "BUSINESS"
	CabinFirst          CabinClass = "FIRST"
)

// ParseCabinClass accepts any casing and "-" or " " separators. Unknown values return false.
func ParseCabinClass(value string) (CabinClass, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	switch CabinClass(normalized) {
	case CabinEconomy, CabinPremiumEconomy, CabinBusiness, CabinFirst:
		return CabinClass(normalized), true
	case "PREMIUMECONOMY":
		return CabinPremiumEconomy, true
	}
	return "", false
}

// BudgetTier drives the price ceiling used for scoring
type BudgetTier string

const (
	BudgetLow    BudgetTier = "low"
	BudgetMedium BudgetTier = "medium"
	BudgetHigh   BudgetTier = "high"
	BudgetLuxury BudgetTier = "luxury"
)

// ParseBudgetTier accepts any casing. Unknown values return false.
func ParseBudgetTier(value string) (BudgetTier, bool) {
	switch t := BudgetTier(strings.ToLower(strings.TrimSpace(value))); t {
	case BudgetLow, BudgetMedium, BudgetHigh, BudgetLuxury:
		return t, true
	}
	return "", false
}

// DefaultMaxLayovers is used when a profile does not state a layover tolerance
const DefaultMaxLayovers = 2

// TravelerProfile holds the scoring preferences of one traveler
type TravelerProfile struct {
	BudgetTier        BudgetTier `json:"budgetTier"`
	ComfortTier       CabinClass `json:"comfortTier"`
	MaxLayovers       int        `json:"maxLayovers"`
	PreferredCarriers []string   `json:"preferredCarriers"`
	SeatPreference    string     `json:"seatPreference,omitempty"`
	MealPreference    string     `json:"mealPreference,omitempty"`
}

// DefaultTravelerProfile is substituted for anonymous travelers
func DefaultTravelerProfile() TravelerProfile {
	return TravelerProfile{
		BudgetTier:        BudgetMedium,
		ComfortTier:       CabinEconomy,
		MaxLayovers:       DefaultMaxLayovers,
		PreferredCarriers: []string{},
	}
}

// ResolveProfile returns the default profile for nil, otherwise a copy with
// unknown or empty fields replaced by their defaults.
func ResolveProfile(p *TravelerProfile) TravelerProfile {
	def := DefaultTravelerProfile()
	if p == nil {
		return def
	}

	resolved := *p
	if tier, ok := ParseBudgetTier(string(p.BudgetTier)); ok {
		resolved.BudgetTier = tier
	} else {
		resolved.BudgetTier = def.BudgetTier
	}
	if cabin, ok := ParseCabinClass(string(p.ComfortTier)); ok {
		resolved.ComfortTier = cabin
	} else {
		resolved.ComfortTier = def.ComfortTier
	}
	if resolved.MaxLayovers < 0 {
		resolved.MaxLayovers = def.MaxLayovers
	}

	carriers := make([]string, 0, len(p.PreferredCarriers))
	for _, c := range p.PreferredCarriers {
		if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
			carriers = append(carriers, c)
		}
	}
	resolved.PreferredCarriers = carriers
	return resolved
}
