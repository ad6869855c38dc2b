package schema

import "strings"

// BudgetTier is the spending level a trip is planned for
type BudgetTier string

const (
	BudgetTierBudget   BudgetTier = "Budget"
	BudgetTierModerate BudgetTier = "Moderate"
	BudgetTierLuxury   BudgetTier = "Luxury"
)

// BudgetTiers lists the recognized tiers in display order
var BudgetTiers = []BudgetTier{BudgetTierBudget, BudgetTierModerate, BudgetTierLuxury}

// ParseBudgetTier matches s case-insensitively against the recognized tiers.
// The second return value is false when s names no tier.
func ParseBudgetTier(s string) (BudgetTier, bool) {
	s = strings.TrimSpace(s)
	for _, t := range BudgetTiers {
		if strings.EqualFold(string(t), s) {
			return t, true
		}
	}
	return BudgetTier(s), false
}

// Valid reports whether t is one of the recognized tiers
func (t BudgetTier) Valid() bool {
	for _, v := range BudgetTiers {
		if v == t {
			return true
		}
	}
	return false
}

func (t BudgetTier) String() string {
	return string(t)
}
