package stats

import (
	"GreenChoice-Backend/domain"
)

// BadgeCatalog is the full set of earnable badges. Membership is derived
// from the current aggregates on every refresh and never persisted.
var BadgeCatalog = []domain.Badge{
	{
		ID:          "first_scan",
		Name:        "First Steps",
		Icon:        "camera",
		Color:       "#2C5B3F",
		Description: "You scanned your first product.",
		Requirement: "Scan 1 product",
		Type:        domain.BadgeTypeScanCount,
		Threshold:   1,
	},
	{
		ID:          "eco_explorer",
		Name:        "Eco Explorer",
		Icon:        "compass",
		Color:       "#4B755C",
		Description: "Ten products analysed for their impact.",
		Requirement: "Scan 10 products",
		Type:        domain.BadgeTypeScanCount,
		Threshold:   10,
	},
	{
		ID:          "scan_veteran",
		Name:        "Scan Veteran",
		Icon:        "medal",
		Color:       "#6D4C41",
		Description: "Fifty products and counting.",
		Requirement: "Scan 50 products",
		Type:        domain.BadgeTypeScanCount,
		Threshold:   50,
	},
	{
		ID:          "green_starter",
		Name:        "Green Starter",
		Icon:        "leaf",
		Color:       "#8BC34A",
		Description: "You pick the greener option a quarter of the time.",
		Requirement: "25% greener choices",
		Type:        domain.BadgeTypeRate,
		Threshold:   25,
	},
	{
		ID:          "green_committed",
		Name:        "Committed to Green",
		Icon:        "sprout",
		Color:       "#4CAF50",
		Description: "Half of your choices are the greener alternative.",
		Requirement: "50% greener choices",
		Type:        domain.BadgeTypeRate,
		Threshold:   50,
	},
	{
		ID:          "green_champion",
		Name:        "Green Champion",
		Icon:        "tree",
		Color:       "#2E7D32",
		Description: "The greener alternative is your default.",
		Requirement: "75% greener choices",
		Type:        domain.BadgeTypeRate,
		Threshold:   75,
	},
}

// EarnedBadges returns every badge whose threshold the current aggregates
// meet. Both metrics only grow a badge set, never shrink it: a higher scan
// count or rate always yields a superset for the same other metric.
func EarnedBadges(totalScans int, rate float64) []domain.Badge {
	earned := make([]domain.Badge, 0, len(BadgeCatalog))
	for _, badge := range BadgeCatalog {
		switch badge.Type {
		case domain.BadgeTypeScanCount:
			if float64(totalScans) >= badge.Threshold {
				earned = append(earned, badge)
			}
		case domain.BadgeTypeRate:
			if rate >= badge.Threshold {
				earned = append(earned, badge)
			}
		}
	}
	return earned
}
