package model

// ConfidenceTier buckets a continuous match score.
type ConfidenceTier string

const (
	TierPerfect   ConfidenceTier = "PERFECT"
	TierGood      ConfidenceTier = "GOOD"
	TierFair      ConfidenceTier = "FAIR"
	TierPoor      ConfidenceTier = "POOR"
	TierUnmatched ConfidenceTier = "UNMATCHED"
)

// TierForScore maps a match score in [0,1] to its confidence tier.
// Callers pass matched=false when no candidate was consumed at all.
func TierForScore(score float64, matched bool) ConfidenceTier {
	switch {
	case !matched:
		return TierUnmatched
	case score >= 1.0:
		return TierPerfect
	case score >= 0.75:
		return TierGood
	case score >= 0.5:
		return TierFair
	default:
		return TierPoor
	}
}

// DifferenceSet maps a field name to whether the extracted and reference
// values differ. Computed only for matched pairs.
type DifferenceSet map[string]bool

// Fields tracked by the difference detector.
const (
	FieldItemCode     = "item_code"
	FieldDescription  = "description"
	FieldQuantity     = "quantity"
	FieldUnitPrice    = "unit_price"
	FieldDeliveryDate = "delivery_date"
)

// HasDifferences reports whether any tracked field differs.
func (d DifferenceSet) HasDifferences() bool {
	for _, differs := range d {
		if differs {
			return true
		}
	}
	return false
}

// MatchCandidate pairs one extracted line with zero or one reference line
// plus the score and tier the matcher assigned.
type MatchCandidate struct {
	Extracted   LineItem           `json:"extracted"`
	Reference   *ReferenceLineItem `json:"reference,omitempty"`
	Score       float64            `json:"match_score"`
	Tier        ConfidenceTier     `json:"confidence_tier"`
	Differences DifferenceSet      `json:"differences,omitempty"`
}

// Matched reports whether a reference line was consumed for this candidate.
func (m MatchCandidate) Matched() bool { return m.Reference != nil }
