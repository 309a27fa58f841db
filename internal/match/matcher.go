package match

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/recon-cli/internal/model"
)

// Matcher scores and assigns extracted line items to reference line items.
type Matcher struct {
	weights Weights
}

// New creates a Matcher with validated weights.
func New(weights Weights) (*Matcher, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Matcher{weights: weights}, nil
}

// scoredPair is one (extracted, candidate) combination under consideration.
type scoredPair struct {
	lineIdx int
	candIdx int
	score   float64
	perfect bool
	lineNum int
	candID  int64
}

// Match pairs each extracted line item with at most one reference
// candidate. Assignment is greedy best-score-first with mutual
// exclusivity; ties break by ascending extracted line number, then
// ascending candidate ID, so results are deterministic. Zero-score pairs
// are never consumed. Output preserves extracted line order.
func (m *Matcher) Match(extracted []model.LineItem, candidates []model.ReferenceLineItem) []model.MatchCandidate {
	pairs := make([]scoredPair, 0, len(extracted)*len(candidates))
	for i, line := range extracted {
		for j, cand := range candidates {
			score, perfect := m.score(line, cand)
			if score <= 0 {
				continue
			}
			pairs = append(pairs, scoredPair{
				lineIdx: i,
				candIdx: j,
				score:   score,
				perfect: perfect,
				lineNum: line.LineNumber,
				candID:  cand.ID,
			})
		}
	}

	sort.Slice(pairs, func(a, b int) bool {
		pa, pb := pairs[a], pairs[b]
		if pa.score != pb.score {
			return pa.score > pb.score
		}
		if pa.lineNum != pb.lineNum {
			return pa.lineNum < pb.lineNum
		}
		return pa.candID < pb.candID
	})

	assigned := make(map[int]int, len(extracted)) // lineIdx -> pair index
	lineTaken := make([]bool, len(extracted))
	candTaken := make([]bool, len(candidates))
	for idx, p := range pairs {
		if lineTaken[p.lineIdx] || candTaken[p.candIdx] {
			continue
		}
		lineTaken[p.lineIdx] = true
		candTaken[p.candIdx] = true
		assigned[p.lineIdx] = idx
	}

	results := make([]model.MatchCandidate, len(extracted))
	for i, line := range extracted {
		mc := model.MatchCandidate{
			Extracted: line,
			Tier:      model.TierUnmatched,
		}
		if idx, ok := assigned[i]; ok {
			p := pairs[idx]
			ref := candidates[p.candIdx]
			score := p.score
			if p.perfect {
				score = 1.0
			}
			mc.Reference = &ref
			mc.Score = score
			mc.Tier = model.TierForScore(score, true)
			mc.Differences = m.Diff(line, ref)
		}
		results[i] = mc
	}

	matched := 0
	for _, r := range results {
		if r.Matched() {
			matched++
		}
	}
	zap.L().Debug("line item matching complete",
		zap.Int("extracted", len(extracted)),
		zap.Int("candidates", len(candidates)),
		zap.Int("matched", matched),
	)

	return results
}

// score computes the weighted similarity of one pair. The second return
// is true when every field indicator is exactly 1, which pins the score
// to 1.0 regardless of floating point drift in the weight sum.
func (m *Matcher) score(line model.LineItem, cand model.ReferenceLineItem) (float64, bool) {
	codeInd := boolInd(codesEqual(line.ItemCode, cand.ItemCode))
	descInd := descriptionSimilarity(line.Description, cand.Description)
	qtyInd := boolInd(floatsEqual(line.Quantity, cand.Quantity, quantityEpsilon))
	priceInd := boolInd(pricesEqual(line.UnitPrice, cand.UnitPrice))
	dateInd := boolInd(datesEqual(line.DeliveryDate, cand.RequiredDate))

	score := m.weights.ItemCode*codeInd +
		m.weights.Description*descInd +
		m.weights.Quantity*qtyInd +
		m.weights.UnitPrice*priceInd +
		m.weights.DeliveryDate*dateInd

	perfect := codeInd == 1 && descInd == 1 && qtyInd == 1 && priceInd == 1 && dateInd == 1
	return score, perfect
}

func boolInd(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// codesEqual compares item codes case-insensitively with whitespace
// normalization. Both absent counts as a match; one absent does not.
func codesEqual(a, b string) bool {
	na, nb := normalizeText(a), normalizeText(b)
	return na == nb
}

// datesEqual compares at calendar-day precision. Both nil is a match.
func datesEqual(a, b *time.Time) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
