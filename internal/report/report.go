// Package report assembles per-line match candidates into a single
// reconciliation result with document-level aggregates.
package report

import (
	"math"

	"github.com/sells-group/recon-cli/internal/model"
)

// totalTolerance is the absolute currency-unit tolerance when comparing
// the calculated total against the header total.
const totalTolerance = 0.01

// Build computes the document-level aggregates over the ordered match
// candidates. Ordering follows the extracted line items and governs
// presentation order. Build never mutates its inputs.
func Build(header model.Header, lines []model.MatchCandidate) model.ReconciliationResult {
	var calculated float64
	for _, line := range lines {
		if line.Extracted.LineTotal != nil {
			calculated += *line.Extracted.LineTotal
		}
	}

	mismatch := false
	if header.TotalAmount != nil {
		mismatch = math.Abs(calculated-*header.TotalAmount) > totalTolerance
	}

	return model.ReconciliationResult{
		Header:          header,
		Lines:           lines,
		CalculatedTotal: calculated,
		Mismatch:        mismatch,
		Summary:         summarize(lines),
	}
}

// summarize counts tiers and averages match scores across matched lines.
func summarize(lines []model.MatchCandidate) model.Summary {
	s := model.Summary{TotalLines: len(lines)}
	if len(lines) == 0 {
		return s
	}

	var totalScore float64
	for _, line := range lines {
		switch {
		case !line.Matched():
			s.Unmatched++
		case line.Tier == model.TierPerfect:
			s.PerfectMatches++
			totalScore += line.Score
		default:
			s.PartialMatches++
			totalScore += line.Score
		}
	}

	s.OverallScore = totalScore / float64(len(lines))
	s.AccuracyPercentage = float64(s.PerfectMatches) / float64(len(lines)) * 100
	return s
}
