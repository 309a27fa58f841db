package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/recon-cli/internal/model"
)

func fp(v float64) *float64 { return &v }

func matched(lineTotal float64, score float64, tier model.ConfidenceTier) model.MatchCandidate {
	return model.MatchCandidate{
		Extracted: model.LineItem{LineTotal: fp(lineTotal)},
		Reference: &model.ReferenceLineItem{ID: 1},
		Score:     score,
		Tier:      tier,
	}
}

func unmatched(lineTotal *float64) model.MatchCandidate {
	return model.MatchCandidate{
		Extracted: model.LineItem{LineTotal: lineTotal},
		Tier:      model.TierUnmatched,
	}
}

func TestBuild_TotalsAgree(t *testing.T) {
	header := model.Header{DocumentID: "PO-1001", TotalAmount: fp(300)}
	lines := []model.MatchCandidate{
		matched(100, 1.0, model.TierPerfect),
		matched(200, 1.0, model.TierPerfect),
	}

	result := Build(header, lines)

	assert.InDelta(t, 300, result.CalculatedTotal, 1e-9)
	assert.False(t, result.Mismatch)
}

func TestBuild_MismatchBoundary(t *testing.T) {
	// Exactly at tolerance: not a mismatch. Just past it: mismatch.
	header := model.Header{TotalAmount: fp(100.00)}

	result := Build(header, []model.MatchCandidate{matched(100.01, 1.0, model.TierPerfect)})
	assert.False(t, result.Mismatch)

	result = Build(header, []model.MatchCandidate{matched(100.02, 1.0, model.TierPerfect)})
	assert.True(t, result.Mismatch)
}

func TestBuild_NoHeaderTotal(t *testing.T) {
	result := Build(model.Header{}, []model.MatchCandidate{matched(500, 1.0, model.TierPerfect)})

	assert.InDelta(t, 500, result.CalculatedTotal, 1e-9)
	assert.False(t, result.Mismatch)
}

func TestBuild_NilLineTotalsSkipped(t *testing.T) {
	header := model.Header{TotalAmount: fp(100)}
	lines := []model.MatchCandidate{
		matched(100, 1.0, model.TierPerfect),
		unmatched(nil),
	}

	result := Build(header, lines)
	assert.InDelta(t, 100, result.CalculatedTotal, 1e-9)
	assert.False(t, result.Mismatch)
}

func TestBuild_Summary(t *testing.T) {
	lines := []model.MatchCandidate{
		matched(0, 1.0, model.TierPerfect),
		matched(0, 0.85, model.TierGood),
		matched(0, 0.60, model.TierFair),
		unmatched(nil),
	}

	result := Build(model.Header{}, lines)
	s := result.Summary

	assert.Equal(t, 4, s.TotalLines)
	assert.Equal(t, 1, s.PerfectMatches)
	assert.Equal(t, 2, s.PartialMatches)
	assert.Equal(t, 1, s.Unmatched)
	assert.InDelta(t, (1.0+0.85+0.60)/4, s.OverallScore, 1e-9)
	assert.InDelta(t, 25, s.AccuracyPercentage, 1e-9)
}

func TestBuild_Empty(t *testing.T) {
	result := Build(model.Header{}, nil)

	require.Equal(t, 0, result.Summary.TotalLines)
	assert.Zero(t, result.CalculatedTotal)
	assert.Zero(t, result.Summary.OverallScore)
	assert.False(t, result.Mismatch)
}
