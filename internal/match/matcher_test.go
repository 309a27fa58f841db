package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/recon-cli/internal/model"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func fp(v float64) *float64 { return &v }

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func newTestMatcher(t *testing.T) *Matcher {
	t.Helper()
	m, err := New(DefaultWeights())
	require.NoError(t, err)
	return m
}

func TestNew_RejectsInvalidWeights(t *testing.T) {
	_, err := New(Weights{ItemCode: 1, Description: 1})
	require.Error(t, err)
}

func TestMatch_PerfectMatch(t *testing.T) {
	m := newTestMatcher(t)
	d := day(2025, 3, 15)

	lines := []model.LineItem{{
		LineNumber:   1,
		ItemCode:     "ABC-100",
		Description:  "Brass Valve 1/2in",
		Quantity:     fp(10),
		UnitPrice:    fp(25.50),
		DeliveryDate: d,
	}}
	cands := []model.ReferenceLineItem{{
		ID:           7,
		ItemCode:     "ABC-100",
		Description:  "Brass Valve 1/2in",
		Quantity:     fp(10),
		UnitPrice:    fp(25.50),
		RequiredDate: d,
	}}

	out := m.Match(lines, cands)

	require.Len(t, out, 1)
	require.True(t, out[0].Matched())
	assert.Equal(t, int64(7), out[0].Reference.ID)
	assert.Equal(t, 1.0, out[0].Score)
	assert.Equal(t, model.TierPerfect, out[0].Tier)
	assert.Empty(t, out[0].Differences)
}

func TestMatch_QuantityMismatch(t *testing.T) {
	m := newTestMatcher(t)
	d := day(2025, 3, 15)

	lines := []model.LineItem{{
		LineNumber:   1,
		ItemCode:     "ABC-100",
		Description:  "Brass Valve 1/2in",
		Quantity:     fp(10),
		UnitPrice:    fp(25.50),
		DeliveryDate: d,
	}}
	cands := []model.ReferenceLineItem{{
		ID:           7,
		ItemCode:     "ABC-100",
		Description:  "Brass Valve 1/2in",
		Quantity:     fp(12),
		UnitPrice:    fp(25.50),
		RequiredDate: d,
	}}

	out := m.Match(lines, cands)

	require.Len(t, out, 1)
	require.True(t, out[0].Matched())
	assert.InDelta(t, 0.85, out[0].Score, 1e-9)
	assert.Equal(t, model.TierGood, out[0].Tier)
	assert.Equal(t, model.DifferenceSet{model.FieldQuantity: true}, out[0].Differences)
}

func TestMatch_BothFieldsAbsentCountAsEqual(t *testing.T) {
	m := newTestMatcher(t)

	// No codes, no dates, no prices on either side: still a perfect match.
	lines := []model.LineItem{{
		LineNumber:  1,
		Description: "Widget",
		Quantity:    fp(5),
	}}
	cands := []model.ReferenceLineItem{{
		ID:          1,
		Description: "Widget",
		Quantity:    fp(5),
	}}

	out := m.Match(lines, cands)

	require.True(t, out[0].Matched())
	assert.Equal(t, 1.0, out[0].Score)
	assert.Equal(t, model.TierPerfect, out[0].Tier)
}

func TestMatch_NoCandidates(t *testing.T) {
	m := newTestMatcher(t)

	lines := []model.LineItem{
		{LineNumber: 1, Description: "Widget"},
		{LineNumber: 2, Description: "Gadget"},
	}

	out := m.Match(lines, nil)

	require.Len(t, out, 2)
	for _, mc := range out {
		assert.False(t, mc.Matched())
		assert.Equal(t, model.TierUnmatched, mc.Tier)
		assert.Zero(t, mc.Score)
		assert.Nil(t, mc.Differences)
	}
}

func TestMatch_MutualExclusivity(t *testing.T) {
	m := newTestMatcher(t)
	d := day(2025, 3, 15)

	// Two extracted lines both resemble candidate 1, but line 1 is the
	// better fit; line 2 must fall through to candidate 2.
	lines := []model.LineItem{
		{LineNumber: 1, ItemCode: "A-1", Description: "Steel Bolt M6", Quantity: fp(100), UnitPrice: fp(0.10), DeliveryDate: d},
		{LineNumber: 2, ItemCode: "A-1", Description: "Steel Bolt M6", Quantity: fp(100), UnitPrice: fp(0.10)},
	}
	cands := []model.ReferenceLineItem{
		{ID: 1, ItemCode: "A-1", Description: "Steel Bolt M6", Quantity: fp(100), UnitPrice: fp(0.10), RequiredDate: d},
		{ID: 2, ItemCode: "A-1", Description: "Steel Bolt M6", Quantity: fp(100), UnitPrice: fp(0.10), RequiredDate: day(2025, 3, 20)},
	}

	out := m.Match(lines, cands)

	require.True(t, out[0].Matched())
	require.True(t, out[1].Matched())
	assert.Equal(t, int64(1), out[0].Reference.ID)
	assert.Equal(t, int64(2), out[1].Reference.ID)
	assert.NotEqual(t, out[0].Reference.ID, out[1].Reference.ID)
}

func TestMatch_TieBreakDeterministic(t *testing.T) {
	m := newTestMatcher(t)

	// Identical scores everywhere: line 1 takes candidate 1, line 2 takes
	// candidate 2, every time.
	lines := []model.LineItem{
		{LineNumber: 1, ItemCode: "X", Description: "Part", Quantity: fp(1), UnitPrice: fp(2)},
		{LineNumber: 2, ItemCode: "X", Description: "Part", Quantity: fp(1), UnitPrice: fp(2)},
	}
	cands := []model.ReferenceLineItem{
		{ID: 2, ItemCode: "X", Description: "Part", Quantity: fp(1), UnitPrice: fp(2)},
		{ID: 1, ItemCode: "X", Description: "Part", Quantity: fp(1), UnitPrice: fp(2)},
	}

	for range 10 {
		out := m.Match(lines, cands)
		require.True(t, out[0].Matched())
		require.True(t, out[1].Matched())
		assert.Equal(t, int64(1), out[0].Reference.ID)
		assert.Equal(t, int64(2), out[1].Reference.ID)
	}
}

func TestMatch_ZeroScorePairsNotConsumed(t *testing.T) {
	m := newTestMatcher(t)

	// Nothing in common: the candidate must stay free, not be burned on a
	// zero-score pairing.
	lines := []model.LineItem{{LineNumber: 1, ItemCode: "A", Description: "Anvil", Quantity: fp(1), UnitPrice: fp(5), DeliveryDate: day(2025, 1, 1)}}
	cands := []model.ReferenceLineItem{{ID: 9, ItemCode: "B", Description: "Bucket", Quantity: fp(2), UnitPrice: fp(9), RequiredDate: day(2025, 6, 1)}}

	out := m.Match(lines, cands)

	require.Len(t, out, 1)
	assert.False(t, out[0].Matched())
	assert.Equal(t, model.TierUnmatched, out[0].Tier)
}

func TestMatch_MoreLinesThanCandidates(t *testing.T) {
	m := newTestMatcher(t)

	lines := []model.LineItem{
		{LineNumber: 1, ItemCode: "A", Description: "Anvil", Quantity: fp(1), UnitPrice: fp(5)},
		{LineNumber: 2, ItemCode: "A", Description: "Anvil", Quantity: fp(1), UnitPrice: fp(5)},
	}
	cands := []model.ReferenceLineItem{
		{ID: 1, ItemCode: "A", Description: "Anvil", Quantity: fp(1), UnitPrice: fp(5)},
	}

	out := m.Match(lines, cands)

	require.True(t, out[0].Matched())
	assert.False(t, out[1].Matched())
}

func TestDiff_OnlyDifferingFieldsPresent(t *testing.T) {
	m := newTestMatcher(t)
	d := day(2025, 3, 15)

	line := model.LineItem{ItemCode: "abc-100", Description: "Brass Valve", Quantity: fp(10), UnitPrice: fp(25.50), DeliveryDate: d}
	ref := model.ReferenceLineItem{ItemCode: "ABC-100", Description: "Brass Valve", Quantity: fp(12), UnitPrice: fp(25.50), RequiredDate: day(2025, 3, 20)}

	diffs := m.Diff(line, ref)

	assert.Equal(t, model.DifferenceSet{
		model.FieldQuantity:     true,
		model.FieldDeliveryDate: true,
	}, diffs)
	assert.True(t, diffs.HasDifferences())
}

func TestDiff_PerfectMatchIsEmpty(t *testing.T) {
	m := newTestMatcher(t)
	d := day(2025, 3, 15)

	line := model.LineItem{ItemCode: "ABC-100", Description: "Brass Valve", Quantity: fp(10), UnitPrice: fp(25.50), DeliveryDate: d}
	ref := model.ReferenceLineItem{ItemCode: "ABC-100", Description: "Brass Valve", Quantity: fp(10), UnitPrice: fp(25.50), RequiredDate: d}

	diffs := m.Diff(line, ref)

	assert.Empty(t, diffs)
	assert.False(t, diffs.HasDifferences())
}
