package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/recon-cli/internal/model"
)

func testRuns() []model.Run {
	base := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	return []model.Run{
		{
			ID:         "11111111-aaaa",
			DocumentID: "PO-1001",
			Status:     model.RunStatusComplete,
			Result:     &model.ReconciliationResult{Summary: model.Summary{AccuracyPercentage: 100}},
			CreatedAt:  base,
			UpdatedAt:  base.Add(30 * time.Second),
		},
		{
			ID:         "22222222-bbbb",
			DocumentID: "PO-2002",
			Status:     model.RunStatusComplete,
			Result:     &model.ReconciliationResult{Summary: model.Summary{AccuracyPercentage: 50}},
			CreatedAt:  base,
			UpdatedAt:  base.Add(10 * time.Second),
		},
		{
			ID:        "33333333-cccc",
			Source:    "invoices/broken.pdf",
			Status:    model.RunStatusFailed,
			Error:     "no text extracted",
			CreatedAt: base,
			UpdatedAt: base,
		},
		{
			ID:         "44444444-dddd",
			DocumentID: "PO-3003",
			Status:     model.RunStatusReconciling,
			CreatedAt:  base,
			UpdatedAt:  base,
		},
	}
}

func TestComputeRunStats(t *testing.T) {
	s := computeRunStats(testRuns())

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Complete)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.InFlight)
	assert.InDelta(t, 75, s.AvgAccuracy, 1e-9)
	assert.InDelta(t, 20, s.AvgDurSecs, 1e-9)
}

func TestComputeRunStats_Empty(t *testing.T) {
	s := computeRunStats(nil)
	assert.Zero(t, s.Total)
	assert.Zero(t, s.AvgAccuracy)
	assert.Zero(t, s.AvgDurSecs)
}

func TestFormatRunsList(t *testing.T) {
	var buf bytes.Buffer
	formatRunsList(&buf, testRuns())

	out := buf.String()
	assert.Contains(t, out, "11111111")
	assert.Contains(t, out, "PO-1001")
	assert.Contains(t, out, "100.0%")
	// Failed run has no document ID; falls back to the source path.
	assert.Contains(t, out, "invoices/broken.pdf")
	assert.NotContains(t, out, "11111111-aaaa")
}

func TestFormatRunStats(t *testing.T) {
	var buf bytes.Buffer
	formatRunStats(&buf, computeRunStats(testRuns()))

	out := buf.String()
	assert.Contains(t, out, "Total runs:")
	assert.Contains(t, out, "Avg accuracy:")
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "12345678", truncateID("12345678-rest"))
	assert.Equal(t, "short", truncateID("short"))
}
