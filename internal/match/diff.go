package match

import (
	"github.com/sells-group/recon-cli/internal/model"
)

// Diff computes per-field deltas for one matched pair, using the same
// equality rules as scoring: epsilon for numerics, calendar-day equality
// for dates, case/whitespace-normalized equality for text. Unmatched
// lines get no DifferenceSet.
// Only fields that actually differ are present in the returned set, so a
// perfect match yields an empty DifferenceSet.
func (m *Matcher) Diff(line model.LineItem, ref model.ReferenceLineItem) model.DifferenceSet {
	diffs := model.DifferenceSet{}
	if !codesEqual(line.ItemCode, ref.ItemCode) {
		diffs[model.FieldItemCode] = true
	}
	if !textEqual(line.Description, ref.Description) {
		diffs[model.FieldDescription] = true
	}
	if !floatsEqual(line.Quantity, ref.Quantity, quantityEpsilon) {
		diffs[model.FieldQuantity] = true
	}
	if !pricesEqual(line.UnitPrice, ref.UnitPrice) {
		diffs[model.FieldUnitPrice] = true
	}
	if !datesEqual(line.DeliveryDate, ref.RequiredDate) {
		diffs[model.FieldDeliveryDate] = true
	}
	return diffs
}
