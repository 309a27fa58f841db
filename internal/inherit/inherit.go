// Package inherit propagates a document-level delivery date to line items
// that lack their own.
package inherit

import (
	"time"

	"github.com/sells-group/recon-cli/internal/model"
)

// Apply copies headerDate onto every line item without an explicit
// delivery date, tagging those lines Inherited. Lines carrying their own
// date are left untouched with Inherited=false. With no header date there
// is nothing to inherit and all dateless lines stay nil, Inherited=false.
//
// Apply is pure and idempotent: the input slice is not mutated, and
// re-applying to its own output is a no-op. If the header date changed
// since a previous application, only lines marked Inherited pick up the
// new date.
func Apply(headerDate *time.Time, items []model.LineItem) []model.LineItem {
	out := make([]model.LineItem, len(items))
	for i, item := range items {
		switch {
		case item.DeliveryDate != nil && !item.Inherited:
			// Explicit line date wins.
			item.Inherited = false
		case headerDate != nil:
			d := *headerDate
			item.DeliveryDate = &d
			item.Inherited = true
		default:
			item.DeliveryDate = nil
			item.Inherited = false
		}
		out[i] = item
	}
	return out
}
