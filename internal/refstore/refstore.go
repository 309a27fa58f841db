// Package refstore reads and corrects purchase order line items in the
// reference system of record. It is the only write path into reference
// data.
package refstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/recon-cli/internal/model"
)

// ErrNotFound is returned when a reference line item does not exist.
var ErrNotFound = eris.New("refstore: reference line item not found")

// ErrLocked is returned when the reference system refuses the update
// because the line has already been invoiced.
var ErrLocked = eris.New("refstore: line item is invoiced and cannot be modified")

// ValidationError rejects a correction before any write is attempted.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "refstore: invalid correction: " + strings.Join(e.Problems, "; ")
}

// Correction is a human-confirmed update to one reference line item.
// Nil fields are left unchanged.
type Correction struct {
	ReferenceID  int64      `json:"reference_id"`
	Quantity     *float64   `json:"quantity,omitempty"`
	UnitPrice    *float64   `json:"unit_price,omitempty"`
	DeliveryDate *time.Time `json:"delivery_date,omitempty"`
}

// Validate checks a correction's fields without touching the store.
func (c Correction) Validate() error {
	var problems []string
	if c.ReferenceID <= 0 {
		problems = append(problems, "reference_id must be positive")
	}
	if c.Quantity != nil && *c.Quantity <= 0 {
		problems = append(problems, fmt.Sprintf("quantity must be > 0, got %g", *c.Quantity))
	}
	if c.UnitPrice != nil && *c.UnitPrice < 0 {
		problems = append(problems, fmt.Sprintf("unit_price must be >= 0, got %g", *c.UnitPrice))
	}
	if c.Quantity == nil && c.UnitPrice == nil && c.DeliveryDate == nil {
		problems = append(problems, "no fields supplied")
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Loader returns the reference line items plausibly associated with a
// document. An empty result is soft: every extracted line reconciles as
// UNMATCHED.
type Loader interface {
	LoadCandidates(ctx context.Context, documentID string) ([]model.ReferenceLineItem, error)
}

// Applier writes a confirmed correction back to the reference store.
// Applying the same correction twice yields the same state, not an error.
type Applier interface {
	ApplyCorrection(ctx context.Context, c Correction) error
}

// Store is the combined read/write interface over the reference system.
type Store interface {
	Loader
	Applier
	Close()
}
