package refstore

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/recon-cli/internal/db"
	"github.com/sells-group/recon-cli/internal/model"
)

// PostgresStore implements Store against the reference system's Postgres
// database.
type PostgresStore struct {
	pool db.Pool
}

// Ensure PostgresStore implements Store.
var _ Store = (*PostgresStore)(nil)

// NewPostgres creates a reference store over an existing pool. The store
// does not own the pool unless Close is called.
func NewPostgres(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Close releases the connection pool.
func (s *PostgresStore) Close() { s.pool.Close() }

const headerExistsSQL = `
SELECT document_id FROM po_headers WHERE document_id = $1`

const loadLinesSQL = `
SELECT id, item_code, description, quantity, unit_price, required_date
FROM po_lines
WHERE document_id = $1
ORDER BY id`

// LoadCandidates returns the purchase order lines recorded for a document.
// A missing header or an empty line set is not an error: the caller gets
// nil and every extracted line will reconcile as UNMATCHED.
func (s *PostgresStore) LoadCandidates(ctx context.Context, documentID string) ([]model.ReferenceLineItem, error) {
	var id string
	err := s.pool.QueryRow(ctx, headerExistsSQL, documentID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		zap.L().Warn("document not found in reference system", zap.String("document_id", documentID))
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "refstore: check header %s", documentID)
	}

	rows, err := s.pool.Query(ctx, loadLinesSQL, documentID)
	if err != nil {
		return nil, eris.Wrapf(err, "refstore: load lines for %s", documentID)
	}
	defer rows.Close()

	var items []model.ReferenceLineItem
	for rows.Next() {
		var item model.ReferenceLineItem
		if err := rows.Scan(&item.ID, &item.ItemCode, &item.Description,
			&item.Quantity, &item.UnitPrice, &item.RequiredDate); err != nil {
			return nil, eris.Wrap(err, "refstore: scan line")
		}
		if item.Quantity != nil && item.UnitPrice != nil {
			total := *item.Quantity * *item.UnitPrice
			item.LineTotal = &total
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "refstore: rows iteration")
	}

	if len(items) == 0 {
		zap.L().Warn("no reference lines for document", zap.String("document_id", documentID))
	}
	return items, nil
}

const lineExistsSQL = `
SELECT id FROM po_lines WHERE id = $1`

// ApplyCorrection validates and writes one correction. Only supplied
// fields are updated; the store's single-record atomicity covers the
// write. Identical repeated corrections succeed identically.
func (s *PostgresStore) ApplyCorrection(ctx context.Context, c Correction) error {
	if err := c.Validate(); err != nil {
		return err
	}

	var id int64
	err := s.pool.QueryRow(ctx, lineExistsSQL, c.ReferenceID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return eris.Wrapf(err, "refstore: check line %d", c.ReferenceID)
	}

	setClauses := make([]string, 0, 3)
	args := make([]any, 0, 4)
	addSet := func(column string, value any) {
		args = append(args, value)
		setClauses = append(setClauses, pgx.Identifier{column}.Sanitize()+" = $"+strconv.Itoa(len(args)))
	}
	if c.Quantity != nil {
		addSet("quantity", *c.Quantity)
	}
	if c.UnitPrice != nil {
		addSet("unit_price", *c.UnitPrice)
	}
	if c.DeliveryDate != nil {
		addSet("required_date", *c.DeliveryDate)
	}
	args = append(args, c.ReferenceID)

	sql := "UPDATE po_lines SET " + strings.Join(setClauses, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args))

	tag, err := s.pool.Exec(ctx, sql, args...)
	if err != nil {
		if isInvoicedLock(err) {
			return ErrLocked
		}
		return eris.Wrapf(err, "refstore: update line %d", c.ReferenceID)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	zap.L().Info("correction applied",
		zap.Int64("reference_id", c.ReferenceID),
		zap.Bool("quantity", c.Quantity != nil),
		zap.Bool("unit_price", c.UnitPrice != nil),
		zap.Bool("delivery_date", c.DeliveryDate != nil),
	)
	return nil
}

// isInvoicedLock recognizes the reference system's business rule error
// raised when an invoiced purchase order line is updated.
func isInvoicedLock(err error) bool {
	return strings.Contains(err.Error(), "referenced on an Invoice")
}
