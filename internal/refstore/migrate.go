package refstore

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/recon-cli/internal/db"
)

const referenceMigration = `
CREATE TABLE IF NOT EXISTS po_headers (
	document_id   TEXT PRIMARY KEY,
	vendor_name   TEXT,
	purchase_date DATE
);

CREATE TABLE IF NOT EXISTS po_lines (
	id            BIGSERIAL PRIMARY KEY,
	document_id   TEXT NOT NULL REFERENCES po_headers(document_id),
	item_code     TEXT,
	description   TEXT,
	quantity      DOUBLE PRECISION,
	unit_price    DOUBLE PRECISION,
	required_date DATE,
	UNIQUE (document_id, item_code)
);

CREATE INDEX IF NOT EXISTS idx_po_lines_document_id ON po_lines(document_id);
`

// Migrate creates the reference schema. Intended for local development
// and tests; production points at the reference system's own database.
func Migrate(ctx context.Context, pool db.Pool) error {
	_, err := pool.Exec(ctx, referenceMigration)
	return eris.Wrap(err, "refstore: migrate")
}
