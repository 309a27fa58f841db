package refstore

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/recon-cli/internal/db"
	"github.com/sells-group/recon-cli/internal/normalize"
)

// importColumns is the expected column order of a reference line sheet:
// document_id, item_code, description, quantity, unit_price, required_date.
var importColumns = []string{"document_id", "item_code", "description", "quantity", "unit_price", "required_date"}

// ImportXLSX bulk-loads reference purchase order lines from a spreadsheet
// into po_lines, upserting on (document_id, item_code). The first row is
// treated as a header and skipped. Rows with unparsable numerics or dates
// keep the affected field null rather than aborting the import.
func ImportXLSX(ctx context.Context, pool db.Pool, path string) (int64, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return 0, eris.Wrap(err, "refstore: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return 0, eris.New("refstore: xlsx has no sheets")
	}

	cfg := normalize.Config{}
	var rows [][]any
	for i, row := range f.Sheets[0].Rows {
		if i == 0 {
			continue // header row
		}
		cells := make([]string, len(importColumns))
		for j := range cells {
			if j < len(row.Cells) {
				cells[j] = row.Cells[j].String()
			}
		}
		if cells[0] == "" {
			continue
		}

		qty, err := normalize.Quantity(cfg, cells[3])
		if err != nil {
			zap.L().Warn("import: bad quantity", zap.Int("row", i), zap.Error(err))
			qty = nil
		}
		price, err := normalize.Money(cfg, cells[4])
		if err != nil {
			zap.L().Warn("import: bad unit price", zap.Int("row", i), zap.Error(err))
			price = nil
		}
		required, err := normalize.Date(cfg, cells[5])
		if err != nil {
			zap.L().Warn("import: bad required date", zap.Int("row", i), zap.Error(err))
			required = nil
		}

		rows = append(rows, []any{cells[0], cells[1], cells[2], qty, price, required})
	}

	// po_lines references po_headers; make sure every document has one.
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		id := row[0].(string)
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, err := pool.Exec(ctx,
			`INSERT INTO po_headers (document_id) VALUES ($1) ON CONFLICT DO NOTHING`, id); err != nil {
			return 0, eris.Wrapf(err, "refstore: upsert header %s", id)
		}
	}

	n, err := db.BulkUpsert(ctx, pool, db.UpsertConfig{
		Table:        "po_lines",
		Columns:      importColumns,
		ConflictKeys: []string{"document_id", "item_code"},
	}, rows)
	if err != nil {
		return 0, err
	}

	zap.L().Info("reference lines imported", zap.String("path", path), zap.Int64("rows", n))
	return n, nil
}
