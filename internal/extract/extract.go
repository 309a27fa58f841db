// Package extract turns raw document text into a structured header and
// line items using an AI extraction call.
package extract

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/recon-cli/internal/model"
	"github.com/sells-group/recon-cli/internal/normalize"
)

// Extractor converts raw document text into a Document.
type Extractor interface {
	Extract(ctx context.Context, text string) (*model.Document, error)
}

const extractionPrompt = `You are a document data extraction expert. Extract structured data from this purchase order or invoice text.

Rules for delivery dates:
- If a delivery date appears at document level (e.g., "Delivery Date: March 15") put it in header.delivery_date and leave line_delivery_date null.
- If delivery dates appear for specific line items, put them in each line_delivery_date.
- Never invent dates.

Return ONLY a JSON object with this exact structure:
{
  "header": {
    "document_id": "string or null",
    "vendor_name": "string or null",
    "total_amount": number or null,
    "currency": "string or null",
    "delivery_date": "YYYY-MM-DD or null"
  },
  "line_items": [
    {
      "line_number": number,
      "item_code": "string or null",
      "description": "string",
      "quantity": number or null,
      "unit_price": number or null,
      "line_total": number or null,
      "line_delivery_date": "YYYY-MM-DD or null"
    }
  ]
}

Document text:
%s`

// payload mirrors the JSON shape the model is asked to produce. Dates
// and currency stay strings here; normalization happens afterwards and
// failures null the field instead of failing the document.
type payload struct {
	Header struct {
		DocumentID   string   `json:"document_id"`
		VendorName   string   `json:"vendor_name"`
		TotalAmount  *float64 `json:"total_amount"`
		Currency     string   `json:"currency"`
		DeliveryDate string   `json:"delivery_date"`
	} `json:"header"`
	LineItems []struct {
		LineNumber   int      `json:"line_number"`
		ItemCode     string   `json:"item_code"`
		Description  string   `json:"description"`
		Quantity     *float64 `json:"quantity"`
		UnitPrice    *float64 `json:"unit_price"`
		LineTotal    *float64 `json:"line_total"`
		DeliveryDate string   `json:"line_delivery_date"`
	} `json:"line_items"`
}

// parseResponse extracts the JSON object from a model response (tolerating
// fences and prose around it) and normalizes it into a Document.
func parseResponse(responseText string, cfg normalize.Config) (*model.Document, error) {
	jsonStr := extractJSON(responseText)
	if jsonStr == "" {
		return nil, eris.New("extract: no JSON object in response")
	}

	var p payload
	if err := json.Unmarshal([]byte(jsonStr), &p); err != nil {
		return nil, eris.Wrap(err, "extract: unmarshal response")
	}

	doc := &model.Document{
		Header: model.Header{
			DocumentID:  strings.TrimSpace(p.Header.DocumentID),
			VendorName:  strings.TrimSpace(p.Header.VendorName),
			TotalAmount: p.Header.TotalAmount,
		},
	}

	doc.Header.DeliveryDate = softDate(cfg, p.Header.DeliveryDate, "header.delivery_date")
	if cur, err := normalize.Currency(p.Header.Currency); err == nil {
		doc.Header.Currency = cur
	} else {
		zap.L().Warn("dropping unparsable currency", zap.String("value", p.Header.Currency))
	}

	for i, raw := range p.LineItems {
		line := model.LineItem{
			LineNumber:  raw.LineNumber,
			ItemCode:    strings.TrimSpace(raw.ItemCode),
			Description: strings.TrimSpace(raw.Description),
			Quantity:    raw.Quantity,
			UnitPrice:   raw.UnitPrice,
			LineTotal:   raw.LineTotal,
		}
		if line.LineNumber == 0 {
			line.LineNumber = i + 1
		}
		line.DeliveryDate = softDate(cfg, raw.DeliveryDate, "line_delivery_date")
		doc.Lines = append(doc.Lines, line)
	}

	return doc, nil
}

// softDate parses a date, nulling the field on failure per the error
// contract: normalization never fails the whole document.
func softDate(cfg normalize.Config, value, field string) *time.Time {
	d, err := normalize.Date(cfg, value)
	if err != nil {
		zap.L().Warn("dropping unparsable date",
			zap.String("field", field),
			zap.String("value", value),
		)
		return nil
	}
	return d
}

// extractJSON returns the first top-level JSON object in s, handling
// fenced code blocks and surrounding prose.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
