package model

import "time"

// Header holds the document-level fields extracted from one purchase
// order or invoice. Immutable once a reconciliation result is built.
type Header struct {
	DocumentID   string     `json:"document_id"`
	VendorName   string     `json:"vendor_name"`
	TotalAmount  *float64   `json:"total_amount"`
	Currency     string     `json:"currency,omitempty"`
	DeliveryDate *time.Time `json:"delivery_date,omitempty"`
}

// LineItem is one extracted row of a document. LineNumber is 1-based and
// order-significant within its header.
type LineItem struct {
	LineNumber   int        `json:"line_number"`
	ItemCode     string     `json:"item_code,omitempty"`
	Description  string     `json:"description"`
	Quantity     *float64   `json:"quantity"`
	UnitPrice    *float64   `json:"unit_price"`
	LineTotal    *float64   `json:"line_total"`
	DeliveryDate *time.Time `json:"line_delivery_date,omitempty"`

	// Inherited is true only when DeliveryDate was copied down from the
	// header. An absent date is never "inherited".
	Inherited bool `json:"delivery_date_inherited"`
}

// ReferenceLineItem is one purchase order detail row from the reference
// system of record. Read-only except through the correction applier.
type ReferenceLineItem struct {
	ID           int64      `json:"id"`
	ItemCode     string     `json:"item_code,omitempty"`
	Description  string     `json:"description"`
	Quantity     *float64   `json:"quantity"`
	UnitPrice    *float64   `json:"unit_price"`
	LineTotal    *float64   `json:"line_total"`
	RequiredDate *time.Time `json:"required_date,omitempty"`
}

// Document pairs a header with its extracted line items.
type Document struct {
	Header Header     `json:"header"`
	Lines  []LineItem `json:"line_items"`
}
