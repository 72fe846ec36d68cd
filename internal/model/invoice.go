package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Jurisdiction is the country/region pair driving tax applicability.
// Region is optional; empty means no region constraint was supplied.
type Jurisdiction struct {
	Country string `json:"country"`
	Region  string `json:"region,omitempty"`
}

// InvoiceItem is a single line on an invoice request. Category is optional
// and selects category-specific tax rules (e.g. "standard" vs "reduced").
type InvoiceItem struct {
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Category    string          `json:"category,omitempty"`
}

// InvoiceResult is the computed financial outcome of one invoice.
// GrandTotal is always Subtotal + TaxTotal with no independent rounding.
type InvoiceResult struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	TaxTotal   decimal.Decimal `json:"taxTotal"`
	Breakdown  []TaxBreakdown  `json:"breakdown"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
}

// InvoiceDocument carries everything the document renderer needs.
type InvoiceDocument struct {
	InvoiceID    string
	CustomerName string
	Items        []InvoiceItem
	Subtotal     decimal.Decimal
	Breakdown    []TaxBreakdown
	GrandTotal   decimal.Decimal
	IssuedAt     time.Time
}
