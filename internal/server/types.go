package server

import (
	"github.com/shopspring/decimal"
)

// GenerateInvoiceRequest is the wire shape for invoice generation. InvoiceID
// and CustomerName are opaque pass-through values; a missing InvoiceID gets
// a generated one. Blank optional fields are treated as absent.
type GenerateInvoiceRequest struct {
	InvoiceID    string      `json:"invoiceId"`
	CustomerName string      `json:"customerName"`
	CountryCode  string      `json:"countryCode" binding:"required"`
	RegionCode   string      `json:"regionCode"`
	CustomerType string      `json:"customerType"`
	Items        []ItemInput `json:"items" binding:"required,min=1,dive"`
}

// ItemInput is one invoice line in a request. Quantity and unit price bounds
// are enforced by the calculator so that violations surface with precise
// field paths.
type ItemInput struct {
	Description string          `json:"description" binding:"required"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Category    string          `json:"category"`
}

// BreakdownOutput is one aggregated tax entry in a response.
type BreakdownOutput struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// InvoiceResponse carries the computed totals plus the rendered document.
// PDFContent is base64 in JSON; DownloadURL is empty when upload is disabled
// or failed.
type InvoiceResponse struct {
	InvoiceID   string            `json:"invoiceId"`
	Status      string            `json:"status"`
	Subtotal    decimal.Decimal   `json:"subtotal"`
	TaxTotal    decimal.Decimal   `json:"taxTotal"`
	GrandTotal  decimal.Decimal   `json:"grandTotal"`
	Breakdown   []BreakdownOutput `json:"breakdown"`
	DownloadURL string            `json:"downloadUrl,omitempty"`
	PDFContent  []byte            `json:"pdfContent,omitempty"`
}

// PreviewResponse carries totals only, without a rendered document.
type PreviewResponse struct {
	Subtotal   decimal.Decimal   `json:"subtotal"`
	TaxTotal   decimal.Decimal   `json:"taxTotal"`
	GrandTotal decimal.Decimal   `json:"grandTotal"`
	Breakdown  []BreakdownOutput `json:"breakdown"`
}
