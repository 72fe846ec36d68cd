// Package pdf renders invoice documents to PDF bytes using pdfcpu's
// declarative page description.
package pdf

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/rezonia/invoice-api/internal/model"
)

// Renderer produces a single-page A4 invoice document.
type Renderer struct{}

// NewRenderer creates a new PDF renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render produces the invoice as an opaque PDF byte sequence. It reads only
// the document it is given and performs no storage or network I/O.
func (r *Renderer) Render(doc model.InvoiceDocument) ([]byte, error) {
	description, err := pageDescription(doc)
	if err != nil {
		return nil, fmt.Errorf("build page description: %w", err)
	}

	var buf bytes.Buffer
	if err := api.Create(nil, bytes.NewReader(description), &buf, nil); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", doc.InvoiceID, err)
	}
	return buf.Bytes(), nil
}

// createSpec mirrors the subset of pdfcpu's create JSON the renderer uses.
type createSpec struct {
	Paper string              `json:"paper"`
	Pages map[string]pageSpec `json:"pages"`
}

type pageSpec struct {
	Content contentSpec `json:"content"`
}

type contentSpec struct {
	Text []textSpec `json:"text"`
}

type textSpec struct {
	Value  string   `json:"value"`
	Anchor string   `json:"anchor"`
	Dx     float64  `json:"dx"`
	Dy     float64  `json:"dy"`
	Font   fontSpec `json:"font"`
}

type fontSpec struct {
	Name string  `json:"name"`
	Size float64 `json:"size"`
}

const (
	marginX    = 40.0
	lineHeight = 18.0
)

func pageDescription(doc model.InvoiceDocument) ([]byte, error) {
	var lines []textSpec
	y := 40.0

	// Offsets are anchored top-left; dy grows downward as negative values.
	add := func(value, font string, size float64) {
		lines = append(lines, textSpec{
			Value:  value,
			Anchor: "tl",
			Dx:     marginX,
			Dy:     -y,
			Font:   fontSpec{Name: font, Size: size},
		})
		y += lineHeight
	}

	add(fmt.Sprintf("Invoice #%s", doc.InvoiceID), "Helvetica-Bold", 20)
	y += lineHeight / 2
	add(fmt.Sprintf("Customer: %s", doc.CustomerName), "Helvetica", 12)
	add(fmt.Sprintf("Date: %s", doc.IssuedAt.Format("2006-01-02")), "Helvetica", 12)
	y += lineHeight / 2

	add(fmt.Sprintf("%-40s %8s %12s", "Description", "Qty", "Price"), "Courier-Bold", 10)
	for _, item := range doc.Items {
		add(fmt.Sprintf("%-40s %8d %12s", clip(item.Description, 40), item.Quantity, item.UnitPrice.StringFixed(2)), "Courier", 10)
	}
	y += lineHeight / 2

	add(fmt.Sprintf("Subtotal: %s", doc.Subtotal.StringFixed(2)), "Helvetica", 12)
	for _, entry := range doc.Breakdown {
		add(fmt.Sprintf("%s: %s", entry.Name, entry.Amount.StringFixed(2)), "Helvetica", 12)
	}
	add(fmt.Sprintf("Grand Total: %s", doc.GrandTotal.StringFixed(2)), "Helvetica-Bold", 14)

	spec := createSpec{
		Paper: "A4",
		Pages: map[string]pageSpec{
			"1": {Content: contentSpec{Text: lines}},
		},
	}
	return json.Marshal(spec)
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
