package pdf

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-api/internal/model"
	"github.com/rezonia/invoice-api/internal/money"
)

func sampleDocument() model.InvoiceDocument {
	return model.InvoiceDocument{
		InvoiceID:    "INV-1001",
		CustomerName: "ACME Ltd",
		Items: []model.InvoiceItem{
			{Description: "Widget", Quantity: 2, UnitPrice: money.MustFromString("50.00")},
			{Description: "Gadget", Quantity: 1, UnitPrice: money.MustFromString("30.00")},
		},
		Subtotal: money.MustFromString("130.00"),
		Breakdown: []model.TaxBreakdown{
			{Name: "GST", Amount: money.MustFromString("23.40")},
		},
		GrandTotal: money.MustFromString("153.40"),
		IssuedAt:   time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestPageDescription(t *testing.T) {
	data, err := pageDescription(sampleDocument())
	require.NoError(t, err)

	var spec createSpec
	require.NoError(t, json.Unmarshal(data, &spec))

	assert.Equal(t, "A4", spec.Paper)
	require.Contains(t, spec.Pages, "1")

	values := make([]string, 0)
	for _, line := range spec.Pages["1"].Content.Text {
		values = append(values, line.Value)
	}

	assert.Contains(t, values, "Invoice #INV-1001")
	assert.Contains(t, values, "Customer: ACME Ltd")
	assert.Contains(t, values, "Date: 2026-08-01")
	assert.Contains(t, values, "Subtotal: 130.00")
	assert.Contains(t, values, "GST: 23.40")
	assert.Contains(t, values, "Grand Total: 153.40")
}

func TestPageDescription_LinesDescend(t *testing.T) {
	data, err := pageDescription(sampleDocument())
	require.NoError(t, err)

	var spec createSpec
	require.NoError(t, json.Unmarshal(data, &spec))

	lines := spec.Pages["1"].Content.Text
	require.NotEmpty(t, lines)
	for i := 1; i < len(lines); i++ {
		assert.Less(t, lines[i].Dy, lines[i-1].Dy, "line %d must sit below line %d", i, i-1)
	}
}

func TestRender_ProducesPDFBytes(t *testing.T) {
	renderer := NewRenderer()

	data, err := renderer.Render(sampleDocument())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short", 40))
	assert.Equal(t, "abcd", clip("abcdef", 4))
}
