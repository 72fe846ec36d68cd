package invoicelib_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-api/pkg/invoicelib"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestEngine_DefaultRules(t *testing.T) {
	engine := invoicelib.NewEngine()

	components := engine.Resolve("SG", "", "", "")
	require.Len(t, components, 1)
	assert.Equal(t, "GST", components[0].Name)

	assert.Empty(t, engine.Resolve("FR", "", "", ""))
	assert.Len(t, engine.Rules(), 4)
}

func TestEngine_Calculate(t *testing.T) {
	engine := invoicelib.NewEngine()

	items := []invoicelib.Item{
		{Description: "Bundle", Quantity: 1, UnitPrice: dec(t, "130.00")},
	}

	result, err := engine.Calculate(items, invoicelib.Jurisdiction{Country: "SG"}, "")
	require.NoError(t, err)

	assert.True(t, result.Subtotal.Equal(dec(t, "130.00")))
	require.Len(t, result.Breakdown, 1)
	assert.True(t, result.Breakdown[0].Amount.Equal(dec(t, "11.70")))
	assert.True(t, result.GrandTotal.Equal(dec(t, "141.70")))
}

func TestEngine_CalculateValidation(t *testing.T) {
	engine := invoicelib.NewEngine()

	_, err := engine.Calculate(nil, invoicelib.Jurisdiction{}, "")
	require.Error(t, err)

	var verr *invoicelib.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "country", verr.Field)
}

func TestEngine_CustomRules(t *testing.T) {
	rules := []invoicelib.TaxRule{
		{
			Country:    "NO",
			Components: []invoicelib.TaxComponent{{Name: "MVA", Rate: dec(t, "0.25")}},
		},
	}
	engine := invoicelib.NewEngineWithRules(rules)

	items := []invoicelib.Item{
		{Description: "Thing", Quantity: 4, UnitPrice: dec(t, "25.00")},
	}
	result, err := engine.Calculate(items, invoicelib.Jurisdiction{Country: "NO"}, "")
	require.NoError(t, err)

	require.Len(t, result.Breakdown, 1)
	assert.Equal(t, "MVA", result.Breakdown[0].Name)
	assert.True(t, result.Breakdown[0].Amount.Equal(dec(t, "25.00")))
	assert.True(t, result.GrandTotal.Equal(dec(t, "125.00")))
}

func TestEngine_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `
rules:
  - country: JP
    components:
      - name: ConsumptionTax
        rate: "0.10"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	engine, err := invoicelib.NewEngineFromFile(path)
	require.NoError(t, err)

	components := engine.Resolve("JP", "", "", "")
	require.Len(t, components, 1)
	assert.Equal(t, "ConsumptionTax", components[0].Name)
}

func TestEngine_FromFileMissing(t *testing.T) {
	_, err := invoicelib.NewEngineFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
