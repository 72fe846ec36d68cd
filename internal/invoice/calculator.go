// Package invoice computes tax-inclusive invoice totals over a resolved
// rule set.
package invoice

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rezonia/invoice-api/internal/model"
	"github.com/rezonia/invoice-api/internal/money"
	"github.com/rezonia/invoice-api/internal/tax"
)

// Calculator turns invoice items into a complete financial result. It is
// stateless beyond the shared read-only resolver and safe for concurrent use.
type Calculator struct {
	resolver *tax.Resolver
}

// NewCalculator creates a calculator over the given resolver.
func NewCalculator(resolver *tax.Resolver) *Calculator {
	return &Calculator{resolver: resolver}
}

// Calculate computes the net subtotal, per-component tax amounts and grand
// total for one invoice.
//
// Every resolved component is applied against the invoice-wide net subtotal,
// not the individual item's net amount, and amounts for repeated component
// names are summed. Two items that both resolve a "VAT" component therefore
// contribute two full-subtotal charges under that name. Callers relying on
// per-item tax bases must not use this calculator.
//
// Component amounts are rounded to 2 decimal places, half away from zero.
// TaxTotal is the exact sum of the rounded breakdown amounts and GrandTotal
// is exactly Subtotal + TaxTotal; neither is rounded independently.
//
// Invalid input (missing country, negative quantity or unit price) fails
// fast with a *model.ValidationError identifying the offending field. An
// item whose jurisdiction/category tuple matches no rule contributes no tax;
// that is a valid outcome, not an error.
func (c *Calculator) Calculate(items []model.InvoiceItem, jurisdiction model.Jurisdiction, customerType string) (*model.InvoiceResult, error) {
	if err := validate(items, jurisdiction); err != nil {
		return nil, err
	}

	subtotal := money.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(money.FromInt(item.Quantity)))
	}

	var components []model.TaxComponent
	for _, item := range items {
		components = append(components, c.resolver.Resolve(
			jurisdiction.Country,
			jurisdiction.Region,
			item.Category,
			customerType,
		)...)
	}

	// Aggregate by component name, preserving first-seen order so the
	// breakdown is stable for a given input.
	order := make([]string, 0, len(components))
	amounts := make(map[string]decimal.Decimal, len(components))
	for _, component := range components {
		amount := money.Round2(subtotal.Mul(component.Rate))
		if existing, ok := amounts[component.Name]; ok {
			amounts[component.Name] = existing.Add(amount)
		} else {
			order = append(order, component.Name)
			amounts[component.Name] = amount
		}
	}

	breakdown := make([]model.TaxBreakdown, 0, len(order))
	taxTotal := money.Zero
	for _, name := range order {
		breakdown = append(breakdown, model.TaxBreakdown{Name: name, Amount: amounts[name]})
		taxTotal = taxTotal.Add(amounts[name])
	}

	return &model.InvoiceResult{
		Subtotal:   subtotal,
		TaxTotal:   taxTotal,
		Breakdown:  breakdown,
		GrandTotal: subtotal.Add(taxTotal),
	}, nil
}

func validate(items []model.InvoiceItem, jurisdiction model.Jurisdiction) error {
	if jurisdiction.Country == "" {
		return model.NewValidationError("country", nil, "required", "country is required")
	}
	for i, item := range items {
		if item.Quantity < 0 {
			field := fmt.Sprintf("items[%d].quantity", i)
			return model.NewValidationError(field, item.Quantity, "non_negative", "quantity must not be negative")
		}
		if money.IsNegative(item.UnitPrice) {
			field := fmt.Sprintf("items[%d].unitPrice", i)
			return model.NewValidationError(field, item.UnitPrice.String(), "non_negative", "unit price must not be negative")
		}
	}
	return nil
}
