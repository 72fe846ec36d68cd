// Package invoicelib provides a public API for tax-inclusive invoice
// calculation.
//
// This package exposes the rule resolver and invoice calculator for use as
// a library, without the HTTP server or document rendering layers.
//
// Example usage:
//
//	engine := invoicelib.NewEngine()
//	result, err := engine.Calculate(items, invoicelib.Jurisdiction{Country: "SG"}, "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.GrandTotal)
package invoicelib

import "github.com/rezonia/invoice-api/internal/model"

// Re-export core types for public API
type (
	Item            = model.InvoiceItem
	Jurisdiction    = model.Jurisdiction
	Result          = model.InvoiceResult
	TaxComponent    = model.TaxComponent
	TaxRule         = model.TaxRule
	TaxBreakdown    = model.TaxBreakdown
	ValidationError = model.ValidationError
	RuleError       = model.RuleError
)
