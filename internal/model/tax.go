package model

import "github.com/shopspring/decimal"

// TaxComponent is a single named tax (VAT, GST, StateTax) with its own rate.
// Components aggregate by Name, compared case-sensitively.
type TaxComponent struct {
	Name            string          `json:"name"`
	Rate            decimal.Decimal `json:"rate"`
	IncludedInPrice bool            `json:"includedInPrice,omitempty"`
}

// TaxRule maps a jurisdiction/category/customer tuple to its tax components.
// Country is required and matched exactly. Region, ProductCategory and
// CustomerType are wildcards when empty: an empty rule field matches any
// caller-supplied value, including none.
//
// Rules live in an ordered list and the first match wins, so a rule with all
// optional fields empty matches every request for its country and must be
// placed last among rules for that country.
type TaxRule struct {
	Country         string         `json:"country"`
	Region          string         `json:"region,omitempty"`
	ProductCategory string         `json:"productCategory,omitempty"`
	CustomerType    string         `json:"customerType,omitempty"`
	Components      []TaxComponent `json:"components"`
}

// TaxBreakdown is the invoice-level tax amount for one component name,
// rounded to currency precision. One entry per distinct name per invoice.
type TaxBreakdown struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}
