package invoicelib

import (
	"github.com/rezonia/invoice-api/internal/invoice"
	"github.com/rezonia/invoice-api/internal/tax"
)

// Engine bundles a rule resolver and calculator behind one handle. It is
// immutable after construction and safe for concurrent use.
type Engine struct {
	resolver   *tax.Resolver
	calculator *invoice.Calculator
}

// NewEngine creates an engine over the built-in rule set.
func NewEngine() *Engine {
	return NewEngineWithRules(tax.DefaultRules())
}

// NewEngineWithRules creates an engine over an ordered rule list. Order
// drives resolution precedence: the first matching rule wins.
func NewEngineWithRules(rules []TaxRule) *Engine {
	resolver := tax.NewResolver(rules)
	return &Engine{
		resolver:   resolver,
		calculator: invoice.NewCalculator(resolver),
	}
}

// NewEngineFromFile creates an engine from a YAML rules file.
func NewEngineFromFile(path string) (*Engine, error) {
	rules, err := tax.LoadRules(path)
	if err != nil {
		return nil, err
	}
	return NewEngineWithRules(rules), nil
}

// DefaultRules returns the built-in rule set.
func DefaultRules() []TaxRule {
	return tax.DefaultRules()
}

// Resolve returns the tax components of the first matching rule, or an
// empty slice when no rule matches. Pass "" for optional arguments the
// caller has no value for.
func (e *Engine) Resolve(country, region, productCategory, customerType string) []TaxComponent {
	return e.resolver.Resolve(country, region, productCategory, customerType)
}

// Rules returns the engine's rule snapshot in resolution order.
func (e *Engine) Rules() []TaxRule {
	return e.resolver.Rules()
}

// Calculate computes the full financial result for one invoice.
func (e *Engine) Calculate(items []Item, jurisdiction Jurisdiction, customerType string) (*Result, error) {
	return e.calculator.Calculate(items, jurisdiction, customerType)
}
