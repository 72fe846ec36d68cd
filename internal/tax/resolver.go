// Package tax holds the tax rule set and resolves the components that apply
// to a jurisdiction/category/customer tuple.
package tax

import (
	"github.com/rezonia/invoice-api/internal/model"
)

// Resolver selects tax components from an ordered, immutable rule list.
// It holds no mutable state after construction and is safe for concurrent
// use without synchronization.
type Resolver struct {
	rules []model.TaxRule
}

// NewResolver creates a resolver over a process-lifetime snapshot of rules.
// The slice is copied so later mutation of the caller's slice cannot be
// observed by in-flight resolutions.
func NewResolver(rules []model.TaxRule) *Resolver {
	snapshot := make([]model.TaxRule, len(rules))
	copy(snapshot, rules)
	return &Resolver{rules: snapshot}
}

// Resolve returns the components of the first rule matching the given
// country, region, product category and customer type, in rule-list order.
//
// Country is matched exactly and case-sensitively. The remaining arguments
// are optional; pass "" when the caller supplied no value. Blank-to-empty
// normalization is the caller's responsibility, this component performs none.
//
// List order is the only tie-break: a more specific rule does not win over an
// earlier, more general one. No match returns an empty slice, never an error;
// absence of tax is a valid outcome.
func (r *Resolver) Resolve(country, region, productCategory, customerType string) []model.TaxComponent {
	for _, rule := range r.rules {
		if matches(rule, country, region, productCategory, customerType) {
			return rule.Components
		}
	}
	return nil
}

// Rules returns the active rule snapshot for introspection.
func (r *Resolver) Rules() []model.TaxRule {
	out := make([]model.TaxRule, len(r.rules))
	copy(out, r.rules)
	return out
}

// matches reports whether a rule applies. An empty optional rule field is a
// wildcard matching any caller value, including the empty one.
func matches(rule model.TaxRule, country, region, productCategory, customerType string) bool {
	if rule.Country != country {
		return false
	}
	if rule.Region != "" && rule.Region != region {
		return false
	}
	if rule.ProductCategory != "" && rule.ProductCategory != productCategory {
		return false
	}
	if rule.CustomerType != "" && rule.CustomerType != customerType {
		return false
	}
	return true
}
