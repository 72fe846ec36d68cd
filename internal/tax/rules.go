package tax

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rezonia/invoice-api/internal/model"
	"github.com/rezonia/invoice-api/internal/money"
)

// DefaultRules returns the built-in rule snapshot:
//
//   - Singapore: flat 9% GST
//   - Germany: 19% VAT for the "standard" category, 7% for "reduced"
//   - US California: 7.25% state tax plus 2.5% city tax
func DefaultRules() []model.TaxRule {
	return []model.TaxRule{
		{
			Country: "SG",
			Components: []model.TaxComponent{
				{Name: "GST", Rate: money.MustFromString("0.09")},
			},
		},
		{
			Country:         "DE",
			ProductCategory: "standard",
			Components: []model.TaxComponent{
				{Name: "VAT", Rate: money.MustFromString("0.19")},
			},
		},
		{
			Country:         "DE",
			ProductCategory: "reduced",
			Components: []model.TaxComponent{
				{Name: "VAT", Rate: money.MustFromString("0.07")},
			},
		},
		{
			Country: "US",
			Region:  "CA",
			Components: []model.TaxComponent{
				{Name: "StateTax", Rate: money.MustFromString("0.0725")},
				{Name: "CityTax", Rate: money.MustFromString("0.025")},
			},
		},
	}
}

// ruleFile is the on-disk shape of a rule set. Rates are strings so they
// parse to exact decimals rather than binary floats.
type ruleFile struct {
	Rules []ruleEntry `yaml:"rules"`
}

type ruleEntry struct {
	Country         string           `yaml:"country"`
	Region          string           `yaml:"region"`
	ProductCategory string           `yaml:"productCategory"`
	CustomerType    string           `yaml:"customerType"`
	Components      []componentEntry `yaml:"components"`
}

type componentEntry struct {
	Name            string `yaml:"name"`
	Rate            string `yaml:"rate"`
	IncludedInPrice bool   `yaml:"includedInPrice"`
}

// LoadRules reads an ordered rule set from a YAML file. File order is
// preserved and drives resolution precedence.
func LoadRules(path string) ([]model.TaxRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file %s: %w", path, err)
	}

	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse rules file %s: %w", path, err)
	}

	if len(file.Rules) == 0 {
		return nil, fmt.Errorf("rules file %s contains no rules", path)
	}

	rules := make([]model.TaxRule, 0, len(file.Rules))
	for i, entry := range file.Rules {
		rule, err := buildRule(i, entry)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func buildRule(index int, entry ruleEntry) (model.TaxRule, error) {
	if entry.Country == "" {
		return model.TaxRule{}, model.NewRuleError(index, "country", "country is required")
	}
	if len(entry.Components) == 0 {
		return model.TaxRule{}, model.NewRuleError(index, "components", "at least one component is required")
	}

	components := make([]model.TaxComponent, 0, len(entry.Components))
	for _, c := range entry.Components {
		if c.Name == "" {
			return model.TaxRule{}, model.NewRuleError(index, "components.name", "component name is required")
		}
		rate, err := decimal.NewFromString(c.Rate)
		if err != nil {
			return model.TaxRule{}, model.NewRuleError(index, "components.rate", fmt.Sprintf("invalid rate %q", c.Rate))
		}
		if money.IsNegative(rate) {
			return model.TaxRule{}, model.NewRuleError(index, "components.rate", fmt.Sprintf("rate %s must not be negative", rate))
		}
		components = append(components, model.TaxComponent{
			Name:            c.Name,
			Rate:            rate,
			IncludedInPrice: c.IncludedInPrice,
		})
	}

	return model.TaxRule{
		Country:         entry.Country,
		Region:          entry.Region,
		ProductCategory: entry.ProductCategory,
		CustomerType:    entry.CustomerType,
		Components:      components,
	}, nil
}
