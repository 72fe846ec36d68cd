package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var rulesFormat string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show the active tax rule set",
	Long: `Show the tax rule set the service would use, in resolution order.

Without --rules, the built-in rule set is shown. Rules resolve first-match-
wins, so the printed order is the precedence order.

Examples:
  invoice-api rules
  invoice-api rules --rules rules.yaml
  invoice-api rules -f json`,
	RunE: runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)

	rulesCmd.Flags().StringVarP(&rulesFormat, "format", "f", "table", "Output format (json, table)")
}

func runRules(cmd *cobra.Command, args []string) error {
	rules, err := loadRules("")
	if err != nil {
		return err
	}

	switch rulesFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rules)
	case "table":
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "#\tCountry\tRegion\tCategory\tCustomer\tComponents\n")
		for i, rule := range rules {
			components := ""
			for j, c := range rule.Components {
				if j > 0 {
					components += ", "
				}
				components += fmt.Sprintf("%s@%s", c.Name, c.Rate)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
				i, rule.Country, orAny(rule.Region), orAny(rule.ProductCategory), orAny(rule.CustomerType), components)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unsupported output format: %s", rulesFormat)
	}
}

func orAny(s string) string {
	if s == "" {
		return "*"
	}
	return s
}
