package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "1.0.0"

	// Global flags
	verbose   bool
	cfgFile   string
	rulesFile string
)

var rootCmd = &cobra.Command{
	Use:   "invoice-api",
	Short: "Tax-inclusive invoice calculation service",
	Long: `Invoice API computes tax-inclusive invoice totals from line items,
a jurisdiction and a customer type, and serves the results over HTTP with
rendered PDF documents.

Tax rules are an ordered list resolved first-match-wins per line item.
The built-in rule set covers SG (GST), DE (category-dependent VAT) and
US-CA (state + city tax); a YAML rules file can replace it.

Examples:
  # Start the HTTP API server
  invoice-api serve

  # Compute an invoice offline from a request file
  invoice-api calculate request.json

  # Show the active rule set
  invoice-api rules

  # Send a request to a running server and save the PDF
  invoice-api request --server http://localhost:8080 request.json`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ./config.yaml, env: INVOICE_API_*)")
	rootCmd.PersistentFlags().StringVar(&rulesFile, "rules", "", "Tax rules YAML file (default: built-in rule set)")
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
