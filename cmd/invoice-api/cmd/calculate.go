package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-api/internal/invoice"
	"github.com/rezonia/invoice-api/internal/model"
	"github.com/rezonia/invoice-api/internal/tax"
)

var (
	outputFormat string
	outputFile   string
)

// calcRequest is the request file shape, matching the HTTP API request body.
type calcRequest struct {
	InvoiceID    string     `json:"invoiceId"`
	CustomerName string     `json:"customerName"`
	CountryCode  string     `json:"countryCode"`
	RegionCode   string     `json:"regionCode"`
	CustomerType string     `json:"customerType"`
	Items        []calcItem `json:"items"`
}

type calcItem struct {
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Category    string          `json:"category"`
}

var calculateCmd = &cobra.Command{
	Use:   "calculate [file]",
	Short: "Compute invoice totals offline",
	Long: `Compute invoice totals from a request file without a running server.

The file carries the same JSON body as POST /api/v1/invoices. Pass "-" to
read from stdin.

Examples:
  invoice-api calculate request.json
  invoice-api calculate request.json -f table
  cat request.json | invoice-api calculate -
  invoice-api calculate request.json --rules rules.yaml -o result.json`,
	Args: cobra.ExactArgs(1),
	RunE: runCalculate,
}

func init() {
	rootCmd.AddCommand(calculateCmd)

	calculateCmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format (json, table)")
	calculateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
}

func runCalculate(cmd *cobra.Command, args []string) error {
	data, err := readInput(args[0])
	if err != nil {
		return err
	}

	var req calcRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("parse request file: %w", err)
	}

	rules, err := loadRules("")
	if err != nil {
		return err
	}

	calc := invoice.NewCalculator(tax.NewResolver(rules))
	result, err := calc.Calculate(
		toItems(req.Items),
		model.Jurisdiction{
			Country: strings.TrimSpace(req.CountryCode),
			Region:  strings.TrimSpace(req.RegionCode),
		},
		strings.TrimSpace(req.CustomerType),
	)
	if err != nil {
		return err
	}

	out, err := outputWriter()
	if err != nil {
		return err
	}
	defer out.Close()

	switch outputFormat {
	case "table":
		return writeResultTable(out, req, result)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
}

func readInput(arg string) ([]byte, error) {
	if arg == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return nil, fmt.Errorf("read request file: %w", err)
	}
	return data, nil
}

func outputWriter() (io.WriteCloser, error) {
	if outputFile == "" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func toItems(inputs []calcItem) []model.InvoiceItem {
	items := make([]model.InvoiceItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, model.InvoiceItem{
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			Category:    strings.TrimSpace(in.Category),
		})
	}
	return items
}

func writeResultTable(out io.Writer, req calcRequest, result *model.InvoiceResult) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "Description\tQty\tUnit Price\tCategory\n")
	for _, item := range req.Items {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", item.Description, item.Quantity, item.UnitPrice.StringFixed(2), item.Category)
	}
	fmt.Fprintf(w, "\t\t\t\n")
	fmt.Fprintf(w, "Subtotal\t\t%s\t\n", result.Subtotal.StringFixed(2))
	for _, entry := range result.Breakdown {
		fmt.Fprintf(w, "%s\t\t%s\t\n", entry.Name, entry.Amount.StringFixed(2))
	}
	fmt.Fprintf(w, "Grand Total\t\t%s\t\n", result.GrandTotal.StringFixed(2))

	return w.Flush()
}
