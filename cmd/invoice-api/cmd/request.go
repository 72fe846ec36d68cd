package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	serverURL string
	pdfDir    string
)

// invoiceReply mirrors the server's invoice response body.
type invoiceReply struct {
	InvoiceID   string          `json:"invoiceId"`
	Status      string          `json:"status"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxTotal    decimal.Decimal `json:"taxTotal"`
	GrandTotal  decimal.Decimal `json:"grandTotal"`
	DownloadURL string          `json:"downloadUrl"`
	PDFContent  []byte          `json:"pdfContent"`
	Breakdown   []struct {
		Name   string          `json:"name"`
		Amount decimal.Decimal `json:"amount"`
	} `json:"breakdown"`
}

var requestCmd = &cobra.Command{
	Use:   "request [file]",
	Short: "Send an invoice request to a running server",
	Long: `Send an invoice generation request to a running server, print the
computed totals and save the returned PDF next to the current directory.

Without a file argument a small sample request is sent, which is handy for
smoke-testing a deployment.

Examples:
  invoice-api request --server http://localhost:8080
  invoice-api request request.json --server https://invoices.example.com
  invoice-api request request.json --pdf-dir /tmp`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRequest,
}

func init() {
	rootCmd.AddCommand(requestCmd)

	requestCmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "Server base URL (env: INVOICE_API_URL)")
	requestCmd.Flags().StringVar(&pdfDir, "pdf-dir", ".", "Directory for the saved PDF")
}

func runRequest(cmd *cobra.Command, args []string) error {
	base := serverURL
	if env := os.Getenv("INVOICE_API_URL"); env != "" && !cmd.Flags().Changed("server") {
		base = env
	}

	body, err := requestBody(args)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Post(base+"/api/v1/invoices", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %s: %s", resp.Status, string(respBody))
	}

	var reply invoiceReply
	if err := json.Unmarshal(respBody, &reply); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	fmt.Printf("Invoice ID:  %s\n", reply.InvoiceID)
	fmt.Printf("Status:      %s\n", reply.Status)
	fmt.Printf("Subtotal:    %s\n", reply.Subtotal.StringFixed(2))
	for _, entry := range reply.Breakdown {
		fmt.Printf("%-12s %s\n", entry.Name+":", entry.Amount.StringFixed(2))
	}
	fmt.Printf("Grand Total: %s\n", reply.GrandTotal.StringFixed(2))
	if reply.DownloadURL != "" {
		fmt.Printf("Download:    %s\n", reply.DownloadURL)
	}

	if len(reply.PDFContent) > 0 {
		path := filepath.Join(pdfDir, reply.InvoiceID+".pdf")
		if err := os.WriteFile(path, reply.PDFContent, 0o644); err != nil {
			return fmt.Errorf("save pdf: %w", err)
		}
		fmt.Printf("Saved PDF:   %s\n", path)
	} else {
		fmt.Println("No inline PDF bytes returned.")
	}

	return nil
}

func requestBody(args []string) ([]byte, error) {
	if len(args) == 1 {
		return readInput(args[0])
	}

	printVerbose("No request file given, sending sample request\n")
	sample := calcRequest{
		InvoiceID:    "INV-1001",
		CustomerName: "ACME Ltd",
		CountryCode:  "SG",
		CustomerType: "Company",
		Items: []calcItem{
			{Description: "Widget A", Quantity: 2, UnitPrice: decimal.NewFromInt(50)},
			{Description: "Book", Quantity: 1, UnitPrice: decimal.NewFromInt(30)},
		},
	}
	return json.Marshal(sample)
}
