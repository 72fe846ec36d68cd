package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/rezonia/invoice-api/internal/model"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleGenerateInvoice(c *gin.Context) {
	var req GenerateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	result, err := s.calculate(req)
	if err != nil {
		writeCalculationError(c, err)
		return
	}

	invoiceID := strings.TrimSpace(req.InvoiceID)
	if invoiceID == "" {
		invoiceID = uuid.NewString()
	}

	// The financial result is final here; rendering and upload never touch it.
	doc := model.InvoiceDocument{
		InvoiceID:    invoiceID,
		CustomerName: req.CustomerName,
		Items:        toModelItems(req.Items),
		Subtotal:     result.Subtotal,
		Breakdown:    result.Breakdown,
		GrandTotal:   result.GrandTotal,
		IssuedAt:     time.Now().UTC(),
	}

	pdfContent, err := s.renderer.Render(doc)
	if err != nil {
		s.logger.Error().Err(err).Str("invoice_id", invoiceID).Msg("document rendering failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render invoice document"})
		return
	}

	var downloadURL string
	if s.uploader != nil {
		url, err := s.uploader.Upload(c.Request.Context(), pdfContent, invoiceID+".pdf")
		if err != nil {
			// Upload failure degrades to an inline-only response.
			s.logger.Warn().Err(err).Str("invoice_id", invoiceID).Msg("document upload failed, returning inline content only")
		} else {
			downloadURL = url
		}
	}

	c.JSON(http.StatusOK, InvoiceResponse{
		InvoiceID:   invoiceID,
		Status:      "OK",
		Subtotal:    result.Subtotal,
		TaxTotal:    result.TaxTotal,
		GrandTotal:  result.GrandTotal,
		Breakdown:   toBreakdownOutput(result.Breakdown),
		DownloadURL: downloadURL,
		PDFContent:  pdfContent,
	})
}

func (s *Server) handlePreviewInvoice(c *gin.Context) {
	var req GenerateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	result, err := s.calculate(req)
	if err != nil {
		writeCalculationError(c, err)
		return
	}

	c.JSON(http.StatusOK, PreviewResponse{
		Subtotal:   result.Subtotal,
		TaxTotal:   result.TaxTotal,
		GrandTotal: result.GrandTotal,
		Breakdown:  toBreakdownOutput(result.Breakdown),
	})
}

func (s *Server) handleRules(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rules": s.resolver.Rules()})
}

// calculate maps the wire request onto the calculator, normalizing blank
// optional fields to absent. The core performs no such normalization itself.
func (s *Server) calculate(req GenerateInvoiceRequest) (*model.InvoiceResult, error) {
	jurisdiction := model.Jurisdiction{
		Country: strings.TrimSpace(req.CountryCode),
		Region:  strings.TrimSpace(req.RegionCode),
	}
	return s.calculator.Calculate(toModelItems(req.Items), jurisdiction, strings.TrimSpace(req.CustomerType))
}

func toModelItems(inputs []ItemInput) []model.InvoiceItem {
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

func toBreakdownOutput(breakdown []model.TaxBreakdown) []BreakdownOutput {
	out := make([]BreakdownOutput, 0, len(breakdown))
	for _, entry := range breakdown {
		out = append(out, BreakdownOutput{Name: entry.Name, Amount: entry.Amount})
	}
	return out
}

func writeCalculationError(c *gin.Context, err error) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "field": verr.Field})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func bindingErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("invalid request: field %s failed %s validation", fe.Field(), fe.Tag())
	}
	return "invalid request body"
}
