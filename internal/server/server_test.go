package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-api/internal/model"
	"github.com/rezonia/invoice-api/internal/money"
	"github.com/rezonia/invoice-api/internal/server"
	"github.com/rezonia/invoice-api/internal/tax"
)

type stubRenderer struct {
	lastDoc model.InvoiceDocument
	err     error
}

func (r *stubRenderer) Render(doc model.InvoiceDocument) ([]byte, error) {
	r.lastDoc = doc
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-stub"), nil
}

type stubUploader struct {
	url string
	err error
}

func (u *stubUploader) Upload(ctx context.Context, data []byte, name string) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	return u.url + "/" + name, nil
}

func newTestServer(renderer server.Renderer, uploader server.Uploader) *server.Server {
	config := &server.Config{
		Address: ":8080",
		Debug:   true,
	}
	resolver := tax.NewResolver(tax.DefaultRules())
	return server.NewServer(config, zerolog.Nop(), resolver, renderer, uploader)
}

func postJSON(t *testing.T, srv *server.Server, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

const singaporeRequest = `{
	"invoiceId": "INV-1001",
	"customerName": "ACME Ltd",
	"countryCode": "SG",
	"items": [
		{"description": "Bundle", "quantity": 1, "unitPrice": "130.00"}
	]
}`

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(&stubRenderer{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "ok", response["status"])
	assert.NotEmpty(t, response["time"])
}

func TestGenerateInvoice_Singapore(t *testing.T) {
	renderer := &stubRenderer{}
	srv := newTestServer(renderer, nil)

	w := postJSON(t, srv, "/api/v1/invoices", singaporeRequest)
	assert.Equal(t, http.StatusOK, w.Code)

	var response server.InvoiceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, "INV-1001", response.InvoiceID)
	assert.Equal(t, "OK", response.Status)
	assert.True(t, response.Subtotal.Equal(money.MustFromString("130.00")))
	require.Len(t, response.Breakdown, 1)
	assert.Equal(t, "GST", response.Breakdown[0].Name)
	assert.True(t, response.Breakdown[0].Amount.Equal(money.MustFromString("11.70")))
	assert.True(t, response.GrandTotal.Equal(money.MustFromString("141.70")))
	assert.Empty(t, response.DownloadURL)
	assert.Equal(t, []byte("%PDF-stub"), response.PDFContent)

	// The renderer consumed the computed result, not its own recomputation.
	assert.Equal(t, "INV-1001", renderer.lastDoc.InvoiceID)
	assert.True(t, renderer.lastDoc.GrandTotal.Equal(money.MustFromString("141.70")))
}

func TestGenerateInvoice_UploadSuccess(t *testing.T) {
	srv := newTestServer(&stubRenderer{}, &stubUploader{url: "https://files.test"})

	w := postJSON(t, srv, "/api/v1/invoices", singaporeRequest)
	assert.Equal(t, http.StatusOK, w.Code)

	var response server.InvoiceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, "https://files.test/INV-1001.pdf", response.DownloadURL)
}

func TestGenerateInvoice_UploadFailureDegrades(t *testing.T) {
	srv := newTestServer(&stubRenderer{}, &stubUploader{err: errors.New("bucket unreachable")})

	w := postJSON(t, srv, "/api/v1/invoices", singaporeRequest)

	// Upload failure must not lose the computed result or the inline document.
	assert.Equal(t, http.StatusOK, w.Code)

	var response server.InvoiceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, "OK", response.Status)
	assert.Empty(t, response.DownloadURL)
	assert.NotEmpty(t, response.PDFContent)
	assert.True(t, response.GrandTotal.Equal(money.MustFromString("141.70")))
}

func TestGenerateInvoice_RenderFailure(t *testing.T) {
	srv := newTestServer(&stubRenderer{err: errors.New("boom")}, nil)

	w := postJSON(t, srv, "/api/v1/invoices", singaporeRequest)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGenerateInvoice_GeneratesInvoiceID(t *testing.T) {
	srv := newTestServer(&stubRenderer{}, nil)

	body := `{
		"customerName": "ACME Ltd",
		"countryCode": "SG",
		"items": [{"description": "Widget", "quantity": 1, "unitPrice": "10.00"}]
	}`
	w := postJSON(t, srv, "/api/v1/invoices", body)
	assert.Equal(t, http.StatusOK, w.Code)

	var response server.InvoiceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.NotEmpty(t, response.InvoiceID)
}

func TestGenerateInvoice_MissingCountry(t *testing.T) {
	srv := newTestServer(&stubRenderer{}, nil)

	body := `{
		"customerName": "ACME Ltd",
		"items": [{"description": "Widget", "quantity": 1, "unitPrice": "10.00"}]
	}`
	w := postJSON(t, srv, "/api/v1/invoices", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateInvoice_EmptyItems(t *testing.T) {
	srv := newTestServer(&stubRenderer{}, nil)

	body := `{"countryCode": "SG", "items": []}`
	w := postJSON(t, srv, "/api/v1/invoices", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateInvoice_NegativeQuantity(t *testing.T) {
	srv := newTestServer(&stubRenderer{}, nil)

	body := `{
		"countryCode": "SG",
		"items": [{"description": "Widget", "quantity": -2, "unitPrice": "10.00"}]
	}`
	w := postJSON(t, srv, "/api/v1/invoices", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "items[0].quantity", response["field"])
}

func TestGenerateInvoice_BlankOptionalFieldsTreatedAsAbsent(t *testing.T) {
	srv := newTestServer(&stubRenderer{}, nil)

	// A blank region must not block matching the region-less SG rule.
	body := `{
		"countryCode": "SG",
		"regionCode": "  ",
		"customerType": " ",
		"items": [{"description": "Widget", "quantity": 1, "unitPrice": "100.00", "category": " "}]
	}`
	w := postJSON(t, srv, "/api/v1/invoices", body)
	assert.Equal(t, http.StatusOK, w.Code)

	var response server.InvoiceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Breakdown, 1)
	assert.True(t, response.Breakdown[0].Amount.Equal(money.MustFromString("9.00")))
}

func TestPreviewInvoice_Germany(t *testing.T) {
	srv := newTestServer(&stubRenderer{}, nil)

	body := `{
		"countryCode": "DE",
		"items": [
			{"description": "Book", "quantity": 1, "unitPrice": "30.00", "category": "reduced"},
			{"description": "Widget", "quantity": 2, "unitPrice": "50.00", "category": "standard"}
		]
	}`
	w := postJSON(t, srv, "/api/v1/invoices/preview", body)
	assert.Equal(t, http.StatusOK, w.Code)

	var response server.PreviewResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.True(t, response.Subtotal.Equal(money.MustFromString("130.00")))
	require.Len(t, response.Breakdown, 1)
	assert.Equal(t, "VAT", response.Breakdown[0].Name)
	assert.True(t, response.Breakdown[0].Amount.Equal(money.MustFromString("33.80")))
	assert.True(t, response.GrandTotal.Equal(money.MustFromString("163.80")))
}

func TestPreviewInvoice_NoMatchingRule(t *testing.T) {
	srv := newTestServer(&stubRenderer{}, nil)

	body := `{
		"countryCode": "FR",
		"items": [{"description": "Wine", "quantity": 1, "unitPrice": "25.00"}]
	}`
	w := postJSON(t, srv, "/api/v1/invoices/preview", body)

	// No matching rule is zero tax, not an error.
	assert.Equal(t, http.StatusOK, w.Code)

	var response server.PreviewResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Empty(t, response.Breakdown)
	assert.True(t, response.TaxTotal.IsZero())
	assert.True(t, response.GrandTotal.Equal(response.Subtotal))
}

func TestRulesEndpoint(t *testing.T) {
	srv := newTestServer(&stubRenderer{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rules", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Rules []model.TaxRule `json:"rules"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Rules, 4)
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(&stubRenderer{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
}

func BenchmarkPreviewInvoice(b *testing.B) {
	srv := newTestServer(&stubRenderer{}, nil)

	body := []byte(`{
		"countryCode": "SG",
		"items": [{"description": "Widget", "quantity": 2, "unitPrice": "50.00"}]
	}`)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices/preview", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
	}
}
