package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faarish/invoicing-api/internal/application/service"
	"github.com/faarish/invoicing-api/internal/config"
	"github.com/faarish/invoicing-api/internal/infrastructure/repository"
	"github.com/faarish/invoicing-api/internal/presentation/http/handler"
	"github.com/faarish/invoicing-api/internal/presentation/http/routes"
	"github.com/faarish/invoicing-api/pkg/archive"
)

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryInvoiceRepository()
	archiver := archive.NullArchiver{}
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	invoiceService := service.NewInvoiceService(repo, archiver, log)
	numberingService := service.NewNumberingService(repo)

	h := &routes.Handlers{
		Invoice: handler.NewInvoiceHandler(invoiceService, numberingService, service.NewPDFService()),
	}
	cfg := &config.Config{
		App:       config.AppConfig{Name: "invoicing-api-test", Env: "test"},
		RateLimit: config.RateLimitConfig{Requests: 10000, Duration: 1},
	}
	return routes.Setup(h, &routes.Deps{Cfg: cfg, Log: log})
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func invoicePayload(number string) map[string]any {
	return map[string]any{
		"invoiceNumber": number,
		"date":          "2026-01-15",
		"dueDate":       "2026-02-14",
		"companyName":   "Hulhumale Freight Pvt Ltd",
		"billTo":        "Island Traders",
		"bankDetails":   "Bank of Maldives\nAcct: 9876543210",
		"discount":      500,
		"items": []map[string]any{
			{"type": "20ft Standard Container (Dry)", "qty": 5, "rate": 25000},
			{"type": "Port Handling", "qty": 1, "rate": 1500},
		},
	}
}

func TestCreateInvoice_Endpoint(t *testing.T) {
	router := newTestServer(t)

	rec := doJSON(t, router, http.MethodPost, "/api/invoices", invoicePayload("INV-2026-0001"))
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		ID      uint   `json:"id"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, uint(1), body.ID)
	assert.Equal(t, "Invoice saved successfully", body.Message)
}

func TestCreateInvoice_DuplicateNumberReturns409(t *testing.T) {
	router := newTestServer(t)

	rec := doJSON(t, router, http.MethodPost, "/api/invoices", invoicePayload("INV-2026-0001"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/invoices", invoicePayload("INV-2026-0001"))
	require.Equal(t, http.StatusConflict, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Invoice number already exists", body["error"])
}

func TestCreateInvoice_MissingNumberReturns400(t *testing.T) {
	router := newTestServer(t)

	rec := doJSON(t, router, http.MethodPost, "/api/invoices", invoicePayload(""))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "Invoice number is required")
}

func TestCreateInvoice_CoercesStringAmounts(t *testing.T) {
	router := newTestServer(t)

	payload := invoicePayload("INV-2026-0001")
	payload["discount"] = "MVR 500"
	payload["items"] = []map[string]any{
		{"type": "Freight", "qty": "2", "rate": "1,250.50"},
		{"type": "Junk rate", "qty": 3, "rate": "n/a"},
	}

	rec := doJSON(t, router, http.MethodPost, "/api/invoices", payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/invoices/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var invoice struct {
		Subtotal json.Number `json:"subtotal"`
		Total    json.Number `json:"total"`
	}
	dec := json.NewDecoder(strings.NewReader(rec.Body.String()))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&invoice))
	// 2 x 1250.50 plus a line whose rate coerces to zero, minus 500.
	assert.Equal(t, "2501", string(invoice.Subtotal))
	assert.Equal(t, "2001", string(invoice.Total))
}

func TestGetInvoice_UnknownIDReturns404(t *testing.T) {
	router := newTestServer(t)

	rec := doJSON(t, router, http.MethodGet, "/api/invoices/42", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Invoice not found", body["error"])
}

func TestGetInvoice_InvalidIDReturns400(t *testing.T) {
	router := newTestServer(t)

	rec := doJSON(t, router, http.MethodGet, "/api/invoices/abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListInvoices_BareArrayNewestFirst(t *testing.T) {
	router := newTestServer(t)

	older := invoicePayload("INV-2026-0001")
	older["date"] = "2026-01-01"
	newer := invoicePayload("INV-2026-0002")
	newer["date"] = "2026-02-01"

	require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, "/api/invoices", older).Code)
	require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, "/api/invoices", newer).Code)

	rec := doJSON(t, router, http.MethodGet, "/api/invoices", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summaries []struct {
		ID            uint   `json:"id"`
		InvoiceNumber string `json:"invoiceNumber"`
		Date          string `json:"date"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	require.Len(t, summaries, 2)
	assert.Equal(t, "INV-2026-0002", summaries[0].InvoiceNumber)
	assert.Equal(t, "INV-2026-0001", summaries[1].InvoiceNumber)
}

func TestListInvoices_EmptyStoreIsEmptyArray(t *testing.T) {
	router := newTestServer(t)

	rec := doJSON(t, router, http.MethodGet, "/api/invoices", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestNextNumber_QuotedStringScopedToYear(t *testing.T) {
	router := newTestServer(t)
	year := time.Now().Year()

	// Last year's numbering must not leak into this year's sequence.
	lastYear := invoicePayload(fmt.Sprintf("INV-%d-9999", year-1))
	require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, "/api/invoices", lastYear).Code)
	current := invoicePayload(fmt.Sprintf("INV-%d-0047", year))
	require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, "/api/invoices", current).Code)

	rec := doJSON(t, router, http.MethodGet, "/api/invoice/next-number", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, fmt.Sprintf("%q", fmt.Sprintf("INV-%d-0048", year)), strings.TrimSpace(rec.Body.String()))
}

func TestUpdateInvoice_Endpoint(t *testing.T) {
	router := newTestServer(t)

	require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, "/api/invoices", invoicePayload("INV-2026-0001")).Code)

	update := invoicePayload("INV-2026-0001")
	update["notes"] = "Payment due in 14 days"
	rec := doJSON(t, router, http.MethodPut, "/api/invoices/1", update)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Invoice updated successfully", body["message"])

	rec = doJSON(t, router, http.MethodGet, "/api/invoices/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Payment due in 14 days")
}

func TestUpdateInvoice_UnknownIDReturns404(t *testing.T) {
	router := newTestServer(t)

	rec := doJSON(t, router, http.MethodPut, "/api/invoices/42", invoicePayload("INV-2026-0001"))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteInvoice_Idempotent(t *testing.T) {
	router := newTestServer(t)

	require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, "/api/invoices", invoicePayload("INV-2026-0001")).Code)

	rec := doJSON(t, router, http.MethodDelete, "/api/invoices/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Invoice deleted", body["message"])

	// Deleting again is still a success.
	rec = doJSON(t, router, http.MethodDelete, "/api/invoices/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/invoices/1", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInvoicePDF_Endpoint(t *testing.T) {
	router := newTestServer(t)

	require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, "/api/invoices", invoicePayload("INV-2026-0001")).Code)

	rec := doJSON(t, router, http.MethodGet, "/api/invoices/1/pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "INV_2026_0001.pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestServer(t)

	rec := doJSON(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
