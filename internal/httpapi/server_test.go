package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fridgeseal/sealtrack/internal/blob"
	"github.com/fridgeseal/sealtrack/internal/model"
	"github.com/fridgeseal/sealtrack/internal/store"
)

type memPersistence struct {
	saved    *model.Entities
	failSave bool
}

func (m *memPersistence) Load(ctx context.Context) (*model.Entities, error) { return m.saved, nil }

func (m *memPersistence) Save(ctx context.Context, e *model.Entities) error {
	if m.failSave {
		return errors.New("disk full")
	}
	clone, err := e.Clone()
	if err != nil {
		return err
	}
	m.saved = clone
	return nil
}

func testServer(t *testing.T) Server {
	t.Helper()
	entities := &model.Entities{
		Customers: []model.Customer{{ID: "c1", Name: "Provincial Hotel"}},
		Sites:     []model.Site{{ID: "s1", CustomerID: "c1", Address: model.Address{Suburb: "Fitzroy"}}},
		Users:     []model.User{{ID: "u1", Name: "Brett S", Role: model.RoleAdmin}},
		Parts:     []model.Part{{ID: "p1", SKU: "RP423-BLK", PriceEx: 45, TaxRate: 0.1, StockQty: 30}},
		Jobs: []model.Job{
			{ID: "j1", JobNo: "JB0460", CustomerID: "c1", SiteID: "s1", Status: model.StatusNew, Priority: model.PriorityNormal, Qty: 3, ProfileCode: "RP423", Photos: []model.Photo{}},
			{ID: "j2", JobNo: "JB0461", CustomerID: "c1", SiteID: "s1", Status: model.StatusCancelled, Qty: 1, Photos: []model.Photo{}},
		},
		Counters: model.Counters{Job: 461},
	}
	return Server{
		Store: store.New(&memPersistence{}, entities, zap.NewNop()),
		Blobs: blob.LocalFS{Root: t.TempDir()},
		Log:   zap.NewNop(),
	}
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	w := doJSON(t, testServer(t).Router(), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestCreateJob(t *testing.T) {
	h := testServer(t).Router()
	w := doJSON(t, h, http.MethodPost, "/v1/jobs", map[string]any{
		"customerId": "c1",
		"siteId":     "s1",
		"qty":        2,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var job model.Job
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))
	assert.Equal(t, "JB0462", job.JobNo)
	assert.Equal(t, model.StatusNew, job.Status)
}

func TestCreateJobValidation(t *testing.T) {
	h := testServer(t).Router()
	w := doJSON(t, h, http.MethodPost, "/v1/jobs", map[string]any{"siteId": "s1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "customerId")
}

func TestGetJobNotFound(t *testing.T) {
	w := doJSON(t, testServer(t).Router(), http.MethodGet, "/v1/jobs/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListJobsFilter(t *testing.T) {
	h := testServer(t).Router()

	w := doJSON(t, h, http.MethodGet, "/v1/jobs?status=New", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var jobs []model.Job
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &jobs))
	require.Len(t, jobs, 1)
	assert.Equal(t, "j1", jobs[0].ID)

	w = doJSON(t, h, http.MethodGet, "/v1/jobs?status=Archived", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, h, http.MethodGet, "/v1/jobs?limit=nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPatchJob(t *testing.T) {
	h := testServer(t).Router()
	w := doJSON(t, h, http.MethodPatch, "/v1/jobs/j1", map[string]any{"notes": "Customer prefers morning."})
	require.Equal(t, http.StatusOK, w.Code)

	var job model.Job
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))
	assert.Equal(t, "Customer prefers morning.", job.Notes)
	assert.Equal(t, 3, job.Qty, "unpatched fields survive")
}

func TestChangeStatus(t *testing.T) {
	h := testServer(t).Router()

	w := doJSON(t, h, http.MethodPost, "/v1/jobs/j1/status", map[string]any{"to": "Need to Measure"})
	require.Equal(t, http.StatusOK, w.Code)

	// Cancelled is terminal: conflict, and no activity recorded.
	w = doJSON(t, h, http.MethodPost, "/v1/jobs/j2/status", map[string]any{"to": "New"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, h, http.MethodGet, "/v1/jobs/j2/activities", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestQuoteFlow(t *testing.T) {
	h := testServer(t).Router()
	w := doJSON(t, h, http.MethodPost, "/v1/jobs/j1/quote", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var quote model.Quote
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quote))
	assert.True(t, strings.HasPrefix(quote.Number, "Q"), quote.Number)
	assert.InDelta(t, 302.5, quote.Total, 1e-9)

	w = doJSON(t, h, http.MethodGet, "/v1/quotes/"+quote.ID+"/doc", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), quote.Number)
	assert.Contains(t, w.Body.String(), "$302.50")

	// The job now references the quote.
	w = doJSON(t, h, http.MethodGet, "/v1/jobs/j1", nil)
	var job model.Job
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))
	assert.Equal(t, quote.ID, job.QuoteID)
}

func TestInvoiceFlow(t *testing.T) {
	h := testServer(t).Router()
	w := doJSON(t, h, http.MethodPost, "/v1/jobs/j1/invoice", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var invoice model.Invoice
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &invoice))
	assert.True(t, strings.HasPrefix(invoice.Number, "INV"), invoice.Number)

	w = doJSON(t, h, http.MethodGet, "/v1/invoices/"+invoice.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteJob(t *testing.T) {
	h := testServer(t).Router()
	w := doJSON(t, h, http.MethodDelete, "/v1/jobs/j1", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, h, http.MethodGet, "/v1/jobs/j1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The deletion trail survives the job.
	w = doJSON(t, h, http.MethodGet, "/v1/jobs/j1/activities", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Job deleted")
}

func TestLabel(t *testing.T) {
	h := testServer(t).Router()
	w := doJSON(t, h, http.MethodGet, "/v1/jobs/j1/label", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "JB0460")
	assert.Contains(t, w.Body.String(), "RP423")
}

func TestExportJobsCSV(t *testing.T) {
	h := testServer(t).Router()
	w := doJSON(t, h, http.MethodGet, "/v1/export/jobs.csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Body.String(), "\"jobNo\"")
	assert.Contains(t, w.Body.String(), "\"JB0460\"")
}

func TestPatchPart(t *testing.T) {
	h := testServer(t).Router()
	w := doJSON(t, h, http.MethodPatch, "/v1/parts/p1", map[string]any{"stockQty": 12})
	require.Equal(t, http.StatusOK, w.Code)

	var part model.Part
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &part))
	assert.Equal(t, 12, part.StockQty)
}

func TestCreateCustomer(t *testing.T) {
	h := testServer(t).Router()
	w := doJSON(t, h, http.MethodPost, "/v1/customers", map[string]any{
		"customer": map[string]any{"name": "Kew Sushi"},
		"site":     map[string]any{"address": map[string]any{"suburb": "Kew"}},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, h, http.MethodGet, "/v1/customers", nil)
	assert.Contains(t, w.Body.String(), "Kew Sushi")
}

func TestPhotoUploadAndFetch(t *testing.T) {
	h := testServer(t).Router()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "before.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("\x89PNG fake bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("caption", "before install"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/jobs/j1/photos", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		ID      string `json:"id"`
		Caption string `json:"caption"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "before install", resp.Caption)

	w = doJSON(t, h, http.MethodGet, "/v1/jobs/j1/photos/"+resp.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "image/png")

	w = doJSON(t, h, http.MethodGet, "/v1/jobs/j1/photos/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPhotoUploadRemovesBlobWhenStoreFails(t *testing.T) {
	srv := testServer(t)
	snap, err := srv.Store.Snapshot()
	require.NoError(t, err)
	srv.Store = store.New(&memPersistence{failSave: true}, snap, zap.NewNop())
	h := srv.Router()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "before.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("\x89PNG fake bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/jobs/j1/photos", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	entries, err := os.ReadDir(filepath.Join(srv.Blobs.Root, "jobs", "j1", "photos"))
	require.NoError(t, err)
	assert.Empty(t, entries, "failed upload leaves no file behind")
}

func TestStatuses(t *testing.T) {
	h := testServer(t).Router()
	w := doJSON(t, h, http.MethodGet, "/v1/statuses", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var statuses []model.JobStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &statuses))
	require.Len(t, statuses, 15)
	assert.Equal(t, model.StatusNew, statuses[0])
	assert.Equal(t, model.StatusCancelled, statuses[14])
}
