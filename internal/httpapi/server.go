package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fridgeseal/sealtrack/internal/blob"
	"github.com/fridgeseal/sealtrack/internal/csvio"
	"github.com/fridgeseal/sealtrack/internal/lifecycle"
	"github.com/fridgeseal/sealtrack/internal/model"
	"github.com/fridgeseal/sealtrack/internal/render"
	"github.com/fridgeseal/sealtrack/internal/store"
)

type Server struct {
	Store   *store.Store
	Blobs   blob.LocalFS
	BaseURL string // optional, for generating absolute photo URLs
	Log     *zap.Logger
}

func (s Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(cors)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/statuses", s.handleStatuses)

		r.Post("/jobs", s.handleCreateJob)
		r.Get("/jobs", s.handleListJobs)
		r.Get("/jobs/{id}", s.handleGetJob)
		r.Patch("/jobs/{id}", s.handlePatchJob)
		r.Delete("/jobs/{id}", s.handleDeleteJob)
		r.Post("/jobs/{id}/status", s.handleChangeStatus)
		r.Post("/jobs/{id}/quote", s.handleAddQuote)
		r.Post("/jobs/{id}/invoice", s.handleAddInvoice)
		r.Get("/jobs/{id}/activities", s.handleActivities)
		r.Post("/jobs/{id}/photos", s.handleUploadPhoto)
		r.Put("/jobs/{id}/photos/order", s.handleReorderPhotos)
		r.Get("/jobs/{id}/photos/{photoID}", s.handleGetPhoto)
		r.Get("/jobs/{id}/label", s.handleLabel)

		r.Get("/quotes/{id}", s.handleGetQuote)
		r.Get("/quotes/{id}/doc", s.handleQuoteDoc)
		r.Get("/invoices/{id}", s.handleGetInvoice)
		r.Get("/invoices/{id}/doc", s.handleInvoiceDoc)

		r.Get("/customers", s.handleListCustomers)
		r.Post("/customers", s.handleCreateCustomer)
		r.Get("/parts", s.handleListParts)
		r.Patch("/parts/{id}", s.handlePatchPart)

		r.Get("/export/jobs.csv", s.handleExportJobs)
	})

	return r
}

func (s Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.Log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s Server) handleStatuses(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, lifecycle.All())
}

func (s Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var draft model.JobDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("decode job draft: %w", err))
		return
	}
	job, err := s.Store.AddJob(r.Context(), draft)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

func (s Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	var status *model.JobStatus
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		parsed := model.JobStatus(raw)
		if !lifecycle.Valid(parsed) {
			writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid status: %s", raw))
			return
		}
		status = &parsed
	}

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid limit: %s", raw))
			return
		}
		limit = value
	}

	snap, err := s.Store.Snapshot()
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	jobs := make([]model.Job, 0, len(snap.Jobs))
	for _, job := range snap.Jobs {
		if status != nil && job.Status != *status {
			continue
		}
		jobs = append(jobs, job)
		if limit > 0 && len(jobs) == limit {
			break
		}
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (s Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.Store.Job(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s Server) handlePatchJob(w http.ResponseWriter, r *http.Request) {
	var patch model.JobPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("decode job patch: %w", err))
		return
	}
	job, err := s.Store.UpdateJob(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.DeleteJob(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s Server) handleChangeStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		To model.JobStatus `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("decode status change: %w", err))
		return
	}
	job, err := s.Store.ChangeStatus(r.Context(), chi.URLParam(r, "id"), body.To)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s Server) handleAddQuote(w http.ResponseWriter, r *http.Request) {
	quote, err := s.Store.AddQuoteForJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, quote)
}

func (s Server) handleAddInvoice(w http.ResponseWriter, r *http.Request) {
	invoice, err := s.Store.AddInvoiceForJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, invoice)
}

func (s Server) handleActivities(w http.ResponseWriter, r *http.Request) {
	acts := s.Store.ActivitiesFor(chi.URLParam(r, "id"))
	if acts == nil {
		acts = []model.Activity{}
	}
	writeJSON(w, http.StatusOK, acts)
}

func (s Server) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.Store.Job(id); err != nil {
		writeStoreErr(w, err)
		return
	}
	if err := r.ParseMultipartForm(20 << 20); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("parse multipart: %w", err))
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("missing 'image' file: %w", err))
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = ".png"
	}
	photoID := uuid.NewString()
	key, err := s.Blobs.Put(blob.PhotoKey(id, photoID, ext), file)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, fmt.Errorf("store photo: %w", err))
		return
	}

	photo, err := s.Store.AddPhoto(r.Context(), id, key, r.FormValue("caption"))
	if err != nil {
		// The job may have gone away between the lookup above and the
		// mutation; don't leave the file behind.
		if rmErr := s.Blobs.Remove(key); rmErr != nil {
			s.Log.Warn("remove orphaned photo blob", zap.String("key", key), zap.Error(rmErr))
		}
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, photoResponse(id, photo, s.BaseURL))
}

func (s Server) handleReorderPhotos(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("decode photo order: %w", err))
		return
	}
	job, err := s.Store.ReorderPhotos(r.Context(), chi.URLParam(r, "id"), body.IDs)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s Server) handleGetPhoto(w http.ResponseWriter, r *http.Request) {
	job, err := s.Store.Job(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	photoID := chi.URLParam(r, "photoID")
	var key string
	for _, p := range job.Photos {
		if p.ID == photoID {
			key = p.Key
			break
		}
	}
	if key == "" || !s.Blobs.Exists(key) {
		writeErr(w, http.StatusNotFound, fmt.Errorf("photo not found"))
		return
	}
	f, err := s.Blobs.Open(key)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	defer f.Close()

	contentType := "application/octet-stream"
	if ext := filepath.Ext(key); ext != "" {
		if mimeType := mime.TypeByExtension(ext); mimeType != "" {
			contentType = mimeType
		}
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	http.ServeContent(w, r, filepath.Base(key), job.CreatedAt, f)
}

func (s Server) handleLabel(w http.ResponseWriter, r *http.Request) {
	job, err := s.Store.Job(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	out, err := render.Label(job)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeHTML(w, out)
}

func (s Server) handleGetQuote(w http.ResponseWriter, r *http.Request) {
	quote, err := s.Store.Quote(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (s Server) handleQuoteDoc(w http.ResponseWriter, r *http.Request) {
	quote, err := s.Store.Quote(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	out, err := render.QuoteDoc(quote, s.jobNo(quote.JobID))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeHTML(w, out)
}

func (s Server) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	invoice, err := s.Store.Invoice(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}

func (s Server) handleInvoiceDoc(w http.ResponseWriter, r *http.Request) {
	invoice, err := s.Store.Invoice(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	out, err := render.InvoiceDoc(invoice, s.jobNo(invoice.JobID))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeHTML(w, out)
}

// jobNo resolves a job number for document rendering; the job may already be
// deleted, in which case the document stands on its own.
func (s Server) jobNo(jobID string) string {
	job, err := s.Store.Job(jobID)
	if err != nil {
		return jobID
	}
	return job.JobNo
}

func (s Server) handleListCustomers(w http.ResponseWriter, _ *http.Request) {
	snap, err := s.Store.Snapshot()
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, snap.Customers)
}

func (s Server) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Customer model.Customer `json:"customer"`
		Site     model.Site     `json:"site"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("decode customer: %w", err))
		return
	}
	customer, err := s.Store.AddCustomer(r.Context(), body.Customer, body.Site)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, customer)
}

func (s Server) handleListParts(w http.ResponseWriter, _ *http.Request) {
	snap, err := s.Store.Snapshot()
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, snap.Parts)
}

func (s Server) handlePatchPart(w http.ResponseWriter, r *http.Request) {
	var patch model.PartPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("decode part patch: %w", err))
		return
	}
	part, err := s.Store.UpdatePart(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, part)
}

func (s Server) handleExportJobs(w http.ResponseWriter, _ *http.Request) {
	snap, err := s.Store.Snapshot()
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="jobs.csv"`)
	_, _ = w.Write([]byte(csvio.JobsCSV(snap)))
}

func photoResponse(jobID string, photo model.Photo, baseURL string) map[string]any {
	resp := map[string]any{
		"id":      photo.ID,
		"key":     photo.Key,
		"caption": photo.Caption,
	}
	if baseURL != "" {
		base := strings.TrimRight(baseURL, "/")
		resp["url"] = fmt.Sprintf("%s/v1/jobs/%s/photos/%s", base, jobID, photo.ID)
	}
	return resp
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeHTML(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(body))
}

func writeErr(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]any{"error": err.Error()})
}

// writeStoreErr maps store error kinds onto HTTP statuses.
func writeStoreErr(w http.ResponseWriter, err error) {
	var ve *model.ValidationError
	switch {
	case errors.Is(err, model.ErrNotFound):
		writeErr(w, http.StatusNotFound, err)
	case errors.Is(err, model.ErrInvalidTransition):
		writeErr(w, http.StatusConflict, err)
	case errors.As(err, &ve):
		writeErr(w, http.StatusBadRequest, err)
	default:
		writeErr(w, http.StatusInternalServerError, err)
	}
}
