package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/gigurra/rental-dashboard/internal"
	"github.com/gigurra/rental-dashboard/internal/observability"
)

// Handler serves the dashboard routes.
type Handler struct {
	dashboard *Dashboard
	logger    *zap.Logger
	index     *template.Template
}

// NewHandler returns a new Handler.
func NewHandler(dashboard *Dashboard, logger *zap.Logger) *Handler {
	return &Handler{
		dashboard: dashboard,
		logger:    logger,
		index:     indexTemplate,
	}
}

// GetIndex handles GET /.
func (h *Handler) GetIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := http.StatusOK
	rng, err := h.dashboard.ResolveRange(q.Get("start"), q.Get("end"))
	var errMsg string
	if err != nil {
		h.recordRangeError(r, err)
		// show the full range along with the error instead of a blank page
		status = http.StatusBadRequest
		errMsg = err.Error()
		rng = h.dashboard.Bounds()
	}

	report := h.dashboard.Report(rng)
	page := newIndexPage(h.dashboard, report, errMsg)

	var buf bytes.Buffer
	if err := h.index.Execute(&buf, page); err != nil {
		h.logError(r, "rendering index", err)
		writeError(w, r, http.StatusInternalServerError, "RENDER_FAILED", "Unable to render dashboard")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// GetChart handles GET /charts/{name}.png.
func (h *Handler) GetChart(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if !slices.Contains(internal.ChartNames, name) {
		writeError(w, r, http.StatusNotFound, "UNKNOWN_CHART", "unknown chart: "+name)
		return
	}
	rng, ok := h.selectedRange(w, r)
	if !ok {
		return
	}

	report := h.dashboard.Report(rng)
	var buf bytes.Buffer
	began := time.Now()
	err := h.dashboard.charter.Render(&buf, name, report)
	observability.RecordChart(name, time.Since(began), err)
	if err != nil {
		h.logError(r, "rendering chart", err)
		writeError(w, r, http.StatusInternalServerError, "RENDER_FAILED", "Unable to render chart")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// GetReport handles GET /api/report.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.selectedRange(w, r)
	if !ok {
		return
	}
	report := h.dashboard.Report(rng)
	writeJSON(w, http.StatusOK, internal.NewJSONOutput(report, h.dashboard.Title(report)))
}

// GetHealth handles GET /health.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	bounds := h.dashboard.Bounds()
	body := map[string]interface{}{
		"status": "healthy",
		"year":   h.dashboard.year,
		"rows":   h.dashboard.Rows(),
	}
	if h.dashboard.hasData {
		body["bounds"] = map[string]string{
			"start": bounds.Start.Format(dateLayout),
			"end":   bounds.End.Format(dateLayout),
		}
	}
	writeJSON(w, http.StatusOK, body)
}

// selectedRange reads start/end from the query. On failure it writes a 400
// and returns false.
func (h *Handler) selectedRange(w http.ResponseWriter, r *http.Request) (internal.DateRange, bool) {
	q := r.URL.Query()
	rng, err := h.dashboard.ResolveRange(q.Get("start"), q.Get("end"))
	if err == nil {
		return rng, true
	}
	code := h.recordRangeError(r, err)
	writeError(w, r, http.StatusBadRequest, code, err.Error())
	return internal.DateRange{}, false
}

func (h *Handler) recordRangeError(r *http.Request, err error) string {
	code, reason := "INVALID_DATE", "invalid_date"
	if errors.Is(err, internal.ErrStartAfterEnd) {
		code, reason = "INVALID_RANGE", "start_after_end"
	}
	observability.InvalidRangeTotal.WithLabelValues(reason).Inc()
	if logger := loggerFrom(r); logger != nil {
		logger.Debug("rejected date range", zap.String("reason", reason), zap.Error(err))
	}
	return code
}

func (h *Handler) logError(r *http.Request, msg string, err error) {
	logger := loggerFrom(r)
	if logger == nil {
		logger = h.logger
	}
	logger.Error(msg, zap.Error(err))
}

// NotFound answers unmatched paths with a JSON error.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, "NOT_FOUND", "no route for "+r.URL.Path)
}

const dateLayout = "2006-01-02"

// writeJSON writes a JSON response with the specified HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an error response with code, message and the request's
// correlation ID.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":      code,
			"message":   message,
			"requestId": correlationID(r),
		},
	})
}

func rangeQuery(rng internal.DateRange) string {
	v := url.Values{}
	v.Set("start", rng.Start.Format(dateLayout))
	v.Set("end", rng.End.Format(dateLayout))
	return v.Encode()
}
