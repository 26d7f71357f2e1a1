package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/edgepulse/edgepulse/server/internal/compute"
	"github.com/edgepulse/edgepulse/server/internal/config"
	"github.com/edgepulse/edgepulse/server/internal/metrics"
	"github.com/edgepulse/edgepulse/server/internal/store"
)

// Handler is the HTTP handler for all edgepulse endpoints.
// It reads telemetry from the store and reports request activity to the collector.
type Handler struct {
	store   *store.Store
	metrics *metrics.Collector
	maxBody int64
	mux     *http.ServeMux
	root    http.Handler
}

// New creates a Handler wired to the given store and collector and registers all routes.
func New(st *store.Store, m *metrics.Collector, cfg config.ServerConfig) http.Handler {
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = config.DefaultMaxBodyBytes
	}
	h := &Handler{store: st, metrics: m, maxBody: maxBody, mux: http.NewServeMux()}

	h.mux.HandleFunc("/analytics", h.analytics)
	h.mux.HandleFunc("/healthz", h.healthz)
	h.mux.HandleFunc("/regions", h.regions)
	h.mux.Handle("/metrics", m)

	h.root = observe(m, newCORS(cfg.CORS).wrap(h.mux))
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.root.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// analytics handles POST /analytics: per-region stats for the requested regions.
func (h *Handler) analytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonErr(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		jsonErr(w, http.StatusBadRequest, "read request body: "+err.Error())
		return
	}

	req, fieldErrs, err := decodeAnalytics(body)
	if err != nil {
		jsonErr(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if len(fieldErrs) > 0 {
		jsonResp(w, http.StatusUnprocessableEntity, ValidationResponse{Detail: fieldErrs})
		return
	}

	report := compute.Analyze(h.store.Snapshot(), req.Regions, req.ThresholdMS)

	breaches := 0
	for _, region := range report.Regions() {
		s, _ := report.Get(region)
		breaches += s.Breaches
	}
	h.metrics.ObserveRegions(report.Len(), unknownCount(req.Regions, report))
	h.metrics.AddBreaches(breaches)

	slog.Debug("api: analytics",
		"requested", len(req.Regions),
		"reported", report.Len(),
		"threshold_ms", req.ThresholdMS,
	)
	jsonResp(w, http.StatusOK, report)
}

// healthz handles GET /healthz.
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	info := h.store.Info()
	jsonResp(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		Regions:       info.Regions,
		DatasetSource: info.Source,
		LoadedAt:      info.LoadedAt.UTC().Format(time.RFC3339),
	})
}

// regions handles GET /regions: every known region with its sample count.
func (h *Handler) regions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ds := h.store.Snapshot()
	names := ds.Regions()
	out := make([]RegionResponse, 0, len(names))
	for _, name := range names {
		out = append(out, RegionResponse{Region: name, Samples: len(ds.Get(name))})
	}
	jsonResp(w, http.StatusOK, out)
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}

// unknownCount counts distinct requested regions that are absent from the report.
func unknownCount(requested []string, report *compute.Report) int {
	seen := make(map[string]struct{}, len(requested))
	n := 0
	for _, region := range requested {
		if _, dup := seen[region]; dup {
			continue
		}
		seen[region] = struct{}{}
		if _, ok := report.Get(region); !ok {
			n++
		}
	}
	return n
}
