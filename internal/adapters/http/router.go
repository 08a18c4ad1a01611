package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/parseapp/docpreview/internal/config"
	"github.com/parseapp/docpreview/internal/core/ports"
	"github.com/parseapp/docpreview/internal/observability/metrics"
)

const serviceName = "docpreview-api"

type Router struct {
	cfg      config.Config
	uploader ports.FileUploader
	files    ports.FileReader
	jobs     ports.JobPoller
	metrics  *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	uploader ports.FileUploader,
	files ports.FileReader,
	jobs ports.JobPoller,
	m *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		cfg:      cfg,
		uploader: uploader,
		files:    files,
		jobs:     jobs,
		metrics:  m,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/files/upload", rt.uploadFile)
	mux.HandleFunc("/files/upload_async", rt.uploadFileAsync)
	mux.HandleFunc("/files/", rt.filesByID)
	mux.HandleFunc("/jobs/", rt.getJob)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = accessLogMiddleware(mux)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	handler = backpressureMiddleware(handler, rt.cfg.APIMaxInFlight, time.Second)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}
