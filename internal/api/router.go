package api

import (
	"net/http"

	"go-diet-pipeline/internal/api/handler"
	_ "go-diet-pipeline/internal/docs"
	"go-diet-pipeline/pkg/router"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// RegisterRoutes mounts the analysis API, metrics and the swagger UI
func RegisterRoutes(r *router.Router, h *handler.AnalysisHandler) {
	r.POST("/api/v1/analyses", h.CreateAnalysis)
	r.GET("/api/v1/analyses", h.ListAnalyses)
	// More specific routes first
	r.GET("/api/v1/analyses/*/errors", h.GetAnalysisErrors)
	r.GET("/api/v1/analyses/*/summary", h.GetAnalysisSummary)
	r.GET("/api/v1/analyses/*/files", h.GetAnalysisFiles)
	// Generic analysis route last
	r.GET("/api/v1/analyses/*", h.GetAnalysis)
	r.GET("/api/v1/download/*/*", h.DownloadFile)

	r.GET("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Mount("/metrics", promhttp.Handler())
	r.Mount("/swagger/", httpSwagger.WrapHandler)
}
