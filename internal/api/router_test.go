package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go-diet-pipeline/internal/api/handler"
	_ "go-diet-pipeline/internal/testhelper"
	"go-diet-pipeline/pkg/router"
	"go-diet-pipeline/pkg/utils"

	"github.com/stretchr/testify/assert"
)

func TestRegisterRoutes(t *testing.T) {
	r := router.New()
	RegisterRoutes(r, handler.NewAnalysisHandler(nil, nil, utils.NewOutputManager(t.TempDir())))

	for _, key := range []string{
		"POST:/api/v1/analyses",
		"GET:/api/v1/analyses",
		"GET:/api/v1/analyses/*/errors",
		"GET:/api/v1/analyses/*/summary",
		"GET:/api/v1/analyses/*/files",
		"GET:/api/v1/analyses/*",
		"GET:/api/v1/download/*/*",
		"GET:/health",
	} {
		assert.Contains(t, r.Routes(), key)
	}

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/swagger/doc.json", http.StatusOK},
		// reaches the files handler, which finds no outputs
		{http.MethodGet, "/api/v1/analyses/run-1/files", http.StatusNotFound},
		{http.MethodDelete, "/api/v1/analyses/run-1", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/v2/anything", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.Handler().ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
