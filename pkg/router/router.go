package router

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

// --- ANSI color codes ---
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

type HandlerFunc func(http.ResponseWriter, *http.Request)

type Router struct {
	mux       *http.ServeMux
	routes    map[string]HandlerFunc // key = METHOD:PATH
	paths     map[string]bool        // track registered paths
	wildcards []string               // wildcard paths in registration order
}

func New() *Router {
	r := &Router{
		mux:    http.NewServeMux(),
		routes: make(map[string]HandlerFunc),
		paths:  make(map[string]bool),
	}
	r.mux.HandleFunc("/", r.dispatch)
	return r
}

// dispatch serves every path not mounted directly on the mux
func (r *Router) dispatch(w http.ResponseWriter, req *http.Request) {
	start := time.Now()
	lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

	if h, ok := r.routes[req.Method+":"+req.URL.Path]; ok {
		h(lrw, req)
	} else if h, ok := r.matchWildcard(req.Method, req.URL.Path); ok {
		h(lrw, req)
	} else if r.pathExists(req.URL.Path) {
		http.Error(lrw, "Method Not Allowed", http.StatusMethodNotAllowed)
	} else {
		http.Error(lrw, "Not Found", http.StatusNotFound)
	}

	duration := time.Since(start)
	log.Info().Msgf("%s%s%s %s %s%d%s %s(%v)%s",
		methodColor(req.Method), req.Method, colorReset,
		req.URL.Path,
		statusColor(lrw.statusCode), lrw.statusCode, colorReset,
		colorBlue, duration, colorReset,
	)
}

// matchWildcard returns the first wildcard route registered for method that
// matches path. Routes registered earlier win, so register specific ones first.
func (r *Router) matchWildcard(method, path string) (HandlerFunc, bool) {
	for _, pattern := range r.wildcards {
		if !matchWildcardRoute(path, pattern) {
			continue
		}
		if h, ok := r.routes[method+":"+pattern]; ok {
			return h, true
		}
	}
	return nil, false
}

func (r *Router) pathExists(path string) bool {
	if r.paths[path] {
		return true
	}
	for _, pattern := range r.wildcards {
		if matchWildcardRoute(path, pattern) {
			return true
		}
	}
	return false
}

// matchWildcardRoute checks if a request path matches a wildcard route pattern
func matchWildcardRoute(requestPath, routePattern string) bool {
	requestSegments := strings.Split(strings.Trim(requestPath, "/"), "/")
	routeSegments := strings.Split(strings.Trim(routePattern, "/"), "/")

	// a trailing wildcard matches one or more remaining segments
	if last := len(routeSegments) - 1; last >= 0 && routeSegments[last] == "*" {
		if len(requestSegments) < len(routeSegments) {
			return false
		}
		for i := 0; i < last; i++ {
			if routeSegments[i] != "*" && requestSegments[i] != routeSegments[i] {
				return false
			}
		}
		return requestSegments[last] != ""
	}

	if len(requestSegments) != len(routeSegments) {
		return false
	}
	for i, routeSegment := range routeSegments {
		if routeSegment == "*" {
			if requestSegments[i] == "" {
				return false
			}
			continue
		}
		if requestSegments[i] != routeSegment {
			return false
		}
	}
	return true
}

// --- Register paths ---
func (r *Router) register(method, path string, handler HandlerFunc) {
	key := method + ":" + path
	r.routes[key] = handler
	if !r.paths[path] && strings.Contains(path, "*") {
		r.wildcards = append(r.wildcards, path)
	}
	r.paths[path] = true
}

func (r *Router) GET(path string, handler HandlerFunc)   { r.register(http.MethodGet, path, handler) }
func (r *Router) POST(path string, handler HandlerFunc)  { r.register(http.MethodPost, path, handler) }
func (r *Router) PUT(path string, handler HandlerFunc)   { r.register(http.MethodPut, path, handler) }
func (r *Router) PATCH(path string, handler HandlerFunc) { r.register(http.MethodPatch, path, handler) }
func (r *Router) DELETE(path string, handler HandlerFunc) {
	r.register(http.MethodDelete, path, handler)
}

// Mount serves h for pattern directly on the underlying mux, bypassing
// method routing. Used for /metrics and the swagger UI.
func (r *Router) Mount(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

// Getter methods for testing
func (r *Router) Routes() map[string]HandlerFunc {
	return r.routes
}

func (r *Router) Paths() map[string]bool {
	return r.paths
}

// Handler returns the router wrapped with CORS
func (r *Router) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler(r.mux)
}

// --- Start server ---

// Start serves until ctx is done, then shuts down gracefully
func (r *Router) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("🚀 Server started on %shttp://localhost%s%s", colorGreen, addr, colorReset)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info().Msg("🛑 Shutting down server")
		return srv.Shutdown(shutdownCtx)
	}
}

// --- Logging response writer to capture status codes ---
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// --- Color helpers ---
func statusColor(code int) string {
	switch {
	case code >= 200 && code < 300:
		return colorGreen
	case code >= 300 && code < 400:
		return colorCyan
	case code >= 400 && code < 500:
		return colorYellow
	default:
		return colorRed
	}
}

func methodColor(method string) string {
	switch method {
	case http.MethodGet:
		return colorGreen
	case http.MethodPost:
		return colorBlue
	case http.MethodPut, http.MethodPatch:
		return colorYellow
	case http.MethodDelete:
		return colorRed
	default:
		return colorCyan
	}
}
