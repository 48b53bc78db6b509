// Package server exposes the receipt pipeline over HTTP.
package server

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bernardyeh/receipt-filing/internal/receipt"
)

// Server handles HTTP requests for receipt processing and export
type Server struct {
	service   *receipt.Service
	version   string
	basicAuth BasicAuth
	mux       *http.ServeMux
}

// BasicAuth holds basic authentication credentials
type BasicAuth struct {
	Username string
	Password string
}

// New creates a new Server with default mux
func New(service *receipt.Service, version string, basicAuth BasicAuth) *Server {
	return NewWithMux(service, version, basicAuth, http.NewServeMux())
}

// NewWithMux creates a new Server with a custom mux for testing
func NewWithMux(service *receipt.Service, version string, basicAuth BasicAuth, mux *http.ServeMux) *Server {
	s := &Server{
		service:   service,
		version:   version,
		basicAuth: basicAuth,
		mux:       mux,
	}
	s.registerRoutes()
	return s
}

// authenticate checks basic auth credentials
func (s *Server) authenticate(r *http.Request) bool {
	if s.basicAuth.Username == "" && s.basicAuth.Password == "" {
		return true // No auth required if not configured
	}

	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Basic ") {
		return false
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(auth, "Basic "))
	if err != nil {
		return false
	}

	credentials := strings.SplitN(string(decoded), ":", 2)
	if len(credentials) != 2 {
		return false
	}

	return credentials[0] == s.basicAuth.Username && credentials[1] == s.basicAuth.Password
}

// corsMiddleware adds CORS headers to responses
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.setCORSHeaders(w)

		// Handle preflight OPTIONS requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next(w, r)
	}
}

// requireAuth middleware
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authenticate(r) {
			// Ensure CORS headers are set before error response
			s.setCORSHeaders(w)
			w.Header().Set("WWW-Authenticate", `Basic realm="receipt-filing"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// setCORSHeaders sets CORS headers on a response
func (s *Server) setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// registerRoutes registers all API routes on the server's mux
// Routes must be registered from most specific to least specific to avoid conflicts
func (s *Server) registerRoutes() {
	// API endpoints - categories (most specific paths first)
	s.mux.HandleFunc("POST /api/categories/{category}/keywords", s.requireAuth(s.handleAddKeyword))
	s.mux.HandleFunc("GET /api/categories", s.requireAuth(s.handleListCategories))
	s.mux.HandleFunc("POST /api/categories", s.requireAuth(s.handleCreateCategory))

	// API endpoints - processing and export
	s.mux.HandleFunc("POST /api/receipts", s.requireAuth(s.handleUploadReceipts))
	s.mux.HandleFunc("POST /api/export/csv", s.requireAuth(s.handleExportCSV))
	s.mux.HandleFunc("POST /api/export/xlsx", s.requireAuth(s.handleExportExcel))
	s.mux.HandleFunc("POST /api/summary", s.requireAuth(s.handleSummary))
	s.mux.HandleFunc("GET /api/version", s.requireAuth(s.handleVersion))

	// Unauthenticated service banner (register last as it's the catch-all)
	s.mux.HandleFunc("GET /", s.handleRoot)
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	slog.Info("Starting server", "address", addr)
	// Wrap the mux with CORS middleware to handle all requests including OPTIONS
	return http.ListenAndServe(addr, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
			s.mux.ServeHTTP(w, r)
		})(w, r)
	}))
}

// ServeHTTP implements http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
