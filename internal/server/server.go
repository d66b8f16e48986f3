// Package server provides the HTTP REST API for the resume parser.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jonathan/resume-parser/internal/analytics"
	"github.com/jonathan/resume-parser/internal/config"
	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/matching"
	"github.com/jonathan/resume-parser/internal/parser"
	"github.com/jonathan/resume-parser/internal/server/middleware"
	"github.com/jonathan/resume-parser/internal/server/ratelimit"
	"github.com/jonathan/resume-parser/internal/store"
)

const version = "1.0.0"

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	cfg         *config.Config
	store       store.Store
	llmClient   llm.Client
	parser      *parser.Service
	matcher     *matching.Matcher
	analytics   *analytics.Service
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	startedAt   time.Time
	dbConnected bool
}

// New creates a server, connecting to PostgreSQL when DATABASE_URL is set
// and falling back to the in-memory store otherwise.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	s := &Server{
		cfg:       cfg,
		startedAt: time.Now(),
	}

	if cfg.DatabaseURL != "" {
		pg, err := store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		s.store = pg
		s.dbConnected = true
	} else {
		log.Printf("DATABASE_URL not set, using in-memory store")
		s.store = store.NewMemoryStore()
	}

	if client, err := newLLMClient(ctx, cfg); err != nil {
		return nil, err
	} else if client != nil {
		s.llmClient = client
	} else {
		log.Printf("no LLM provider configured, parsing will use the regex fallback")
	}

	s.parser = parser.NewService(s.llmClient, s.store, parser.Config{
		MaxConcurrent:  cfg.MaxConcurrent,
		DefaultOCR:     cfg.EnableOCR,
		DefaultEnhance: cfg.EnableEnhance,
		TesseractCmd:   cfg.TesseractCmd,
	})
	s.matcher = matching.NewMatcher(s.llmClient, cfg.MatchingThreshold)
	s.analytics = analytics.NewService(s.store)
	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())
	if cfg.AuthEnabled() {
		s.jwtService = NewJWTService(cfg.SecretKey, cfg.AccessTokenExpiry)
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// newLLMClient builds the configured provider client, or nil when no
// provider is configured.
func newLLMClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "openai":
		llmCfg := llm.DefaultOpenAIConfig()
		llmCfg.Temperature = cfg.Temperature
		llmCfg.MaxTokens = cfg.MaxTokens
		llmCfg.Timeout = cfg.LLMTimeout
		if cfg.OpenAIModel != "" {
			llmCfg = llmCfg.WithModel(llm.TierStandard, cfg.OpenAIModel)
		}
		return llm.NewClient(ctx, llmCfg, cfg.OpenAIAPIKey)
	case "gemini":
		llmCfg := llm.DefaultGeminiConfig()
		llmCfg.Temperature = cfg.Temperature
		llmCfg.MaxTokens = cfg.MaxTokens
		llmCfg.Timeout = cfg.LLMTimeout
		return llm.NewClient(ctx, llmCfg, cfg.GeminiAPIKey)
	default:
		return nil, nil
	}
}

// routes builds the API router. Resume and analytics routes require auth
// when it is configured.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	mux.HandleFunc("POST /api/v1/auth/token", s.handleAuthToken)

	api := http.NewServeMux()
	api.HandleFunc("POST /api/v1/resumes/upload", s.handleUpload)
	api.HandleFunc("GET /api/v1/resumes", s.handleListResumes)
	api.HandleFunc("GET /api/v1/resumes/{id}", s.handleGetResume)
	api.HandleFunc("PUT /api/v1/resumes/{id}", s.handleUpdateResume)
	api.HandleFunc("DELETE /api/v1/resumes/{id}", s.handleDeleteResume)
	api.HandleFunc("GET /api/v1/resumes/{id}/status", s.handleResumeStatus)
	api.HandleFunc("POST /api/v1/resumes/{id}/match", s.handleMatch)
	api.HandleFunc("GET /api/v1/resumes/{id}/matches", s.handleListMatches)
	api.HandleFunc("GET /api/v1/analytics/market", s.handleMarketAnalytics)
	api.HandleFunc("GET /api/v1/analytics/resume/{id}", s.handleResumeAnalytics)

	var protected http.Handler = api
	if s.jwtService != nil {
		protected = middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(api)
	}
	mux.Handle("/api/v1/", protected)

	return mux
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.llmClient != nil {
		if err := s.llmClient.Close(); err != nil {
			log.Printf("Error closing LLM client: %v", err)
		}
	}
	s.store.Close()
	log.Println("Server stopped")
	return nil
}

// handleHealth returns service health and dependency status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	services := map[string]string{
		"database":   "ok",
		"ai_service": "unconfigured",
		"storage":    "memory",
	}
	status := http.StatusOK

	if s.dbConnected {
		services["storage"] = "postgres"
	}
	if err := s.store.Ping(r.Context()); err != nil {
		services["database"] = "unavailable"
		status = http.StatusServiceUnavailable
	}
	if s.llmClient != nil {
		services["ai_service"] = "ok"
	}

	body := map[string]any{
		"status":   "ok",
		"version":  version,
		"uptime":   int(time.Since(s.startedAt).Seconds()),
		"services": services,
	}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	s.jsonResponse(w, status, body)
}

// handleAuthToken exchanges the configured API key for a short-lived JWT.
func (s *Server) handleAuthToken(w http.ResponseWriter, r *http.Request) {
	if s.jwtService == nil {
		s.errorResponseCode(w, http.StatusNotFound, CodeNotFound, "authentication is not enabled")
		return
	}

	var req struct {
		APIKey string `json:"apiKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponseCode(w, http.StatusBadRequest, CodeValidation, "invalid request body")
		return
	}
	if req.APIKey != s.cfg.APIKey {
		s.errorResponseCode(w, http.StatusUnauthorized, "INVALID_API_KEY", "invalid API key")
		return
	}

	token, expiresAt, err := s.jwtService.GenerateToken("api-client")
	if err != nil {
		log.Printf("Error generating token: %v", err)
		s.errorResponseCode(w, http.StatusInternalServerError, CodeInternal, "failed to generate token")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"accessToken": token,
		"tokenType":   "bearer",
		"expiresAt":   expiresAt.Format(time.RFC3339),
	})
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	origins := strings.Join(s.cfg.CORSOrigins, ", ")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		if !allowed {
			s.setRateLimitHeaders(w, info)
			s.rateLimitResponse(w, info)
			return
		}

		s.setRateLimitHeaders(w, info)
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// extractClientID extracts the client identifier from the request.
// Uses the IP address from RemoteAddr; X-Forwarded-For is deliberately
// not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response derived from a typed error
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("Internal error: %v", err)
		s.errorResponseCode(w, status, CodeInternal, "internal server error")
		return
	}
	s.errorResponseCode(w, status, errorCode(err), err.Error())
}

// errorResponseCode writes an error JSON response with an explicit code
func (s *Server) errorResponseCode(w http.ResponseWriter, status int, code, message string) {
	s.jsonResponse(w, status, map[string]string{
		"error":   code,
		"message": message,
	})
}
