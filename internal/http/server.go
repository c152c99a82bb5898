package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/monukmodi/smart-expense-tracker-client/internal/aggregate"
	"github.com/monukmodi/smart-expense-tracker-client/internal/ai"
	"github.com/monukmodi/smart-expense-tracker-client/internal/cache"
	applog "github.com/monukmodi/smart-expense-tracker-client/internal/log"
	"github.com/monukmodi/smart-expense-tracker-client/internal/notify"
	"github.com/monukmodi/smart-expense-tracker-client/internal/session"
)

// Advisor serves the three AI operations with fallback handling.
type Advisor interface {
	Predict(ctx context.Context, days int, mode ai.Mode) (ai.Result[ai.Prediction], error)
	Coach(ctx context.Context, days int, mode ai.Mode) (ai.Result[ai.CoachTips], error)
	ScanRecurring(ctx context.Context, days int, mode ai.Mode) (ai.Result[ai.Recurring], error)
}

// Authenticator manages the upstream credential exchange and local session.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*session.Profile, error)
	Register(ctx context.Context, name, email, password string) (*session.Profile, error)
	Logout()
	CurrentUser() *session.Profile
}

// Refresher asks the mirror worker to re-fetch transactions.
type Refresher interface {
	PublishRefresh(ctx context.Context, count int) error
}

type Options struct {
	Addr      string
	FetchSize int
	CacheTTL  time.Duration

	Source    aggregate.TransactionSource
	Advisor   Advisor
	Auth      Authenticator
	Toasts    *notify.Center
	Refresher Refresher // optional
}

type Server struct {
	http.Server

	source    aggregate.TransactionSource
	advisor   Advisor
	auth      Authenticator
	toasts    *notify.Center
	refresher Refresher
	fetchSize int

	rateLimiter *rateLimiter
	metrics     *securityMetrics
	slogger     *applog.StructuredLogger

	dashCache    *cache.LRUCache[dashboardResponse]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and caches, returning a ready-to-run http.Server.
func NewServer(opts Options) *Server {
	mux := http.NewServeMux()

	fetchSize := opts.FetchSize
	if fetchSize <= 0 {
		fetchSize = 200
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	gwlog := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentGateway,
	})

	s := &Server{
		Server: http.Server{
			Addr:    opts.Addr,
			Handler: applog.Middleware(gwlog)(applog.RequestIDMiddleware(requestIDFor)(mux)),
		},
		source:    opts.Source,
		advisor:   opts.Advisor,
		auth:      opts.Auth,
		toasts:    opts.Toasts,
		refresher: opts.Refresher,
		fetchSize: fetchSize,

		rateLimiter: newRateLimiter(perMinuteLimit),
		metrics:     &securityMetrics{},
		slogger:     applog.NewStructuredLogger(gwlog),

		dashCache:    cache.NewLRUCache[dashboardResponse](32, ttl),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.dashCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/api/auth/login", s.withSecurity(s.handleLogin))
	mux.HandleFunc("/api/auth/register", s.withSecurity(s.handleRegister))
	mux.HandleFunc("/api/auth/logout", s.withSecurity(s.handleLogout))

	mux.HandleFunc("/api/dashboard", s.withSecurity(s.handleDashboard))
	mux.HandleFunc("/api/refresh", s.withSecurity(s.handleRefresh))

	mux.HandleFunc("/api/predict", s.withSecurity(s.handlePredict))
	mux.HandleFunc("/api/ai/coach", s.withSecurity(s.handleCoach))
	mux.HandleFunc("/api/ai/recurring/scan", s.withSecurity(s.handleRecurringScan))

	mux.HandleFunc("/api/notifications", s.withSecurity(s.handleNotifications))
	mux.HandleFunc("/api/notifications/", s.withSecurity(s.handleNotificationByID))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		if s.toasts != nil {
			s.toasts.Close()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurity adds security headers, rate limiting, and request logging.
func (s *Server) withSecurity(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		ctx := r.Context()
		requestID := applog.RequestIDFromContext(ctx)
		w.Header().Set("X-Request-ID", requestID)

		s.slogger.LogHTTPStart(ctx, r, clientIP, requestID)

		if detectSuspiciousRequest(r, s.metrics) {
			slog.WarnContext(ctx, "Suspicious request",
				applog.FieldComponent, applog.ComponentSecurity,
				applog.FieldClientIP, clientIP,
				applog.FieldPath, r.URL.Path)
		}

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP, s.metrics) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				applog.FieldComponent, applog.ComponentRateLimit,
				applog.FieldClientIP, clientIP,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cache-Control", "no-store")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		s.slogger.LogHTTPEnd(ctx, r, rw.statusCode, duration.Milliseconds(), clientIP, requestID)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.toasts == nil {
		writeJSON(w, http.StatusOK, map[string]any{"items": []notify.Toast{}})
		return
	}
	items := s.toasts.Active()
	if items == nil {
		items = []notify.Toast{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleNotificationByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", "DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/notifications/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing notification id")
		return
	}
	if s.toasts != nil {
		s.toasts.Dismiss(id)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	s.dashCache.Purge()

	if s.refresher == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "cache cleared"})
		return
	}

	if err := s.refresher.PublishRefresh(r.Context(), s.fetchSize); err != nil {
		slog.ErrorContext(r.Context(), "Refresh publish failed", "error", err)
		s.pushToast(r.Context(), notify.KindError, "Could not queue a refresh")
		writeError(w, http.StatusBadGateway, "refresh could not be queued")
		return
	}

	s.pushToast(r.Context(), notify.KindInfo, "Refresh queued")
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (s *Server) pushToast(ctx context.Context, kind notify.Kind, text string) {
	if s.toasts != nil {
		s.toasts.Push(ctx, kind, text)
	}
}
