// Package api exposes the task, knowledge, and auth services as a
// session-authenticated JSON HTTP API.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhive/taskhive/internal/auth"
	"github.com/taskhive/taskhive/internal/cache"
	"github.com/taskhive/taskhive/internal/knowledge"
	"github.com/taskhive/taskhive/internal/realtime"
	"github.com/taskhive/taskhive/internal/task"
	"github.com/taskhive/taskhive/internal/user"
)

// TaskStore is what the task handlers need from the task service.
type TaskStore interface {
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]task.Task, int64, error)
	Get(ctx context.Context, userID, taskID uuid.UUID) (task.Task, error)
	Create(ctx context.Context, userID uuid.UUID, params task.CreateParams) (task.Task, error)
	Update(ctx context.Context, userID, taskID uuid.UUID, params task.UpdateParams) (task.Task, error)
	Delete(ctx context.Context, userID, taskID uuid.UUID) error
	Reorder(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error
}

// UserStore is what the auth handlers need from the user service.
type UserStore interface {
	Create(ctx context.Context, email, name, passwordHash string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
}

// KnowledgeStore is what the search handlers need from the knowledge
// service.
type KnowledgeStore interface {
	Add(ctx context.Context, content string, embedding []float32, metadata map[string]any, domain string) (knowledge.Item, error)
	Search(ctx context.Context, embedding []float32, threshold float64, count int) ([]knowledge.Result, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// ServerConfig contains configuration for creating the API server.
type ServerConfig struct {
	Logger      *slog.Logger
	Tasks       TaskStore       // Required
	Users       UserStore       // Required
	Knowledge   KnowledgeStore  // Required
	Tokens      *auth.Tokens    // Required
	Cache       *cache.Cache    // Required (may run in disabled mode)
	Hub         *realtime.Hub   // Required
	Pool        *pgxpool.Pool   // Optional: nil disables DB check in /ready
	CORSOrigins []string        // Allowed origins for CORS
	TrustProxy  bool            // Trust X-Real-IP/X-Forwarded-For headers
	RateBurst   int             // Rate limiter burst size per IP (0 = default 60)
}

// Server is the JSON API HTTP server.
type Server struct {
	mux *http.ServeMux
}

// NewServer creates a new API server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Tasks == nil {
		return nil, errors.New("task store is required")
	}
	if cfg.Users == nil {
		return nil, errors.New("user store is required")
	}
	if cfg.Knowledge == nil {
		return nil, errors.New("knowledge store is required")
	}
	if cfg.Tokens == nil {
		return nil, errors.New("token service is required")
	}
	if cfg.Cache == nil {
		return nil, errors.New("cache is required")
	}
	if cfg.Hub == nil {
		return nil, errors.New("realtime hub is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ah := &authHandler{
		users:    cfg.Users,
		tokens:   cfg.Tokens,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}

	th := &taskHandler{
		store:  cfg.Tasks,
		cache:  cfg.Cache,
		hub:    cfg.Hub,
		logger: logger,
	}

	kh := &knowledgeHandler{
		store:  cfg.Knowledge,
		logger: logger,
	}

	wh := &wsHandler{
		hub:     cfg.Hub,
		origins: cfg.CORSOrigins,
		logger:  logger,
	}

	requireAuth := authMiddleware(cfg.Tokens, logger)

	mux := http.NewServeMux()

	// Auth
	mux.HandleFunc("POST /api/auth/register", ah.register)
	mux.HandleFunc("POST /api/auth/login", ah.login)
	mux.Handle("GET /api/auth/me", requireAuth(http.HandlerFunc(ah.me)))

	// Task CRUD. The literal /api/tasks/reorder pattern wins over the
	// {id} wildcard, so reorder never parses as a task ID.
	mux.Handle("GET /api/tasks", requireAuth(http.HandlerFunc(th.list)))
	mux.Handle("POST /api/tasks", requireAuth(http.HandlerFunc(th.create)))
	mux.Handle("PUT /api/tasks/reorder", requireAuth(http.HandlerFunc(th.reorder)))
	mux.Handle("GET /api/tasks/events", requireAuth(http.HandlerFunc(wh.events)))
	mux.Handle("GET /api/tasks/{id}", requireAuth(http.HandlerFunc(th.get)))
	mux.Handle("PUT /api/tasks/{id}", requireAuth(http.HandlerFunc(th.update)))
	mux.Handle("DELETE /api/tasks/{id}", requireAuth(http.HandlerFunc(th.delete)))

	// Vector search: POST queries, PUT stores documents, GET reports
	// the stored item count.
	mux.Handle("POST /api/vector-search", requireAuth(http.HandlerFunc(kh.search)))
	mux.Handle("PUT /api/vector-search", requireAuth(http.HandlerFunc(kh.add)))
	mux.Handle("GET /api/vector-search", requireAuth(http.HandlerFunc(kh.stats)))
	mux.Handle("DELETE /api/vector-search/{id}", requireAuth(http.HandlerFunc(kh.delete)))

	// Rate limiter: per-IP token bucket (1 token/sec refill).
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 60
	}
	rl := newRateLimiter(1.0, burst)

	// Build middleware stack (outermost first):
	//   Recovery → RequestID → Logging → CORS → RateLimit → Routes
	// RequestID must be before Logging so request_id is available in
	// log attributes. CORS must be before RateLimit so preflight
	// OPTIONS gets proper CORS headers.
	var handler http.Handler = mux
	handler = rateLimitMiddleware(rl, cfg.TrustProxy, logger)(handler)
	handler = corsMiddleware(cfg.CORSOrigins)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = requestIDMiddleware()(handler)
	handler = recoveryMiddleware(logger)(handler)

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setSecurityHeaders(w)
		handler.ServeHTTP(w, r)
	})

	// Top-level mux keeps health probes outside the middleware stack.
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /health", health)
	topMux.Handle("GET /ready", readiness(cfg.Pool))
	topMux.Handle("/", final)

	return &Server{mux: topMux}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}
