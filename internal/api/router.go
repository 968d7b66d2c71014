package api

import (
	"context"
	"encoding/json"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/meur/biblioteca/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// ItemStore is the storage the handlers need
type ItemStore interface {
	ListItems(ctx context.Context) ([]models.Item, error)
	GetItem(ctx context.Context, id int64) (*models.Item, error)
	CreateItem(ctx context.Context, in models.ItemInput) (int64, error)
	UpdateItem(ctx context.Context, id int64, in models.ItemInput) (int64, error)
	DeleteItem(ctx context.Context, id int64) (int64, error)
	Ping(ctx context.Context) error
}

// Options configures optional parts of the server
type Options struct {
	// Static is the front-end bundle; nil disables static serving
	Static fs.FS
	// HideStorageErrors replaces driver messages in 400 responses
	HideStorageErrors bool
}

// Server holds the HTTP server dependencies
type Server struct {
	store   ItemStore
	log     *zap.Logger
	opts    Options
	router  chi.Router
	metrics *metrics
	static  http.Handler
}

// New creates a new API server
func New(store ItemStore, log *zap.Logger, opts Options) *Server {
	s := &Server{
		store:   store,
		log:     log,
		opts:    opts,
		router:  chi.NewRouter(),
		metrics: newMetrics(prometheus.NewRegistry()),
	}
	if opts.Static != nil {
		s.static = http.FileServer(http.FS(opts.Static))
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(requestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.GetHead)
	s.router.Use(s.requestLogger)
	s.router.Use(s.metrics.instrument)
	s.router.Use(s.recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api/biblioteca", func(r chi.Router) {
		r.Get("/", s.handleListItems)
		r.Post("/", s.handleCreateItem)
		r.Get("/{id}", s.handleGetItem)
		r.Put("/{id}", s.handleUpdateItem)
		r.Delete("/{id}", s.handleDeleteItem)
	})

	s.router.Get("/", s.handleIndex)

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	s.router.Get("/readyz", s.handleReady)
	s.router.Handle("/metrics", s.metrics.handler())

	s.router.NotFound(s.handleNotFound)
	s.router.MethodNotAllowed(s.handleNotFound)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.log.Error("Database readiness check failed", zap.Error(err))
		http.Error(w, "database not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}

// --- Response helpers ---

// envelope is the body of every JSON response. Zero members are omitted.
type envelope struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	ID      int64       `json:"id,omitempty"`
	Changes int64       `json:"changes,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type idData struct {
	ID int64 `json:"id"`
}

func respondJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, envelope{Error: message})
}
