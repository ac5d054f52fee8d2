package httpapi

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/penguindb/internal/config"
	"github.com/dmitrijs2005/penguindb/internal/logging"
	"github.com/dmitrijs2005/penguindb/internal/metrics"
	"github.com/dmitrijs2005/penguindb/internal/ratelimit"
	"github.com/dmitrijs2005/penguindb/internal/services"
)

// Server holds the handler dependencies. Rate-limit and metrics state is
// injected so each test can construct a fresh instance.
type Server struct {
	users     *services.UserService
	penguins  *services.PenguinService
	db        *sql.DB
	cfg       *config.Config
	jwtSecret []byte
	logger    logging.Logger
	tiers     *ratelimit.Tiers
	tracker   *metrics.Tracker
}

func NewServer(
	users *services.UserService,
	penguins *services.PenguinService,
	db *sql.DB,
	cfg *config.Config,
	logger logging.Logger,
	tiers *ratelimit.Tiers,
	tracker *metrics.Tracker,
) *Server {
	return &Server{
		users:     users,
		penguins:  penguins,
		db:        db,
		cfg:       cfg,
		jwtSecret: []byte(cfg.SecretKey),
		logger:    logger,
		tiers:     tiers,
		tracker:   tracker,
	}
}

// Router builds the full route table with the middleware chain
// monitoring -> rate limiting -> auth -> handler.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.recoverer)
	r.Use(s.monitor)

	r.Get("/", s.handleRoot)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.limit(s.tiers.General, "Too many requests from this IP, please try again later."))
		r.Use(s.optionalAuth)

		r.Get("/test", s.handleAPITest)
		r.Get("/db-test", s.handleDBTest)

		r.Route("/health", func(r chi.Router) {
			r.Get("/detailed", s.handleHealthDetailed)
			r.Get("/metrics", s.handleHealthMetrics)
		})

		r.Route("/auth", func(r chi.Router) {
			r.With(s.authLimit(s.tiers.Auth)).Post("/register", s.handleRegister)
			r.With(s.authLimit(s.tiers.Auth)).Post("/login", s.handleLogin)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Get("/me", s.handleMe)
				r.Post("/logout", s.handleLogout)
				r.Get("/verify", s.handleVerify)
			})
		})

		r.Route("/penguins", func(r chi.Router) {
			r.Use(s.requireAuth)

			read := s.limit(s.tiers.Read, "Too many requests. Please try again in a moment.")
			write := s.limit(s.tiers.Write, "Too many write operations from this IP. Please slow down and try again.")
			create := s.limit(s.tiers.Create, "You are creating penguins too quickly. Please wait before adding more.")

			r.With(read).Get("/", s.handleListPenguins)
			r.With(read).Get("/stats", s.handlePenguinStats)
			r.With(read).Get("/search", s.handleSearchPenguins)
			r.With(read).Get("/{id}", s.handleGetPenguin)
			r.With(create).Post("/", s.handleCreatePenguin)
			r.With(write).Put("/{id}", s.handleUpdatePenguin)
			r.With(write).Delete("/{id}", s.handleDeletePenguin)
		})
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		message := fmt.Sprintf("Route %s %s not found", req.Method, req.URL.Path)
		writeEnvelope(w, http.StatusNotFound, false, message, nil,
			map[string]int{"statusCode": http.StatusNotFound})
	})

	return r
}
