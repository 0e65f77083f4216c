package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/face-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/face-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
	// JWTService protects administrative routes. Nil leaves them open.
	JWTService jwt.Service
	Pinger     Pinger
}

func NewRouter(
	opts RouterOptions,
	authHandler AuthHandler,
	attendanceHandler AttendanceHandler,
	employeeHandler EmployeeHandler,
	faceHandler FaceHandler,
) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))

	// admin wraps routes that need an admin token when auth is configured
	admin := func(r chi.Router) {
		if opts.JWTService == nil {
			return
		}
		r.Use(jwtauth.Verifier(opts.JWTService.JWTAuth()))
		r.Use(middleware.AdminRequired(opts.JWTService))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", Health(opts.Pinger))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Group(func(r chi.Router) {
				admin(r)
				r.Post("/logout", authHandler.Logout)
			})
		})

		r.Route("/attendance", func(r chi.Router) {
			r.With(chiMiddleware.AllowContentType("application/json")).Post("/mark", attendanceHandler.Mark)
			r.With(chiMiddleware.AllowContentType("application/json")).Post("/scan", attendanceHandler.Scan)
			r.Get("/employee/{employeeId}", attendanceHandler.ListForEmployee)
			r.Get("/today", attendanceHandler.Today)
			r.Get("/top-performers", attendanceHandler.TopPerformers)
			r.Get("/stream", attendanceHandler.Stream)

			r.Group(func(r chi.Router) {
				admin(r)
				r.Delete("/{id}", attendanceHandler.Delete)
			})
		})

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", employeeHandler.List)
			r.Get("/{id}", employeeHandler.Get)

			r.Group(func(r chi.Router) {
				admin(r)
				r.Post("/register", employeeHandler.Register)
				r.Put("/{id}", employeeHandler.Update)
				r.Delete("/{id}", employeeHandler.Delete)
			})
		})

		r.Route("/face", func(r chi.Router) {
			r.Post("/identify", faceHandler.Identify)

			r.Group(func(r chi.Router) {
				admin(r)
				r.Post("/roster/refresh", faceHandler.RefreshRoster)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r
}
