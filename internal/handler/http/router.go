package http

import (
	"log/slog"
	"os"

	"github.com/developers-alawaf/hrms-app-sub000/internal/handler/http/middleware"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	JWTService jwt.Service,
	authHandler AuthHandler,
	syncHandler SyncHandler,
	attendanceHandler AttendanceHandler,
	adjustmentHandler AdjustmentHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hrms-attendance"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Push-Key"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Post("/auth/login", authHandler.Login)

		// Terminal push ingestion authenticates with the device push key,
		// not an employee token.
		r.Post("/sync/{deviceID}/push", syncHandler.Push)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/sync", func(r chi.Router) {
				r.Use(middleware.RequireHR)
				r.Post("/{deviceID}", syncHandler.Sync)
				r.Get("/{deviceID}/subjects", syncHandler.ListSubjects)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/", attendanceHandler.Range)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireHR)
					r.Post("/reconcile", attendanceHandler.Reconcile)
				})
			})

			r.Route("/adjustments", func(r chi.Router) {
				r.Post("/", adjustmentHandler.Create)
				r.Get("/", adjustmentHandler.ListByEmployee)
				r.Get("/{requestID}", adjustmentHandler.Get)

				// The manager stage admits the assigned approver regardless
				// of directory role, so authorization lives in the service.
				r.Post("/{requestID}/manager-review", adjustmentHandler.ManagerReview)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireHR)
					r.Post("/{requestID}/hr-review", adjustmentHandler.HRReview)
				})
			})
		})
	})
	return r
}
