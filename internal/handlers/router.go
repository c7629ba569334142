package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/haradejene/yegara-web-lms/internal/config"
	"github.com/haradejene/yegara-web-lms/internal/middleware"
	"github.com/haradejene/yegara-web-lms/internal/model"
)

// Router wires the HTTP surface. Ping backs /health and may be nil.
type Router struct {
	Config     *config.Config
	Logger     *slog.Logger
	Auth       *AuthHandler
	Enrollment *EnrollmentHandler
	Course     *CourseHandler
	Profile    *ProfileHandler
	Admin      *AdminHandler
	Ping       func(ctx context.Context) error
}

func (rt *Router) authMiddleware() func(http.Handler) http.Handler {
	if rt.Config.Auth.Enabled {
		rt.Logger.Info("Applying JWT authentication middleware")
		return middleware.JWTAuthMiddleware(rt.Config)
	}
	rt.Logger.Warn("Authentication disabled: trusting X-User-ID / X-User-Role headers")
	return middleware.DevAuthMiddleware
}

// Handler builds the chi router with the shared middleware stack.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(rt.Logger))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   rt.Config.CORS.AllowedOrigins,
		AllowedMethods:   rt.Config.CORS.AllowedMethods,
		AllowedHeaders:   rt.Config.CORS.AllowedHeaders,
		ExposedHeaders:   rt.Config.CORS.ExposedHeaders,
		AllowCredentials: rt.Config.CORS.AllowCredentials,
		MaxAge:           rt.Config.CORS.MaxAge,
	})
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Get("/health", rt.health)

	r.Route("/api", func(r chi.Router) {
		// --- public ---
		r.Post("/auth/register", rt.Auth.Register)
		r.Post("/auth/login", rt.Auth.Login)

		// --- authenticated ---
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware())

			r.Post("/enroll", rt.Enrollment.Enroll)

			r.Get("/courses", rt.Course.ListCourses)
			r.Get("/courses/{course_id}", rt.Course.GetCourse)
			r.Post("/lessons/{lesson_id}/toggle", rt.Course.ToggleLesson)
			r.Get("/students/{user_id}", rt.Profile.GetStudent)

			r.Route("/me", func(r chi.Router) {
				r.Get("/", rt.Profile.GetMe)
				r.Put("/", rt.Profile.UpdateMe)
				r.Post("/avatar", rt.Profile.UploadAvatar)
				r.Put("/password", rt.Auth.ChangePassword)
				r.Get("/stats", rt.Profile.GetStats)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(model.RoleAdmin))

				r.Get("/dashboard", rt.Admin.Dashboard)
				r.Get("/analytics", rt.Admin.Analytics)

				r.Route("/courses", func(r chi.Router) {
					r.Get("/", rt.Admin.ListCourses)
					r.Post("/", rt.Admin.CreateCourse)
					r.Put("/{course_id}", rt.Admin.UpdateCourse)
					r.Delete("/{course_id}", rt.Admin.DeleteCourse)
					r.Post("/{course_id}/modules", rt.Admin.AddModule)
					r.Post("/{course_id}/recalculate", rt.Admin.RecalculateCourse)
				})
				r.Post("/modules/{module_id}/lessons", rt.Admin.AddLesson)

				r.Route("/users", func(r chi.Router) {
					r.Get("/", rt.Admin.ListUsers)
					r.Patch("/{user_id}", rt.Admin.UpdateUser)
					r.Patch("/{user_id}/role", rt.Admin.ChangeRole)
					r.Delete("/{user_id}", rt.Admin.DeleteUser)
				})

				r.Get("/settings", rt.Admin.GetSettings)
				r.Put("/settings", rt.Admin.UpdateSettings)
			})
		})
	})

	return r
}

func (rt *Router) health(w http.ResponseWriter, r *http.Request) {
	if rt.Ping != nil {
		if err := rt.Ping(r.Context()); err != nil {
			middleware.GetLogger(r.Context()).Error("Health check failed: could not ping DB", "error", err)
			http.Error(w, "Health check failed", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
