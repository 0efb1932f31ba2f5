package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/autotracker/tracker-admin/internal/importer"
	"github.com/autotracker/tracker-admin/internal/object"
	"github.com/autotracker/tracker-admin/internal/transport/middleware"
	"github.com/autotracker/tracker-admin/internal/transport/swagger"
	"github.com/autotracker/tracker-admin/internal/user"
	"github.com/go-chi/chi"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, allowedOrigins string, userHandler *user.Handler, objectHandler *object.Handler, importHandler *importer.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if userHandler != nil {
			r.Route("/users", func(ur chi.Router) {
				ur.Get("/", userHandler.ListUsers)
				ur.Post("/", userHandler.CreateUser)
				ur.Get("/all", userHandler.ListUsersWithObjects)

				if importHandler != nil {
					ur.Post("/import", importHandler.RunImport)
				}

				ur.Get("/{id}", userHandler.GetUser)
				ur.Put("/{id}", userHandler.UpdateUser)
				ur.Delete("/{id}", userHandler.DeleteUser)
			})
		}

		if objectHandler != nil {
			r.Route("/objects", func(or chi.Router) {
				or.Get("/", objectHandler.ListObjects)
				or.Post("/", objectHandler.CreateObject)
				or.Get("/byUserId/{userId}", objectHandler.ListByUser)

				// The bare path parameter is a user id, kept for clients of
				// the pre-byUserId route shape. Single objects are addressed
				// by IMEI through PUT and DELETE only.
				or.Get("/{userId}", objectHandler.ListByUser)
				or.Put("/{imei}", objectHandler.UpdateObject)
				or.Delete("/{imei}", objectHandler.DeleteObject)
			})
		}
	})
}
