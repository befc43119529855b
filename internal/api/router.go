package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/BasanLidzhiev/bank-rest/internal/api/handlers"
	"github.com/BasanLidzhiev/bank-rest/internal/auth"
	"github.com/BasanLidzhiev/bank-rest/internal/config"
	"github.com/BasanLidzhiev/bank-rest/internal/metrics"
	"github.com/BasanLidzhiev/bank-rest/internal/middleware"
	"github.com/BasanLidzhiev/bank-rest/internal/models"
	"github.com/BasanLidzhiev/bank-rest/internal/services"
)

type RouterDeps struct {
	Cfg          config.Config
	TokenManager *auth.TokenManager
	UserSvc      *services.UserService
	CardSvc      *services.CardService
	TransferSvc  *services.TransferService
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.RateLimit(d.Cfg.RateRPS), middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	authHandler := handlers.NewAuthHandler(d.UserSvc)
	userHandler := handlers.NewUserHandler(d.UserSvc)
	cardHandler := handlers.NewCardHandler(d.CardSvc)
	transferHandler := handlers.NewTransferHandler(d.TransferSvc)

	authMW := middleware.NewAuthMiddleware(d.TokenManager)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(authMW.Auth)

			r.Get("/users/me", userHandler.Me)
			r.With(adminOnly).Get("/users", userHandler.List)
			r.With(adminOnly).Get("/users/{id}", userHandler.GetByID)
			r.With(adminOnly).Put("/users/{id}", userHandler.Update)
			r.With(adminOnly).Delete("/users/{id}", userHandler.Delete)

			r.Get("/cards", cardHandler.ListOwn)
			r.With(adminOnly).Get("/cards/all", cardHandler.ListAll)
			r.With(adminOnly).Post("/cards", cardHandler.Create)
			r.Get("/cards/{id}", cardHandler.Get)
			r.Post("/cards/{id}/block-request", cardHandler.RequestBlock)
			r.With(adminOnly).Post("/cards/{id}/block", cardHandler.Block)
			r.With(adminOnly).Patch("/cards/{id}/status", cardHandler.SetStatus)
			r.With(adminOnly).Delete("/cards/{id}", cardHandler.Delete)

			r.Post("/transfer", transferHandler.Transfer)
			r.Get("/transactions", transferHandler.ListOwn)
			r.With(adminOnly).Get("/transactions/{id}", transferHandler.Get)
		})
	})

	return r
}
