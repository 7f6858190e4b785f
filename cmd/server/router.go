package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stockpile/stockpile-api/internal/api"
	apiMiddleware "github.com/stockpile/stockpile-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.Trace(app.logger))
	r.Use(apiMiddleware.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.CORS(apiMiddleware.DefaultCORSConfig(app.config.Server.AllowedOrigins())))
	r.Use(apiMiddleware.BodyLimit(app.config.Server.MaxBodyBytes))

	rateLimit := apiMiddleware.RateLimitConfig{
		RPS:   app.config.Redis.RateLimitRPS,
		Burst: app.config.Redis.RateLimitBurst,
	}
	if app.limiter != nil {
		rateLimit.Limiter = app.limiter
	}
	r.Use(apiMiddleware.RateLimitIP(rateLimit))

	inventoryHandler := api.NewInventoryHandler(app.inventoryService, app.logger)
	newsletterHandler := api.NewNewsletterHandler(app.newsletterService)
	tokenHandler := api.NewTokenHandler(app.jwtService, app.logger)
	systemHandler := api.NewSystemHandler(app.inventoryService)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Get("/", systemHandler.Root)
	r.Get("/health", systemHandler.Health)

	r.Post("/gettoken", tokenHandler.GetToken)

	// Inventory endpoints
	r.Get("/inventories", inventoryHandler.ListItems)
	r.Get("/products", inventoryHandler.ListItems)
	r.Get("/inventoryCount", inventoryHandler.CountItems)
	r.Get("/myitemCount", inventoryHandler.CountMyItems)
	r.Get("/inventory/{id}", inventoryHandler.GetItem)
	r.Put("/updatequantity/{id}", inventoryHandler.UpdateQuantity)
	r.Post("/additem", inventoryHandler.AddItem)
	r.Delete("/deleteinventory/{id}", inventoryHandler.DeleteItem)

	// Owner-only listing
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Use(apiMiddleware.RequireOwner("email"))
		r.Get("/myitem", inventoryHandler.ListMyItems)
	})

	r.Post("/newsletterEmails", newsletterHandler.Subscribe)

	return r
}
