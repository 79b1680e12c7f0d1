package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Lixing-Zhang/kart-challenge/catalog-service/internal/handlers"
	"github.com/Lixing-Zhang/kart-challenge/catalog-service/internal/middleware"
	"github.com/Lixing-Zhang/kart-challenge/catalog-service/internal/service"
)

// NewRouter wires the middleware chain and every route of the API
func NewRouter(productService *service.ProductService, log *slog.Logger) http.Handler {
	healthHandler := handlers.NewHealthHandler(log)
	productHandler := handlers.NewProductHandler(productService, log)

	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS())

	// Register health check endpoint
	r.Get("/health", healthHandler.ServeHTTP)

	// Serves both /products and /products/
	r.Route("/products", func(r chi.Router) {
		r.Post("/", productHandler.CreateProduct)
		r.Get("/", productHandler.ListProducts)
		r.Get("/{productId}", productHandler.GetProduct)
		r.Put("/{productId}", productHandler.UpdateProduct)
		r.Delete("/{productId}", productHandler.DeleteProduct)
	})

	return r
}
