package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"shop-service/internal/api/handlers"
)

// NewRouter mounts the full /api/v1 surface. Admin-only routes compose
// RequireSignIn then RequireAdmin.
func NewRouter(
	authMW *handlers.AuthMiddleware,
	authH *handlers.AuthHandler,
	categoryH *handlers.CategoryHandler,
	productH *handlers.ProductHandler,
	checkoutH *handlers.CheckoutHandler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authH.Register)
			r.Post("/login", authH.Login)

			r.Group(func(r chi.Router) {
				r.Use(authMW.RequireSignIn)
				r.Get("/user-auth", authH.Probe)
				r.Put("/profile", authH.UpdateProfile)
				r.Get("/orders", authH.GetOrders)
			})

			r.Group(func(r chi.Router) {
				r.Use(authMW.RequireSignIn, authMW.RequireAdmin)
				r.Get("/admin-auth", authH.Probe)
				r.Get("/all-orders", authH.GetAllOrders)
				r.Put("/order-status/{id}", authH.UpdateOrderStatus)
			})
		})

		r.Route("/category", func(r chi.Router) {
			r.Get("/get-category", categoryH.GetAll)
			r.Get("/single-category/{slug}", categoryH.GetBySlug)

			r.Group(func(r chi.Router) {
				r.Use(authMW.RequireSignIn, authMW.RequireAdmin)
				r.Post("/create-category", categoryH.Create)
				r.Put("/update-category/{id}", categoryH.Update)
				r.Delete("/delete-category/{id}", categoryH.Delete)
			})
		})

		r.Route("/product", func(r chi.Router) {
			r.Get("/get-product", productH.GetAll)
			r.Get("/get-product/{id}", productH.GetByID)
			r.Get("/product-photo/{id}", productH.GetPhoto)
			r.Post("/filter-product", productH.Filter)
			r.Get("/get-length", productH.Count)
			r.Get("/get-product-list/{page}", productH.GetPage)
			r.Get("/search/{keyword}", productH.Search)
			r.Get("/related-products/{pid}/{cid}", productH.GetRelated)
			r.Get("/product-category/{slug}", productH.GetByCategorySlug)
			r.Get("/braintree/token", checkoutH.Token)

			r.Group(func(r chi.Router) {
				r.Use(authMW.RequireSignIn)
				r.Post("/braintree/payment", checkoutH.Payment)
			})

			r.Group(func(r chi.Router) {
				r.Use(authMW.RequireSignIn, authMW.RequireAdmin)
				r.Post("/create-product", productH.Create)
				r.Put("/update-product/{id}", productH.Update)
				r.Delete("/delete-product/{id}", productH.Delete)
			})
		})
	})

	return r
}
