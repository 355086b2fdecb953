package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/skarnov/go-pos/internal/api/middleware"
	"github.com/skarnov/go-pos/internal/auth"
)

// Handlers collects everything the router mounts.
type Handlers struct {
	Auth      *AuthHandlers
	Catalog   *CatalogHandlers
	Customers *CustomerHandlers
	Incomes   *LedgerHandlers
	Expenses  *LedgerHandlers
	Settings  *SettingsHandlers
	Sales     *SaleHandlers
	Cart      *CartHandlers
	Checkout  *CheckoutHandlers
}

// NewRouter builds the API routing table. Everything except login and
// refresh sits behind the auth middleware; registration and settings
// writes additionally require the admin role.
func NewRouter(h Handlers, tokens *auth.TokenService) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", h.Auth.Login)
		r.Post("/refresh", h.Auth.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(tokens))

			r.Post("/logout", h.Auth.Logout)
			r.Get("/me", h.Auth.Me)
			r.With(middleware.RequireRole("admin")).Post("/register", h.Auth.Register)

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", h.Catalog.ListCategories)
				r.Post("/", h.Catalog.CreateCategory)
				r.Get("/{id}", h.Catalog.GetCategory)
				r.Put("/{id}", h.Catalog.UpdateCategory)
				r.Delete("/{id}", h.Catalog.DeleteCategory)
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", h.Catalog.ListProducts)
				r.Post("/", h.Catalog.CreateProduct)
				r.Get("/{id}", h.Catalog.GetProduct)
				r.Put("/{id}", h.Catalog.UpdateProduct)
				r.Delete("/{id}", h.Catalog.DeleteProduct)
			})

			r.Route("/stocks", func(r chi.Router) {
				r.Get("/", h.Catalog.ListStocks)
				r.Post("/", h.Catalog.CreateStock)
				r.Get("/{id}", h.Catalog.GetStock)
				r.Put("/{id}", h.Catalog.UpdateStock)
				r.Delete("/{id}", h.Catalog.DeleteStock)
			})

			r.Route("/customers", func(r chi.Router) {
				r.Get("/", h.Customers.List)
				r.Post("/", h.Customers.Create)
				r.Get("/{id}", h.Customers.Get)
				r.Put("/{id}", h.Customers.Update)
				r.Delete("/{id}", h.Customers.Delete)
			})

			r.Route("/incomes", func(r chi.Router) {
				r.Get("/", h.Incomes.List)
				r.Post("/", h.Incomes.Create)
				r.Get("/{id}", h.Incomes.Get)
				r.Put("/{id}", h.Incomes.Update)
				r.Delete("/{id}", h.Incomes.Delete)
			})

			r.Route("/expenses", func(r chi.Router) {
				r.Get("/", h.Expenses.List)
				r.Post("/", h.Expenses.Create)
				r.Get("/{id}", h.Expenses.Get)
				r.Put("/{id}", h.Expenses.Update)
				r.Delete("/{id}", h.Expenses.Delete)
			})

			r.Get("/settings", h.Settings.Get)
			r.With(middleware.RequireRole("admin")).Put("/settings", h.Settings.Update)

			r.Get("/sales", h.Sales.List)
			r.Get("/sales/{id}", h.Sales.Get)
			r.Get("/reports/summary", h.Sales.Summary)
			r.Get("/reports/monthly", h.Sales.Monthly)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.Cart.Get)
				r.Delete("/", h.Cart.Clear)
				r.Get("/summary", h.Cart.Summary)
				r.Post("/items", h.Cart.AddItem)
				r.Patch("/items/{productID}", h.Cart.UpdateQuantity)
				r.Delete("/items/{productID}", h.Cart.RemoveItem)
			})

			r.Post("/checkout", h.Checkout.Submit)
		})
	})

	return r
}
