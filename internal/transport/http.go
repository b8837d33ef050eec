package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/onlinebookstore/bookstore/internal/cart"
	"github.com/onlinebookstore/bookstore/internal/catalog"
	"github.com/onlinebookstore/bookstore/internal/events"
	"github.com/onlinebookstore/bookstore/internal/handler"
	"github.com/onlinebookstore/bookstore/internal/order"
)

func NewRouter(pool *pgxpool.Pool, publisher events.Publisher) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	registry := catalog.NewProviderRegistry()
	builder := catalog.NewSpecificationBuilder(registry)

	catalogSvc := catalog.NewService(catalog.NewRepository(pool), builder)
	cartSvc := cart.NewService(cart.NewRepository(pool))
	orderSvc := order.NewService(order.NewRepository(pool), publisher)

	bookHandler := handler.NewBookHandler(catalogSvc)
	cartHandler := handler.NewCartHandler(cartSvc)
	orderHandler := handler.NewOrderHandler(orderSvc)

	r.Get("/books", bookHandler.SearchBooks)
	r.Get("/books/{id}", bookHandler.GetBook)
	r.Get("/books/{id}/price", bookHandler.GetBookPrice)
	r.Get("/categories", bookHandler.ListCategories)

	r.Get("/cart", cartHandler.GetCart)
	r.Post("/cart/items", cartHandler.AddItem)
	r.Put("/cart/items/{id}", cartHandler.UpdateItem)
	r.Delete("/cart/items/{id}", cartHandler.RemoveItem)

	r.Post("/orders", orderHandler.Checkout)
	r.Get("/orders", orderHandler.ListOrders)
	r.Get("/orders/{id}", orderHandler.GetOrder)
	r.Patch("/orders/{id}/status", orderHandler.UpdateStatus)

	return r
}
