package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/onlinebookstore/bookstore/internal/catalog"
)

type bookPriceResponse struct {
	BookID uuid.UUID       `json:"book_id"`
	Price  decimal.Decimal `json:"price"`
}

type BookHandler struct {
	svc catalog.Service
}

func NewBookHandler(svc catalog.Service) *BookHandler {
	return &BookHandler{svc: svc}
}

// SearchBooks runs the dynamic catalog search. Repeatable query keys map
// to the multi-valued criteria fields; absent keys leave their dimension
// unconstrained.
func (h *BookHandler) SearchBooks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := catalog.SearchParams{
		Titles:     q["titles"],
		Authors:    q["authors"],
		ISBN:       q.Get("isbn"),
		PriceFrom:  q.Get("price_from"),
		PriceTo:    q.Get("price_to"),
		Categories: q["categories"],
	}

	books, err := h.svc.Search(r.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidPriceBound),
			errors.Is(err, catalog.ErrInvalidPriceRange),
			errors.Is(err, catalog.ErrInvalidCategoryID):
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		log.Info().Msgf("Failed to search books: %v", err)
		http.Error(w, "failed to search books", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, books)
}

func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid book id", http.StatusBadRequest)
		return
	}

	book, err := h.svc.GetBookByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrBookNotFound) {
			http.Error(w, "book not found", http.StatusNotFound)
			return
		}

		log.Info().Msgf("Failed to get book by id: %v", err)
		http.Error(w, "failed to get book", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, book)
}

// GetBookPrice exposes the live price, as opposed to the snapshot frozen
// into an order at checkout.
func (h *BookHandler) GetBookPrice(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid book id", http.StatusBadRequest)
		return
	}

	price, err := h.svc.GetBookPrice(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrBookNotFound) {
			http.Error(w, "book not found", http.StatusNotFound)
			return
		}

		log.Info().Msgf("Failed to get book price: %v", err)
		http.Error(w, "failed to get book price", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, bookPriceResponse{BookID: id, Price: price})
}

func (h *BookHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.ListCategories(r.Context())
	if err != nil {
		log.Info().Msgf("Failed to list categories: %v", err)
		http.Error(w, "failed to list categories", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, categories)
}
