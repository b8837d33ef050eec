package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/onlinebookstore/bookstore/internal/cart"
)

type CartHandler struct {
	svc cart.Service
}

func NewCartHandler(svc cart.Service) *CartHandler {
	return &CartHandler{svc: svc}
}

type cartItemRequest struct {
	BookID   uuid.UUID `json:"book_id"`
	Quantity int       `json:"quantity"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUserID(r)
	if err != nil {
		writeUserIDError(w, err)
		return
	}

	c, err := h.svc.GetByUser(r.Context(), userID)
	if err != nil {
		h.writeCartError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUserID(r)
	if err != nil {
		writeUserIDError(w, err)
		return
	}

	var req cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	c, err := h.svc.AddItem(r.Context(), userID, req.BookID, req.Quantity)
	if err != nil {
		h.writeCartError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, c)
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUserID(r)
	if err != nil {
		writeUserIDError(w, err)
		return
	}

	itemID, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid cart item id", http.StatusBadRequest)
		return
	}

	var req cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	c, err := h.svc.UpdateItem(r.Context(), userID, itemID, req.Quantity)
	if err != nil {
		h.writeCartError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUserID(r)
	if err != nil {
		writeUserIDError(w, err)
		return
	}

	itemID, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid cart item id", http.StatusBadRequest)
		return
	}

	if err := h.svc.RemoveItem(r.Context(), userID, itemID); err != nil {
		h.writeCartError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) writeCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, cart.ErrCartNotFound):
		http.Error(w, "cart not found", http.StatusNotFound)
	case errors.Is(err, cart.ErrCartItemNotFound):
		http.Error(w, "cart item not found", http.StatusNotFound)
	case errors.Is(err, cart.ErrBookNotFound):
		http.Error(w, "book not found", http.StatusNotFound)
	case errors.Is(err, cart.ErrDuplicateCartItem):
		http.Error(w, "cart item for this book already exists", http.StatusConflict)
	default:
		log.Info().Msgf("Cart request failed: %v", err)
		http.Error(w, "cart request failed", http.StatusInternalServerError)
	}
}
