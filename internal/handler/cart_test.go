package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/onlinebookstore/bookstore/internal/cart"
	"github.com/onlinebookstore/bookstore/internal/handler"
)

type mockCartService struct {
	getByUserFunc  func(ctx context.Context, userID uuid.UUID) (*cart.Cart, error)
	addItemFunc    func(ctx context.Context, userID, bookID uuid.UUID, quantity int) (*cart.Cart, error)
	updateItemFunc func(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*cart.Cart, error)
	removeItemFunc func(ctx context.Context, userID, itemID uuid.UUID) error
}

func (m *mockCartService) GetByUser(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	return m.getByUserFunc(ctx, userID)
}

func (m *mockCartService) AddItem(ctx context.Context, userID, bookID uuid.UUID, quantity int) (*cart.Cart, error) {
	return m.addItemFunc(ctx, userID, bookID, quantity)
}

func (m *mockCartService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*cart.Cart, error) {
	return m.updateItemFunc(ctx, userID, itemID, quantity)
}

func (m *mockCartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	return m.removeItemFunc(ctx, userID, itemID)
}

func cartRouter(svc cart.Service) *chi.Mux {
	h := handler.NewCartHandler(svc)

	r := chi.NewRouter()
	r.Get("/cart", h.GetCart)
	r.Post("/cart/items", h.AddItem)
	r.Put("/cart/items/{id}", h.UpdateItem)
	r.Delete("/cart/items/{id}", h.RemoveItem)

	return r
}

func TestCartHandler_AddItem(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	bookID := uuid.Must(uuid.NewV4())

	tests := []struct {
		name        string
		body        string
		addItemFunc func(ctx context.Context, userID, bookID uuid.UUID, quantity int) (*cart.Cart, error)
		wantCode    int
	}{
		{
			name: "success",
			body: `{"book_id": "` + bookID.String() + `", "quantity": 2}`,
			addItemFunc: func(ctx context.Context, uid, bid uuid.UUID, quantity int) (*cart.Cart, error) {
				assert.Equal(t, userID, uid)
				assert.Equal(t, bookID, bid)
				assert.Equal(t, 2, quantity)
				return &cart.Cart{ID: uuid.Must(uuid.NewV4()), UserID: uid}, nil
			},
			wantCode: http.StatusCreated,
		},
		{
			name: "zero_quantity",
			body: `{"book_id": "` + bookID.String() + `", "quantity": 0}`,
			addItemFunc: func(ctx context.Context, uid, bid uuid.UUID, quantity int) (*cart.Cart, error) {
				return nil, cart.ErrInvalidQuantity
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "duplicate_item",
			body: `{"book_id": "` + bookID.String() + `", "quantity": 1}`,
			addItemFunc: func(ctx context.Context, uid, bid uuid.UUID, quantity int) (*cart.Cart, error) {
				return nil, cart.ErrDuplicateCartItem
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "unknown_book",
			body: `{"book_id": "` + bookID.String() + `", "quantity": 1}`,
			addItemFunc: func(ctx context.Context, uid, bid uuid.UUID, quantity int) (*cart.Cart, error) {
				return nil, cart.ErrBookNotFound
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "malformed_body",
			body: `{"book_id":`,
			addItemFunc: func(ctx context.Context, uid, bid uuid.UUID, quantity int) (*cart.Cart, error) {
				t.Fatal("service must not be called for a malformed body")
				return nil, nil
			},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := cartRouter(&mockCartService{addItemFunc: tt.addItemFunc})

			req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(tt.body))
			req.Header.Set("X-User-ID", userID.String())
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestCartHandler_GetCart_MissingUserHeader(t *testing.T) {
	router := cartRouter(&mockCartService{
		getByUserFunc: func(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
			t.Fatal("service must not be called without a user id")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartHandler_RemoveItem(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	itemID := uuid.Must(uuid.NewV4())

	router := cartRouter(&mockCartService{
		removeItemFunc: func(ctx context.Context, uid, iid uuid.UUID) error {
			if iid != itemID {
				return cart.ErrCartItemNotFound
			}
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/cart/items/"+itemID.String(), nil)
	req.Header.Set("X-User-ID", userID.String())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/cart/items/"+uuid.Must(uuid.NewV4()).String(), nil)
	req.Header.Set("X-User-ID", userID.String())
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
