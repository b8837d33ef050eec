package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/doug-martin/goqu/v9/exp"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/onlinebookstore/bookstore/internal/catalog"
)

type mockCatalogRepository struct {
	searchFunc         func(ctx context.Context, filter exp.Expression) ([]catalog.Book, error)
	getByIDFunc        func(ctx context.Context, id uuid.UUID) (*catalog.Book, error)
	currentPriceFunc   func(ctx context.Context, id uuid.UUID) (decimal.Decimal, error)
	listCategoriesFunc func(ctx context.Context) ([]catalog.Category, error)
}

func (m *mockCatalogRepository) Search(ctx context.Context, filter exp.Expression) ([]catalog.Book, error) {
	return m.searchFunc(ctx, filter)
}

func (m *mockCatalogRepository) GetByID(ctx context.Context, id uuid.UUID) (*catalog.Book, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockCatalogRepository) CurrentPrice(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	return m.currentPriceFunc(ctx, id)
}

func (m *mockCatalogRepository) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	return m.listCategoriesFunc(ctx)
}

func TestCatalogService_Search(t *testing.T) {
	books := []catalog.Book{
		{Title: "Go in Action", Author: "Kennedy", Price: decimal.RequireFromString("29.99")},
	}

	tests := []struct {
		name       string
		params     catalog.SearchParams
		searchFunc func(ctx context.Context, filter exp.Expression) ([]catalog.Book, error)
		expected   []catalog.Book
		wantErr    error
	}{
		{
			name:   "success",
			params: catalog.SearchParams{Titles: []string{"Go in Action"}},
			searchFunc: func(ctx context.Context, filter exp.Expression) ([]catalog.Book, error) {
				return books, nil
			},
			expected: books,
		},
		{
			name:   "reversed_price_range_never_reaches_repository",
			params: catalog.SearchParams{PriceFrom: "20.00", PriceTo: "10.00"},
			searchFunc: func(ctx context.Context, filter exp.Expression) ([]catalog.Book, error) {
				t.Fatal("repository must not be called for invalid params")
				return nil, nil
			},
			wantErr: catalog.ErrInvalidPriceRange,
		},
		{
			name:   "repository_failure",
			params: catalog.SearchParams{},
			searchFunc: func(ctx context.Context, filter exp.Expression) ([]catalog.Book, error) {
				return nil, errors.New("connection refused")
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockCatalogRepository{searchFunc: tt.searchFunc}
			svc := catalog.NewService(mockRepo, newBuilder())

			got, err := svc.Search(context.Background(), tt.params)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.expected != nil:
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, got)
			default:
				assert.Error(t, err)
			}
		})
	}
}

func TestCatalogService_GetBookPrice(t *testing.T) {
	bookID := uuid.Must(uuid.NewV4())

	mockRepo := &mockCatalogRepository{
		currentPriceFunc: func(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
			if id == bookID {
				return decimal.RequireFromString("19.99"), nil
			}
			return decimal.Decimal{}, catalog.ErrBookNotFound
		},
	}
	svc := catalog.NewService(mockRepo, newBuilder())

	price, err := svc.GetBookPrice(context.Background(), bookID)
	assert.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("19.99")))

	_, err = svc.GetBookPrice(context.Background(), uuid.Must(uuid.NewV4()))
	assert.ErrorIs(t, err, catalog.ErrBookNotFound)
}

func TestCatalogService_GetBookByID(t *testing.T) {
	bookID := uuid.Must(uuid.NewV4())

	mockRepo := &mockCatalogRepository{
		getByIDFunc: func(ctx context.Context, id uuid.UUID) (*catalog.Book, error) {
			return nil, catalog.ErrBookNotFound
		},
	}
	svc := catalog.NewService(mockRepo, newBuilder())

	_, err := svc.GetBookByID(context.Background(), bookID)
	assert.ErrorIs(t, err, catalog.ErrBookNotFound)
}
