package catalog_test

import (
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onlinebookstore/bookstore/internal/catalog"
)

// renderSQL translates a predicate fragment the same way the repository
// does, so assertions run against the actual SQL semantics.
func renderSQL(t *testing.T, e exp.Expression) string {
	t.Helper()

	query, _, err := goqu.Dialect("postgres").From("books").Where(e).ToSQL()
	require.NoError(t, err)

	return query
}

func mustProvider(t *testing.T, key string) catalog.SpecificationProvider {
	t.Helper()

	p, err := catalog.NewProviderRegistry().Get(key)
	require.NoError(t, err)

	return p
}

func TestProviderRegistry_Get(t *testing.T) {
	registry := catalog.NewProviderRegistry()

	for _, key := range []string{
		catalog.KeyTitle,
		catalog.KeyAuthor,
		catalog.KeyISBN,
		catalog.KeyCategories,
		catalog.KeyPrice,
	} {
		p, err := registry.Get(key)
		assert.NoError(t, err)
		assert.Equal(t, key, p.Key())
	}

	_, err := registry.Get("publisher")
	assert.ErrorIs(t, err, catalog.ErrProviderNotFound)
}

func TestTitleProvider_Specification(t *testing.T) {
	frag, err := mustProvider(t, catalog.KeyTitle).Specification([]string{"Go in Action", "The Go Programming Language"})
	require.NoError(t, err)

	query := renderSQL(t, frag)
	assert.Contains(t, query, `"title" IN ('Go in Action', 'The Go Programming Language')`)
}

func TestAuthorProvider_Specification(t *testing.T) {
	frag, err := mustProvider(t, catalog.KeyAuthor).Specification([]string{"Donovan", "Kernighan"})
	require.NoError(t, err)

	query := renderSQL(t, frag)
	assert.Contains(t, query, `"author" IN ('Donovan', 'Kernighan')`)
}

func TestIsbnProvider_Specification(t *testing.T) {
	frag, err := mustProvider(t, catalog.KeyISBN).Specification([]string{"0134190"})
	require.NoError(t, err)

	query := renderSQL(t, frag)
	assert.Contains(t, query, `"isbn" LIKE '%0134190%'`)

	_, err = mustProvider(t, catalog.KeyISBN).Specification([]string{"978", "0134"})
	assert.Error(t, err)
}

func TestCategoriesProvider_Specification(t *testing.T) {
	frag, err := mustProvider(t, catalog.KeyCategories).Specification([]string{"3f3e7cde-6f5a-4f64-9e9d-0d4a2c8f1b11"})
	require.NoError(t, err)

	query := renderSQL(t, frag)
	assert.Contains(t, query, `"id" IN ((SELECT "book_id" FROM "book_categories" WHERE ("category_id" IN (`)

	_, err = mustProvider(t, catalog.KeyCategories).Specification([]string{"not-a-uuid"})
	assert.ErrorIs(t, err, catalog.ErrInvalidCategoryID)
}

func TestPriceProvider_Specification(t *testing.T) {
	tests := []struct {
		name        string
		params      []string
		wantErr     error
		contains    []string
		notContains []string
	}{
		{
			name:     "both_bounds",
			params:   []string{"10.00", "20.00"},
			contains: []string{`"price" >=`, `"price" <=`},
		},
		{
			name:        "lower_bound_only",
			params:      []string{"10.00", ""},
			contains:    []string{`"price" >=`},
			notContains: []string{`"price" <=`},
		},
		{
			name:        "upper_bound_only",
			params:      []string{"", "20.00"},
			contains:    []string{`"price" <=`},
			notContains: []string{`"price" >=`},
		},
		{
			name:        "no_bounds",
			params:      []string{"", ""},
			notContains: []string{"WHERE"},
		},
		{
			name:    "malformed_bound",
			params:  []string{"ten", ""},
			wantErr: catalog.ErrInvalidPriceBound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frag, err := mustProvider(t, catalog.KeyPrice).Specification(tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			query := renderSQL(t, frag)
			for _, s := range tt.contains {
				assert.Contains(t, query, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, query, s)
			}
		})
	}

	_, err := mustProvider(t, catalog.KeyPrice).Specification([]string{"10.00"})
	assert.Error(t, err)
}

func TestPriceRange_Membership(t *testing.T) {
	from := decimal.RequireFromString("10.00")
	to := decimal.RequireFromString("20.00")

	inRange := func(p decimal.Decimal) bool {
		return p.GreaterThanOrEqual(from) && p.LessThanOrEqual(to)
	}

	assert.True(t, inRange(decimal.RequireFromString("15.00")))
	assert.False(t, inRange(decimal.RequireFromString("25.00")))
}
