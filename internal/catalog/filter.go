package catalog

import (
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// Field keys recognized by the specification builder. The registry is
// keyed by these and nothing else.
const (
	KeyTitle      = "title"
	KeyAuthor     = "author"
	KeyISBN       = "isbn"
	KeyCategories = "categories"
	KeyPrice      = "price"
)

var (
	ErrInvalidPriceBound = errors.New("invalid price bound")
	ErrInvalidPriceRange = errors.New("price range lower bound exceeds upper bound")
	ErrInvalidCategoryID = errors.New("invalid category id")
)

// SpecificationProvider turns raw, provider-specific string parameters into
// a predicate fragment over the books table. Providers are pure and
// stateless; fragments are combined with AND by the builder.
type SpecificationProvider interface {
	Key() string
	Specification(params []string) (exp.Expression, error)
}

type titleProvider struct{}

func (titleProvider) Key() string { return KeyTitle }

func (titleProvider) Specification(params []string) (exp.Expression, error) {
	return goqu.C(KeyTitle).In(params), nil
}

type authorProvider struct{}

func (authorProvider) Key() string { return KeyAuthor }

func (authorProvider) Specification(params []string) (exp.Expression, error) {
	return goqu.C(KeyAuthor).In(params), nil
}

type isbnProvider struct{}

func (isbnProvider) Key() string { return KeyISBN }

func (isbnProvider) Specification(params []string) (exp.Expression, error) {
	if len(params) != 1 {
		return nil, fmt.Errorf("isbn provider expects exactly one parameter, got %d", len(params))
	}

	return goqu.C(KeyISBN).Like("%" + params[0] + "%"), nil
}

type categoriesProvider struct{}

func (categoriesProvider) Key() string { return KeyCategories }

func (categoriesProvider) Specification(params []string) (exp.Expression, error) {
	ids := make([]uuid.UUID, 0, len(params))
	for _, raw := range params {
		id, err := uuid.FromString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCategoryID, raw)
		}
		ids = append(ids, id)
	}

	sub := goqu.From("book_categories").
		Select("book_id").
		Where(goqu.C("category_id").In(ids))

	return goqu.C("id").In(sub), nil
}

// priceProvider handles both range bounds as one field. It expects exactly
// two parameters, lower and upper bound; an empty string leaves that side
// unbounded.
type priceProvider struct{}

func (priceProvider) Key() string { return KeyPrice }

func (priceProvider) Specification(params []string) (exp.Expression, error) {
	if len(params) != 2 {
		return nil, fmt.Errorf("price provider expects exactly two parameters, got %d", len(params))
	}

	bounds := make([]exp.Expression, 0, 2)

	if params[0] != "" {
		from, err := decimal.NewFromString(params[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPriceBound, params[0])
		}
		bounds = append(bounds, goqu.C(KeyPrice).Gte(from))
	}

	if params[1] != "" {
		to, err := decimal.NewFromString(params[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPriceBound, params[1])
		}
		bounds = append(bounds, goqu.C(KeyPrice).Lte(to))
	}

	return goqu.And(bounds...), nil
}
