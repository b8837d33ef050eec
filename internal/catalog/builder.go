package catalog

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/shopspring/decimal"
)

// SearchParams carries the optional search criteria. Absent fields leave
// their dimension unconstrained; an empty slice is treated exactly like an
// absent field, never as an empty-set contradiction.
type SearchParams struct {
	Titles     []string `json:"titles"`
	Authors    []string `json:"authors"`
	ISBN       string   `json:"isbn"`
	PriceFrom  string   `json:"price_from"`
	PriceTo    string   `json:"price_to"`
	Categories []string `json:"categories"`
}

// Validate checks the user-supplied price bounds: positive decimals with at
// most two fraction digits, and from <= to when both are present.
func (p SearchParams) Validate() error {
	var from, to decimal.Decimal
	var err error

	if p.PriceFrom != "" {
		if from, err = parsePriceBound(p.PriceFrom); err != nil {
			return err
		}
	}

	if p.PriceTo != "" {
		if to, err = parsePriceBound(p.PriceTo); err != nil {
			return err
		}
	}

	if p.PriceFrom != "" && p.PriceTo != "" && from.GreaterThan(to) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidPriceRange, p.PriceFrom, p.PriceTo)
	}

	return nil
}

func parsePriceBound(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidPriceBound, raw)
	}
	if !d.IsPositive() || d.Exponent() < -2 {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidPriceBound, raw)
	}

	return d, nil
}

// SpecificationBuilder combines the fragments of all present, non-empty
// fields into one predicate. With no criteria at all it returns the
// identity expression, which renders to no WHERE clause and matches the
// entire catalog.
type SpecificationBuilder struct {
	registry *ProviderRegistry
}

func NewSpecificationBuilder(registry *ProviderRegistry) *SpecificationBuilder {
	return &SpecificationBuilder{registry: registry}
}

func (b *SpecificationBuilder) Build(params SearchParams) (exp.Expression, error) {
	conds := make([]exp.Expression, 0, 5)

	and := func(key string, raw []string) error {
		provider, err := b.registry.Get(key)
		if err != nil {
			return err
		}

		frag, err := provider.Specification(raw)
		if err != nil {
			return err
		}

		conds = append(conds, frag)
		return nil
	}

	if len(params.Titles) > 0 {
		if err := and(KeyTitle, params.Titles); err != nil {
			return nil, err
		}
	}

	if len(params.Authors) > 0 {
		if err := and(KeyAuthor, params.Authors); err != nil {
			return nil, err
		}
	}

	if params.ISBN != "" {
		if err := and(KeyISBN, []string{params.ISBN}); err != nil {
			return nil, err
		}
	}

	if len(params.Categories) > 0 {
		if err := and(KeyCategories, params.Categories); err != nil {
			return nil, err
		}
	}

	// Both bounds go to the single price provider; it decides which
	// side(s) to apply.
	if params.PriceFrom != "" || params.PriceTo != "" {
		if err := and(KeyPrice, []string{params.PriceFrom, params.PriceTo}); err != nil {
			return nil, err
		}
	}

	return goqu.And(conds...), nil
}
