package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type Service interface {
	Search(ctx context.Context, params SearchParams) ([]Book, error)
	GetBookByID(ctx context.Context, id uuid.UUID) (*Book, error)
	GetBookPrice(ctx context.Context, id uuid.UUID) (decimal.Decimal, error)
	ListCategories(ctx context.Context) ([]Category, error)
}

type service struct {
	repo    Repository
	builder *SpecificationBuilder
}

func NewService(repo Repository, builder *SpecificationBuilder) Service {
	return &service{repo: repo, builder: builder}
}

func (s *service) Search(ctx context.Context, params SearchParams) ([]Book, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	filter, err := s.builder.Build(params)
	if err != nil {
		if errors.Is(err, ErrProviderNotFound) {
			// Registry and builder out of sync: a bug, not bad input.
			log.Error().Err(err).Msg("service: specification builder references an unregistered provider")
			return nil, fmt.Errorf("service: failed to build search specification: %w", err)
		}

		return nil, err
	}

	books, err := s.repo.Search(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to search books in repository")
		return nil, fmt.Errorf("service: failed to search books: %w", err)
	}

	return books, nil
}

func (s *service) GetBookByID(ctx context.Context, id uuid.UUID) (*Book, error) {
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrBookNotFound) {
			log.Warn().Err(err).Stringer("book_id", id).Msg("service: book not found by id")
			return nil, ErrBookNotFound
		}

		log.Error().Err(err).Msg("service: failed to fetch book by id in repository")
		return nil, fmt.Errorf("service: failed to fetch book by id: %w", err)
	}

	return book, nil
}

// GetBookPrice returns the book's price as of now. Checkout never reads
// through here: it snapshots prices inside its own transaction.
func (s *service) GetBookPrice(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	price, err := s.repo.CurrentPrice(ctx, id)
	if err != nil {
		if errors.Is(err, ErrBookNotFound) {
			log.Warn().Err(err).Stringer("book_id", id).Msg("service: book not found by id")
			return decimal.Decimal{}, ErrBookNotFound
		}

		log.Error().Err(err).Msg("service: failed to fetch book price in repository")
		return decimal.Decimal{}, fmt.Errorf("service: failed to fetch book price: %w", err)
	}

	return price, nil
}

func (s *service) ListCategories(ctx context.Context) ([]Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list categories in repository")
		return nil, fmt.Errorf("service: failed to list categories: %w", err)
	}

	return categories, nil
}
