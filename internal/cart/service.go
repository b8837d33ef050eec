package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

// ErrInvalidQuantity covers zero and negative quantities. A quantity of
// zero is a validation error, not an implicit removal.
var ErrInvalidQuantity = errors.New("quantity must be greater than zero")

type Service interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (*Cart, error)
	AddItem(ctx context.Context, userID, bookID uuid.UUID, quantity int) (*Cart, error)
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetByUser(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	c, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrCartNotFound) {
			// Every registered user gets a cart at registration time, so
			// this points at data corruption rather than bad input.
			log.Warn().Err(err).Stringer("user_id", userID).Msg("service: cart not found for user")
			return nil, ErrCartNotFound
		}

		log.Error().Err(err).Stringer("user_id", userID).Msg("service: failed to fetch cart in repository")
		return nil, fmt.Errorf("service: failed to fetch cart: %w", err)
	}

	return c, nil
}

func (s *service) AddItem(ctx context.Context, userID, bookID uuid.UUID, quantity int) (*Cart, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	c, err := s.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.AddItem(ctx, c.ID, bookID, quantity); err != nil {
		switch {
		case errors.Is(err, ErrDuplicateCartItem):
			log.Warn().Stringer("cart_id", c.ID).Stringer("book_id", bookID).Msg("service: duplicate cart item")
			return nil, ErrDuplicateCartItem
		case errors.Is(err, ErrBookNotFound):
			return nil, ErrBookNotFound
		}

		log.Error().Err(err).Stringer("cart_id", c.ID).Msg("service: failed to add cart item in repository")
		return nil, fmt.Errorf("service: failed to add cart item: %w", err)
	}

	return s.GetByUser(ctx, userID)
}

func (s *service) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*Cart, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	c, err := s.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateItemQuantity(ctx, c.ID, itemID, quantity); err != nil {
		if errors.Is(err, ErrCartItemNotFound) {
			return nil, ErrCartItemNotFound
		}

		log.Error().Err(err).Stringer("cart_id", c.ID).Stringer("item_id", itemID).Msg("service: failed to update cart item in repository")
		return nil, fmt.Errorf("service: failed to update cart item: %w", err)
	}

	return s.GetByUser(ctx, userID)
}

func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	c, err := s.GetByUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.repo.RemoveItem(ctx, c.ID, itemID); err != nil {
		if errors.Is(err, ErrCartItemNotFound) {
			return ErrCartItemNotFound
		}

		log.Error().Err(err).Stringer("cart_id", c.ID).Stringer("item_id", itemID).Msg("service: failed to remove cart item in repository")
		return fmt.Errorf("service: failed to remove cart item: %w", err)
	}

	return nil
}
