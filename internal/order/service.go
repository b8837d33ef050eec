package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/onlinebookstore/bookstore/internal/events"
)

// ErrInvalidStatus means the requested target status is outside the
// allowed subset.
var ErrInvalidStatus = errors.New("invalid order status")

type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID, shippingAddress string) (*Order, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID, viewAll bool) ([]Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, target Status) (*Order, error)
}

type service struct {
	repo      Repository
	publisher events.Publisher
}

func NewService(repo Repository, publisher events.Publisher) Service {
	return &service{repo: repo, publisher: publisher}
}

func (s *service) Checkout(ctx context.Context, userID uuid.UUID, shippingAddress string) (*Order, error) {
	ord, err := s.repo.Checkout(ctx, userID, shippingAddress)
	if err != nil {
		switch {
		case errors.Is(err, ErrCartNotFound):
			// A registered user always has a cart; treat as corruption.
			log.Warn().Err(err).Stringer("user_id", userID).Msg("service: no cart found during checkout")
			return nil, ErrCartNotFound
		case errors.Is(err, ErrEmptyCart):
			log.Warn().Stringer("user_id", userID).Msg("service: attempt to check out an empty cart")
			return nil, ErrEmptyCart
		}

		log.Error().Err(err).Stringer("user_id", userID).Msg("service: checkout failed in repository")
		return nil, fmt.Errorf("service: checkout failed: %w", err)
	}

	log.Info().
		Stringer("order_id", ord.ID).
		Stringer("user_id", ord.UserID).
		Str("total", ord.Total.StringFixed(2)).
		Msg("service: order placed")

	s.publishOrderPlaced(ctx, ord)

	return ord, nil
}

// publishOrderPlaced is best-effort: the order is already committed, so a
// broker failure is logged and never surfaced to the caller.
func (s *service) publishOrderPlaced(ctx context.Context, ord *Order) {
	evt := events.OrderPlaced{
		OrderID: ord.ID.String(),
		UserID:  ord.UserID.String(),
		Total:   ord.Total.StringFixed(2),
		Items:   make([]events.OrderPlacedItem, 0, len(ord.Items)),
	}
	for _, item := range ord.Items {
		evt.Items = append(evt.Items, events.OrderPlacedItem{
			BookID:   item.BookID.String(),
			Quantity: item.Quantity,
			Price:    item.Price.StringFixed(2),
		})
	}

	if err := s.publisher.OrderPlaced(ctx, evt); err != nil {
		log.Warn().Err(err).Stringer("order_id", ord.ID).Msg("service: failed to publish order placed event")
	}
}

func (s *service) GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	ord, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			log.Warn().Err(err).Stringer("order_id", id).Msg("service: order not found by id")
			return nil, ErrOrderNotFound
		}

		log.Error().Err(err).Msg("service: failed to fetch order by id in repository")
		return nil, fmt.Errorf("service: failed to fetch order by id: %w", err)
	}

	return ord, nil
}

func (s *service) ListOrders(ctx context.Context, userID uuid.UUID, viewAll bool) ([]Order, error) {
	orders, err := s.repo.ListByUser(ctx, userID, viewAll)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("service: failed to list orders in repository")
		return nil, fmt.Errorf("service: failed to list orders: %w", err)
	}

	return orders, nil
}

// UpdateStatus validates the target against the allowed subset, then
// persists it. Order totals and items are never recomputed here.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, target Status) (*Order, error) {
	if !target.Valid() {
		log.Warn().Stringer("order_id", orderID).Stringer("target_status", target).Msg("service: invalid target status")
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, target)
	}

	ord, err := s.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if ord.Status == target {
		log.Info().Stringer("order_id", orderID).Stringer("status", target).Msg("service: order status already set, no update needed")
		return ord, nil
	}

	if err := s.repo.UpdateStatus(ctx, orderID, target); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}

		log.Error().Err(err).Stringer("order_id", orderID).Stringer("target_status", target).Msg("service: failed to update order status in repository")
		return nil, fmt.Errorf("service: failed to update order status: %w", err)
	}

	log.Info().
		Stringer("order_id", orderID).
		Stringer("old_status", ord.Status).
		Stringer("new_status", target).
		Msg("service: order status updated")

	ord.Status = target

	return ord, nil
}
