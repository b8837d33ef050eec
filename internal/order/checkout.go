package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart           = errors.New("cart has no items")
	ErrInvalidLineQuantity = errors.New("cart line quantity must be greater than zero")
)

// cartLine is a checkout-time snapshot input: the book's price as read
// inside the checkout transaction.
type cartLine struct {
	BookID    uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

// newOrderFromCart assembles an order aggregate from cart lines. Each line
// price is quantity × unit price at this moment; the total is the sum of
// line prices, so Order.Total == Σ item.Price holds by construction.
func newOrderFromCart(userID uuid.UUID, shippingAddress string, lines []cartLine, now time.Time) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	orderID, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("failed to generate order ID: %w", err)
	}

	ord := &Order{
		ID:              orderID,
		UserID:          userID,
		Status:          StatusPending,
		ShippingAddress: shippingAddress,
		Items:           make([]OrderItem, 0, len(lines)),
		Total:           decimal.Zero,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: got %d for book %s", ErrInvalidLineQuantity, line.Quantity, line.BookID)
		}

		itemID, err := uuid.NewV4()
		if err != nil {
			return nil, fmt.Errorf("failed to generate order item ID: %w", err)
		}

		price := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))

		ord.Items = append(ord.Items, OrderItem{
			ID:       itemID,
			OrderID:  orderID,
			BookID:   line.BookID,
			Quantity: line.Quantity,
			Price:    price,
		})
		ord.Total = ord.Total.Add(price)
	}

	return ord, nil
}
