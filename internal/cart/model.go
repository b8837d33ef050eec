package cart

import (
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// Cart is the single mutable cart a user owns. It is created by the
// registration flow and never deleted; checkout only empties it.
type Cart struct {
	ID     uuid.UUID  `json:"id"`
	UserID uuid.UUID  `json:"user_id"`
	Items  []CartItem `json:"items"`
}

type CartItem struct {
	ID       uuid.UUID `json:"id"`
	CartID   uuid.UUID `json:"cart_id"`
	BookID   uuid.UUID `json:"book_id"`
	Quantity int       `json:"quantity"`

	// Joined from books for display; not part of the cart_items row.
	BookTitle string          `json:"book_title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}
