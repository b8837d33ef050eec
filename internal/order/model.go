package order

import (
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusSent      Status = "SENT"
	StatusDelivered Status = "DELIVERED"
	StatusCompleted Status = "COMPLETED"
)

func (s Status) String() string {
	return string(s)
}

// allowedStatuses is the closed subset a status update may target. The
// check is membership only; it deliberately does not enforce the linear
// PENDING→SENT→DELIVERED→COMPLETED progression.
var allowedStatuses = map[Status]bool{
	StatusPending:   true,
	StatusSent:      true,
	StatusDelivered: true,
	StatusCompleted: true,
}

func (s Status) Valid() bool {
	return allowedStatuses[s]
}

type OrderItem struct {
	ID       uuid.UUID `json:"id"`
	OrderID  uuid.UUID `json:"order_id"`
	BookID   uuid.UUID `json:"book_id"`
	Quantity int       `json:"quantity"`
	// Price is the line total frozen at checkout: quantity times the
	// book's price at that moment. Later book price changes never touch it.
	Price decimal.Decimal `json:"price"`
}

type Order struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	Status          Status          `json:"status"`
	Total           decimal.Decimal `json:"total"`
	ShippingAddress string          `json:"shipping_address,omitempty"`
	Items           []OrderItem     `json:"items"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
