package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrCartNotFound  = errors.New("cart not found")
)

type Repository interface {
	Checkout(ctx context.Context, userID uuid.UUID, shippingAddress string) (*Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, viewAll bool) ([]Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

// Checkout converts the user's cart into an order in a single transaction:
// lock the cart row, snapshot current book prices into order items, insert
// the order, clear the cart. Everything commits together or not at all.
func (r *postgresRepository) Checkout(ctx context.Context, userID uuid.UUID, shippingAddress string) (ord *Order, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to begin checkout transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				log.Error().Err(rbErr).Stringer("user_id", userID).Msg("repository: failed to rollback checkout transaction")
			}
		}
	}()

	// The row lock serializes concurrent checkouts of the same cart: a
	// second submission blocks here, then finds the cart already empty.
	var cartID uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM carts WHERE user_id = $1 FOR UPDATE`, userID).Scan(&cartID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCartNotFound
		}

		return nil, fmt.Errorf("repository: failed to lock cart for user %s: %w", userID, err)
	}

	lines, err := readCartLines(ctx, tx, cartID)
	if err != nil {
		return nil, err
	}

	if shippingAddress == "" {
		err = tx.QueryRow(ctx, `SELECT shipping_address FROM users WHERE id = $1`, userID).Scan(&shippingAddress)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to select profile address for user %s: %w", userID, err)
		}
	}

	ord, err = newOrderFromCart(userID, shippingAddress, lines, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	queryOrder := `
		INSERT INTO orders (id, user_id, status, total, shipping_address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = tx.Exec(ctx, queryOrder,
		ord.ID, ord.UserID, string(ord.Status), ord.Total, ord.ShippingAddress, ord.CreatedAt, ord.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to insert order: %w", err)
	}

	queryItem := `
		INSERT INTO order_items (id, order_id, book_id, quantity, price)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, item := range ord.Items {
		_, err = tx.Exec(ctx, queryItem, item.ID, item.OrderID, item.BookID, item.Quantity, item.Price)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to insert order item for order %s: %w", ord.ID, err)
		}
	}

	_, err = tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to clear cart %s: %w", cartID, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repository: failed to commit checkout transaction: %w", err)
	}

	return ord, nil
}

func readCartLines(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) ([]cartLine, error) {
	query := `
		SELECT ci.book_id, ci.quantity, b.price
		FROM cart_items ci
		JOIN books b ON b.id = ci.book_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at
	`

	rows, err := tx.Query(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query cart lines for cart %s: %w", cartID, err)
	}
	defer rows.Close()

	lines := make([]cartLine, 0)
	for rows.Next() {
		var line cartLine
		if err := rows.Scan(&line.BookID, &line.Quantity, &line.UnitPrice); err != nil {
			return nil, fmt.Errorf("repository: failed to scan cart line for cart %s: %w", cartID, err)
		}
		lines = append(lines, line)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating cart lines for cart %s: %w", cartID, err)
	}

	return lines, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	queryOrder := `
		SELECT id, user_id, status, total, shipping_address, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var ord Order
	err := r.db.QueryRow(ctx, queryOrder, id).Scan(
		&ord.ID, &ord.UserID, &ord.Status, &ord.Total, &ord.ShippingAddress, &ord.CreatedAt, &ord.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}

		return nil, fmt.Errorf("repository: failed to select order by id %s: %w", id, err)
	}

	queryItems := `
		SELECT id, order_id, book_id, quantity, price
		FROM order_items
		WHERE order_id = $1
	`

	rows, err := r.db.Query(ctx, queryItems, id)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query order items for order %s: %w", id, err)
	}
	defer rows.Close()

	ord.Items = make([]OrderItem, 0)
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.BookID, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("repository: failed to scan order item for order %s: %w", id, err)
		}
		ord.Items = append(ord.Items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating order items for order %s: %w", id, err)
	}

	return &ord, nil
}

// ListByUser returns the user's orders, or every order when the caller
// holds the view-all capability.
func (r *postgresRepository) ListByUser(ctx context.Context, userID uuid.UUID, viewAll bool) ([]Order, error) {
	queryOrders := `
		SELECT id, user_id, status, total, shipping_address, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	args := []any{userID}

	if viewAll {
		queryOrders = `
			SELECT id, user_id, status, total, shipping_address, created_at, updated_at
			FROM orders
			ORDER BY created_at DESC
		`
		args = nil
	}

	orderRows, err := r.db.Query(ctx, queryOrders, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query orders for user %s: %w", userID, err)
	}
	defer orderRows.Close()

	ordersMap := make(map[uuid.UUID]*Order)
	var orderIDs []uuid.UUID

	for orderRows.Next() {
		var ord Order
		err := orderRows.Scan(
			&ord.ID, &ord.UserID, &ord.Status, &ord.Total, &ord.ShippingAddress, &ord.CreatedAt, &ord.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order for user %s: %w", userID, err)
		}
		ord.Items = make([]OrderItem, 0)
		ordersMap[ord.ID] = &ord
		orderIDs = append(orderIDs, ord.ID)
	}

	if err = orderRows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating orders for user %s: %w", userID, err)
	}

	if len(orderIDs) == 0 {
		return []Order{}, nil
	}

	queryItems := `
		SELECT id, order_id, book_id, quantity, price
		FROM order_items
		WHERE order_id = ANY($1)
	`

	itemRows, err := r.db.Query(ctx, queryItems, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query order items for user %s: %w", userID, err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var item OrderItem
		if err := itemRows.Scan(&item.ID, &item.OrderID, &item.BookID, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("repository: failed to scan order item for user %s: %w", userID, err)
		}
		if ord, ok := ordersMap[item.OrderID]; ok {
			ord.Items = append(ord.Items, item)
		}
	}

	if err = itemRows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating order items for user %s: %w", userID, err)
	}

	result := make([]Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		result = append(result, *ordersMap[id])
	}

	return result, nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	cmdTag, err := r.db.Exec(ctx, query, string(status), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("repository: failed to update status for order %s: %w", id, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	return nil
}
