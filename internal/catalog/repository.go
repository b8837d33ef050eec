package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrBookNotFound = errors.New("book not found")

const dialectPostgres = "postgres"

type Repository interface {
	Search(ctx context.Context, filter exp.Expression) ([]Book, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Book, error)
	CurrentPrice(ctx context.Context, id uuid.UUID) (decimal.Decimal, error)
	ListCategories(ctx context.Context) ([]Category, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

// Search executes the combined predicate built by the specification
// builder. The translation to SQL happens here and nowhere else; the
// builder itself knows nothing about the query language.
func (r *postgresRepository) Search(ctx context.Context, filter exp.Expression) ([]Book, error) {
	ds := goqu.Dialect(dialectPostgres).
		From("books").
		Select("id", "title", "author", "isbn", "price", "created_at", "updated_at").
		Where(filter).
		Order(goqu.C("title").Asc())

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("repository: failed to build search query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query books: %w", err)
	}
	defer rows.Close()

	booksMap := make(map[uuid.UUID]*Book)
	var bookIDs []uuid.UUID

	for rows.Next() {
		var b Book
		err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Price, &b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan book: %w", err)
		}
		b.CategoryIDs = make([]uuid.UUID, 0)
		booksMap[b.ID] = &b
		bookIDs = append(bookIDs, b.ID)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating books: %w", err)
	}

	if len(bookIDs) == 0 {
		return []Book{}, nil
	}

	if err := r.attachCategories(ctx, booksMap, bookIDs); err != nil {
		return nil, err
	}

	result := make([]Book, 0, len(bookIDs))
	for _, id := range bookIDs {
		result = append(result, *booksMap[id])
	}

	return result, nil
}

func (r *postgresRepository) attachCategories(ctx context.Context, booksMap map[uuid.UUID]*Book, bookIDs []uuid.UUID) error {
	query := `
		SELECT book_id, category_id
		FROM book_categories
		WHERE book_id = ANY($1)
	`

	rows, err := r.db.Query(ctx, query, bookIDs)
	if err != nil {
		return fmt.Errorf("repository: failed to query book categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bookID, categoryID uuid.UUID
		if err := rows.Scan(&bookID, &categoryID); err != nil {
			return fmt.Errorf("repository: failed to scan book category: %w", err)
		}
		if b, ok := booksMap[bookID]; ok {
			b.CategoryIDs = append(b.CategoryIDs, categoryID)
		}
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("repository: error iterating book categories: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Book, error) {
	query := `
		SELECT id, title, author, isbn, price, created_at, updated_at
		FROM books
		WHERE id = $1
	`

	var b Book
	err := r.db.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Price, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookNotFound
		}

		return nil, fmt.Errorf("repository: failed to select book by id %s: %w", id, err)
	}

	b.CategoryIDs = make([]uuid.UUID, 0)
	booksMap := map[uuid.UUID]*Book{b.ID: &b}
	if err := r.attachCategories(ctx, booksMap, []uuid.UUID{b.ID}); err != nil {
		return nil, err
	}

	return &b, nil
}

// CurrentPrice returns the book's price as of now. Checkout does not use
// this read path: it snapshots prices inside its own transaction.
func (r *postgresRepository) CurrentPrice(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	var price decimal.Decimal
	err := r.db.QueryRow(ctx, `SELECT price FROM books WHERE id = $1`, id).Scan(&price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Decimal{}, ErrBookNotFound
		}

		return decimal.Decimal{}, fmt.Errorf("repository: failed to select price for book %s: %w", id, err)
	}

	return price, nil
}

func (r *postgresRepository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]Category, 0)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("repository: failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating categories: %w", err)
	}

	return categories, nil
}
