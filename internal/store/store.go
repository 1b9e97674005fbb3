package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"farmstore/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// GetProductByID retrieves a product by ID. Absence is nil, not an error,
// so the storefront can render "not found" without error handling. The
// product is returned even when out of stock (direct-link access).
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts retrieves products, optionally restricted to a category.
// Stock filtering is applied by the catalog service.
func (s *Store) ListProducts(ctx context.Context, category string) ([]models.Product, error) {
	var products []models.Product
	var err error
	if category != "" {
		err = s.db.SelectContext(ctx, &products,
			"SELECT * FROM products WHERE category = $1 ORDER BY id", category)
	} else {
		err = s.db.SelectContext(ctx, &products, "SELECT * FROM products ORDER BY id")
	}
	return products, err
}

// RandomProducts retrieves a random sample of in-stock products.
func (s *Store) RandomProducts(ctx context.Context, limit int) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products,
		"SELECT * FROM products WHERE quantity > 0 ORDER BY random() LIMIT $1", limit)
	return products, err
}

// SimilarProducts retrieves in-stock products from the same category,
// excluding the anchor product. Ordered by id for deterministic results.
func (s *Store) SimilarProducts(ctx context.Context, productID int64, category string, limit int) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products,
		"SELECT * FROM products WHERE category = $1 AND id <> $2 AND quantity > 0 ORDER BY id LIMIT $3",
		category, productID, limit)
	return products, err
}

// Categories retrieves the distinct product categories.
func (s *Store) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := s.db.SelectContext(ctx, &categories,
		"SELECT DISTINCT category FROM products ORDER BY category")
	return categories, err
}
