package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Lixing-Zhang/kart-challenge/catalog-service/internal/database"
	"github.com/Lixing-Zhang/kart-challenge/catalog-service/internal/models"
)

// Rows written by other clients may carry NULLs; they read back as zero values.
const productColumns = "id, COALESCE(name, ''), COALESCE(description, ''), COALESCE(price, 0), " +
	"COALESCE(category, ''), COALESCE(image_url, '')"

// SQLProductRepository implements ProductRepository on a relational table.
// Every call runs on its own connection checked out of the pool, and writes
// commit exactly once.
type SQLProductRepository struct {
	db *database.DB

	insertQuery string
	selectQuery string
	listQuery   string
	listByCat   string
	updateQuery string
	deleteQuery string
}

// NewSQLProductRepository creates a repository bound to db's dialect
func NewSQLProductRepository(db *database.DB) *SQLProductRepository {
	d := db.Dialect
	return &SQLProductRepository{
		db: db,

		insertQuery: d.Rebind(`INSERT INTO products (name, description, price, category, image_url)
			VALUES (?, ?, ?, ?, ?) RETURNING id`),
		selectQuery: d.Rebind("SELECT " + productColumns + " FROM products WHERE id = " + d.IDParam),
		listQuery:   d.Rebind("SELECT " + productColumns + " FROM products ORDER BY id LIMIT ? OFFSET ?"),
		listByCat:   d.Rebind("SELECT " + productColumns + " FROM products WHERE category = ? ORDER BY id LIMIT ? OFFSET ?"),
		updateQuery: d.Rebind(`UPDATE products SET name = ?, description = ?, price = ?, category = ?, image_url = ?
			WHERE id = ` + d.IDParam),
		deleteQuery: d.Rebind("DELETE FROM products WHERE id = " + d.IDParam),
	}
}

// withSession checks out a dedicated connection for the duration of fn.
// The schema is created first if startup could not do it.
func (r *SQLProductRepository) withSession(ctx context.Context, fn func(conn *sql.Conn) error) error {
	if err := r.db.Prepare(ctx); err != nil {
		return err
	}

	conn, err := r.db.Conn.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	return fn(conn)
}

// withTx runs fn inside a transaction on a dedicated connection.
// The transaction is committed once if fn succeeds and rolled back otherwise.
func (r *SQLProductRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return r.withSession(ctx, func(conn *sql.Conn) error {
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback()

		if err := fn(tx); err != nil {
			return err
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	})
}

// Create inserts a new product
func (r *SQLProductRepository) Create(ctx context.Context, p *models.Product) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, r.insertQuery,
			p.Name, p.Description, p.Price, p.Category, p.ImageURL,
		).Scan(&p.ID)
		if err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		return nil
	})
}

// List returns a page of products
func (r *SQLProductRepository) List(ctx context.Context, filter ListFilter) ([]models.Product, error) {
	products := make([]models.Product, 0)

	err := r.withSession(ctx, func(conn *sql.Conn) error {
		var (
			rows *sql.Rows
			err  error
		)
		if filter.Category != "" {
			rows, err = conn.QueryContext(ctx, r.listByCat, filter.Category, filter.Limit, filter.Offset)
		} else {
			rows, err = conn.QueryContext(ctx, r.listQuery, filter.Limit, filter.Offset)
		}
		if err != nil {
			return fmt.Errorf("failed to query products: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var p models.Product
			if err := scanProduct(rows, &p); err != nil {
				return fmt.Errorf("failed to scan product: %w", err)
			}
			products = append(products, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return products, nil
}

// GetByID returns a single product
func (r *SQLProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product

	err := r.withSession(ctx, func(conn *sql.Conn) error {
		err := scanProduct(conn.QueryRowContext(ctx, r.selectQuery, id), &p)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// Update overwrites all columns of an existing product
func (r *SQLProductRepository) Update(ctx context.Context, p *models.Product) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, r.updateQuery,
			p.Name, p.Description, p.Price, p.Category, p.ImageURL, p.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}
		return requireAffected(result)
	})
}

// Delete removes a product
func (r *SQLProductRepository) Delete(ctx context.Context, id int64) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, r.deleteQuery, id)
		if err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		return requireAffected(result)
	})
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner, p *models.Product) error {
	return s.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.ImageURL)
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrProductNotFound
	}
	return nil
}
