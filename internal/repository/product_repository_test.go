package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/Lixing-Zhang/kart-challenge/catalog-service/internal/config"
	"github.com/Lixing-Zhang/kart-challenge/catalog-service/internal/database"
	"github.com/Lixing-Zhang/kart-challenge/catalog-service/internal/models"
)

func newSQLiteRepository(t *testing.T) *SQLProductRepository {
	t.Helper()

	db, err := database.Open(config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		Name:         filepath.Join(t.TempDir(), "catalog.db"),
		MaxOpenConns: 4,
		MaxIdleConns: 2,
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("failed to ensure schema: %v", err)
	}
	return NewSQLProductRepository(db)
}

// forEachRepository runs fn against every ProductRepository implementation
func forEachRepository(t *testing.T, fn func(t *testing.T, repo ProductRepository)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, NewInMemoryProductRepository())
	})
	t.Run("sqlite", func(t *testing.T) {
		fn(t, newSQLiteRepository(t))
	})
}

func seed(t *testing.T, repo ProductRepository, products ...models.Product) []models.Product {
	t.Helper()

	created := make([]models.Product, 0, len(products))
	for _, p := range products {
		if err := repo.Create(context.Background(), &p); err != nil {
			t.Fatalf("Create(%s) error = %v", p.Name, err)
		}
		created = append(created, p)
	}
	return created
}

func TestProductRepository_CreateAndGet(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo ProductRepository) {
		ctx := context.Background()

		pen := models.Product{Name: "Pen", Description: "Blue pen", Price: 1.5, Category: "Stationery"}
		if err := repo.Create(ctx, &pen); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if pen.ID == 0 {
			t.Fatal("expected ID to be assigned")
		}

		pencil := models.Product{Name: "Pencil", Description: "HB", Price: 0.5, Category: "Stationery", ImageURL: "pencil.png"}
		if err := repo.Create(ctx, &pencil); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if pencil.ID == pen.ID {
			t.Errorf("expected distinct IDs, both are %d", pen.ID)
		}

		got, err := repo.GetByID(ctx, pencil.ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if *got != pencil {
			t.Errorf("GetByID() = %+v, want %+v", *got, pencil)
		}
	})
}

func TestProductRepository_GetByID_NotFound(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo ProductRepository) {
		_, err := repo.GetByID(context.Background(), 999)
		if !errors.Is(err, ErrProductNotFound) {
			t.Errorf("GetByID() error = %v, want ErrProductNotFound", err)
		}
	})
}

func TestProductRepository_IDAboveInt32(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo ProductRepository) {
		ctx := context.Background()
		seed(t, repo, models.Product{Name: "Pen"})

		const id = int64(math.MaxInt32) + 1
		if _, err := repo.GetByID(ctx, id); !errors.Is(err, ErrProductNotFound) {
			t.Errorf("GetByID(%d) error = %v, want ErrProductNotFound", id, err)
		}
		if err := repo.Update(ctx, &models.Product{ID: id, Name: "Ghost"}); !errors.Is(err, ErrProductNotFound) {
			t.Errorf("Update(%d) error = %v, want ErrProductNotFound", id, err)
		}
		if err := repo.Delete(ctx, id); !errors.Is(err, ErrProductNotFound) {
			t.Errorf("Delete(%d) error = %v, want ErrProductNotFound", id, err)
		}
	})
}

func TestNewSQLProductRepository_PostgresIDParam(t *testing.T) {
	repo := NewSQLProductRepository(&database.DB{Dialect: database.Postgres})

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"select", repo.selectQuery, "WHERE id = $1::bigint"},
		{"update", repo.updateQuery, "WHERE id = $6::bigint"},
		{"delete", repo.deleteQuery, "WHERE id = $1::bigint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.HasSuffix(tt.query, tt.want) {
				t.Errorf("query = %s, want suffix %s", tt.query, tt.want)
			}
			if strings.Contains(tt.query, "?") {
				t.Errorf("query still has ? placeholders: %s", tt.query)
			}
		})
	}
}

func TestProductRepository_List(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo ProductRepository) {
		created := seed(t, repo,
			models.Product{Name: "Pen", Category: "Stationery"},
			models.Product{Name: "Mug", Category: "Kitchen"},
			models.Product{Name: "Pencil", Category: "Stationery"},
			models.Product{Name: "Plate", Category: "Kitchen"},
			models.Product{Name: "Eraser", Category: "Stationery"},
		)

		tests := []struct {
			name   string
			filter ListFilter
			want   []string
		}{
			{"all", ListFilter{Offset: 0, Limit: 100}, []string{"Pen", "Mug", "Pencil", "Plate", "Eraser"}},
			{"limit", ListFilter{Offset: 0, Limit: 2}, []string{"Pen", "Mug"}},
			{"skip", ListFilter{Offset: 3, Limit: 100}, []string{"Plate", "Eraser"}},
			{"skip and limit", ListFilter{Offset: 1, Limit: 2}, []string{"Mug", "Pencil"}},
			{"skip past end", ListFilter{Offset: 10, Limit: 100}, []string{}},
			{"category", ListFilter{Limit: 100, Category: "Stationery"}, []string{"Pen", "Pencil", "Eraser"}},
			{"category paged", ListFilter{Offset: 1, Limit: 1, Category: "Stationery"}, []string{"Pencil"}},
			{"unknown category", ListFilter{Limit: 100, Category: "Garden"}, []string{}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				products, err := repo.List(context.Background(), tt.filter)
				if err != nil {
					t.Fatalf("List() error = %v", err)
				}
				if products == nil {
					t.Fatal("expected empty slice, got nil")
				}
				if len(products) != len(tt.want) {
					t.Fatalf("List() returned %d products, want %d", len(products), len(tt.want))
				}
				for i, p := range products {
					if p.Name != tt.want[i] {
						t.Errorf("products[%d].Name = %s, want %s", i, p.Name, tt.want[i])
					}
				}
			})
		}

		if created[0].ID >= created[len(created)-1].ID {
			t.Errorf("expected increasing IDs, got %d then %d", created[0].ID, created[len(created)-1].ID)
		}
	})
}

func TestProductRepository_Update(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo ProductRepository) {
		ctx := context.Background()
		created := seed(t, repo, models.Product{
			Name: "Pen", Description: "Blue pen", Price: 1.5, Category: "Stationery", ImageURL: "pen.png",
		})

		updated := models.Product{ID: created[0].ID, Name: "Pen", Description: "Red pen", Price: 2.0, Category: "Stationery"}
		if err := repo.Update(ctx, &updated); err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		got, err := repo.GetByID(ctx, created[0].ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if *got != updated {
			t.Errorf("GetByID() = %+v, want %+v", *got, updated)
		}
		if got.ImageURL != "" {
			t.Errorf("expected image_url to be replaced, got %q", got.ImageURL)
		}
	})
}

func TestProductRepository_Update_NotFound(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo ProductRepository) {
		err := repo.Update(context.Background(), &models.Product{ID: 42, Name: "Ghost"})
		if !errors.Is(err, ErrProductNotFound) {
			t.Errorf("Update() error = %v, want ErrProductNotFound", err)
		}
	})
}

func TestProductRepository_Delete(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo ProductRepository) {
		ctx := context.Background()
		created := seed(t, repo, models.Product{Name: "Pen"}, models.Product{Name: "Mug"})

		if err := repo.Delete(ctx, created[0].ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}

		if _, err := repo.GetByID(ctx, created[0].ID); !errors.Is(err, ErrProductNotFound) {
			t.Errorf("GetByID() after delete error = %v, want ErrProductNotFound", err)
		}
		if err := repo.Delete(ctx, created[0].ID); !errors.Is(err, ErrProductNotFound) {
			t.Errorf("second Delete() error = %v, want ErrProductNotFound", err)
		}

		remaining, err := repo.List(ctx, ListFilter{Limit: 100})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(remaining) != 1 || remaining[0].ID != created[1].ID {
			t.Errorf("expected only %d to remain, got %+v", created[1].ID, remaining)
		}
	})
}

func TestSQLProductRepository_NullColumns(t *testing.T) {
	repo := newSQLiteRepository(t)
	ctx := context.Background()

	_, err := repo.db.Conn.ExecContext(ctx, `INSERT INTO products (name, price) VALUES ('Legacy', 3.25)`)
	if err != nil {
		t.Fatalf("raw insert failed: %v", err)
	}

	products, err := repo.List(ctx, ListFilter{Limit: 10})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
	if products[0].Description != "" || products[0].ImageURL != "" {
		t.Errorf("expected NULL columns to read as empty, got %+v", products[0])
	}
}

func TestSQLProductRepository_CanceledContext(t *testing.T) {
	repo := newSQLiteRepository(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.Create(ctx, &models.Product{Name: "Pen"})
	if err == nil {
		t.Fatal("expected error for canceled context, got nil")
	}
	if errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected storage error, got %v", err)
	}
}

func TestSQLProductRepository_CreatesSchemaOnFirstUse(t *testing.T) {
	db, err := database.Open(config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		Name:         filepath.Join(t.TempDir(), "catalog.db"),
		MaxOpenConns: 2,
		MaxIdleConns: 1,
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := NewSQLProductRepository(db)
	ctx := context.Background()

	pen := models.Product{Name: "Pen", Price: 1.5}
	if err := repo.Create(ctx, &pen); err != nil {
		t.Fatalf("Create() without prior EnsureSchema error = %v", err)
	}
	got, err := repo.GetByID(ctx, pen.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "Pen" {
		t.Errorf("GetByID().Name = %s, want Pen", got.Name)
	}
}

func TestSQLProductRepository_ConcurrentCreate(t *testing.T) {
	repo := newSQLiteRepository(t)
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := models.Product{Name: fmt.Sprintf("Product %d", i)}
			if err := repo.Create(ctx, &p); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Create() error = %v", err)
	}

	products, err := repo.List(ctx, ListFilter{Limit: 100})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(products) != writers {
		t.Errorf("expected %d products, got %d", writers, len(products))
	}
}
