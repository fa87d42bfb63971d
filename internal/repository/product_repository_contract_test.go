package repository

import (
	"context"
	"errors"
	"testing"

	"product-catalog/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func strPtr(s string) *string { return &s }
func int64Ptr(i int64) *int64 { return &i }

// testProductRepositoryContract runs the behaviour every ProductRepository
// implementation must share. newRepo must return an empty repository.
func testProductRepositoryContract(t *testing.T, newRepo func(t *testing.T) ProductRepository) {
	t.Run("FindAll on empty store returns empty slice", func(t *testing.T) {
		repo := newRepo(t)

		products, err := repo.FindAll(context.Background())
		if err != nil {
			t.Fatalf("FindAll failed: %v", err)
		}
		if products == nil || len(products) != 0 {
			t.Errorf("expected empty non-nil slice, got %v", products)
		}
	})

	t.Run("Insert assigns unique IDs", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		first, err := repo.Insert(ctx, &domain.Product{Name: "MacbookPro", Price: 2000, Category: "laptops"})
		if err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		second, err := repo.Insert(ctx, &domain.Product{Name: "iPhone", Price: 1000, Category: "smartphones"})
		if err != nil {
			t.Fatalf("Insert failed: %v", err)
		}

		if first.ID == 0 || second.ID == 0 {
			t.Fatal("expected IDs to be assigned")
		}
		if first.ID == second.ID {
			t.Errorf("expected unique IDs, both are %d", first.ID)
		}
		if first.CreatedAt.IsZero() || first.UpdatedAt.IsZero() {
			t.Error("expected timestamps to be set")
		}

		all, err := repo.FindAll(ctx)
		if err != nil {
			t.Fatalf("FindAll failed: %v", err)
		}
		if len(all) != 2 {
			t.Errorf("expected 2 products, got %d", len(all))
		}
	})

	t.Run("FindByID returns ErrProductNotFound for missing ID", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.FindByID(context.Background(), 100)
		if !errors.Is(err, ErrProductNotFound) {
			t.Errorf("expected ErrProductNotFound, got %v", err)
		}
	})

	t.Run("Update overwrites only given attributes", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Insert(ctx, &domain.Product{Name: "MacbookPro", Price: 2000, Category: "laptops"})
		if err != nil {
			t.Fatalf("Insert failed: %v", err)
		}

		updated, err := repo.Update(ctx, created.ID, domain.ProductAttributes{Price: int64Ptr(2500)})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if updated.Price != 2500 {
			t.Errorf("expected price 2500, got %d", updated.Price)
		}

		reloaded, err := repo.FindByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("FindByID failed: %v", err)
		}
		if reloaded.Price != 2500 || reloaded.Name != "MacbookPro" || reloaded.Category != "laptops" {
			t.Errorf("unexpected product after update: %+v", reloaded)
		}
	})

	t.Run("Update and Delete return ErrProductNotFound for missing ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		if _, err := repo.Update(ctx, 100, domain.ProductAttributes{Name: strPtr("x")}); !errors.Is(err, ErrProductNotFound) {
			t.Errorf("Update: expected ErrProductNotFound, got %v", err)
		}
		if err := repo.Delete(ctx, 100); !errors.Is(err, ErrProductNotFound) {
			t.Errorf("Delete: expected ErrProductNotFound, got %v", err)
		}
	})

	t.Run("Delete removes the product", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Insert(ctx, &domain.Product{Name: "iPhone", Price: 1000, Category: "smartphones"})
		if err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		if err := repo.Delete(ctx, created.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := repo.FindByID(ctx, created.ID); !errors.Is(err, ErrProductNotFound) {
			t.Errorf("expected product to be gone, got %v", err)
		}
	})

	t.Run("insert then find preserves attributes", func(t *testing.T) {
		repo := newRepo(t)

		properties := gopter.NewProperties(nil)

		properties.Property("creating and retrieving a product preserves all attributes", prop.ForAll(
			func(name string, price int64, category string) bool {
				ctx := context.Background()

				created, err := repo.Insert(ctx, &domain.Product{Name: name, Price: price, Category: category})
				if err != nil {
					t.Logf("FAIL: Failed to create product: %v", err)
					return false
				}

				retrieved, err := repo.FindByID(ctx, created.ID)
				if err != nil {
					t.Logf("FAIL: Failed to retrieve product: %v", err)
					return false
				}

				if retrieved.Name != name || retrieved.Price != price || retrieved.Category != category {
					t.Logf("FAIL: attribute mismatch. Expected %s/%d/%s, got %+v", name, price, category, retrieved)
					return false
				}

				return repo.Delete(ctx, created.ID) == nil
			},
			gen.RegexMatch(`[A-Za-z0-9 ]{3,50}`),
			gen.Int64Range(0, 1_000_000),
			gen.RegexMatch(`[a-z]{3,20}`),
		))

		properties.TestingRun(t, gopter.ConsoleReporter(false))
	})
}
