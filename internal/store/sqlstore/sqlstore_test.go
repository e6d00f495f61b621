package sqlstore

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"prodmcp/internal/store"
)

func openTestStore(t *testing.T, seed []store.Product) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "products.db"), seed)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_SeedAndList(t *testing.T) {
	s := openTestStore(t, store.DefaultSeed)

	products, err := s.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(products) != len(store.DefaultSeed) {
		t.Fatalf("Expected %d products, got %d", len(store.DefaultSeed), len(products))
	}
	for i, p := range products {
		if p.ID != int64(i+1) {
			t.Errorf("Expected ID %d, got %d", i+1, p.ID)
		}
		if p.Name != store.DefaultSeed[i].Name {
			t.Errorf("Expected %s, got %s", store.DefaultSeed[i].Name, p.Name)
		}
	}
}

func TestStore_SeedOnlyWhenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.db")

	s, err := Open(path, store.DefaultSeed)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	_ = s.Close()

	s, err = Open(path, store.DefaultSeed)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer s.Close()

	products, _ := s.ListAll(context.Background())
	if len(products) != len(store.DefaultSeed) {
		t.Errorf("Expected seed to be applied once, got %d products", len(products))
	}
}

func TestStore_FindByName(t *testing.T) {
	s := openTestStore(t, store.DefaultSeed)

	products, err := s.FindByName(context.Background(), "tEa")
	if err != nil {
		t.Fatalf("FindByName failed: %v", err)
	}
	if len(products) != 2 {
		t.Errorf("Expected 2 products, got %d", len(products))
	}

	none, err := s.FindByName(context.Background(), "100%")
	if err != nil {
		t.Fatalf("FindByName failed: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", none)
	}
}

func TestStore_FindByCategory(t *testing.T) {
	s := openTestStore(t, store.DefaultSeed)

	products, err := s.FindByCategory(context.Background(), "Stationery")
	if err != nil {
		t.Fatalf("FindByCategory failed: %v", err)
	}
	if len(products) != 2 {
		t.Errorf("Expected 2 products, got %d", len(products))
	}
}

func TestStore_CreateAndFindByID(t *testing.T) {
	s := openTestStore(t, nil)
	ctx := context.Background()

	created, err := s.Create(ctx, "Kettle", "Kitchen", 24.99)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID != 1 {
		t.Errorf("Expected ID 1, got %d", created.ID)
	}

	got, ok, err := s.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if !ok || !reflect.DeepEqual(got, created) {
		t.Errorf("Expected %v, got %v (found=%v)", created, got, ok)
	}

	_, ok, err = s.FindByID(ctx, 0)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if ok {
		t.Error("Expected ID 0 to be absent")
	}
}

func TestOpen_RequiresDSN(t *testing.T) {
	if _, err := Open("  ", nil); err == nil {
		t.Error("Expected error for empty dsn")
	}
}
