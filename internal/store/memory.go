package store

import (
	"context"
	"strings"
	"sync"
)

// Memory is an in-process Store. Name and category lookups are
// case-insensitive substring matches.
type Memory struct {
	mu       sync.RWMutex
	products []Product
	nextID   int64
	closed   bool
}

// NewMemory returns an empty store, optionally preloaded with seed products.
// Seed IDs are ignored and reassigned from 1.
func NewMemory(seed ...Product) *Memory {
	m := &Memory{nextID: 1}
	for _, p := range seed {
		m.insert(p.Name, p.Category, p.Price)
	}
	return m
}

func (m *Memory) insert(name, category string, price float64) Product {
	p := Product{ID: m.nextID, Name: name, Category: category, Price: price}
	m.nextID++
	m.products = append(m.products, p)
	return p
}

func (m *Memory) ListAll(ctx context.Context) ([]Product, error) {
	return m.filter(ctx, func(Product) bool { return true })
}

func (m *Memory) FindByName(ctx context.Context, substring string) ([]Product, error) {
	needle := strings.ToLower(substring)
	return m.filter(ctx, func(p Product) bool {
		return strings.Contains(strings.ToLower(p.Name), needle)
	})
}

func (m *Memory) FindByCategory(ctx context.Context, category string) ([]Product, error) {
	needle := strings.ToLower(category)
	return m.filter(ctx, func(p Product) bool {
		return strings.Contains(strings.ToLower(p.Category), needle)
	})
}

func (m *Memory) FindByID(ctx context.Context, id int64) (Product, bool, error) {
	if err := ctx.Err(); err != nil {
		return Product{}, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return Product{}, false, ErrClosed
	}
	for _, p := range m.products {
		if p.ID == id {
			return p, true, nil
		}
	}
	return Product{}, false, nil
}

func (m *Memory) Create(ctx context.Context, name, category string, price float64) (Product, error) {
	if err := ctx.Err(); err != nil {
		return Product{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return Product{}, ErrClosed
	}
	return m.insert(name, category, price), nil
}

// Close marks the store unusable. Subsequent calls fail with ErrClosed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *Memory) filter(ctx context.Context, keep func(Product) bool) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	out := make([]Product, 0, len(m.products))
	for _, p := range m.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out, nil
}
