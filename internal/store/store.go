// Package store defines the product catalog the tools read and mutate.
package store

import (
	"context"
	"errors"
)

// Product is a single catalog entry.
type Product struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

// Store is the catalog capability consumed by the product tools.
// Listing operations return products ordered by ID ascending.
type Store interface {
	ListAll(ctx context.Context) ([]Product, error)
	FindByName(ctx context.Context, substring string) ([]Product, error)
	FindByCategory(ctx context.Context, category string) ([]Product, error)
	FindByID(ctx context.Context, id int64) (Product, bool, error)
	Create(ctx context.Context, name, category string, price float64) (Product, error)
}

// ErrClosed is returned by a store that has been closed.
var ErrClosed = errors.New("store is closed")

// DefaultSeed is the demo catalog loaded when seeding is enabled.
var DefaultSeed = []Product{
	{Name: "Green Tea", Category: "Drinks", Price: 4.50},
	{Name: "Black Tea", Category: "Drinks", Price: 3.90},
	{Name: "Espresso Beans", Category: "Drinks", Price: 12.00},
	{Name: "Dark Chocolate", Category: "Sweets", Price: 2.75},
	{Name: "Oat Cookies", Category: "Sweets", Price: 3.20},
	{Name: "Notebook", Category: "Stationery", Price: 5.00},
	{Name: "Ballpoint Pen", Category: "Stationery", Price: 1.10},
}
