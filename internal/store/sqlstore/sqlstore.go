// Package sqlstore implements store.Store on SQLite through gorm.
package sqlstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"prodmcp/internal/store"
)

type productRow struct {
	ID       int64   `gorm:"column:id;primaryKey;autoIncrement"`
	Name     string  `gorm:"column:name;not null;default:''"`
	Category string  `gorm:"column:category;not null;default:'';index"`
	Price    float64 `gorm:"column:price;not null;default:0"`
}

func (productRow) TableName() string { return "products" }

func (r productRow) product() store.Product {
	return store.Product{ID: r.ID, Name: r.Name, Category: r.Category, Price: r.Price}
}

// Store is a SQLite-backed product catalog.
type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

// Open connects to the database at dsn, migrates the products table and,
// when seed is non-empty and the table is empty, inserts the seed rows.
func Open(dsn string, seed []store.Product) (*Store, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("sqlite dsn is required")
	}
	if isFilePath(dsn) {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, err
		}
	}

	gdb, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        dsn,
	}, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases shared and serialises writers.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := gdb.AutoMigrate(&productRow{}); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	s := &Store{db: gdb}
	if len(seed) > 0 {
		if err := s.seed(seed); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}
	return s, nil
}

func isFilePath(dsn string) bool {
	return dsn != ":memory:" && !strings.HasPrefix(dsn, "file:")
}

func (s *Store) seed(products []store.Product) error {
	var count int64
	if err := s.db.Model(&productRow{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	rows := make([]productRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, productRow{Name: p.Name, Category: p.Category, Price: p.Price})
	}
	return s.db.Create(&rows).Error
}

func (s *Store) ListAll(ctx context.Context) ([]store.Product, error) {
	return s.find(s.db.WithContext(ctx))
}

func (s *Store) FindByName(ctx context.Context, substring string) ([]store.Product, error) {
	return s.find(s.db.WithContext(ctx).Where("LOWER(name) LIKE ? ESCAPE '\\'", likePattern(substring)))
}

func (s *Store) FindByCategory(ctx context.Context, category string) ([]store.Product, error) {
	return s.find(s.db.WithContext(ctx).Where("LOWER(category) LIKE ? ESCAPE '\\'", likePattern(category)))
}

func (s *Store) FindByID(ctx context.Context, id int64) (store.Product, bool, error) {
	var row productRow
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.Product{}, false, nil
	}
	if err != nil {
		return store.Product{}, false, err
	}
	return row.product(), true, nil
}

func (s *Store) Create(ctx context.Context, name, category string, price float64) (store.Product, error) {
	row := productRow{Name: name, Category: category, Price: price}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return store.Product{}, err
	}
	return row.product(), nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) find(q *gorm.DB) ([]store.Product, error) {
	var rows []productRow
	if err := q.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]store.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.product())
	}
	return out, nil
}

// likePattern builds a lower-cased LIKE pattern matching value anywhere,
// escaping the LIKE wildcards it contains.
func likePattern(value string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(value)) + "%"
}
