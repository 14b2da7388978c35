package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/wishlist"
	"github.com/agentstation/wishlist/internal/catalog"
)

// Mock is an Application for tests. Nil funcs fall back to zero values
// and a no-op logger.
type Mock struct {
	WishlistFunc func() (wishlist.Store, error)
	CatalogFunc  func() (*catalog.Catalog, error)
	LoggerFunc   func() *zerolog.Logger
	Format       string
}

var _ Application = (*Mock)(nil)

// Wishlist implements Application.
func (m *Mock) Wishlist() (wishlist.Store, error) {
	if m.WishlistFunc == nil {
		return nil, nil
	}
	return m.WishlistFunc()
}

// Catalog implements Application.
func (m *Mock) Catalog() (*catalog.Catalog, error) {
	if m.CatalogFunc == nil {
		return catalog.Default()
	}
	return m.CatalogFunc()
}

// Logger implements Application.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc == nil {
		logger := zerolog.Nop()
		return &logger
	}
	return m.LoggerFunc()
}

// OutputFormat implements Application.
func (m *Mock) OutputFormat() string {
	if m.Format == "" {
		return "table"
	}
	return m.Format
}

// Version implements Application.
func (m *Mock) Version() string { return "test" }

// Commit implements Application.
func (m *Mock) Commit() string { return "none" }

// Date implements Application.
func (m *Mock) Date() string { return "unknown" }

// BuiltBy implements Application.
func (m *Mock) BuiltBy() string { return "test" }
