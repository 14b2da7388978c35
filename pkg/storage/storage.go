// Package storage defines the durable key-value store the wishlist
// persists into. Backends live in the memory, sqlite and files
// subpackages.
package storage

import (
	"context"
	"strings"

	"github.com/agentstation/wishlist/pkg/constants"
	"github.com/agentstation/wishlist/pkg/errors"
)

// DefaultKey is the entry the wishlist is stored under.
const DefaultKey = constants.DefaultStorageKey

// Storage is a string-keyed, string-valued persistent store. Get reports
// ok=false for a missing key without an error.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Driver selects a Storage backend.
type Driver string

// Supported drivers.
const (
	DriverSQLite Driver = "sqlite"
	DriverFiles  Driver = "files"
	DriverMemory Driver = "memory"
)

// Drivers lists the supported drivers.
func Drivers() []Driver {
	return []Driver{DriverSQLite, DriverFiles, DriverMemory}
}

// ParseDriver parses a driver name.
func ParseDriver(s string) (Driver, error) {
	switch d := Driver(strings.ToLower(strings.TrimSpace(s))); d {
	case DriverSQLite, DriverFiles, DriverMemory:
		return d, nil
	case "sqlite3", "db":
		return DriverSQLite, nil
	case "file", "fs":
		return DriverFiles, nil
	case "mem":
		return DriverMemory, nil
	default:
		return "", errors.NewConfigError("storage", "unknown driver "+s+" (want sqlite, files or memory)", errors.ErrInvalidInput)
	}
}

// ValidateKey rejects keys no backend can store.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.NewValidationError("key", key, "cannot be empty")
	}
	return nil
}
