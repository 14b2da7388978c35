package app

import (
	"io"

	"github.com/agentstation/wishlist/pkg/errors"
	"github.com/agentstation/wishlist/pkg/storage"
	"github.com/agentstation/wishlist/pkg/storage/files"
	"github.com/agentstation/wishlist/pkg/storage/memory"
	"github.com/agentstation/wishlist/pkg/storage/sqlite"
)

// nopCloser is returned for backends without resources.
type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openStorage opens the backend selected by the configuration. The closer
// releases the backend's resources.
func openStorage(cfg *Config) (storage.Storage, io.Closer, error) {
	switch cfg.StorageDriver {
	case storage.DriverMemory:
		s := memory.New()
		return s, s, nil

	case storage.DriverFiles:
		dir, err := cfg.ResolvedStoragePath()
		if err != nil {
			return nil, nil, err
		}
		s, err := files.New(dir)
		if err != nil {
			return nil, nil, err
		}
		return s, nopCloser{}, nil

	case storage.DriverSQLite, "":
		path, err := cfg.ResolvedStoragePath()
		if err != nil {
			return nil, nil, err
		}
		s, err := sqlite.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil

	default:
		return nil, nil, errors.NewConfigError("storage", "unknown driver "+string(cfg.StorageDriver), errors.ErrInvalidInput)
	}
}
