// Package constants provides shared constants used throughout the wishlist
// codebase: timeouts, limits, file permissions and default paths that
// should be consistent across the library, the CLI and the server.
package constants

import "time"

// Timeout constants
const (
	// DefaultTimeout is the standard timeout for storage operations issued
	// outside a dispatch (hydration, CLI commands)
	DefaultTimeout = 10 * time.Second

	// ShutdownTimeout bounds graceful HTTP server shutdown
	ShutdownTimeout = 10 * time.Second

	// ReadTimeout is the HTTP server read timeout
	ReadTimeout = 10 * time.Second

	// WriteTimeout is the HTTP server write timeout
	WriteTimeout = 10 * time.Second

	// IdleTimeout is the HTTP server keep-alive timeout
	IdleTimeout = 120 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants
const (
	// PersistQueueSize is the default buffer of the asynchronous persistence writer
	PersistQueueSize = 64

	// ChannelBufferSize is the default buffer size for event channels
	ChannelBufferSize = 256

	// MaxRequestBodySize caps JSON bodies accepted by the HTTP API (1 MB)
	MaxRequestBodySize = 1 << 20
)

// Cache constants
const (
	// CacheTTL is the default time-to-live for cached catalog responses
	CacheTTL = 5 * time.Minute

	// CacheCleanupInterval is how often to clean expired cache entries
	CacheCleanupInterval = 10 * time.Minute
)

// Default values
const (
	// DefaultStorageKey is the durable entry the wishlist is stored under
	DefaultStorageKey = "wishlist"

	// DefaultPort is the default HTTP server port
	DefaultPort = 8080

	// DefaultHost is the default HTTP server bind address
	DefaultHost = "localhost"

	// DefaultPathPrefix is the API route prefix
	DefaultPathPrefix = "/api/v1"
)

// Path constants
const (
	// DefaultDataPath is the default directory for wishlist data
	DefaultDataPath = "~/.wishlist"

	// DefaultDatabaseFile is the sqlite file name inside DefaultDataPath
	DefaultDatabaseFile = "wishlist.db"

	// DefaultFilesDir is the files backend directory inside DefaultDataPath
	DefaultFilesDir = "data"

	// DefaultConfigFile is the config file name looked up in the home directory
	DefaultConfigFile = ".wishlist"
)
