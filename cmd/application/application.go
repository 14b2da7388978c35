// Package application provides the application interface for wishlist
// commands and the HTTP server.
//
// The Application interface is the contract between the application layer
// and command implementations. Commands and the server accept it rather
// than the concrete App so they can be tested with Mock.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            store, err := app.Wishlist()
//	            if err != nil {
//	                return err
//	            }
//	            // ... use store
//	            return nil
//	        },
//	    }
//	}
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/wishlist"
	"github.com/agentstation/wishlist/internal/catalog"
)

// Application provides what commands need.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Wishlist returns the process-wide wishlist store, creating and
	// hydrating it on first use. The App owns its lifecycle.
	Wishlist() (wishlist.Store, error)

	// Catalog returns the configured product and service catalog.
	Catalog() (*catalog.Catalog, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
