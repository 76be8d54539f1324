// Package sqlite is the public entry point for the embedded SQLite record
// store. It hides the storage implementation behind types.RecordStore so
// callers depend only on pkg/types.
package sqlite

import (
	"github.com/mesh-intelligence/stockroom/internal/sqlite"
	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// Open opens (creating if necessary) the database named by config and
// returns the record store bound to it. The caller owns the store and must
// Close it.
//
// Example:
//
//	store, err := sqlite.Open(types.Config{
//	    DatabasePath: filepath.Join(dir, "stockroom.db"),
//	})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
func Open(config types.Config) (types.RecordStore, error) {
	return sqlite.Open(config)
}
