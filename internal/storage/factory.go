// Package storage selects and constructs the configured storage backend.
package storage

import (
	"fmt"

	"github.com/bobmcallan/intrinsic/internal/common"
	"github.com/bobmcallan/intrinsic/internal/interfaces"
	"github.com/bobmcallan/intrinsic/internal/storage/marketfs"
	"github.com/bobmcallan/intrinsic/internal/storage/surrealdb"
)

// Backend type constants.
const (
	BackendFile    = "file"
	BackendSurreal = "surreal"
)

// NewManager creates a storage manager based on the configuration.
// Supported backends: "file" (default), "surreal".
func NewManager(logger *common.Logger, config *common.Config) (interfaces.StorageManager, error) {
	backend := config.Storage.Backend
	if backend == "" {
		backend = BackendFile
	}

	switch backend {
	case BackendFile:
		return marketfs.NewStore(logger, config.Storage.File.Path)

	case BackendSurreal:
		return surrealdb.NewManager(logger, config)

	default:
		return nil, fmt.Errorf("unknown storage backend: %s (supported: file, surreal)", backend)
	}
}
