// internal/storage/factory.go
package storage

import (
	"fmt"

	"github.com/polygonome/engine/internal/config"
	"github.com/polygonome/engine/internal/logging"
	"github.com/polygonome/engine/internal/storage/memory"
	postgresstorage "github.com/polygonome/engine/internal/storage/postgres"
	sqlitestorage "github.com/polygonome/engine/internal/storage/sqlite"
)

// NewBackend creates a storage backend based on configuration
func NewBackend(cfg config.StorageConfig, log *logging.Manager) (Backend, error) {
	switch cfg.Type {
	case "postgres":
		return postgresstorage.New(log), nil
	case "sqlite":
		return sqlitestorage.New(cfg.Sqlite, log)
	case "memory":
		return memory.New(cfg.Memory), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
