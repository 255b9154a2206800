// Package postgresstorage implements the storage.Backend interface using
// GORM/PostgreSQL. It wraps the shared GORM backend with a postgres
// connection established at Init time.
package postgresstorage

import (
	"fmt"

	"github.com/polygonome/engine/internal/database"
	"github.com/polygonome/engine/internal/logging"
	gormstorage "github.com/polygonome/engine/internal/storage/gorm"

	"github.com/rs/zerolog"
)

// Backend wraps the GORM backend with a postgres connection.
type Backend struct {
	*gormstorage.Backend
	log *logging.Manager
}

// New creates a new postgres storage backend. The connection is made lazily
// in Init so construction never blocks on the network.
func New(logManager *logging.Manager) *Backend {
	return &Backend{
		Backend: gormstorage.New(gormstorage.Dependencies{Log: logManager}),
		log:     logManager,
	}
}

// Init connects to postgres and initializes the embedded GORM backend.
func (b *Backend) Init() error {
	mgr := database.NewManager(zerolog.Nop())
	db, err := mgr.GetPostgresDB()
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	if err = sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to validate connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)

	b.Backend = gormstorage.New(gormstorage.Dependencies{DB: db, Log: b.log})
	return b.Backend.Init()
}
