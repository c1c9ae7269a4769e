// Package store holds the persistence backends for boats and slips.
//
// Every backend implements Repository. Reads return ErrNotFound when the
// entity is missing; the conditional slip writes return ErrConflict when the
// slip was not in the expected state at write time.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/zeroshade/marinaapi/internal/config"
	"github.com/zeroshade/marinaapi/types"
	"go.uber.org/zap"
)

var (
	ErrNotFound = errors.New("entity not found")
	ErrConflict = errors.New("slip state changed")
)

type BoatStore interface {
	ListBoats(ctx context.Context) ([]types.Boat, error)
	GetBoat(ctx context.Context, id int64) (*types.Boat, error)
	// CreateBoat stores b and fills in its ID
	CreateBoat(ctx context.Context, b *types.Boat) error
	// SaveBoat overwrites every attribute of an existing boat
	SaveBoat(ctx context.Context, b *types.Boat) error
	DeleteBoat(ctx context.Context, id int64) error
}

type SlipStore interface {
	ListSlips(ctx context.Context) ([]types.Slip, error)
	GetSlip(ctx context.Context, id int64) (*types.Slip, error)
	// CreateSlip stores s with no current boat and fills in its ID
	CreateSlip(ctx context.Context, s *types.Slip) error
	// AssignSlip sets current_boat only if the slip is still empty
	AssignSlip(ctx context.Context, slipID, boatID int64) error
	// ReleaseSlip clears current_boat only if it still equals boatID
	ReleaseSlip(ctx context.Context, slipID, boatID int64) error
	// ClearSlip unconditionally clears current_boat
	ClearSlip(ctx context.Context, slipID int64) error
	// ClearBoatFromSlips empties every slip currently holding boatID
	ClearBoatFromSlips(ctx context.Context, boatID int64) error
}

type Repository interface {
	BoatStore
	SlipStore
	Ping(ctx context.Context) error
	Close() error
}

// Open builds the backend named by cfg.StoreDriver
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Repository, error) {
	var (
		repo Repository
		err  error
	)
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return NewMemory(), nil
	case config.DriverPostgres:
		repo, err = OpenPostgres(cfg.DatabaseURL, logger)
	case config.DriverSQLite:
		repo, err = OpenSQLite(cfg.SQLitePath, logger)
	case config.DriverDatastore:
		repo, err = OpenDatastore(ctx, cfg.DatastoreProject)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
	if err != nil {
		return nil, err
	}
	return repo, nil
}
