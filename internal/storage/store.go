package storage

import (
	"context"
	"fmt"

	"fileranker/internal/ir"
)

// Cache drivers accepted by Open.
const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
	DriverNone   = "none"
)

// FactCache persists extracted facts keyed by file path and content hash.
// A stored entry whose hash differs from the requested one is a miss.
type FactCache interface {
	Get(ctx context.Context, path, hash string) ([]ir.DeclarationFact, bool, error)
	Put(ctx context.Context, path, hash string, facts []ir.DeclarationFact) error
	Close() error
}

// Open selects a cache implementation by driver name.
func Open(driver, path string) (FactCache, error) {
	switch driver {
	case DriverSQLite:
		return NewSQLiteCache(path)
	case DriverBolt:
		return NewBoltCache(path)
	case DriverNone, "":
		return NopCache{}, nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", driver)
	}
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) Get(context.Context, string, string) ([]ir.DeclarationFact, bool, error) {
	return nil, false, nil
}

func (NopCache) Put(context.Context, string, string, []ir.DeclarationFact) error {
	return nil
}

func (NopCache) Close() error {
	return nil
}
