package storage

import (
	"context"
	"fmt"

	"sketchpad/internal/domain"
)

// Options selects and addresses the backing store.
type Options struct {
	Driver     string // sqlite (default), postgres, mysql, mongo
	DSN        string // file path for sqlite, DSN or URI otherwise
	Database   string // mongo only
	Collection string // mongo only
}

// Open returns the KV store described by opts.
func Open(ctx context.Context, opts Options) (domain.KVStore, error) {
	switch opts.Driver {
	case "", DriverSQLite:
		db, err := OpenSQLite(opts.DSN)
		if err != nil {
			return nil, err
		}
		return NewKVStore(db), nil
	case DriverPostgres, DriverMySQL:
		db, err := OpenSQL(ctx, opts.Driver, opts.DSN)
		if err != nil {
			return nil, err
		}
		return NewKVStore(db), nil
	case DriverMongo:
		return OpenMongo(ctx, opts.DSN, opts.Database, opts.Collection)
	}
	return nil, fmt.Errorf("unsupported storage driver: %q", opts.Driver)
}

// FilePath returns the SQLite file behind store, or "" when the store is not file-backed.
func FilePath(store domain.KVStore) string {
	if kv, ok := store.(*KVStore); ok {
		return kv.DB().Path()
	}
	return ""
}
