// Package storage is the console's durable client storage: a handful of
// JSON-serialized values kept in a local SQLite database.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/eduadmin/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/eduadmin/internal/dbx"
)

// Keys used by the session and preferences stores.
const (
	KeyAuthTokens       = "authTokens"
	KeyTheme            = "theme"
	KeyMenuPosition     = "menuPosition"
	KeyLayoutWidth      = "layoutWidth"
	KeySelectedBranchID = "selectedBranchId"
)

// ErrCorrupt is returned by Load when the stored bytes are not valid JSON for
// the destination type.
var ErrCorrupt = errors.New("stored value is corrupt")

// KV is the storage contract the stores depend on.
type KV interface {
	// Load decodes key into dst. It reports false when the key is absent.
	Load(ctx context.Context, key string, dst any) (bool, error)
	Save(ctx context.Context, key string, v any) error
	Remove(ctx context.Context, key string) error
}

// Store implements KV on top of the metadata repository.
type Store struct {
	db   *sql.DB
	repo metadata.Repository
}

func New(db *sql.DB) *Store {
	return &Store{db: db, repo: metadata.NewSQLiteRepository(db)}
}

func (s *Store) Load(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := s.repo.Get(ctx, key)
	if errors.Is(err, metadata.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return true, nil
}

func (s *Store) Save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.repo.Set(ctx, key, raw)
}

func (s *Store) Remove(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, key)
}

// SaveAll writes every value in one transaction: either all keys change or
// none do.
func (s *Store) SaveAll(ctx context.Context, values map[string]any) error {
	encoded := make(map[string][]byte, len(values))
	for k, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", k, err)
		}
		encoded[k] = raw
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		for k, raw := range encoded {
			if err := repo.Set(ctx, k, raw); err != nil {
				return err
			}
		}
		return nil
	})
}

// Keys lists the stored keys, for diagnostics.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	recs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(recs))
	for i, r := range recs {
		keys[i] = r.Key
	}
	return keys, nil
}
