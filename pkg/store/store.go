// Package store persists column-state snapshots.
//
// The layout engine never touches storage: callers hand the middle state of
// a layout result to [Save] and read it back with [Load] before the next
// pass. Backends only move bytes:
//   - [NullStore]: stores nothing, for one-off runs
//   - [MemoryStore]: process-local, for tests and the API server
//   - [FileStore]: JSON files under the user's config directory
//   - [RedisStore], [MongoStore], [PostgresStore]: shared backends for
//     multi-instance deployments
//
// Keys are built with [Key] and namespace the grid id by scope, for example
// a user id.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/matzehuels/colgrid/pkg/column"
	"github.com/matzehuels/colgrid/pkg/errors"
	"github.com/matzehuels/colgrid/pkg/observability"
)

// Store is a byte-level key-value backend.
type Store interface {
	// Get returns the data for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Snapshot is the persisted form of a grid's middle state.
type Snapshot struct {
	GridID    string         `json:"grid_id"`
	State     []column.State `json:"state"`
	SpecHash  string         `json:"spec_hash,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Key returns the storage key for a grid. An empty scope means "default".
func Key(gridID, scope string) string {
	if scope == "" {
		scope = "default"
	}
	return "colgrid:state:" + scope + ":" + gridID
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// SpecHash fingerprints a column specification. Callbacks do not take part.
func SpecHash(specs []column.Spec) string {
	data, _ := json.Marshal(specs)
	return Hash(data)
}

// Load reads and decodes the snapshot under key. It returns nil, nil on a
// miss.
func Load(ctx context.Context, s Store, key string) (*Snapshot, error) {
	backend := Backend(s)
	data, ok, err := s.Get(ctx, key)
	if err != nil {
		observability.Store().OnStoreError(ctx, backend, "get", err)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "load %s", key)
	}
	if !ok {
		observability.Store().OnStoreMiss(ctx, backend)
		return nil, nil
	}
	observability.Store().OnStoreHit(ctx, backend)

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode %s", key)
	}
	return &snap, nil
}

// Save encodes snap and stores it under key.
func Save(ctx context.Context, s Store, key string, snap Snapshot, ttl time.Duration) error {
	backend := Backend(s)
	if snap.UpdatedAt.IsZero() {
		snap.UpdatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "encode %s", key)
	}
	if err := s.Set(ctx, key, data, ttl); err != nil {
		observability.Store().OnStoreError(ctx, backend, "set", err)
		return errors.Wrap(errors.ErrCodeStore, err, "save %s", key)
	}
	observability.Store().OnStoreSet(ctx, backend, len(data))
	return nil
}

// Remove deletes the snapshot under key.
func Remove(ctx context.Context, s Store, key string) error {
	if err := s.Delete(ctx, key); err != nil {
		observability.Store().OnStoreError(ctx, Backend(s), "delete", err)
		return errors.Wrap(errors.ErrCodeStore, err, "delete %s", key)
	}
	return nil
}

// Backend names the backend behind s for hooks and logs.
func Backend(s Store) string {
	if b, ok := s.(interface{ Backend() string }); ok {
		return b.Backend()
	}
	return "custom"
}
