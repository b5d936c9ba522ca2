package userdata

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dmitrymomot/reservekit/svc/refresh"
)

var (
	ErrNotFound    = errors.New("user data snapshot not found")
	ErrEmptyUserID = errors.New("user id is empty")
	ErrEncode      = errors.New("failed to encode user data snapshot")
	ErrDecode      = errors.New("failed to decode user data snapshot")
)

// Snapshot is the last fetched state of one area for one user.
type Snapshot struct {
	Area      refresh.Area    `json:"area"`
	Data      json.RawMessage `json:"data"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// Store keeps snapshots per user and area.
type Store interface {
	Save(ctx context.Context, userID string, snap Snapshot) error
	// Load returns ErrNotFound for a missing or expired snapshot.
	Load(ctx context.Context, userID string, area refresh.Area) (Snapshot, error)
	Delete(ctx context.Context, userID string, area refresh.Area) error
}

type Config struct {
	TTL           time.Duration `env:"USERDATA_TTL" envDefault:"10m"`
	CacheCapacity int           `env:"USERDATA_CACHE_CAPACITY" envDefault:"512"`
	KeyPrefix     string        `env:"USERDATA_KEY_PREFIX" envDefault:"reservekit:userdata"`
}

func NewSnapshot(area refresh.Area, value any, fetchedAt time.Time) (Snapshot, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return Snapshot{}, errors.Join(ErrEncode, err)
	}
	return Snapshot{Area: area, Data: data, FetchedAt: fetchedAt.UTC()}, nil
}

// Get loads a snapshot and decodes its data into T.
func Get[T any](ctx context.Context, store Store, userID string, area refresh.Area) (T, time.Time, error) {
	var out T

	snap, err := store.Load(ctx, userID, area)
	if err != nil {
		return out, time.Time{}, err
	}
	if err := json.Unmarshal(snap.Data, &out); err != nil {
		return out, time.Time{}, errors.Join(ErrDecode, err)
	}
	return out, snap.FetchedAt, nil
}

func storeKey(prefix, userID string, area refresh.Area) string {
	return prefix + ":" + userID + ":" + string(area)
}
