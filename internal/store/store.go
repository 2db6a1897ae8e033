package store

import "context"

// Fixed keys under which the journal collections live.
const (
	PlantsKey   = "@panenku_plants"
	HarvestsKey = "@panenku_harvests"
)

// Store is the key-value contract repositories persist their collections through.
// Values are opaque blobs; repositories store JSON-encoded arrays.
type Store interface {
	// Get returns the value stored under key, or nil with a nil error when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}
