// Package storage implements the sinks that deliver finished archives
// to their destination: local filesystem, S3, Azure Blob, or GCS.
package storage

import (
	"path"
	"time"
)

// KeyRouter builds the object key an archive is stored under:
// basePath/dt=YYYY-MM-DD/name. Date partitioning keeps recurring
// archive runs browsable in object storage.
type KeyRouter struct {
	basePath string
}

// NewKeyRouter creates a router with the given base path (may be empty).
func NewKeyRouter(basePath string) *KeyRouter {
	return &KeyRouter{basePath: basePath}
}

// Route returns the object key for an archive named name at time t.
func (r *KeyRouter) Route(name string, t time.Time) string {
	date := t.UTC().Format("2006-01-02")
	return path.Join(r.basePath, "dt="+date, name)
}
