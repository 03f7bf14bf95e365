package ports

import (
	"github.com/loomhq/loom/internal/domain"
)

// State is the shared keyed store for one run: the immutable input record
// plus the accumulated outputs of completed units. Keys are write-once; a
// reader either sees nothing or the fully-finalized value.
type State interface {
	Record() domain.Record

	Get(name string) (interface{}, bool)

	// Put publishes a unit's finalized output. Writing an existing key
	// returns domain.ErrKeyExists.
	Put(name string, value interface{}) error

	// Outputs snapshots the finalized outputs for the named keys. Every
	// name must already be finalized.
	Outputs(names ...string) (map[string]interface{}, error)
}
