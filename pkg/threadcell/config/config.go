// Package config loads declarative cell defaults and seeds them onto a
// registry. A defaults document is a flat mapping from cell key to default
// value, in YAML or JSON:
//
//	timeout: 30
//	retries: 3
//	greeting: hello
//
// Seeding is in-process state only; nothing is written back (cell contents
// are never persisted).
package config

import (
	"fmt"
	"sort"

	"github.com/loomworks/threadcell/pkg/threadcell"
)

// Defaults wraps a flat key-to-default mapping parsed from a config source.
type Defaults struct {
	data map[string]any
}

// New creates Defaults from the given map.
// If data is nil, an empty Defaults is returned.
func New(data map[string]any) Defaults {
	if data == nil {
		data = make(map[string]any)
	}
	return Defaults{data: data}
}

// Has returns true if the key exists in the defaults.
func (d Defaults) Has(key string) bool {
	_, ok := d.data[key]
	return ok
}

// Keys returns all keys in sorted order.
func (d Defaults) Keys() []string {
	keys := make([]string, 0, len(d.data))
	for k := range d.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of entries.
func (d Defaults) Len() int {
	return len(d.data)
}

// Raw returns the underlying map.
// The returned map should not be modified.
func (d Defaults) Raw() map[string]any {
	return d.data
}

// Seed binds every entry as a concrete cell default on the registry via
// Init, so keys already bound are rebound to fresh cells and prior
// per-goroutine overrides for those keys are discarded. Keys not named in
// the defaults are left alone.
func Seed(reg *threadcell.Registry[string, any], d Defaults) error {
	for _, k := range d.Keys() {
		if _, err := reg.Init(k, threadcell.WithDefault(d.data[k])); err != nil {
			return fmt.Errorf("seed cell %q: %w", k, err)
		}
	}
	return nil
}
