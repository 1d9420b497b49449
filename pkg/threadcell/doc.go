// Package threadcell provides named, per-goroutine storage slots that share
// one mutable default.
//
// A Cell holds a value independently for every goroutine: each goroutine
// reads and writes its own slot, while goroutines that never wrote see the
// cell's shared default (a concrete value or a lazily evaluated factory).
// A Registry gives a host object key-addressed access to a family of cells,
// binding them on demand.
//
// Basic usage:
//
//	reg := threadcell.NewRegistry[string, int]()
//	reg.Init("timeout", threadcell.WithDefault(30))
//
//	v, _ := reg.Get("timeout") // 30 on any goroutine
//	reg.Set("timeout", 5)      // this goroutine only
//	v, _ = reg.Get("timeout")  // 5 here, still 30 elsewhere
//
// All operations are synchronous, non-blocking local computations and safe
// for concurrent use. Override entries live as long as their cell; see
// Cell.Clear for opt-in cleanup in pooled-worker setups.
package threadcell
