// Package asset stores node outputs and resolves image references.
//
// Outputs are encoded as PNG and kept in a Store under a random id; the
// returned reference carries the id and an asset:// URI. Two stores are
// provided: MemoryStore for one-shot runs and tests, and BadgerStore for
// results that should outlive the process.
//
// Context implements node.Context on top of a Store, so any node can be run
// with
//
//	pc := asset.NewContext(asset.NewMemoryStore(), node.Env{})
//	out, err := node.Invoke(ctx, n, pc)
package asset
