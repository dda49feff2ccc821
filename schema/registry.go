// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Loader parses a schema document at path into a fresh, unsealed Root.
// Callers typically pass schemajson.LoadFile or schemayaml.LoadFile.
type Loader func(path string) (*Root, error)

// Registry is an instance-owned (never process-global) cache of sealed
// schema Roots keyed by file path.
//
// Concurrent Load calls for the same path are collapsed onto a single
// parse-and-seal pass via singleflight, grounded on the resolver cache in
// jhump-protoreflect's protoresolve/registry.go.
type Registry struct {
	group singleflight.Group

	mu    sync.RWMutex
	roots map[string]*Root
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{roots: map[string]*Root{}}
}

// Load returns the sealed Root for path, parsing and sealing it with load
// on first use. Seal errors (per-field ResolveErrors) are not treated as
// fatal: a Root with some unresolved fields is still cached and returned,
// so the rest of the schema remains usable.
func (r *Registry) Load(path string, load Loader) (*Root, []error, error) {
	r.mu.RLock()
	if root, ok := r.roots[path]; ok {
		r.mu.RUnlock()
		return root, nil, nil
	}
	r.mu.RUnlock()

	type result struct {
		root     *Root
		sealErrs []error
	}
	v, err, _ := r.group.Do(path, func() (interface{}, error) {
		// A load that finished between the check above and this call has
		// already cached the Root; reuse it instead of loading again.
		r.mu.RLock()
		if root, ok := r.roots[path]; ok {
			r.mu.RUnlock()
			return result{root: root}, nil
		}
		r.mu.RUnlock()

		root, err := load(path)
		if err != nil {
			return nil, err
		}
		sealErrs := root.Seal()

		r.mu.Lock()
		r.roots[path] = root
		r.mu.Unlock()

		return result{root: root, sealErrs: sealErrs}, nil
	})
	if err != nil {
		return nil, nil, err
	}
	res := v.(result)
	return res.root, res.sealErrs, nil
}

// Forget evicts path from the cache, so the next Load reparses it.
func (r *Registry) Forget(path string) {
	r.mu.Lock()
	delete(r.roots, path)
	r.mu.Unlock()
}
