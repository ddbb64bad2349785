// Package host provides the path-addressed service tree through which the
// bootstrap sequence and the host's own services find each other.
//
// Lookups never fail: an unknown or malformed path simply resolves to
// "absent", and callers branch on the boolean result.
package host

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vk/naosoccer/internal/hostpath"
)

// Lookuper resolves a service by path.
type Lookuper interface {
	Lookup(path string) (any, bool)
}

// Mounter attaches a service to a path.
type Mounter interface {
	Mount(path string, svc any) error
}

// Tree is a concurrency-safe map from normalized host paths to services.
type Tree struct {
	mu    sync.RWMutex
	nodes map[string]any
}

// NewTree creates an empty service tree.
func NewTree() *Tree {
	return &Tree{nodes: make(map[string]any)}
}

// Mount attaches svc at path. Mounting twice at the same path is an error.
func (t *Tree) Mount(path string, svc any) error {
	p, err := hostpath.Parse(path)
	if err != nil {
		return fmt.Errorf("mount: %w", err)
	}
	if svc == nil {
		return fmt.Errorf("mount %s: nil service", p)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	key := p.String()
	if _, exists := t.nodes[key]; exists {
		return fmt.Errorf("mount %s: path already in use", key)
	}
	t.nodes[key] = svc
	return nil
}

// Unmount detaches whatever is mounted at path.
func (t *Tree) Unmount(path string) {
	p, err := hostpath.Parse(path)
	if err != nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.nodes, p.String())
}

// Lookup returns the service at path, if any.
func (t *Tree) Lookup(path string) (any, bool) {
	p, err := hostpath.Parse(path)
	if err != nil {
		return nil, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	svc, ok := t.nodes[p.String()]
	return svc, ok
}

// Paths returns all mounted paths, sorted.
func (t *Tree) Paths() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.nodes))
	for k := range t.nodes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Resolve looks up path and asserts the service to T. A service that is
// mounted but does not implement T is treated as absent.
func Resolve[T any](l Lookuper, path string) (T, bool) {
	var zero T
	if l == nil {
		return zero, false
	}
	svc, ok := l.Lookup(path)
	if !ok {
		return zero, false
	}
	typed, ok := svc.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
