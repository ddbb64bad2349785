// Package scene implements the host's scene manager. It imports scene
// resources declared by content bundles and tracks the node paths they
// provide.
package scene

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/vk/naosoccer/internal/bundle"
	"github.com/vk/naosoccer/internal/ctxlog"
)

// ErrUnknownScene is returned when no imported bundle declares the scene.
var ErrUnknownScene = errors.New("unknown scene")

// Source resolves declared scenes.
type Source interface {
	Scene(path string) (*bundle.Scene, bool)
}

// Manager tracks imported scenes.
type Manager struct {
	source Source

	mu       sync.RWMutex
	imported []string
	nodes    map[string]string
}

// NewManager creates a scene manager resolving scenes through source.
func NewManager(source Source) *Manager {
	return &Manager{source: source, nodes: make(map[string]string)}
}

// ImportScene imports a declared scene. Importing the same scene again is a
// no-op.
func (m *Manager) ImportScene(ctx context.Context, path string) error {
	sc, ok := m.source.Scene(path)
	if !ok {
		return fmt.Errorf("import scene %q: %w", path, ErrUnknownScene)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if slices.Contains(m.imported, path) {
		return nil
	}
	m.imported = append(m.imported, path)
	for _, n := range sc.Nodes {
		m.nodes[n] = path
	}

	ctxlog.FromContext(ctx).Debug("Scene imported.", "scene", path, "nodes", len(sc.Nodes))
	return nil
}

// Imported returns imported scene paths in import order.
func (m *Manager) Imported() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.imported)
}

// HasNode reports whether an imported scene provides the node path.
func (m *Manager) HasNode(node string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.nodes[node]
	return ok
}
