package gamecontrol

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/vk/naosoccer/internal/ctxlog"
	"github.com/vk/naosoccer/internal/host"
	"github.com/vk/naosoccer/internal/hostpath"
	"github.com/vk/naosoccer/internal/params"
)

// ErrUnknownAspect is returned for aspect names with no registered factory.
var ErrUnknownAspect = errors.New("unknown control aspect")

// Aspect is a behavioral extension initialized into the control pipeline.
type Aspect interface {
	Name() string
}

// Factory creates an aspect from the bootstrap parameters.
type Factory func(ctx context.Context, reg *params.Registry) (Aspect, error)

// Server owns the initialized control aspects.
type Server struct {
	path    hostpath.Path
	mounter host.Mounter

	mu        sync.RWMutex
	factories map[string]Factory
	aspects   *orderedmap.OrderedMap[string, Aspect]
}

// NewServer creates a game-control server living at path. Initialized aspects
// are mounted below path through mounter, which may be nil.
func NewServer(path string, mounter host.Mounter) (*Server, error) {
	p, err := hostpath.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("game control server: %w", err)
	}
	return &Server{
		path:      p,
		mounter:   mounter,
		factories: make(map[string]Factory),
		aspects:   orderedmap.NewOrderedMap[string, Aspect](),
	}, nil
}

// Path returns the server's host path.
func (s *Server) Path() string { return s.path.String() }

// RegisterFactory registers an aspect type. Registering the same name twice
// is a programming error and panics.
func (s *Server) RegisterFactory(name string, f Factory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.factories[name]; exists {
		panic(fmt.Sprintf("control aspect factory with name '%s' already registered", name))
	}
	slog.Debug("Registering control aspect factory.", "name", name)
	s.factories[name] = f
}

// InitControlAspect instantiates the named aspect and mounts it.
func (s *Server) InitControlAspect(ctx context.Context, name string, reg *params.Registry) error {
	logger := ctxlog.FromContext(ctx).With("aspect", name)

	s.mu.RLock()
	factory, ok := s.factories[name]
	_, initialized := s.aspects.Get(name)
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("init control aspect %q: %w", name, ErrUnknownAspect)
	}
	if initialized {
		return fmt.Errorf("init control aspect %q: already initialized", name)
	}

	aspect, err := factory(ctx, reg)
	if err != nil {
		return fmt.Errorf("init control aspect %q: %w", name, err)
	}

	if s.mounter != nil {
		if err := s.mounter.Mount(s.path.Child(name).String(), aspect); err != nil {
			return fmt.Errorf("init control aspect %q: %w", name, err)
		}
	}

	s.mu.Lock()
	s.aspects.Set(name, aspect)
	s.mu.Unlock()

	logger.Debug("Control aspect initialized.", "path", s.path.Child(name).String())
	return nil
}

// Aspect returns an initialized aspect.
func (s *Server) Aspect(name string) (Aspect, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.aspects.Get(name)
}

// Aspects returns the names of initialized aspects in init order.
func (s *Server) Aspects() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, s.aspects.Len())
	for el := s.aspects.Front(); el != nil; el = el.Next() {
		out = append(out, el.Key)
	}
	return out
}
