package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/vk/naosoccer/internal/ctxlog"
	"github.com/vk/naosoccer/internal/host"
)

// ErrUnknownItem is returned for item names with no registered factory.
var ErrUnknownItem = errors.New("unknown monitor item")

// Item produces state snapshots for monitors.
type Item interface {
	Name() string
	Snapshot(ctx context.Context) (map[string]any, error)
}

// ItemEnv is handed to item factories.
type ItemEnv struct {
	Lookup host.Lookuper
}

// ItemFactory creates a monitor item.
type ItemFactory func(env ItemEnv) (Item, error)

// FrameSink receives every frame the server streams.
type FrameSink interface {
	Record(ctx context.Context, f *Frame) error
}

// ItemSnapshot is one item's contribution to a frame.
type ItemSnapshot struct {
	Name string         `json:"name"`
	Data map[string]any `json:"data"`
}

// Frame is a snapshot of all registered items.
type Frame struct {
	Seq   uint64         `json:"seq"`
	At    time.Time      `json:"at"`
	Items []ItemSnapshot `json:"items"`
}

// Payload returns the frame as plain maps for transport encoders.
func (f *Frame) Payload() map[string]any {
	items := make([]any, 0, len(f.Items))
	for _, it := range f.Items {
		items = append(items, map[string]any{"name": it.Name, "data": it.Data})
	}
	return map[string]any{
		"seq":   f.Seq,
		"at":    f.At.UnixMilli(),
		"items": items,
	}
}

// Server owns the registered monitor items.
type Server struct {
	env        ItemEnv
	dispatcher *Dispatcher
	sink       FrameSink
	now        func() time.Time
	seq        atomic.Uint64

	mu        sync.RWMutex
	factories map[string]ItemFactory
	items     *orderedmap.OrderedMap[string, Item]
}

// NewServer creates a monitor server. dispatcher may be nil, in which case
// served clients cannot send commands.
func NewServer(lookup host.Lookuper, dispatcher *Dispatcher) *Server {
	return &Server{
		env:        ItemEnv{Lookup: lookup},
		dispatcher: dispatcher,
		now:        time.Now,
		factories:  make(map[string]ItemFactory),
		items:      orderedmap.NewOrderedMap[string, Item](),
	}
}

// SetSink installs a frame sink; nil removes it.
func (s *Server) SetSink(sink FrameSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink = sink
}

// RegisterItemFactory registers an item type. Duplicate names panic.
func (s *Server) RegisterItemFactory(name string, f ItemFactory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.factories[name]; exists {
		panic(fmt.Sprintf("monitor item factory with name '%s' already registered", name))
	}
	slog.Debug("Registering monitor item factory.", "name", name)
	s.factories[name] = f
}

// RegisterMonitorItem instantiates the named item and adds it to frames.
func (s *Server) RegisterMonitorItem(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	factory, ok := s.factories[name]
	if !ok {
		return fmt.Errorf("register monitor item %q: %w", name, ErrUnknownItem)
	}
	if _, exists := s.items.Get(name); exists {
		return fmt.Errorf("register monitor item %q: already registered", name)
	}
	item, err := factory(s.env)
	if err != nil {
		return fmt.Errorf("register monitor item %q: %w", name, err)
	}
	s.items.Set(name, item)

	ctxlog.FromContext(ctx).Debug("Monitor item registered.", "item", name)
	return nil
}

// Items returns the registered item names in registration order.
func (s *Server) Items() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, s.items.Len())
	for el := s.items.Front(); el != nil; el = el.Next() {
		out = append(out, el.Key)
	}
	return out
}

// Frame collects a snapshot from every item, in registration order.
func (s *Server) Frame(ctx context.Context) (*Frame, error) {
	s.mu.RLock()
	items := make([]Item, 0, s.items.Len())
	for el := s.items.Front(); el != nil; el = el.Next() {
		items = append(items, el.Value)
	}
	s.mu.RUnlock()

	f := &Frame{Seq: s.seq.Add(1), At: s.now()}
	for _, it := range items {
		data, err := it.Snapshot(ctx)
		if err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", it.Name(), err)
		}
		f.Items = append(f.Items, ItemSnapshot{Name: it.Name(), Data: data})
	}
	return f, nil
}

// Tick builds a frame and hands it to the sink, if any.
func (s *Server) Tick(ctx context.Context) (*Frame, error) {
	f, err := s.Frame(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	sink := s.sink
	s.mu.RUnlock()
	if sink != nil {
		if err := sink.Record(ctx, f); err != nil {
			return f, fmt.Errorf("record frame %d: %w", f.Seq, err)
		}
	}
	return f, nil
}
