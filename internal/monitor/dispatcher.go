package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/vk/naosoccer/internal/ctxlog"
)

var (
	// ErrUnknownParser is returned for parser names with no registered factory.
	ErrUnknownParser = errors.New("unknown command parser")
	// ErrNoParsers is returned by Dispatch when no parser is installed.
	ErrNoParsers = errors.New("no command parser installed")
)

// CommandParser interprets and applies a monitor command.
type CommandParser interface {
	Name() string
	ParseCommand(ctx context.Context, cmd string) error
}

// ParserFactory creates a command parser.
type ParserFactory func() (CommandParser, error)

// Dispatcher routes monitor commands to the installed command parsers.
type Dispatcher struct {
	mu        sync.RWMutex
	factories map[string]ParserFactory
	parsers   *orderedmap.OrderedMap[string, CommandParser]
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		factories: make(map[string]ParserFactory),
		parsers:   orderedmap.NewOrderedMap[string, CommandParser](),
	}
}

// RegisterParserFactory registers a parser type. Duplicate names panic.
func (d *Dispatcher) RegisterParserFactory(name string, f ParserFactory) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.factories[name]; exists {
		panic(fmt.Sprintf("command parser factory with name '%s' already registered", name))
	}
	slog.Debug("Registering command parser factory.", "name", name)
	d.factories[name] = f
}

// RegisterCommandParser installs the named parser.
func (d *Dispatcher) RegisterCommandParser(ctx context.Context, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	factory, ok := d.factories[name]
	if !ok {
		return fmt.Errorf("register command parser %q: %w", name, ErrUnknownParser)
	}
	if _, exists := d.parsers.Get(name); exists {
		return fmt.Errorf("register command parser %q: already registered", name)
	}
	p, err := factory()
	if err != nil {
		return fmt.Errorf("register command parser %q: %w", name, err)
	}
	d.parsers.Set(name, p)

	ctxlog.FromContext(ctx).Debug("Command parser registered.", "parser", name)
	return nil
}

// Parsers returns installed parser names in registration order.
func (d *Dispatcher) Parsers() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, d.parsers.Len())
	for el := d.parsers.Front(); el != nil; el = el.Next() {
		out = append(out, el.Key)
	}
	return out
}

// Dispatch hands cmd to every installed parser and joins their errors.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd string) error {
	d.mu.RLock()
	parsers := make([]CommandParser, 0, d.parsers.Len())
	for el := d.parsers.Front(); el != nil; el = el.Next() {
		parsers = append(parsers, el.Value)
	}
	d.mu.RUnlock()

	if len(parsers) == 0 {
		return ErrNoParsers
	}

	logger := ctxlog.FromContext(ctx)
	var errs []error
	for _, p := range parsers {
		if err := p.ParseCommand(ctx, cmd); err != nil {
			logger.Debug("Command rejected.", "parser", p.Name(), "command", cmd, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		}
	}
	return errors.Join(errs...)
}
