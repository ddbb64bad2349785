// Package script runs the Lua configuration scripts the simulator loads after
// bootstrap. Scripts see the parameter registry through a small set of
// globals:
//
//	createVariable(namespace, name, value)
//	addSoccerVar(name, value)
//	getSoccerVar(name)
//	run(scriptName)
//	log(message)
package script

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/Shopify/go-lua"
	"github.com/vk/naosoccer/internal/ctxlog"
	"github.com/vk/naosoccer/internal/fsutil"
	"github.com/vk/naosoccer/internal/params"
	"github.com/vk/naosoccer/internal/soccer"
)

const (
	// Extension is appended to script names that lack it.
	Extension = ".lua"
	// MaxDepth bounds nested run() calls.
	MaxDepth = 8
)

var (
	ErrUnknownScript = errors.New("unknown script")
	ErrTooDeep       = errors.New("script nesting too deep")
)

//go:embed scripts/*.lua
var embedded embed.FS

// EmbeddedFS returns the scripts compiled into the binary.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embedded, "scripts")
	if err != nil {
		panic(err)
	}
	return sub
}

// Runner loads and executes scripts by name.
type Runner struct {
	fsys fs.FS
}

// NewRunner returns a runner reading scripts from dir, falling back to the
// embedded scripts. An empty dir uses only the embedded ones.
func NewRunner(dir string) *Runner {
	if dir == "" {
		return NewRunnerFS(EmbeddedFS())
	}
	return NewRunnerFS(fsutil.Overlay{Primary: os.DirFS(dir), Fallback: EmbeddedFS()})
}

// NewRunnerFS returns a runner reading scripts from fsys.
func NewRunnerFS(fsys fs.FS) *Runner {
	return &Runner{fsys: fsys}
}

// Available lists the scripts the runner can find, without extension.
func (r *Runner) Available() ([]string, error) {
	files, err := fsutil.FindFilesByExtension(r.fsys, ".", Extension)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = strings.TrimSuffix(f, Extension)
	}
	return out, nil
}

func fileName(name string) (string, error) {
	if !strings.HasSuffix(name, Extension) {
		name += Extension
	}
	if !fs.ValidPath(name) {
		return "", fmt.Errorf("%w: invalid name %q", ErrUnknownScript, name)
	}
	return name, nil
}

func (r *Runner) source(name string) (string, string, error) {
	file, err := fileName(name)
	if err != nil {
		return "", "", err
	}
	b, err := fs.ReadFile(r.fsys, file)
	if errors.Is(err, fs.ErrNotExist) {
		return "", "", fmt.Errorf("%w: %s", ErrUnknownScript, name)
	}
	if err != nil {
		return "", "", fmt.Errorf("read script %s: %w", file, err)
	}
	return file, string(b), nil
}

// Run executes the named script against reg. A registry error raised by a
// binding is returned as is, so callers can match it with errors.As.
func (r *Runner) Run(ctx context.Context, name string, reg *params.Registry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	file, src, err := r.source(name)
	if err != nil {
		return err
	}

	logger := ctxlog.FromContext(ctx).With("script", name)
	logger.Debug("Running script.", "file", file)

	s := &session{ctx: ctx, runner: r, reg: reg, logger: logger}
	l := lua.NewState()
	lua.OpenLibraries(l)
	s.install(l)

	if err := lua.LoadBuffer(l, src, "@"+file, "t"); err != nil {
		return fmt.Errorf("load script %s: %w", name, err)
	}
	if err := l.ProtectedCall(0, 0, 0); err != nil {
		if s.err != nil {
			return fmt.Errorf("script %s: %w", name, s.err)
		}
		return fmt.Errorf("script %s: %w", name, err)
	}
	logger.Debug("Script finished.", "registered", s.registered)
	return nil
}

// session is the state shared by the bindings of one Run.
type session struct {
	ctx        context.Context
	runner     *Runner
	reg        *params.Registry
	logger     *slog.Logger
	depth      int
	registered int
	err        error
}

func (s *session) install(l *lua.State) {
	for _, f := range []lua.RegistryFunction{
		{Name: "createVariable", Function: s.createVariable},
		{Name: "addSoccerVar", Function: s.addSoccerVar},
		{Name: "getSoccerVar", Function: s.getSoccerVar},
		{Name: "run", Function: s.run},
		{Name: "log", Function: s.log},
	} {
		l.Register(f.Name, f.Function)
	}
}

// fail records the first Go error and raises it in Lua. It does not return.
func (s *session) fail(l *lua.State, err error) {
	if s.err == nil {
		s.err = err
	}
	lua.Errorf(l, "%s", err.Error())
}

func toValue(l *lua.State, index int) (params.Value, bool) {
	switch l.TypeOf(index) {
	case lua.TypeNumber:
		n, _ := l.ToNumber(index)
		return params.Number(n), true
	case lua.TypeBoolean:
		return params.Bool(l.ToBoolean(index)), true
	case lua.TypeString:
		str, _ := l.ToString(index)
		return params.String(str), true
	default:
		return params.Value{}, false
	}
}

func pushValue(l *lua.State, v params.Value) {
	switch v.Kind() {
	case params.KindNumber:
		f, _ := v.AsFloat()
		l.PushNumber(f)
	case params.KindBool:
		b, _ := v.AsBool()
		l.PushBoolean(b)
	case params.KindString:
		str, _ := v.AsString()
		l.PushString(str)
	default:
		l.PushNil()
	}
}

func (s *session) register(l *lua.State, namespace, name string, valueIndex int) int {
	v, ok := toValue(l, valueIndex)
	if !ok {
		lua.ArgumentError(l, valueIndex, "number, boolean or string expected")
		return 0
	}
	if v.Kind() == params.KindInvalid {
		// NaN or an infinity
		s.fail(l, fmt.Errorf("parameter %s.%s: %w", namespace, name, params.ErrNotFinite))
		return 0
	}
	if err := s.reg.Register(namespace, name, v); err != nil {
		s.fail(l, err)
		return 0
	}
	s.registered++
	return 0
}

func (s *session) createVariable(l *lua.State) int {
	namespace := lua.CheckString(l, 1)
	name := lua.CheckString(l, 2)
	return s.register(l, namespace, name, 3)
}

func (s *session) addSoccerVar(l *lua.State) int {
	name := lua.CheckString(l, 1)
	return s.register(l, soccer.Namespace, name, 2)
}

func (s *session) getSoccerVar(l *lua.State) int {
	name := lua.CheckString(l, 1)
	v, ok := s.reg.Lookup(soccer.Namespace, name)
	if !ok {
		s.fail(l, fmt.Errorf("%w: %s.%s", params.ErrNotFound, soccer.Namespace, name))
		return 0
	}
	pushValue(l, v)
	return 1
}

func (s *session) run(l *lua.State) int {
	name := lua.CheckString(l, 1)
	if err := s.ctx.Err(); err != nil {
		s.fail(l, err)
		return 0
	}
	if s.depth >= MaxDepth {
		s.fail(l, fmt.Errorf("%w: %s at depth %d", ErrTooDeep, name, s.depth))
		return 0
	}
	file, src, err := s.runner.source(name)
	if err != nil {
		s.fail(l, err)
		return 0
	}
	if err := lua.LoadBuffer(l, src, "@"+file, "t"); err != nil {
		s.fail(l, fmt.Errorf("load script %s: %w", name, err))
		return 0
	}
	s.logger.Debug("Running nested script.", "nested", name, "depth", s.depth+1)
	s.depth++
	defer func() { s.depth-- }()
	l.Call(0, 0)
	return 0
}

func (s *session) log(l *lua.State) int {
	msg := lua.CheckString(l, 1)
	s.logger.Info(msg)
	return 0
}
