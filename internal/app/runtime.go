package app

import (
	"context"
	"fmt"

	"github.com/vk/naosoccer/internal/bootstrap"
	"github.com/vk/naosoccer/internal/bundle"
	"github.com/vk/naosoccer/internal/gamecontrol"
	"github.com/vk/naosoccer/internal/gamelog"
	"github.com/vk/naosoccer/internal/host"
	"github.com/vk/naosoccer/internal/hostpath"
	"github.com/vk/naosoccer/internal/monitor"
	"github.com/vk/naosoccer/internal/random"
	"github.com/vk/naosoccer/internal/scene"
	"github.com/vk/naosoccer/internal/script"
	"github.com/vk/naosoccer/internal/trainer"
)

// Runtime is the in-process simulator host the bootstrap sequence runs
// against. Services switched off in the config are neither created nor
// mounted.
type Runtime struct {
	tree *host.Tree

	content     *bundle.Loader
	scripts     *script.Runner
	random      *random.Server
	scenes      *scene.Manager
	gameControl *gamecontrol.Server
	monitor     *monitor.Server
	dispatcher  *monitor.Dispatcher
}

var (
	_ bootstrap.Host                 = (*Runtime)(nil)
	_ bootstrap.Seeder               = (*random.Server)(nil)
	_ bootstrap.SceneImporter        = (*scene.Manager)(nil)
	_ bootstrap.GameControl          = (*gamecontrol.Server)(nil)
	_ bootstrap.GameStateResetter    = (*gamecontrol.GameState)(nil)
	_ bootstrap.MonitorItemRegistrar = (*monitor.Server)(nil)
	_ bootstrap.CommandDispatcher    = (*monitor.Dispatcher)(nil)
	_ bootstrap.ScriptRunner         = (*script.Runner)(nil)
	_ bootstrap.Material             = (*bundle.Material)(nil)
	_ monitor.FrameSink              = (*gamelog.Store)(nil)
)

func servicePath(prefix, name string) (string, error) {
	p, err := hostpath.Join(prefix, name)
	if err != nil {
		return "", err
	}
	return p.String(), nil
}

// NewRuntime creates and mounts the host services cfg enables.
func NewRuntime(cfg *Config) (*Runtime, error) {
	r := &Runtime{
		tree:    host.NewTree(),
		content: bundle.NewLoader(cfg.BundlesPath),
		scripts: script.NewRunner(cfg.ScriptsPath),
	}

	mount := func(name string, v any) error {
		path, err := servicePath(cfg.ServerPath, name)
		if err != nil {
			return err
		}
		return r.tree.Mount(path, v)
	}

	if cfg.Enabled(ServiceRandom) {
		r.random = random.NewServer()
		if err := mount("random", r.random); err != nil {
			return nil, err
		}
	}

	if cfg.Enabled(ServiceScene) {
		r.scenes = scene.NewManager(r.content)
		if err := r.tree.Mount(cfg.ScenePath, r.scenes); err != nil {
			return nil, err
		}
	}

	gcPath, err := servicePath(cfg.ServerPath, "gamecontrol")
	if err != nil {
		return nil, err
	}
	if cfg.Enabled(ServiceGameControl) {
		r.gameControl, err = gamecontrol.NewServer(gcPath, r.tree)
		if err != nil {
			return nil, err
		}
		gamecontrol.RegisterCoreAspects(r.gameControl)
		if err := mount("gamecontrol", r.gameControl); err != nil {
			return nil, err
		}
	}

	if cfg.Enabled(ServiceCommands) {
		r.dispatcher = monitor.NewDispatcher()
		r.dispatcher.RegisterParserFactory(trainer.ParserName, trainer.NewParserFactory(r.tree, cfg.ServerPath))
	}

	if cfg.Enabled(ServiceMonitor) {
		r.monitor = monitor.NewServer(r.tree, r.dispatcher)
		monitor.RegisterCoreItems(r.monitor, gcPath)
		if err := mount("monitor", r.monitor); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Lookup implements host.Lookuper.
func (r *Runtime) Lookup(path string) (any, bool) {
	return r.tree.Lookup(path)
}

// Paths lists the mounted services.
func (r *Runtime) Paths() []string {
	return r.tree.Paths()
}

func (r *Runtime) Content() bootstrap.ContentLoader {
	return contentLoader{r.content}
}

func (r *Runtime) Commands() bootstrap.CommandDispatcher {
	if r.dispatcher == nil {
		return nil
	}
	return r.dispatcher
}

func (r *Runtime) Scripts() bootstrap.ScriptRunner {
	return r.scripts
}

// Monitor returns the monitor server, or nil when it is disabled.
func (r *Runtime) Monitor() *monitor.Server {
	return r.monitor
}

// Random returns the random source, or nil when it is disabled.
func (r *Runtime) Random() *random.Server {
	return r.random
}

// contentLoader narrows the bundle loader's concrete material type to the
// bootstrap interface.
type contentLoader struct {
	*bundle.Loader
}

func (c contentLoader) CreateMaterial(ctx context.Context, class, path string) (bootstrap.Material, error) {
	m, err := c.Loader.CreateMaterial(ctx, class, path)
	if err != nil {
		return nil, fmt.Errorf("content loader: %w", err)
	}
	return m, nil
}
