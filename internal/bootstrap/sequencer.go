package bootstrap

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vk/naosoccer/internal/ctxlog"
	"github.com/vk/naosoccer/internal/gamecontrol"
	"github.com/vk/naosoccer/internal/host"
	"github.com/vk/naosoccer/internal/hostpath"
	"github.com/vk/naosoccer/internal/monitor"
	"github.com/vk/naosoccer/internal/params"
	"github.com/vk/naosoccer/internal/soccer"
	"github.com/vk/naosoccer/internal/trainer"
)

const (
	// DefaultServerPath prefixes the server-side services.
	DefaultServerPath = "/sys/server/"
	// DefaultScenePath is where the scene manager is mounted.
	DefaultScenePath = "/usr/scene"
	// DefaultGameStatePath is where the game state aspect is reset.
	DefaultGameStatePath = "/sys/server/gamecontrol/GameStateAspect"
)

const (
	// SoccerBundle is the content bundle imported in every run.
	SoccerBundle = "soccer"
	// MaterialsBundle declares the materials of the internal monitor.
	MaterialsBundle = "rcs-materials-textures"
	// GrassClass is the material class of the field material.
	GrassClass = "kerosin/Material2DTexture"
	// GrassMaterial is the field material, relative to the server path.
	GrassMaterial = "material/matGrass"
	// GrassTexture is the diffuse texture of the field material.
	GrassTexture = "textures/rcs-naofield.png"
	// SoccerScene is the scene imported into the scene manager.
	SoccerScene = "rsg/agent/nao/soccer.rsg"
	// RobotTypesScript registers the heterogeneous robot types.
	RobotTypesScript = "naorobottypes"
)

var (
	// ControlAspects are initialised in this order.
	ControlAspects = []string{
		gamecontrol.GameStateAspectName,
		gamecontrol.BallStateAspectName,
		gamecontrol.SoccerRuleAspectName,
	}
	// MonitorItems are registered in this order.
	MonitorItems = []string{
		monitor.GameStateItemName,
		monitor.SoccerRuleItemName,
	}
)

// Config selects the optional parts of the sequence and where services live.
type Config struct {
	// InternalMonitor creates the grass material for the built-in renderer.
	InternalMonitor bool
	// ServerPath prefixes the random, gamecontrol, monitor and material paths.
	ServerPath string
	// ScenePath is where the scene manager is looked up.
	ScenePath string
	// GameStatePath is where the game state aspect is reset after the
	// control aspects are initialised.
	GameStatePath string
}

// DefaultConfig returns the paths the simulator server uses.
func DefaultConfig() Config {
	return Config{
		ServerPath:    DefaultServerPath,
		ScenePath:     DefaultScenePath,
		GameStatePath: DefaultGameStatePath,
	}
}

// Sequencer runs the startup sequence against a host.
type Sequencer struct {
	host     Host
	cfg      Config
	newRunID func() string
	runID    string
}

// New returns a sequencer. Empty paths in cfg take their defaults.
func New(h Host, cfg Config) *Sequencer {
	def := DefaultConfig()
	if cfg.ServerPath == "" {
		cfg.ServerPath = def.ServerPath
	}
	if cfg.ScenePath == "" {
		cfg.ScenePath = def.ScenePath
	}
	if cfg.GameStatePath == "" {
		cfg.GameStatePath = def.GameStatePath
	}
	return &Sequencer{host: h, cfg: cfg, newRunID: uuid.NewString}
}

// Config returns the effective configuration.
func (s *Sequencer) Config() Config { return s.cfg }

// RunID identifies the last Run.
func (s *Sequencer) RunID() string { return s.runID }

type step struct {
	name string
	fn   func(ctx context.Context, reg *params.Registry) error
}

func (s *Sequencer) steps() []step {
	return []step{
		{"internal monitor material", s.createGrassMaterial},
		{"import soccer bundle", s.importSoccerBundle},
		{"seed random source", s.seedRandom},
		{"register parameters", s.registerParameters},
		{"import scene", s.importScene},
		{"init game control", s.initGameControl},
		{"register monitor items", s.registerMonitorItems},
		{"register command parser", s.registerCommandParser},
		{"run robot type script", s.runRobotTypes},
	}
}

// Run executes every step in order and returns the frozen registry. On
// failure it returns the partially filled, unfrozen registry with a
// *StepError; nothing already done is rolled back.
func (s *Sequencer) Run(ctx context.Context) (*params.Registry, error) {
	s.runID = s.newRunID()
	ctx = ctxlog.With(ctx, "run_id", s.runID)
	logger := ctxlog.FromContext(ctx)
	logger.Info("▶️ Starting bootstrap", "server_path", s.cfg.ServerPath, "internal_monitor", s.cfg.InternalMonitor)

	reg := params.New()
	for i, st := range s.steps() {
		if err := ctx.Err(); err != nil {
			return reg, &StepError{Step: i + 1, Name: st.name, Err: err}
		}
		logger.Debug("Running bootstrap step.", "step", i+1, "name", st.name)
		if err := st.fn(ctx, reg); err != nil {
			logger.Error("Bootstrap step failed.", "step", i+1, "name", st.name, "error", err)
			return reg, &StepError{Step: i + 1, Name: st.name, Err: err}
		}
	}
	reg.Freeze()
	logger.Info("✅ Bootstrap finished.", "parameters", reg.Len())
	return reg, nil
}

func (s *Sequencer) serverService(name string) (string, error) {
	p, err := hostpath.Join(s.cfg.ServerPath, name)
	if err != nil {
		return "", err
	}
	return p.String(), nil
}

func (s *Sequencer) content() (ContentLoader, error) {
	c := s.host.Content()
	if c == nil {
		return nil, ErrNoContentLoader
	}
	return c, nil
}

// createGrassMaterial loads the monitor materials and sets up the field
// material. Only runs with the internal monitor.
func (s *Sequencer) createGrassMaterial(ctx context.Context, _ *params.Registry) error {
	if !s.cfg.InternalMonitor {
		ctxlog.FromContext(ctx).Debug("Internal monitor disabled, skipping material setup.")
		return nil
	}
	c, err := s.content()
	if err != nil {
		return err
	}
	if err := c.RunMaterials(ctx, MaterialsBundle); err != nil {
		return err
	}
	path, err := s.serverService(GrassMaterial)
	if err != nil {
		return err
	}
	mat, err := c.CreateMaterial(ctx, GrassClass, path)
	if err != nil {
		return err
	}
	mat.SetDiffuse(1.0, 1.0, 1.0, 1.0)
	mat.SetAmbient(0.5, 0.5, 0.5, 1.0)
	return mat.SetDiffuseTexture(GrassTexture)
}

// importSoccerBundle imports the soccer content. Failure is fatal.
func (s *Sequencer) importSoccerBundle(ctx context.Context, _ *params.Registry) error {
	c, err := s.content()
	if err != nil {
		return err
	}
	return c.ImportBundle(ctx, SoccerBundle)
}

// seedRandom seeds the random source with 0, a fresh seed per run.
func (s *Sequencer) seedRandom(ctx context.Context, _ *params.Registry) error {
	path, err := s.serverService("random")
	if err != nil {
		return err
	}
	seeder, ok := host.Resolve[Seeder](s.host, path)
	if !ok {
		ctxlog.FromContext(ctx).Debug("No random source, skipping seed.", "path", path)
		return nil
	}
	return seeder.Seed(ctx, 0)
}

// registerParameters registers the soccer parameter table.
func (s *Sequencer) registerParameters(ctx context.Context, reg *params.Registry) error {
	if err := soccer.RegisterDefaults(reg); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("Registered parameters.", "count", len(soccer.Defaults))
	return nil
}

// importScene imports the soccer scene into the scene manager.
func (s *Sequencer) importScene(ctx context.Context, _ *params.Registry) error {
	importer, ok := host.Resolve[SceneImporter](s.host, s.cfg.ScenePath)
	if !ok {
		ctxlog.FromContext(ctx).Debug("No scene server, skipping scene import.", "path", s.cfg.ScenePath)
		return nil
	}
	return importer.ImportScene(ctx, SoccerScene)
}

// initGameControl initialises the control aspects and resets the game
// state's time and scores.
func (s *Sequencer) initGameControl(ctx context.Context, reg *params.Registry) error {
	logger := ctxlog.FromContext(ctx)
	path, err := s.serverService("gamecontrol")
	if err != nil {
		return err
	}
	gc, ok := host.Resolve[GameControl](s.host, path)
	if !ok {
		logger.Debug("No game control server, skipping aspects.", "path", path)
		return nil
	}
	for _, name := range ControlAspects {
		if err := gc.InitControlAspect(ctx, name, reg); err != nil {
			return fmt.Errorf("init control aspect %s: %w", name, err)
		}
	}

	gs, ok := host.Resolve[GameStateResetter](s.host, s.cfg.GameStatePath)
	if !ok {
		logger.Debug("No game state aspect, skipping reset.", "path", s.cfg.GameStatePath)
		return nil
	}
	gs.SetTime(0)
	gs.SetScores(0, 0)
	return nil
}

// registerMonitorItems registers the game state and rule monitor items.
func (s *Sequencer) registerMonitorItems(ctx context.Context, _ *params.Registry) error {
	path, err := s.serverService("monitor")
	if err != nil {
		return err
	}
	m, ok := host.Resolve[MonitorItemRegistrar](s.host, path)
	if !ok {
		ctxlog.FromContext(ctx).Debug("No monitor server, skipping monitor items.", "path", path)
		return nil
	}
	for _, name := range MonitorItems {
		if err := m.RegisterMonitorItem(ctx, name); err != nil {
			return fmt.Errorf("register monitor item %s: %w", name, err)
		}
	}
	return nil
}

// registerCommandParser installs the trainer command parser. Unlike the
// other services the dispatcher is required.
func (s *Sequencer) registerCommandParser(ctx context.Context, _ *params.Registry) error {
	d := s.host.Commands()
	if d == nil {
		return ErrNoCommandDispatcher
	}
	return d.RegisterCommandParser(ctx, trainer.ParserName)
}

// runRobotTypes runs the robot type script against the registry.
func (s *Sequencer) runRobotTypes(ctx context.Context, reg *params.Registry) error {
	r := s.host.Scripts()
	if r == nil {
		return ErrNoScriptRunner
	}
	return r.Run(ctx, RobotTypesScript, reg)
}
