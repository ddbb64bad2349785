package bootstrap

import (
	"context"

	"github.com/vk/naosoccer/internal/host"
	"github.com/vk/naosoccer/internal/params"
)

// Material is a material created by the content loader.
type Material interface {
	SetDiffuse(r, g, b, a float64)
	SetAmbient(r, g, b, a float64)
	SetDiffuseTexture(path string) error
}

// ContentLoader imports content bundles and creates materials.
type ContentLoader interface {
	RunMaterials(ctx context.Context, name string) error
	ImportBundle(ctx context.Context, name string) error
	CreateMaterial(ctx context.Context, class, path string) (Material, error)
}

// Seeder seeds a random source. Seed 0 asks for a non-deterministic seed.
type Seeder interface {
	Seed(ctx context.Context, seed int64) error
}

// SceneImporter imports scene descriptions.
type SceneImporter interface {
	ImportScene(ctx context.Context, path string) error
}

// GameControl initialises control aspects.
type GameControl interface {
	InitControlAspect(ctx context.Context, name string, reg *params.Registry) error
}

// GameStateResetter is the part of the game state aspect reset at startup.
type GameStateResetter interface {
	SetTime(t float64)
	SetScores(left, right int)
}

// MonitorItemRegistrar registers monitor items.
type MonitorItemRegistrar interface {
	RegisterMonitorItem(ctx context.Context, name string) error
}

// CommandDispatcher installs monitor command parsers.
type CommandDispatcher interface {
	RegisterCommandParser(ctx context.Context, name string) error
}

// ScriptRunner executes named scripts against the registry.
type ScriptRunner interface {
	Run(ctx context.Context, name string, reg *params.Registry) error
}

// Host is the runtime the sequence runs in. Lookup resolves optional
// services; the accessors return the runtime's built-in facilities and may
// return nil when the runtime has none.
type Host interface {
	host.Lookuper
	Content() ContentLoader
	Commands() CommandDispatcher
	Scripts() ScriptRunner
}
