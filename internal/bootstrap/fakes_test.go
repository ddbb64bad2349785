package bootstrap

import (
	"context"
	"fmt"

	"github.com/vk/naosoccer/internal/host"
	"github.com/vk/naosoccer/internal/params"
)

// calls records the service calls of one run, in order.
type calls []string

func (c *calls) add(format string, args ...any) {
	*c = append(*c, fmt.Sprintf(format, args...))
}

type fakeMaterial struct {
	log *calls
}

func (m *fakeMaterial) SetDiffuse(r, g, b, a float64) { m.log.add("SetDiffuse(%g,%g,%g,%g)", r, g, b, a) }
func (m *fakeMaterial) SetAmbient(r, g, b, a float64) { m.log.add("SetAmbient(%g,%g,%g,%g)", r, g, b, a) }
func (m *fakeMaterial) SetDiffuseTexture(path string) error {
	m.log.add("SetDiffuseTexture(%s)", path)
	return nil
}

type fakeContent struct {
	log       *calls
	importErr error
}

func (c *fakeContent) RunMaterials(_ context.Context, name string) error {
	c.log.add("RunMaterials(%s)", name)
	return nil
}

func (c *fakeContent) ImportBundle(_ context.Context, name string) error {
	c.log.add("ImportBundle(%s)", name)
	return c.importErr
}

func (c *fakeContent) CreateMaterial(_ context.Context, class, path string) (Material, error) {
	c.log.add("CreateMaterial(%s,%s)", class, path)
	return &fakeMaterial{log: c.log}, nil
}

type fakeSeeder struct{ log *calls }

func (s *fakeSeeder) Seed(_ context.Context, seed int64) error {
	s.log.add("Seed(%d)", seed)
	return nil
}

type fakeScene struct {
	log *calls
	err error
}

func (s *fakeScene) ImportScene(_ context.Context, path string) error {
	s.log.add("ImportScene(%s)", path)
	return s.err
}

type fakeGameControl struct{ log *calls }

func (g *fakeGameControl) InitControlAspect(_ context.Context, name string, reg *params.Registry) error {
	if reg == nil || reg.Len() == 0 {
		return fmt.Errorf("aspect %s got an empty registry", name)
	}
	g.log.add("InitControlAspect(%s)", name)
	return nil
}

type fakeGameState struct{ log *calls }

func (g *fakeGameState) SetTime(t float64)         { g.log.add("SetTime(%g)", t) }
func (g *fakeGameState) SetScores(left, right int) { g.log.add("SetScores(%d,%d)", left, right) }

type fakeMonitor struct{ log *calls }

func (m *fakeMonitor) RegisterMonitorItem(_ context.Context, name string) error {
	m.log.add("RegisterMonitorItem(%s)", name)
	return nil
}

type fakeDispatcher struct {
	log *calls
	err error
}

func (d *fakeDispatcher) RegisterCommandParser(_ context.Context, name string) error {
	d.log.add("RegisterCommandParser(%s)", name)
	return d.err
}

type fakeScripts struct {
	log    *calls
	script func(reg *params.Registry) error
}

func (s *fakeScripts) Run(_ context.Context, name string, reg *params.Registry) error {
	s.log.add("Run(%s)", name)
	if s.script != nil {
		return s.script(reg)
	}
	return nil
}

type fakeHost struct {
	*host.Tree
	content  ContentLoader
	commands CommandDispatcher
	scripts  ScriptRunner
}

func (h *fakeHost) Content() ContentLoader      { return h.content }
func (h *fakeHost) Commands() CommandDispatcher { return h.commands }
func (h *fakeHost) Scripts() ScriptRunner       { return h.scripts }

// services are the optional services newHost mounts, by path.
type services map[string]any

func newHost(log *calls, mounted services) *fakeHost {
	tree := host.NewTree()
	for path, svc := range mounted {
		if err := tree.Mount(path, svc); err != nil {
			panic(err)
		}
	}
	return &fakeHost{
		Tree:     tree,
		content:  &fakeContent{log: log},
		commands: &fakeDispatcher{log: log},
		scripts:  &fakeScripts{log: log},
	}
}

func allServices(log *calls) services {
	return services{
		"/sys/server/random":                      &fakeSeeder{log: log},
		"/usr/scene":                              &fakeScene{log: log},
		"/sys/server/gamecontrol":                 &fakeGameControl{log: log},
		"/sys/server/gamecontrol/GameStateAspect": &fakeGameState{log: log},
		"/sys/server/monitor":                     &fakeMonitor{log: log},
	}
}
