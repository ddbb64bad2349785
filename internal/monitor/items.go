package monitor

import (
	"context"

	"github.com/vk/naosoccer/internal/host"
	"github.com/vk/naosoccer/internal/hostpath"
)

const (
	GameStateItemName  = "GameStateItem"
	SoccerRuleItemName = "SoccerRuleItem"
)

// Snapshotter is implemented by host services that can describe their
// state to monitors.
type Snapshotter interface {
	Snapshot() map[string]any
}

// aspectItem snapshots a control aspect resolved by path on every frame, so
// it keeps working when the aspect is mounted after the item is registered.
type aspectItem struct {
	name   string
	path   string
	lookup host.Lookuper
}

func (i *aspectItem) Name() string { return i.name }

func (i *aspectItem) Snapshot(ctx context.Context) (map[string]any, error) {
	s, ok := host.Resolve[Snapshotter](i.lookup, i.path)
	if !ok {
		return map[string]any{"available": false}, nil
	}
	return s.Snapshot(), nil
}

// AspectItemFactory returns an item type that reports the aspect mounted at
// gameControlPath/aspect.
func AspectItemFactory(name, gameControlPath, aspect string) ItemFactory {
	return func(env ItemEnv) (Item, error) {
		p, err := hostpath.Join(gameControlPath, aspect)
		if err != nil {
			return nil, err
		}
		return &aspectItem{name: name, path: p.String(), lookup: env.Lookup}, nil
	}
}

// RegisterCoreItems registers the soccer monitor items.
func RegisterCoreItems(s *Server, gameControlPath string) {
	s.RegisterItemFactory(GameStateItemName, AspectItemFactory(GameStateItemName, gameControlPath, "GameStateAspect"))
	s.RegisterItemFactory(SoccerRuleItemName, AspectItemFactory(SoccerRuleItemName, gameControlPath, "SoccerRuleAspect"))
}
