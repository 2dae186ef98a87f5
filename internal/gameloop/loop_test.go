package gameloop_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annelo/go-terrain-stream/internal/compose"
	"github.com/annelo/go-terrain-stream/internal/config"
	"github.com/annelo/go-terrain-stream/internal/gameloop"
	"github.com/annelo/go-terrain-stream/internal/world"
	"github.com/annelo/go-terrain-stream/internal/worldinterfaces"
)

func newLoopWorld() *world.World {
	cfg := config.Default()
	cfg.CooldownSeconds = 0
	cfg.RenderDistance = 1

	w := world.NewWorld(cfg, compose.NewRecordingComposer())
	w.SetAssets(worldinterfaces.AssetCatalog{
		Floor:   "floor",
		Objects: []worldinterfaces.Archetype{"pine"},
	})
	return w
}

func TestLoop_StreamsAndAutosaves(t *testing.T) {
	savePath := filepath.Join(t.TempDir(), "world.json")
	w := newLoopWorld()

	deps := gameloop.Dependencies{
		World:    w,
		Observer: func() (float64, float64) { return 0, 0 },
	}
	loop, err := gameloop.NewLoop(time.Millisecond, deps,
		gameloop.NewStreamingSystem(),
		gameloop.NewAutosaveSystem(savePath, 5*time.Millisecond),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	loop.Run(ctx)

	// Система потоковой загрузки подтянула чанки вокруг наблюдателя
	assert.Equal(t, 3, w.Cache.ActiveCount())

	// Автосохранение успело записать файл
	_, err = os.Stat(savePath)
	require.NoError(t, err)
}

func TestNewLoop_InitFailureIsFatal(t *testing.T) {
	// Система потоковой загрузки без мира и наблюдателя непригодна
	_, err := gameloop.NewLoop(time.Millisecond, gameloop.Dependencies{},
		gameloop.NewStreamingSystem())
	require.Error(t, err)
}

func TestNewLoop_AutosaveRequiresPath(t *testing.T) {
	deps := gameloop.Dependencies{World: newLoopWorld()}

	_, err := gameloop.NewLoop(time.Millisecond, deps,
		gameloop.NewAutosaveSystem("", time.Second))
	require.Error(t, err)

	_, err = gameloop.NewLoop(time.Millisecond, deps,
		gameloop.NewAutosaveSystem("world.json", 0))
	require.Error(t, err)
}

// brokenSystem всегда паникует в Tick.
type brokenSystem struct{}

func (b *brokenSystem) Name() string                        { return "broken" }
func (b *brokenSystem) Init(gameloop.Dependencies) error    { return nil }
func (b *brokenSystem) Tick(context.Context, time.Duration) { panic("сломанная система") }

func TestLoop_PanicInOneSystemDoesNotStopOthers(t *testing.T) {
	w := newLoopWorld()

	deps := gameloop.Dependencies{
		World:    w,
		Observer: func() (float64, float64) { return 0, 0 },
	}
	loop, err := gameloop.NewLoop(time.Millisecond, deps,
		&brokenSystem{},
		gameloop.NewStreamingSystem(),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	loop.Run(ctx)

	// Паники сломанной системы не помешали потоковой загрузке
	assert.Equal(t, 3, w.Cache.ActiveCount())
}
