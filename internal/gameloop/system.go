package gameloop

import (
	"context"
	"time"

	"github.com/annelo/go-terrain-stream/internal/world"
)

// System описывает логику, выполняемую каждый тик цикла.
type System interface {
	// Init вызывается один раз перед запуском цикла.
	Init(deps Dependencies) error
	// Tick вызывается каждый тик.
	Tick(ctx context.Context, dt time.Duration)
	// Name возвращает читаемое имя системы.
	Name() string
}

// Dependencies передаются системам при инициализации.
type Dependencies struct {
	World *world.World
	// Observer возвращает текущую позицию точки наблюдения.
	Observer func() (x, z float64)
}
