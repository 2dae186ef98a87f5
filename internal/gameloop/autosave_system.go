package gameloop

import (
	"context"
	"errors"
	"log"
	"time"
)

// AutosaveSystem периодически сохраняет снимки мира на диск.
type AutosaveSystem struct {
	deps     Dependencies
	path     string
	interval time.Duration
	elapsed  time.Duration
}

// NewAutosaveSystem создает систему автосохранения с заданным путем
// к файлу и интервалом.
func NewAutosaveSystem(path string, interval time.Duration) *AutosaveSystem {
	return &AutosaveSystem{path: path, interval: interval}
}

func (a *AutosaveSystem) Name() string { return "autosave" }

func (a *AutosaveSystem) Init(deps Dependencies) error {
	if deps.World == nil {
		return errors.New("системе автосохранения нужен мир")
	}
	if a.path == "" {
		return errors.New("путь автосохранения не задан")
	}
	if a.interval <= 0 {
		return errors.New("интервал автосохранения должен быть положительным")
	}
	a.deps = deps
	return nil
}

func (a *AutosaveSystem) Tick(ctx context.Context, dt time.Duration) {
	a.elapsed += dt
	if a.elapsed < a.interval {
		return
	}
	a.elapsed = 0

	if err := a.deps.World.SaveToFile(a.path); err != nil {
		log.Printf("[Autosave] ошибка при сохранении мира в %s: %v", a.path, err)
		return
	}
	log.Printf("[Autosave] мир сохранен в %s", a.path)
}
