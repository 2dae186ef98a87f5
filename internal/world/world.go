// Package world отвечает за инициализацию и связывание компонентов потокового мира
package world

import (
	"github.com/annelo/go-terrain-stream/internal/chunkcache"
	"github.com/annelo/go-terrain-stream/internal/config"
	"github.com/annelo/go-terrain-stream/internal/grid"
	"github.com/annelo/go-terrain-stream/internal/heightfield"
	"github.com/annelo/go-terrain-stream/internal/persistence"
	"github.com/annelo/go-terrain-stream/internal/placement"
	"github.com/annelo/go-terrain-stream/internal/streaming"
	"github.com/annelo/go-terrain-stream/internal/worldinterfaces"
)

// World — явный контекст одного потокового мира, создаваемый вызывающим.
// Никакого состояния на уровне модуля нет, поэтому несколько независимых
// миров могут существовать и тестироваться изолированно.
type World struct {
	cfg config.Config

	Indexer   *grid.Indexer
	Heights   *heightfield.HeightField
	Placer    *placement.Placer
	Store     *persistence.Store
	Cache     *chunkcache.Cache
	Scheduler *streaming.Scheduler
}

// NewWorld создает и связывает все компоненты мира.
func NewWorld(cfg config.Config, composer worldinterfaces.WorldComposer) *World {
	indexer := grid.NewIndexer(cfg.GridScale)

	heights := heightfield.New(heightfield.Options{
		WorldSeed:         cfg.WorldSeed,
		TerrainSmoothness: cfg.TerrainSmoothness,
		HeightVariation:   cfg.HeightVariation,
		HeightStep:        cfg.HeightStep,
		OriginHeight:      cfg.OriginHeight,
	})

	placer := placement.New(placement.Options{
		GridScale:            cfg.GridScale,
		WorldSeed:            cfg.WorldSeed,
		MinPerChunk:          cfg.MinTreesPerChunk,
		MaxPerChunk:          cfg.MaxTreesPerChunk,
		MinObjectDistance:    cfg.MinObjectDistance,
		MaxPlacementAttempts: cfg.MaxPlacementAttempts,
	})

	store := persistence.NewStore(cfg.OriginHeight)
	cache := chunkcache.NewCache(heights, placer, store, composer)

	scheduler := streaming.NewScheduler(indexer, cache, streaming.Options{
		RenderDistance:             cfg.RenderDistance,
		Cooldown:                   cfg.Cooldown(),
		MaxMaterializationsPerTick: cfg.MaxMaterializationsPerTick,
		MaxEvictionsPerTick:        cfg.MaxEvictionsPerTick,
	})

	return &World{
		cfg:       cfg,
		Indexer:   indexer,
		Heights:   heights,
		Placer:    placer,
		Store:     store,
		Cache:     cache,
		Scheduler: scheduler,
	}
}

// Config возвращает конфигурацию мира.
func (w *World) Config() config.Config {
	return w.cfg
}

// SetAssets устанавливает каталог архетипов для построения чанков.
func (w *World) SetAssets(assets worldinterfaces.AssetCatalog) {
	w.Cache.SetAssets(assets)
}

// Tick выполняет один проход потоковой загрузки вокруг наблюдателя.
// Вызывается ведущим циклом с его собственной частотой; ядро не
// накладывает требований на тайминг сверх внутреннего охлаждения.
func (w *World) Tick(observerX, observerZ float64) {
	w.Scheduler.Tick(observerX, observerZ)
}

// Export возвращает копию множества сохраненных снимков для внешней
// сериализации.
func (w *World) Export() map[grid.ChunkKey]persistence.ChunkSnapshot {
	return w.Store.ExportAll()
}

// Import целиком заменяет множество сохраненных снимков.
func (w *World) Import(data map[grid.ChunkKey]persistence.ChunkSnapshot) {
	w.Store.ImportAll(data)
}

// SaveToFile сохраняет снимки мира в JSON-файл.
func (w *World) SaveToFile(path string) error {
	return w.Store.SaveToFile(path)
}

// LoadFromFile загружает снимки мира из JSON-файла.
func (w *World) LoadFromFile(path string) error {
	return w.Store.LoadFromFile(path)
}

// Stop выгружает все активные чанки, переводя их в снимки. Вызывается
// перед завершением работы, чтобы последующий SaveToFile зафиксировал
// полное состояние мира.
func (w *World) Stop() {
	for _, coord := range w.Cache.ActiveCoords() {
		// Проблемы композитора уже зарегистрированы кешем как предупреждения
		_ = w.Cache.Evict(coord)
	}
}

// GetStats возвращает объединенную статистику всех компонентов мира.
func (w *World) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"cache":     w.Cache.GetStats(),
		"store":     w.Store.GetStats(),
		"scheduler": w.Scheduler.GetStats(),
		"heights":   w.Heights.GetCacheStats(),
	}
}
