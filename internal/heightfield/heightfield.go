// Package heightfield отвечает за детерминированную генерацию высоты рельефа
package heightfield

import (
	"math"
	"sync"

	"github.com/aquilax/go-perlin"

	"github.com/annelo/go-terrain-stream/internal/grid"
)

// Параметры для perlin.NewPerlin:
// alpha - персистентность (влияет на детализацию)
// beta - лакунарность (влияет на частоту деталей)
// n - количество октав (слоев шума)
const (
	perlinAlpha   = 2.0
	perlinBeta    = 2.0
	perlinOctaves = int32(3)

	// Максимальный размер кеша высот
	maxHeightCacheSize = 100000
)

// HeightField — чистая детерминированная функция высоты рельефа.
// Одинаковые координаты всегда дают одинаковую высоту независимо от
// порядка вызовов и предыдущего состояния: кеш хранит точные значения
// float64 и служит только для ускорения повторных запросов.
type HeightField struct {
	noise *perlin.Perlin

	smoothness float64 // Делитель координат (чем больше, тем плавнее рельеф)
	variation  float64 // Масштаб амплитуды высоты
	step       float64 // Шаг ступеней высоты
	origin     float64 // Базовая высота мира
	seed       int64   // Сид мира, смещающий домен шума

	// Кеш вычисленных высот
	cache     map[grid.ChunkKey]float64
	cacheMu   sync.RWMutex
	cacheHits int
	cacheMiss int
}

// Options задает параметры поля высот.
type Options struct {
	WorldSeed         int64
	TerrainSmoothness float64
	HeightVariation   float64
	HeightStep        float64
	OriginHeight      float64
}

// New создает новое поле высот с заданными параметрами.
func New(opts Options) *HeightField {
	return &HeightField{
		noise:      perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, opts.WorldSeed),
		smoothness: opts.TerrainSmoothness,
		variation:  opts.HeightVariation,
		step:       opts.HeightStep,
		origin:     opts.OriginHeight,
		seed:       opts.WorldSeed,
		cache:      make(map[grid.ChunkKey]float64),
	}
}

// ComputeHeight возвращает ступенчатую высоту рельефа для координаты чанка.
// Значение шума в диапазоне [-1, 1] масштабируется амплитудой, после чего
// результат прижимается к ближайшему нижнему кратному шага ступени
// относительно базовой высоты.
func (hf *HeightField) ComputeHeight(coord grid.ChunkCoord) float64 {
	key := coord.Key()

	hf.cacheMu.RLock()
	cached, exists := hf.cache[key]
	hf.cacheMu.RUnlock()

	if exists {
		hf.cacheMu.Lock()
		hf.cacheHits++
		hf.cacheMu.Unlock()
		return cached
	}

	// Смещаем домен шума сидом мира и сглаживаем координаты
	nx := float64(coord.X)/hf.smoothness + float64(hf.seed)
	nz := float64(coord.Z)/hf.smoothness + float64(hf.seed)

	raw := hf.noise.Noise2D(nx, nz) * hf.variation

	// Прижимаем к нижнему кратному шага ступени
	height := hf.origin + math.Floor(raw/hf.step)*hf.step

	hf.cacheMu.Lock()
	hf.cacheMiss++
	// Ограничиваем размер кеша: при переполнении сбрасываем целиком
	if len(hf.cache) >= maxHeightCacheSize {
		hf.cache = make(map[grid.ChunkKey]float64)
	}
	hf.cache[key] = height
	hf.cacheMu.Unlock()

	return height
}

// Origin возвращает базовую высоту мира.
func (hf *HeightField) Origin() float64 {
	return hf.origin
}

// Step возвращает шаг ступеней высоты.
func (hf *HeightField) Step() float64 {
	return hf.step
}

// ClearCache очищает кеш высот.
func (hf *HeightField) ClearCache() {
	hf.cacheMu.Lock()
	defer hf.cacheMu.Unlock()

	hf.cache = make(map[grid.ChunkKey]float64)
	hf.cacheHits = 0
	hf.cacheMiss = 0
}

// GetCacheStats возвращает статистику использования кеша высот.
func (hf *HeightField) GetCacheStats() map[string]interface{} {
	hf.cacheMu.RLock()
	defer hf.cacheMu.RUnlock()

	total := hf.cacheHits + hf.cacheMiss
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(hf.cacheHits) / float64(total)
	}

	return map[string]interface{}{
		"size":     len(hf.cache),
		"hits":     hf.cacheHits,
		"misses":   hf.cacheMiss,
		"hit_rate": hitRate,
	}
}
