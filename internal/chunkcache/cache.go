// Package chunkcache управляет активными чанками и их жизненным циклом
package chunkcache

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/annelo/go-terrain-stream/internal/grid"
	"github.com/annelo/go-terrain-stream/internal/heightfield"
	"github.com/annelo/go-terrain-stream/internal/persistence"
	"github.com/annelo/go-terrain-stream/internal/placement"
	"github.com/annelo/go-terrain-stream/internal/worldinterfaces"
)

// Chunk представляет активный чанк мира. Дескриптор материализованного
// представления принадлежит композитору, чанк хранит только ссылку.
type Chunk struct {
	Coord      grid.ChunkCoord
	Height     float64
	Placements []placement.Placement
	Handle     worldinterfaces.Handle
}

// Cache владеет множеством активных чанков (ActiveSet) и связывает
// генерацию новых чанков (HeightField + Placer) с возрождением
// сохраненных (Store). Жизненный цикл каждого ключа строго
// Unloaded -> Active -> Unloaded: повторная загрузка всегда начинается
// из состояния Unloaded.
type Cache struct {
	mu     sync.RWMutex
	active map[grid.ChunkKey]*Chunk

	heights  *heightfield.HeightField
	placer   *placement.Placer
	store    *persistence.Store
	composer worldinterfaces.WorldComposer

	assets    worldinterfaces.AssetCatalog
	assetsSet bool

	// Счетчики для статистики
	generated int
	revived   int
	evicted   int
	warnings  int
}

// NewCache создает новый кеш активных чанков.
func NewCache(heights *heightfield.HeightField, placer *placement.Placer, store *persistence.Store, composer worldinterfaces.WorldComposer) *Cache {
	return &Cache{
		active:   make(map[grid.ChunkKey]*Chunk),
		heights:  heights,
		placer:   placer,
		store:    store,
		composer: composer,
	}
}

// SetAssets устанавливает каталог архетипов для построения чанков.
func (c *Cache) SetAssets(assets worldinterfaces.AssetCatalog) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.assets = assets
	c.assetsSet = true
}

// Materialize загружает чанк по координате. Если ключ уже активен,
// операция не делает ничего (не ошибка). Если в хранилище есть снимок,
// чанк строится из него без повторной генерации, что гарантирует точное
// воспроизведение прежней раскладки объектов. Иначе высота и смещения
// генерируются заново. Ошибка композитора оставляет чанк в состоянии
// Unloaded, он будет повторен на одном из следующих тиков.
func (c *Cache) Materialize(coord grid.ChunkCoord) error {
	key := coord.Key()

	c.mu.RLock()
	_, alreadyActive := c.active[key]
	assets := c.assets
	assetsSet := c.assetsSet
	c.mu.RUnlock()

	if alreadyActive {
		return nil
	}

	if !assetsSet || assets.Floor == nil {
		c.warn("чанк %s не построен: каталог ассетов не настроен или архетип пола непригоден", coord)
		return errors.New("каталог ассетов не настроен")
	}

	var height float64
	var placements []placement.Placement

	if snap, exists := c.store.Lookup(key); exists {
		// Путь возрождения: берем сохраненные высоту и раскладку
		height = snap.HeightOr(c.heights.Origin())
		placements = append([]placement.Placement(nil), snap.Placements...)
		c.mu.Lock()
		c.revived++
		c.mu.Unlock()
	} else {
		// Путь генерации: считаем высоту и раскладку детерминированно
		height = c.heights.ComputeHeight(coord)
		placements = c.placer.GeneratePlacements(coord.X, coord.Z, height)
		c.mu.Lock()
		c.generated++
		c.mu.Unlock()
	}

	handle, err := c.composer.Spawn(coord, height, placements, assets)
	if err != nil {
		c.warn("композитор не смог построить чанк %s: %v", coord, err)
		return fmt.Errorf("ошибка при материализации чанка %s: %w", coord, err)
	}

	c.mu.Lock()
	// Проверяем еще раз, не был ли чанк создан, пока мы строили его
	if _, exists := c.active[key]; exists {
		c.mu.Unlock()
		if destroyErr := c.composer.Destroy(handle); destroyErr != nil {
			c.warn("не удалось уничтожить дубликат чанка %s: %v", coord, destroyErr)
		}
		return nil
	}
	c.active[key] = &Chunk{
		Coord:      coord,
		Height:     height,
		Placements: placements,
		Handle:     handle,
	}
	c.mu.Unlock()

	return nil
}

// Evict выгружает активный чанк: снимок уходит в хранилище (перезаписывая
// прежний снимок этого ключа), представление уничтожается композитором,
// запись удаляется из множества активных. Выгрузка неактивного ключа не
// делает ничего (не ошибка).
func (c *Cache) Evict(coord grid.ChunkCoord) error {
	key := coord.Key()

	c.mu.Lock()
	chunk, exists := c.active[key]
	if !exists {
		c.mu.Unlock()
		return nil
	}
	delete(c.active, key)
	c.evicted++
	c.mu.Unlock()

	// Сначала снимок, затем уничтожение представления
	c.store.Snapshot(chunk.Coord, chunk.Height, chunk.Placements)

	if err := c.composer.Destroy(chunk.Handle); err != nil {
		c.warn("композитор не смог уничтожить чанк %s: %v", coord, err)
	}

	return nil
}

// IsActive сообщает, активен ли чанк с данной координатой.
func (c *Cache) IsActive(coord grid.ChunkCoord) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, exists := c.active[coord.Key()]
	return exists
}

// Get возвращает активный чанк по координате.
func (c *Cache) Get(coord grid.ChunkCoord) (*Chunk, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	chunk, exists := c.active[coord.Key()]
	return chunk, exists
}

// ActiveCoords возвращает копию списка координат активных чанков.
// Копия позволяет вызывающему выгружать чанки во время обхода, не
// модифицируя множество, по которому идет итерация.
func (c *Cache) ActiveCoords() []grid.ChunkCoord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	coords := make([]grid.ChunkCoord, 0, len(c.active))
	for _, chunk := range c.active {
		coords = append(coords, chunk.Coord)
	}
	return coords
}

// ActiveCount возвращает количество активных чанков.
func (c *Cache) ActiveCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.active)
}

// warn регистрирует восстановимое предупреждение. Ни одно из состояний
// ядра при этом не становится фатальным: страдает только один чанк или
// объект.
func (c *Cache) warn(format string, args ...interface{}) {
	c.mu.Lock()
	c.warnings++
	c.mu.Unlock()

	log.Printf("[ChunkCache] "+format, args...)
}

// GetStats возвращает статистику работы кеша.
func (c *Cache) GetStats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return map[string]interface{}{
		"active":    len(c.active),
		"generated": c.generated,
		"revived":   c.revived,
		"evicted":   c.evicted,
		"warnings":  c.warnings,
	}
}
