// Package compose содержит эталонную реализацию композитора мира в памяти
package compose

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/annelo/go-terrain-stream/internal/grid"
	"github.com/annelo/go-terrain-stream/internal/placement"
	"github.com/annelo/go-terrain-stream/internal/worldinterfaces"
)

// SpawnedObject описывает один созданный объект чанка.
type SpawnedObject struct {
	X         float64
	Y         float64
	Z         float64
	Archetype worldinterfaces.Archetype
}

// SpawnedChunk описывает материализованный чанк в памяти.
type SpawnedChunk struct {
	Coord   grid.ChunkCoord
	Height  float64
	Objects []SpawnedObject
}

// RecordingComposer — композитор, записывающий созданные чанки в память.
// Используется командами и тестами как эталонный коллаборатор: вместо
// сцены движка он строит простые записи с абсолютными координатами.
type RecordingComposer struct {
	mu      sync.RWMutex
	spawned map[string]*SpawnedChunk

	// Счетчик объектов, пропущенных из-за непригодного архетипа
	skippedObjects int
}

// NewRecordingComposer создает новый композитор в памяти.
func NewRecordingComposer() *RecordingComposer {
	return &RecordingComposer{
		spawned: make(map[string]*SpawnedChunk),
	}
}

// Spawn строит представление чанка и возвращает его дескриптор.
// Непригодный архетип пола делает невозможным весь чанк; непригодный
// архетип отдельного объекта приводит к пропуску только этого объекта.
func (c *RecordingComposer) Spawn(coord grid.ChunkCoord, height float64, placements []placement.Placement, assets worldinterfaces.AssetCatalog) (worldinterfaces.Handle, error) {
	if assets.Floor == nil {
		return nil, errors.New("архетип пола отсутствует или непригоден")
	}

	chunk := &SpawnedChunk{
		Coord:   coord,
		Height:  height,
		Objects: make([]SpawnedObject, 0, len(placements)),
	}

	for i, pl := range placements {
		archetype := c.pickArchetype(assets, i)
		if archetype == nil {
			// Пропускаем один объект, чанк продолжаем строить
			c.mu.Lock()
			c.skippedObjects++
			c.mu.Unlock()
			log.Printf("[Compose] пропущен объект %d чанка %s: архетип непригоден", i, coord)
			continue
		}

		chunk.Objects = append(chunk.Objects, SpawnedObject{
			X:         float64(coord.X) + pl.OffsetX,
			Y:         height + pl.OffsetY,
			Z:         float64(coord.Z) + pl.OffsetZ,
			Archetype: archetype,
		})
	}

	handle := uuid.New().String()

	c.mu.Lock()
	c.spawned[handle] = chunk
	c.mu.Unlock()

	return handle, nil
}

// pickArchetype выбирает архетип объекта по кругу из каталога.
func (c *RecordingComposer) pickArchetype(assets worldinterfaces.AssetCatalog, index int) worldinterfaces.Archetype {
	if len(assets.Objects) == 0 {
		return nil
	}
	return assets.Objects[index%len(assets.Objects)]
}

// Destroy уничтожает представление чанка по дескриптору.
func (c *RecordingComposer) Destroy(handle worldinterfaces.Handle) error {
	key, ok := handle.(string)
	if !ok {
		return fmt.Errorf("неизвестный тип дескриптора: %T", handle)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.spawned[key]; !exists {
		return fmt.Errorf("дескриптор %s не найден", key)
	}

	delete(c.spawned, key)
	return nil
}

// Spawned возвращает запись чанка по дескриптору.
func (c *RecordingComposer) Spawned(handle worldinterfaces.Handle) (*SpawnedChunk, bool) {
	key, ok := handle.(string)
	if !ok {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	chunk, exists := c.spawned[key]
	return chunk, exists
}

// Count возвращает количество материализованных чанков.
func (c *RecordingComposer) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.spawned)
}

// SkippedObjects возвращает количество пропущенных объектов.
func (c *RecordingComposer) SkippedObjects() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.skippedObjects
}
