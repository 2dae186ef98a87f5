// Package persistence хранит снимки выгруженных чанков
package persistence

import (
	"fmt"
	"sync"

	"github.com/annelo/go-terrain-stream/internal/grid"
	"github.com/annelo/go-terrain-stream/internal/placement"
)

// ChunkSnapshot — сохраняемое представление чанка без дескриптора
// материализованного представления. Создается при выгрузке чанка и
// используется при его повторной загрузке вместо генерации заново.
type ChunkSnapshot struct {
	Coord      grid.ChunkCoord       `json:"coord"`
	Height     *float64              `json:"height,omitempty"`
	Placements []placement.Placement `json:"placements"`
}

// HeightOr возвращает высоту снимка или подстановку, если высота
// отсутствует (частично поврежденный импорт).
func (s ChunkSnapshot) HeightOr(fallback float64) float64 {
	if s.Height == nil {
		return fallback
	}
	return *s.Height
}

// ErrSnapshotNotFound возвращается, когда снимок чанка не найден в хранилище
type ErrSnapshotNotFound struct {
	X int32
	Z int32
}

func (e ErrSnapshotNotFound) Error() string {
	return fmt.Sprintf("снимок чанка [%d, %d] не найден в хранилище", e.X, e.Z)
}

// Store владеет картой сохраненных снимков (PersistedSet). Снимки
// создаются при выгрузке чанков и читаются (но не удаляются) при их
// возрождении, поэтому чанк можно выгружать и загружать многократно
// без потери снимка.
type Store struct {
	mu        sync.RWMutex
	snapshots map[grid.ChunkKey]ChunkSnapshot

	// Высота, подставляемая вместо отсутствующей при импорте
	originHeight float64

	// Счетчики для статистики
	puts    int
	lookups int
	revived int
}

// NewStore создает новое хранилище снимков.
func NewStore(originHeight float64) *Store {
	return &Store{
		snapshots:    make(map[grid.ChunkKey]ChunkSnapshot),
		originHeight: originHeight,
	}
}

// Snapshot формирует снимок из содержимого чанка и сохраняет его,
// перезаписывая предыдущий снимок для того же ключа. Список смещений
// копируется, чтобы снимок не делил память с активным чанком.
func (s *Store) Snapshot(coord grid.ChunkCoord, height float64, placements []placement.Placement) ChunkSnapshot {
	h := height
	snap := ChunkSnapshot{
		Coord:      coord,
		Height:     &h,
		Placements: append([]placement.Placement(nil), placements...),
	}

	s.mu.Lock()
	s.snapshots[coord.Key()] = snap
	s.puts++
	s.mu.Unlock()

	return snap
}

// Lookup возвращает снимок чанка, если он есть в хранилище.
func (s *Store) Lookup(key grid.ChunkKey) (ChunkSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, exists := s.snapshots[key]
	s.lookups++
	if exists {
		s.revived++
	}
	return snap, exists
}

// Get возвращает снимок чанка по координате.
// Возвращает ошибку типа ErrSnapshotNotFound, если снимок не найден.
func (s *Store) Get(coord grid.ChunkCoord) (ChunkSnapshot, error) {
	snap, exists := s.Lookup(coord.Key())
	if !exists {
		return ChunkSnapshot{}, ErrSnapshotNotFound{X: coord.X, Z: coord.Z}
	}
	return snap, nil
}

// ExportAll возвращает копию всего множества снимков для внешней
// сериализации.
func (s *Store) ExportAll() map[grid.ChunkKey]ChunkSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[grid.ChunkKey]ChunkSnapshot, len(s.snapshots))
	for key, snap := range s.snapshots {
		copied := snap
		copied.Placements = append([]placement.Placement(nil), snap.Placements...)
		if snap.Height != nil {
			h := *snap.Height
			copied.Height = &h
		}
		out[key] = copied
	}
	return out
}

// ImportAll целиком заменяет множество снимков переданными данными.
// Отсутствующие данные (nil) дают пустое хранилище, а не ошибку.
// Снимкам без высоты подставляется базовая высота мира.
func (s *Store) ImportAll(data map[grid.ChunkKey]ChunkSnapshot) {
	fresh := make(map[grid.ChunkKey]ChunkSnapshot, len(data))
	for key, snap := range data {
		copied := snap
		copied.Placements = append([]placement.Placement(nil), snap.Placements...)
		h := snap.HeightOr(s.originHeight)
		copied.Height = &h
		fresh[key] = copied
	}

	s.mu.Lock()
	s.snapshots = fresh
	s.mu.Unlock()
}

// Clear опустошает множество снимков.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots = make(map[grid.ChunkKey]ChunkSnapshot)
}

// Len возвращает количество сохраненных снимков.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.snapshots)
}

// GetStats возвращает статистику использования хранилища.
func (s *Store) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"size":    len(s.snapshots),
		"puts":    s.puts,
		"lookups": s.lookups,
		"revived": s.revived,
	}
}
