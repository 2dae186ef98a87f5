// Package grid содержит чистую координатную математику сетки чанков
package grid

import (
	"fmt"
	"math"
)

// ChunkCoord представляет каноническую координату чанка.
// Обе составляющие всегда кратны шагу сетки.
type ChunkCoord struct {
	X int32 `json:"x"`
	Z int32 `json:"z"`
}

// ChunkKey — составной целочисленный ключ чанка (X в старших 32 битах,
// Z в младших). Используется как ключ карты везде, где нужен чанк.
type ChunkKey int64

// Key формирует уникальный ключ для координаты чанка.
func (c ChunkCoord) Key() ChunkKey {
	return ChunkKey(int64(c.X)<<32 | (int64(c.Z) & 0xFFFFFFFF))
}

// Coord восстанавливает координату чанка из ключа.
func (k ChunkKey) Coord() ChunkCoord {
	return ChunkCoord{
		X: int32(int64(k) >> 32),
		Z: int32(int64(k) & 0xFFFFFFFF),
	}
}

// String возвращает читаемое представление координаты для логов.
func (c ChunkCoord) String() string {
	return fmt.Sprintf("[%d, %d]", c.X, c.Z)
}

// Indexer привязывает произвольные мировые координаты к сетке чанков.
type Indexer struct {
	scale int32 // Шаг сетки (длина стороны чанка в мировых единицах)
}

// NewIndexer создает новый индексатор с заданным шагом сетки.
func NewIndexer(scale int32) *Indexer {
	return &Indexer{scale: scale}
}

// Scale возвращает шаг сетки.
func (g *Indexer) Scale() int32 {
	return g.scale
}

// SnapToGrid округляет мировые координаты до ближайшего узла сетки.
// Каждая ось округляется к ближайшему кратному шагу сетки по правилу
// floor(v/scale + 0.5) * scale, поэтому отрицательные и дробные значения
// обрабатываются одинаково. Операция идемпотентна: повторная привязка
// уже привязанной координаты ничего не меняет.
func (g *Indexer) SnapToGrid(x, z float64) ChunkCoord {
	return ChunkCoord{
		X: g.snapAxis(x),
		Z: g.snapAxis(z),
	}
}

// snapAxis привязывает одну ось к сетке.
func (g *Indexer) snapAxis(v float64) int32 {
	cell := int32(math.Floor(v/float64(g.scale) + 0.5))
	return cell * g.scale
}
