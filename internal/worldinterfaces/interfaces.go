// Package worldinterfaces содержит общие интерфейсы для избегания циклических зависимостей
package worldinterfaces

import (
	"github.com/annelo/go-terrain-stream/internal/grid"
	"github.com/annelo/go-terrain-stream/internal/placement"
)

// Handle — непрозрачный дескриптор материализованного представления чанка.
// Ядро никогда не заглядывает внутрь дескриптора, только передает его
// обратно композитору при уничтожении. Владеет дескриптором композитор.
type Handle interface{}

// Archetype — непрозрачный дескриптор архетипа из каталога ассетов.
// Ядро не инспектирует архетипы, а лишь передает их композитору.
type Archetype interface{}

// AssetCatalog задает архетипы для построения чанка: архетип пола и
// набор архетипов размещаемых объектов. Передается один раз через
// настройку мира.
type AssetCatalog struct {
	Floor   Archetype
	Objects []Archetype
}

// WorldComposer — внешний коллаборатор, строящий визуальное/физическое
// представление чанка. Spawn атомарен с точки зрения ядра: либо
// возвращается пригодный дескриптор, либо ошибка; частично построенные
// чанки ядру не видны.
type WorldComposer interface {
	// Spawn материализует чанк по координате, высоте и списку смещений.
	Spawn(coord grid.ChunkCoord, height float64, placements []placement.Placement, assets AssetCatalog) (Handle, error)

	// Destroy уничтожает материализованное представление чанка.
	Destroy(handle Handle) error
}
