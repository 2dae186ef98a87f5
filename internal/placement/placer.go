// Package placement отвечает за детерминированное размещение объектов в чанке
package placement

import (
	"math/rand"
)

// Константы детерминированного размещения
const (
	// Простые множители для вывода сида чанка из его координат
	seedPrimeX int64 = 73856093
	seedPrimeZ int64 = 19349663

	// Доля стороны чанка, внутри которой размещаются объекты
	footprintFactor = 0.8

	// Зазор между поверхностью чанка и основанием объекта
	groundClearance = 0.5
)

// Placement описывает смещение объекта относительно начала чанка по X/Z
// и относительно высоты чанка по Y. Хранение смещений, а не абсолютных
// координат, делает раскладку чанка независимой от места и времени его
// материализации.
type Placement struct {
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
	OffsetZ float64 `json:"offset_z"`
}

// Placer — детерминированный генератор неперекрывающихся позиций объектов.
// Для каждого чанка инициализируется отдельный поток псевдослучайных чисел
// из сида чанка, поэтому повторная генерация того же чанка всегда выдает
// ту же последовательность кандидатов. Этот поток не зависит от любой
// случайности планировщика.
type Placer struct {
	gridScale   int32
	worldSeed   int64
	minPerChunk int
	maxPerChunk int
	minDistance float64
	maxAttempts int
}

// Options задает параметры размещения объектов.
type Options struct {
	GridScale            int32
	WorldSeed            int64
	MinPerChunk          int
	MaxPerChunk          int
	MinObjectDistance    float64
	MaxPlacementAttempts int
}

// New создает новый генератор размещений.
func New(opts Options) *Placer {
	return &Placer{
		gridScale:   opts.GridScale,
		worldSeed:   opts.WorldSeed,
		minPerChunk: opts.MinPerChunk,
		maxPerChunk: opts.MaxPerChunk,
		minDistance: opts.MinObjectDistance,
		maxAttempts: opts.MaxPlacementAttempts,
	}
}

// ChunkSeed возвращает детерминированный сид для чанка с координатами x, z.
func (p *Placer) ChunkSeed(x, z int32) int64 {
	return int64(x)*seedPrimeX + int64(z)*seedPrimeZ + p.worldSeed
}

// GeneratePlacements возвращает список смещений объектов для чанка.
// Целевое количество выбирается равномерно из [minPerChunk, maxPerChunk],
// после чего каждый слот заполняется методом отбраковки: до maxAttempts
// попыток выбрать кандидата в центральной области чанка, кандидат
// принимается, если квадрат плоского расстояния до всех уже принятых
// не меньше minDistance². Слот, исчерпавший попытки, пропускается,
// поэтому итоговый список может быть короче целевого количества —
// это задокументированное свойство отбраковки, а не дефект.
func (p *Placer) GeneratePlacements(x, z int32, height float64) []Placement {
	rng := rand.New(rand.NewSource(p.ChunkSeed(x, z)))

	count := p.minPerChunk
	if p.maxPerChunk > p.minPerChunk {
		count += rng.Intn(p.maxPerChunk - p.minPerChunk + 1)
	}

	// Кандидаты выбираются в центральной области чанка
	half := float64(p.gridScale) * footprintFactor / 2.0
	minDistSq := p.minDistance * p.minDistance

	placements := make([]Placement, 0, count)
	for slot := 0; slot < count; slot++ {
		for attempt := 0; attempt < p.maxAttempts; attempt++ {
			ox := (rng.Float64()*2.0 - 1.0) * half
			oz := (rng.Float64()*2.0 - 1.0) * half

			if !farEnough(placements, ox, oz, minDistSq) {
				continue
			}

			placements = append(placements, Placement{
				OffsetX: ox,
				OffsetY: groundClearance,
				OffsetZ: oz,
			})
			break
		}
	}

	return placements
}

// farEnough проверяет, что кандидат не нарушает минимальную дистанцию
// до всех уже принятых смещений.
func farEnough(accepted []Placement, ox, oz, minDistSq float64) bool {
	for _, pl := range accepted {
		dx := pl.OffsetX - ox
		dz := pl.OffsetZ - oz
		if dx*dx+dz*dz < minDistSq {
			return false
		}
	}
	return true
}

// GroundClearance возвращает зазор между поверхностью чанка и объектом.
func GroundClearance() float64 {
	return groundClearance
}
