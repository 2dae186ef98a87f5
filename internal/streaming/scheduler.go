// Package streaming содержит планировщик потоковой загрузки чанков вокруг наблюдателя
package streaming

import (
	"math"
	"math/rand"
	"time"

	"github.com/annelo/go-terrain-stream/internal/chunkcache"
	"github.com/annelo/go-terrain-stream/internal/grid"
)

// Options задает параметры планировщика.
type Options struct {
	RenderDistance int32
	Cooldown       time.Duration
	// Максимум материализаций за один тик (0 трактуется как 1)
	MaxMaterializationsPerTick int
	// Максимум выгрузок за один тик (0 трактуется как 3)
	MaxEvictionsPerTick int
}

// Scheduler решает на каждом тике, какие чанки загрузить и какие выгрузить.
// Лимиты на материализации и выгрузки за тик ограничивают худшую задержку
// одного тика в чувствительном к задержкам цикле хозяина: это механизм
// обратного давления, а не требование корректности.
type Scheduler struct {
	indexer *grid.Indexer
	cache   *chunkcache.Cache

	renderDistance int32
	cooldown       time.Duration
	maxLoads       int
	maxEvictions   int

	lastTick time.Time
	now      func() time.Time

	// Источник случайности для порядка обработки очереди. Отдельный от
	// чанковых потоков генерации: его пересев меняет только то, какие
	// чанки материализуются первыми, но не их содержимое.
	selectionRng *rand.Rand

	// Очередь координат, ожидающих материализации. Пересобирается на
	// каждом проходе и не сохраняется между тиками: отложенная
	// координата будет переоткрыта следующим тиком, если все еще в
	// радиусе и не загружена.
	queue []grid.ChunkCoord

	// Счетчики для статистики
	ticks     int
	throttled int
}

// NewScheduler создает новый планировщик потоковой загрузки.
func NewScheduler(indexer *grid.Indexer, cache *chunkcache.Cache, opts Options) *Scheduler {
	maxLoads := opts.MaxMaterializationsPerTick
	if maxLoads <= 0 {
		maxLoads = 1
	}
	maxEvictions := opts.MaxEvictionsPerTick
	if maxEvictions <= 0 {
		maxEvictions = 3
	}

	return &Scheduler{
		indexer:        indexer,
		cache:          cache,
		renderDistance: opts.RenderDistance,
		cooldown:       opts.Cooldown,
		maxLoads:       maxLoads,
		maxEvictions:   maxEvictions,
		now:            time.Now,
		selectionRng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetClock подменяет источник времени (используется в тестах).
func (s *Scheduler) SetClock(now func() time.Time) {
	s.now = now
}

// SetSelectionRand подменяет источник случайности выбора порядка очереди.
func (s *Scheduler) SetSelectionRand(rng *rand.Rand) {
	s.selectionRng = rng
}

// Tick выполняет один проход планировщика вокруг позиции наблюдателя:
// перечисляет кандидатов в радиусе, ставит незагруженные в очередь,
// материализует ограниченное число в случайном порядке и затем
// безусловно запускает проход выгрузки. Если с прошлого тика прошло меньше периода охлаждения,
// проход пропускается без изменения состояния (период 0 отключает
// троттлинг).
func (s *Scheduler) Tick(observerX, observerZ float64) {
	currentTime := s.now()
	if s.cooldown > 0 && currentTime.Sub(s.lastTick) < s.cooldown {
		s.throttled++
		return
	}
	s.lastTick = currentTime
	s.ticks++

	// Пересобираем очередь из кандидатов, еще не активных
	s.queue = s.queue[:0]
	for _, coord := range s.candidates(observerX, observerZ) {
		if s.cache.IsActive(coord) {
			continue
		}
		s.queue = append(s.queue, coord)
	}

	// Перемешиваем очередь: при лимите на материализации это размывает
	// преимущество верхнего левого угла решетки
	s.selectionRng.Shuffle(len(s.queue), func(i, j int) {
		s.queue[i], s.queue[j] = s.queue[j], s.queue[i]
	})

	// Материализуем ограниченное число координат; остаток очереди
	// просто отбрасывается до следующего тика
	loads := s.maxLoads
	if loads > len(s.queue) {
		loads = len(s.queue)
	}
	for i := 0; i < loads; i++ {
		// Ошибка уже зарегистрирована кешем как предупреждение;
		// чанк остается незагруженным и будет повторен позже
		_ = s.cache.Materialize(s.queue[i])
	}

	s.evictOutOfRange(observerX, observerZ)
}

// candidates перечисляет координаты решетки из (renderDistance+1)² ячеек
// вокруг привязанной позиции наблюдателя и оставляет только те, что
// попадают в круговой радиус renderDistance*gridScale: углы квадратного
// скана за пределами радиуса исключаются.
func (s *Scheduler) candidates(observerX, observerZ float64) []grid.ChunkCoord {
	center := s.indexer.SnapToGrid(observerX, observerZ)
	scale := s.indexer.Scale()
	radius := float64(s.renderDistance) * float64(scale)

	// Решетка в renderDistance+1 ячеек на ось
	lo := -(s.renderDistance + 1) / 2
	hi := s.renderDistance / 2

	coords := make([]grid.ChunkCoord, 0, (s.renderDistance+1)*(s.renderDistance+1))
	for dz := lo; dz <= hi; dz++ {
		for dx := lo; dx <= hi; dx++ {
			coord := grid.ChunkCoord{
				X: center.X + dx*scale,
				Z: center.Z + dz*scale,
			}
			if planarDistance(coord, observerX, observerZ) <= radius {
				coords = append(coords, coord)
			}
		}
	}
	return coords
}

// evictOutOfRange выгружает не более maxEvictions активных чанков,
// находящихся за пределами радиуса видимости. Ограничение распределяет
// стоимость выгрузки по нескольким тикам.
func (s *Scheduler) evictOutOfRange(observerX, observerZ float64) {
	radius := float64(s.renderDistance) * float64(s.indexer.Scale())

	// Сначала собираем кандидатов, затем выгружаем: так обход не
	// модифицирует множество, по которому идет итерация
	selected := make([]grid.ChunkCoord, 0, s.maxEvictions)
	for _, coord := range s.cache.ActiveCoords() {
		if planarDistance(coord, observerX, observerZ) <= radius {
			continue
		}
		selected = append(selected, coord)
		if len(selected) >= s.maxEvictions {
			break
		}
	}

	for _, coord := range selected {
		_ = s.cache.Evict(coord)
	}
}

// planarDistance возвращает плоское расстояние от чанка до наблюдателя.
func planarDistance(coord grid.ChunkCoord, observerX, observerZ float64) float64 {
	dx := float64(coord.X) - observerX
	dz := float64(coord.Z) - observerZ
	return math.Sqrt(dx*dx + dz*dz)
}

// QueueLen возвращает длину очереди, собранной последним тиком.
func (s *Scheduler) QueueLen() int {
	return len(s.queue)
}

// GetStats возвращает статистику работы планировщика.
func (s *Scheduler) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"ticks":     s.ticks,
		"throttled": s.throttled,
		"queue":     len(s.queue),
	}
}
