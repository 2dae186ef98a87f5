package placement_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annelo/go-terrain-stream/internal/placement"
)

func newTestPlacer(seed int64) *placement.Placer {
	return placement.New(placement.Options{
		GridScale:            128,
		WorldSeed:            seed,
		MinPerChunk:          2,
		MaxPerChunk:          7,
		MinObjectDistance:    10,
		MaxPlacementAttempts: 20,
	})
}

func TestGeneratePlacements_CountBounds(t *testing.T) {
	// minTreesPerChunk=2, maxTreesPerChunk=7: отбраковка может недобрать,
	// но никогда не выдает больше максимума
	placer := newTestPlacer(300)

	for x := int32(-8); x <= 8; x++ {
		for z := int32(-8); z <= 8; z++ {
			placements := placer.GeneratePlacements(x*128, z*128, 0)
			assert.GreaterOrEqual(t, len(placements), 0)
			assert.LessOrEqual(t, len(placements), 7)
		}
	}
}

func TestGeneratePlacements_MinDistance(t *testing.T) {
	placer := newTestPlacer(300)

	for x := int32(-8); x <= 8; x++ {
		for z := int32(-8); z <= 8; z++ {
			placements := placer.GeneratePlacements(x*128, z*128, 0)
			for i := 0; i < len(placements); i++ {
				for j := i + 1; j < len(placements); j++ {
					dx := placements[i].OffsetX - placements[j].OffsetX
					dz := placements[i].OffsetZ - placements[j].OffsetZ
					dist := math.Sqrt(dx*dx + dz*dz)
					require.GreaterOrEqual(t, dist, 10.0,
						"объекты %d и %d чанка [%d, %d] ближе минимальной дистанции", i, j, x*128, z*128)
				}
			}
		}
	}
}

func TestGeneratePlacements_Deterministic(t *testing.T) {
	placer := newTestPlacer(300)

	for _, c := range [][2]int32{{0, 0}, {128, -256}, {-1280, 640}} {
		first := placer.GeneratePlacements(c[0], c[1], 8)
		second := placer.GeneratePlacements(c[0], c[1], 8)
		require.Equal(t, first, second,
			"повторная генерация чанка [%d, %d] дала другую раскладку", c[0], c[1])
	}
}

func TestGeneratePlacements_IndependentStreams(t *testing.T) {
	// Генерация чужих чанков между вызовами не влияет на раскладку:
	// у каждого чанка собственный поток псевдослучайных чисел
	placer := newTestPlacer(300)

	first := placer.GeneratePlacements(0, 0, 0)
	placer.GeneratePlacements(128, 0, 0)
	placer.GeneratePlacements(-384, 256, 0)
	second := placer.GeneratePlacements(0, 0, 0)

	require.Equal(t, first, second)
}

func TestGeneratePlacements_WithinFootprint(t *testing.T) {
	// Кандидаты выбираются в центральной области 80% стороны чанка
	placer := newTestPlacer(300)
	half := 128.0 * 0.8 / 2.0

	for x := int32(-4); x <= 4; x++ {
		placements := placer.GeneratePlacements(x*128, x*128, 0)
		for _, pl := range placements {
			assert.LessOrEqual(t, math.Abs(pl.OffsetX), half)
			assert.LessOrEqual(t, math.Abs(pl.OffsetZ), half)
		}
	}
}

func TestGeneratePlacements_GroundClearance(t *testing.T) {
	placer := newTestPlacer(300)

	placements := placer.GeneratePlacements(0, 0, 12)
	for _, pl := range placements {
		assert.Equal(t, placement.GroundClearance(), pl.OffsetY,
			"смещение по Y задается зазором над поверхностью")
	}
}

func TestChunkSeed_DistinctPerChunk(t *testing.T) {
	placer := newTestPlacer(300)

	seen := make(map[int64][2]int32)
	for x := int32(-6); x <= 6; x++ {
		for z := int32(-6); z <= 6; z++ {
			seed := placer.ChunkSeed(x*128, z*128)
			if prev, exists := seen[seed]; exists {
				t.Fatalf("сиды чанков [%d, %d] и [%d, %d] совпали", prev[0], prev[1], x*128, z*128)
			}
			seen[seed] = [2]int32{x * 128, z * 128}
		}
	}
}

func TestGeneratePlacements_ExhaustionStillValid(t *testing.T) {
	// Слишком большая минимальная дистанция исчерпывает попытки:
	// список короче целевого количества, но инвариант дистанции цел
	crowded := placement.New(placement.Options{
		GridScale:            128,
		WorldSeed:            300,
		MinPerChunk:          7,
		MaxPerChunk:          7,
		MinObjectDistance:    60,
		MaxPlacementAttempts: 20,
	})

	placements := crowded.GeneratePlacements(0, 0, 0)
	assert.LessOrEqual(t, len(placements), 7)

	for i := 0; i < len(placements); i++ {
		for j := i + 1; j < len(placements); j++ {
			dx := placements[i].OffsetX - placements[j].OffsetX
			dz := placements[i].OffsetZ - placements[j].OffsetZ
			require.GreaterOrEqual(t, math.Sqrt(dx*dx+dz*dz), 60.0)
		}
	}
}
