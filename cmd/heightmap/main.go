package main

import (
	"flag"
	"fmt"

	"github.com/annelo/go-terrain-stream/internal/config"
	"github.com/annelo/go-terrain-stream/internal/grid"
	"github.com/annelo/go-terrain-stream/internal/heightfield"
	"github.com/annelo/go-terrain-stream/internal/placement"
)

const (
	width  = 40
	height = 20
)

var seed = flag.Int64("seed", 300, "Сид генерации мира")

func main() {
	flag.Parse()

	cfg := config.Default()
	cfg.WorldSeed = *seed
	fmt.Printf("Seed: %d\n", cfg.WorldSeed)

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

	// Визуализируем карту высот
	fmt.Println("\nКарта высот:")
	visualizeHeightMap(heights, cfg)

	// Визуализируем плотность объектов
	fmt.Println("\nПлотность объектов:")
	visualizeObjectDensity(heights, placer, cfg)
}

// visualizeHeightMap визуализирует ступенчатую карту высот
func visualizeHeightMap(heights *heightfield.HeightField, cfg config.Config) {
	// Символы для различных высот от низкой к высокой
	chars := []rune{'~', '.', '-', '=', '#', '^', '*', '@'}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			coord := chunkAt(x, y, cfg.GridScale)
			h := heights.ComputeHeight(coord)

			// Нормализуем высоту в индекс символа
			normalized := (h - cfg.OriginHeight + cfg.HeightVariation) / (2 * cfg.HeightVariation)
			idx := int(normalized * float64(len(chars)-1))
			if idx < 0 {
				idx = 0
			}
			if idx >= len(chars) {
				idx = len(chars) - 1
			}

			fmt.Print(string(chars[idx]))
		}
		fmt.Println()
	}
}

// visualizeObjectDensity выводит количество объектов в каждом чанке
func visualizeObjectDensity(heights *heightfield.HeightField, placer *placement.Placer, cfg config.Config) {
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			coord := chunkAt(x, y, cfg.GridScale)
			h := heights.ComputeHeight(coord)
			placements := placer.GeneratePlacements(coord.X, coord.Z, h)

			if len(placements) == 0 {
				fmt.Print(".")
			} else {
				fmt.Printf("%d", len(placements))
			}
		}
		fmt.Println()
	}
}

// chunkAt возвращает координату чанка для экранной ячейки
func chunkAt(x, y int, scale int32) grid.ChunkCoord {
	return grid.ChunkCoord{
		X: int32(x) * scale,
		Z: int32(y) * scale,
	}
}
