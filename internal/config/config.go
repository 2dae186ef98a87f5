// Package config описывает конфигурацию мира и ее загрузку из YAML
package config

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// Config содержит все параметры потокового мира. Конфигурация считается
// неизменной на все время жизни множества снимков: смена сида или
// параметров шума между сохранением и последующей загрузкой дает
// неопределенное поведение (сохраненные и заново сгенерированные высоты
// одной координаты разойдутся).
type Config struct {
	// Шаг сетки: длина стороны чанка в мировых единицах
	GridScale int32 `yaml:"grid_scale"`

	// Радиус видимости в чанках
	RenderDistance int32 `yaml:"render_distance"`

	// Базовая высота мира
	OriginHeight float64 `yaml:"origin_height"`

	// Шаг ступеней высоты
	HeightStep float64 `yaml:"height_step"`

	// Масштаб амплитуды высоты
	HeightVariation float64 `yaml:"height_variation"`

	// Сглаживание рельефа (делитель координат шума)
	TerrainSmoothness float64 `yaml:"terrain_smoothness"`

	// Сид генерации мира
	WorldSeed int64 `yaml:"world_seed"`

	// Минимум и максимум деревьев на чанк
	MinTreesPerChunk int `yaml:"min_trees_per_chunk"`
	MaxTreesPerChunk int `yaml:"max_trees_per_chunk"`

	// Минимальная дистанция между объектами
	MinObjectDistance float64 `yaml:"min_object_distance"`

	// Максимум попыток размещения одного объекта
	MaxPlacementAttempts int `yaml:"max_placement_attempts"`

	// Период охлаждения между тиками планировщика (0 отключает троттлинг)
	CooldownSeconds float64 `yaml:"cooldown_seconds"`

	// Лимиты работы за один тик
	MaxMaterializationsPerTick int `yaml:"max_materializations_per_tick"`
	MaxEvictionsPerTick        int `yaml:"max_evictions_per_tick"`
}

// Default возвращает конфигурацию по умолчанию.
func Default() Config {
	return Config{
		GridScale:                  128,
		RenderDistance:             3,
		OriginHeight:               0,
		HeightStep:                 4,
		HeightVariation:            16,
		TerrainSmoothness:          150,
		WorldSeed:                  300,
		MinTreesPerChunk:           2,
		MaxTreesPerChunk:           7,
		MinObjectDistance:          10,
		MaxPlacementAttempts:       20,
		CooldownSeconds:            0.5,
		MaxMaterializationsPerTick: 1,
		MaxEvictionsPerTick:        3,
	}
}

// Load загружает конфигурацию из YAML-файла поверх значений по умолчанию.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("не удалось прочитать файл конфигурации: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("не удалось разобрать файл конфигурации: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate проверяет согласованность параметров.
func (c Config) Validate() error {
	if c.GridScale <= 0 {
		return fmt.Errorf("grid_scale должен быть положительным, получено %d", c.GridScale)
	}
	if c.RenderDistance < 0 {
		return fmt.Errorf("render_distance не может быть отрицательным, получено %d", c.RenderDistance)
	}
	if c.HeightStep <= 0 {
		return fmt.Errorf("height_step должен быть положительным, получено %g", c.HeightStep)
	}
	if c.TerrainSmoothness <= 0 {
		return fmt.Errorf("terrain_smoothness должен быть положительным, получено %g", c.TerrainSmoothness)
	}
	if c.MinTreesPerChunk < 0 || c.MaxTreesPerChunk < c.MinTreesPerChunk {
		return fmt.Errorf("диапазон деревьев на чанк [%d, %d] некорректен", c.MinTreesPerChunk, c.MaxTreesPerChunk)
	}
	if c.MinObjectDistance < 0 {
		return fmt.Errorf("min_object_distance не может быть отрицательной, получено %g", c.MinObjectDistance)
	}
	if c.MaxPlacementAttempts <= 0 {
		return fmt.Errorf("max_placement_attempts должен быть положительным, получено %d", c.MaxPlacementAttempts)
	}
	if c.CooldownSeconds < 0 {
		return fmt.Errorf("cooldown_seconds не может быть отрицательным, получено %g", c.CooldownSeconds)
	}
	return nil
}

// Cooldown возвращает период охлаждения как time.Duration.
func (c Config) Cooldown() time.Duration {
	return time.Duration(c.CooldownSeconds * float64(time.Second))
}
