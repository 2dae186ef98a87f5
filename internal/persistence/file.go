package persistence

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/annelo/go-terrain-stream/internal/grid"
)

// Версия формата файла сохранения
const fileVersion = "terrain-1.0.0"

// worldFile описывает дисковый формат экспортированного множества снимков.
type worldFile struct {
	Version   string          `json:"version"`
	SavedAt   int64           `json:"saved_at"`
	Snapshots []ChunkSnapshot `json:"snapshots"`
}

// SaveToFile сериализует все снимки хранилища в JSON-файл.
func (s *Store) SaveToFile(path string) error {
	exported := s.ExportAll()

	file := worldFile{
		Version:   fileVersion,
		SavedAt:   time.Now().Unix(),
		Snapshots: make([]ChunkSnapshot, 0, len(exported)),
	}
	for _, snap := range exported {
		file.Snapshots = append(file.Snapshots, snap)
	}

	// Преобразуем данные в JSON
	jsonData, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}

	// Записываем данные в файл
	return os.WriteFile(path, jsonData, 0644)
}

// LoadFromFile загружает снимки из JSON-файла, целиком заменяя содержимое
// хранилища. Отсутствующий или поврежденный файл дает пустое хранилище,
// а не ошибку: мир в этом случае просто генерируется заново.
func (s *Store) LoadFromFile(path string) error {
	fileData, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[Persistence] не удалось прочитать файл сохранения %s: %v", path, err)
		}
		s.ImportAll(nil)
		return nil
	}

	var file worldFile
	if err := json.Unmarshal(fileData, &file); err != nil {
		log.Printf("[Persistence] файл сохранения %s поврежден, начинаем с пустого хранилища: %v", path, err)
		s.ImportAll(nil)
		return nil
	}

	data := make(map[grid.ChunkKey]ChunkSnapshot, len(file.Snapshots))
	for _, snap := range file.Snapshots {
		data[snap.Coord.Key()] = snap
	}
	s.ImportAll(data)

	return nil
}
