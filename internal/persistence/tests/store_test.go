package persistence_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annelo/go-terrain-stream/internal/grid"
	"github.com/annelo/go-terrain-stream/internal/persistence"
	"github.com/annelo/go-terrain-stream/internal/placement"
)

func samplePlacements() []placement.Placement {
	return []placement.Placement{
		{OffsetX: -12.5, OffsetY: 0.5, OffsetZ: 30.25},
		{OffsetX: 41.0, OffsetY: 0.5, OffsetZ: -7.75},
	}
}

func TestSnapshotAndGet(t *testing.T) {
	store := persistence.NewStore(0)
	coord := grid.ChunkCoord{X: 128, Z: -256}

	store.Snapshot(coord, 8, samplePlacements())

	snap, err := store.Get(coord)
	require.NoError(t, err)
	assert.Equal(t, coord, snap.Coord)
	assert.Equal(t, 8.0, *snap.Height)
	assert.Equal(t, samplePlacements(), snap.Placements)
}

func TestSnapshot_OverwritesPrevious(t *testing.T) {
	store := persistence.NewStore(0)
	coord := grid.ChunkCoord{X: 0, Z: 0}

	store.Snapshot(coord, 4, samplePlacements())
	store.Snapshot(coord, 12, nil)

	snap, err := store.Get(coord)
	require.NoError(t, err)
	assert.Equal(t, 12.0, *snap.Height)
	assert.Empty(t, snap.Placements)
	assert.Equal(t, 1, store.Len())
}

func TestGet_NotFound(t *testing.T) {
	store := persistence.NewStore(0)

	_, err := store.Get(grid.ChunkCoord{X: 128, Z: 128})
	require.Error(t, err)

	var notFound persistence.ErrSnapshotNotFound
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, int32(128), notFound.X)
	assert.Equal(t, int32(128), notFound.Z)
}

func TestLookup_DoesNotConsume(t *testing.T) {
	// Чтение снимка при возрождении не удаляет его: чанк можно
	// выгружать и загружать многократно
	store := persistence.NewStore(0)
	coord := grid.ChunkCoord{X: 0, Z: 0}
	store.Snapshot(coord, 4, samplePlacements())

	for i := 0; i < 3; i++ {
		_, exists := store.Lookup(coord.Key())
		require.True(t, exists)
	}
	assert.Equal(t, 1, store.Len())
}

func TestExportClearImport_RoundTrip(t *testing.T) {
	// Сценарий: экспорт, очистка, импорт экспортированной копии —
	// хранилище наблюдаемо идентично исходному состоянию
	store := persistence.NewStore(0)
	store.Snapshot(grid.ChunkCoord{X: 0, Z: 0}, 4, samplePlacements())
	store.Snapshot(grid.ChunkCoord{X: 128, Z: 0}, -8, nil)
	store.Snapshot(grid.ChunkCoord{X: -128, Z: 256}, 16, samplePlacements())

	exported := store.ExportAll()

	store.Clear()
	require.Equal(t, 0, store.Len())

	store.ImportAll(exported)
	require.Equal(t, exported, store.ExportAll())
}

func TestExportAll_ReturnsCopy(t *testing.T) {
	store := persistence.NewStore(0)
	coord := grid.ChunkCoord{X: 0, Z: 0}
	store.Snapshot(coord, 4, samplePlacements())

	exported := store.ExportAll()
	snap := exported[coord.Key()]
	snap.Placements[0].OffsetX = 9999
	*snap.Height = 9999

	fresh, err := store.Get(coord)
	require.NoError(t, err)
	assert.Equal(t, 4.0, *fresh.Height)
	assert.Equal(t, -12.5, fresh.Placements[0].OffsetX)
}

func TestImportAll_NilGivesEmptyStore(t *testing.T) {
	store := persistence.NewStore(0)
	store.Snapshot(grid.ChunkCoord{X: 0, Z: 0}, 4, nil)

	store.ImportAll(nil)
	assert.Equal(t, 0, store.Len())
}

func TestImportAll_MissingHeightSubstituted(t *testing.T) {
	// Частично поврежденный снимок без высоты получает базовую высоту
	// мира вместо ошибки всего импорта
	store := persistence.NewStore(6)
	coord := grid.ChunkCoord{X: 128, Z: 128}

	store.ImportAll(map[grid.ChunkKey]persistence.ChunkSnapshot{
		coord.Key(): {Coord: coord, Placements: samplePlacements()},
	})

	snap, err := store.Get(coord)
	require.NoError(t, err)
	require.NotNil(t, snap.Height)
	assert.Equal(t, 6.0, *snap.Height)
}

func TestSaveLoadFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.json")

	store := persistence.NewStore(0)
	store.Snapshot(grid.ChunkCoord{X: 0, Z: 0}, 4, samplePlacements())
	store.Snapshot(grid.ChunkCoord{X: -256, Z: 384}, -12, nil)

	require.NoError(t, store.SaveToFile(path))

	loaded := persistence.NewStore(0)
	require.NoError(t, loaded.LoadFromFile(path))

	assert.Equal(t, store.ExportAll(), loaded.ExportAll())
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	store := persistence.NewStore(0)
	store.Snapshot(grid.ChunkCoord{X: 0, Z: 0}, 4, nil)

	err := store.LoadFromFile(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())
}

func TestLoadFromFile_CorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{не json"), 0644))

	store := persistence.NewStore(0)
	store.Snapshot(grid.ChunkCoord{X: 0, Z: 0}, 4, nil)

	err := store.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())
}
