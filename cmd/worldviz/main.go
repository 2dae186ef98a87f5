package main

import (
	"flag"
	"fmt"
	"log"

	termbox "github.com/nsf/termbox-go"

	"github.com/annelo/go-terrain-stream/internal/compose"
	"github.com/annelo/go-terrain-stream/internal/config"
	"github.com/annelo/go-terrain-stream/internal/grid"
	"github.com/annelo/go-terrain-stream/internal/world"
	"github.com/annelo/go-terrain-stream/internal/worldinterfaces"
)

var (
	configPath = flag.String("config", "", "Путь до YAML-файла конфигурации (пусто = значения по умолчанию)")
	savePath   = flag.String("save", "", "Путь до файла сохранения мира (пусто = без сохранения)")
	startX     = flag.Float64("x", 0, "Начальная мировая координата X наблюдателя")
	startZ     = flag.Float64("z", 0, "Начальная мировая координата Z наблюдателя")
)

func main() {
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("ошибка загрузки конфигурации: %v", err)
		}
		cfg = loaded
	}
	// Для интерактивного просмотра охлаждение только мешает
	cfg.CooldownSeconds = 0

	composer := compose.NewRecordingComposer()
	w := world.NewWorld(cfg, composer)
	w.SetAssets(worldinterfaces.AssetCatalog{
		Floor:   "floor",
		Objects: []worldinterfaces.Archetype{"pine", "oak", "birch"},
	})

	if *savePath != "" {
		if err := w.LoadFromFile(*savePath); err != nil {
			log.Fatalf("ошибка загрузки сохранения: %v", err)
		}
	}

	// Инициализируем termbox
	if err := termbox.Init(); err != nil {
		log.Fatalf("termbox init error: %v", err)
	}
	defer termbox.Close()

	obsX, obsZ := *startX, *startZ
	scale := float64(cfg.GridScale)

	draw := func() {
		termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)

		width, height := termbox.Size()
		centerCol := width / 2
		centerRow := height / 2

		// Каждая экранная ячейка — один чанк; наблюдатель в центре
		center := w.Indexer.SnapToGrid(obsX, obsZ)
		for row := 2; row < height-2; row++ {
			for col := 0; col < width; col++ {
				coord := grid.ChunkCoord{
					X: center.X + int32(col-centerCol)*cfg.GridScale,
					Z: center.Z + int32(row-centerRow)*cfg.GridScale,
				}
				chunk, active := w.Cache.Get(coord)
				if !active {
					continue
				}
				ch, fg := heightSymbol(chunk.Height - cfg.OriginHeight)
				termbox.SetCell(col, row, ch, fg, termbox.ColorBlack)
			}
		}

		// Наблюдатель поверх чанка
		termbox.SetCell(centerCol, centerRow, '@', termbox.ColorRed|termbox.AttrBold, termbox.ColorBlack)

		// Заголовок и информация о чанке под наблюдателем
		header := fmt.Sprintf("Obs=(%.0f, %.0f)  Active=%d  Persisted=%d  [стрелки: движение, space: тик, s: save, l: load, q/Esc: выход]",
			obsX, obsZ, w.Cache.ActiveCount(), w.Store.Len())
		drawText(0, 0, width, header, termbox.ColorYellow|termbox.AttrBold)

		if chunk, active := w.Cache.Get(center); active {
			info := fmt.Sprintf("Chunk %s Height=%.1f Trees=%d", chunk.Coord, chunk.Height, len(chunk.Placements))
			drawText(0, 1, width, info, termbox.ColorWhite)
		}

		termbox.Flush()
	}

	// Первые тики, чтобы вокруг стартовой позиции появились чанки
	for i := 0; i < 32; i++ {
		w.Tick(obsX, obsZ)
	}
	draw()

	// Основной цикл
	step := scale / 2
	for {
		switch ev := termbox.PollEvent(); ev.Type {
		case termbox.EventKey:
			switch ev.Key {
			case termbox.KeyEsc, termbox.KeyCtrlC:
				return
			case termbox.KeyArrowLeft:
				obsX -= step
			case termbox.KeyArrowRight:
				obsX += step
			case termbox.KeyArrowUp:
				obsZ -= step
			case termbox.KeyArrowDown:
				obsZ += step
			case termbox.KeySpace:
				// Дополнительный тик без движения
			default:
				switch ev.Ch {
				case 'q':
					return
				case 's':
					if *savePath != "" {
						w.Stop()
						if err := w.SaveToFile(*savePath); err != nil {
							log.Printf("ошибка сохранения: %v", err)
						}
					}
				case 'l':
					if *savePath != "" {
						w.Stop()
						if err := w.LoadFromFile(*savePath); err != nil {
							log.Printf("ошибка загрузки: %v", err)
						}
					}
				}
			}
			w.Tick(obsX, obsZ)
			draw()
		case termbox.EventError:
			log.Printf("termbox error: %v", ev.Err)
			return
		case termbox.EventResize:
			draw()
		}
	}
}

// heightSymbol возвращает символ и цвет для относительной высоты чанка.
func heightSymbol(relHeight float64) (rune, termbox.Attribute) {
	switch {
	case relHeight < -8:
		return '~', termbox.ColorBlue
	case relHeight < -4:
		return '.', termbox.ColorCyan
	case relHeight < 0:
		return '-', termbox.ColorGreen
	case relHeight < 4:
		return '=', termbox.ColorGreen
	case relHeight < 8:
		return '#', termbox.ColorYellow
	default:
		return '^', termbox.ColorWhite
	}
}

// drawText выводит строку текста, обрезая ее по ширине экрана.
func drawText(x, y, maxWidth int, text string, fg termbox.Attribute) {
	for i, ch := range text {
		if x+i >= maxWidth {
			break
		}
		termbox.SetCell(x+i, y, ch, fg, termbox.ColorDefault)
	}
}
