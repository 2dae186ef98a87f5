package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annelo/go-terrain-stream/internal/compose"
	"github.com/annelo/go-terrain-stream/internal/config"
	"github.com/annelo/go-terrain-stream/internal/gameloop"
	"github.com/annelo/go-terrain-stream/internal/world"
	"github.com/annelo/go-terrain-stream/internal/worldinterfaces"
)

var (
	configPath = flag.String("config", "", "Путь до YAML-файла конфигурации (пусто = значения по умолчанию)")
	savePath   = flag.String("save", "world.json", "Путь до файла сохранения мира")
	obsX       = flag.Float64("x", 0, "Мировая координата X наблюдателя")
	obsZ       = flag.Float64("z", 0, "Мировая координата Z наблюдателя")
	tickPeriod = flag.Duration("tick", 100*time.Millisecond, "Период тика ведущего цикла")
	autosave   = flag.Duration("autosave", 30*time.Second, "Интервал автосохранения")
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

	composer := compose.NewRecordingComposer()
	w := world.NewWorld(cfg, composer)
	w.SetAssets(worldinterfaces.AssetCatalog{
		Floor:   "floor",
		Objects: []worldinterfaces.Archetype{"pine", "oak", "birch"},
	})

	if err := w.LoadFromFile(*savePath); err != nil {
		log.Fatalf("ошибка загрузки сохранения: %v", err)
	}

	deps := gameloop.Dependencies{
		World:    w,
		Observer: func() (float64, float64) { return *obsX, *obsZ },
	}
	loop, err := gameloop.NewLoop(*tickPeriod, deps,
		gameloop.NewStreamingSystem(),
		gameloop.NewAutosaveSystem(*savePath, *autosave),
	)
	if err != nil {
		log.Fatalf("ошибка запуска цикла: %v", err)
	}

	// Останавливаемся по сигналу
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		cancel()
	}()

	loop.Run(ctx)

	// Финальное сохранение полного состояния: выгружаем активные чанки
	// в снимки и пишем файл
	w.Stop()
	if err := w.SaveToFile(*savePath); err != nil {
		log.Printf("[Worldd] ошибка финального сохранения: %v", err)
		return
	}
	log.Printf("[Worldd] мир сохранен в %s", *savePath)
}
