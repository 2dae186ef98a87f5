package gameloop

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Loop — ведущий цикл мира: с фиксированным периодом вызывает Tick
// каждой зарегистрированной системы в порядке регистрации.
type Loop struct {
	systems []System
	period  time.Duration
}

// NewLoop инициализирует системы и создает цикл. Ошибка инициализации
// любой системы фатальна: мир с недонастроенной системой (например,
// автосохранением без пути) хуже, чем отказ при старте.
func NewLoop(period time.Duration, deps Dependencies, systems ...System) (*Loop, error) {
	for _, s := range systems {
		if err := s.Init(deps); err != nil {
			return nil, fmt.Errorf("инициализация системы %s: %w", s.Name(), err)
		}
	}
	return &Loop{systems: systems, period: period}, nil
}

// Run крутит цикл до отмены контекста.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.period)
	defer ticker.Stop()

	log.Printf("[GameLoop] запущен: систем %d, период %s", len(l.systems), l.period)

	last := time.Now()
	for {
		select {
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			for _, s := range l.systems {
				l.tickSystem(ctx, s, dt)
			}
		case <-ctx.Done():
			log.Println("[GameLoop] остановлен")
			return
		}
	}
}

// tickSystem выполняет один тик системы, изолируя ее панику: упавшая
// система пропускает тик, остальные системы и сам цикл продолжают.
func (l *Loop) tickSystem(ctx context.Context, s System, dt time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[GameLoop] паника в системе %s: %v", s.Name(), r)
		}
	}()
	s.Tick(ctx, dt)
}
