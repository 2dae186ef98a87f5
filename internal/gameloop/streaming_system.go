package gameloop

import (
	"context"
	"errors"
	"time"
)

// StreamingSystem на каждом тике подтягивает мир к позиции наблюдателя.
type StreamingSystem struct {
	deps Dependencies
}

// NewStreamingSystem создает систему потоковой загрузки чанков.
func NewStreamingSystem() *StreamingSystem {
	return &StreamingSystem{}
}

func (s *StreamingSystem) Name() string { return "streaming" }

func (s *StreamingSystem) Init(deps Dependencies) error {
	if deps.World == nil || deps.Observer == nil {
		return errors.New("системе потоковой загрузки нужны мир и наблюдатель")
	}
	s.deps = deps
	return nil
}

func (s *StreamingSystem) Tick(ctx context.Context, dt time.Duration) {
	x, z := s.deps.Observer()
	s.deps.World.Tick(x, z)
}
