package game

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/raytris/internal/core"
	"github.com/vovakirdan/raytris/internal/shape"
)

// Observer is notified of game events. Calls come from the game loop
// goroutine and must not block.
type Observer interface {
	PieceSpawned(kind shape.Kind)
	LinesCleared(n int, state core.GameState)
	GameOver(state core.GameState)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) PieceSpawned(shape.Kind)          {}
func (NopObserver) LinesCleared(int, core.GameState) {}
func (NopObserver) GameOver(core.GameState)          {}

// Observers fans every event out to each observer in order.
type Observers []Observer

func (o Observers) PieceSpawned(kind shape.Kind) {
	for _, obs := range o {
		obs.PieceSpawned(kind)
	}
}

func (o Observers) LinesCleared(n int, state core.GameState) {
	for _, obs := range o {
		obs.LinesCleared(n, state)
	}
}

func (o Observers) GameOver(state core.GameState) {
	for _, obs := range o {
		obs.GameOver(state)
	}
}

// LogObserver writes game events to a structured logger.
type LogObserver struct {
	Logger *log.Logger
}

func (l LogObserver) PieceSpawned(kind shape.Kind) {
	l.Logger.Debug("piece spawned", "shape", kind)
}

func (l LogObserver) LinesCleared(n int, state core.GameState) {
	l.Logger.Info("lines cleared", "count", n, "score", state.Score, "level", state.Level)
}

func (l LogObserver) GameOver(state core.GameState) {
	l.Logger.Info("game over", "score", state.Score, "lines", state.Lines, "pieces", state.Pieces)
}
