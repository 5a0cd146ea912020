package worker

import (
	"context"
	"time"

	"github.com/consultafacil/portal-api/internal/service/board"
	"github.com/consultafacil/portal-api/pkg/logger"
)

// BoardRefresher re-fetches every active doctor board on a fixed interval
// so new incoming requests surface without user action. Cancelled via the
// context on shutdown.
type BoardRefresher struct {
	boards   *board.Service
	interval time.Duration
	logger   *logger.Logger
}

func NewBoardRefresher(boards *board.Service, interval time.Duration, log *logger.Logger) *BoardRefresher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &BoardRefresher{
		boards:   boards,
		interval: interval,
		logger:   log,
	}
}

func (w *BoardRefresher) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("board refresher started", "interval", w.interval.String())
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("board refresher stopped")
			return
		case <-ticker.C:
			w.boards.RefreshAll(ctx)
		}
	}
}
