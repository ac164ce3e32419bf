package sweeper

import (
	"context"
	"time"

	"auction-house/utils"
)

// Settler settles every auction whose end time has passed
type Settler interface {
	SettleDue(ctx context.Context) (int, error)
}

// Sweeper periodically settles auctions that ended without an owner edit
type Sweeper struct {
	settler  Settler
	interval time.Duration
}

func New(settler Settler, interval time.Duration) *Sweeper {
	return &Sweeper{settler: settler, interval: interval}
}

// Run sweeps once immediately and then every interval until ctx is done.
// A non-positive interval disables sweeping.
func (s *Sweeper) Run(ctx context.Context) error {
	if s.interval <= 0 {
		utils.Info("settlement sweeper disabled", nil)
		return nil
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.sweep(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	start := time.Now()
	n, err := s.settler.SettleDue(ctx)
	if err != nil && ctx.Err() == nil {
		utils.Error("settlement sweep failed", map[string]any{"settled": n, "error": err.Error()})
		return
	}
	if n > 0 {
		utils.Info("settlement sweep completed", map[string]any{"settled": n, "duration_ms": time.Since(start).Milliseconds()})
	}
}
