package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"clienthub.app/hub/common/logger"
	"clienthub.app/hub/common/metrics"
)

// SessionDeleter is the slice of the session store the reaper needs.
type SessionDeleter interface {
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type SessionReaperConfig struct {
	Interval time.Duration
	// Grace keeps sessions around for a while after expiry so a request
	// racing the expiry still gets a clean 401 rather than a missing row.
	Grace time.Duration
}

// SessionReaper periodically deletes expired sessions. Expiry is already
// enforced on read, so the reaper only keeps the table small.
type SessionReaper struct {
	sessions SessionDeleter
	cfg      SessionReaperConfig
	now      func() time.Time

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func NewSessionReaper(sessions SessionDeleter, cfg SessionReaperConfig) *SessionReaper {
	return &SessionReaper{
		sessions:  sessions,
		cfg:       cfg,
		now:       time.Now,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Run starts the reaper loop. Blocks until Stop() is called or ctx is done.
func (r *SessionReaper) Run(ctx context.Context) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "clienthub.worker.session_reaper",
	})

	defer close(r.stoppedCh)

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "session reaper started",
		"interval", r.cfg.Interval,
		"grace", r.cfg.Grace)

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			slog.InfoContext(ctx, "session reaper stopping")
			return
		case <-ticker.C:
			if _, err := r.ReapOnce(ctx); err != nil {
				slog.ErrorContext(ctx, "reap cycle error", "error", err)
			}
		}
	}
}

// Stop signals the reaper to stop and waits for the loop to exit.
func (r *SessionReaper) Stop() {
	close(r.stopCh)
	<-r.stoppedCh
}

// ReapOnce deletes sessions that expired before now minus the grace period.
func (r *SessionReaper) ReapOnce(ctx context.Context) (int64, error) {
	sc := logger.StartSpan(ctx, "worker.reap_sessions")
	defer sc.End()
	ctx = sc.Context()

	before := r.now().Add(-r.cfg.Grace)

	start := time.Now()
	n, err := r.sessions.DeleteExpired(ctx, before)
	if err != nil {
		sc.RecordError(err)
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}

	metrics.ObserveSessionsReaped(n)
	if n > 0 {
		slog.InfoContext(ctx, "expired sessions deleted",
			"count", n,
			"before", before,
			"duration_ms", time.Since(start).Milliseconds())
	}
	return n, nil
}
