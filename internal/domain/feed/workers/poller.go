package workers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Conte777/NewsFlow/services/feed-service/config"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/feed/dto"
)

// Poller runs one feed polling cycle
type Poller interface {
	PollFeeds(ctx context.Context) (*dto.PollReport, error)
}

// PollerWorker polls every feed once at start-up and then on each tick
type PollerWorker struct {
	poller   Poller
	interval time.Duration
	timeout  time.Duration
	logger   zerolog.Logger

	done   chan struct{}
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewPollerWorker creates a new feed poller worker
func NewPollerWorker(poller Poller, cfg *config.PollerConfig, logger zerolog.Logger) *PollerWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &PollerWorker{
		poller:   poller,
		interval: cfg.Interval,
		timeout:  cfg.CycleTimeout,
		logger:   logger.With().Str("worker", "feed_poller").Logger(),
		done:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start starts the poller loop
func (w *PollerWorker) Start() {
	w.logger.Info().
		Dur("interval", w.interval).
		Dur("timeout", w.timeout).
		Msg("Starting feed poller worker")

	w.wg.Add(1)
	go w.run()
}

// Stop cancels the running cycle and waits for the loop to exit
func (w *PollerWorker) Stop() {
	w.logger.Info().Msg("Stopping feed poller worker")

	w.cancel()
	close(w.done)
	w.wg.Wait()

	w.logger.Info().Msg("Feed poller worker stopped")
}

func (w *PollerWorker) run() {
	defer w.wg.Done()

	w.poll()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.poll()
		}
	}
}

// poll performs a single polling cycle
func (w *PollerWorker) poll() {
	ctx := w.ctx
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(w.ctx, w.timeout)
		defer cancel()
	}

	log := w.logger.With().Str("cycle_id", uuid.NewString()).Logger()
	log.Debug().Msg("Starting feed poll cycle")

	start := time.Now()
	report, err := w.poller.PollFeeds(ctx)
	if err != nil {
		if ctx.Err() != nil {
			log.Warn().Err(err).Msg("Feed poll cycle cancelled or timed out")
		} else {
			log.Error().Err(err).Msg("Feed poll cycle failed")
		}
		return
	}

	log.Info().
		Int("feeds", report.Feeds).
		Int("failed", report.Failed).
		Int("items_inserted", report.ItemsInserted).
		Dur("duration", time.Since(start)).
		Msg("Feed poll cycle completed")
}
