package workers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/digest/dto"
)

type cycleFunc func(ctx context.Context) (*dto.DeliveryReport, error)

// loop runs a delivery cycle at start and then on every tick.
// Cycles never overlap.
type loop struct {
	cycle    cycleFunc
	interval time.Duration
	timeout  time.Duration
	logger   zerolog.Logger

	done   chan struct{}
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func newLoop(cycle cycleFunc, interval, timeout time.Duration, logger zerolog.Logger) *loop {
	ctx, cancel := context.WithCancel(context.Background())

	return &loop{
		cycle:    cycle,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
		done:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start starts the delivery loop
func (l *loop) Start() {
	l.logger.Info().
		Dur("interval", l.interval).
		Dur("timeout", l.timeout).
		Msg("Starting delivery worker")

	l.wg.Add(1)
	go l.run()
}

// Stop cancels the running cycle and waits for the loop to exit
func (l *loop) Stop() {
	l.logger.Info().Msg("Stopping delivery worker")

	l.cancel()
	close(l.done)
	l.wg.Wait()

	l.logger.Info().Msg("Delivery worker stopped")
}

func (l *loop) run() {
	defer l.wg.Done()

	l.deliver()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			l.deliver()
		}
	}
}

func (l *loop) deliver() {
	ctx := l.ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(l.ctx, l.timeout)
		defer cancel()
	}

	log := l.logger.With().Str("cycle_id", uuid.NewString()).Logger()

	start := time.Now()
	report, err := l.cycle(ctx)
	if err != nil {
		if ctx.Err() != nil {
			log.Warn().Err(err).Msg("Delivery cycle cancelled or timed out")
		} else {
			log.Error().Err(err).Msg("Delivery cycle failed")
		}
		return
	}

	if report.Disabled {
		log.Debug().Msg("Channel disabled, cycle skipped")
		return
	}

	event := log.Debug()
	if report.Sent > 0 || report.Failed > 0 {
		event = log.Info()
	}
	event.
		Int("sent", report.Sent).
		Int("failed", report.Failed).
		Int("skipped", report.Skipped).
		Int("no_items", report.NoItems).
		Int("not_due", report.NotDue).
		Dur("duration", time.Since(start)).
		Msg("Delivery cycle completed")
}
