package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/NewsFlow/services/feed-service/config"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/feed/dto"
)

type mockPoller struct {
	calls atomic.Int32
	err   error
	block bool
}

func (m *mockPoller) PollFeeds(ctx context.Context) (*dto.PollReport, error) {
	m.calls.Add(1)
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.err != nil {
		return nil, m.err
	}
	return &dto.PollReport{Feeds: 1}, nil
}

func TestPollerWorker_PollsImmediatelyAndOnTick(t *testing.T) {
	poller := &mockPoller{}
	w := NewPollerWorker(poller, &config.PollerConfig{Interval: 20 * time.Millisecond, CycleTimeout: time.Second}, zerolog.Nop())

	w.Start()
	require.Eventually(t, func() bool { return poller.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	w.Stop()

	stopped := poller.calls.Load()
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, stopped, poller.calls.Load())
}

func TestPollerWorker_KeepsRunningAfterFailedCycle(t *testing.T) {
	poller := &mockPoller{err: errors.New("database is locked")}
	w := NewPollerWorker(poller, &config.PollerConfig{Interval: 10 * time.Millisecond}, zerolog.Nop())

	w.Start()
	require.Eventually(t, func() bool { return poller.calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	w.Stop()
}

func TestPollerWorker_StopCancelsRunningCycle(t *testing.T) {
	poller := &mockPoller{block: true}
	w := NewPollerWorker(poller, &config.PollerConfig{Interval: time.Hour, CycleTimeout: time.Hour}, zerolog.Nop())

	w.Start()
	require.Eventually(t, func() bool { return poller.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}
