package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/digest/dto"
)

func TestLoop_RunsAtStartAndOnTick(t *testing.T) {
	var calls atomic.Int32
	l := newLoop(func(ctx context.Context) (*dto.DeliveryReport, error) {
		calls.Add(1)
		return &dto.DeliveryReport{Sent: 1}, nil
	}, 20*time.Millisecond, time.Second, zerolog.Nop())

	l.Start()
	require.Eventually(t, func() bool { return calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	l.Stop()

	stopped := calls.Load()
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, stopped, calls.Load())
}

func TestLoop_SurvivesErrorsAndDisabledChannel(t *testing.T) {
	var calls atomic.Int32
	l := newLoop(func(ctx context.Context) (*dto.DeliveryReport, error) {
		if calls.Add(1)%2 == 0 {
			return &dto.DeliveryReport{Disabled: true}, nil
		}
		return nil, errors.New("database is locked")
	}, 10*time.Millisecond, 0, zerolog.Nop())

	l.Start()
	require.Eventually(t, func() bool { return calls.Load() >= 4 }, 2*time.Second, 5*time.Millisecond)
	l.Stop()
}

func TestLoop_CycleSeesTimeout(t *testing.T) {
	deadline := make(chan bool, 1)
	l := newLoop(func(ctx context.Context) (*dto.DeliveryReport, error) {
		_, ok := ctx.Deadline()
		select {
		case deadline <- ok:
		default:
		}
		return &dto.DeliveryReport{}, nil
	}, time.Hour, 50*time.Millisecond, zerolog.Nop())

	l.Start()
	defer l.Stop()

	select {
	case ok := <-deadline:
		require.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("cycle did not run")
	}
}
