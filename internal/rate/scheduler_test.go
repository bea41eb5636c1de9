package rate

import (
	"context"
	"errors"
	"eurofx/internal/domain"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (r *countingRefresher) Refresh(context.Context) error {
	r.calls.Add(1)
	return r.err
}

func TestNewScheduler_Defaults(t *testing.T) {
	s := NewScheduler(&countingRefresher{}, "", nil)
	require.Equal(t, defaultRefreshCron, s.cron)
	require.Equal(t, time.UTC, s.location)
	require.Nil(t, s.sched)
}

func TestScheduler_Shutdown_NoScheduler_ReturnsNil(t *testing.T) {
	s := NewScheduler(&countingRefresher{}, "", nil)
	require.NoError(t, s.Shutdown())
	require.Nil(t, s.sched)
}

func TestScheduler_Start_InvalidCron(t *testing.T) {
	s := NewScheduler(&countingRefresher{}, "not a cron", nil)
	require.Error(t, s.Start(context.Background()))
	require.Nil(t, s.sched)
}

func TestScheduler_Refresh_SkipsWhenBusy(t *testing.T) {
	refresher := &countingRefresher{err: domain.ErrRefreshInProgress}
	s := NewScheduler(refresher, "", nil)

	require.NoError(t, s.refresh(context.Background()))
	require.EqualValues(t, 1, refresher.calls.Load())
}

func TestScheduler_Refresh_ReturnsFailure(t *testing.T) {
	boom := errors.New("boom")
	refresher := &countingRefresher{err: boom}
	s := NewScheduler(refresher, "", nil)

	require.ErrorIs(t, s.refresh(context.Background()), boom)
	require.EqualValues(t, 1, refresher.calls.Load())
}

func TestScheduler_Start_RegistersCronJob(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	s := NewScheduler(&countingRefresher{}, "0 1 * * *", loc)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	require.Len(t, s.sched.Jobs(), 1)
	require.Equal(t, refreshJobName, s.sched.Jobs()[0].Name())
	require.NoError(t, s.Shutdown())
}

func TestScheduler_Start_And_ContextCancel_ShutsDown(t *testing.T) {
	s := NewScheduler(&countingRefresher{}, "", nil)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, s.Start(ctx))
	require.NotNil(t, s.sched)

	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.sched == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.Nil(t, s.sched, "expected scheduler to be shutdown after ctx cancel")
}

func TestScheduler_Shutdown_AfterStart_Idempotent(t *testing.T) {
	s := NewScheduler(&countingRefresher{}, "", nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.Shutdown())
	require.Nil(t, s.sched)
	require.NoError(t, s.Shutdown())
}
