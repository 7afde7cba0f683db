package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTask(t *testing.T, fn func(context.Context)) (*Task, *clock.Mock, context.CancelFunc) {
	t.Helper()
	mock := clock.NewMock()
	task := NewTask("refresh", 30*time.Second, mock, fn, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go task.Run(ctx)
	t.Cleanup(cancel)
	return task, mock, cancel
}

func TestTask_RunsOnStartAndEveryInterval(t *testing.T) {
	var runs atomic.Int32
	_, mock, _ := startTask(t, func(context.Context) { runs.Add(1) })

	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, time.Millisecond)

	mock.Add(30 * time.Second)
	assert.Eventually(t, func() bool { return runs.Load() == 2 }, time.Second, time.Millisecond)

	mock.Add(30 * time.Second)
	assert.Eventually(t, func() bool { return runs.Load() == 3 }, time.Second, time.Millisecond)
}

func TestTask_PauseResume(t *testing.T) {
	var runs atomic.Int32
	task, mock, _ := startTask(t, func(context.Context) { runs.Add(1) })
	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, time.Millisecond)

	task.Pause()
	assert.True(t, task.Paused())
	mock.Add(30 * time.Second)
	mock.Add(30 * time.Second)
	assert.Never(t, func() bool { return runs.Load() > 1 }, 50*time.Millisecond, 5*time.Millisecond)

	task.Resume()
	assert.False(t, task.Paused())
	assert.Eventually(t, func() bool { return runs.Load() == 2 }, time.Second, time.Millisecond)

	mock.Add(30 * time.Second)
	assert.Eventually(t, func() bool { return runs.Load() == 3 }, time.Second, time.Millisecond)
}

func TestTask_ResumeWhenRunningDoesNotTrigger(t *testing.T) {
	var runs atomic.Int32
	task, _, _ := startTask(t, func(context.Context) { runs.Add(1) })
	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, time.Millisecond)

	task.Resume()
	assert.Never(t, func() bool { return runs.Load() > 1 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestTask_TriggerAndStop(t *testing.T) {
	var runs atomic.Int32
	task, mock, cancel := startTask(t, func(context.Context) { runs.Add(1) })
	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, time.Millisecond)

	task.Trigger()
	require.Eventually(t, func() bool { return runs.Load() == 2 }, time.Second, time.Millisecond)

	cancel()
	time.Sleep(10 * time.Millisecond)
	mock.Add(time.Minute)
	assert.Never(t, func() bool { return runs.Load() > 2 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestTask_RecoversFromPanic(t *testing.T) {
	var runs atomic.Int32
	_, mock, _ := startTask(t, func(context.Context) {
		if runs.Add(1) == 1 {
			panic("boom")
		}
	})
	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, time.Millisecond)

	mock.Add(30 * time.Second)
	assert.Eventually(t, func() bool { return runs.Load() == 2 }, time.Second, time.Millisecond)
}
