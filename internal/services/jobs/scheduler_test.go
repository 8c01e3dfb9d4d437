package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/admin/cosmic-connect/internal/pkg/logger"
	"github.com/admin/cosmic-connect/internal/usecases/usecasetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyJob struct {
	mu       sync.Mutex
	failures int
	runs     int
}

func (j *flakyJob) Name() string { return "flaky" }

func (j *flakyJob) NextRun(now time.Time) time.Time { return now.Add(time.Millisecond) }

func (j *flakyJob) Run(context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.runs++
	if j.runs <= j.failures {
		return errors.New("transient failure")
	}
	return nil
}

func (j *flakyJob) Runs() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.runs
}

func newScheduler(alerter *usecasetest.Alerter) *Scheduler {
	s := NewScheduler(logger.Discard(), alerter)
	s.retries = []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}
	return s
}

func TestRetryRecovers(t *testing.T) {
	alerter := &usecasetest.Alerter{}
	s := newScheduler(alerter)
	job := &flakyJob{failures: 2}

	attempts, err := s.executeJobWithRetry(context.Background(), job)
	require.NoError(t, err)
	assert.Nil(t, attempts)
	assert.Equal(t, 3, job.Runs())
}

func TestRetryExhaustedAlerts(t *testing.T) {
	alerter := &usecasetest.Alerter{}
	s := newScheduler(alerter)
	job := &flakyJob{failures: 100}

	attempts, err := s.executeJobWithRetry(context.Background(), job)
	require.Error(t, err)
	require.Len(t, attempts, 4)
	assert.Equal(t, 4, attempts[3].attempt)

	s.sendAlert(context.Background(), job.Name(), attempts)
	require.Len(t, alerter.Messages(), 1)
	assert.Contains(t, alerter.Messages()[0], "Job: flaky")
	assert.Contains(t, alerter.Messages()[0], "4: transient failure")
}

func TestStartStopsWithContext(t *testing.T) {
	s := NewScheduler(logger.Discard(), nil)
	job := &flakyJob{}
	s.Register(job)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	assert.Eventually(t, func() bool { return job.Runs() >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestNextRun(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	reconciler := NewActivationReconciler(nil, 0, logger.Discard())
	assert.Equal(t, time.Date(2026, 3, 14, 15, 10, 0, 0, time.UTC), reconciler.NextRun(now))

	reminder := NewPendingPaymentsReminder(nil, time.Hour, logger.Discard())
	assert.Equal(t, time.Date(2026, 3, 14, 16, 0, 0, 0, time.UTC), reminder.NextRun(now))
}
