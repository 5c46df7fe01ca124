package scheduler

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/capengine/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	runs     int32
	fail     bool
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }
func (j *fakeJob) Run(ctx context.Context) error {
	atomic.AddInt32(&j.runs, 1)
	if j.fail {
		return context.DeadlineExceeded
	}
	return nil
}

func newScheduler() *Scheduler {
	s := New(time.UTC, logger.NewForWriter(io.Discard))
	s.maxRetries = 0
	s.retryDelay = time.Millisecond
	return s
}

func TestAddJobRejectsDuplicates(t *testing.T) {
	s := newScheduler()

	job := &fakeJob{name: "daily", schedule: "0 5 12 * * *"}
	require.NoError(t, s.AddJob(job))
	assert.Error(t, s.AddJob(job))
	assert.Equal(t, []string{"daily"}, s.JobNames())
}

func TestAddJobRejectsBadSchedule(t *testing.T) {
	s := newScheduler()
	assert.Error(t, s.AddJob(&fakeJob{name: "broken", schedule: "not a cron"}))
}

func TestRunJobImmediately(t *testing.T) {
	s := newScheduler()

	job := &fakeJob{name: "daily", schedule: "0 5 12 * * *"}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("daily"))
	waitFor(t, func() bool { return atomic.LoadInt32(&job.runs) == 1 })

	stats := s.Stats()["daily"]
	assert.Equal(t, 1, stats.TotalRuns)
	assert.Equal(t, 1.0, stats.SuccessRate)
	assert.NotNil(t, stats.LastRun)
}

func TestRunJobUnknown(t *testing.T) {
	s := newScheduler()
	assert.Error(t, s.RunJob("ghost"))
}

func TestFailedJobRecorded(t *testing.T) {
	s := newScheduler()

	job := &fakeJob{name: "flaky", schedule: "0 5 12 * * *", fail: true}
	require.NoError(t, s.AddJob(job))
	require.NoError(t, s.RunJob("flaky"))

	waitFor(t, func() bool { return s.Stats()["flaky"].TotalRuns == 1 })

	stats := s.Stats()["flaky"]
	assert.Zero(t, stats.SuccessRate)
	assert.NotEmpty(t, stats.LastError)
}

func TestJobHistoryLimit(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < historyLimit+25; i++ {
		h.AddResult(JobResult{JobName: "j", Success: true})
	}
	assert.Len(t, h.Results, historyLimit)
	assert.Equal(t, 1.0, h.SuccessRate())
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
