package scheduler_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/scheduler"
)

func TestScheduleInterval_RejectsNonPositive(t *testing.T) {
	s := scheduler.New(nil)

	_, err := s.ScheduleInterval(0, func() {})
	assert.Error(t, err)
	_, err = s.ScheduleInterval(-time.Minute, func() {})
	assert.Error(t, err)
}

func TestScheduleInterval_RunsJob(t *testing.T) {
	s := scheduler.New(time.UTC)
	var runs atomic.Int32

	_, err := s.ScheduleInterval(500*time.Millisecond, func() { runs.Add(1) })
	require.NoError(t, err)
	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}
