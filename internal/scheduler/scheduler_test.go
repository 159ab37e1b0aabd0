package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddJob_ReplacesByTag(t *testing.T) {
	s, err := NewScheduler()
	require.NoError(t, err)
	defer s.Stop()

	require.NoError(t, s.AddJob("stats", time.Hour, func() {}))
	require.NoError(t, s.AddJob("stats", time.Minute, func() {}))
	require.NoError(t, s.AddJob("other", time.Hour, func() {}))
	assert.Equal(t, 2, s.JobCount())

	s.RemoveJobByTag("stats")
	assert.Equal(t, 1, s.JobCount())
}

func TestAddJob_Runs(t *testing.T) {
	s, err := NewScheduler()
	require.NoError(t, err)
	defer s.Stop()

	var runs atomic.Int32
	require.NoError(t, s.AddJob("tick", 20*time.Millisecond, func() { runs.Add(1) }))
	s.Start()

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestAddJob_InvalidInterval(t *testing.T) {
	s, err := NewScheduler()
	require.NoError(t, err)
	defer s.Stop()

	assert.Error(t, s.AddJob("bad", 0, func() {}))
}
