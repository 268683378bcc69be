package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.Observe("GET", 200, 10*time.Millisecond)
	r.Observe("GET", 200, 20*time.Millisecond)
	r.Observe("POST", 500, 30*time.Millisecond)
	r.Observe("GET", 0, 5*time.Millisecond)

	s := r.Snapshot()
	assert.Equal(t, int64(4), s.Total)
	assert.Equal(t, int64(1), s.NoResponse)
	assert.InDelta(t, float64(5*time.Millisecond), float64(s.Min), float64(50*time.Microsecond))
	assert.InDelta(t, float64(30*time.Millisecond), float64(s.Max), float64(100*time.Microsecond))
	assert.True(t, s.P50 <= s.P95)
	assert.True(t, s.P95 <= s.P99)

	count, err := testutil.GatherAndCount(reg, "courier_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestRecorder_ObserveSuspension(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())

	r.ObserveSuspension()
	r.ObserveSuspension()

	assert.Equal(t, int64(2), r.Snapshot().Suspended)
	assert.Equal(t, float64(2), testutil.ToFloat64(r.suspensions))
}

func TestRecorder_EmptySnapshot(t *testing.T) {
	r := NewRecorder(nil)

	s := r.Snapshot()
	assert.Equal(t, int64(0), s.Total)
	assert.Equal(t, time.Duration(0), s.P99)
}

func TestRecorder_Reset(t *testing.T) {
	r := NewRecorder(nil)
	r.Observe("GET", 200, time.Millisecond)
	r.ObserveSuspension()

	r.Reset()

	s := r.Snapshot()
	assert.Equal(t, int64(0), s.Total)
	assert.Equal(t, int64(0), s.Suspended)
	assert.Equal(t, time.Duration(0), s.Max)
}

func TestRecorder_Concurrent(t *testing.T) {
	r := NewRecorder(nil)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Observe("GET", 200, time.Duration(i+1)*time.Millisecond)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(100), r.Snapshot().Total)
}
