// Package metrics records per-exchange latency and status for the dispatcher.
//
// A Recorder feeds two sinks: prometheus collectors for scraping, and an
// in-process HDR histogram for percentile summaries.
package metrics

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// CodeNoResponse labels exchanges that never produced a status code
	CodeNoResponse = "none"

	// maxTrackableLatency bounds the HDR histogram, in microseconds
	maxTrackableLatency = 60_000_000
)

// Recorder collects exchange metrics. It is safe for concurrent use.
type Recorder struct {
	mu sync.Mutex

	// Latency histogram (in microseconds for precision)
	histogram *hdrhistogram.Histogram

	total     atomic.Int64
	noReply   atomic.Int64
	suspended atomic.Int64

	latency     *prometheus.HistogramVec
	suspensions prometheus.Counter
}

// Snapshot is a point-in-time summary of a Recorder
type Snapshot struct {
	Total      int64
	NoResponse int64
	Suspended  int64
	Min        time.Duration
	Max        time.Duration
	Mean       time.Duration
	P50        time.Duration
	P95        time.Duration
	P99        time.Duration
}

// NewRecorder creates a recorder whose collectors are registered with reg.
// A nil reg leaves them unregistered.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		histogram: hdrhistogram.New(1, maxTrackableLatency, 3),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "courier_request_duration_seconds",
			Help:    "Duration of dispatched HTTP exchanges by method and status code.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"method", "code"}),
		suspensions: factory.NewCounter(prometheus.CounterOpts{
			Name: "courier_account_suspended_total",
			Help: "Number of account suspended events raised by forbidden responses.",
		}),
	}
}

// Observe records one exchange. A zero code means no response was received.
func (r *Recorder) Observe(method string, code int, d time.Duration) {
	r.total.Add(1)

	label := CodeNoResponse
	if code > 0 {
		label = strconv.Itoa(code)
	} else {
		r.noReply.Add(1)
	}
	r.latency.WithLabelValues(method, label).Observe(d.Seconds())

	us := d.Microseconds()
	if us < 1 {
		us = 1
	}
	if us > maxTrackableLatency {
		us = maxTrackableLatency
	}

	r.mu.Lock()
	_ = r.histogram.RecordValue(us)
	r.mu.Unlock()
}

// ObserveSuspension counts one account suspended event
func (r *Recorder) ObserveSuspension() {
	r.suspended.Add(1)
	r.suspensions.Inc()
}

// Snapshot returns the current summary
func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Snapshot{
		Total:      r.total.Load(),
		NoResponse: r.noReply.Load(),
		Suspended:  r.suspended.Load(),
	}
	if r.histogram.TotalCount() == 0 {
		return s
	}

	s.Min = micros(r.histogram.Min())
	s.Max = micros(r.histogram.Max())
	s.Mean = time.Duration(r.histogram.Mean() * float64(time.Microsecond))
	s.P50 = micros(r.histogram.ValueAtQuantile(50))
	s.P95 = micros(r.histogram.ValueAtQuantile(95))
	s.P99 = micros(r.histogram.ValueAtQuantile(99))
	return s
}

// Reset clears the latency histogram and counters. Prometheus collectors are
// cumulative and are left untouched.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.histogram.Reset()
	r.total.Store(0)
	r.noReply.Store(0)
	r.suspended.Store(0)
}

func micros(v int64) time.Duration {
	return time.Duration(v) * time.Microsecond
}
