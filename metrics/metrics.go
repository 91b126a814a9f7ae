package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Default is the recorder used by services and jobs. A nil recorder is a no-op,
// so packages can record unconditionally before main wires a registry.
var Default *Recorder

// Recorder groups the counters exported on /metrics.
type Recorder struct {
	transitions *prometheus.CounterVec
	points      *prometheus.CounterVec
	Cron        *CronJobMetrics
}

// New registers every collector on reg. A nil reg yields a recorder that drops all samples.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		return &Recorder{Cron: &CronJobMetrics{}}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_transitions_total",
		Help: "Booking lifecycle transitions by outcome.",
	}, []string{"transition", "outcome"})
	points := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "points_awarded_total",
		Help: "Gamification points awarded by action.",
	}, []string{"action"})
	reg.MustRegister(transitions, points)
	return &Recorder{
		transitions: transitions,
		points:      points,
		Cron:        NewCronJobMetrics(reg),
	}
}

// Transition counts one attempted lifecycle transition. Outcome is "ok" or an error code.
func (r *Recorder) Transition(transition, outcome string) {
	if r == nil || r.transitions == nil {
		return
	}
	r.transitions.WithLabelValues(normalizeLabel(transition), normalizeLabel(outcome)).Inc()
}

func (r *Recorder) PointsAwarded(action string, points int) {
	if r == nil || r.points == nil || points <= 0 {
		return
	}
	r.points.WithLabelValues(normalizeLabel(action)).Add(float64(points))
}

// CronMetrics returns the job recorder, tolerating a nil Recorder.
func (r *Recorder) CronMetrics() *CronJobMetrics {
	if r == nil {
		return nil
	}
	return r.Cron
}

// CronJobMetrics records metadata for scheduled jobs.
type CronJobMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewCronJobMetrics registers the cron job metrics on the provided registerer.
func NewCronJobMetrics(reg prometheus.Registerer) *CronJobMetrics {
	if reg == nil {
		return &CronJobMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "job_duration_seconds",
		Help:    "Duration of cron jobs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "job_success",
		Help: "Successful cron job executions.",
	}, []string{"job"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "job_failure",
		Help: "Failed cron job executions.",
	}, []string{"job"})
	reg.MustRegister(duration, success, failure)
	return &CronJobMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// Track times fn and records success or failure under job.
func (c *CronJobMetrics) Track(job string, fn func() error) error {
	start := time.Now()
	err := fn()
	c.ObserveDuration(job, time.Since(start))
	if err != nil {
		c.IncFailure(job)
	} else {
		c.IncSuccess(job)
	}
	return err
}

func (c *CronJobMetrics) ObserveDuration(job string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(job)).Observe(duration.Seconds())
}

func (c *CronJobMetrics) IncSuccess(job string) {
	if c == nil || c.success == nil {
		return
	}
	c.success.WithLabelValues(normalizeLabel(job)).Inc()
}

func (c *CronJobMetrics) IncFailure(job string) {
	if c == nil || c.failure == nil {
		return
	}
	c.failure.WithLabelValues(normalizeLabel(job)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
