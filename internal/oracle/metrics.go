package oracle

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scaleCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tally_oracle_scale_calls_total",
		Help: "Oracle scale calls by outcome.",
	}, []string{"outcome"})
	scaleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tally_oracle_scale_duration_seconds",
		Help:    "Oracle scale call latency.",
		Buckets: prometheus.DefBuckets,
	})
)

// Instrumented wraps a Client with call and latency metrics.
type Instrumented struct {
	next Client
}

// Instrument wraps the given oracle client.
func Instrument(next Client) *Instrumented {
	return &Instrumented{next: next}
}

func (c *Instrumented) Scale(ctx context.Context, subject, value string) (float64, error) {
	start := time.Now()
	score, err := c.next.Scale(ctx, subject, value)
	scaleDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		scaleCalls.WithLabelValues("error").Inc()
		return 0, err
	}
	scaleCalls.WithLabelValues("ok").Inc()
	return score, nil
}
