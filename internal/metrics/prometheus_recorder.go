package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "tocer"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	registry        *prom.Registry
	syncDuration    prom.Histogram
	syncOutcome     *prom.CounterVec
	documentActions *prom.CounterVec
	commandDuration *prom.HistogramVec
	commandResults  *prom.CounterVec
	lastSuccess     prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.once.Do(func() {
		pr.syncDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "sync_duration_seconds",
			Help:      "Duration of a full synchronization pass",
			Buckets:   prom.DefBuckets,
		})
		pr.syncOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "sync_outcomes_total",
			Help:      "Synchronization passes by final status",
		}, []string{"outcome"})
		pr.documentActions = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "document_actions_total",
			Help:      "Documents created, renamed, updated, left unchanged or pruned",
		}, []string{"action"})
		pr.commandDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Duration of individual code tag commands",
			Buckets:   prom.DefBuckets,
		}, []string{"result"})
		pr.commandResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "command_results_total",
			Help:      "Code tag command results",
		}, []string{"result"})
		pr.lastSuccess = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful synchronization pass",
		})
		reg.MustRegister(pr.syncDuration, pr.syncOutcome, pr.documentActions, pr.commandDuration, pr.commandResults, pr.lastSuccess)
	})
	return pr
}

// Registry returns the registry the metrics are registered with.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.registry
}

func (p *PrometheusRecorder) ObserveSyncDuration(d time.Duration) {
	if p == nil || p.syncDuration == nil {
		return
	}
	p.syncDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncSyncOutcome(outcome OutcomeLabel) {
	if p == nil || p.syncOutcome == nil {
		return
	}
	p.syncOutcome.WithLabelValues(string(outcome)).Inc()
	if outcome == OutcomeSuccess {
		p.lastSuccess.SetToCurrentTime()
	}
}

func (p *PrometheusRecorder) IncDocumentAction(action ActionLabel) {
	if p == nil || p.documentActions == nil {
		return
	}
	p.documentActions.WithLabelValues(string(action)).Inc()
}

func (p *PrometheusRecorder) ObserveCommandDuration(d time.Duration, result ResultLabel) {
	if p == nil || p.commandDuration == nil {
		return
	}
	p.commandDuration.WithLabelValues(string(result)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncCommandResult(result ResultLabel) {
	if p == nil || p.commandResults == nil {
		return
	}
	p.commandResults.WithLabelValues(string(result)).Inc()
}
