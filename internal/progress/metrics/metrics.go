// Package metrics: 진행도 저장/로드 관련 Prometheus 지표.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stellar_progress"

// 결과 라벨 값
const (
	ResultOK        = "ok"
	ResultError     = "error"
	ResultMissing   = "missing"
	ResultMalformed = "malformed"
	ResultCoalesced = "coalesced"
)

// Metrics: 진행도 서비스 지표 묶음. 전용 Registry에 등록된다.
type Metrics struct {
	registry *prometheus.Registry

	saves        *prometheus.CounterVec
	loads        *prometheus.CounterVec
	saveDuration prometheus.Histogram
	repairs      prometheus.Counter
	cyclesClosed *prometheus.CounterVec
	stageResults *prometheus.CounterVec
}

// New: 지표를 생성하고 전용 Registry에 등록한다. Go 런타임 지표도 함께 노출한다.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saves_total",
			Help:      "Progress save attempts by result.",
		}, []string{"result"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loads_total",
			Help:      "Progress load attempts by result.",
		}, []string{"result"}),
		saveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "save_duration_seconds",
			Help:      "Backend write latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		repairs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payload_repairs_total",
			Help:      "Malformed stored fields repaired to defaults during load.",
		}),
		cyclesClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_advanced_total",
			Help:      "Cycle advances by whether a snapshot was archived.",
		}, []string{"archived"}),
		stageResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Recorded stage results by game kind.",
		}, []string{"kind"}),
	}

	m.registry.MustRegister(
		m.saves,
		m.loads,
		m.saveDuration,
		m.repairs,
		m.cyclesClosed,
		m.stageResults,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler: /metrics 핸들러
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveSave 는 저장 결과와 소요 시간을 기록한다. nil receiver는 무시된다.
func (m *Metrics) ObserveSave(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.saves.WithLabelValues(result).Inc()
	if result == ResultOK || result == ResultError {
		m.saveDuration.Observe(elapsed.Seconds())
	}
}

// ObserveLoad 는 로드 결과를 기록한다.
func (m *Metrics) ObserveLoad(result string) {
	if m == nil {
		return
	}
	m.loads.WithLabelValues(result).Inc()
}

// AddRepairs 는 로드 중 복구된 필드 수를 더한다.
func (m *Metrics) AddRepairs(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.repairs.Add(float64(n))
}

// ObserveCycleAdvance 는 사이클 전환을 기록한다.
func (m *Metrics) ObserveCycleAdvance(archived bool) {
	if m == nil {
		return
	}
	label := "false"
	if archived {
		label = "true"
	}
	m.cyclesClosed.WithLabelValues(label).Inc()
}

// ObserveStageResult 는 스테이지 결과 기록을 센다.
func (m *Metrics) ObserveStageResult(kind string) {
	if m == nil {
		return
	}
	m.stageResults.WithLabelValues(kind).Inc()
}
