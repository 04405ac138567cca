package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ============================================================
// Prometheus метрики цикла мониторинга рисков
// ============================================================
//
// Использование:
// - Grafana дашборды для визуализации
// - Alertmanager для уведомлений о проблемах
// - Анализ поведения цикла в production

// ============ Метрики латентности ============

// TickDuration - длительность одного тика мониторинга
var TickDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: "hedgebot",
		Subsystem: "monitoring",
		Name:      "tick_duration_ms",
		Help:      "Duration of a full monitoring tick in milliseconds",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
	},
)

// EvaluationLatency - время одной оценки риска
var EvaluationLatency = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "hedgebot",
		Subsystem: "monitoring",
		Name:      "evaluation_latency_ms",
		Help:      "Time to evaluate risk for a single monitor in milliseconds",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 25, 50, 100, 500},
	},
	[]string{"asset"},
)

// ============ Счётчики событий ============

// AlertsFired - отправленные риск-алерты
var AlertsFired = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "hedgebot",
		Subsystem: "monitoring",
		Name:      "alerts_fired_total",
		Help:      "Total number of risk alerts sent",
	},
	[]string{"asset", "reason"}, // reason: delta, var
)

// AlertsSuppressed - алерты, подавленные cooldown-окном
var AlertsSuppressed = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "hedgebot",
		Subsystem: "monitoring",
		Name:      "alerts_suppressed_total",
		Help:      "Number of alerts suppressed by the cooldown window",
	},
)

// HedgesTotal - исполненные хеджи
var HedgesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "hedgebot",
		Subsystem: "hedging",
		Name:      "hedges_total",
		Help:      "Total number of hedge executions",
	},
	[]string{"asset", "mode", "status"}, // mode: auto, manual; status: filled, failed
)

// DataUnavailableTotal - пропуски оценки из-за недоступности данных
var DataUnavailableTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "hedgebot",
		Subsystem: "monitoring",
		Name:      "data_unavailable_total",
		Help:      "Number of evaluations skipped due to unavailable market data",
	},
	[]string{"asset"},
)

// LoopFailures - сбои на уровне тика (panic, общая ошибка)
var LoopFailures = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "hedgebot",
		Subsystem: "monitoring",
		Name:      "loop_failures_total",
		Help:      "Number of tick-level failures followed by backoff",
	},
)

// ============ Метрики состояния ============

// ActiveMonitors - текущее количество активных мониторов
var ActiveMonitors = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "hedgebot",
		Subsystem: "monitoring",
		Name:      "active_monitors",
		Help:      "Current number of active risk monitors",
	},
)

// BufferOverflows - переполнения буферов каналов уведомлений
var BufferOverflows = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "hedgebot",
		Subsystem: "monitoring",
		Name:      "buffer_overflows_total",
		Help:      "Number of channel buffer overflows (events dropped)",
	},
	[]string{"buffer"}, // notification
)

// ============ Вспомогательные функции ============

// RecordTickDuration записывает длительность тика
func RecordTickDuration(ms float64) {
	TickDuration.Observe(ms)
}

// RecordEvaluation записывает латентность оценки риска
func RecordEvaluation(asset string, latencyMs float64) {
	EvaluationLatency.WithLabelValues(asset).Observe(latencyMs)
}

// RecordAlert записывает отправленный алерт
func RecordAlert(asset, reason string) {
	AlertsFired.WithLabelValues(asset, reason).Inc()
}

// RecordAlertSuppressed записывает подавленный cooldown-ом алерт
func RecordAlertSuppressed() {
	AlertsSuppressed.Inc()
}

// RecordHedgeExecution записывает исполнение хеджа
func RecordHedgeExecution(asset, mode, status string) {
	HedgesTotal.WithLabelValues(asset, mode, status).Inc()
}

// RecordDataUnavailable записывает пропуск оценки
func RecordDataUnavailable(asset string) {
	DataUnavailableTotal.WithLabelValues(asset).Inc()
}

// RecordLoopFailure записывает сбой тика
func RecordLoopFailure() {
	LoopFailures.Inc()
}

// UpdateActiveMonitors обновляет счетчик активных мониторов
func UpdateActiveMonitors(count int) {
	ActiveMonitors.Set(float64(count))
}

// RecordBufferOverflow записывает переполнение буфера
func RecordBufferOverflow(bufferName string) {
	BufferOverflows.WithLabelValues(bufferName).Inc()
}
