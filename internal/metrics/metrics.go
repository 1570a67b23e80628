// Package metrics содержит коллекторы Prometheus для исходящих запросов к API
// Википедии и последних полученных значений метрик Фикарума.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fika"

// Metrics набор коллекторов. Безопасен для конкурентного использования.
type Metrics struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	inFlight  prometheus.Gauge
	pageviews *prometheus.GaugeVec
	questions prometheus.Gauge
	invitees  prometheus.Gauge
}

// New регистрирует коллекторы в reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wikiapi",
			Name:      "requests_total",
			Help:      "Outgoing requests to the Wikimedia APIs by status code.",
		}, []string{"code", "method"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "wikiapi",
			Name:      "request_duration_seconds",
			Help:      "Latency of outgoing requests to the Wikimedia APIs.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"code", "method"}),
		inFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "wikiapi",
			Name:      "in_flight_requests",
			Help:      "Outgoing requests currently in flight.",
		}),
		pageviews: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pageviews",
			Help:      "Last fetched pageview total per tracked page.",
		}, []string{"project", "page"}),
		questions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "questions",
			Help:      "Last fetched number of questions.",
		}),
		invitees: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "invitees",
			Help:      "Last fetched number of invitees.",
		}),
	}
}

// InstrumentClient возвращает копию hc, транспорт которой считает запросы,
// их длительность и число одновременных запросов.
func (m *Metrics) InstrumentClient(hc *http.Client) *http.Client {
	next := hc.Transport
	if next == nil {
		next = http.DefaultTransport
	}

	instrumented := *hc
	instrumented.Transport = promhttp.InstrumentRoundTripperInFlight(m.inFlight,
		promhttp.InstrumentRoundTripperCounter(m.requests,
			promhttp.InstrumentRoundTripperDuration(m.duration, next),
		),
	)
	return &instrumented
}

// ObservePageviews запоминает сумму просмотров страницы.
func (m *Metrics) ObservePageviews(project, page string, views int64) {
	m.pageviews.WithLabelValues(project, page).Set(float64(views))
}

// ObserveQuestions запоминает число вопросов.
func (m *Metrics) ObserveQuestions(n int) {
	m.questions.Set(float64(n))
}

// ObserveInvitees запоминает число приглашённых.
func (m *Metrics) ObserveInvitees(n int64) {
	m.invitees.Set(float64(n))
}

