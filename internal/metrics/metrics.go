package metrics

import (
	"net/http"

	"github.com/Mugiii7/CustomHA/internal/core/port"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "demohome"

type Metrics struct {
	Registry       *prometheus.Registry
	ServiceCalls   *prometheus.CounterVec
	BridgeMessages *prometheus.CounterVec
	MQTTPublished  prometheus.Counter
	ModbusRequests *prometheus.CounterVec
}

// New registers every collector on a fresh registry, along with the Go and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		ServiceCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "service_calls_total",
				Help:      "Total number of service calls by outcome",
			},
			[]string{"domain", "service", "outcome"},
		),
		BridgeMessages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bridge_messages_total",
				Help:      "Total number of bridge envelopes received from hosts",
			},
			[]string{"type"},
		),
		MQTTPublished: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mqtt_published_total",
				Help:      "Total number of MQTT messages published",
			},
		),
		ModbusRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "modbus_requests_total",
				Help:      "Total number of modbus requests by table and direction",
			},
			[]string{"table", "op"},
		),
	}
	m.Registry.MustRegister(
		m.ServiceCalls,
		m.BridgeMessages,
		m.MQTTPublished,
		m.ModbusRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ServiceCall(domain string, service string, outcome string) {
	m.ServiceCalls.WithLabelValues(domain, service, outcome).Inc()
}

func (m *Metrics) BridgeMessage(messageType string) {
	m.BridgeMessages.WithLabelValues(messageType).Inc()
}

func (m *Metrics) MQTTPublish() {
	m.MQTTPublished.Inc()
}

func (m *Metrics) ModbusRequest(table string, write bool) {
	op := "read"
	if write {
		op = "write"
	}
	m.ModbusRequests.WithLabelValues(table, op).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// ensure interface compliance
var _ port.ServiceCallRecorder = (*Metrics)(nil)
