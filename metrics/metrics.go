// Package metrics exposes Prometheus counters and gauges for the
// synchronization server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry         *prometheus.Registry
	messagesTotal    prometheus.Counter
	chatTotal        prometheus.Counter
	droppedConns     prometheus.Counter
	activeLobbies    prometheus.Gauge
	connectedClients prometheus.Gauge
}

// New creates and registers the server's metrics on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	messagesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "watchsync_messages_total",
		Help: "Total number of inbound websocket messages processed",
	})
	chatTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "watchsync_chat_messages_total",
		Help: "Total number of chat messages appended to lobby histories",
	})
	droppedConns := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "watchsync_closed_connections_total",
		Help: "Total number of connections closed, cleanly or not",
	})
	activeLobbies := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "watchsync_active_lobbies",
		Help: "Number of lobbies currently in the store",
	})
	connectedClients := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "watchsync_connected_clients",
		Help: "Number of live websocket connections",
	})

	registry.MustRegister(messagesTotal, chatTotal, droppedConns, activeLobbies, connectedClients)

	return &Metrics{
		registry:         registry,
		messagesTotal:    messagesTotal,
		chatTotal:        chatTotal,
		droppedConns:     droppedConns,
		activeLobbies:    activeLobbies,
		connectedClients: connectedClients,
	}
}

// IncMessages counts one processed inbound message.
func (m *Metrics) IncMessages() { m.messagesTotal.Inc() }

// IncChat counts one appended chat message.
func (m *Metrics) IncChat() { m.chatTotal.Inc() }

// IncClosed counts one closed connection.
func (m *Metrics) IncClosed() { m.droppedConns.Inc() }

// SetActiveLobbies refreshes the lobby gauge.
func (m *Metrics) SetActiveLobbies(n int) { m.activeLobbies.Set(float64(n)) }

// SetConnectedClients refreshes the connection gauge.
func (m *Metrics) SetConnectedClients(n int) { m.connectedClients.Set(float64(n)) }

// Handler serves the registry. updateGauges, when non-nil, runs before
// each scrape so gauges reflect the live store.
func (m *Metrics) Handler(updateGauges func()) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if updateGauges != nil {
			updateGauges()
		}
		promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})
}
