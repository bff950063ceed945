package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/wanderplan/api/internal/instance"
)

type Options struct {
	Labels prometheus.Labels
}

func New(o Options) instance.Prometheus {
	return &Instance{
		connectionsOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "api_gateway_connections_open",
			Help:        "Number of open socket connections",
			ConstLabels: o.Labels,
		}),
		roomSubscriptions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "api_gateway_room_subscriptions",
			Help:        "Number of active room subscriptions",
			ConstLabels: o.Labels,
		}),
		editingSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "api_gateway_editing_sessions",
			Help:        "Number of live editing sessions on this process",
			ConstLabels: o.Labels,
		}),
		eventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "api_events_published_total",
			Help:        "Envelopes published to the relay",
			ConstLabels: o.Labels,
		}),
		eventsDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "api_events_delivered_total",
			Help:        "Envelopes delivered to local room subscribers",
			ConstLabels: o.Labels,
		}),
	}
}

type Instance struct {
	connectionsOpen   prometheus.Gauge
	roomSubscriptions prometheus.Gauge
	editingSessions   prometheus.Gauge
	eventsPublished   prometheus.Counter
	eventsDelivered   prometheus.Counter
}

func (m *Instance) Register(r prometheus.Registerer) {
	r.MustRegister(
		m.connectionsOpen,
		m.roomSubscriptions,
		m.editingSessions,
		m.eventsPublished,
		m.eventsDelivered,
	)
}

func (m *Instance) ConnectionsOpen() prometheus.Gauge {
	return m.connectionsOpen
}

func (m *Instance) RoomSubscriptions() prometheus.Gauge {
	return m.roomSubscriptions
}

func (m *Instance) EditingSessions() prometheus.Gauge {
	return m.editingSessions
}

func (m *Instance) EventsPublished() prometheus.Counter {
	return m.eventsPublished
}

func (m *Instance) EventsDelivered() prometheus.Counter {
	return m.eventsDelivered
}
