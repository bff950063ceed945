package instance

import "github.com/prometheus/client_golang/prometheus"

type Prometheus interface {
	Register(r prometheus.Registerer)

	ConnectionsOpen() prometheus.Gauge
	RoomSubscriptions() prometheus.Gauge
	EditingSessions() prometheus.Gauge
	EventsPublished() prometheus.Counter
	EventsDelivered() prometheus.Counter
}
