package instance

import (
	"github.com/wanderplan/api/data/events"
	"github.com/wanderplan/api/data/mutate"
	"github.com/wanderplan/api/data/query"
	"github.com/wanderplan/api/internal/svc/mongo"
	"github.com/wanderplan/api/internal/svc/presences"
	"github.com/wanderplan/api/internal/svc/realtime"
	"github.com/wanderplan/api/internal/svc/redis"
	"github.com/wanderplan/api/internal/svc/trips"
)

type Instances struct {
	Mongo      mongo.Instance
	Redis      redis.Instance
	Prometheus Prometheus
	Events     events.Instance
	Presences  presences.Instance
	Realtime   realtime.Instance
	Trips      trips.Instance
	Gateway    Gateway

	Query  *query.Query
	Mutate *mutate.Mutate
}
