package mutate

import (
	"github.com/wanderplan/api/internal/svc/mongo"
)

type Mutate struct {
	mongo mongo.Instance
}

func New(opt InstanceOptions) *Mutate {
	return &Mutate{
		mongo: opt.Mongo,
	}
}

type InstanceOptions struct {
	Mongo mongo.Instance
}
