package realtime

import (
	"context"

	"github.com/wanderplan/api/data/events"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Threshold is the editor count at which live broadcast switches on.
const Threshold = 2

type Mode bool

const (
	ModeDisabled Mode = false
	ModeEnabled  Mode = true
)

func (m Mode) String() string {
	if m == ModeEnabled {
		return "enabled"
	}

	return "disabled"
}

// ModeOf derives the mode from an editor count. The mode is never stored; it
// is recomputed from the counter on every mutation.
func ModeOf(count int32) Mode {
	return Mode(count >= Threshold)
}

type Op uint8

const (
	OpIncrement Op = iota
	OpDecrement
)

// Evaluate reports the mode after a counter mutation and whether the
// mutation crossed the threshold. The pre-mutation count is derived from the
// operation's direction, so no per-trip state is held and two processes
// mutating the same trip reach the same verdict for their own mutation.
//
// A clamped decrement (0 -> 0) reconstructs a previous count of 1; both sides
// of the threshold resolve to disabled, so no spurious transition fires.
func Evaluate(op Op, newCount int32) (Mode, bool) {
	prev := newCount

	switch op {
	case OpIncrement:
		prev--
	case OpDecrement:
		prev++
	}

	mode := ModeOf(newCount)

	return mode, mode != ModeOf(prev)
}

// Instance is the mode controller: it re-evaluates the real-time mode after
// every presence counter mutation and announces threshold crossings to the
// trip's room through the relay.
type Instance interface {
	Notify(ctx context.Context, tripID primitive.ObjectID, op Op, newCount int32) Mode
}

type Options struct {
	Events events.Instance
}

type inst struct {
	events events.Instance
}

func New(opt Options) Instance {
	return &inst{
		events: opt.Events,
	}
}

func (r *inst) Notify(ctx context.Context, tripID primitive.ObjectID, op Op, newCount int32) Mode {
	mode, changed := Evaluate(op, newCount)
	if !changed {
		return mode
	}

	id := tripID.Hex()

	if err := r.events.Dispatch(ctx, id, events.EventTypeRealTimeStatus, events.RealTimeStatusPayload{
		TripID:  id,
		Enabled: bool(mode),
	}); err != nil {
		zap.S().Errorw("failed to dispatch real-time status",
			"error", err,
			"trip_id", id,
		)
	}

	zap.S().Debugw("real-time mode transition",
		"trip_id", id,
		"mode", mode.String(),
		"count", newCount,
	)

	return mode
}
