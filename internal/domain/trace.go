package domain

import (
	"time"
)

type Transition string

const (
	TransitionDispatched Transition = "dispatched"
	TransitionSucceeded  Transition = "succeeded"
	TransitionFailed     Transition = "failed"
	TransitionSkipped    Transition = "skipped"
)

// TraceEvent is one entry in the deterministic execution trace. Seq orders
// events totally; within a wave, events are recorded in unit registration
// order so that two runs over the same inputs produce the same sequence.
type TraceEvent struct {
	Seq        int        `json:"seq"`
	Unit       string     `json:"unit"`
	Transition Transition `json:"transition"`
	At         time.Time  `json:"at"`
}
