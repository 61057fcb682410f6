package document

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition indicates the requested transition is not allowed from the current status.
var ErrInvalidTransition = errors.New("document: transition not allowed")

// Transition names a workflow move triggered by a user intent.
type Transition string

const (
	TransitionPublish Transition = "publish"
	TransitionApprove Transition = "approve"
	TransitionReject  Transition = "reject"
)

// transitions maps each status to the moves available from it. Approved, rejected
// and published are terminal.
var transitions = map[Status]map[Transition]Status{
	StatusDraft: {
		TransitionPublish: StatusPublished,
		TransitionApprove: StatusApproved,
		TransitionReject:  StatusRejected,
	},
}

// Next returns the status reached by applying t from the status from.
func Next(from Status, t Transition) (Status, error) {
	to, ok := transitions[from][t]
	if !ok {
		return "", fmt.Errorf("%w: %s from %s", ErrInvalidTransition, t, from)
	}
	return to, nil
}

// CanTransition reports whether t is available from the status from.
func CanTransition(from Status, t Transition) bool {
	_, ok := transitions[from][t]
	return ok
}

// Available lists the transitions reachable from the status from, in a stable order.
func Available(from Status) []Transition {
	out := make([]Transition, 0, 3)
	for _, t := range []Transition{TransitionPublish, TransitionApprove, TransitionReject} {
		if CanTransition(from, t) {
			out = append(out, t)
		}
	}
	return out
}
