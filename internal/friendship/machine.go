// Package friendship holds the relationship state machine. It has no storage dependency:
// callers read the current record, ask Transition what to do, and perform a single write.
package friendship

import (
	"fmt"

	"github.com/Dias221467/fitsocial/internal/apperr"
)

// Action is the write a transition asks for.
type Action int

const (
	ActionCreate Action = iota + 1
	ActionUpdate
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	}
	return "unknown"
}

// Outcome is the result of a successful transition. Status is empty for ActionDelete.
type Outcome struct {
	Action Action
	Status Status
}

// Transition decides what op by the caller on the given side does to a relationship.
// current is nil when no record exists for the pair.
func Transition(current *Status, caller Side, op Operation) (Outcome, error) {
	if current == nil {
		return fromNone(caller, op)
	}
	if !current.Valid() {
		return Outcome{}, fmt.Errorf("relationship has unknown status %q", *current)
	}

	switch op {
	case OpSend:
		return send(*current)
	case OpAccept:
		return accept(*current, caller)
	case OpBlock:
		return block(*current, caller)
	case OpUnblock:
		return unblock(*current, caller)
	case OpUnfriend:
		return unfriend(*current)
	}
	return Outcome{}, fmt.Errorf("unknown friendship operation %q", op)
}

func fromNone(caller Side, op Operation) (Outcome, error) {
	switch op {
	case OpSend:
		return Outcome{Action: ActionCreate, Status: pendingAwaiting(caller.Other())}, nil
	case OpBlock:
		return Outcome{Action: ActionCreate, Status: blockedBy(caller)}, nil
	case OpAccept, OpUnblock, OpUnfriend:
		return Outcome{}, apperr.ErrInvalidOperation
	}
	return Outcome{}, fmt.Errorf("unknown friendship operation %q", op)
}

func send(current Status) (Outcome, error) {
	switch current {
	case StatusPendingAwaitingLow, StatusPendingAwaitingHigh:
		return Outcome{}, apperr.ErrAlreadyPending
	case StatusFriends:
		return Outcome{}, apperr.ErrAlreadyFriends
	case StatusBlockedByLow, StatusBlockedByHigh, StatusBlockedBoth:
		return Outcome{}, apperr.ErrInvalidOperation
	}
	return Outcome{}, fmt.Errorf("relationship has unknown status %q", current)
}

func accept(current Status, caller Side) (Outcome, error) {
	switch current {
	case StatusPendingAwaitingLow, StatusPendingAwaitingHigh:
		// Only the awaited side may accept; the sender accepting its own request is refused.
		if current != pendingAwaiting(caller) {
			return Outcome{}, apperr.ErrNoSuchRequest
		}
		return Outcome{Action: ActionUpdate, Status: StatusFriends}, nil
	case StatusFriends, StatusBlockedByLow, StatusBlockedByHigh, StatusBlockedBoth:
		return Outcome{}, apperr.ErrInvalidOperation
	}
	return Outcome{}, fmt.Errorf("relationship has unknown status %q", current)
}

func block(current Status, caller Side) (Outcome, error) {
	switch current {
	case StatusPendingAwaitingLow, StatusPendingAwaitingHigh, StatusFriends:
		return Outcome{Action: ActionUpdate, Status: blockedBy(caller)}, nil
	case StatusBlockedByLow, StatusBlockedByHigh:
		if current == blockedBy(caller) {
			return Outcome{}, apperr.ErrAlreadyBlocking
		}
		return Outcome{Action: ActionUpdate, Status: StatusBlockedBoth}, nil
	case StatusBlockedBoth:
		return Outcome{}, apperr.ErrAlreadyBlocking
	}
	return Outcome{}, fmt.Errorf("relationship has unknown status %q", current)
}

func unblock(current Status, caller Side) (Outcome, error) {
	switch current {
	case StatusPendingAwaitingLow, StatusPendingAwaitingHigh, StatusFriends:
		return Outcome{}, apperr.ErrNotBlocking
	case StatusBlockedBoth:
		return Outcome{Action: ActionUpdate, Status: blockedBy(caller.Other())}, nil
	case StatusBlockedByLow, StatusBlockedByHigh:
		if current != blockedBy(caller) {
			return Outcome{}, apperr.ErrNotBlocking
		}
		return Outcome{Action: ActionDelete}, nil
	}
	return Outcome{}, fmt.Errorf("relationship has unknown status %q", current)
}

func unfriend(current Status) (Outcome, error) {
	switch current {
	case StatusFriends:
		return Outcome{Action: ActionDelete}, nil
	case StatusPendingAwaitingLow, StatusPendingAwaitingHigh,
		StatusBlockedByLow, StatusBlockedByHigh, StatusBlockedBoth:
		return Outcome{}, apperr.ErrNotFriends
	}
	return Outcome{}, fmt.Errorf("relationship has unknown status %q", current)
}
