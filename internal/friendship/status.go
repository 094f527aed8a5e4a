package friendship

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Status is the persisted state of a relationship. The name says which canonical side
// (low or high) is the blocker, or which side has to accept next.
type Status string

const (
	StatusPendingAwaitingLow  Status = "pending_awaiting_low"
	StatusPendingAwaitingHigh Status = "pending_awaiting_high"
	StatusFriends             Status = "friends"
	StatusBlockedByLow        Status = "blocked_by_low"
	StatusBlockedByHigh       Status = "blocked_by_high"
	StatusBlockedBoth         Status = "blocked_both"
)

// Statuses lists every valid status.
var Statuses = []Status{
	StatusPendingAwaitingLow,
	StatusPendingAwaitingHigh,
	StatusFriends,
	StatusBlockedByLow,
	StatusBlockedByHigh,
	StatusBlockedBoth,
}

// legacyStatuses maps spellings written by older deployments onto the canonical ones.
// In the old numbering user1 is the low side, so "pending_1to2" (1 sent to 2) awaits high.
var legacyStatuses = map[string]Status{
	"pending_1to2":      StatusPendingAwaitingHigh,
	"pending_2to1":      StatusPendingAwaitingLow,
	"pending_awaiting2": StatusPendingAwaitingHigh,
	"pending_awaiting1": StatusPendingAwaitingLow,
	"blocked_by1":       StatusBlockedByLow,
	"blocked_by2":       StatusBlockedByHigh,
	"block_both":        StatusBlockedBoth,
}

// ParseStatus accepts canonical and legacy spellings.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if st.Valid() {
		return st, nil
	}
	if legacy, ok := legacyStatuses[s]; ok {
		return legacy, nil
	}
	return "", fmt.Errorf("unknown friendship status %q", s)
}

// Valid reports whether s is one of the canonical statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPendingAwaitingLow, StatusPendingAwaitingHigh, StatusFriends,
		StatusBlockedByLow, StatusBlockedByHigh, StatusBlockedBoth:
		return true
	}
	return false
}

// IsPending reports whether s is one of the pending statuses.
func (s Status) IsPending() bool {
	return s == StatusPendingAwaitingLow || s == StatusPendingAwaitingHigh
}

// UnmarshalBSONValue normalizes legacy spellings when a relationship is read back.
func (s *Status) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw, ok := bson.RawValue{Type: t, Value: data}.StringValueOK()
	if !ok {
		return fmt.Errorf("friendship status must be a string, got %s", t)
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func pendingAwaiting(side Side) Status {
	if side == Low {
		return StatusPendingAwaitingLow
	}
	return StatusPendingAwaitingHigh
}

func blockedBy(side Side) Status {
	if side == Low {
		return StatusBlockedByLow
	}
	return StatusBlockedByHigh
}
