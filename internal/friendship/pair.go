package friendship

import (
	"bytes"

	"github.com/Dias221467/fitsocial/internal/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Side is a participant's canonical position within a pair.
type Side int

const (
	Low Side = iota
	High
)

func (s Side) String() string {
	if s == Low {
		return "low"
	}
	return "high"
}

// Other returns the opposite side.
func (s Side) Other() Side {
	if s == Low {
		return High
	}
	return Low
}

// Less is the total order over user identifiers used to canonicalize pairs.
// ObjectIDs compare by their 12 raw bytes, which matches comparing their hex strings.
func Less(a, b primitive.ObjectID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

// Pair is an unordered pair of users stored in canonical order: Low < High.
type Pair struct {
	Low  primitive.ObjectID
	High primitive.ObjectID
}

// Canonical orders caller and target and reports the caller's side.
func Canonical(caller, target primitive.ObjectID) (Pair, Side, error) {
	if caller == target {
		return Pair{}, Low, apperr.ErrSelfRelationship
	}
	if Less(caller, target) {
		return Pair{Low: caller, High: target}, Low, nil
	}
	return Pair{Low: target, High: caller}, High, nil
}

// Key is a stable string form of the pair, used for locking.
func (p Pair) Key() string {
	return p.Low.Hex() + ":" + p.High.Hex()
}
