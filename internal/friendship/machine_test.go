package friendship

import (
	"testing"

	"github.com/Dias221467/fitsocial/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func st(s Status) *Status { return &s }

func TestTransition_Table(t *testing.T) {
	create := func(s Status) Outcome { return Outcome{Action: ActionCreate, Status: s} }
	update := func(s Status) Outcome { return Outcome{Action: ActionUpdate, Status: s} }
	del := Outcome{Action: ActionDelete}

	cases := []struct {
		name    string
		current *Status
		caller  Side
		op      Operation
		want    Outcome
		wantErr error
	}{
		// no record
		{"none send low", nil, Low, OpSend, create(StatusPendingAwaitingHigh), nil},
		{"none send high", nil, High, OpSend, create(StatusPendingAwaitingLow), nil},
		{"none block low", nil, Low, OpBlock, create(StatusBlockedByLow), nil},
		{"none block high", nil, High, OpBlock, create(StatusBlockedByHigh), nil},
		{"none accept", nil, Low, OpAccept, Outcome{}, apperr.ErrInvalidOperation},
		{"none unblock", nil, High, OpUnblock, Outcome{}, apperr.ErrInvalidOperation},
		{"none unfriend", nil, Low, OpUnfriend, Outcome{}, apperr.ErrInvalidOperation},

		// send on existing
		{"send pending", st(StatusPendingAwaitingHigh), Low, OpSend, Outcome{}, apperr.ErrAlreadyPending},
		{"send pending reverse", st(StatusPendingAwaitingHigh), High, OpSend, Outcome{}, apperr.ErrAlreadyPending},
		{"send friends", st(StatusFriends), Low, OpSend, Outcome{}, apperr.ErrAlreadyFriends},
		{"send blocked", st(StatusBlockedByLow), High, OpSend, Outcome{}, apperr.ErrInvalidOperation},

		// accept
		{"accept awaited low", st(StatusPendingAwaitingLow), Low, OpAccept, update(StatusFriends), nil},
		{"accept awaited high", st(StatusPendingAwaitingHigh), High, OpAccept, update(StatusFriends), nil},
		{"accept own request low", st(StatusPendingAwaitingHigh), Low, OpAccept, Outcome{}, apperr.ErrNoSuchRequest},
		{"accept own request high", st(StatusPendingAwaitingLow), High, OpAccept, Outcome{}, apperr.ErrNoSuchRequest},
		{"accept friends", st(StatusFriends), High, OpAccept, Outcome{}, apperr.ErrInvalidOperation},
		{"accept blocked", st(StatusBlockedBoth), Low, OpAccept, Outcome{}, apperr.ErrInvalidOperation},

		// block
		{"block pending low", st(StatusPendingAwaitingLow), Low, OpBlock, update(StatusBlockedByLow), nil},
		{"block pending high", st(StatusPendingAwaitingLow), High, OpBlock, update(StatusBlockedByHigh), nil},
		{"block friends low", st(StatusFriends), Low, OpBlock, update(StatusBlockedByLow), nil},
		{"block friends high", st(StatusFriends), High, OpBlock, update(StatusBlockedByHigh), nil},
		{"block again low", st(StatusBlockedByLow), Low, OpBlock, Outcome{}, apperr.ErrAlreadyBlocking},
		{"block again high", st(StatusBlockedByHigh), High, OpBlock, Outcome{}, apperr.ErrAlreadyBlocking},
		{"block back high", st(StatusBlockedByLow), High, OpBlock, update(StatusBlockedBoth), nil},
		{"block back low", st(StatusBlockedByHigh), Low, OpBlock, update(StatusBlockedBoth), nil},
		{"block both low", st(StatusBlockedBoth), Low, OpBlock, Outcome{}, apperr.ErrAlreadyBlocking},
		{"block both high", st(StatusBlockedBoth), High, OpBlock, Outcome{}, apperr.ErrAlreadyBlocking},

		// unblock
		{"unblock pending", st(StatusPendingAwaitingHigh), Low, OpUnblock, Outcome{}, apperr.ErrNotBlocking},
		{"unblock friends", st(StatusFriends), High, OpUnblock, Outcome{}, apperr.ErrNotBlocking},
		{"unblock both low", st(StatusBlockedBoth), Low, OpUnblock, update(StatusBlockedByHigh), nil},
		{"unblock both high", st(StatusBlockedBoth), High, OpUnblock, update(StatusBlockedByLow), nil},
		{"unblock own low", st(StatusBlockedByLow), Low, OpUnblock, del, nil},
		{"unblock own high", st(StatusBlockedByHigh), High, OpUnblock, del, nil},
		{"unblock other low", st(StatusBlockedByHigh), Low, OpUnblock, Outcome{}, apperr.ErrNotBlocking},
		{"unblock other high", st(StatusBlockedByLow), High, OpUnblock, Outcome{}, apperr.ErrNotBlocking},

		// unfriend
		{"unfriend friends low", st(StatusFriends), Low, OpUnfriend, del, nil},
		{"unfriend friends high", st(StatusFriends), High, OpUnfriend, del, nil},
		{"unfriend pending", st(StatusPendingAwaitingLow), Low, OpUnfriend, Outcome{}, apperr.ErrNotFriends},
		{"unfriend blocked", st(StatusBlockedByHigh), High, OpUnfriend, Outcome{}, apperr.ErrNotFriends},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Transition(tc.current, tc.caller, tc.op)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Equal(t, Outcome{}, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTransition_EveryStatusHandlesEveryOperation(t *testing.T) {
	for _, s := range Statuses {
		for _, op := range Operations {
			for _, side := range []Side{Low, High} {
				out, err := Transition(st(s), side, op)
				if err != nil {
					assert.NotEqual(t, apperr.KindInternal, apperr.KindOf(err), "%s/%s/%s", s, side, op)
					continue
				}
				if out.Action != ActionDelete {
					assert.True(t, out.Status.Valid(), "%s/%s/%s -> %q", s, side, op, out.Status)
				}
			}
		}
	}
}

func TestTransition_RejectsUnknownInput(t *testing.T) {
	_, err := Transition(st(Status("pending")), Low, OpAccept)
	assert.Error(t, err)

	_, err = Transition(nil, Low, Operation("poke"))
	assert.Error(t, err)
}

func TestParseStatus_Legacy(t *testing.T) {
	cases := map[string]Status{
		"pending_1to2":         StatusPendingAwaitingHigh,
		"pending_2to1":         StatusPendingAwaitingLow,
		"pending_awaiting2":    StatusPendingAwaitingHigh,
		"pending_awaiting1":    StatusPendingAwaitingLow,
		"blocked_by1":          StatusBlockedByLow,
		"blocked_by2":          StatusBlockedByHigh,
		"block_both":           StatusBlockedBoth,
		"friends":              StatusFriends,
		"pending_awaiting_low": StatusPendingAwaitingLow,
	}
	for in, want := range cases {
		got, err := ParseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseStatus("enemies")
	assert.Error(t, err)
}

func TestParseOperation(t *testing.T) {
	for _, op := range Operations {
		got, err := ParseOperation(string(op))
		require.NoError(t, err)
		assert.Equal(t, op, got)
	}
	_, err := ParseOperation("SEND")
	assert.Error(t, err)
}

func TestCanonical(t *testing.T) {
	a, _ := primitive.ObjectIDFromHex("000000000000000000000001")
	b, _ := primitive.ObjectIDFromHex("0000000000000000000000ff")

	p1, side1, err := Canonical(a, b)
	require.NoError(t, err)
	p2, side2, err := Canonical(b, a)
	require.NoError(t, err)

	assert.Equal(t, p1, p2)
	assert.Equal(t, a, p1.Low)
	assert.Equal(t, b, p1.High)
	assert.Equal(t, Low, side1)
	assert.Equal(t, High, side2)
	assert.True(t, Less(p1.Low, p1.High))
	assert.Equal(t, a.Hex()+":"+b.Hex(), p1.Key())

	_, _, err = Canonical(a, a)
	assert.ErrorIs(t, err, apperr.ErrSelfRelationship)
}

func TestLess_MatchesHexOrder(t *testing.T) {
	for i := 0; i < 50; i++ {
		a, b := primitive.NewObjectID(), primitive.NewObjectID()
		assert.Equal(t, a.Hex() < b.Hex(), Less(a, b))
	}
}

// pairStore is a minimal in-memory relationship table keyed by canonical pair.
type pairStore map[Pair]Status

func (s pairStore) apply(caller, target primitive.ObjectID, op Operation) error {
	pair, side, err := Canonical(caller, target)
	if err != nil {
		return err
	}
	var cur *Status
	if v, ok := s[pair]; ok {
		cur = &v
	}
	out, err := Transition(cur, side, op)
	if err != nil {
		return err
	}
	if out.Action == ActionDelete {
		delete(s, pair)
		return nil
	}
	s[pair] = out.Status
	return nil
}

func (s pairStore) status(a, b primitive.ObjectID) (Status, bool) {
	pair, _, _ := Canonical(a, b)
	v, ok := s[pair]
	return v, ok
}

func orderedUsers() (primitive.ObjectID, primitive.ObjectID) {
	a, _ := primitive.ObjectIDFromHex("65a000000000000000000001")
	b, _ := primitive.ObjectIDFromHex("65a000000000000000000002")
	return a, b
}

func TestScenario_SendAcceptUnfriendSendAgain(t *testing.T) {
	a, b := orderedUsers()
	s := pairStore{}

	require.NoError(t, s.apply(a, b, OpSend))
	got, _ := s.status(b, a)
	assert.Equal(t, StatusPendingAwaitingHigh, got)

	require.NoError(t, s.apply(b, a, OpAccept))
	got, _ = s.status(a, b)
	assert.Equal(t, StatusFriends, got)

	require.NoError(t, s.apply(a, b, OpUnfriend))
	_, ok := s.status(a, b)
	assert.False(t, ok)

	require.NoError(t, s.apply(a, b, OpSend))
	got, _ = s.status(a, b)
	assert.Equal(t, StatusPendingAwaitingHigh, got)
}

func TestScenario_NoDoublePending(t *testing.T) {
	a, b := orderedUsers()
	s := pairStore{}
	require.NoError(t, s.apply(b, a, OpSend))
	assert.ErrorIs(t, s.apply(b, a, OpSend), apperr.ErrAlreadyPending)
	assert.ErrorIs(t, s.apply(a, b, OpSend), apperr.ErrAlreadyPending)

	// sender cannot accept, recipient can
	assert.ErrorIs(t, s.apply(b, a, OpAccept), apperr.ErrNoSuchRequest)
	require.NoError(t, s.apply(a, b, OpAccept))
}

func TestScenario_BlockBothThenUnblock(t *testing.T) {
	a, b := orderedUsers()
	s := pairStore{}

	require.NoError(t, s.apply(b, a, OpBlock))
	assert.ErrorIs(t, s.apply(b, a, OpBlock), apperr.ErrAlreadyBlocking)
	require.NoError(t, s.apply(a, b, OpBlock))
	got, _ := s.status(a, b)
	assert.Equal(t, StatusBlockedBoth, got)
	assert.ErrorIs(t, s.apply(a, b, OpBlock), apperr.ErrAlreadyBlocking)
	assert.ErrorIs(t, s.apply(b, a, OpBlock), apperr.ErrAlreadyBlocking)

	// a (low) lifts its block, b's remains
	require.NoError(t, s.apply(a, b, OpUnblock))
	got, ok := s.status(a, b)
	require.True(t, ok)
	assert.Equal(t, StatusBlockedByHigh, got)

	assert.ErrorIs(t, s.apply(a, b, OpUnblock), apperr.ErrNotBlocking)
	require.NoError(t, s.apply(b, a, OpUnblock))
	_, ok = s.status(a, b)
	assert.False(t, ok)
}

func TestScenario_UnfriendDoesNotMutateOnFailure(t *testing.T) {
	a, b := orderedUsers()
	s := pairStore{}
	require.NoError(t, s.apply(a, b, OpSend))
	assert.ErrorIs(t, s.apply(b, a, OpUnfriend), apperr.ErrNotFriends)
	got, _ := s.status(a, b)
	assert.Equal(t, StatusPendingAwaitingHigh, got)
}
