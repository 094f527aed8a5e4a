package friendship

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type statusDoc struct {
	Status Status `bson:"status"`
}

func TestStatus_BSONNormalizesLegacySpelling(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"status": "pending_2to1"})
	require.NoError(t, err)

	var doc statusDoc
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, StatusPendingAwaitingLow, doc.Status)
}

func TestStatus_BSONRoundTripKeepsCanonicalSpelling(t *testing.T) {
	raw, err := bson.Marshal(statusDoc{Status: StatusBlockedBoth})
	require.NoError(t, err)
	assert.Equal(t, "blocked_both", bson.Raw(raw).Lookup("status").StringValue())

	var doc statusDoc
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, StatusBlockedBoth, doc.Status)
}

func TestStatus_BSONRejectsGarbage(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"status": "frenemies"})
	require.NoError(t, err)
	var doc statusDoc
	assert.Error(t, bson.Unmarshal(raw, &doc))

	raw, err = bson.Marshal(bson.M{"status": 3})
	require.NoError(t, err)
	assert.Error(t, bson.Unmarshal(raw, &doc))
}
