package applications

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMongoDocumentShape(t *testing.T) {
	id := NewObjectID()
	app := Application{
		ID:              id,
		UserID:          "user-1",
		ApplicationName: "Home loan",
		BorrowersName:   "Asha Rao",
		AadharNumber:    "123412341234",
		PanNumber:       "ABCDE1234F",
		CreatedAt:       time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}

	raw, err := bson.Marshal(toMongo(app))
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	oid, ok := doc["_id"].(primitive.ObjectID)
	require.True(t, ok, "expected ObjectID _id, got %T", doc["_id"])
	assert.Equal(t, id, oid.Hex())
	assert.Equal(t, "user-1", doc["userId"])
	assert.Equal(t, "Asha Rao", doc["borrowersName"])
	assert.NotContains(t, doc, "description")
	assert.NotContains(t, doc, "creditAssessmentReport")

	var decoded mongoApplication
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	assert.Equal(t, app, fromMongo(decoded))
}

func TestMongoReplacesNonObjectIDs(t *testing.T) {
	doc := toMongo(Application{ID: "not-an-object-id"})
	assert.False(t, doc.ID.IsZero())
	assert.NotEqual(t, "not-an-object-id", doc.ID.Hex())
}
