package mongodb

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"dailyMotivatorAPI/internal/storage"
	"dailyMotivatorAPI/internal/storage/storagetest"
)

// Set MONGODB_TEST_URI (e.g. mongodb://localhost:27017) to run against a live server.
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	storagetest.Run(t, func(t *testing.T) storage.Store {
		name := fmt.Sprintf("motivator_test_%d", time.Now().UnixNano())
		s := New(client, client.Database(name))
		require.NoError(t, s.EnsureIndexes(context.Background()))
		t.Cleanup(func() { _ = s.Drop(context.Background()) })
		return s
	})
}

func TestObjectIDRejectsMalformedIDs(t *testing.T) {
	_, err := objectID("not-an-id")
	require.ErrorIs(t, err, storage.ErrNotFound)

	oid, err := objectID("65a1b2c3d4e5f60718293a4b")
	require.NoError(t, err)
	require.Equal(t, "65a1b2c3d4e5f60718293a4b", oid.Hex())

	require.Len(t, objectIDs([]string{"bad", "65a1b2c3d4e5f60718293a4b"}), 1)
}
