//go:build integration
// +build integration

package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/snapfeed/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func setupTestMongo(t *testing.T) *mongo.Database {
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err, "failed to start MongoDB container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(ctx) })

	return client.Database("snapfeed_test")
}

func TestMongoNotificationRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	repo := NewMongoNotificationRepository(setupTestMongo(t))
	ctx := context.Background()
	require.NoError(t, repo.EnsureIndexes(ctx))

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	var ids []primitive.ObjectID
	for i := 0; i < 3; i++ {
		n := &models.Notification{
			Type:        models.NotificationLike,
			ActorID:     2,
			RecipientID: 1,
			PostID:      uint(10 + i),
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.CreateNotification(ctx, n))
		require.False(t, n.ID.IsZero())
		ids = append(ids, n.ID)
	}
	require.NoError(t, repo.CreateNotification(ctx, &models.Notification{
		Type: models.NotificationFollow, ActorID: 1, RecipientID: 2,
	}))

	page, total, err := repo.GetByRecipientID(ctx, 1, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, uint(12), page[0].PostID)
	assert.Equal(t, uint(11), page[1].PostID)

	page, _, err = repo.GetByRecipientID(ctx, 1, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[0], page[0].ID)

	page, total, err = repo.GetByRecipientID(ctx, 42, 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, page)
	assert.Empty(t, page)

	assert.ErrorIs(t, repo.MarkAsRead(ctx, ids[0].Hex(), 2), ErrNotFound)
	assert.ErrorIs(t, repo.MarkAsRead(ctx, "nope", 1), ErrInvalidIdentifier)
	require.NoError(t, repo.MarkAsRead(ctx, ids[0].Hex(), 1))

	page, _, err = repo.GetByRecipientID(ctx, 1, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.True(t, page[0].IsRead)
}
