package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	migrations "blogapi/internal/database"
	"blogapi/internal/domain"
	"blogapi/pkg/database"
	"blogapi/pkg/logger"
)

// newTestConnection connects to MONGODB_TEST_URI using a throwaway
// database. Tests are skipped when the variable is unset.
func newTestConnection(t *testing.T) *database.ConnectionManager {
	t.Helper()

	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI is not set")
	}

	ctx := context.Background()
	cm := database.NewConnectionManager(database.Settings{
		URI:      uri,
		Database: fmt.Sprintf("blogapi_test_%d", time.Now().UnixNano()),
		Timeout:  5 * time.Second,
	}, logger.Nop())
	require.NoError(t, migrations.NewMigrationService(cm, logger.Nop()).RunMigrations(ctx))

	t.Cleanup(func() {
		coll, err := cm.Collection(ctx, usersCollection)
		if err == nil {
			_ = coll.Database().Drop(ctx)
		}
		_ = cm.Close(ctx)
	})
	return cm
}

func TestMongoUserRepository(t *testing.T) {
	cm := newTestConnection(t)
	ctx := context.Background()
	repo := NewUserRepository(cm, logger.Nop())

	user := &domain.User{Email: "a@example.com", Username: "alice", Password: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	require.False(t, user.ID.IsZero())

	err := repo.Create(ctx, &domain.User{Email: "a@example.com", Username: "other"})
	assert.Error(t, err)

	found, err := repo.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "hash", found.Password)

	updated, err := repo.UpdateUsername(ctx, user.ID, "alicia")
	require.NoError(t, err)
	assert.Equal(t, "alicia", updated.Username)

	missing, err := repo.FindByID(ctx, primitive.NewObjectID())
	require.NoError(t, err)
	assert.Nil(t, missing)

	deleted, err := repo.Delete(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)

	deleted, err = repo.Delete(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, deleted)
}

func TestMongoBlogRepository(t *testing.T) {
	cm := newTestConnection(t)
	ctx := context.Background()
	repo := NewBlogRepository(cm, logger.Nop())

	user := primitive.NewObjectID()
	category := primitive.NewObjectID()
	for _, title := range []string{"React Basics", "Vue Guide", "Advanced react"} {
		require.NoError(t, repo.Create(ctx, &domain.Blog{Title: title, Description: "d", User: user, Category: category}))
	}

	q, err := domain.NewBlogQuery(user, category, domain.BlogQueryParams{Keywords: "react"})
	require.NoError(t, err)
	blogs, err := repo.Find(ctx, q)
	require.NoError(t, err)
	require.Len(t, blogs, 2)
	assert.Equal(t, "React Basics", blogs[0].Title)

	title := "Svelte"
	updated, err := repo.UpdateOwned(ctx, blogs[0].ID, primitive.NewObjectID(), domain.BlogPatch{Title: &title})
	require.NoError(t, err)
	assert.Nil(t, updated)

	updated, err = repo.UpdateOwned(ctx, blogs[0].ID, user, domain.BlogPatch{Title: &title})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Svelte", updated.Title)
	assert.Equal(t, "d", updated.Description)

	found, err := repo.FindOwned(ctx, domain.BlogKey{ID: updated.ID, User: user, Category: category})
	require.NoError(t, err)
	require.NotNil(t, found)

	deleted, err := repo.DeleteOwned(ctx, updated.ID, user)
	require.NoError(t, err)
	require.NotNil(t, deleted)
}
