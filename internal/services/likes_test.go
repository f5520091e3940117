package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/qlture/engagement/internal/identity"
	"github.com/qlture/engagement/internal/models"
)

func TestToggleLike_TwiceRestoresCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.store.AddUser("author")
	fan := f.store.AddUser("fan")
	other := f.store.AddUser("other")
	content := f.content(t, "Dune", models.ContentBook)
	review := f.writeReview(t, author, content, nil, "Text")

	_, err := f.reviewLikes.ToggleLike(ctx, review.ID, other)
	require.NoError(t, err)
	before := reviewCounters(t, f, review.ID).LikesCount

	first, err := f.reviewLikes.ToggleLike(ctx, review.ID, fan)
	require.NoError(t, err)
	assert.True(t, first.Liked)
	assert.Equal(t, before+1, first.LikesCount)

	second, err := f.reviewLikes.ToggleLike(ctx, review.ID, fan)
	require.NoError(t, err)
	assert.False(t, second.Liked)
	assert.Equal(t, before, second.LikesCount)
	assert.Equal(t, before, reviewCounters(t, f, review.ID).LikesCount)
}

func TestToggleLike_MissingTarget(t *testing.T) {
	f := newFixture(t)
	user := f.store.AddUser("fan")

	_, err := f.commentLikes.ToggleLike(context.Background(), primitive.NewObjectID(), user)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, f.store.Likes(models.LikeComment).Len())
}

func TestLikeState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fan := f.store.AddUser("fan")
	content := f.content(t, "Dune", models.ContentBook)
	likes := NewContentLikes(f.stores)

	_, err := likes.ToggleLike(ctx, content, fan)
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.contentItem(t, content).LikesCount)

	state, err := likes.State(ctx, content, fan)
	require.NoError(t, err)
	assert.Equal(t, &LikeState{Liked: true, LikesCount: 1}, state)

	anon, err := likes.State(ctx, content, identity.Anonymous)
	require.NoError(t, err)
	assert.Equal(t, &LikeState{Liked: false, LikesCount: 1}, anon)

	counts, err := likes.GetLikeCountsForIDs(ctx, []primitive.ObjectID{content, primitive.NewObjectID()})
	require.NoError(t, err)
	assert.Len(t, counts, 2)
	assert.Equal(t, int64(1), counts[content])
}
