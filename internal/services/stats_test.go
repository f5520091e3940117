package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/qlture/engagement/internal/models"
)

func TestRepairContent_FixesDrift(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.store.AddUser("author")
	fan := f.store.AddUser("fan")
	content := f.content(t, "Dune", models.ContentBook)
	review := f.writeReview(t, author, content, ptr(5.0), "Great")
	root, err := f.comments.Create(ctx, review.ID, fan, "Yes", nil)
	require.NoError(t, err)
	_, err = f.reviewLikes.ToggleLike(ctx, review.ID, fan)
	require.NoError(t, err)

	require.NoError(t, f.store.SetReviewStats(ctx, content, models.ReviewStats{AverageRating: 1, ReviewsCount: 9, CommentsCount: 9}))
	require.NoError(t, f.store.SetReviewCounters(ctx, review.ID, map[models.ReviewCounter]int64{
		models.ReviewLikes:    7,
		models.ReviewComments: 7,
	}))
	require.NoError(t, f.store.SetCommentCounters(ctx, root.ID, map[models.CommentCounter]int64{models.CommentLikes: 3}))

	repair, err := f.stats.RepairContent(ctx, content)
	require.NoError(t, err)
	assert.Equal(t, 1, repair.ReviewDocs)
	assert.Equal(t, 1, repair.Comments)
	assert.Equal(t, models.ReviewStats{AverageRating: 5, ReviewsCount: 1, CommentsCount: 1}, repair.Reviews)

	r := reviewCounters(t, f, review.ID)
	assert.Equal(t, int64(1), r.LikesCount)
	assert.Equal(t, int64(1), r.CommentsCount)
	c, err := f.store.FindCommentByID(ctx, root.ID)
	require.NoError(t, err)
	assert.Zero(t, c.LikesCount)

	_, err = f.stats.RepairContent(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrContentNotFound)

	n, err := f.stats.RepairAllContents(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRepairUserCounters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.store.AddUser("ana")
	book := f.content(t, "Dune", models.ContentBook)
	game := f.content(t, "Halo", models.ContentGame)
	f.writeReview(t, user, book, nil, "Sand")
	_, err := f.history.Add(ctx, user, book, nil)
	require.NoError(t, err)
	_, err = f.wishlist.Add(ctx, user, game, nil)
	require.NoError(t, err)

	require.NoError(t, f.store.SetUserCounters(ctx, user, map[models.UserCounter]int64{
		models.CounterReviews:  5,
		models.CounterBooks:    0,
		models.CounterGameList: 4,
		models.CounterMovies:   2,
	}))

	counters, err := f.stats.RepairUserCounters(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counters[models.CounterReviews])
	assert.Equal(t, int64(1), counters[models.CounterBooks])
	assert.Equal(t, int64(1), counters[models.CounterGameList])
	assert.Equal(t, int64(0), counters[models.CounterMovies])

	u := f.user(t, user)
	assert.Equal(t, int64(1), u.ReviewCount)
	assert.Equal(t, int64(1), u.BookCount)
	assert.Equal(t, int64(1), u.GameListCount)
	assert.Zero(t, u.MoovieCount)

	_, err = f.stats.RepairUserCounters(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdjustUserCounter_RejectsUnknownCounter(t *testing.T) {
	f := newFixture(t)
	user := f.store.AddUser("ana")
	err := f.stats.AdjustUserCounter(context.Background(), user, models.UserCounter("karma"), 1)
	assert.ErrorIs(t, err, ErrInvalidCounter)
}
