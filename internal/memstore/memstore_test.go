package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/qlture/engagement/internal/identity"
	"github.com/qlture/engagement/internal/models"
)

func TestInsertReview_UniquePerUserAndContent(t *testing.T) {
	s := New()
	ctx := context.Background()
	user := s.AddUser("ana")
	content := s.PutContent(models.ContentItem{Title: "Dune", Type: models.ContentBook})

	require.NoError(t, s.InsertReview(ctx, &models.Review{UserID: user, ContentID: content}))
	err := s.InsertReview(ctx, &models.Review{UserID: user, ContentID: content})
	assert.ErrorIs(t, err, models.ErrDuplicate)
	assert.Len(t, s.Reviews(), 1)
}

func TestLikes_Unique(t *testing.T) {
	s := New()
	ctx := context.Background()
	user := s.AddUser("ana")
	target := primitive.NewObjectID()
	likes := s.Likes(models.LikeReview)

	require.NoError(t, likes.InsertLike(ctx, user, target))
	assert.ErrorIs(t, likes.InsertLike(ctx, user, target), models.ErrDuplicate)

	n, err := likes.CountLikes(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	removed, err := likes.DeleteLike(ctx, user, target)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = likes.DeleteLike(ctx, user, target)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestListComments_Sorts(t *testing.T) {
	s := New()
	ctx := context.Background()
	review := primitive.NewObjectID()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, likes := range []int64{1, 5, 5} {
		require.NoError(t, s.InsertComment(ctx, &models.ReviewComment{
			ReviewID:   review,
			Comment:    "c",
			LikesCount: likes,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}))
	}

	newest, total, err := s.ListComments(ctx, models.CommentQuery{
		CommentFilter: models.CommentFilter{ReviewID: &review},
		Sort:          models.CommentDateDesc,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, base.Add(2*time.Minute), newest[0].CreatedAt)

	top, _, err := s.ListComments(ctx, models.CommentQuery{
		CommentFilter: models.CommentFilter{ReviewID: &review},
		Sort:          models.CommentLikesDesc,
		Limit:         2,
	})
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, base.Add(time.Minute), top[0].CreatedAt, "ties break by oldest first")
	assert.Equal(t, base.Add(2*time.Minute), top[1].CreatedAt)
}

func TestFirstReplies_OldestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()
	review := primitive.NewObjectID()
	root := &models.ReviewComment{ReviewID: review, Comment: "root", CreatedAt: time.Now()}
	require.NoError(t, s.InsertComment(ctx, root))
	for i := 0; i < 3; i++ {
		require.NoError(t, s.InsertComment(ctx, &models.ReviewComment{
			ReviewID:         review,
			ReplyToCommentID: &root.ID,
			Comment:          "reply",
			CreatedAt:        root.CreatedAt.Add(time.Duration(i+1) * time.Second),
		}))
	}

	got, err := s.FirstReplies(ctx, []primitive.ObjectID{root.ID}, 2)
	require.NoError(t, err)
	require.Len(t, got[root.ID], 2)
	assert.True(t, got[root.ID][0].CreatedAt.Before(got[root.ID][1].CreatedAt))
}

func TestListFeedItems_HistoryByConsumedAt(t *testing.T) {
	s := New()
	ctx := context.Background()
	user := s.AddUser("ana")
	history := s.List(models.ListHistory)
	now := time.Now().UTC()
	earlier := now.Add(-48 * time.Hour)

	require.NoError(t, history.InsertItem(ctx, &models.ListItem{UserID: user, ContentID: primitive.NewObjectID(), Type: models.ContentMovie, CreatedAt: now}))
	old := &models.ListItem{UserID: user, ContentID: primitive.NewObjectID(), Type: models.ContentMovie, CreatedAt: now.Add(time.Hour), ConsumedAt: &earlier}
	require.NoError(t, history.InsertItem(ctx, old))

	items, total, err := history.ListFeedItems(ctx, models.FeedQuery{UserIDs: []identity.UserID{user}, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, old.ID, items[1].ID)
}

func TestSearchContent_FiltersAndSorts(t *testing.T) {
	s := New()
	ctx := context.Background()
	d1 := time.Date(2010, 7, 16, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2014, 11, 7, 0, 0, 0, 0, time.UTC)
	s.PutContent(models.ContentItem{Title: "Inception", Type: models.ContentMovie, Genres: []string{"sci-fi"}, ReleaseDate: &d1})
	s.PutContent(models.ContentItem{Title: "Interstellar", Type: models.ContentMovie, Genres: []string{"sci-fi", "drama"}, ReleaseDate: &d2})
	s.PutContent(models.ContentItem{Title: "Inception Notes", Type: models.ContentBook, Genres: []string{"essay"}})

	hits, total, err := s.SearchContent(ctx, models.SearchQuery{Type: models.ContentMovie, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "Interstellar", hits[0].Title)

	hits, _, err = s.SearchContent(ctx, models.SearchQuery{Genres: []string{"drama", "essay"}, Sort: models.SearchDateAsc, Limit: 10})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "Inception Notes", hits[0].Title, "missing dates sort first")

	hits, _, err = s.SearchContent(ctx, models.SearchQuery{Q: "incepton", Type: models.ContentMovie, Limit: 10})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Inception", hits[0].Title)
}
