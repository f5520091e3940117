package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/qlture/engagement/internal/identity"
	"github.com/qlture/engagement/internal/memstore"
	"github.com/qlture/engagement/internal/models"
)

type fixture struct {
	store        *memstore.Store
	stores       Stores
	stats        *StatsSynchronizer
	reviews      *ReviewService
	comments     *CommentService
	reviewLikes  *LikeService
	commentLikes *LikeService
	wishlist     *ListService
	history      *ListService
	feed         *FeedService
	follows      *FollowService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memstore.New()
	st := Stores{
		Contents:     s,
		Reviews:      s,
		Comments:     s,
		ReviewLikes:  s.Likes(models.LikeReview),
		CommentLikes: s.Likes(models.LikeComment),
		ContentLikes: s.Likes(models.LikeContent),
		Wishlist:     s.List(models.ListWishlist),
		History:      s.List(models.ListHistory),
		Search:       s,
		Users:        s,
		Follows:      s,
	}
	stats := NewStatsSynchronizer(st)
	return &fixture{
		store:        s,
		stores:       st,
		stats:        stats,
		reviews:      NewReviewService(st, stats, NewTextFilter()),
		comments:     NewCommentService(st, stats, NewTextFilter()),
		reviewLikes:  NewReviewLikes(st),
		commentLikes: NewCommentLikes(st),
		wishlist:     NewWishlistService(st, stats),
		history:      NewHistoryService(st, stats),
		feed:         NewFeedService(st),
		follows:      NewFollowService(st),
	}
}

func (f *fixture) content(t *testing.T, title string, typ models.ContentType) primitive.ObjectID {
	t.Helper()
	return f.store.PutContent(models.ContentItem{Title: title, Type: typ})
}

func (f *fixture) contentItem(t *testing.T, id primitive.ObjectID) models.ContentItem {
	t.Helper()
	c, ok := f.store.Content(id)
	require.True(t, ok)
	return c
}

func (f *fixture) user(t *testing.T, id identity.UserID) models.User {
	t.Helper()
	u, ok := f.store.User(id)
	require.True(t, ok)
	return u
}

func (f *fixture) writeReview(t *testing.T, userID identity.UserID, contentID primitive.ObjectID, rating *float64, text string) *models.Review {
	t.Helper()
	r, _, err := f.reviews.CreateOrUpdateReview(context.Background(), userID, contentID, rating, text)
	require.NoError(t, err)
	return r
}

func ptr[T any](v T) *T { return &v }
