package services

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

func reviewCounters(t *testing.T, f *fixture, id primitive.ObjectID) *models.Review {
	t.Helper()
	r, err := f.store.FindReviewByID(context.Background(), id)
	require.NoError(t, err)
	return r
}

func TestComment_RootAndReplyCounting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.store.AddUser("author")
	fan := f.store.AddUser("fan")
	content := f.content(t, "Dune", models.ContentBook)
	review := f.writeReview(t, author, content, ptr(4.0), "Good")

	root, err := f.comments.Create(ctx, review.ID, fan, "Agreed", nil)
	require.NoError(t, err)
	assert.Nil(t, root.ReplyToCommentID)
	assert.Equal(t, int64(1), reviewCounters(t, f, review.ID).CommentsCount)
	assert.Equal(t, int64(1), f.contentItem(t, content).CommentsCount)

	reply, err := f.comments.Create(ctx, review.ID, author, "Thanks", &root.ID)
	require.NoError(t, err)
	assert.Equal(t, "@fan Thanks", reply.Comment)
	assert.Equal(t, int64(1), reviewCounters(t, f, review.ID).CommentsCount, "replies do not count on the review")
	assert.Equal(t, int64(2), f.contentItem(t, content).CommentsCount)

	stored, err := f.store.FindCommentByID(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.RepliesCount)
}

func TestComment_ReplyToReplyIsAnchoredToRoot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.store.AddUser("a")
	b := f.store.AddUser("b")
	content := f.content(t, "Dune", models.ContentBook)
	review := f.writeReview(t, a, content, nil, "Text")

	root, err := f.comments.Create(ctx, review.ID, a, "root", nil)
	require.NoError(t, err)
	first, err := f.comments.Create(ctx, review.ID, b, "first", &root.ID)
	require.NoError(t, err)
	deep, err := f.comments.Create(ctx, review.ID, a, "deep", &first.ID)
	require.NoError(t, err)

	require.NotNil(t, deep.ReplyToCommentID)
	assert.Equal(t, root.ID, *deep.ReplyToCommentID)
	require.NotNil(t, deep.InReplyToCommentID)
	assert.Equal(t, first.ID, *deep.InReplyToCommentID)

	replies, err := f.comments.ListReplies(ctx, first.ID, CommentListQuery{Page: NewPage(1, 10)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), replies.Total, "listing from a reply lists its thread")
}

func TestComment_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.store.AddUser("a")
	content := f.content(t, "Dune", models.ContentBook)
	review := f.writeReview(t, a, content, nil, "Text")

	_, err := f.comments.Create(ctx, review.ID, a, "  ", nil)
	assert.ErrorIs(t, err, ErrCommentRequired)

	_, err = f.comments.Create(ctx, primitive.NewObjectID(), a, "hi", nil)
	assert.ErrorIs(t, err, ErrReviewNotFound)

	missing := primitive.NewObjectID()
	_, err = f.comments.Create(ctx, review.ID, a, "hi", &missing)
	assert.ErrorIs(t, err, ErrReplyTargetNotFound)
}

func TestComment_DeleteOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.store.AddUser("a")
	b := f.store.AddUser("b")
	content := f.content(t, "Dune", models.ContentBook)
	review := f.writeReview(t, a, content, nil, "Text")

	root, err := f.comments.Create(ctx, review.ID, a, "root", nil)
	require.NoError(t, err)
	reply, err := f.comments.Create(ctx, review.ID, b, "reply", &root.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, f.comments.Delete(ctx, root.ID, b), ErrForbidden)
	assert.ErrorIs(t, f.comments.Delete(ctx, primitive.NewObjectID(), a), ErrNotFound)

	require.NoError(t, f.comments.Delete(ctx, reply.ID, b))
	stored, err := f.store.FindCommentByID(ctx, root.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.RepliesCount)

	_, err = f.comments.Create(ctx, review.ID, b, "again", &root.ID)
	require.NoError(t, err)
	require.NoError(t, f.comments.Delete(ctx, root.ID, a))

	n, err := f.store.CountComments(ctx, models.CommentFilter{ReviewID: &review.ID})
	require.NoError(t, err)
	assert.Zero(t, n, "deleting a root removes its replies")
	assert.Zero(t, reviewCounters(t, f, review.ID).CommentsCount)
	assert.Zero(t, f.contentItem(t, content).CommentsCount)
}

func TestComment_ListRootsWithPreviews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.store.AddUser("a")
	b := f.store.AddUser("b")
	content := f.content(t, "Dune", models.ContentBook)
	review := f.writeReview(t, a, content, nil, "Text")

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	f.comments.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	older, err := f.comments.Create(ctx, review.ID, a, "older root", nil)
	require.NoError(t, err)
	newer, err := f.comments.Create(ctx, review.ID, b, "newer root", nil)
	require.NoError(t, err)
	for _, text := range []string{"r1", "r2", "r3"} {
		_, err := f.comments.Create(ctx, review.ID, b, text, &older.ID)
		require.NoError(t, err)
	}
	_, err = f.commentLikes.ToggleLike(ctx, older.ID, b)
	require.NoError(t, err)

	page, err := f.comments.ListRootComments(ctx, review.ID, CommentListQuery{
		Page:         NewPage(1, 10),
		RepliesLimit: -1,
		Viewer:       b,
	})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, newer.ID, page.Data[0].ID, "newest root first by default")
	assert.Empty(t, page.Data[0].Replies)

	thread := page.Data[1]
	assert.Equal(t, int64(3), thread.RepliesCount)
	require.Len(t, thread.Replies, DefaultRepliesLimit)
	assert.Equal(t, "@a r1", thread.Replies[0].Comment, "previews are oldest first")
	assert.True(t, thread.IsLiked)
	assert.Equal(t, int64(1), thread.LikesCount)

	top, err := f.comments.ListRootComments(ctx, review.ID, CommentListQuery{
		Page: NewPage(1, 10),
		Sort: models.CommentLikesDesc,
	})
	require.NoError(t, err)
	assert.Equal(t, older.ID, top.Data[0].ID)
	assert.False(t, top.Data[0].IsLiked, "anonymous viewers like nothing")
	assert.Empty(t, top.Data[0].Replies)

	_, err = f.comments.ListRootComments(ctx, review.ID, CommentListQuery{Sort: "sideways"})
	assert.ErrorIs(t, err, ErrInvalidSort)

	all, err := f.comments.ListComments(ctx, review.ID, CommentListQuery{Page: NewPage(1, 50)})
	require.NoError(t, err)
	assert.Equal(t, int64(5), all.Total)
}

func TestComment_ListRepliesByLikesPaged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.store.AddUser("a")
	b := f.store.AddUser("b")
	c := f.store.AddUser("c")
	content := f.content(t, "Dune", models.ContentBook)
	review := f.writeReview(t, a, content, nil, "Text")

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	f.comments.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	root, err := f.comments.Create(ctx, review.ID, a, "root", nil)
	require.NoError(t, err)
	var replies []*CommentView
	for _, text := range []string{"one", "two", "three", "four"} {
		r, err := f.comments.Create(ctx, review.ID, b, text, &root.ID)
		require.NoError(t, err)
		replies = append(replies, r)
	}
	for _, u := range []identity.UserID{a, c} {
		_, err := f.commentLikes.ToggleLike(ctx, replies[1].ID, u)
		require.NoError(t, err)
	}
	_, err = f.commentLikes.ToggleLike(ctx, replies[2].ID, a)
	require.NoError(t, err)

	q := CommentListQuery{Page: NewPage(1, 3), Sort: models.CommentLikesDesc}
	first, err := f.comments.ListReplies(ctx, root.ID, q)
	require.NoError(t, err)
	assert.Equal(t, int64(4), first.Total)
	assert.Equal(t, int64(2), first.TotalPages)
	require.Len(t, first.Data, 3)
	assert.Equal(t, replies[1].ID, first.Data[0].ID)
	assert.Equal(t, int64(2), first.Data[0].LikesCount)
	assert.Equal(t, replies[2].ID, first.Data[1].ID)
	assert.Equal(t, replies[0].ID, first.Data[2].ID, "unliked replies fall back to oldest first")

	q.Page = NewPage(2, 3)
	second, err := f.comments.ListReplies(ctx, root.ID, q)
	require.NoError(t, err)
	assert.Equal(t, int64(4), second.Total)
	assert.Equal(t, int64(2), second.Page)
	require.Len(t, second.Data, 1)
	assert.Equal(t, replies[3].ID, second.Data[0].ID)

	again, err := f.comments.ListReplies(ctx, root.ID, CommentListQuery{Page: NewPage(1, 3), Sort: models.CommentLikesDesc})
	require.NoError(t, err)
	assert.Equal(t, first.Data, again.Data)
}
