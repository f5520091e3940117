package services

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/qlture/engagement/internal/identity"
	"github.com/qlture/engagement/internal/metrics"
	"github.com/qlture/engagement/internal/models"
)

// StatsSynchronizer owns every derived counter. Document-store aggregates are
// always recomputed from their source rows, so re-running any recompute is
// safe. Per-user counters live in the relational store and are adjusted
// atomically at the point of mutation; RepairUserCounters re-derives them
// when the two stores drift.
type StatsSynchronizer struct {
	contents     ContentStore
	reviews      ReviewStore
	comments     CommentStore
	reviewLikes  LikeStore
	commentLikes LikeStore
	contentLikes LikeStore
	wishlist     ListStore
	history      ListStore
	users        UserDirectory
}

// Stores groups the document and relational stores the services run on.
type Stores struct {
	Contents     ContentStore
	Reviews      ReviewStore
	Comments     CommentStore
	ReviewLikes  LikeStore
	CommentLikes LikeStore
	ContentLikes LikeStore
	Wishlist     ListStore
	History      ListStore
	Search       SearchStore
	Users        UserDirectory
	Follows      FollowGraph
}

func NewStatsSynchronizer(st Stores) *StatsSynchronizer {
	return &StatsSynchronizer{
		contents:     st.Contents,
		reviews:      st.Reviews,
		comments:     st.Comments,
		reviewLikes:  st.ReviewLikes,
		commentLikes: st.CommentLikes,
		contentLikes: st.ContentLikes,
		wishlist:     st.Wishlist,
		history:      st.History,
		users:        st.Users,
	}
}

// RecomputeContentReviewStats re-derives average_rating, reviews_count and
// comments_count of a content item.
func (s *StatsSynchronizer) RecomputeContentReviewStats(ctx context.Context, contentID primitive.ObjectID) (stats models.ReviewStats, err error) {
	defer func() { metrics.RecordRecompute("content_reviews", err) }()

	agg, err := s.reviews.AggregateRatings(ctx, contentID)
	if err != nil {
		return stats, fmt.Errorf("aggregate ratings: %w", err)
	}
	comments, err := s.comments.CountComments(ctx, models.CommentFilter{ContentID: &contentID})
	if err != nil {
		return stats, fmt.Errorf("count comments: %w", err)
	}

	stats = models.ReviewStats{
		AverageRating: agg.Average(),
		ReviewsCount:  agg.TextReviews,
		CommentsCount: comments,
	}
	if err = s.contents.SetReviewStats(ctx, contentID, stats); err != nil {
		return stats, err
	}
	return stats, nil
}

// RecomputeContentEngagement re-derives likes_count, wishlist_count and
// history_count of a content item.
func (s *StatsSynchronizer) RecomputeContentEngagement(ctx context.Context, contentID primitive.ObjectID) (stats models.EngagementStats, err error) {
	defer func() { metrics.RecordRecompute("content_engagement", err) }()

	if stats.LikesCount, err = s.contentLikes.CountLikes(ctx, contentID); err != nil {
		return stats, err
	}
	if stats.WishlistCount, err = s.wishlist.CountForContent(ctx, contentID); err != nil {
		return stats, err
	}
	if stats.HistoryCount, err = s.history.CountForContent(ctx, contentID); err != nil {
		return stats, err
	}
	if err = s.contents.SetEngagementStats(ctx, contentID, stats); err != nil {
		return stats, err
	}
	return stats, nil
}

// RecomputeReviewCounters re-derives likesCount and commentsCount (root
// comments only) of a review.
func (s *StatsSynchronizer) RecomputeReviewCounters(ctx context.Context, reviewID primitive.ObjectID) (err error) {
	defer func() { metrics.RecordRecompute("review", err) }()

	likes, err := s.reviewLikes.CountLikes(ctx, reviewID)
	if err != nil {
		return err
	}
	roots, err := s.comments.CountComments(ctx, models.CommentFilter{ReviewID: &reviewID, RootsOnly: true})
	if err != nil {
		return err
	}
	return s.reviews.SetReviewCounters(ctx, reviewID, map[models.ReviewCounter]int64{
		models.ReviewLikes:    likes,
		models.ReviewComments: roots,
	})
}

// RecomputeCommentCounters re-derives likesCount and repliesCount of a comment.
func (s *StatsSynchronizer) RecomputeCommentCounters(ctx context.Context, commentID primitive.ObjectID) (err error) {
	defer func() { metrics.RecordRecompute("comment", err) }()

	likes, err := s.commentLikes.CountLikes(ctx, commentID)
	if err != nil {
		return err
	}
	replies, err := s.comments.CountComments(ctx, models.CommentFilter{ParentID: &commentID})
	if err != nil {
		return err
	}
	return s.comments.SetCommentCounters(ctx, commentID, map[models.CommentCounter]int64{
		models.CommentLikes:   likes,
		models.CommentReplies: replies,
	})
}

// AdjustUserCounter atomically moves a per-user counter by delta. A failure
// here leaves the relational counter one unit off the document store;
// RepairUserCounters fixes it.
func (s *StatsSynchronizer) AdjustUserCounter(ctx context.Context, userID identity.UserID, field models.UserCounter, delta int64) error {
	if !field.Valid() {
		return ErrInvalidCounter
	}
	if delta == 0 {
		return nil
	}
	if err := s.users.IncrementUserCounter(ctx, userID, field, delta); err != nil {
		slog.ErrorContext(ctx, "user counter adjustment failed",
			"user_id", userID.String(),
			"action", "adjust_user_counter",
			"counter", string(field),
			"delta", delta,
			"error", err.Error(),
		)
		return err
	}
	metrics.RecordUserCounter(string(field), delta)
	return nil
}

// RepairUserCounters recounts every per-user counter from the document store
// and overwrites the relational values.
func (s *StatsSynchronizer) RepairUserCounters(ctx context.Context, userID identity.UserID) (counters map[models.UserCounter]int64, err error) {
	defer func() { metrics.RecordRecompute("user", err) }()

	exists, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	counters = map[models.UserCounter]int64{
		models.CounterReviews:   0,
		models.CounterMovies:    0,
		models.CounterBooks:     0,
		models.CounterGames:     0,
		models.CounterWatchList: 0,
		models.CounterReadList:  0,
		models.CounterGameList:  0,
	}

	if counters[models.CounterReviews], err = s.reviews.CountTextReviewsByUser(ctx, userID); err != nil {
		return nil, err
	}

	history, err := s.history.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for t, n := range history {
		if field, ok := models.HistoryCounter(t); ok {
			counters[field] = n
		}
	}

	wishlist, err := s.wishlist.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for t, n := range wishlist {
		if field, ok := models.WishlistCounter(t); ok {
			counters[field] = n
		}
	}

	if err = s.users.SetUserCounters(ctx, userID, counters); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "user counters repaired", "user_id", userID.String(), "action", "repair_user_counters")
	return counters, nil
}

// ContentRepair reports what RepairContent wrote.
type ContentRepair struct {
	Reviews    models.ReviewStats     `json:"reviews"`
	Engagement models.EngagementStats `json:"engagement"`
	ReviewDocs int                    `json:"reviewsRecomputed"`
	Comments   int                    `json:"commentsRecomputed"`
}

// RepairContent re-derives every cached counter under one content item: the
// counters of each review and comment, then the content aggregates.
func (s *StatsSynchronizer) RepairContent(ctx context.Context, contentID primitive.ObjectID) (*ContentRepair, error) {
	if _, err := s.contents.FindContentByID(ctx, contentID); err != nil {
		if isNotFound(err) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}

	out := &ContentRepair{}

	commentIDs, err := s.comments.CommentIDs(ctx, models.CommentFilter{ContentID: &contentID})
	if err != nil {
		return nil, err
	}
	for _, id := range commentIDs {
		if err := s.RecomputeCommentCounters(ctx, id); err != nil {
			return nil, err
		}
	}
	out.Comments = len(commentIDs)

	reviewIDs, err := s.reviews.ReviewIDsForContent(ctx, contentID)
	if err != nil {
		return nil, err
	}
	for _, id := range reviewIDs {
		if err := s.RecomputeReviewCounters(ctx, id); err != nil {
			return nil, err
		}
	}
	out.ReviewDocs = len(reviewIDs)

	if out.Reviews, err = s.RecomputeContentReviewStats(ctx, contentID); err != nil {
		return nil, err
	}
	if out.Engagement, err = s.RecomputeContentEngagement(ctx, contentID); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "content counters repaired",
		"content_id", contentID.Hex(),
		"action", "repair_content",
		"reviews", out.ReviewDocs,
		"comments", out.Comments,
	)
	return out, nil
}

// RepairAllContents runs RepairContent over the whole catalog, stopping at
// the first failure.
func (s *StatsSynchronizer) RepairAllContents(ctx context.Context) (int, error) {
	n := 0
	err := s.contents.EachContentID(ctx, func(id primitive.ObjectID) error {
		if _, err := s.RepairContent(ctx, id); err != nil {
			return fmt.Errorf("repair content %s: %w", id.Hex(), err)
		}
		n++
		return nil
	})
	return n, err
}
