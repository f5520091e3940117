package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/qlture/engagement/internal/identity"
	"github.com/qlture/engagement/internal/models"
)

// Stores return models.ErrNotFound for missing keys and models.ErrDuplicate
// when a uniqueness constraint rejects a write. Any other error is a store
// failure and is returned to the caller unchanged.

type ContentStore interface {
	FindContentByID(ctx context.Context, id primitive.ObjectID) (*models.ContentItem, error)
	FindContentSummaries(ctx context.Context, ids []primitive.ObjectID) ([]models.ContentSummary, error)
	SetReviewStats(ctx context.Context, id primitive.ObjectID, stats models.ReviewStats) error
	SetEngagementStats(ctx context.Context, id primitive.ObjectID, stats models.EngagementStats) error
	SetContentLikes(ctx context.Context, id primitive.ObjectID, n int64) error
	EachContentID(ctx context.Context, fn func(primitive.ObjectID) error) error
}

type ReviewStore interface {
	InsertReview(ctx context.Context, r *models.Review) error
	FindReview(ctx context.Context, userID identity.UserID, contentID primitive.ObjectID) (*models.Review, error)
	FindReviewByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	// UpdateReview writes rating, text and their timestamps. Counters are
	// left untouched.
	UpdateReview(ctx context.Context, r *models.Review) error
	DeleteReview(ctx context.Context, id primitive.ObjectID) error
	ListContentReviews(ctx context.Context, q models.ReviewListQuery) ([]models.Review, int64, error)
	ListUserReviews(ctx context.Context, userID identity.UserID, sort models.UserReviewSort, asc bool) ([]models.Review, error)
	ListFeedReviews(ctx context.Context, q models.FeedQuery) ([]models.Review, int64, error)
	ReviewIDsForContent(ctx context.Context, contentID primitive.ObjectID) ([]primitive.ObjectID, error)
	AggregateRatings(ctx context.Context, contentID primitive.ObjectID) (models.RatingAggregate, error)
	CountTextReviewsByUser(ctx context.Context, userID identity.UserID) (int64, error)
	SetReviewCounters(ctx context.Context, id primitive.ObjectID, counters map[models.ReviewCounter]int64) error
}

type CommentStore interface {
	InsertComment(ctx context.Context, c *models.ReviewComment) error
	FindCommentByID(ctx context.Context, id primitive.ObjectID) (*models.ReviewComment, error)
	DeleteComments(ctx context.Context, ids []primitive.ObjectID) error
	ListComments(ctx context.Context, q models.CommentQuery) ([]models.ReviewComment, int64, error)
	CommentIDs(ctx context.Context, f models.CommentFilter) ([]primitive.ObjectID, error)
	CountComments(ctx context.Context, f models.CommentFilter) (int64, error)
	// LatestRoots returns up to limit most recent root comments per review.
	LatestRoots(ctx context.Context, reviewIDs []primitive.ObjectID, limit int64) (map[primitive.ObjectID][]models.ReviewComment, error)
	// FirstReplies returns up to limit oldest replies per thread root.
	FirstReplies(ctx context.Context, rootIDs []primitive.ObjectID, limit int64) (map[primitive.ObjectID][]models.ReviewComment, error)
	SetCommentCounters(ctx context.Context, id primitive.ObjectID, counters map[models.CommentCounter]int64) error
}

// LikeStore is one like collection; each LikeKind has its own.
type LikeStore interface {
	InsertLike(ctx context.Context, userID identity.UserID, targetID primitive.ObjectID) error
	DeleteLike(ctx context.Context, userID identity.UserID, targetID primitive.ObjectID) (bool, error)
	HasLike(ctx context.Context, userID identity.UserID, targetID primitive.ObjectID) (bool, error)
	CountLikes(ctx context.Context, targetID primitive.ObjectID) (int64, error)
	CountLikesFor(ctx context.Context, targetIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error)
	LikedTargets(ctx context.Context, userID identity.UserID, targetIDs []primitive.ObjectID) (map[primitive.ObjectID]bool, error)
	DeleteLikesFor(ctx context.Context, targetIDs []primitive.ObjectID) error
}

// ListStore is the wishlist or the history collection.
type ListStore interface {
	InsertItem(ctx context.Context, item *models.ListItem) error
	DeleteItem(ctx context.Context, userID identity.UserID, contentID primitive.ObjectID, t models.ContentType) (bool, error)
	ListUserItems(ctx context.Context, userID identity.UserID, t models.ContentType, skip, limit int64) ([]models.ListItem, int64, error)
	ListFeedItems(ctx context.Context, q models.FeedQuery) ([]models.ListItem, int64, error)
	CountForContent(ctx context.Context, contentID primitive.ObjectID) (int64, error)
	CountByUser(ctx context.Context, userID identity.UserID) (map[models.ContentType]int64, error)
}

type SearchStore interface {
	SearchContent(ctx context.Context, q models.SearchQuery) ([]models.SearchHit, int64, error)
}

// SearchCache is an optional result cache for catalog search.
type SearchCache interface {
	Get(ctx context.Context, key string) (*models.SearchPage, bool, error)
	Set(ctx context.Context, key string, page *models.SearchPage, ttl time.Duration) error
}

// UserDirectory is the relational user store.
type UserDirectory interface {
	FindUsersByIDs(ctx context.Context, ids []identity.UserID) ([]models.UserSummary, error)
	UserExists(ctx context.Context, id identity.UserID) (bool, error)
	IncrementUserCounter(ctx context.Context, id identity.UserID, field models.UserCounter, delta int64) error
	SetUserCounters(ctx context.Context, id identity.UserID, counters map[models.UserCounter]int64) error
}

// FollowGraph is the relational follow-edge store.
type FollowGraph interface {
	ListFollowing(ctx context.Context, userID identity.UserID) ([]identity.UserID, error)
	Follow(ctx context.Context, follower, following identity.UserID) error
	Unfollow(ctx context.Context, follower, following identity.UserID) (bool, error)
}
