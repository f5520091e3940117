package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/qlture/engagement/internal/identity"
	"github.com/qlture/engagement/internal/metrics"
	"github.com/qlture/engagement/internal/models"
)

// LikeTarget is the liked document: it must exist before a toggle and owns
// the cached likes counter.
type LikeTarget interface {
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
	SetLikesCount(ctx context.Context, id primitive.ObjectID, n int64) error
}

// LikeService toggles likes on one kind of target. The cached count is
// recomputed from the like rows after every toggle.
type LikeService struct {
	kind   models.LikeKind
	likes  LikeStore
	target LikeTarget
}

func NewLikeService(kind models.LikeKind, likes LikeStore, target LikeTarget) *LikeService {
	return &LikeService{kind: kind, likes: likes, target: target}
}

// ToggleResult is the outcome of a toggle.
type ToggleResult struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likesCount"`
}

func (s *LikeService) ToggleLike(ctx context.Context, targetID primitive.ObjectID, userID identity.UserID) (*ToggleResult, error) {
	exists, err := s.target.Exists(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrLikeTargetNotFound
	}

	removed, err := s.likes.DeleteLike(ctx, userID, targetID)
	if err != nil {
		return nil, err
	}
	liked := !removed
	if liked {
		// A concurrent toggle may have inserted the row first; the row
		// existing is the liked state either way.
		if err := s.likes.InsertLike(ctx, userID, targetID); err != nil && !isDuplicate(err) {
			return nil, err
		}
	}

	count, err := s.likes.CountLikes(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if err := s.target.SetLikesCount(ctx, targetID, count); err != nil {
		return nil, err
	}

	result := "unliked"
	if liked {
		result = "liked"
	}
	metrics.LikeToggles.WithLabelValues(string(s.kind), result).Inc()

	return &ToggleResult{Liked: liked, LikesCount: count}, nil
}

func (s *LikeService) HasUserLiked(ctx context.Context, targetID primitive.ObjectID, userID identity.UserID) (bool, error) {
	if userID.IsAnonymous() {
		return false, nil
	}
	return s.likes.HasLike(ctx, userID, targetID)
}

func (s *LikeService) GetLikeCount(ctx context.Context, targetID primitive.ObjectID) (int64, error) {
	return s.likes.CountLikes(ctx, targetID)
}

// GetLikeCountsForIDs returns a count for every id, zero included.
func (s *LikeService) GetLikeCountsForIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	counts, err := s.likes.CountLikesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[primitive.ObjectID]int64, len(ids))
	for _, id := range ids {
		out[id] = counts[id]
	}
	return out, nil
}

// LikedSet returns the subset of ids the user liked.
func (s *LikeService) LikedSet(ctx context.Context, userID identity.UserID, ids []primitive.ObjectID) (map[primitive.ObjectID]bool, error) {
	return liked(ctx, s.likes, userID, ids)
}

// LikeState is the read side of a like button.
type LikeState struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likesCount"`
}

func (s *LikeService) State(ctx context.Context, targetID primitive.ObjectID, userID identity.UserID) (*LikeState, error) {
	likedByUser, err := s.HasUserLiked(ctx, targetID, userID)
	if err != nil {
		return nil, err
	}
	count, err := s.GetLikeCount(ctx, targetID)
	if err != nil {
		return nil, err
	}
	return &LikeState{Liked: likedByUser, LikesCount: count}, nil
}

// Like targets over the document stores.

type reviewTarget struct{ reviews ReviewStore }

func (t reviewTarget) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return found(t.reviews.FindReviewByID(ctx, id))
}

func (t reviewTarget) SetLikesCount(ctx context.Context, id primitive.ObjectID, n int64) error {
	return t.reviews.SetReviewCounters(ctx, id, map[models.ReviewCounter]int64{models.ReviewLikes: n})
}

type commentTarget struct{ comments CommentStore }

func (t commentTarget) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return found(t.comments.FindCommentByID(ctx, id))
}

func (t commentTarget) SetLikesCount(ctx context.Context, id primitive.ObjectID, n int64) error {
	return t.comments.SetCommentCounters(ctx, id, map[models.CommentCounter]int64{models.CommentLikes: n})
}

type contentTarget struct{ contents ContentStore }

func (t contentTarget) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return found(t.contents.FindContentByID(ctx, id))
}

func (t contentTarget) SetLikesCount(ctx context.Context, id primitive.ObjectID, n int64) error {
	return t.contents.SetContentLikes(ctx, id, n)
}

func found[T any](v *T, err error) (bool, error) {
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return v != nil, nil
}

// NewReviewLikes, NewCommentLikes and NewContentLikes build the three like
// services over their stores.
func NewReviewLikes(st Stores) *LikeService {
	return NewLikeService(models.LikeReview, st.ReviewLikes, reviewTarget{st.Reviews})
}

func NewCommentLikes(st Stores) *LikeService {
	return NewLikeService(models.LikeComment, st.CommentLikes, commentTarget{st.Comments})
}

func NewContentLikes(st Stores) *LikeService {
	return NewLikeService(models.LikeContent, st.ContentLikes, contentTarget{st.Contents})
}
