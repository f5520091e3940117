package services

import (
	"context"
	"log/slog"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/qlture/engagement/internal/identity"
	"github.com/qlture/engagement/internal/models"
)

const (
	DefaultRepliesLimit = 2
	MaxRepliesLimit     = 20
)

// CommentService manages two-level comment threads under reviews. A reply to
// a reply is stored under the thread root and keeps the answered comment in
// InReplyToCommentID.
type CommentService struct {
	comments     CommentStore
	reviews      ReviewStore
	users        UserDirectory
	commentLikes LikeStore
	stats        *StatsSynchronizer
	filter       *TextFilter
	enrich       *enricher
	now          clock
}

func NewCommentService(st Stores, stats *StatsSynchronizer, filter *TextFilter) *CommentService {
	return &CommentService{
		comments:     st.Comments,
		reviews:      st.Reviews,
		users:        st.Users,
		commentLikes: st.CommentLikes,
		stats:        stats,
		filter:       filter,
		enrich:       newEnricher(st),
		now:          systemClock,
	}
}

// Create adds a root comment, or a reply when replyTo is set.
func (s *CommentService) Create(ctx context.Context, reviewID primitive.ObjectID, userID identity.UserID, text string, replyTo *primitive.ObjectID) (*CommentView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrCommentRequired
	}
	if err := s.filter.Check(text); err != nil {
		return nil, err
	}

	review, err := s.reviews.FindReviewByID(ctx, reviewID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	now := s.now()
	comment := &models.ReviewComment{
		ReviewID:  review.ID,
		ContentID: review.ContentID,
		UserID:    userID,
		Comment:   text,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if replyTo != nil {
		target, err := s.comments.FindCommentByID(ctx, *replyTo)
		if err != nil {
			if isNotFound(err) {
				return nil, ErrReplyTargetNotFound
			}
			return nil, err
		}
		if target.ReviewID != review.ID {
			return nil, ErrReplyTargetNotFound
		}

		root := target.ID
		if !target.IsRoot() {
			root = *target.ReplyToCommentID
		}
		answered := target.ID
		comment.ReplyToCommentID = &root
		comment.InReplyToCommentID = &answered
		comment.Comment = s.mention(ctx, target.UserID) + text
	}

	if err := s.comments.InsertComment(ctx, comment); err != nil {
		return nil, err
	}

	if comment.IsRoot() {
		err = s.stats.RecomputeReviewCounters(ctx, review.ID)
	} else {
		err = s.stats.RecomputeCommentCounters(ctx, *comment.ReplyToCommentID)
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.stats.RecomputeContentReviewStats(ctx, review.ContentID); err != nil {
		return nil, err
	}

	views, err := s.enrich.commentViews(ctx, []models.ReviewComment{*comment}, nil, userID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// mention returns "@username " for the answered author, or "" when the
// author cannot be resolved.
func (s *CommentService) mention(ctx context.Context, author identity.UserID) string {
	users, err := s.users.FindUsersByIDs(ctx, []identity.UserID{author})
	if err != nil {
		slog.WarnContext(ctx, "mention lookup failed", "user_id", author.String(), "error", err.Error())
		return ""
	}
	for _, u := range users {
		if u.ID == author && u.Username != "" {
			return "@" + u.Username + " "
		}
	}
	return ""
}

// Delete removes a comment owned by userID together with its likes. Deleting
// a thread root also removes its replies.
func (s *CommentService) Delete(ctx context.Context, commentID primitive.ObjectID, userID identity.UserID) error {
	comment, err := s.comments.FindCommentByID(ctx, commentID)
	if err != nil {
		if isNotFound(err) {
			return ErrCommentNotFound
		}
		return err
	}
	if comment.UserID != userID {
		return ErrNotCommentOwner
	}

	ids := []primitive.ObjectID{comment.ID}
	if comment.IsRoot() {
		replies, err := s.comments.CommentIDs(ctx, models.CommentFilter{ParentID: &comment.ID})
		if err != nil {
			return err
		}
		ids = append(ids, replies...)
	}

	if err := s.commentLikes.DeleteLikesFor(ctx, ids); err != nil {
		return err
	}
	if err := s.comments.DeleteComments(ctx, ids); err != nil {
		return err
	}

	if comment.IsRoot() {
		err = s.stats.RecomputeReviewCounters(ctx, comment.ReviewID)
	} else {
		err = s.stats.RecomputeCommentCounters(ctx, *comment.ReplyToCommentID)
	}
	if err != nil {
		return err
	}
	_, err = s.stats.RecomputeContentReviewStats(ctx, comment.ContentID)
	return err
}

// CommentListQuery pages comments for a viewer.
type CommentListQuery struct {
	Page         Page
	Sort         models.CommentSort
	RepliesLimit int64
	Viewer       identity.UserID
}

func (q *CommentListQuery) normalize() error {
	if q.Sort == "" {
		q.Sort = models.CommentDateDesc
	}
	if !q.Sort.Valid() {
		return ErrInvalidSort
	}
	if q.RepliesLimit < 0 {
		q.RepliesLimit = DefaultRepliesLimit
	}
	if q.RepliesLimit > MaxRepliesLimit {
		q.RepliesLimit = MaxRepliesLimit
	}
	return nil
}

func (s *CommentService) requireReview(ctx context.Context, reviewID primitive.ObjectID) error {
	if _, err := s.reviews.FindReviewByID(ctx, reviewID); err != nil {
		if isNotFound(err) {
			return ErrReviewNotFound
		}
		return err
	}
	return nil
}

// ListRootComments pages the thread roots of a review, each with its first
// replies oldest-first.
func (s *CommentService) ListRootComments(ctx context.Context, reviewID primitive.ObjectID, q CommentListQuery) (*PageResult[CommentView], error) {
	if err := q.normalize(); err != nil {
		return nil, err
	}
	if err := s.requireReview(ctx, reviewID); err != nil {
		return nil, err
	}

	roots, total, err := s.comments.ListComments(ctx, models.CommentQuery{
		CommentFilter: models.CommentFilter{ReviewID: &reviewID, RootsOnly: true},
		Sort:          q.Sort,
		Skip:          q.Page.Skip(),
		Limit:         q.Page.Limit,
	})
	if err != nil {
		return nil, err
	}

	replies := map[primitive.ObjectID][]models.ReviewComment{}
	if q.RepliesLimit > 0 && len(roots) > 0 {
		ids := make([]primitive.ObjectID, len(roots))
		for i, r := range roots {
			ids[i] = r.ID
		}
		if replies, err = s.comments.FirstReplies(ctx, ids, q.RepliesLimit); err != nil {
			return nil, err
		}
	}

	views, err := s.enrich.commentViews(ctx, roots, replies, q.Viewer)
	if err != nil {
		return nil, err
	}
	for i := range views {
		if views[i].Replies == nil {
			views[i].Replies = []CommentView{}
		}
	}
	page := newPageResult(views, total, q.Page)
	return &page, nil
}

// ListReplies pages the replies of one thread root.
func (s *CommentService) ListReplies(ctx context.Context, parentID primitive.ObjectID, q CommentListQuery) (*PageResult[CommentView], error) {
	if err := q.normalize(); err != nil {
		return nil, err
	}
	parent, err := s.comments.FindCommentByID(ctx, parentID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	root := parent.ID
	if !parent.IsRoot() {
		root = *parent.ReplyToCommentID
	}

	replies, total, err := s.comments.ListComments(ctx, models.CommentQuery{
		CommentFilter: models.CommentFilter{ParentID: &root},
		Sort:          q.Sort,
		Skip:          q.Page.Skip(),
		Limit:         q.Page.Limit,
	})
	if err != nil {
		return nil, err
	}
	views, err := s.enrich.commentViews(ctx, replies, nil, q.Viewer)
	if err != nil {
		return nil, err
	}
	page := newPageResult(views, total, q.Page)
	return &page, nil
}

// ListComments pages every comment of a review, roots and replies alike.
func (s *CommentService) ListComments(ctx context.Context, reviewID primitive.ObjectID, q CommentListQuery) (*PageResult[CommentView], error) {
	if err := q.normalize(); err != nil {
		return nil, err
	}
	if err := s.requireReview(ctx, reviewID); err != nil {
		return nil, err
	}
	comments, total, err := s.comments.ListComments(ctx, models.CommentQuery{
		CommentFilter: models.CommentFilter{ReviewID: &reviewID},
		Sort:          q.Sort,
		Skip:          q.Page.Skip(),
		Limit:         q.Page.Limit,
	})
	if err != nil {
		return nil, err
	}
	views, err := s.enrich.commentViews(ctx, comments, nil, q.Viewer)
	if err != nil {
		return nil, err
	}
	page := newPageResult(views, total, q.Page)
	return &page, nil
}
