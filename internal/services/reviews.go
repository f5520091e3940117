package services

import (
	"context"
	"math"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"github.com/qlture/engagement/internal/identity"
	"github.com/qlture/engagement/internal/models"
)

const (
	MinRating = 0.5
	MaxRating = 5.0
)

// ReviewService manages a user's rating and written review of a content item.
type ReviewService struct {
	reviews      ReviewStore
	contents     ContentStore
	comments     CommentStore
	reviewLikes  LikeStore
	commentLikes LikeStore
	stats        *StatsSynchronizer
	filter       *TextFilter
	enrich       *enricher
	now          clock
}

func NewReviewService(st Stores, stats *StatsSynchronizer, filter *TextFilter) *ReviewService {
	return &ReviewService{
		reviews:      st.Reviews,
		contents:     st.Contents,
		comments:     st.Comments,
		reviewLikes:  st.ReviewLikes,
		commentLikes: st.CommentLikes,
		stats:        stats,
		filter:       filter,
		enrich:       newEnricher(st),
		now:          systemClock,
	}
}

func newEnricher(st Stores) *enricher {
	return &enricher{
		users:        st.Users,
		contents:     st.Contents,
		comments:     st.Comments,
		reviewLikes:  st.ReviewLikes,
		commentLikes: st.CommentLikes,
	}
}

// ValidateRating accepts 0.5 to 5 in half-point steps.
func ValidateRating(r float64) error {
	if math.IsNaN(r) || r < MinRating || r > MaxRating || math.Mod(r*2, 1) != 0 {
		return ErrInvalidRating
	}
	return nil
}

// CreateOrUpdateReview stores a written review, creating the row or updating
// the existing one for the pair. created reports whether a row was inserted.
func (s *ReviewService) CreateOrUpdateReview(ctx context.Context, userID identity.UserID, contentID primitive.ObjectID, rating *float64, text string) (review *models.Review, created bool, err error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false, ErrReviewTextRequired
	}
	if rating != nil {
		if err := ValidateRating(*rating); err != nil {
			return nil, false, err
		}
	}
	if err := s.filter.Check(text); err != nil {
		return nil, false, err
	}

	now := s.now()
	fresh := &models.Review{
		UserID:            userID,
		ContentID:         contentID,
		Rating:            rating,
		ReviewText:        text,
		ReviewTextAddedAt: &now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	return s.upsert(ctx, fresh, func(r *models.Review) (bool, error) {
		return s.apply(ctx, r, rating, &text)
	})
}

// CreateOrUpdateRating stores a rating without touching the review text.
func (s *ReviewService) CreateOrUpdateRating(ctx context.Context, userID identity.UserID, contentID primitive.ObjectID, rating float64) (review *models.Review, created bool, err error) {
	if err := ValidateRating(rating); err != nil {
		return nil, false, err
	}

	now := s.now()
	fresh := &models.Review{
		UserID:    userID,
		ContentID: contentID,
		Rating:    &rating,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.upsert(ctx, fresh, func(r *models.Review) (bool, error) {
		return s.apply(ctx, r, &rating, nil)
	})
}

// upsert inserts fresh unless a review exists for the pair, in which case
// update is applied to it. Losing an insert race to a concurrent first
// submission falls back to the update path.
func (s *ReviewService) upsert(ctx context.Context, fresh *models.Review, update func(*models.Review) (bool, error)) (*models.Review, bool, error) {
	existing, err := s.reviews.FindReview(ctx, fresh.UserID, fresh.ContentID)
	switch {
	case err == nil:
		if _, err := update(existing); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	case !isNotFound(err):
		return nil, false, err
	}

	if _, err := s.contents.FindContentByID(ctx, fresh.ContentID); err != nil {
		if isNotFound(err) {
			return nil, false, ErrContentNotFound
		}
		return nil, false, err
	}

	if err := s.reviews.InsertReview(ctx, fresh); err != nil {
		if !isDuplicate(err) {
			return nil, false, err
		}
		existing, err := s.reviews.FindReview(ctx, fresh.UserID, fresh.ContentID)
		if err != nil {
			return nil, false, err
		}
		if _, err := update(existing); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	if fresh.HasText() {
		if err := s.stats.AdjustUserCounter(ctx, fresh.UserID, models.CounterReviews, 1); err != nil {
			return nil, false, err
		}
	}
	if _, err := s.stats.RecomputeContentReviewStats(ctx, fresh.ContentID); err != nil {
		return nil, false, err
	}
	return fresh, true, nil
}

// apply changes rating and text of an existing review and keeps the text
// bookkeeping in step. A nil text leaves the text alone; a blank one removes
// it. It reports whether the text-bearing state flipped.
func (s *ReviewService) apply(ctx context.Context, r *models.Review, rating *float64, text *string) (bool, error) {
	hadText := r.HasText()
	now := s.now()

	if rating != nil {
		v := *rating
		r.Rating = &v
	}
	if text != nil {
		t := strings.TrimSpace(*text)
		if t != r.ReviewText {
			r.ReviewText = t
			if t != "" {
				r.ReviewTextAddedAt = &now
			} else {
				r.ReviewTextAddedAt = nil
			}
		}
	}
	if r.Rating == nil && !r.HasText() {
		return false, ErrEmptyReview
	}
	r.UpdatedAt = now

	if err := s.reviews.UpdateReview(ctx, r); err != nil {
		return false, err
	}

	flipped := hadText != r.HasText()
	if flipped {
		delta := int64(1)
		if hadText {
			delta = -1
		}
		if err := s.stats.AdjustUserCounter(ctx, r.UserID, models.CounterReviews, delta); err != nil {
			return flipped, err
		}
	}
	if _, err := s.stats.RecomputeContentReviewStats(ctx, r.ContentID); err != nil {
		return flipped, err
	}
	return flipped, nil
}

// UpdateReviewInput is a partial update. Nil fields are left unchanged; an
// empty ReviewText removes the text.
type UpdateReviewInput struct {
	Rating     *float64
	ReviewText *string
}

func (s *ReviewService) UpdateReview(ctx context.Context, userID identity.UserID, contentID primitive.ObjectID, in UpdateReviewInput) (*models.Review, error) {
	if in.Rating != nil {
		if err := ValidateRating(*in.Rating); err != nil {
			return nil, err
		}
	}
	if in.ReviewText != nil {
		if err := s.filter.Check(*in.ReviewText); err != nil {
			return nil, err
		}
	}

	review, err := s.reviews.FindReview(ctx, userID, contentID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if _, err := s.apply(ctx, review, in.Rating, in.ReviewText); err != nil {
		return nil, err
	}
	return review, nil
}

// DeleteReview removes the review with its comments and every like that
// points at them, then re-derives the content statistics.
func (s *ReviewService) DeleteReview(ctx context.Context, userID identity.UserID, contentID primitive.ObjectID) error {
	review, err := s.reviews.FindReview(ctx, userID, contentID)
	if err != nil {
		if isNotFound(err) {
			return ErrReviewNotFound
		}
		return err
	}

	commentIDs, err := s.comments.CommentIDs(ctx, models.CommentFilter{ReviewID: &review.ID})
	if err != nil {
		return err
	}
	if len(commentIDs) > 0 {
		if err := s.commentLikes.DeleteLikesFor(ctx, commentIDs); err != nil {
			return err
		}
		if err := s.comments.DeleteComments(ctx, commentIDs); err != nil {
			return err
		}
	}
	if err := s.reviewLikes.DeleteLikesFor(ctx, []primitive.ObjectID{review.ID}); err != nil {
		return err
	}
	if err := s.reviews.DeleteReview(ctx, review.ID); err != nil {
		return err
	}

	if review.HasText() {
		if err := s.stats.AdjustUserCounter(ctx, userID, models.CounterReviews, -1); err != nil {
			return err
		}
	}
	_, err = s.stats.RecomputeContentReviewStats(ctx, contentID)
	return err
}

// GetOwnReview returns the caller's raw review for a content item, or nil.
func (s *ReviewService) GetOwnReview(ctx context.Context, userID identity.UserID, contentID primitive.ObjectID) (*models.Review, error) {
	review, err := s.reviews.FindReview(ctx, userID, contentID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return review, nil
}

// GetUserReviewForContent returns userID's review enriched for viewer, or
// nil when the user has not reviewed the content.
func (s *ReviewService) GetUserReviewForContent(ctx context.Context, contentID primitive.ObjectID, userID, viewer identity.UserID) (*ReviewView, error) {
	review, err := s.GetOwnReview(ctx, userID, contentID)
	if err != nil || review == nil {
		return nil, err
	}
	views, err := s.enrich.reviewViews(ctx, []models.Review{*review}, viewer, false)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ReviewPageQuery selects a page of a content item's written reviews.
type ReviewPageQuery struct {
	ContentID primitive.ObjectID
	Page      Page
	Sort      models.ReviewSort
	Viewer    identity.UserID
}

// GetPaginatedReviewsForContent lists other users' written reviews and pins
// the viewer's own review, written or not, outside the page.
func (s *ReviewService) GetPaginatedReviewsForContent(ctx context.Context, q ReviewPageQuery) (*ReviewPage, error) {
	if q.Sort == "" {
		q.Sort = models.ReviewDateDesc
	}
	if !q.Sort.Valid() {
		return nil, ErrInvalidSort
	}
	if _, err := s.contents.FindContentByID(ctx, q.ContentID); err != nil {
		if isNotFound(err) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}

	var (
		reviews []models.Review
		total   int64
		own     *models.Review
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		reviews, total, err = s.reviews.ListContentReviews(gctx, models.ReviewListQuery{
			ContentID:   q.ContentID,
			ExcludeUser: q.Viewer,
			Sort:        q.Sort,
			Skip:        q.Page.Skip(),
			Limit:       q.Page.Limit,
		})
		return err
	})
	if !q.Viewer.IsAnonymous() {
		g.Go(func() error {
			var err error
			own, err = s.GetOwnReview(gctx, q.Viewer, q.ContentID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := reviews
	if own != nil {
		all = append([]models.Review{*own}, reviews...)
	}
	views, err := s.enrich.reviewViews(ctx, all, q.Viewer, false)
	if err != nil {
		return nil, err
	}

	page := &ReviewPage{}
	if own != nil {
		page.UserReview = &views[0]
		views = views[1:]
	}
	page.PageResult = newPageResult(views, total, q.Page)
	return page, nil
}

// ListUserReviews returns every review of a user joined with its content.
func (s *ReviewService) ListUserReviews(ctx context.Context, userID, viewer identity.UserID, sort models.UserReviewSort, asc bool) ([]ReviewView, error) {
	if sort == "" {
		sort = models.UserReviewsByUpdated
	}
	if !sort.Valid() {
		return nil, ErrInvalidSort
	}
	reviews, err := s.reviews.ListUserReviews(ctx, userID, sort, asc)
	if err != nil {
		return nil, err
	}
	return s.enrich.reviewViews(ctx, reviews, viewer, true)
}
