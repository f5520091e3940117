package memstore

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/qlture/engagement/internal/identity"
	"github.com/qlture/engagement/internal/models"
)

func (s *Store) InsertReview(_ context.Context, r *models.Review) error {
	s.Lock()
	defer s.Unlock()
	for _, existing := range s.reviews {
		if existing.UserID == r.UserID && existing.ContentID == r.ContentID {
			return models.ErrDuplicate
		}
	}
	if r.ID.IsZero() {
		r.ID = s.newID()
	}
	cp := *r
	s.reviews[r.ID] = &cp
	return nil
}

func (s *Store) FindReview(_ context.Context, userID identity.UserID, contentID primitive.ObjectID) (*models.Review, error) {
	s.RLock()
	defer s.RUnlock()
	for _, r := range s.reviews {
		if r.UserID == userID && r.ContentID == contentID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *Store) FindReviewByID(_ context.Context, id primitive.ObjectID) (*models.Review, error) {
	s.RLock()
	defer s.RUnlock()
	r, ok := s.reviews[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *Store) UpdateReview(_ context.Context, r *models.Review) error {
	s.Lock()
	defer s.Unlock()
	stored, ok := s.reviews[r.ID]
	if !ok {
		return models.ErrNotFound
	}
	stored.Rating = r.Rating
	stored.ReviewText = r.ReviewText
	stored.ReviewTextAddedAt = r.ReviewTextAddedAt
	stored.UpdatedAt = r.UpdatedAt
	return nil
}

func (s *Store) DeleteReview(_ context.Context, id primitive.ObjectID) error {
	s.Lock()
	defer s.Unlock()
	delete(s.reviews, id)
	return nil
}

// Reviews returns a copy of every stored review.
func (s *Store) Reviews() []models.Review {
	s.RLock()
	defer s.RUnlock()
	out := make([]models.Review, 0, len(s.reviews))
	for _, r := range s.reviews {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return idLess(out[i].ID, out[j].ID) })
	return out
}

func (s *Store) filterReviews(keep func(*models.Review) bool) []models.Review {
	var out []models.Review
	for _, r := range s.reviews {
		if keep(r) {
			out = append(out, *r)
		}
	}
	return out
}

// ratingLess orders missing ratings first, like the document store does.
func ratingLess(a, b *float64) bool {
	switch {
	case a == nil:
		return b != nil
	case b == nil:
		return false
	}
	return *a < *b
}

func (s *Store) ListContentReviews(_ context.Context, q models.ReviewListQuery) ([]models.Review, int64, error) {
	s.RLock()
	out := s.filterReviews(func(r *models.Review) bool {
		return r.ContentID == q.ContentID && r.HasText() && (q.ExcludeUser.IsAnonymous() || r.UserID != q.ExcludeUser)
	})
	s.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch q.Sort {
		case models.ReviewDateAsc:
			if !a.UpdatedAt.Equal(b.UpdatedAt) {
				return a.UpdatedAt.Before(b.UpdatedAt)
			}
		case models.ReviewRatingDesc:
			if ratingLess(a.Rating, b.Rating) != ratingLess(b.Rating, a.Rating) {
				return ratingLess(b.Rating, a.Rating)
			}
		case models.ReviewRatingAsc:
			if ratingLess(a.Rating, b.Rating) != ratingLess(b.Rating, a.Rating) {
				return ratingLess(a.Rating, b.Rating)
			}
		default:
			if !a.UpdatedAt.Equal(b.UpdatedAt) {
				return a.UpdatedAt.After(b.UpdatedAt)
			}
		}
		return idLess(a.ID, b.ID)
	})
	return paginate(out, q.Skip, q.Limit), int64(len(out)), nil
}

func (s *Store) ListUserReviews(_ context.Context, userID identity.UserID, by models.UserReviewSort, asc bool) ([]models.Review, error) {
	s.RLock()
	out := s.filterReviews(func(r *models.Review) bool { return r.UserID == userID })
	s.RUnlock()

	less := func(a, b models.Review) bool {
		switch by {
		case models.UserReviewsByCreated:
			return a.CreatedAt.Before(b.CreatedAt)
		case models.UserReviewsByLikes:
			return a.LikesCount < b.LikesCount
		case models.UserReviewsByComments:
			return a.CommentsCount < b.CommentsCount
		case models.UserReviewsByRating:
			return ratingLess(a.Rating, b.Rating)
		}
		return a.UpdatedAt.Before(b.UpdatedAt)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if less(a, b) != less(b, a) {
			if asc {
				return less(a, b)
			}
			return less(b, a)
		}
		return idLess(a.ID, b.ID)
	})
	if out == nil {
		out = []models.Review{}
	}
	return out, nil
}

func (s *Store) ListFeedReviews(_ context.Context, q models.FeedQuery) ([]models.Review, int64, error) {
	authors := userSet(q.UserIDs)
	s.RLock()
	out := s.filterReviews(func(r *models.Review) bool { return authors[r.UserID] && r.HasText() })
	s.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Freshness(), out[j].Freshness()
		if !a.Equal(b) {
			return a.After(b)
		}
		return idLess(out[j].ID, out[i].ID)
	})
	return paginate(out, q.Skip, q.Limit), int64(len(out)), nil
}

func (s *Store) ReviewIDsForContent(_ context.Context, contentID primitive.ObjectID) ([]primitive.ObjectID, error) {
	s.RLock()
	defer s.RUnlock()
	var ids []primitive.ObjectID
	for _, r := range s.reviews {
		if r.ContentID == contentID {
			ids = append(ids, r.ID)
		}
	}
	return ids, nil
}

func (s *Store) AggregateRatings(_ context.Context, contentID primitive.ObjectID) (models.RatingAggregate, error) {
	s.RLock()
	defer s.RUnlock()
	var agg models.RatingAggregate
	for _, r := range s.reviews {
		if r.ContentID != contentID {
			continue
		}
		if r.Rating != nil {
			agg.RatedCount++
			agg.RatingSum += *r.Rating
		}
		if r.HasText() {
			agg.TextReviews++
		}
	}
	return agg, nil
}

func (s *Store) CountTextReviewsByUser(_ context.Context, userID identity.UserID) (int64, error) {
	s.RLock()
	defer s.RUnlock()
	var n int64
	for _, r := range s.reviews {
		if r.UserID == userID && r.HasText() {
			n++
		}
	}
	return n, nil
}

func (s *Store) SetReviewCounters(_ context.Context, id primitive.ObjectID, counters map[models.ReviewCounter]int64) error {
	s.Lock()
	defer s.Unlock()
	r, ok := s.reviews[id]
	if !ok {
		return nil
	}
	for field, v := range counters {
		switch field {
		case models.ReviewLikes:
			r.LikesCount = v
		case models.ReviewComments:
			r.CommentsCount = v
		}
	}
	return nil
}
