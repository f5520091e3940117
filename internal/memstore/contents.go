package memstore

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/qlture/engagement/internal/models"
)

// PutContent stores a catalog item, assigning an id when it has none.
func (s *Store) PutContent(c models.ContentItem) primitive.ObjectID {
	s.Lock()
	defer s.Unlock()
	if c.ID.IsZero() {
		c.ID = s.newID()
	}
	s.contents[c.ID] = &c
	return c.ID
}

// Content returns a copy of the stored item.
func (s *Store) Content(id primitive.ObjectID) (models.ContentItem, bool) {
	s.RLock()
	defer s.RUnlock()
	c, ok := s.contents[id]
	if !ok {
		return models.ContentItem{}, false
	}
	return *c, true
}

func (s *Store) FindContentByID(_ context.Context, id primitive.ObjectID) (*models.ContentItem, error) {
	c, ok := s.Content(id)
	if !ok {
		return nil, models.ErrNotFound
	}
	return &c, nil
}

func (s *Store) FindContentSummaries(_ context.Context, ids []primitive.ObjectID) ([]models.ContentSummary, error) {
	s.RLock()
	defer s.RUnlock()
	out := make([]models.ContentSummary, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.contents[id]; ok {
			out = append(out, models.ContentSummary{ID: c.ID, Type: c.Type, Title: c.Title, ImageURL: c.ImageURL})
		}
	}
	return out, nil
}

func (s *Store) SetReviewStats(_ context.Context, id primitive.ObjectID, stats models.ReviewStats) error {
	s.Lock()
	defer s.Unlock()
	if c, ok := s.contents[id]; ok {
		c.AverageRating = stats.AverageRating
		c.ReviewsCount = stats.ReviewsCount
		c.CommentsCount = stats.CommentsCount
	}
	return nil
}

func (s *Store) SetEngagementStats(_ context.Context, id primitive.ObjectID, stats models.EngagementStats) error {
	s.Lock()
	defer s.Unlock()
	if c, ok := s.contents[id]; ok {
		c.LikesCount = stats.LikesCount
		c.WishlistCount = stats.WishlistCount
		c.HistoryCount = stats.HistoryCount
	}
	return nil
}

func (s *Store) SetContentLikes(_ context.Context, id primitive.ObjectID, n int64) error {
	s.Lock()
	defer s.Unlock()
	if c, ok := s.contents[id]; ok {
		c.LikesCount = n
	}
	return nil
}

func (s *Store) EachContentID(ctx context.Context, fn func(primitive.ObjectID) error) error {
	s.RLock()
	ids := make([]primitive.ObjectID, 0, len(s.contents))
	for id := range s.contents {
		ids = append(ids, id)
	}
	s.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return idLess(ids[i], ids[j]) })
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(id); err != nil {
			return err
		}
	}
	return nil
}
