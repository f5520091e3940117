package memstore

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/qlture/engagement/internal/models"
)

func (s *Store) InsertComment(_ context.Context, c *models.ReviewComment) error {
	s.Lock()
	defer s.Unlock()
	if c.ID.IsZero() {
		c.ID = s.newID()
	}
	cp := *c
	s.comments[c.ID] = &cp
	return nil
}

func (s *Store) FindCommentByID(_ context.Context, id primitive.ObjectID) (*models.ReviewComment, error) {
	s.RLock()
	defer s.RUnlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Store) DeleteComments(_ context.Context, ids []primitive.ObjectID) error {
	s.Lock()
	defer s.Unlock()
	for _, id := range ids {
		delete(s.comments, id)
	}
	return nil
}

func matches(c *models.ReviewComment, f models.CommentFilter) bool {
	if f.ReviewID != nil && c.ReviewID != *f.ReviewID {
		return false
	}
	if f.ContentID != nil && c.ContentID != *f.ContentID {
		return false
	}
	if f.ParentID != nil && (c.ReplyToCommentID == nil || *c.ReplyToCommentID != *f.ParentID) {
		return false
	}
	if f.RootsOnly && !c.IsRoot() {
		return false
	}
	return true
}

func (s *Store) filterComments(f models.CommentFilter) []models.ReviewComment {
	s.RLock()
	defer s.RUnlock()
	var out []models.ReviewComment
	for _, c := range s.comments {
		if matches(c, f) {
			out = append(out, *c)
		}
	}
	return out
}

func sortComments(out []models.ReviewComment, by models.CommentSort) {
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch by {
		case models.CommentDateAsc:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return idLess(a.ID, b.ID)
		case models.CommentLikesDesc:
			if a.LikesCount != b.LikesCount {
				return a.LikesCount > b.LikesCount
			}
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return idLess(a.ID, b.ID)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return idLess(b.ID, a.ID)
	})
}

func (s *Store) ListComments(_ context.Context, q models.CommentQuery) ([]models.ReviewComment, int64, error) {
	out := s.filterComments(q.CommentFilter)
	sortComments(out, q.Sort)
	return paginate(out, q.Skip, q.Limit), int64(len(out)), nil
}

func (s *Store) CommentIDs(_ context.Context, f models.CommentFilter) ([]primitive.ObjectID, error) {
	out := s.filterComments(f)
	ids := make([]primitive.ObjectID, len(out))
	for i, c := range out {
		ids[i] = c.ID
	}
	return ids, nil
}

func (s *Store) CountComments(_ context.Context, f models.CommentFilter) (int64, error) {
	return int64(len(s.filterComments(f))), nil
}

func (s *Store) LatestRoots(_ context.Context, reviewIDs []primitive.ObjectID, limit int64) (map[primitive.ObjectID][]models.ReviewComment, error) {
	out := map[primitive.ObjectID][]models.ReviewComment{}
	for _, id := range reviewIDs {
		roots := s.filterComments(models.CommentFilter{ReviewID: &id, RootsOnly: true})
		if len(roots) == 0 {
			continue
		}
		sortComments(roots, models.CommentDateDesc)
		out[id] = paginate(roots, 0, limit)
	}
	return out, nil
}

func (s *Store) FirstReplies(_ context.Context, rootIDs []primitive.ObjectID, limit int64) (map[primitive.ObjectID][]models.ReviewComment, error) {
	out := map[primitive.ObjectID][]models.ReviewComment{}
	for _, id := range rootIDs {
		replies := s.filterComments(models.CommentFilter{ParentID: &id})
		if len(replies) == 0 {
			continue
		}
		sortComments(replies, models.CommentDateAsc)
		out[id] = paginate(replies, 0, limit)
	}
	return out, nil
}

func (s *Store) SetCommentCounters(_ context.Context, id primitive.ObjectID, counters map[models.CommentCounter]int64) error {
	s.Lock()
	defer s.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return nil
	}
	for field, v := range counters {
		switch field {
		case models.CommentLikes:
			c.LikesCount = v
		case models.CommentReplies:
			c.RepliesCount = v
		}
	}
	return nil
}
