package memstore

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/qlture/engagement/internal/identity"
	"github.com/qlture/engagement/internal/models"
)

// List is the wishlist or history collection, unique per (user, content, type).
type List struct {
	s     *Store
	kind  models.ListKind
	items map[primitive.ObjectID]*models.ListItem
}

func (l *List) InsertItem(_ context.Context, item *models.ListItem) error {
	l.s.Lock()
	defer l.s.Unlock()
	for _, it := range l.items {
		if it.UserID == item.UserID && it.ContentID == item.ContentID && it.Type == item.Type {
			return models.ErrDuplicate
		}
	}
	if item.ID.IsZero() {
		item.ID = l.s.newID()
	}
	cp := *item
	l.items[item.ID] = &cp
	return nil
}

func (l *List) DeleteItem(_ context.Context, userID identity.UserID, contentID primitive.ObjectID, t models.ContentType) (bool, error) {
	l.s.Lock()
	defer l.s.Unlock()
	for id, it := range l.items {
		if it.UserID == userID && it.ContentID == contentID && it.Type == t {
			delete(l.items, id)
			return true, nil
		}
	}
	return false, nil
}

func (l *List) filter(keep func(*models.ListItem) bool) []models.ListItem {
	l.s.RLock()
	defer l.s.RUnlock()
	var out []models.ListItem
	for _, it := range l.items {
		if keep(it) {
			out = append(out, *it)
		}
	}
	return out
}

func (l *List) ListUserItems(_ context.Context, userID identity.UserID, t models.ContentType, skip, limit int64) ([]models.ListItem, int64, error) {
	out := l.filter(func(it *models.ListItem) bool {
		return it.UserID == userID && (t == "" || it.Type == t)
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return idLess(out[j].ID, out[i].ID)
	})
	return paginate(out, skip, limit), int64(len(out)), nil
}

// ListFeedItems orders history by consumption time and the wishlist by
// creation time, newest first.
func (l *List) ListFeedItems(_ context.Context, q models.FeedQuery) ([]models.ListItem, int64, error) {
	authors := userSet(q.UserIDs)
	out := l.filter(func(it *models.ListItem) bool { return authors[it.UserID] })
	key := func(it models.ListItem) int64 {
		if l.kind == models.ListHistory {
			return it.Freshness().UnixNano()
		}
		return it.CreatedAt.UnixNano()
	}
	sort.Slice(out, func(i, j int) bool {
		if a, b := key(out[i]), key(out[j]); a != b {
			return a > b
		}
		return idLess(out[j].ID, out[i].ID)
	})
	return paginate(out, q.Skip, q.Limit), int64(len(out)), nil
}

func (l *List) CountForContent(_ context.Context, contentID primitive.ObjectID) (int64, error) {
	return int64(len(l.filter(func(it *models.ListItem) bool { return it.ContentID == contentID }))), nil
}

func (l *List) CountByUser(_ context.Context, userID identity.UserID) (map[models.ContentType]int64, error) {
	out := map[models.ContentType]int64{}
	for _, it := range l.filter(func(it *models.ListItem) bool { return it.UserID == userID }) {
		out[it.Type]++
	}
	return out, nil
}
