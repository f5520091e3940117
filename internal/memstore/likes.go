package memstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/qlture/engagement/internal/identity"
	"github.com/qlture/engagement/internal/models"
)

type likeKey struct {
	user   identity.UserID
	target primitive.ObjectID
}

// Likes is one like collection, unique per (user, target).
type Likes struct {
	s    *Store
	rows map[likeKey]struct{}
}

func (l *Likes) InsertLike(_ context.Context, userID identity.UserID, targetID primitive.ObjectID) error {
	l.s.Lock()
	defer l.s.Unlock()
	k := likeKey{userID, targetID}
	if _, ok := l.rows[k]; ok {
		return models.ErrDuplicate
	}
	l.rows[k] = struct{}{}
	return nil
}

func (l *Likes) DeleteLike(_ context.Context, userID identity.UserID, targetID primitive.ObjectID) (bool, error) {
	l.s.Lock()
	defer l.s.Unlock()
	k := likeKey{userID, targetID}
	if _, ok := l.rows[k]; !ok {
		return false, nil
	}
	delete(l.rows, k)
	return true, nil
}

func (l *Likes) HasLike(_ context.Context, userID identity.UserID, targetID primitive.ObjectID) (bool, error) {
	l.s.RLock()
	defer l.s.RUnlock()
	_, ok := l.rows[likeKey{userID, targetID}]
	return ok, nil
}

func (l *Likes) CountLikes(_ context.Context, targetID primitive.ObjectID) (int64, error) {
	l.s.RLock()
	defer l.s.RUnlock()
	var n int64
	for k := range l.rows {
		if k.target == targetID {
			n++
		}
	}
	return n, nil
}

func (l *Likes) CountLikesFor(_ context.Context, targetIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	want := idSet(targetIDs)
	l.s.RLock()
	defer l.s.RUnlock()
	out := map[primitive.ObjectID]int64{}
	for k := range l.rows {
		if want[k.target] {
			out[k.target]++
		}
	}
	return out, nil
}

func (l *Likes) LikedTargets(_ context.Context, userID identity.UserID, targetIDs []primitive.ObjectID) (map[primitive.ObjectID]bool, error) {
	l.s.RLock()
	defer l.s.RUnlock()
	out := map[primitive.ObjectID]bool{}
	for _, id := range targetIDs {
		if _, ok := l.rows[likeKey{userID, id}]; ok {
			out[id] = true
		}
	}
	return out, nil
}

func (l *Likes) DeleteLikesFor(_ context.Context, targetIDs []primitive.ObjectID) error {
	drop := idSet(targetIDs)
	l.s.Lock()
	defer l.s.Unlock()
	for k := range l.rows {
		if drop[k.target] {
			delete(l.rows, k)
		}
	}
	return nil
}

// Len is the number of like rows.
func (l *Likes) Len() int {
	l.s.RLock()
	defer l.s.RUnlock()
	return len(l.rows)
}
