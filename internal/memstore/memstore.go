// Package memstore is an in-memory implementation of every store the
// services run on. It enforces the same uniqueness rules as the real stores
// and is used by tests and local runs without databases.
package memstore

import (
	"bytes"
	"encoding/binary"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/qlture/engagement/internal/identity"
	"github.com/qlture/engagement/internal/models"
)

// Store holds all collections behind one lock.
type Store struct {
	sync.RWMutex
	contents map[primitive.ObjectID]*models.ContentItem
	reviews  map[primitive.ObjectID]*models.Review
	comments map[primitive.ObjectID]*models.ReviewComment
	likes    map[models.LikeKind]*Likes
	lists    map[models.ListKind]*List
	users    map[identity.UserID]*models.User
	follows  []followEdge
	seq      uint32
}

type followEdge struct {
	follower, following identity.UserID
	at                  time.Time
}

// New creates an empty store.
func New() *Store {
	s := &Store{
		contents: map[primitive.ObjectID]*models.ContentItem{},
		reviews:  map[primitive.ObjectID]*models.Review{},
		comments: map[primitive.ObjectID]*models.ReviewComment{},
		users:    map[identity.UserID]*models.User{},
	}
	s.likes = map[models.LikeKind]*Likes{
		models.LikeReview:  {s: s, rows: map[likeKey]struct{}{}},
		models.LikeComment: {s: s, rows: map[likeKey]struct{}{}},
		models.LikeContent: {s: s, rows: map[likeKey]struct{}{}},
	}
	s.lists = map[models.ListKind]*List{
		models.ListWishlist: {s: s, kind: models.ListWishlist, items: map[primitive.ObjectID]*models.ListItem{}},
		models.ListHistory:  {s: s, kind: models.ListHistory, items: map[primitive.ObjectID]*models.ListItem{}},
	}
	return s
}

// Likes returns the like collection of kind.
func (s *Store) Likes(kind models.LikeKind) *Likes {
	return s.likes[kind]
}

// List returns the wishlist or history collection.
func (s *Store) List(kind models.ListKind) *List {
	return s.lists[kind]
}

// newID returns increasing ids so creation order is also id order.
func (s *Store) newID() primitive.ObjectID {
	s.seq++
	var id primitive.ObjectID
	binary.BigEndian.PutUint32(id[:4], s.seq)
	return id
}

func idLess(a, b primitive.ObjectID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

func paginate[T any](in []T, skip, limit int64) []T {
	if skip >= int64(len(in)) {
		return []T{}
	}
	in = in[skip:]
	if limit > 0 && limit < int64(len(in)) {
		in = in[:limit]
	}
	return in
}

func userSet(ids []identity.UserID) map[identity.UserID]bool {
	out := make(map[identity.UserID]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}

func idSet(ids []primitive.ObjectID) map[primitive.ObjectID]bool {
	out := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}
