package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/qlture/engagement/internal/identity"
	"github.com/qlture/engagement/internal/models"
)

// AddUser stores a user with a fresh id and returns it.
func (s *Store) AddUser(username string) identity.UserID {
	s.Lock()
	defer s.Unlock()
	u := &models.User{ID: uuid.New(), Username: username, CreatedAt: time.Now().UTC()}
	u.UpdatedAt = u.CreatedAt
	id := identity.UserID(u.ID.String())
	s.users[id] = u
	return id
}

// User returns a copy of the stored user.
func (s *Store) User(id identity.UserID) (models.User, bool) {
	s.RLock()
	defer s.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, false
	}
	return *u, true
}

func (s *Store) FindUsersByIDs(_ context.Context, ids []identity.UserID) ([]models.UserSummary, error) {
	s.RLock()
	defer s.RUnlock()
	out := make([]models.UserSummary, 0, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, u.Summary())
		}
	}
	return out, nil
}

func (s *Store) UserExists(_ context.Context, id identity.UserID) (bool, error) {
	s.RLock()
	defer s.RUnlock()
	_, ok := s.users[id]
	return ok, nil
}

func (s *Store) IncrementUserCounter(_ context.Context, id identity.UserID, field models.UserCounter, delta int64) error {
	s.Lock()
	defer s.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.ErrNotFound
	}
	p := u.Counter(field)
	if p == nil {
		return models.ErrNotFound
	}
	*p += delta
	return nil
}

func (s *Store) SetUserCounters(_ context.Context, id identity.UserID, counters map[models.UserCounter]int64) error {
	s.Lock()
	defer s.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.ErrNotFound
	}
	for field, v := range counters {
		if p := u.Counter(field); p != nil {
			*p = v
		}
	}
	return nil
}

func (s *Store) ListFollowing(_ context.Context, userID identity.UserID) ([]identity.UserID, error) {
	s.RLock()
	defer s.RUnlock()
	var out []identity.UserID
	for _, e := range s.follows {
		if e.follower == userID {
			out = append(out, e.following)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (s *Store) Follow(_ context.Context, follower, following identity.UserID) error {
	s.Lock()
	defer s.Unlock()
	for _, e := range s.follows {
		if e.follower == follower && e.following == following {
			return models.ErrDuplicate
		}
	}
	s.follows = append(s.follows, followEdge{follower: follower, following: following, at: time.Now().UTC()})
	return nil
}

func (s *Store) Unfollow(_ context.Context, follower, following identity.UserID) (bool, error) {
	s.Lock()
	defer s.Unlock()
	for i, e := range s.follows {
		if e.follower == follower && e.following == following {
			s.follows = append(s.follows[:i], s.follows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
