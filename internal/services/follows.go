package services

import (
	"context"

	"github.com/qlture/engagement/internal/identity"
	"github.com/qlture/engagement/internal/models"
)

// FollowService edits the follow graph the feeds are built from.
type FollowService struct {
	follows FollowGraph
	users   UserDirectory
}

func NewFollowService(st Stores) *FollowService {
	return &FollowService{follows: st.Follows, users: st.Users}
}

func (s *FollowService) Follow(ctx context.Context, follower, following identity.UserID) error {
	if follower == following {
		return ErrSelfFollow
	}
	exists, err := s.users.UserExists(ctx, following)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}
	if err := s.follows.Follow(ctx, follower, following); err != nil {
		if isDuplicate(err) {
			return ErrAlreadyFollowing
		}
		return err
	}
	return nil
}

func (s *FollowService) Unfollow(ctx context.Context, follower, following identity.UserID) error {
	removed, err := s.follows.Unfollow(ctx, follower, following)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFollowing
	}
	return nil
}

// ListFollowing returns the summaries of the users userID follows.
func (s *FollowService) ListFollowing(ctx context.Context, userID identity.UserID) ([]models.UserSummary, error) {
	ids, err := s.follows.ListFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.UserSummary{}, nil
	}
	users, err := s.users.FindUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[identity.UserID]models.UserSummary, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	out := make([]models.UserSummary, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}
