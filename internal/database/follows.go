package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qlture/engagement/internal/identity"
	"github.com/qlture/engagement/internal/models"
)

// Follows is the relational follow graph.
type Follows struct {
	db *gorm.DB
}

func NewFollows(db *gorm.DB) *Follows {
	return &Follows{db: db}
}

// ListFollowing returns the ids userID follows, in id order.
func (r *Follows) ListFollowing(ctx context.Context, userID identity.UserID) ([]identity.UserID, error) {
	key, err := parseID(userID)
	if err != nil {
		return []identity.UserID{}, nil
	}
	var ids []uuid.UUID
	err = r.db.WithContext(ctx).Model(&models.Follower{}).
		Where("follower_id = ?", key).
		Order("following_id").
		Pluck("following_id", &ids).Error
	if err != nil {
		return nil, err
	}
	out := make([]identity.UserID, len(ids))
	for i, id := range ids {
		out[i] = identity.UserID(id.String())
	}
	return out, nil
}

func (r *Follows) Follow(ctx context.Context, follower, following identity.UserID) error {
	from, err := parseID(follower)
	if err != nil {
		return err
	}
	to, err := parseID(following)
	if err != nil {
		return err
	}
	edge := models.Follower{ID: uuid.New(), FollowerID: from, FollowingID: to}
	err = r.db.WithContext(ctx).Omit(clause.Associations).Create(&edge).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.ErrDuplicate
	}
	return err
}

func (r *Follows) Unfollow(ctx context.Context, follower, following identity.UserID) (bool, error) {
	from, err := parseID(follower)
	if err != nil {
		return false, nil
	}
	to, err := parseID(following)
	if err != nil {
		return false, nil
	}
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", from, to).
		Delete(&models.Follower{})
	return result.RowsAffected > 0, result.Error
}
