package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qlture/engagement/internal/identity"
	"github.com/qlture/engagement/internal/models"
)

// Users reads author summaries and maintains the per-user activity counters.
type Users struct {
	db *gorm.DB
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

// parseID turns an id into a uuid. Malformed ids cannot match a row.
func parseID(id identity.UserID) (uuid.UUID, error) {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return uuid.Nil, models.ErrNotFound
	}
	return u, nil
}

func (r *Users) FindUsersByIDs(ctx context.Context, ids []identity.UserID) ([]models.UserSummary, error) {
	keys := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if u, err := parseID(id); err == nil {
			keys = append(keys, u)
		}
	}
	if len(keys) == 0 {
		return []models.UserSummary{}, nil
	}

	var users []models.User
	err := r.db.WithContext(ctx).
		Select("id", "username", "avatar_url").
		Where("id IN ?", keys).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	out := make([]models.UserSummary, len(users))
	for i := range users {
		out[i] = users[i].Summary()
	}
	return out, nil
}

func (r *Users) UserExists(ctx context.Context, id identity.UserID) (bool, error) {
	key, err := parseID(id)
	if err != nil {
		return false, nil
	}
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", key).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// IncrementUserCounter adds delta to one counter column in a single UPDATE.
func (r *Users) IncrementUserCounter(ctx context.Context, id identity.UserID, field models.UserCounter, delta int64) error {
	if !field.Valid() {
		return fmt.Errorf("unknown user counter %q", field)
	}
	key, err := parseID(id)
	if err != nil {
		return err
	}
	col := string(field)
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", key).
		UpdateColumn(col, gorm.Expr(col+" + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SetUserCounters overwrites counters with recounted values.
func (r *Users) SetUserCounters(ctx context.Context, id identity.UserID, counters map[models.UserCounter]int64) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}
	cols := make(map[string]any, len(counters))
	for field, v := range counters {
		if !field.Valid() {
			return fmt.Errorf("unknown user counter %q", field)
		}
		cols[string(field)] = v
	}
	if len(cols) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", key).UpdateColumns(cols)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
