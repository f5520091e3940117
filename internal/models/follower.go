package models

import (
	"time"

	"github.com/google/uuid"
)

// Follower is a directed follow edge between two users.
type Follower struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FollowerID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_followers_pair,priority:1;check:chk_no_self_follow,follower_id <> following_id" json:"follower_id"`
	FollowingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_followers_pair,priority:2;index" json:"following_id"`
	FollowedAt  time.Time `gorm:"not null;autoCreateTime" json:"followed_at"`
	Follower    User      `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	Following   User      `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Follower) TableName() string {
	return "followers"
}
