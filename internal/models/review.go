package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/qlture/engagement/internal/identity"
)

// Review holds a user's rating and/or text for one content item. At most one
// review exists per (userId, contentId).
type Review struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            identity.UserID    `bson:"userId" json:"userId"`
	ContentID         primitive.ObjectID `bson:"contentId" json:"contentId"`
	Rating            *float64           `bson:"rating,omitempty" json:"rating,omitempty"`
	ReviewText        string             `bson:"reviewText,omitempty" json:"reviewText,omitempty"`
	LikesCount        int64              `bson:"likesCount" json:"likesCount"`
	CommentsCount     int64              `bson:"commentsCount" json:"commentsCount"`
	ReviewTextAddedAt *time.Time         `bson:"reviewTextAddedAt,omitempty" json:"reviewTextAddedAt,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HasText reports whether the review counts as a written review.
func (r *Review) HasText() bool {
	return HasText(r.ReviewText)
}

// Freshness is the feed ordering key.
func (r *Review) Freshness() time.Time {
	if r.ReviewTextAddedAt != nil {
		return *r.ReviewTextAddedAt
	}
	return r.CreatedAt
}

func HasText(s string) bool {
	return strings.TrimSpace(s) != ""
}

// ReviewCounter names a cached counter on a review document.
type ReviewCounter string

const (
	ReviewLikes    ReviewCounter = "likesCount"
	ReviewComments ReviewCounter = "commentsCount"
)
