package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/qlture/engagement/internal/identity"
)

// ListKind selects the wishlist or the consumption history collection.
type ListKind string

const (
	ListWishlist ListKind = "wishlist"
	ListHistory  ListKind = "history"
)

func (k ListKind) Valid() bool {
	return k == ListWishlist || k == ListHistory
}

// ListItem is a wishlist or history entry, unique per (userId, contentId, type).
type ListItem struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     identity.UserID    `bson:"userId" json:"userId"`
	ContentID  primitive.ObjectID `bson:"contentId" json:"contentId"`
	Type       ContentType        `bson:"type" json:"type"`
	ConsumedAt *time.Time         `bson:"consumedAt,omitempty" json:"consumedAt,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Freshness is the feed ordering key.
func (i *ListItem) Freshness() time.Time {
	if i.ConsumedAt != nil {
		return *i.ConsumedAt
	}
	return i.CreatedAt
}
