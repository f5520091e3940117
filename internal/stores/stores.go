// Package stores assembles the service ports from the document store and
// the relational store.
package stores

import (
	"gorm.io/gorm"

	"github.com/qlture/engagement/internal/database"
	"github.com/qlture/engagement/internal/docstore"
	"github.com/qlture/engagement/internal/models"
	"github.com/qlture/engagement/internal/services"
)

// Build wires the catalog and engagement collections from doc, and users
// and follow edges from db.
func Build(doc *docstore.DB, db *gorm.DB) services.Stores {
	return services.Stores{
		Contents:     doc,
		Reviews:      doc,
		Comments:     doc,
		ReviewLikes:  doc.Likes(models.LikeReview),
		CommentLikes: doc.Likes(models.LikeComment),
		ContentLikes: doc.Likes(models.LikeContent),
		Wishlist:     doc.List(models.ListWishlist),
		History:      doc.List(models.ListHistory),
		Search:       doc,
		Users:        database.NewUsers(db),
		Follows:      database.NewFollows(db),
	}
}
