package docstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/qlture/engagement/internal/models"
)

// InsertContent stores a catalog item. Catalog ingestion lives elsewhere;
// this is used by seeding and tests.
func (d *DB) InsertContent(ctx context.Context, c *models.ContentItem) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	if c.Genres == nil {
		c.Genres = []string{}
	}
	_, err := d.contents().InsertOne(ctx, c)
	return mapErr(err)
}

func (d *DB) FindContentByID(ctx context.Context, id primitive.ObjectID) (*models.ContentItem, error) {
	var c models.ContentItem
	if err := d.contents().FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (d *DB) FindContentSummaries(ctx context.Context, ids []primitive.ObjectID) ([]models.ContentSummary, error) {
	if len(ids) == 0 {
		return []models.ContentSummary{}, nil
	}
	opts := options.Find().SetProjection(bson.M{"type": 1, "title": 1, "image_url": 1})
	cur, err := d.contents().Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	return decodeAll[models.ContentSummary](ctx, cur, err)
}

func (d *DB) setContent(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updatedAt"] = time.Now().UTC()
	_, err := d.contents().UpdateByID(ctx, id, bson.M{"$set": fields})
	return err
}

func (d *DB) SetReviewStats(ctx context.Context, id primitive.ObjectID, s models.ReviewStats) error {
	return d.setContent(ctx, id, bson.M{
		"average_rating": s.AverageRating,
		"reviews_count":  s.ReviewsCount,
		"comments_count": s.CommentsCount,
	})
}

func (d *DB) SetEngagementStats(ctx context.Context, id primitive.ObjectID, s models.EngagementStats) error {
	return d.setContent(ctx, id, bson.M{
		"likes_count":    s.LikesCount,
		"wishlist_count": s.WishlistCount,
		"history_count":  s.HistoryCount,
	})
}

func (d *DB) SetContentLikes(ctx context.Context, id primitive.ObjectID, n int64) error {
	return d.setContent(ctx, id, bson.M{"likes_count": n})
}

// EachContentID streams catalog ids in _id order.
func (d *DB) EachContentID(ctx context.Context, fn func(primitive.ObjectID) error) error {
	opts := options.Find().SetProjection(bson.M{"_id": 1}).SetSort(bson.M{"_id": 1})
	cur, err := d.contents().Find(ctx, bson.M{}, opts)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return err
		}
		if err := fn(row.ID); err != nil {
			return err
		}
	}
	return cur.Err()
}
