package docstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/qlture/engagement/internal/identity"
	"github.com/qlture/engagement/internal/models"
)

// List is the wishlist_items or history_items collection.
type List struct {
	col  *mongo.Collection
	kind models.ListKind
}

func (l *List) InsertItem(ctx context.Context, item *models.ListItem) error {
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	_, err := l.col.InsertOne(ctx, item)
	return mapErr(err)
}

func (l *List) DeleteItem(ctx context.Context, userID identity.UserID, contentID primitive.ObjectID, t models.ContentType) (bool, error) {
	res, err := l.col.DeleteOne(ctx, bson.M{"userId": userID, "contentId": contentID, "type": t})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (l *List) ListUserItems(ctx context.Context, userID identity.UserID, t models.ContentType, skip, limit int64) ([]models.ListItem, int64, error) {
	filter := bson.M{"userId": userID}
	if t != "" {
		filter["type"] = t
	}
	total, err := l.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).SetSkip(skip)
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := l.col.Find(ctx, filter, opts)
	out, err := decodeAll[models.ListItem](ctx, cur, err)
	return out, total, err
}

// ListFeedItems orders history by coalesce(consumedAt, createdAt) and the
// wishlist by createdAt, newest first.
func (l *List) ListFeedItems(ctx context.Context, q models.FeedQuery) ([]models.ListItem, int64, error) {
	match := bson.M{"userId": bson.M{"$in": q.UserIDs}}
	total, err := l.col.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, err
	}
	freshness := any("$createdAt")
	if l.kind == models.ListHistory {
		freshness = bson.M{"$ifNull": bson.A{"$consumedAt", "$createdAt"}}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$addFields", Value: bson.M{"freshness": freshness}}},
		{{Key: "$sort", Value: bson.D{{Key: "freshness", Value: -1}, {Key: "_id", Value: -1}}}},
	}
	cur, err := l.col.Aggregate(ctx, pageStages(pipeline, q.Skip, q.Limit))
	out, err := decodeAll[models.ListItem](ctx, cur, err)
	return out, total, err
}

func (l *List) CountForContent(ctx context.Context, contentID primitive.ObjectID) (int64, error) {
	return l.col.CountDocuments(ctx, bson.M{"contentId": contentID})
}

func (l *List) CountByUser(ctx context.Context, userID identity.UserID) (map[models.ContentType]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID}}},
		{{Key: "$group", Value: bson.M{"_id": "$type", "n": bson.M{"$sum": 1}}}},
	}
	cur, err := l.col.Aggregate(ctx, pipeline)
	rows, err := decodeAll[struct {
		Type models.ContentType `bson:"_id"`
		N    int64              `bson:"n"`
	}](ctx, cur, err)
	if err != nil {
		return nil, err
	}
	out := make(map[models.ContentType]int64, len(rows))
	for _, r := range rows {
		out[r.Type] = r.N
	}
	return out, nil
}
