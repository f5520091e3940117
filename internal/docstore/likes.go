package docstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/qlture/engagement/internal/identity"
)

// Likes is one like collection. field names the target id column
// (reviewId, commentId or contentId).
type Likes struct {
	col   *mongo.Collection
	field string
}

func (l *Likes) key(userID identity.UserID, targetID primitive.ObjectID) bson.M {
	return bson.M{"userId": userID, l.field: targetID}
}

func (l *Likes) InsertLike(ctx context.Context, userID identity.UserID, targetID primitive.ObjectID) error {
	doc := l.key(userID, targetID)
	doc["createdAt"] = time.Now().UTC()
	_, err := l.col.InsertOne(ctx, doc)
	return mapErr(err)
}

func (l *Likes) DeleteLike(ctx context.Context, userID identity.UserID, targetID primitive.ObjectID) (bool, error) {
	res, err := l.col.DeleteOne(ctx, l.key(userID, targetID))
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (l *Likes) HasLike(ctx context.Context, userID identity.UserID, targetID primitive.ObjectID) (bool, error) {
	n, err := l.col.CountDocuments(ctx, l.key(userID, targetID))
	return n > 0, err
}

func (l *Likes) CountLikes(ctx context.Context, targetID primitive.ObjectID) (int64, error) {
	return l.col.CountDocuments(ctx, bson.M{l.field: targetID})
}

func (l *Likes) CountLikesFor(ctx context.Context, targetIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	out := map[primitive.ObjectID]int64{}
	if len(targetIDs) == 0 {
		return out, nil
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{l.field: bson.M{"$in": targetIDs}}}},
		{{Key: "$group", Value: bson.M{"_id": "$" + l.field, "n": bson.M{"$sum": 1}}}},
	}
	cur, err := l.col.Aggregate(ctx, pipeline)
	rows, err := decodeAll[struct {
		ID primitive.ObjectID `bson:"_id"`
		N  int64              `bson:"n"`
	}](ctx, cur, err)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.ID] = r.N
	}
	return out, nil
}

func (l *Likes) LikedTargets(ctx context.Context, userID identity.UserID, targetIDs []primitive.ObjectID) (map[primitive.ObjectID]bool, error) {
	out := map[primitive.ObjectID]bool{}
	if len(targetIDs) == 0 {
		return out, nil
	}
	cur, err := l.col.Find(ctx, bson.M{"userId": userID, l.field: bson.M{"$in": targetIDs}})
	rows, err := decodeAll[bson.M](ctx, cur, err)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		if id, ok := r[l.field].(primitive.ObjectID); ok {
			out[id] = true
		}
	}
	return out, nil
}

func (l *Likes) DeleteLikesFor(ctx context.Context, targetIDs []primitive.ObjectID) error {
	if len(targetIDs) == 0 {
		return nil
	}
	_, err := l.col.DeleteMany(ctx, bson.M{l.field: bson.M{"$in": targetIDs}})
	return err
}
