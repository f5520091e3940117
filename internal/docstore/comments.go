package docstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/qlture/engagement/internal/models"
)

func (d *DB) InsertComment(ctx context.Context, c *models.ReviewComment) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	_, err := d.comments().InsertOne(ctx, c)
	return mapErr(err)
}

func (d *DB) FindCommentByID(ctx context.Context, id primitive.ObjectID) (*models.ReviewComment, error) {
	var c models.ReviewComment
	if err := d.comments().FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (d *DB) DeleteComments(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := d.comments().DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return err
}

// commentFilter builds the query document for f. Roots are stored with a
// null replyToCommentId.
func commentFilter(f models.CommentFilter) bson.M {
	m := bson.M{}
	if f.ReviewID != nil {
		m["reviewId"] = *f.ReviewID
	}
	if f.ContentID != nil {
		m["contentId"] = *f.ContentID
	}
	if f.ParentID != nil {
		m["replyToCommentId"] = *f.ParentID
	} else if f.RootsOnly {
		m["replyToCommentId"] = nil
	}
	return m
}

func commentSort(s models.CommentSort) bson.D {
	switch s {
	case models.CommentDateAsc:
		return bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
	case models.CommentLikesDesc:
		return bson.D{{Key: "likesCount", Value: -1}, {Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
	}
	return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
}

func (d *DB) ListComments(ctx context.Context, q models.CommentQuery) ([]models.ReviewComment, int64, error) {
	filter := commentFilter(q.CommentFilter)
	total, err := d.comments().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().SetSort(commentSort(q.Sort)).SetSkip(q.Skip)
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	cur, err := d.comments().Find(ctx, filter, opts)
	out, err := decodeAll[models.ReviewComment](ctx, cur, err)
	return out, total, err
}

func (d *DB) CommentIDs(ctx context.Context, f models.CommentFilter) ([]primitive.ObjectID, error) {
	return distinctIDs(ctx, d.comments(), commentFilter(f))
}

func (d *DB) CountComments(ctx context.Context, f models.CommentFilter) (int64, error) {
	return d.comments().CountDocuments(ctx, commentFilter(f))
}

// groupedSlice sorts the matched comments, groups them by key and keeps the
// first limit of each group.
func (d *DB) groupedSlice(ctx context.Context, match bson.M, sort bson.D, key string, limit int64) (map[primitive.ObjectID][]models.ReviewComment, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: sort}},
		{{Key: "$group", Value: bson.M{"_id": "$" + key, "items": bson.M{"$push": "$$ROOT"}}}},
		{{Key: "$project", Value: bson.M{"items": bson.M{"$slice": bson.A{"$items", limit}}}}},
	}
	cur, err := d.comments().Aggregate(ctx, pipeline)
	rows, err := decodeAll[struct {
		ID    primitive.ObjectID     `bson:"_id"`
		Items []models.ReviewComment `bson:"items"`
	}](ctx, cur, err)
	if err != nil {
		return nil, err
	}
	out := make(map[primitive.ObjectID][]models.ReviewComment, len(rows))
	for _, r := range rows {
		out[r.ID] = r.Items
	}
	return out, nil
}

func (d *DB) LatestRoots(ctx context.Context, reviewIDs []primitive.ObjectID, limit int64) (map[primitive.ObjectID][]models.ReviewComment, error) {
	if len(reviewIDs) == 0 || limit <= 0 {
		return map[primitive.ObjectID][]models.ReviewComment{}, nil
	}
	return d.groupedSlice(ctx,
		bson.M{"reviewId": bson.M{"$in": reviewIDs}, "replyToCommentId": nil},
		commentSort(models.CommentDateDesc), "reviewId", limit)
}

func (d *DB) FirstReplies(ctx context.Context, rootIDs []primitive.ObjectID, limit int64) (map[primitive.ObjectID][]models.ReviewComment, error) {
	if len(rootIDs) == 0 || limit <= 0 {
		return map[primitive.ObjectID][]models.ReviewComment{}, nil
	}
	return d.groupedSlice(ctx,
		bson.M{"replyToCommentId": bson.M{"$in": rootIDs}},
		commentSort(models.CommentDateAsc), "replyToCommentId", limit)
}

func (d *DB) SetCommentCounters(ctx context.Context, id primitive.ObjectID, counters map[models.CommentCounter]int64) error {
	set := bson.M{}
	for field, v := range counters {
		set[string(field)] = v
	}
	_, err := d.comments().UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}
