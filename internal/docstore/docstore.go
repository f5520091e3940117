// Package docstore implements the document-side stores on MongoDB: the
// catalog, reviews, comments, likes, lists and Atlas Search.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/qlture/engagement/internal/models"
)

const (
	colContents      = "contents"
	colReviews       = "reviews"
	colComments      = "review_comments"
	colReviewLikes   = "review_likes"
	colCommentLikes  = "comment_likes"
	colContentLikes  = "content_likes"
	colWishlistItems = "wishlist_items"
	colHistoryItems  = "history_items"
)

// DB wraps one Mongo database. It implements ContentStore, ReviewStore,
// CommentStore and SearchStore; like and list collections are reached through
// Likes and List.
type DB struct {
	client      *mongo.Client
	db          *mongo.Database
	searchIndex string
	likes       map[models.LikeKind]*Likes
	lists       map[models.ListKind]*List
}

// Connect opens a client and verifies it with a ping.
func Connect(ctx context.Context, uri, database, searchIndex string) (*DB, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(50).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(5 * time.Minute)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	slog.Info("mongo connected", "database", database)
	return New(client, database, searchIndex), nil
}

// New wraps an existing client.
func New(client *mongo.Client, database, searchIndex string) *DB {
	db := client.Database(database)
	d := &DB{client: client, db: db, searchIndex: searchIndex}
	d.likes = map[models.LikeKind]*Likes{
		models.LikeReview:  {col: db.Collection(colReviewLikes), field: "reviewId"},
		models.LikeComment: {col: db.Collection(colCommentLikes), field: "commentId"},
		models.LikeContent: {col: db.Collection(colContentLikes), field: "contentId"},
	}
	d.lists = map[models.ListKind]*List{
		models.ListWishlist: {col: db.Collection(colWishlistItems), kind: models.ListWishlist},
		models.ListHistory:  {col: db.Collection(colHistoryItems), kind: models.ListHistory},
	}
	return d
}

func (d *DB) Likes(kind models.LikeKind) *Likes { return d.likes[kind] }

func (d *DB) List(kind models.ListKind) *List { return d.lists[kind] }

func (d *DB) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, readpref.Primary())
}

func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

func (d *DB) contents() *mongo.Collection { return d.db.Collection(colContents) }
func (d *DB) reviews() *mongo.Collection  { return d.db.Collection(colReviews) }
func (d *DB) comments() *mongo.Collection { return d.db.Collection(colComments) }

// EnsureIndexes creates the unique and lookup indexes the stores rely on.
// Existing indexes with the same keys are left alone.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	specs := map[string][]mongo.IndexModel{
		colReviews: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "contentId", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "contentId", Value: 1}, {Key: "updatedAt", Value: -1}}},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "reviewTextAddedAt", Value: -1}}},
		},
		colComments: {
			{Keys: bson.D{{Key: "reviewId", Value: 1}, {Key: "replyToCommentId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "contentId", Value: 1}}},
		},
		colReviewLikes:  {{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "reviewId", Value: 1}}, Options: unique}, {Keys: bson.D{{Key: "reviewId", Value: 1}}}},
		colCommentLikes: {{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "commentId", Value: 1}}, Options: unique}, {Keys: bson.D{{Key: "commentId", Value: 1}}}},
		colContentLikes: {{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "contentId", Value: 1}}, Options: unique}, {Keys: bson.D{{Key: "contentId", Value: 1}}}},
		colWishlistItems: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "contentId", Value: 1}, {Key: "type", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		colHistoryItems: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "contentId", Value: 1}, {Key: "type", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "consumedAt", Value: -1}}},
		},
	}
	for col, idx := range specs {
		if _, err := d.db.Collection(col).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", col, err)
		}
	}
	return nil
}

// mapErr translates driver errors into the store error contract.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return models.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return models.ErrDuplicate
	}
	return err
}

// decodeAll drains a cursor into a non-nil slice.
func decodeAll[T any](ctx context.Context, cur *mongo.Cursor, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// pageStages appends skip/limit to a pipeline. Limit 0 means no limit.
func pageStages(pipeline mongo.Pipeline, skip, limit int64) mongo.Pipeline {
	if skip > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: skip}})
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}
	return pipeline
}

// countPipeline runs pipeline with a trailing $count stage.
func countPipeline(ctx context.Context, col *mongo.Collection, pipeline mongo.Pipeline) (int64, error) {
	p := append(append(mongo.Pipeline{}, pipeline...), bson.D{{Key: "$count", Value: "n"}})
	cur, err := col.Aggregate(ctx, p)
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)
	var row struct {
		N int64 `bson:"n"`
	}
	if cur.Next(ctx) {
		if err := cur.Decode(&row); err != nil {
			return 0, err
		}
	}
	return row.N, cur.Err()
}
