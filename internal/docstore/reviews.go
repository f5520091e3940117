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

// hasText matches reviews carrying written text. Text is stored trimmed, so
// a non-empty string is enough.
var hasText = bson.M{"$type": "string", "$ne": ""}

func (d *DB) InsertReview(ctx context.Context, r *models.Review) error {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	_, err := d.reviews().InsertOne(ctx, r)
	return mapErr(err)
}

func (d *DB) FindReview(ctx context.Context, userID identity.UserID, contentID primitive.ObjectID) (*models.Review, error) {
	var r models.Review
	err := d.reviews().FindOne(ctx, bson.M{"userId": userID, "contentId": contentID}).Decode(&r)
	if err != nil {
		return nil, mapErr(err)
	}
	return &r, nil
}

func (d *DB) FindReviewByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	var r models.Review
	if err := d.reviews().FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		return nil, mapErr(err)
	}
	return &r, nil
}

func (d *DB) UpdateReview(ctx context.Context, r *models.Review) error {
	set := bson.M{"updatedAt": r.UpdatedAt}
	unset := bson.M{}
	if r.Rating != nil {
		set["rating"] = *r.Rating
	} else {
		unset["rating"] = ""
	}
	if r.ReviewText != "" {
		set["reviewText"] = r.ReviewText
	} else {
		unset["reviewText"] = ""
	}
	if r.ReviewTextAddedAt != nil {
		set["reviewTextAddedAt"] = *r.ReviewTextAddedAt
	} else {
		unset["reviewTextAddedAt"] = ""
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	res, err := d.reviews().UpdateByID(ctx, r.ID, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (d *DB) DeleteReview(ctx context.Context, id primitive.ObjectID) error {
	_, err := d.reviews().DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func reviewSort(s models.ReviewSort) bson.D {
	switch s {
	case models.ReviewDateAsc:
		return bson.D{{Key: "updatedAt", Value: 1}, {Key: "_id", Value: 1}}
	case models.ReviewRatingDesc:
		return bson.D{{Key: "rating", Value: -1}, {Key: "_id", Value: 1}}
	case models.ReviewRatingAsc:
		return bson.D{{Key: "rating", Value: 1}, {Key: "_id", Value: 1}}
	}
	return bson.D{{Key: "updatedAt", Value: -1}, {Key: "_id", Value: 1}}
}

func (d *DB) ListContentReviews(ctx context.Context, q models.ReviewListQuery) ([]models.Review, int64, error) {
	filter := bson.M{"contentId": q.ContentID, "reviewText": hasText}
	if !q.ExcludeUser.IsAnonymous() {
		filter["userId"] = bson.M{"$ne": q.ExcludeUser}
	}

	total, err := d.reviews().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().SetSort(reviewSort(q.Sort)).SetSkip(q.Skip)
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	cur, err := d.reviews().Find(ctx, filter, opts)
	out, err := decodeAll[models.Review](ctx, cur, err)
	return out, total, err
}

var userReviewFields = map[models.UserReviewSort]string{
	models.UserReviewsByUpdated:  "updatedAt",
	models.UserReviewsByCreated:  "createdAt",
	models.UserReviewsByLikes:    "likesCount",
	models.UserReviewsByComments: "commentsCount",
	models.UserReviewsByRating:   "rating",
}

func (d *DB) ListUserReviews(ctx context.Context, userID identity.UserID, by models.UserReviewSort, asc bool) ([]models.Review, error) {
	field, ok := userReviewFields[by]
	if !ok {
		field = "updatedAt"
	}
	dir := -1
	if asc {
		dir = 1
	}
	opts := options.Find().SetSort(bson.D{{Key: field, Value: dir}, {Key: "_id", Value: 1}})
	cur, err := d.reviews().Find(ctx, bson.M{"userId": userID}, opts)
	return decodeAll[models.Review](ctx, cur, err)
}

// ListFeedReviews orders text-bearing reviews of the given authors by
// coalesce(reviewTextAddedAt, createdAt), newest first.
func (d *DB) ListFeedReviews(ctx context.Context, q models.FeedQuery) ([]models.Review, int64, error) {
	match := bson.M{"userId": bson.M{"$in": q.UserIDs}, "reviewText": hasText}
	total, err := d.reviews().CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, err
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$addFields", Value: bson.M{"freshness": bson.M{"$ifNull": bson.A{"$reviewTextAddedAt", "$createdAt"}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "freshness", Value: -1}, {Key: "_id", Value: -1}}}},
	}
	pipeline = pageStages(pipeline, q.Skip, q.Limit)
	cur, err := d.reviews().Aggregate(ctx, pipeline)
	out, err := decodeAll[models.Review](ctx, cur, err)
	return out, total, err
}

func (d *DB) ReviewIDsForContent(ctx context.Context, contentID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return distinctIDs(ctx, d.reviews(), bson.M{"contentId": contentID})
}

func (d *DB) AggregateRatings(ctx context.Context, contentID primitive.ObjectID) (models.RatingAggregate, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"contentId": contentID}}},
		{{Key: "$group", Value: bson.M{
			"_id":        nil,
			"ratedCount": bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$isNumber": "$rating"}, 1, 0}}},
			"ratingSum":  bson.M{"$sum": bson.M{"$ifNull": bson.A{"$rating", 0}}},
			"textReviews": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$gt": bson.A{bson.M{"$strLenCP": bson.M{"$ifNull": bson.A{"$reviewText", ""}}}, 0}},
				1, 0,
			}}},
		}}},
	}
	cur, err := d.reviews().Aggregate(ctx, pipeline)
	if err != nil {
		return models.RatingAggregate{}, err
	}
	defer cur.Close(ctx)
	var row struct {
		RatedCount  int64   `bson:"ratedCount"`
		RatingSum   float64 `bson:"ratingSum"`
		TextReviews int64   `bson:"textReviews"`
	}
	if cur.Next(ctx) {
		if err := cur.Decode(&row); err != nil {
			return models.RatingAggregate{}, err
		}
	}
	return models.RatingAggregate{RatedCount: row.RatedCount, RatingSum: row.RatingSum, TextReviews: row.TextReviews}, cur.Err()
}

func (d *DB) CountTextReviewsByUser(ctx context.Context, userID identity.UserID) (int64, error) {
	return d.reviews().CountDocuments(ctx, bson.M{"userId": userID, "reviewText": hasText})
}

func (d *DB) SetReviewCounters(ctx context.Context, id primitive.ObjectID, counters map[models.ReviewCounter]int64) error {
	set := bson.M{}
	for field, v := range counters {
		set[string(field)] = v
	}
	_, err := d.reviews().UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

func distinctIDs(ctx context.Context, col *mongo.Collection, filter bson.M) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cur, err := col.Find(ctx, filter, opts)
	rows, err := decodeAll[struct {
		ID primitive.ObjectID `bson:"_id"`
	}](ctx, cur, err)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids, nil
}
