package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContentType string

const (
	ContentMovie ContentType = "movie"
	ContentBook  ContentType = "book"
	ContentGame  ContentType = "game"
	ContentAlbum ContentType = "album"
)

func (t ContentType) Valid() bool {
	switch t {
	case ContentMovie, ContentBook, ContentGame, ContentAlbum:
		return true
	}
	return false
}

// ContentItem is a catalog document. Aggregates are cached views that can
// always be re-derived from the engagement collections.
type ContentItem struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	TitleVO       string             `bson:"title_vo" json:"title_vo"`
	Type          ContentType        `bson:"type" json:"type"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	ReleaseDate   *time.Time         `bson:"release_date,omitempty" json:"release_date,omitempty"`
	Genres        []string           `bson:"genres" json:"genres"`
	Metadata      map[string]any     `bson:"metadata,omitempty" json:"metadata,omitempty"`
	ImageURL      string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	AverageRating float64            `bson:"average_rating" json:"average_rating"`
	ReviewsCount  int64              `bson:"reviews_count" json:"reviews_count"`
	CommentsCount int64              `bson:"comments_count" json:"comments_count"`
	LikesCount    int64              `bson:"likes_count" json:"likes_count"`
	WishlistCount int64              `bson:"wishlist_count" json:"wishlist_count"`
	HistoryCount  int64              `bson:"history_count" json:"history_count"`
	CreatedAt     time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updated_at"`
}

// ContentSummary is the content block joined into feeds.
type ContentSummary struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Type     ContentType        `bson:"type" json:"type"`
	Title    string             `bson:"title" json:"title"`
	ImageURL string             `bson:"image_url,omitempty" json:"image_url"`
}

// ReviewStats are the review-derived aggregates of a content item.
type ReviewStats struct {
	AverageRating float64 `bson:"average_rating" json:"average_rating"`
	ReviewsCount  int64   `bson:"reviews_count" json:"reviews_count"`
	CommentsCount int64   `bson:"comments_count" json:"comments_count"`
}

// EngagementStats are the like/list aggregates of a content item.
type EngagementStats struct {
	LikesCount    int64 `bson:"likes_count" json:"likes_count"`
	WishlistCount int64 `bson:"wishlist_count" json:"wishlist_count"`
	HistoryCount  int64 `bson:"history_count" json:"history_count"`
}

// RatingAggregate is the raw result of scanning a content's reviews.
type RatingAggregate struct {
	RatedCount  int64
	RatingSum   float64
	TextReviews int64
}

func (a RatingAggregate) Average() float64 {
	if a.RatedCount == 0 {
		return 0
	}
	return a.RatingSum / float64(a.RatedCount)
}
