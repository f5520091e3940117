package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/qlture/engagement/internal/identity"
)

// ReviewSort orders the public review listing of a content item.
type ReviewSort string

const (
	ReviewDateDesc   ReviewSort = "date_desc"
	ReviewDateAsc    ReviewSort = "date_asc"
	ReviewRatingDesc ReviewSort = "rating_desc"
	ReviewRatingAsc  ReviewSort = "rating_asc"
)

func (s ReviewSort) Valid() bool {
	switch s {
	case ReviewDateDesc, ReviewDateAsc, ReviewRatingDesc, ReviewRatingAsc:
		return true
	}
	return false
}

// ReviewListQuery selects text-bearing reviews of one content item.
type ReviewListQuery struct {
	ContentID   primitive.ObjectID
	ExcludeUser identity.UserID
	Sort        ReviewSort
	Skip        int64
	Limit       int64
}

// UserReviewSort orders a user's own review history.
type UserReviewSort string

const (
	UserReviewsByUpdated  UserReviewSort = "updatedAt"
	UserReviewsByCreated  UserReviewSort = "createdAt"
	UserReviewsByLikes    UserReviewSort = "likes"
	UserReviewsByComments UserReviewSort = "comments"
	UserReviewsByRating   UserReviewSort = "rating"
)

func (s UserReviewSort) Valid() bool {
	switch s {
	case UserReviewsByUpdated, UserReviewsByCreated, UserReviewsByLikes, UserReviewsByComments, UserReviewsByRating:
		return true
	}
	return false
}

// CommentSort orders comment listings. likes_desc breaks ties by createdAt
// ascending so pages stay stable.
type CommentSort string

const (
	CommentDateDesc  CommentSort = "date_desc"
	CommentDateAsc   CommentSort = "date_asc"
	CommentLikesDesc CommentSort = "likes_desc"
)

func (s CommentSort) Valid() bool {
	switch s {
	case CommentDateDesc, CommentDateAsc, CommentLikesDesc:
		return true
	}
	return false
}

// CommentFilter narrows comments by review, content or thread root. Unset
// fields do not filter.
type CommentFilter struct {
	ReviewID  *primitive.ObjectID
	ContentID *primitive.ObjectID
	ParentID  *primitive.ObjectID
	RootsOnly bool
}

// CommentQuery is a sorted page of comments. Limit 0 means no limit.
type CommentQuery struct {
	CommentFilter
	Sort  CommentSort
	Skip  int64
	Limit int64
}

// FeedQuery selects engagement rows authored by any of UserIDs.
type FeedQuery struct {
	UserIDs []identity.UserID
	Skip    int64
	Limit   int64
}

// SearchSort replaces relevance ranking when no text query is given.
type SearchSort string

const (
	SearchDateDesc   SearchSort = "date_desc"
	SearchDateAsc    SearchSort = "date_asc"
	SearchRatingDesc SearchSort = "rating_desc"
	SearchRatingAsc  SearchSort = "rating_asc"
)

func (s SearchSort) Valid() bool {
	switch s {
	case SearchDateDesc, SearchDateAsc, SearchRatingDesc, SearchRatingAsc:
		return true
	}
	return false
}

type SearchQuery struct {
	Q      string
	Type   ContentType
	Genres []string
	Sort   SearchSort
	Skip   int64
	Limit  int64
}

// SearchHit is one catalog search result.
type SearchHit struct {
	ID            primitive.ObjectID `bson:"_id" json:"id"`
	Title         string             `bson:"title" json:"title"`
	TitleVO       string             `bson:"title_vo" json:"title_vo"`
	Type          ContentType        `bson:"type" json:"type"`
	ReleaseDate   *time.Time         `bson:"release_date,omitempty" json:"release_date,omitempty"`
	AverageRating float64            `bson:"average_rating" json:"average_rating"`
	ImageURL      string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Genres        []string           `bson:"genres" json:"genres"`
	Score         float64            `bson:"score,omitempty" json:"score,omitempty"`
}

// SearchPage is a page of search hits as served and cached.
type SearchPage struct {
	Results    []SearchHit `json:"results"`
	Total      int64       `json:"total"`
	Page       int64       `json:"page"`
	Limit      int64       `json:"limit"`
	TotalPages int64       `json:"totalPages"`
}
