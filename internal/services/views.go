package services

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/qlture/engagement/internal/models"
)

// ReviewView is a review enriched for display.
type ReviewView struct {
	ID                primitive.ObjectID     `json:"id"`
	ContentID         primitive.ObjectID     `json:"contentId"`
	Rating            *float64               `json:"rating"`
	ReviewText        string                 `json:"reviewText,omitempty"`
	Date              time.Time              `json:"date"`
	ReviewTextAddedAt *time.Time             `json:"reviewTextAddedAt,omitempty"`
	User              models.UserSummary     `json:"user"`
	Content           *models.ContentSummary `json:"content,omitempty"`
	LikesCount        int64                  `json:"likesCount"`
	CommentsCount     int64                  `json:"commentsCount"`
	IsLiked           bool                   `json:"isLiked"`
	IsCurrentUser     bool                   `json:"isCurrentUser"`
	Comments          []CommentView          `json:"comments"`
}

// CommentView is a comment enriched for display. Replies is only filled for
// thread roots in the root listing.
type CommentView struct {
	ID                 primitive.ObjectID  `json:"id"`
	ReviewID           primitive.ObjectID  `json:"reviewId"`
	Comment            string              `json:"comment"`
	CreatedAt          time.Time           `json:"createdAt"`
	User               models.UserSummary  `json:"user"`
	LikesCount         int64               `json:"likesCount"`
	IsLiked            bool                `json:"isLiked"`
	ReplyToCommentID   *primitive.ObjectID `json:"replyToCommentId"`
	InReplyToCommentID *primitive.ObjectID `json:"inReplyToCommentId,omitempty"`
	RepliesCount       int64               `json:"repliesCount"`
	Replies            []CommentView       `json:"replies,omitempty"`
}

// ListItemView is a wishlist or history entry joined with its author and
// content summary.
type ListItemView struct {
	ID         primitive.ObjectID     `json:"id"`
	Type       models.ContentType     `json:"type"`
	ConsumedAt *time.Time             `json:"consumedAt,omitempty"`
	CreatedAt  time.Time              `json:"createdAt"`
	User       models.UserSummary     `json:"user"`
	Content    *models.ContentSummary `json:"content"`
}

// ReviewPage is the public review listing of a content item with the
// caller's own review pinned outside the page.
type ReviewPage struct {
	PageResult[ReviewView]
	UserReview *ReviewView `json:"userReview"`
}
