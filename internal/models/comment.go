package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/qlture/engagement/internal/identity"
)

// ReviewComment is a comment under a review. Threads are two levels deep:
// ReplyToCommentID always names the thread root (nil for roots), while
// InReplyToCommentID keeps the comment that was actually answered.
type ReviewComment struct {
	ID                 primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ReviewID           primitive.ObjectID  `bson:"reviewId" json:"reviewId"`
	ContentID          primitive.ObjectID  `bson:"contentId" json:"contentId"`
	UserID             identity.UserID     `bson:"userId" json:"userId"`
	Comment            string              `bson:"comment" json:"comment"`
	ReplyToCommentID   *primitive.ObjectID `bson:"replyToCommentId" json:"replyToCommentId"`
	InReplyToCommentID *primitive.ObjectID `bson:"inReplyToCommentId,omitempty" json:"inReplyToCommentId,omitempty"`
	LikesCount         int64               `bson:"likesCount" json:"likesCount"`
	RepliesCount       int64               `bson:"repliesCount" json:"repliesCount"`
	CreatedAt          time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time           `bson:"updatedAt" json:"updatedAt"`
}

func (c *ReviewComment) IsRoot() bool {
	return c.ReplyToCommentID == nil
}

// CommentCounter names a cached counter on a comment document.
type CommentCounter string

const (
	CommentLikes   CommentCounter = "likesCount"
	CommentReplies CommentCounter = "repliesCount"
)
