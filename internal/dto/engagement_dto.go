package dto

import "time"

type CreateReviewRequest struct {
	ContentID  string   `json:"contentId" validate:"required,objectid"`
	Rating     *float64 `json:"rating" validate:"omitempty,min=0.5,max=5,halfstep"`
	ReviewText string   `json:"reviewText" validate:"max=10000"`
}

type RatingRequest struct {
	ContentID string  `json:"contentId" validate:"required,objectid"`
	Rating    float64 `json:"rating" validate:"required,min=0.5,max=5,halfstep"`
}

// UpdateReviewRequest is a partial update; an empty reviewText removes the
// text.
type UpdateReviewRequest struct {
	Rating     *float64 `json:"rating" validate:"omitempty,min=0.5,max=5,halfstep"`
	ReviewText *string  `json:"reviewText" validate:"omitempty,max=10000"`
}

// OwnReviewResponse is the caller's raw review; both fields are absent when
// there is none.
type OwnReviewResponse struct {
	Rating     *float64 `json:"rating,omitempty"`
	ReviewText string   `json:"reviewText,omitempty"`
}

type CreateCommentRequest struct {
	Comment          string  `json:"comment" validate:"max=5000"`
	ReplyToCommentID *string `json:"replyToCommentId" validate:"omitempty,objectid"`
}

type ListItemRequest struct {
	ContentID  string     `json:"contentId" validate:"required,objectid"`
	ConsumedAt *time.Time `json:"consumedAt"`
}

type RemoveListItemRequest struct {
	ContentID string `json:"contentId" validate:"required,objectid"`
}
