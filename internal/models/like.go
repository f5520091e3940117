package models

// LikeKind selects one of the like collections. A like is existence-only:
// the row being present is the whole state.
type LikeKind string

const (
	LikeReview  LikeKind = "review"
	LikeComment LikeKind = "comment"
	LikeContent LikeKind = "content"
)
