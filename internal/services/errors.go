package services

import "errors"

// Error kinds. Every error a service returns on purpose wraps one of these;
// anything else is a store failure.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("validation failed")
)

// Error is a caller-facing failure of a known kind.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

func notFound(msg string) *Error  { return &Error{kind: ErrNotFound, msg: msg} }
func conflict(msg string) *Error  { return &Error{kind: ErrConflict, msg: msg} }
func forbidden(msg string) *Error { return &Error{kind: ErrForbidden, msg: msg} }
func invalid(msg string) *Error   { return &Error{kind: ErrValidation, msg: msg} }

var (
	ErrContentNotFound     = notFound("content not found")
	ErrReviewNotFound      = notFound("review not found")
	ErrCommentNotFound     = notFound("comment not found")
	ErrReplyTargetNotFound = notFound("reply target not found")
	ErrLikeTargetNotFound  = notFound("like target not found")
	ErrUserNotFound        = notFound("user not found")
	ErrListItemNotFound    = notFound("item not found in list")
	ErrNotFollowing        = notFound("not following this user")

	ErrAlreadyFollowing = conflict("already following this user")
	ErrAlreadyInList    = conflict("item already in list")

	ErrNotCommentOwner = forbidden("you can only delete your own comments")

	ErrReviewTextRequired = invalid("review text is required")
	ErrInvalidRating      = invalid("rating must be between 0.5 and 5 in steps of 0.5")
	ErrEmptyReview        = invalid("a review must keep a rating or a text")
	ErrCommentRequired    = invalid("comment is required")
	ErrSearchCriteria     = invalid("one of q, type or genres is required")
	ErrInvalidSort        = invalid("invalid sort")
	ErrInvalidContentType = invalid("invalid content type")
	ErrSelfFollow         = invalid("cannot follow yourself")
	ErrInvalidCounter     = invalid("unknown user counter")
)

// Rejected wraps a text filter rejection as a validation failure.
func Rejected(msg string) error {
	return invalid(msg)
}
