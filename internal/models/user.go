package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qlture/engagement/internal/identity"
)

// User is the relational user row. Identity fields are owned by the account
// service; this service only reads them and maintains the activity counters.
type User struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username       string         `gorm:"size:50;not null;uniqueIndex" json:"username"`
	AvatarURL      *string        `gorm:"size:512" json:"avatar_url"`
	ReviewCount    int64          `gorm:"not null;default:0" json:"review_count"`
	MoovieCount    int64          `gorm:"column:moovie_count;not null;default:0" json:"moovie_count"`
	BookCount      int64          `gorm:"not null;default:0" json:"book_count"`
	GamesCount     int64          `gorm:"not null;default:0" json:"games_count"`
	WatchListCount int64          `gorm:"not null;default:0" json:"watch_list_count"`
	ReadListCount  int64          `gorm:"not null;default:0" json:"read_list_count"`
	GameListCount  int64          `gorm:"not null;default:0" json:"game_list_count"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// UserSummary is the author block joined into listings.
type UserSummary struct {
	ID       identity.UserID `json:"id"`
	Username string          `json:"username"`
	Avatar   *string         `json:"avatar"`
}

// UnknownUser is shown when an author row no longer exists.
func UnknownUser(id identity.UserID) UserSummary {
	return UserSummary{ID: id, Username: "unknown user"}
}

// UserCounter names a counter column on users.
type UserCounter string

const (
	CounterReviews   UserCounter = "review_count"
	CounterMovies    UserCounter = "moovie_count"
	CounterBooks     UserCounter = "book_count"
	CounterGames     UserCounter = "games_count"
	CounterWatchList UserCounter = "watch_list_count"
	CounterReadList  UserCounter = "read_list_count"
	CounterGameList  UserCounter = "game_list_count"
)

// Valid reports whether c is one of the known counter columns. Column names
// are interpolated into SQL, so callers must check this first.
func (c UserCounter) Valid() bool {
	switch c {
	case CounterReviews, CounterMovies, CounterBooks, CounterGames,
		CounterWatchList, CounterReadList, CounterGameList:
		return true
	}
	return false
}

// Counter returns a pointer to the column named by c, or nil for an unknown
// counter.
func (u *User) Counter(c UserCounter) *int64 {
	switch c {
	case CounterReviews:
		return &u.ReviewCount
	case CounterMovies:
		return &u.MoovieCount
	case CounterBooks:
		return &u.BookCount
	case CounterGames:
		return &u.GamesCount
	case CounterWatchList:
		return &u.WatchListCount
	case CounterReadList:
		return &u.ReadListCount
	case CounterGameList:
		return &u.GameListCount
	}
	return nil
}

// Summary is the public author block of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: identity.UserID(u.ID.String()), Username: u.Username, Avatar: u.AvatarURL}
}

// HistoryCounter maps a content type to the per-user consumption counter.
// Albums have no counter.
func HistoryCounter(t ContentType) (UserCounter, bool) {
	switch t {
	case ContentMovie:
		return CounterMovies, true
	case ContentBook:
		return CounterBooks, true
	case ContentGame:
		return CounterGames, true
	}
	return "", false
}

// WishlistCounter maps a content type to the per-user wishlist counter.
func WishlistCounter(t ContentType) (UserCounter, bool) {
	switch t {
	case ContentMovie:
		return CounterWatchList, true
	case ContentBook:
		return CounterReadList, true
	case ContentGame:
		return CounterGameList, true
	}
	return "", false
}
