package services

import (
	"errors"
	"time"

	"github.com/qlture/engagement/internal/models"
)

func isNotFound(err error) bool {
	return errors.Is(err, models.ErrNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, models.ErrDuplicate)
}

// clock is swapped in tests.
type clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}
