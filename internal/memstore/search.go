package memstore

import (
	"context"
	"sort"

	"github.com/qlture/engagement/internal/models"
	"github.com/qlture/engagement/internal/search"
)

// SearchContent scores every catalog item in memory with the same clause
// weights the Atlas index uses.
func (s *Store) SearchContent(_ context.Context, q models.SearchQuery) ([]models.SearchHit, int64, error) {
	s.RLock()
	hits := make([]models.SearchHit, 0)
	for _, c := range s.contents {
		score := 0.0
		if q.Q != "" {
			var ok bool
			score, ok = search.Score(q.Q, map[string]string{
				search.FieldTitle:   c.Title,
				search.FieldTitleVO: c.TitleVO,
			})
			if !ok {
				continue
			}
		}
		if q.Type != "" && c.Type != q.Type {
			continue
		}
		if len(q.Genres) > 0 && !anyGenre(c.Genres, q.Genres) {
			continue
		}
		hits = append(hits, models.SearchHit{
			ID:            c.ID,
			Title:         c.Title,
			TitleVO:       c.TitleVO,
			Type:          c.Type,
			ReleaseDate:   c.ReleaseDate,
			AverageRating: c.AverageRating,
			ImageURL:      c.ImageURL,
			Genres:        append([]string(nil), c.Genres...),
			Score:         score,
		})
	}
	s.RUnlock()

	sort.Slice(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if q.Q != "" {
			if a.Score != b.Score {
				return a.Score > b.Score
			}
			return idLess(a.ID, b.ID)
		}
		switch q.Sort {
		case models.SearchDateAsc:
			if c := compareDates(a, b); c != 0 {
				return c < 0
			}
		case models.SearchRatingDesc:
			if a.AverageRating != b.AverageRating {
				return a.AverageRating > b.AverageRating
			}
		case models.SearchRatingAsc:
			if a.AverageRating != b.AverageRating {
				return a.AverageRating < b.AverageRating
			}
		default:
			if c := compareDates(a, b); c != 0 {
				return c > 0
			}
		}
		return idLess(a.ID, b.ID)
	})
	return paginate(hits, q.Skip, q.Limit), int64(len(hits)), nil
}

// compareDates orders missing release dates first, as Mongo sorts nulls.
func compareDates(a, b models.SearchHit) int {
	switch {
	case a.ReleaseDate == nil && b.ReleaseDate == nil:
		return 0
	case a.ReleaseDate == nil:
		return -1
	case b.ReleaseDate == nil:
		return 1
	}
	return a.ReleaseDate.Compare(*b.ReleaseDate)
}

func anyGenre(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}
