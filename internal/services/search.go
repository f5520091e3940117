package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/qlture/engagement/internal/metrics"
	"github.com/qlture/engagement/internal/models"
	"github.com/qlture/engagement/internal/search"
)

const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 50
)

// SearchService runs catalog search with an optional result cache.
type SearchService struct {
	store SearchStore
	cache SearchCache
	ttl   time.Duration
}

// NewSearchService builds the service; cache may be nil.
func NewSearchService(store SearchStore, cache SearchCache, ttl time.Duration) *SearchService {
	return &SearchService{store: store, cache: cache, ttl: ttl}
}

type SearchInput struct {
	Q      string
	Type   models.ContentType
	Genres []string
	Sort   models.SearchSort
	Page   int64
	Limit  int64
}

// SearchContent ranks by relevance when q is given and by the requested sort
// otherwise. Type and genre filters apply after ranking.
func (s *SearchService) SearchContent(ctx context.Context, in SearchInput) (*models.SearchPage, error) {
	q := strings.TrimSpace(in.Q)
	genres := cleanGenres(in.Genres)
	if q == "" && in.Type == "" && len(genres) == 0 {
		return nil, ErrSearchCriteria
	}
	if in.Type != "" && !in.Type.Valid() {
		return nil, ErrInvalidContentType
	}
	sort := in.Sort
	if sort != "" && !sort.Valid() {
		return nil, ErrInvalidSort
	}
	if q != "" {
		sort = ""
	} else if sort == "" {
		sort = models.SearchDateDesc
	}

	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit < 1 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	query := models.SearchQuery{
		Q:      q,
		Type:   in.Type,
		Genres: genres,
		Sort:   sort,
		Skip:   (page - 1) * limit,
		Limit:  limit,
	}
	key := cacheKey(query, page)

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			slog.WarnContext(ctx, "search cache read failed", "error", err.Error())
		} else if ok {
			metrics.SearchCacheHits.Inc()
			return cached, nil
		} else {
			metrics.SearchCacheMisses.Inc()
		}
	}

	start := time.Now()
	hits, total, err := s.store.SearchContent(ctx, query)
	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	if hits == nil {
		hits = []models.SearchHit{}
	}

	result := &models.SearchPage{
		Results:    hits,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result, s.ttl); err != nil {
			slog.WarnContext(ctx, "search cache write failed", "error", err.Error())
		}
	}
	return result, nil
}

func cleanGenres(in []string) []string {
	var out []string
	for _, g := range in {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func cacheKey(q models.SearchQuery, page int64) string {
	return fmt.Sprintf("search:v1:%s|%s|%s|%s|%d|%d",
		search.Normalize(q.Q), q.Type, strings.Join(q.Genres, ","), q.Sort, page, q.Limit)
}
