package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/qlture/engagement/internal/models"
)

type mockSearchCache struct{ mock.Mock }

func (m *mockSearchCache) Get(ctx context.Context, key string) (*models.SearchPage, bool, error) {
	args := m.Called(ctx, key)
	page, _ := args.Get(0).(*models.SearchPage)
	return page, args.Bool(1), args.Error(2)
}

func (m *mockSearchCache) Set(ctx context.Context, key string, page *models.SearchPage, ttl time.Duration) error {
	return m.Called(ctx, key, page, ttl).Error(0)
}

func TestSearch_RequiresCriteria(t *testing.T) {
	f := newFixture(t)
	svc := NewSearchService(f.stores.Search, nil, time.Minute)

	_, err := svc.SearchContent(context.Background(), SearchInput{Q: "  ", Genres: []string{" "}})
	assert.ErrorIs(t, err, ErrSearchCriteria)

	_, err = svc.SearchContent(context.Background(), SearchInput{Type: "podcast"})
	assert.ErrorIs(t, err, ErrInvalidContentType)

	_, err = svc.SearchContent(context.Background(), SearchInput{Type: models.ContentBook, Sort: "random"})
	assert.ErrorIs(t, err, ErrInvalidSort)
}

func TestSearch_RelevanceAndFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.PutContent(models.ContentItem{Title: "The Matrix", Type: models.ContentMovie, Genres: []string{"scifi"}})
	f.store.PutContent(models.ContentItem{Title: "Matrix Reloaded", Type: models.ContentMovie, Genres: []string{"action"}})
	f.store.PutContent(models.ContentItem{Title: "Dune", Type: models.ContentBook, Genres: []string{"scifi"}})
	svc := NewSearchService(f.stores.Search, nil, time.Minute)

	page, err := svc.SearchContent(ctx, SearchInput{Q: "matrix"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, int64(DefaultSearchLimit), page.Limit)

	scifi, err := svc.SearchContent(ctx, SearchInput{Q: "matrix", Genres: []string{"scifi"}})
	require.NoError(t, err)
	require.Len(t, scifi.Results, 1)
	assert.Equal(t, "The Matrix", scifi.Results[0].Title)

	books, err := svc.SearchContent(ctx, SearchInput{Type: models.ContentBook, Limit: 500})
	require.NoError(t, err)
	require.Len(t, books.Results, 1)
	assert.Equal(t, int64(MaxSearchLimit), books.Limit)
}

func TestSearch_UsesCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.PutContent(models.ContentItem{Title: "Dune", Type: models.ContentBook})

	cache := &mockSearchCache{}
	cache.On("Get", mock.Anything, mock.Anything).Return(nil, false, nil).Once()
	cache.On("Set", mock.Anything, mock.Anything, mock.Anything, time.Minute).Return(nil).Once()
	svc := NewSearchService(f.stores.Search, cache, time.Minute)

	first, err := svc.SearchContent(ctx, SearchInput{Q: "dune"})
	require.NoError(t, err)
	cache.AssertExpectations(t)

	cache.On("Get", mock.Anything, mock.Anything).Return(first, true, nil).Once()
	second, err := svc.SearchContent(ctx, SearchInput{Q: " dune "})
	require.NoError(t, err)
	assert.Same(t, first, second)
	cache.AssertNumberOfCalls(t, "Set", 1)
}
