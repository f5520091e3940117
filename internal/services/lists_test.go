package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/qlture/engagement/internal/models"
)

func TestList_AddRemoveKeepsCounters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.store.AddUser("ana")
	movie := f.content(t, "Heat", models.ContentMovie)
	album := f.content(t, "Blue", models.ContentAlbum)

	consumed := time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)
	item, err := f.wishlist.Add(ctx, user, movie, &consumed)
	require.NoError(t, err)
	assert.Nil(t, item.ConsumedAt, "wishlist entries drop consumedAt")
	assert.Equal(t, models.ContentMovie, item.Type)
	assert.Equal(t, int64(1), f.user(t, user).WatchListCount)
	assert.Equal(t, int64(1), f.contentItem(t, movie).WishlistCount)

	_, err = f.wishlist.Add(ctx, user, movie, nil)
	assert.ErrorIs(t, err, ErrConflict)

	h, err := f.history.Add(ctx, user, movie, &consumed)
	require.NoError(t, err)
	require.NotNil(t, h.ConsumedAt)
	assert.Equal(t, int64(1), f.user(t, user).MoovieCount)
	assert.Equal(t, int64(1), f.contentItem(t, movie).HistoryCount)

	_, err = f.history.Add(ctx, user, album, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.contentItem(t, album).HistoryCount, "albums have no user counter")

	require.NoError(t, f.wishlist.Remove(ctx, user, movie))
	assert.Zero(t, f.user(t, user).WatchListCount)
	assert.Zero(t, f.contentItem(t, movie).WishlistCount)
	assert.ErrorIs(t, f.wishlist.Remove(ctx, user, movie), ErrNotFound)

	_, err = f.history.Add(ctx, user, primitive.NewObjectID(), nil)
	assert.ErrorIs(t, err, ErrContentNotFound)
}

func TestList_ListMineFiltersByType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.store.AddUser("ana")
	for _, c := range []struct {
		title string
		typ   models.ContentType
	}{{"Heat", models.ContentMovie}, {"Dune", models.ContentBook}, {"Ran", models.ContentMovie}} {
		_, err := f.wishlist.Add(ctx, user, f.content(t, c.title, c.typ), nil)
		require.NoError(t, err)
	}

	all, err := f.wishlist.ListMine(ctx, user, "", NewPage(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)

	movies, err := f.wishlist.ListMine(ctx, user, models.ContentMovie, NewPage(1, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(2), movies.Total)
	assert.Equal(t, int64(2), movies.TotalPages)
	assert.Len(t, movies.Data, 1)

	_, err = f.wishlist.ListMine(ctx, user, "podcast", NewPage(1, 10))
	assert.ErrorIs(t, err, ErrInvalidContentType)
}
