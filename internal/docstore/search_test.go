package docstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/qlture/engagement/internal/models"
)

func stage(t *testing.T, d bson.D) (string, any) {
	t.Helper()
	require.Len(t, d, 1)
	return d[0].Key, d[0].Value
}

func TestSearchPipeline_TextQuery(t *testing.T) {
	p := SearchPipeline("contents_search", models.SearchQuery{
		Q:      "incepton",
		Type:   models.ContentMovie,
		Genres: []string{"sci-fi"},
		Sort:   models.SearchRatingAsc,
	})
	require.Len(t, p, 5)

	key, val := stage(t, p[0])
	assert.Equal(t, "$search", key)
	search := val.(bson.D)
	assert.Equal(t, "contents_search", search[0].Value)
	comp := search[1].Value.(bson.D)
	should := comp[0].Value.(bson.A)
	assert.Len(t, should, 6)
	assert.Equal(t, 1, comp[1].Value)

	first := should[0].(bson.M)["phrase"].(bson.M)
	assert.Equal(t, "title", first["path"])
	assert.Equal(t, bson.M{"boost": bson.M{"value": 15.0}}, first["score"])

	tight := should[2].(bson.M)["text"].(bson.M)
	assert.Equal(t, bson.M{"maxEdits": 1, "prefixLength": 3}, tight["fuzzy"])

	key, val = stage(t, p[2])
	assert.Equal(t, "$match", key)
	assert.Equal(t, bson.M{"type": models.ContentMovie, "genres": bson.M{"$in": []string{"sci-fi"}}}, val)

	key, val = stage(t, p[3])
	assert.Equal(t, "$sort", key)
	assert.Equal(t, bson.D{{Key: "score", Value: -1}, {Key: "_id", Value: 1}}, val, "relevance wins over sort")
}

func TestSearchPipeline_FilterOnly(t *testing.T) {
	p := SearchPipeline("idx", models.SearchQuery{Type: models.ContentBook})
	require.Len(t, p, 3)

	key, val := stage(t, p[0])
	assert.Equal(t, "$match", key)
	assert.Equal(t, bson.M{"type": models.ContentBook}, val)

	_, val = stage(t, p[1])
	assert.Equal(t, bson.D{{Key: "release_date", Value: -1}, {Key: "_id", Value: 1}}, val)
}

func TestFieldSort(t *testing.T) {
	assert.Equal(t, "average_rating", fieldSort(models.SearchRatingDesc)[0].Key)
	assert.Equal(t, -1, fieldSort(models.SearchRatingDesc)[0].Value)
	assert.Equal(t, 1, fieldSort(models.SearchDateAsc)[0].Value)
}

func TestCommentFilter(t *testing.T) {
	assert.Equal(t, bson.M{"replyToCommentId": nil}, commentFilter(models.CommentFilter{RootsOnly: true}))
}
