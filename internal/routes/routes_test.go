package routes

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qlture/engagement/internal/config"
	"github.com/qlture/engagement/internal/handlers"
	"github.com/qlture/engagement/internal/identity"
	"github.com/qlture/engagement/internal/memstore"
	"github.com/qlture/engagement/internal/models"
	"github.com/qlture/engagement/internal/services"
)

const testSecret = "test-secret"

type testServer struct {
	app   *fiber.App
	store *memstore.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	s := memstore.New()
	st := services.Stores{
		Contents:     s,
		Reviews:      s,
		Comments:     s,
		ReviewLikes:  s.Likes(models.LikeReview),
		CommentLikes: s.Likes(models.LikeComment),
		ContentLikes: s.Likes(models.LikeContent),
		Wishlist:     s.List(models.ListWishlist),
		History:      s.List(models.ListHistory),
		Search:       s,
		Users:        s,
		Follows:      s,
	}
	stats := services.NewStatsSynchronizer(st)
	feed := services.NewFeedService(st)
	ok := func(context.Context) error { return nil }

	cfg := &config.Config{JWTSecret: testSecret, AdminToken: "admin-token"}
	app := fiber.New(fiber.Config{JSONEncoder: json.Marshal, JSONDecoder: json.Unmarshal})
	Setup(app, cfg, Handlers{
		Health:       handlers.NewHealthHandler(ok, ok, nil),
		Reviews:      handlers.NewReviewHandler(services.NewReviewService(st, stats, nil), feed),
		Comments:     handlers.NewCommentHandler(services.NewCommentService(st, stats, nil)),
		ReviewLikes:  handlers.NewLikeHandler(services.NewReviewLikes(st)),
		CommentLikes: handlers.NewLikeHandler(services.NewCommentLikes(st)),
		ContentLikes: handlers.NewLikeHandler(services.NewContentLikes(st)),
		Wishlist:     handlers.NewWishlistHandler(services.NewWishlistService(st, stats), feed),
		History:      handlers.NewHistoryHandler(services.NewHistoryService(st, stats), feed),
		Follows:      handlers.NewFollowHandler(services.NewFollowService(st)),
		Search:       handlers.NewSearchHandler(services.NewSearchService(s, nil, time.Minute)),
		Admin:        handlers.NewAdminHandler(stats),
	})
	return &testServer{app: app, store: s}
}

func token(t *testing.T, user identity.UserID) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

type call struct {
	method string
	path   string
	body   any
	token  string
	header map[string]string
}

func (s *testServer) do(t *testing.T, c call) (int, map[string]any) {
	t.Helper()
	var body io.Reader
	if c.body != nil {
		raw, err := json.Marshal(c.body)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(c.method, c.path, body)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, v := range c.header {
		req.Header.Set(k, v)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	status, body := s.do(t, call{method: http.MethodGet, path: "/api/health"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestReviewFlow(t *testing.T) {
	s := newTestServer(t)
	author := s.store.AddUser("author")
	fan := s.store.AddUser("fan")
	content := s.store.PutContent(models.ContentItem{Title: "Dune", Type: models.ContentBook})
	contentHex := content.Hex()

	status, _ := s.do(t, call{method: http.MethodPost, path: "/api/reviews", body: map[string]any{
		"contentId": contentHex, "rating": 4.5, "reviewText": "Sandy",
	}})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, review := s.do(t, call{method: http.MethodPost, path: "/api/reviews", token: token(t, author), body: map[string]any{
		"contentId": contentHex, "rating": 4.5, "reviewText": "Sandy",
	}})
	require.Equal(t, http.StatusCreated, status)
	reviewID, _ := review["id"].(string)
	require.NotEmpty(t, reviewID)

	status, _ = s.do(t, call{method: http.MethodPost, path: "/api/reviews", token: token(t, author), body: map[string]any{
		"contentId": contentHex, "reviewText": "Sandy, still",
	}})
	assert.Equal(t, http.StatusOK, status, "second submission updates")

	status, own := s.do(t, call{method: http.MethodGet, path: "/api/reviews/user/" + contentHex, token: token(t, author)})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Sandy, still", own["reviewText"])
	assert.Equal(t, 4.5, own["rating"])

	status, page := s.do(t, call{method: http.MethodGet, path: "/api/contents/" + contentHex + "/reviews"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), page["total"])
	assert.Nil(t, page["userReview"])

	status, byUser := s.do(t, call{method: http.MethodGet, path: "/api/reviews/" + author.String() + "/" + contentHex})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, reviewID, byUser["id"])

	status, liked := s.do(t, call{method: http.MethodPost, path: "/api/reviews/" + reviewID + "/like", token: token(t, fan)})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, liked["liked"])
	assert.Equal(t, float64(1), liked["likesCount"])

	status, state := s.do(t, call{method: http.MethodGet, path: "/api/reviews/" + reviewID + "/like"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, state["liked"])

	status, comment := s.do(t, call{method: http.MethodPost, path: "/api/reviews/" + reviewID + "/comments/add", token: token(t, fan), body: map[string]any{
		"comment": "Agreed",
	}})
	require.Equal(t, http.StatusCreated, status)
	commentID, _ := comment["id"].(string)

	status, roots := s.do(t, call{method: http.MethodGet, path: "/api/reviews/" + reviewID + "/comments/racines?repliesLimit=1"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), roots["total"])

	status, _ = s.do(t, call{method: http.MethodDelete, path: "/api/reviews/comments/" + commentID, token: token(t, author)})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(t, call{method: http.MethodDelete, path: "/api/reviews/comments/" + commentID, token: token(t, fan)})
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = s.do(t, call{method: http.MethodDelete, path: "/api/reviews/" + contentHex, token: token(t, author)})
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = s.do(t, call{method: http.MethodDelete, path: "/api/reviews/" + contentHex, token: token(t, author)})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestValidationErrors(t *testing.T) {
	s := newTestServer(t)
	user := s.store.AddUser("ana")

	status, body := s.do(t, call{method: http.MethodPost, path: "/api/reviews/rating", token: token(t, user), body: map[string]any{
		"contentId": "nope", "rating": 4.2,
	}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, body["fields"])

	status, _ = s.do(t, call{method: http.MethodGet, path: "/api/search"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, call{method: http.MethodGet, path: "/api/contents/xyz/reviews"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestFollowingFeedEmpty(t *testing.T) {
	s := newTestServer(t)
	user := s.store.AddUser("loner")

	for _, path := range []string{"/api/reviews/feed/following", "/api/history/feed/following", "/api/wishlist/feed/following"} {
		status, body := s.do(t, call{method: http.MethodGet, path: path, token: token(t, user)})
		assert.Equal(t, http.StatusOK, status, path)
		assert.Equal(t, []any{}, body["data"], path)
		assert.Equal(t, float64(0), body["total"], path)
		assert.Equal(t, float64(1), body["page"], path)
		assert.Equal(t, float64(0), body["totalPages"], path)
	}
}

func TestListsAndSearch(t *testing.T) {
	s := newTestServer(t)
	user := s.store.AddUser("ana")
	s.store.PutContent(models.ContentItem{Title: "Heat", Type: models.ContentMovie, Genres: []string{"crime"}})
	dune := s.store.PutContent(models.ContentItem{Title: "Dune", Type: models.ContentBook, Genres: []string{"scifi"}})

	status, _ := s.do(t, call{method: http.MethodPost, path: "/api/wishlist", token: token(t, user), body: map[string]any{"contentId": dune.Hex()}})
	assert.Equal(t, http.StatusCreated, status)
	status, _ = s.do(t, call{method: http.MethodPost, path: "/api/wishlist", token: token(t, user), body: map[string]any{"contentId": dune.Hex()}})
	assert.Equal(t, http.StatusConflict, status)

	status, mine := s.do(t, call{method: http.MethodGet, path: "/api/wishlist/me?type=book", token: token(t, user)})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), mine["total"])

	status, results := s.do(t, call{method: http.MethodGet, path: "/api/search?genres=scifi,crime&sort=date_asc"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), results["total"])

	status, results = s.do(t, call{method: http.MethodGet, path: "/api/search?q=dnue"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), results["total"])
}

func TestAdminRecompute(t *testing.T) {
	s := newTestServer(t)
	user := s.store.AddUser("ana")
	content := s.store.PutContent(models.ContentItem{Title: "Dune", Type: models.ContentBook})
	path := "/api/admin/recompute/contents/" + content.Hex()

	status, _ := s.do(t, call{method: http.MethodPost, path: path})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.do(t, call{method: http.MethodPost, path: path, token: token(t, user)})
	assert.Equal(t, http.StatusForbidden, status)

	status, body := s.do(t, call{method: http.MethodPost, path: path, header: map[string]string{"X-Admin-Token": "admin-token"}})
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "reviews")

	status, _ = s.do(t, call{method: http.MethodPost, path: "/api/admin/recompute/users/" + user.String(), header: map[string]string{"X-Admin-Token": "admin-token"}})
	assert.Equal(t, http.StatusOK, status)
}
