package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/qlture/engagement/internal/config"
	"github.com/qlture/engagement/internal/handlers"
	"github.com/qlture/engagement/internal/middleware"
)

// Handlers groups everything Setup mounts.
type Handlers struct {
	Health       *handlers.HealthHandler
	Reviews      *handlers.ReviewHandler
	Comments     *handlers.CommentHandler
	ReviewLikes  *handlers.LikeHandler
	CommentLikes *handlers.LikeHandler
	ContentLikes *handlers.LikeHandler
	Wishlist     *handlers.ListHandler
	History      *handlers.ListHandler
	Follows      *handlers.FollowHandler
	Search       *handlers.SearchHandler
	Admin        *handlers.AdminHandler
}

func Setup(app *fiber.App, cfg *config.Config, h Handlers) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)

	protected := middleware.JWTProtected(cfg)
	optional := middleware.OptionalAuth(cfg)

	// Search rate limiter: 30 req/min per IP
	api.Get("/search", limiter.New(limiter.Config{
		Max:               30,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}), h.Search.Search)

	api.Get("/contents/:contentId/reviews", optional, h.Reviews.ListForContent)
	api.Post("/contents/:id/like", protected, h.ContentLikes.Toggle)
	api.Get("/contents/:id/like", optional, h.ContentLikes.State)

	// Static segments first so they are not captured by /:userId/:contentId.
	reviews := api.Group("/reviews")
	reviews.Post("/", protected, h.Reviews.Create)
	reviews.Post("/rating", protected, h.Reviews.CreateRating)
	reviews.Get("/feed/following", protected, h.Reviews.Following)
	reviews.Get("/me/:contentId", protected, h.Reviews.GetMine)
	reviews.Get("/user/:userId/all", optional, h.Reviews.ListByUser)
	reviews.Get("/user/:contentId", protected, h.Reviews.GetOwn)

	reviews.Get("/comments/:id/replies", optional, h.Comments.ListReplies)
	reviews.Delete("/comments/:commentId", protected, h.Comments.Delete)
	reviews.Post("/:id/comments/add", protected, h.Comments.Create)
	reviews.Get("/:id/comments/racines", optional, h.Comments.ListRoots)
	reviews.Get("/:id/comments", optional, h.Comments.List)

	reviews.Post("/:id/like", protected, h.ReviewLikes.Toggle)
	reviews.Get("/:id/like", optional, h.ReviewLikes.State)

	reviews.Patch("/:contentId", protected, h.Reviews.Update)
	reviews.Delete("/:contentId", protected, h.Reviews.Delete)
	reviews.Get("/:userId/:contentId", optional, h.Reviews.GetForUser)

	api.Post("/review-comments/:id/like", protected, h.CommentLikes.Toggle)
	api.Get("/review-comments/:id/like", optional, h.CommentLikes.State)

	for prefix, lh := range map[string]*handlers.ListHandler{"/wishlist": h.Wishlist, "/history": h.History} {
		list := api.Group(prefix, protected)
		list.Post("/", lh.Add)
		list.Delete("/", lh.Remove)
		list.Get("/me", lh.Mine)
		list.Get("/feed/following", lh.Following)
	}

	followers := api.Group("/followers")
	followers.Get("/:id/following", optional, h.Follows.Following)
	followers.Post("/:id", protected, h.Follows.Follow)
	followers.Delete("/:id", protected, h.Follows.Unfollow)

	admin := api.Group("/admin", optional, middleware.AdminRequired(cfg))
	admin.Post("/recompute/contents/:id", h.Admin.RecomputeContent)
	admin.Post("/recompute/users/:id", h.Admin.RecomputeUser)
}
