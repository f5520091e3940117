package services

import (
	"context"

	"github.com/qlture/engagement/internal/identity"
	"github.com/qlture/engagement/internal/metrics"
	"github.com/qlture/engagement/internal/models"
)

// FeedService assembles the activity of the users someone follows. A caller
// who follows nobody gets an empty page without any engagement query.
type FeedService struct {
	follows  FollowGraph
	reviews  ReviewStore
	wishlist ListStore
	history  ListStore
	enrich   *enricher
}

func NewFeedService(st Stores) *FeedService {
	return &FeedService{
		follows:  st.Follows,
		reviews:  st.Reviews,
		wishlist: st.Wishlist,
		history:  st.History,
		enrich:   newEnricher(st),
	}
}

func (s *FeedService) following(ctx context.Context, userID identity.UserID, feed string) ([]identity.UserID, error) {
	ids, err := s.follows.ListFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		metrics.FeedShortCircuits.WithLabelValues(feed).Inc()
	}
	return ids, nil
}

// GetReviewsFromFollowed pages written reviews of followed users, freshest
// text first.
func (s *FeedService) GetReviewsFromFollowed(ctx context.Context, userID identity.UserID, page Page) (*PageResult[ReviewView], error) {
	ids, err := s.following(ctx, userID, "reviews")
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		empty := newPageResult[ReviewView](nil, 0, page)
		return &empty, nil
	}

	reviews, total, err := s.reviews.ListFeedReviews(ctx, models.FeedQuery{UserIDs: ids, Skip: page.Skip(), Limit: page.Limit})
	if err != nil {
		return nil, err
	}
	views, err := s.enrich.reviewViews(ctx, reviews, userID, true)
	if err != nil {
		return nil, err
	}
	result := newPageResult(views, total, page)
	return &result, nil
}

func (s *FeedService) GetHistoryFromFollowed(ctx context.Context, userID identity.UserID, page Page) (*PageResult[ListItemView], error) {
	return s.listFeed(ctx, s.history, "history", userID, page)
}

func (s *FeedService) GetWishlistFromFollowed(ctx context.Context, userID identity.UserID, page Page) (*PageResult[ListItemView], error) {
	return s.listFeed(ctx, s.wishlist, "wishlist", userID, page)
}

func (s *FeedService) listFeed(ctx context.Context, store ListStore, feed string, userID identity.UserID, page Page) (*PageResult[ListItemView], error) {
	ids, err := s.following(ctx, userID, feed)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		empty := newPageResult[ListItemView](nil, 0, page)
		return &empty, nil
	}

	items, total, err := store.ListFeedItems(ctx, models.FeedQuery{UserIDs: ids, Skip: page.Skip(), Limit: page.Limit})
	if err != nil {
		return nil, err
	}
	views, err := s.enrich.listItemViews(ctx, items)
	if err != nil {
		return nil, err
	}
	result := newPageResult(views, total, page)
	return &result, nil
}
