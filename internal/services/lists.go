package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/qlture/engagement/internal/identity"
	"github.com/qlture/engagement/internal/models"
)

// ListService manages the wishlist or the consumption history of users. Each
// entry moves the per-type user counter and the content's list count.
type ListService struct {
	kind     models.ListKind
	items    ListStore
	contents ContentStore
	stats    *StatsSynchronizer
	enrich   *enricher
	now      clock
}

func NewWishlistService(st Stores, stats *StatsSynchronizer) *ListService {
	return newListService(models.ListWishlist, st.Wishlist, st, stats)
}

func NewHistoryService(st Stores, stats *StatsSynchronizer) *ListService {
	return newListService(models.ListHistory, st.History, st, stats)
}

func newListService(kind models.ListKind, items ListStore, st Stores, stats *StatsSynchronizer) *ListService {
	return &ListService{
		kind:     kind,
		items:    items,
		contents: st.Contents,
		stats:    stats,
		enrich:   newEnricher(st),
		now:      systemClock,
	}
}

func (s *ListService) Kind() models.ListKind { return s.kind }

func (s *ListService) counter(t models.ContentType) (models.UserCounter, bool) {
	if s.kind == models.ListHistory {
		return models.HistoryCounter(t)
	}
	return models.WishlistCounter(t)
}

func (s *ListService) content(ctx context.Context, id primitive.ObjectID) (*models.ContentItem, error) {
	content, err := s.contents.FindContentByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	return content, nil
}

// Add puts a content item on the user's list. consumedAt is only kept for
// history entries.
func (s *ListService) Add(ctx context.Context, userID identity.UserID, contentID primitive.ObjectID, consumedAt *time.Time) (*models.ListItem, error) {
	content, err := s.content(ctx, contentID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	item := &models.ListItem{
		UserID:    userID,
		ContentID: content.ID,
		Type:      content.Type,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if s.kind == models.ListHistory {
		item.ConsumedAt = consumedAt
	}

	if err := s.items.InsertItem(ctx, item); err != nil {
		if isDuplicate(err) {
			return nil, ErrAlreadyInList
		}
		return nil, err
	}

	if field, ok := s.counter(content.Type); ok {
		if err := s.stats.AdjustUserCounter(ctx, userID, field, 1); err != nil {
			return nil, err
		}
	}
	if _, err := s.stats.RecomputeContentEngagement(ctx, content.ID); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ListService) Remove(ctx context.Context, userID identity.UserID, contentID primitive.ObjectID) error {
	content, err := s.content(ctx, contentID)
	if err != nil {
		return err
	}

	removed, err := s.items.DeleteItem(ctx, userID, content.ID, content.Type)
	if err != nil {
		return err
	}
	if !removed {
		return ErrListItemNotFound
	}

	if field, ok := s.counter(content.Type); ok {
		if err := s.stats.AdjustUserCounter(ctx, userID, field, -1); err != nil {
			return err
		}
	}
	_, err = s.stats.RecomputeContentEngagement(ctx, content.ID)
	return err
}

// ListMine pages the user's own list, optionally narrowed to one type.
func (s *ListService) ListMine(ctx context.Context, userID identity.UserID, t models.ContentType, page Page) (*PageResult[ListItemView], error) {
	if t != "" && !t.Valid() {
		return nil, ErrInvalidContentType
	}
	items, total, err := s.items.ListUserItems(ctx, userID, t, page.Skip(), page.Limit)
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
