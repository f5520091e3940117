package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"github.com/qlture/engagement/internal/identity"
	"github.com/qlture/engagement/internal/models"
)

// previewComments is the number of latest root comments shown under a review.
const previewComments = 2

// enricher joins author summaries, content summaries and like state onto
// raw rows. Independent lookups run concurrently and any failure aborts the
// whole join.
type enricher struct {
	users        UserDirectory
	contents     ContentStore
	comments     CommentStore
	reviewLikes  LikeStore
	commentLikes LikeStore
}

func (e *enricher) authors(ctx context.Context, ids []identity.UserID) (map[identity.UserID]models.UserSummary, error) {
	out := make(map[identity.UserID]models.UserSummary, len(ids))
	ids = uniq(ids)
	if len(ids) == 0 {
		return out, nil
	}
	users, err := e.users.FindUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (e *enricher) contentSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.ContentSummary, error) {
	out := make(map[primitive.ObjectID]models.ContentSummary, len(ids))
	ids = uniq(ids)
	if len(ids) == 0 {
		return out, nil
	}
	summaries, err := e.contents.FindContentSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, s := range summaries {
		out[s.ID] = s
	}
	return out, nil
}

// liked returns the subset of ids the viewer liked. Anonymous viewers like
// nothing and cost no query.
func liked(ctx context.Context, store LikeStore, viewer identity.UserID, ids []primitive.ObjectID) (map[primitive.ObjectID]bool, error) {
	if viewer.IsAnonymous() || len(ids) == 0 {
		return map[primitive.ObjectID]bool{}, nil
	}
	return store.LikedTargets(ctx, viewer, ids)
}

func author(users map[identity.UserID]models.UserSummary, id identity.UserID) models.UserSummary {
	if u, ok := users[id]; ok {
		return u
	}
	return models.UnknownUser(id)
}

// commentViews enriches roots and their attached replies in one pass.
func (e *enricher) commentViews(ctx context.Context, roots []models.ReviewComment, replies map[primitive.ObjectID][]models.ReviewComment, viewer identity.UserID) ([]CommentView, error) {
	var userIDs []identity.UserID
	var ids []primitive.ObjectID
	add := func(c models.ReviewComment) {
		userIDs = append(userIDs, c.UserID)
		ids = append(ids, c.ID)
	}
	for _, c := range roots {
		add(c)
		for _, r := range replies[c.ID] {
			add(r)
		}
	}

	var users map[identity.UserID]models.UserSummary
	var likedSet map[primitive.ObjectID]bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = e.authors(gctx, userIDs)
		return err
	})
	g.Go(func() error {
		var err error
		likedSet, err = liked(gctx, e.commentLikes, viewer, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view := func(c models.ReviewComment) CommentView {
		return CommentView{
			ID:                 c.ID,
			ReviewID:           c.ReviewID,
			Comment:            c.Comment,
			CreatedAt:          c.CreatedAt,
			User:               author(users, c.UserID),
			LikesCount:         c.LikesCount,
			IsLiked:            likedSet[c.ID],
			ReplyToCommentID:   c.ReplyToCommentID,
			InReplyToCommentID: c.InReplyToCommentID,
			RepliesCount:       c.RepliesCount,
		}
	}

	out := make([]CommentView, 0, len(roots))
	for _, c := range roots {
		v := view(c)
		if rs, ok := replies[c.ID]; ok {
			v.Replies = make([]CommentView, 0, len(rs))
			for _, r := range rs {
				v.Replies = append(v.Replies, view(r))
			}
		}
		out = append(out, v)
	}
	return out, nil
}

// reviewViews enriches reviews with author, like state and the latest root
// comments. withContent also joins the content summary.
func (e *enricher) reviewViews(ctx context.Context, reviews []models.Review, viewer identity.UserID, withContent bool) ([]ReviewView, error) {
	if len(reviews) == 0 {
		return []ReviewView{}, nil
	}

	userIDs := make([]identity.UserID, len(reviews))
	reviewIDs := make([]primitive.ObjectID, len(reviews))
	contentIDs := make([]primitive.ObjectID, len(reviews))
	for i, r := range reviews {
		userIDs[i] = r.UserID
		reviewIDs[i] = r.ID
		contentIDs[i] = r.ContentID
	}

	var (
		users    map[identity.UserID]models.UserSummary
		likedSet map[primitive.ObjectID]bool
		previews map[primitive.ObjectID][]models.ReviewComment
		contents map[primitive.ObjectID]models.ContentSummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = e.authors(gctx, userIDs)
		return err
	})
	g.Go(func() error {
		var err error
		likedSet, err = liked(gctx, e.reviewLikes, viewer, reviewIDs)
		return err
	})
	g.Go(func() error {
		var err error
		previews, err = e.comments.LatestRoots(gctx, reviewIDs, previewComments)
		return err
	})
	if withContent {
		g.Go(func() error {
			var err error
			contents, err = e.contentSummaries(gctx, contentIDs)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var flat []models.ReviewComment
	for _, r := range reviews {
		flat = append(flat, previews[r.ID]...)
	}
	commentViews, err := e.commentViews(ctx, flat, nil, viewer)
	if err != nil {
		return nil, err
	}

	out := make([]ReviewView, 0, len(reviews))
	offset := 0
	for _, r := range reviews {
		n := len(previews[r.ID])
		v := ReviewView{
			ID:                r.ID,
			ContentID:         r.ContentID,
			Rating:            r.Rating,
			ReviewText:        r.ReviewText,
			Date:              r.UpdatedAt,
			ReviewTextAddedAt: r.ReviewTextAddedAt,
			User:              author(users, r.UserID),
			LikesCount:        r.LikesCount,
			CommentsCount:     r.CommentsCount,
			IsLiked:           likedSet[r.ID],
			IsCurrentUser:     !viewer.IsAnonymous() && r.UserID == viewer,
			Comments:          commentViews[offset : offset+n],
		}
		offset += n
		if withContent {
			if c, ok := contents[r.ContentID]; ok {
				v.Content = &c
			}
		}
		out = append(out, v)
	}
	return out, nil
}

// listItemViews joins authors and content summaries onto list entries.
func (e *enricher) listItemViews(ctx context.Context, items []models.ListItem) ([]ListItemView, error) {
	userIDs := make([]identity.UserID, len(items))
	contentIDs := make([]primitive.ObjectID, len(items))
	for i, it := range items {
		userIDs[i] = it.UserID
		contentIDs[i] = it.ContentID
	}

	var (
		users    map[identity.UserID]models.UserSummary
		contents map[primitive.ObjectID]models.ContentSummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = e.authors(gctx, userIDs)
		return err
	})
	g.Go(func() error {
		var err error
		contents, err = e.contentSummaries(gctx, contentIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]ListItemView, 0, len(items))
	for _, it := range items {
		v := ListItemView{
			ID:         it.ID,
			Type:       it.Type,
			ConsumedAt: it.ConsumedAt,
			CreatedAt:  it.CreatedAt,
			User:       author(users, it.UserID),
		}
		if c, ok := contents[it.ContentID]; ok {
			v.Content = &c
		}
		out = append(out, v)
	}
	return out, nil
}
