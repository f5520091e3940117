package docstore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"github.com/qlture/engagement/internal/models"
	"github.com/qlture/engagement/internal/search"
)

// SearchContent runs the catalog search pipeline and its count concurrently.
func (d *DB) SearchContent(ctx context.Context, q models.SearchQuery) ([]models.SearchHit, int64, error) {
	base := SearchPipeline(d.searchIndex, q)

	var (
		hits  []models.SearchHit
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cur, err := d.contents().Aggregate(gctx, pageStages(append(mongo.Pipeline{}, base...), q.Skip, q.Limit))
		hits, err = decodeAll[models.SearchHit](gctx, cur, err)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		n, err := countPipeline(gctx, d.contents(), base)
		if err != nil {
			return fmt.Errorf("search count: %w", err)
		}
		total = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return hits, total, nil
}

// SearchPipeline builds the pre-pagination pipeline. With a text query it
// starts with an Atlas $search compound of the weighted clauses and ranks by
// score; otherwise it filters the collection and sorts by the requested field.
func SearchPipeline(index string, q models.SearchQuery) mongo.Pipeline {
	var p mongo.Pipeline
	filter := searchFilter(q)

	if q.Q != "" {
		p = append(p,
			bson.D{{Key: "$search", Value: bson.D{
				{Key: "index", Value: index},
				{Key: "compound", Value: compound(q.Q)},
			}}},
			bson.D{{Key: "$addFields", Value: bson.M{"score": bson.M{"$meta": "searchScore"}}}},
		)
		if len(filter) > 0 {
			p = append(p, bson.D{{Key: "$match", Value: filter}})
		}
		p = append(p, bson.D{{Key: "$sort", Value: bson.D{{Key: "score", Value: -1}, {Key: "_id", Value: 1}}}})
	} else {
		p = append(p,
			bson.D{{Key: "$match", Value: filter}},
			bson.D{{Key: "$sort", Value: fieldSort(q.Sort)}},
		)
	}
	return append(p, bson.D{{Key: "$project", Value: bson.M{
		"title": 1, "title_vo": 1, "type": 1, "release_date": 1,
		"average_rating": 1, "image_url": 1, "genres": 1, "score": 1,
	}}})
}

func compound(q string) bson.D {
	should := make(bson.A, 0, len(search.Clauses))
	for _, c := range search.Clauses {
		score := bson.M{"boost": bson.M{"value": c.Boost}}
		switch c.Kind {
		case search.Phrase:
			should = append(should, bson.M{"phrase": bson.M{"query": q, "path": c.Path, "score": score}})
		case search.Fuzzy:
			should = append(should, bson.M{"text": bson.M{
				"query": q,
				"path":  c.Path,
				"fuzzy": bson.M{"maxEdits": c.MaxEdits, "prefixLength": c.PrefixLength},
				"score": score,
			}})
		}
	}
	return bson.D{
		{Key: "should", Value: should},
		{Key: "minimumShouldMatch", Value: search.MinimumShouldMatch},
	}
}

func searchFilter(q models.SearchQuery) bson.M {
	m := bson.M{}
	if q.Type != "" {
		m["type"] = q.Type
	}
	if len(q.Genres) > 0 {
		m["genres"] = bson.M{"$in": q.Genres}
	}
	return m
}

func fieldSort(s models.SearchSort) bson.D {
	switch s {
	case models.SearchDateAsc:
		return bson.D{{Key: "release_date", Value: 1}, {Key: "_id", Value: 1}}
	case models.SearchRatingDesc:
		return bson.D{{Key: "average_rating", Value: -1}, {Key: "_id", Value: 1}}
	case models.SearchRatingAsc:
		return bson.D{{Key: "average_rating", Value: 1}, {Key: "_id", Value: 1}}
	}
	return bson.D{{Key: "release_date", Value: -1}, {Key: "_id", Value: 1}}
}
