// Command recompute re-derives denormalized counters from their source rows.
//
//	recompute -content <id>     content aggregates plus its reviews and comments
//	recompute -user <uuid>      per-user activity counters
//	recompute -all-contents     every content item in the catalog
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/qlture/engagement/internal/config"
	"github.com/qlture/engagement/internal/database"
	"github.com/qlture/engagement/internal/docstore"
	"github.com/qlture/engagement/internal/identity"
	"github.com/qlture/engagement/internal/logging"
	"github.com/qlture/engagement/internal/services"
	"github.com/qlture/engagement/internal/stores"
)

func main() {
	contentFlag := flag.String("content", "", "content id to repair")
	userFlag := flag.String("user", "", "user id whose counters to repair")
	allContents := flag.Bool("all-contents", false, "repair every content item")
	timeout := flag.Duration("timeout", 30*time.Minute, "overall deadline")
	flag.Parse()

	logging.Setup()

	if *contentFlag == "" && *userFlag == "" && !*allContents {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	doc, err := docstore.Connect(ctx, cfg.MongoURI, cfg.MongoDB, cfg.SearchIndex)
	if err != nil {
		slog.Error("mongo connection failed", "error", err)
		os.Exit(1)
	}
	defer doc.Close(context.Background())

	stats := services.NewStatsSynchronizer(stores.Build(doc, database.DB))

	if err := run(ctx, stats, *contentFlag, *userFlag, *allContents); err != nil {
		slog.Error("recompute failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stats *services.StatsSynchronizer, content, user string, all bool) error {
	if content != "" {
		id, err := primitive.ObjectIDFromHex(content)
		if err != nil {
			return err
		}
		repair, err := stats.RepairContent(ctx, id)
		if err != nil {
			return err
		}
		slog.Info("content repaired", "content_id", content, "repair", repair)
	}

	if user != "" {
		id, err := identity.Parse(user)
		if err != nil {
			return err
		}
		counters, err := stats.RepairUserCounters(ctx, id)
		if err != nil {
			return err
		}
		slog.Info("user counters repaired", "user_id", user, "counters", counters)
	}

	if all {
		n, err := stats.RepairAllContents(ctx)
		if err != nil {
			return err
		}
		slog.Info("all contents repaired", "count", n)
	}
	return nil
}
