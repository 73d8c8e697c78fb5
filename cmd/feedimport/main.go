// Package main imports one OEM S08 feed into a branch as In Transit vehicles.
//
// The feed is read from -file, from the newest file in the configured feed
// directory, or with -s3 from the configured bucket.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/akashkatakam/vehicle-tracking-system/internal/app"
	"github.com/akashkatakam/vehicle-tracking-system/internal/config"
	appctx "github.com/akashkatakam/vehicle-tracking-system/internal/core/context"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/feed"
	"github.com/akashkatakam/vehicle-tracking-system/internal/infrastructure/feedsource"
	"github.com/akashkatakam/vehicle-tracking-system/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	branchID := flag.String("branch", "", "branch receiving the load (required)")
	file := flag.String("file", "", "feed file; newest file in storage.feed_dir when empty")
	useS3 := flag.Bool("s3", false, "read the feed from storage.s3_bucket")
	key := flag.String("key", "", "S3 object key; newest object under storage.s3_prefix when empty")
	date := flag.String("date", "", "date received, YYYY-MM-DD (default today)")
	remarks := flag.String("remarks", "", "remarks stored on the transaction log")
	operator := flag.String("operator", "feedimport", "operator recorded with the archived feed")
	flag.Parse()

	if *branchID == "" {
		fmt.Println("-branch is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}
	log, err := app.NewLogger(cfg)
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := logger.WithLogger(context.Background(), log)
	ctx = appctx.WithTrace(ctx, appctx.NewTraceContext("", ""))
	ctx = appctx.WithOperator(ctx, &appctx.Operator{Username: *operator, BranchID: *branchID})

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatalw("failed to initialize application", "error", err)
	}
	defer a.Close()

	var received time.Time
	if *date != "" {
		received, err = time.ParseInLocation(time.DateOnly, *date, a.Clock.Location())
		if err != nil {
			log.Fatalw("invalid -date", "value", *date, "error", err)
		}
	}

	src, err := source(ctx, cfg, *file, *useS3, *key)
	if err != nil {
		log.Fatalw("failed to open feed source", "error", err)
	}
	doc, err := src.Fetch(ctx)
	if err != nil {
		log.Fatalw("failed to fetch feed", "error", err)
	}
	log.Infow("feed fetched", "name", doc.Name, "bytes", len(doc.Body))

	res, err := a.Importer.Import(ctx, feed.ImportRequest{
		Raw:      string(doc.Body),
		Source:   doc.Name,
		BranchID: *branchID,
		Received: received,
		Remarks:  *remarks,
	})
	if err != nil {
		log.Fatalw("import failed", "error", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(res)
}

func source(ctx context.Context, cfg *config.Config, file string, useS3 bool, key string) (feed.Source, error) {
	if !useS3 {
		return feedsource.FileSource{Path: file, Dir: cfg.Storage.FeedDir}, nil
	}
	s3cfg := feedsource.S3Config{
		Bucket:    cfg.Storage.S3Bucket,
		Prefix:    cfg.Storage.S3Prefix,
		Region:    cfg.Storage.S3Region,
		Endpoint:  cfg.Storage.S3Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
	}
	client, err := feedsource.NewS3Client(ctx, s3cfg)
	if err != nil {
		return nil, err
	}
	return feedsource.NewS3Source(client, s3cfg.Bucket, s3cfg.Prefix, key)
}
