package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/davide/bandi-radar/internal/api"
	"github.com/davide/bandi-radar/internal/crawl"
	"github.com/davide/bandi-radar/internal/db"
	"github.com/davide/bandi-radar/internal/extract"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	registry, err := extract.LoadRegistry("internal/extract/config/sources.yaml")
	if err != nil {
		log.Fatalf("Failed to load source registry: %v", err)
	}
	pipeline := extract.NewPipeline(extract.DefaultConfig(), registry)

	var seeds []string
	for _, s := range strings.Split(os.Getenv("SEED_URLS"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			seeds = append(seeds, s)
		}
	}

	srv := api.NewServer(pool, crawl.NewCollyFetcher(), pipeline, seeds)
	log.Printf("Server starting on port %s...", port)
	if err := srv.Start(port); err != nil {
		log.Fatal(err)
	}
}
