package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/davide/bandi-radar/internal/crawl"
	"github.com/davide/bandi-radar/internal/extract"
)

// Dry-run extraction for one or more URLs: crawls, classifies, extracts
// and prints the records without touching the database.
func main() {
	flag.Parse()
	urls := flag.Args()
	if len(urls) == 0 {
		log.Fatal("usage: extract_url <url> [url...]")
	}

	registry, err := extract.LoadRegistry("internal/extract/config/sources.yaml")
	if err != nil {
		log.Fatalf("Failed to load source registry: %v", err)
	}
	pipeline := extract.NewPipeline(extract.DefaultConfig(), registry)

	ctx := context.Background()
	crawled, err := crawl.NewCollyFetcher().FetchAll(ctx, urls)
	if err != nil {
		log.Fatalf("Crawl failed: %v", err)
	}

	opps, stats, err := pipeline.Process(ctx, crawled)
	if err != nil {
		log.Fatalf("Extraction failed: %v", err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Title", "Source", "Issuer", "Sectors", "Deadline", "Amount Max", "Provenance"})

	for _, o := range opps {
		deadline := "-"
		if o.Deadline != nil {
			deadline = o.Deadline.Format("2006-01-02")
		}
		t.AppendRow(table.Row{o.Title, o.SourceName, o.IssuerType, o.Sectors, deadline, o.AmountMax, o.Provenance})
	}
	t.Render()

	log.Printf("pages=%d classified=%d ignored=%d extracted=%d duplicates=%d fallback=%d errors=%d",
		stats.PagesProcessed, stats.Classified, stats.Ignored, stats.Extracted,
		stats.Duplicates, stats.FallbackRecords, stats.Errors)
}
