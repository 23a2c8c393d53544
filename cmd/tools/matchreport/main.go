package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/davide/bandi-radar/internal/db"
)

func main() {
	limit := flag.Int("limit", 50, "max matches to print")
	flag.Parse()

	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	store := db.NewStore(pool)
	matches, err := store.ListMatches(ctx, *limit)
	if err != nil {
		log.Fatal(err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Client", "Opportunity", "Score", "Computed At"})

	for _, m := range matches {
		t.AppendRow(table.Row{m.ClientName, m.OpportunityTitle, m.Score, m.ComputedAt.Format("2006-01-02 15:04")})
	}
	t.Render()
}
