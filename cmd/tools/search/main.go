package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"

	"github.com/hwatkins/procurement-finder/internal/config"
	"github.com/hwatkins/procurement-finder/internal/notices"
	"github.com/hwatkins/procurement-finder/internal/sources"
)

func main() {
	keywords := flag.String("keywords", "", "comma-separated search keywords")
	stages := flag.String("stages", "", "comma-separated procurement stages")
	srcs := flag.String("sources", "", "comma-separated sources (CF, FTS)")
	dateFrom := flag.String("from", "", "start date (YYYY-MM-DD)")
	dateTo := flag.String("to", "", "end date (YYYY-MM-DD)")
	limit := flag.Int("limit", 25, "max rows to print")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load("internal/config/sources.yaml")
	if err != nil {
		log.Fatal(err)
	}

	criteria := notices.Criteria{
		Keywords: splitCSV(*keywords),
		Stages:   splitCSV(*stages),
		Sources:  splitCSV(*srcs),
		DateFrom: *dateFrom,
		DateTo:   *dateTo,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cf := sources.NewContractsFinderClient(cfg.ContractsFinder)
	fts := sources.NewFindTenderClient(cfg.FindTender, nil)
	items := sources.SearchAll(ctx, cf, fts, criteria)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Source", "Stage", "Title", "Organisation", "Published", "Deadline"})

	shown := 0
	for _, n := range items {
		if shown >= *limit {
			break
		}
		stage := ""
		if n.ProcurementStage != nil {
			stage = string(*n.ProcurementStage)
		}
		t.AppendRow(table.Row{
			string(n.Source), stage,
			truncate(deref(n.Title), 60),
			truncate(deref(n.OrganisationName), 40),
			n.PublishedDate,
			deref(n.DeadlineDate),
		})
		shown++
	}
	t.Render()
	log.Printf("%d notices total, %d shown", len(items), shown)
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
