package sources

import (
	"context"
	"log"
	"sync"

	"github.com/hwatkins/procurement-finder/internal/models"
	"github.com/hwatkins/procurement-finder/internal/notices"
)

// SearchAll fetches both sources concurrently, classifies every notice and
// applies the filter criteria. A failed upstream degrades to the other
// source's results rather than failing the search. Results come back sorted
// newest-first.
func SearchAll(ctx context.Context, cf *ContractsFinderClient, fts *FindTenderClient, criteria notices.Criteria) []models.Notice {
	wantCF, wantFTS := requestedSources(criteria.Sources)

	var cfNotices, ftsNotices []models.Notice
	var wg sync.WaitGroup

	if wantCF && cf != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := cf.Search(ctx, criteria.Keywords)
			if err != nil {
				log.Printf("[Search] Contracts Finder fetch failed: %v", err)
				return
			}
			cfNotices = result
		}()
	}
	if wantFTS && fts != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := fts.Search(ctx)
			if err != nil {
				log.Printf("[Search] Find a Tender fetch failed: %v", err)
				return
			}
			ftsNotices = result
		}()
	}
	wg.Wait()

	combined := make([]models.Notice, 0, len(cfNotices)+len(ftsNotices))
	for _, n := range cfNotices {
		combined = append(combined, notices.AttachStage(n))
	}
	for _, n := range ftsNotices {
		combined = append(combined, notices.AttachStage(n))
	}

	filtered := notices.ApplyFilters(combined, criteria)
	notices.SortByPublishedDesc(filtered)
	return filtered
}

// requestedSources decides which upstreams a criteria set actually needs,
// so an explicit source filter skips the other fetch entirely.
func requestedSources(requested []string) (wantCF, wantFTS bool) {
	if len(requested) == 0 {
		return true, true
	}
	probe := func(source models.Source) bool {
		n := models.Notice{Source: source}
		return len(notices.ApplyFilters([]models.Notice{n}, notices.Criteria{Sources: requested})) > 0
	}
	return probe(models.SourceContractsFinder), probe(models.SourceFindTender)
}
