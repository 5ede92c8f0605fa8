package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hwatkins/procurement-finder/internal/cache"
	"github.com/hwatkins/procurement-finder/internal/config"
	"github.com/hwatkins/procurement-finder/internal/models"
	"github.com/hwatkins/procurement-finder/internal/notices"
)

// FindTenderClient fetches OCDS releases from the Find a Tender API: a
// listing call produces base records, then per-notice release packages are
// fetched concurrently in fixed-width chunks and flattened by the
// projector. A failed or missing detail fetch degrades that one notice to
// its base record; it never aborts the batch.
type FindTenderClient struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	pageSize   int
	chunkSize  int
	maxRetries int
	cache      *cache.Client
}

func NewFindTenderClient(cfg config.SourceConfig, pkgCache *cache.Client) *FindTenderClient {
	return &FindTenderClient{
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		pageSize:   cfg.PageSize,
		chunkSize:  cfg.ChunkSize,
		maxRetries: cfg.MaxRetries,
		cache:      pkgCache,
	}
}

type findTenderListResponse struct {
	Releases []findTenderListRelease `json:"releases"`
}

// findTenderListRelease is the slim release shape the listing endpoint
// returns; only enough to build a base record and decide whether a detail
// fetch is worthwhile.
type findTenderListRelease struct {
	ID     string   `json:"id"`
	OCID   string   `json:"ocid"`
	Date   string   `json:"date"`
	Tag    []string `json:"tag"`
	Buyer  *notices.OrgRef `json:"buyer"`
	Tender *struct {
		Title  string `json:"title"`
		Status string `json:"status"`
	} `json:"tender"`
}

// Search lists recent releases, keeps only those matching the NHS authority
// heuristic (cutting volume before any detail fetch happens), then enriches
// the survivors chunk by chunk.
func (c *FindTenderClient) Search(ctx context.Context) ([]models.Notice, error) {
	listed, err := c.list(ctx)
	if err != nil {
		return nil, err
	}

	bases := make([]models.Notice, 0, len(listed))
	for _, rel := range listed {
		if !c.authorityRelevant(rel) {
			continue
		}
		bases = append(bases, baseRecord(rel))
	}
	log.Printf("[FTS] %d of %d releases pass the authority gate", len(bases), len(listed))

	return c.enrichAll(ctx, bases), nil
}

func (c *FindTenderClient) authorityRelevant(rel findTenderListRelease) bool {
	if rel.Tender != nil && notices.IsAuthorityMatch(&rel.Tender.Title) {
		return true
	}
	return rel.Buyer != nil && notices.IsAuthorityMatch(&rel.Buyer.Name)
}

func baseRecord(rel findTenderListRelease) models.Notice {
	n := models.Notice{
		ID:            rel.ID,
		Source:        models.SourceFindTender,
		PublishedDate: rel.Date,
	}
	if len(rel.Tag) > 0 {
		tags := strings.Join(rel.Tag, ", ")
		n.NoticeType = &tags
	}
	if rel.Tender != nil {
		if rel.Tender.Title != "" {
			title := rel.Tender.Title
			n.Title = &title
		}
		if rel.Tender.Status != "" {
			status := rel.Tender.Status
			n.NoticeStatus = &status
		}
	}
	if rel.Buyer != nil && rel.Buyer.Name != "" {
		name := rel.Buyer.Name
		n.OrganisationName = &name
	}
	return n
}

func (c *FindTenderClient) list(ctx context.Context) ([]findTenderListRelease, error) {
	url := fmt.Sprintf("%s/api/1.0/ocdsReleasePackages?limit=%d", c.baseURL, c.pageSize)
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("listing releases: %w", err)
	}
	if body == nil {
		return nil, nil
	}

	var resp findTenderListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding release list: %w", err)
	}
	log.Printf("[FTS] Listed %d releases", len(resp.Releases))
	return resp.Releases, nil
}

// enrichAll runs detail fetches as a bounded-width batch: chunks are
// processed sequentially, releases inside a chunk concurrently. Output
// order follows input order.
func (c *FindTenderClient) enrichAll(ctx context.Context, bases []models.Notice) []models.Notice {
	out := make([]models.Notice, len(bases))
	width := c.chunkSize
	if width <= 0 {
		width = 10
	}

	for start := 0; start < len(bases); start += width {
		end := start + width
		if end > len(bases) {
			end = len(bases)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				out[i] = c.enrichOne(ctx, bases[i])
			}(i)
		}
		wg.Wait()
	}
	return out
}

// enrichOne fetches and projects a single release package. Any failure is
// logged and the base record is used unchanged for that notice.
func (c *FindTenderClient) enrichOne(ctx context.Context, base models.Notice) models.Notice {
	pkg, err := c.FetchReleasePackage(ctx, base.ID)
	if err != nil {
		log.Printf("[FTS] Detail fetch failed for %s, using base record: %v", base.ID, err)
		pkg = nil
	}
	return notices.MapFindTenderNotice(notices.ProjectRelease(base, pkg))
}

// FetchReleasePackage returns the release package for a notice id, or nil
// when the upstream has no detail for it (404 is a normal outcome, not an
// error). Responses pass through the optional cache.
func (c *FindTenderClient) FetchReleasePackage(ctx context.Context, noticeID string) (*notices.ReleasePackage, error) {
	if noticeID == "" {
		return nil, nil
	}

	if body, ok := c.cache.GetPackage(ctx, noticeID); ok {
		var pkg notices.ReleasePackage
		if err := json.Unmarshal(body, &pkg); err == nil {
			return &pkg, nil
		}
	}

	url := fmt.Sprintf("%s/api/1.0/ocdsReleasePackages/%s", c.baseURL, noticeID)
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, nil
	}

	var pkg notices.ReleasePackage
	if err := json.Unmarshal(body, &pkg); err != nil {
		return nil, fmt.Errorf("decoding release package: %w", err)
	}

	c.cache.SetPackage(ctx, noticeID, body)
	return &pkg, nil
}

// get performs a GET with retry and exponential backoff on transient
// statuses. A 404 returns (nil, nil).
func (c *FindTenderClient) get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(500*(1<<uint(attempt-1))) * time.Millisecond
			jitter := time.Duration(rand.Intn(100)) * time.Millisecond
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff + jitter):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("x-api-key", c.apiKey)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			if isTimeout(err) {
				continue
			}
			return nil, fmt.Errorf("request failed: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			body, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if readErr != nil {
				return nil, fmt.Errorf("reading response: %w", readErr)
			}
			return body, nil
		case resp.StatusCode == http.StatusNotFound:
			resp.Body.Close()
			return nil, nil
		case shouldRetryStatus(resp.StatusCode):
			resp.Body.Close()
			lastErr = fmt.Errorf("status code %d", resp.StatusCode)
		default:
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

func isTimeout(err error) bool {
	netErr, ok := err.(interface{ Timeout() bool })
	return ok && netErr.Timeout()
}

func shouldRetryStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
