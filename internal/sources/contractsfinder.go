package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/hwatkins/procurement-finder/internal/config"
	"github.com/hwatkins/procurement-finder/internal/models"
	"github.com/hwatkins/procurement-finder/internal/notices"
)

// ContractsFinderClient fetches notices from the Contracts Finder search
// API. Keyword relevance is applied server-side here, which is why the
// filter engine never keyword-filters Contracts Finder notices again.
type ContractsFinderClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
	pageSize int
}

func NewContractsFinderClient(cfg config.SourceConfig) *ContractsFinderClient {
	return &ContractsFinderClient{
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		pageSize: cfg.PageSize,
	}
}

type contractsFinderSearchRequest struct {
	SearchCriteria contractsFinderCriteria `json:"searchCriteria"`
	Size           int                     `json:"size"`
}

type contractsFinderCriteria struct {
	Keyword string   `json:"keyword,omitempty"`
	Types   []string `json:"types,omitempty"`
	Statuses []string `json:"statuses,omitempty"`
}

type contractsFinderSearchResponse struct {
	NoticeList []struct {
		Item notices.ContractsFinderRecord `json:"item"`
	} `json:"noticeList"`
	HitCount int `json:"hitOfNoticesCount"`
}

// Search posts a keyword search and maps every hit into the unified Notice
// shape. Types and statuses are passed through so the upstream can narrow
// the result set, but the filter engine re-applies them regardless.
func (c *ContractsFinderClient) Search(ctx context.Context, keywords []string) ([]models.Notice, error) {
	searchReq := contractsFinderSearchRequest{
		SearchCriteria: contractsFinderCriteria{
			Keyword: joinKeywords(keywords),
		},
		Size: c.pageSize,
	}

	body, err := json.Marshal(searchReq)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/rest/searches/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	log.Printf("[CF] Searching keyword=%q size=%d", searchReq.SearchCriteria.Keyword, c.pageSize)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API returned %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp contractsFinderSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	log.Printf("[CF] Got %d notices (total: %d)", len(apiResp.NoticeList), apiResp.HitCount)

	result := make([]models.Notice, 0, len(apiResp.NoticeList))
	for _, hit := range apiResp.NoticeList {
		result = append(result, notices.MapContractsFinderRecord(hit.Item))
	}
	return result, nil
}

func joinKeywords(keywords []string) string {
	out := ""
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += kw
	}
	return out
}
