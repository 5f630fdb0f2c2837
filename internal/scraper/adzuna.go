package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/jobs"
	"github.com/jobradar/jobradar/internal/utils"
)

const (
	adzunaPlatform  = "adzuna"
	adzunaBaseURL   = "https://api.adzuna.com/v1/api/jobs"
	adzunaPageSize  = 50
	adzunaMaxPages  = 3
	adzunaPageDelay = 500 * time.Millisecond
)

// Adzuna fetches offers from the Adzuna aggregator API. When credentials are
// missing the adapter logs once and contributes no results instead of
// failing the whole search.
type Adzuna struct {
	AppID      string
	AppKey     string
	Country    string // "gb", "us", "br", ...
	BaseURL    string
	HTTPClient *http.Client
	logger     *zap.Logger
}

func NewAdzuna(appID, appKey, country string, logger *zap.Logger) *Adzuna {
	if country == "" {
		country = "gb"
	}
	return &Adzuna{
		AppID:   appID,
		AppKey:  appKey,
		Country: country,
		BaseURL: adzunaBaseURL,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

func (a *Adzuna) Name() string { return adzunaPlatform }

type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
	Count   int            `json:"count"`
}

type adzunaResult struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	SalaryMin   float64 `json:"salary_min"`
	SalaryMax   float64 `json:"salary_max"`
	RedirectURL string  `json:"redirect_url"`
	Created     string  `json:"created"`
	Company     struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string `json:"display_name"`
	} `json:"location"`
}

func (a *Adzuna) Search(ctx context.Context, query string, limit int) ([]jobs.ScrapedJob, error) {
	if a.AppID == "" || a.AppKey == "" {
		a.logger.Warn("adzuna credentials not set, skipping source")
		return nil, nil
	}

	var results []jobs.ScrapedJob
	for page := 1; page <= adzunaMaxPages && len(results) < limit; page++ {
		if page > 1 {
			if err := utils.WaitFor(ctx, adzunaPageDelay); err != nil {
				return results, err
			}
		}

		batch, err := a.fetchPage(ctx, query, page)
		if err != nil {
			return results, fmt.Errorf("adzuna page %d: %w", page, err)
		}
		if len(batch) == 0 {
			break
		}
		results = append(results, batch...)
		if len(batch) < adzunaPageSize {
			break
		}
	}

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (a *Adzuna) fetchPage(ctx context.Context, query string, page int) ([]jobs.ScrapedJob, error) {
	endpoint := fmt.Sprintf("%s/%s/search/%d", a.BaseURL, a.Country, page)

	params := url.Values{}
	params.Set("app_id", a.AppID)
	params.Set("app_key", a.AppKey)
	params.Set("results_per_page", strconv.Itoa(adzunaPageSize))
	params.Set("what", query)
	params.Set("sort_by", "date")
	params.Set("content-type", "application/json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp adzunaResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	scraped := make([]jobs.ScrapedJob, 0, len(apiResp.Results))
	for _, r := range apiResp.Results {
		externalID := r.ID
		if externalID == "" {
			externalID = ExternalID(adzunaPlatform, r.RedirectURL)
		}

		postedAt, _ := time.Parse(time.RFC3339, r.Created)

		scraped = append(scraped, jobs.ScrapedJob{
			ExternalID:     externalID,
			Title:          r.Title,
			Company:        r.Company.DisplayName,
			Location:       r.Location.DisplayName,
			IsRemote:       DetectRemote(r.Title, r.Location.DisplayName, r.Description),
			SalaryMin:      int(r.SalaryMin),
			SalaryMax:      int(r.SalaryMax),
			Description:    r.Description,
			URL:            r.RedirectURL,
			SourcePlatform: adzunaPlatform,
			PostedAt:       postedAt,
			Technologies:   ExtractTechnologies(r.Title + " " + r.Description),
		})
	}

	return scraped, nil
}
