package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/jobs"
)

const (
	remoteOKPlatform = "remoteok"
	remoteOKAPIURL   = "https://remoteok.com/api"
	// RemoteOK rejects requests without a browser-like user agent.
	remoteOKUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"
)

// RemoteOK fetches offers from the RemoteOK public JSON API. Every offer on
// that board is remote by definition.
type RemoteOK struct {
	APIURL     string
	HTTPClient *http.Client
	logger     *zap.Logger
}

func NewRemoteOK(logger *zap.Logger) *RemoteOK {
	return &RemoteOK{
		APIURL: remoteOKAPIURL,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

func (r *RemoteOK) Name() string { return remoteOKPlatform }

type remoteOKItem struct {
	ID          any      `json:"id"`
	Position    string   `json:"position"`
	Company     string   `json:"company"`
	CompanyLogo string   `json:"company_logo"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	URL         string   `json:"url"`
	Date        any      `json:"date"`
	SalaryMin   int      `json:"salary_min"`
	SalaryMax   int      `json:"salary_max"`
}

func (r *RemoteOK) Search(ctx context.Context, query string, limit int) ([]jobs.ScrapedJob, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.APIURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", remoteOKUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remoteok request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remoteok bad status: %s", resp.Status)
	}

	var raw []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("remoteok decode: %w", err)
	}

	// The first element of the feed is a legal notice, not an offer.
	if len(raw) > 0 {
		raw = raw[1:]
	}

	var items []remoteOKItem
	cfg := &mapstructure.DecoderConfig{
		Result:           &items,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, _ := mapstructure.NewDecoder(cfg)
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("remoteok map items: %w", err)
	}

	terms := strings.Fields(strings.ToLower(query))

	results := make([]jobs.ScrapedJob, 0, limit)
	for _, item := range items {
		if len(results) >= limit {
			break
		}
		if !matchesTerms(item, terms) {
			continue
		}
		results = append(results, r.toScraped(item))
	}

	r.logger.Debug("remoteok search finished",
		zap.String("query", query),
		zap.Int("matched", len(results)),
	)

	return results, nil
}

func matchesTerms(item remoteOKItem, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	haystack := strings.ToLower(
		item.Position + " " + item.Company + " " + strings.Join(item.Tags, " "),
	)
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}

func (r *RemoteOK) toScraped(item remoteOKItem) jobs.ScrapedJob {
	externalID := fmt.Sprintf("%v", item.ID)
	if externalID == "" || externalID == "<nil>" {
		externalID = ExternalID(remoteOKPlatform, item.URL)
	}

	location := item.Location
	if location == "" {
		location = "Remote"
	}

	salaryMin, salaryMax := item.SalaryMin, item.SalaryMax
	if salaryMin == 0 && salaryMax == 0 {
		salaryMin, salaryMax = ExtractSalaryRange(item.Description)
	}

	technologies := item.Tags
	if len(technologies) == 0 {
		technologies = ExtractTechnologies(item.Position + " " + item.Description)
	}

	return jobs.ScrapedJob{
		ExternalID:     externalID,
		Title:          item.Position,
		Company:        item.Company,
		Location:       location,
		IsRemote:       true,
		SalaryMin:      salaryMin,
		SalaryMax:      salaryMax,
		SalaryCurrency: "USD",
		Description:    item.Description,
		URL:            item.URL,
		SourcePlatform: remoteOKPlatform,
		PostedAt:       parseRemoteOKDate(item.Date),
		Technologies:   technologies,
		LogoURL:        item.CompanyLogo,
	}
}

// parseRemoteOKDate accepts the two formats the feed is known to emit: an
// ISO timestamp or a unix epoch.
func parseRemoteOKDate(raw any) time.Time {
	switch v := raw.(type) {
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
		if epoch, err := strconv.ParseInt(v, 10, 64); err == nil {
			return time.Unix(epoch, 0).UTC()
		}
	case float64:
		return time.Unix(int64(v), 0).UTC()
	case int64:
		return time.Unix(v, 0).UTC()
	}
	return time.Now().UTC()
}
