package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/jobs"
)

// HTMLBoardConfig describes one HTML listing page well enough to scrape it:
// a search URL template with a %s query placeholder and the CSS selectors of
// the listing items.
type HTMLBoardConfig struct {
	Platform         string `mapstructure:"platform"`
	SearchURL        string `mapstructure:"search-url"`
	ItemSelector     string `mapstructure:"item-selector"`
	TitleSelector    string `mapstructure:"title-selector"`
	CompanySelector  string `mapstructure:"company-selector"`
	LocationSelector string `mapstructure:"location-selector"`
	LinkSelector     string `mapstructure:"link-selector"`
}

// HTMLBoard is the generic listing-page adapter. Sources with no API are
// configured declaratively instead of getting an adapter each.
type HTMLBoard struct {
	cfg        HTMLBoardConfig
	HTTPClient *http.Client
	logger     *zap.Logger
}

func NewHTMLBoard(cfg HTMLBoardConfig, logger *zap.Logger) (*HTMLBoard, error) {
	if cfg.Platform == "" {
		return nil, fmt.Errorf("html board platform name is required")
	}
	if !strings.Contains(cfg.SearchURL, "%s") {
		return nil, fmt.Errorf("html board %s: search-url must contain a %%s query placeholder", cfg.Platform)
	}
	if cfg.ItemSelector == "" || cfg.TitleSelector == "" {
		return nil, fmt.Errorf("html board %s: item-selector and title-selector are required", cfg.Platform)
	}

	return &HTMLBoard{
		cfg: cfg,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}, nil
}

func (h *HTMLBoard) Name() string { return h.cfg.Platform }

func (h *HTMLBoard) Search(ctx context.Context, query string, limit int) ([]jobs.ScrapedJob, error) {
	searchURL := fmt.Sprintf(h.cfg.SearchURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", remoteOKUserAgent)

	resp, err := h.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", h.cfg.Platform, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s bad status: %s", h.cfg.Platform, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s parse html: %w", h.cfg.Platform, err)
	}

	base := resp.Request.URL

	var results []jobs.ScrapedJob
	doc.Find(h.cfg.ItemSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if len(results) >= limit {
			return false
		}

		title := strings.TrimSpace(sel.Find(h.cfg.TitleSelector).First().Text())
		if title == "" {
			return true
		}

		job := jobs.ScrapedJob{
			Title:          title,
			Company:        h.selText(sel, h.cfg.CompanySelector),
			Location:       h.selText(sel, h.cfg.LocationSelector),
			URL:            h.itemLink(sel, base),
			SourcePlatform: h.cfg.Platform,
			Description:    strings.TrimSpace(sel.Text()),
		}
		job.ExternalID = ExternalID(h.cfg.Platform, job.URL)
		job.IsRemote = DetectRemote(job.Title, job.Location, job.Description)
		job.SalaryMin, job.SalaryMax = ExtractSalaryRange(job.Description)
		job.Technologies = ExtractTechnologies(job.Title + " " + job.Description)

		results = append(results, job)
		return true
	})

	h.logger.Debug("html board search finished",
		zap.String("platform", h.cfg.Platform),
		zap.Int("matched", len(results)),
	)

	return results, nil
}

func (h *HTMLBoard) selText(sel *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return strings.TrimSpace(sel.Find(selector).First().Text())
}

func (h *HTMLBoard) itemLink(sel *goquery.Selection, base *url.URL) string {
	linkSel := h.cfg.LinkSelector
	if linkSel == "" {
		linkSel = "a"
	}

	href, ok := sel.Find(linkSel).First().Attr("href")
	if !ok {
		href, _ = sel.Attr("href")
	}
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if base != nil {
		return base.ResolveReference(ref).String()
	}
	return ref.String()
}
