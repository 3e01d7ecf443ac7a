package reputation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"scamshield/internal/domain/models"
	"scamshield/internal/infrastructure/cache"
	"scamshield/pkg/logger"
)

const customSearchEndpoint = "https://www.googleapis.com/customsearch/v1"

// PhoneSearchChecker web-searches a phone number together with scam keywords
// to surface existing complaint reports
type PhoneSearchChecker struct {
	client   *http.Client
	endpoint string
	apiKey   string
	engineID string
	cache    *cache.RedisCache
	ttl      time.Duration
	logger   *logger.Logger
}

// NewPhoneSearchChecker creates a new phone reputation checker
func NewPhoneSearchChecker(apiKey, engineID string, timeout time.Duration, c *cache.RedisCache, ttl time.Duration, log *logger.Logger) *PhoneSearchChecker {
	return &PhoneSearchChecker{
		client:   &http.Client{Timeout: timeout},
		endpoint: customSearchEndpoint,
		apiKey:   apiKey,
		engineID: engineID,
		cache:    c,
		ttl:      ttl,
		logger:   log.WithComponent("phone-search"),
	}
}

type searchResponse struct {
	Items []struct {
		Snippet string `json:"snippet"`
	} `json:"items"`
}

// Check searches for scam reports mentioning the phone number
func (c *PhoneSearchChecker) Check(ctx context.Context, phone string) models.Report {
	if c.apiKey == "" || c.engineID == "" {
		return models.SuspiciousReport("Google Search: Skipped (API key not set).")
	}

	var cached models.Report
	if c.cache.GetJSON(ctx, cache.KeyPhonePrefix+phone, &cached) {
		return cached
	}

	report := c.check(ctx, phone)

	c.cache.SetJSON(ctx, cache.KeyPhonePrefix+phone, report, c.ttl)
	return report
}

func (c *PhoneSearchChecker) check(ctx context.Context, phone string) models.Report {
	query := url.Values{}
	query.Set("key", c.apiKey)
	query.Set("cx", c.engineID)
	query.Set("q", fmt.Sprintf(`"%s" scam OR fraud OR fake OR complaints`, phone))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return models.SuspiciousReport(fmt.Sprintf("Google Search: Failed (Unknown error). Error: %T", err))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("phone", phone).Msg("phone search request failed")
		return models.SuspiciousReport(fmt.Sprintf("Google Search: Failed (Could not connect). Error: %T", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.SuspiciousReport(fmt.Sprintf("Google Search: Failed (Error %d). Check API keys.", resp.StatusCode))
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return models.SuspiciousReport(fmt.Sprintf("Google Search: Failed (Unknown error). Error: %T", err))
	}

	if len(result.Items) > 0 {
		return models.SuspiciousReport(fmt.Sprintf("Google Search: Found potential scam reports. Top result: '%s...'", result.Items[0].Snippet))
	}
	return models.SafeReport("Google Search: No immediate scam reports found.")
}
