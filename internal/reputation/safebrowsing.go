package reputation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"scamshield/internal/domain/models"
	"scamshield/internal/infrastructure/cache"
	"scamshield/pkg/logger"
)

const safeBrowsingEndpoint = "https://safebrowsing.googleapis.com/v4/threatMatches:find"

// SafeBrowsingChecker queries the Google Safe Browsing v4 lookup API for a
// URL. A missing API key degrades the checker to a skipped report.
type SafeBrowsingChecker struct {
	client   *http.Client
	endpoint string
	apiKey   string
	cache    *cache.RedisCache
	ttl      time.Duration
	logger   *logger.Logger
}

// NewSafeBrowsingChecker creates a new Safe Browsing checker
func NewSafeBrowsingChecker(apiKey string, timeout time.Duration, c *cache.RedisCache, ttl time.Duration, log *logger.Logger) *SafeBrowsingChecker {
	return &SafeBrowsingChecker{
		client:   &http.Client{Timeout: timeout},
		endpoint: safeBrowsingEndpoint,
		apiKey:   apiKey,
		cache:    c,
		ttl:      ttl,
		logger:   log.WithComponent("safebrowsing"),
	}
}

type threatMatchesRequest struct {
	Client struct {
		ClientID      string `json:"clientId"`
		ClientVersion string `json:"clientVersion"`
	} `json:"client"`
	ThreatInfo threatInfo `json:"threatInfo"`
}

type threatInfo struct {
	ThreatTypes      []string      `json:"threatTypes"`
	PlatformTypes    []string      `json:"platformTypes"`
	ThreatEntryTypes []string      `json:"threatEntryTypes"`
	ThreatEntries    []threatEntry `json:"threatEntries"`
}

type threatEntry struct {
	URL string `json:"url"`
}

type threatMatchesResponse struct {
	Matches []struct {
		ThreatType string `json:"threatType"`
	} `json:"matches"`
}

// Check looks up a URL against the Safe Browsing threat lists
func (c *SafeBrowsingChecker) Check(ctx context.Context, url string) models.Report {
	if c.apiKey == "" {
		return models.SuspiciousReport("Google Check: Skipped (API key not set).")
	}

	var cached models.Report
	if c.cache.GetJSON(ctx, cache.KeySafeBrowsingPrefix+url, &cached) {
		return cached
	}

	report := c.check(ctx, url)

	c.cache.SetJSON(ctx, cache.KeySafeBrowsingPrefix+url, report, c.ttl)
	return report
}

func (c *SafeBrowsingChecker) check(ctx context.Context, url string) models.Report {
	reqBody := threatMatchesRequest{}
	reqBody.Client.ClientID = "scamshield"
	reqBody.Client.ClientVersion = "2.0.0"
	reqBody.ThreatInfo = threatInfo{
		ThreatTypes: []string{
			"MALWARE",
			"SOCIAL_ENGINEERING",
			"UNWANTED_SOFTWARE",
			"POTENTIALLY_HARMFUL_APPLICATION",
		},
		PlatformTypes:    []string{"ANY_PLATFORM"},
		ThreatEntryTypes: []string{"URL"},
		ThreatEntries:    []threatEntry{{URL: url}},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return models.SuspiciousReport(fmt.Sprintf("Google Check: Failed (Unknown error). Error: %T", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s?key=%s", c.endpoint, c.apiKey), bytes.NewReader(jsonBody))
	if err != nil {
		return models.SuspiciousReport(fmt.Sprintf("Google Check: Failed (Unknown error). Error: %T", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("url", url).Msg("safe browsing request failed")
		return models.SuspiciousReport(fmt.Sprintf("Google Check: Failed (Could not connect). Error: %T", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.SuspiciousReport(fmt.Sprintf("Google Check: Failed (Error %d). Check API key.", resp.StatusCode))
	}

	var result threatMatchesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return models.SuspiciousReport(fmt.Sprintf("Google Check: Failed (Unknown error). Error: %T", err))
	}

	if len(result.Matches) > 0 {
		return models.DangerousReport(fmt.Sprintf("Google Check: Flagged for %s.", result.Matches[0].ThreatType))
	}
	return models.SafeReport("Google Check: No known threats found.")
}
