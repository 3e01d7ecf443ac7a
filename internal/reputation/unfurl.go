// Package reputation implements the external signal checkers: redirect
// resolution, Google Safe Browsing lookups, WHOIS domain age and phone-number
// web search. Every checker degrades a failure into a report instead of
// returning an error, so a dead upstream never fails the request.
package reputation

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"scamshield/internal/domain/models"
	"scamshield/internal/infrastructure/cache"
	"scamshield/pkg/logger"
)

// Unfurler follows URL redirects to their final destination
type Unfurler struct {
	client *http.Client
	cache  *cache.RedisCache
	ttl    time.Duration
	logger *logger.Logger
}

// NewUnfurler creates a new Unfurler with a bounded per-request timeout
func NewUnfurler(timeout time.Duration, c *cache.RedisCache, ttl time.Duration, log *logger.Logger) *Unfurler {
	return &Unfurler{
		client: &http.Client{Timeout: timeout},
		cache:  c,
		ttl:    ttl,
		logger: log.WithComponent("unfurler"),
	}
}

type unfurlResult struct {
	FinalURL string        `json:"final_url"`
	Report   models.Report `json:"report"`
}

// Resolve follows redirects from rawURL and returns the final URL plus a
// report. On failure the original URL is returned so downstream checks still
// have something to run against.
func (u *Unfurler) Resolve(ctx context.Context, rawURL string) (string, models.Report) {
	var cached unfurlResult
	if u.cache.GetJSON(ctx, cache.KeyUnfurlPrefix+rawURL, &cached) {
		return cached.FinalURL, cached.Report
	}

	finalURL, report := u.resolve(ctx, rawURL)

	u.cache.SetJSON(ctx, cache.KeyUnfurlPrefix+rawURL, unfurlResult{FinalURL: finalURL, Report: report}, u.ttl)
	return finalURL, report
}

func (u *Unfurler) resolve(ctx context.Context, rawURL string) (string, models.Report) {
	// HEAD is enough: only the redirect chain matters, not the body.
	// A URL that cannot even form a request is as broken as a dead one.
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return rawURL, models.DangerousReport(
			fmt.Sprintf("Link Redirect: Link is broken or invalid. Error: %T", err))
	}

	resp, err := u.client.Do(req)
	if err != nil {
		// Covers network, TLS and invalid-URL failures
		u.logger.Debug().Err(err).Str("url", rawURL).Msg("unfurl failed")
		return rawURL, models.DangerousReport(
			fmt.Sprintf("Link Redirect: Link is broken or invalid. Error: %T", err))
	}
	defer resp.Body.Close()

	finalURL := resp.Request.URL.String()
	if finalURL != rawURL {
		return finalURL, models.SafeReport(
			fmt.Sprintf("Link Redirect: Original URL redirects to: `%s`", finalURL))
	}
	return rawURL, models.SafeReport("Link Redirect: No redirect found (Link is final destination).")
}
