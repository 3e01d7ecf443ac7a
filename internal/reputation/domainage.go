package reputation

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"

	"scamshield/internal/domain/models"
	"scamshield/internal/infrastructure/cache"
	"scamshield/pkg/logger"
)

// Registration dates are commonly hidden for these suffixes, so a missing
// creation date is not treated as a risk signal.
var trustedSuffixes = []string{".gov", ".edu", ".mil", ".go.in", ".ac.in"}

// DomainLookupFunc returns the registration creation date for a domain.
// found is false when the record exists but carries no creation date.
type DomainLookupFunc func(ctx context.Context, domain string) (created time.Time, found bool, err error)

// DomainAgeChecker estimates how risky a URL's domain is from its
// registration age
type DomainAgeChecker struct {
	lookup DomainLookupFunc
	cache  *cache.RedisCache
	ttl    time.Duration
	logger *logger.Logger
	now    func() time.Time
}

// NewDomainAgeChecker creates a checker backed by live WHOIS lookups
func NewDomainAgeChecker(timeout time.Duration, c *cache.RedisCache, ttl time.Duration, log *logger.Logger) *DomainAgeChecker {
	return NewDomainAgeCheckerWithLookup(whoisLookup(timeout), c, ttl, log)
}

// NewDomainAgeCheckerWithLookup creates a checker with a custom lookup
// function
func NewDomainAgeCheckerWithLookup(lookup DomainLookupFunc, c *cache.RedisCache, ttl time.Duration, log *logger.Logger) *DomainAgeChecker {
	return &DomainAgeChecker{
		lookup: lookup,
		cache:  c,
		ttl:    ttl,
		logger: log.WithComponent("domain-age"),
		now:    time.Now,
	}
}

// whoisLookup builds the default WHOIS-backed lookup function
func whoisLookup(timeout time.Duration) DomainLookupFunc {
	client := whois.NewClient()
	client.SetTimeout(timeout)

	return func(ctx context.Context, domain string) (time.Time, bool, error) {
		raw, err := client.Whois(domain)
		if err != nil {
			return time.Time{}, false, err
		}
		info, err := whoisparser.Parse(raw)
		if err != nil {
			return time.Time{}, false, err
		}
		if info.Domain == nil || info.Domain.CreatedDateInTime == nil {
			return time.Time{}, false, nil
		}
		return *info.Domain.CreatedDateInTime, true, nil
	}
}

// Check reports the risk implied by the domain age of rawURL
func (c *DomainAgeChecker) Check(ctx context.Context, rawURL string) models.Report {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return models.SuspiciousReport("WHOIS Check: Could not parse domain from URL.")
	}

	domain := strings.TrimPrefix(parsed.Hostname(), "www.")

	var cached models.Report
	if c.cache.GetJSON(ctx, cache.KeyWhoisPrefix+domain, &cached) {
		return cached
	}

	report := c.check(ctx, domain)

	c.cache.SetJSON(ctx, cache.KeyWhoisPrefix+domain, report, c.ttl)
	return report
}

func (c *DomainAgeChecker) check(ctx context.Context, domain string) models.Report {
	created, found, err := c.lookup(ctx, domain)
	if err != nil {
		c.logger.Debug().Err(err).Str("domain", domain).Msg("whois lookup failed")
		return models.DangerousReport("WHOIS Check: Domain lookup failed (likely doesn't exist).")
	}

	if !found {
		if hasTrustedSuffix(domain) {
			return models.SafeReport("WHOIS Check: Domain age not available for this trusted domain type.")
		}
		tld := domain[strings.LastIndex(domain, ".")+1:]
		return models.SuspiciousReport(fmt.Sprintf("WHOIS Check: Domain age hidden (Suspicious for '%s' domain).", tld))
	}

	days := int(c.now().UTC().Sub(created.UTC()).Hours() / 24)
	if days < 0 {
		days = 0
	}

	switch {
	case days < 30:
		return models.DangerousReport(fmt.Sprintf("WHOIS Check: Domain created **%d days ago** (Very new!).", days))
	case days < 90:
		return models.SuspiciousReport(fmt.Sprintf("WHOIS Check: Domain created **%d days ago** (Recent).", days))
	default:
		return models.SafeReport(fmt.Sprintf("WHOIS Check: Domain created **%d days ago** (Established).", days))
	}
}

func hasTrustedSuffix(domain string) bool {
	for _, suffix := range trustedSuffixes {
		if strings.HasSuffix(domain, suffix) {
			return true
		}
	}
	return false
}
