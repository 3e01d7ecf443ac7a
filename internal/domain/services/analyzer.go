package services

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"scamshield/internal/domain/models"
	"scamshield/pkg/logger"
)

// Classifier thresholds for the no-rule-matched branch
const (
	highRiskThreshold   = 0.8
	suspiciousThreshold = 0.4

	// Below this probability a message carrying the trusted domain marker is
	// forced Safe
	trustedOverrideThreshold = 0.6
	trustedDomainMarker      = "mngl.in"
)

// Fixed explanations for the classifier-driven branch
const (
	explanationHighRisk   = "This message shows strong signs of a scam based on its wording and structure."
	explanationSuspicious = "This message has some suspicious elements based on its wording. Please double-check the sender."
	explanationSafe       = "Our analysis did not find common scam triggers in the text."
	explanationTrusted    = "This message contains official links (mngl.in) and does not have strong text-based scam triggers. It appears to be legitimate."

	explanationLinkOverride = "The message text seemed safe, but our **link analysis** found major red flags " +
		"(e.g., the link is broken, brand new, hiding its destination, or its age is hidden). This is highly suspicious."
)

// Scorer produces a scam probability for raw text
type Scorer interface {
	Score(text string) float64
}

// URLResolver follows redirects to a URL's final destination
type URLResolver interface {
	Resolve(ctx context.Context, url string) (string, models.Report)
}

// URLChecker looks up a resolved URL against a threat list
type URLChecker interface {
	Check(ctx context.Context, url string) models.Report
}

// DomainChecker reports the registration-age risk of a URL's domain
type DomainChecker interface {
	Check(ctx context.Context, url string) models.Report
}

// PhoneChecker looks up scam reports for a phone number
type PhoneChecker interface {
	Check(ctx context.Context, phone string) models.Report
}

// Analyzer orchestrates the full message analysis: rules, classifier,
// extraction, the per-URL and per-phone reputation fan-out, and the final
// verdict fusion.
type Analyzer struct {
	rules        *RuleMatcher
	classifier   Scorer
	extractor    *Extractor
	resolver     URLResolver
	safeBrowsing URLChecker
	domainAge    DomainChecker
	phones       PhoneChecker
	logger       *logger.Logger
}

// NewAnalyzer creates a new Analyzer
func NewAnalyzer(rules *RuleMatcher, classifier Scorer, extractor *Extractor,
	resolver URLResolver, safeBrowsing URLChecker, domainAge DomainChecker,
	phones PhoneChecker, log *logger.Logger) *Analyzer {
	return &Analyzer{
		rules:        rules,
		classifier:   classifier,
		extractor:    extractor,
		resolver:     resolver,
		safeBrowsing: safeBrowsing,
		domainAge:    domainAge,
		phones:       phones,
		logger:       log.WithComponent("analyzer"),
	}
}

// RuleInfos returns metadata about the configured rules
func (a *Analyzer) RuleInfos() []RuleInfo {
	return a.rules.Rules()
}

// Analyze classifies one message. It never fails: every external-call error
// is degraded into a report inside the result.
func (a *Analyzer) Analyze(ctx context.Context, text string) *models.AnalysisResult {
	lowered := strings.ToLower(text)

	// The classifier always runs; its probability is surfaced as confidence
	// even when a rule decides the verdict.
	probability := a.classifier.Score(text)

	verdict, explanation := a.textVerdict(lowered, probability)

	result := &models.AnalysisResult{
		ID:          uuid.New(),
		Verdict:     verdict,
		Explanation: explanation,
		Confidence:  probability,
		URLs:        make(map[string]models.URLAnalysis),
		Phones:      make(map[string]models.Report),
	}

	a.checkReputation(ctx, text, result)

	// Safe verdicts are overridden when any URL carries a danger signal;
	// Suspicious and HighRisk verdicts stand.
	if result.Verdict == models.VerdictSafe {
		for _, ua := range result.URLs {
			if ua.DangerSignal() {
				result.Verdict = models.VerdictHighRisk
				result.LinkOverride = true
				result.Explanation = explanationLinkOverride
				break
			}
		}
	}

	a.logger.Debug().
		Str("analysis_id", result.ID.String()).
		Str("verdict", string(result.Verdict)).
		Float64("confidence", result.Confidence).
		Int("urls", len(result.URLs)).
		Int("phones", len(result.Phones)).
		Msg("analysis complete")

	return result
}

// textVerdict computes the pre-URL-analysis verdict from rules and the
// classifier probability
func (a *Analyzer) textVerdict(lowered string, probability float64) (models.Verdict, string) {
	if rule, ok := a.rules.Match(lowered); ok {
		return rule.Verdict, rule.Explanation
	}

	var verdict models.Verdict
	var explanation string
	switch {
	case probability > highRiskThreshold:
		verdict, explanation = models.VerdictHighRisk, explanationHighRisk
	case probability > suspiciousThreshold:
		verdict, explanation = models.VerdictSuspicious, explanationSuspicious
	default:
		verdict, explanation = models.VerdictSafe, explanationSafe
	}

	if strings.Contains(lowered, trustedDomainMarker) && probability < trustedOverrideThreshold {
		verdict, explanation = models.VerdictSafe, explanationTrusted
	}

	return verdict, explanation
}

// checkReputation runs the per-URL and per-phone lookups concurrently and
// joins before returning. URL results are keyed by the resolved URL.
func (a *Analyzer) checkReputation(ctx context.Context, text string, result *models.AnalysisResult) {
	urls := a.extractor.URLs(text)
	phones := a.extractor.Phones(text)

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, original := range urls {
		wg.Add(1)
		go func(original string) {
			defer wg.Done()

			// Resolution first: all downstream checks run against the final URL
			resolved, unfurlReport := a.resolver.Resolve(ctx, original)

			var sbReport, whoisReport models.Report
			var inner sync.WaitGroup
			inner.Add(2)
			go func() {
				defer inner.Done()
				sbReport = a.safeBrowsing.Check(ctx, resolved)
			}()
			go func() {
				defer inner.Done()
				whoisReport = a.domainAge.Check(ctx, resolved)
			}()
			inner.Wait()

			mu.Lock()
			result.URLs[resolved] = models.URLAnalysis{
				OriginalURL:  original,
				Unfurl:       unfurlReport,
				SafeBrowsing: sbReport,
				Whois:        whoisReport,
			}
			mu.Unlock()
		}(original)
	}

	for _, phone := range phones {
		wg.Add(1)
		go func(phone string) {
			defer wg.Done()
			report := a.phones.Check(ctx, phone)
			mu.Lock()
			result.Phones[phone] = report
			mu.Unlock()
		}(phone)
	}

	wg.Wait()
}
