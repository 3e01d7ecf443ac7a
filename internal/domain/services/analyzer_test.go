package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"scamshield/internal/domain/models"
	"scamshield/pkg/logger"
)

type stubScorer struct {
	probability float64
}

func (s stubScorer) Score(string) float64 { return s.probability }

type stubResolver struct {
	mu       sync.Mutex
	resolved map[string]string
	report   models.Report
	calls    int
}

func (s *stubResolver) Resolve(_ context.Context, url string) (string, models.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if final, ok := s.resolved[url]; ok {
		return final, s.report
	}
	return url, s.report
}

type stubChecker struct {
	report models.Report
}

func (s stubChecker) Check(context.Context, string) models.Report { return s.report }

func newTestAnalyzer(t *testing.T, probability float64, resolver *stubResolver, safeBrowsing, domainAge, phone models.Report) *Analyzer {
	t.Helper()
	log := logger.NewDefault()
	return NewAnalyzer(
		NewRuleMatcher(log),
		stubScorer{probability: probability},
		NewExtractor(),
		resolver,
		stubChecker{report: safeBrowsing},
		stubChecker{report: domainAge},
		stubChecker{report: phone},
		log,
	)
}

func allSafeReports() (models.Report, models.Report, models.Report) {
	return models.SafeReport("Google Check: No known threats found."),
		models.SafeReport("WHOIS Check: Domain created 400 days ago (Established)."),
		models.SafeReport("Google Search: No immediate scam reports found.")
}

func TestAnalyzeClassifierThresholds(t *testing.T) {
	tests := []struct {
		name        string
		probability float64
		wantVerdict models.Verdict
	}{
		{name: "high probability", probability: 0.85, wantVerdict: models.VerdictHighRisk},
		{name: "middling probability", probability: 0.5, wantVerdict: models.VerdictSuspicious},
		{name: "low probability", probability: 0.1, wantVerdict: models.VerdictSafe},
		{name: "boundary 0.8 is not high risk", probability: 0.8, wantVerdict: models.VerdictSuspicious},
		{name: "boundary 0.4 is safe", probability: 0.4, wantVerdict: models.VerdictSafe},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sb, who, ph := allSafeReports()
			analyzer := newTestAnalyzer(t, tt.probability, &stubResolver{}, sb, who, ph)

			result := analyzer.Analyze(context.Background(), "please review the attached document")
			if result.Verdict != tt.wantVerdict {
				t.Errorf("verdict = %q, want %q", result.Verdict, tt.wantVerdict)
			}
			if result.Confidence != tt.probability {
				t.Errorf("confidence = %v, want %v", result.Confidence, tt.probability)
			}
		})
	}
}

func TestAnalyzeRuleOverridesClassifier(t *testing.T) {
	sb, who, ph := allSafeReports()
	// Low probability, but the KYC rule must still decide the verdict
	analyzer := newTestAnalyzer(t, 0.1, &stubResolver{}, sb, who, ph)

	result := analyzer.Analyze(context.Background(), "Your SBI account KYC is pending, update now")
	if result.Verdict != models.VerdictHighRisk {
		t.Errorf("verdict = %q, want %q", result.Verdict, models.VerdictHighRisk)
	}
	if !strings.Contains(result.Explanation, "KYC Scam") {
		t.Errorf("explanation should name the KYC scam, got %q", result.Explanation)
	}
	if result.Confidence != 0.1 {
		t.Errorf("confidence must stay at the classifier probability, got %v", result.Confidence)
	}
}

func TestAnalyzeSafeNoticeBeatsHighScore(t *testing.T) {
	sb, who, ph := allSafeReports()
	analyzer := newTestAnalyzer(t, 0.99, &stubResolver{}, sb, who, ph)

	result := analyzer.Analyze(context.Background(), "Bill due. Beware of fraudulent calls asking for OTP.")
	if result.Verdict != models.VerdictSafe {
		t.Errorf("verdict = %q, want %q", result.Verdict, models.VerdictSafe)
	}
	if result.Confidence != 0.99 {
		t.Errorf("confidence = %v, want 0.99", result.Confidence)
	}
}

func TestAnalyzeTrustedDomainOverride(t *testing.T) {
	sb, who, ph := allSafeReports()
	analyzer := newTestAnalyzer(t, 0.5, &stubResolver{}, sb, who, ph)

	result := analyzer.Analyze(context.Background(), "Pay your gas bill at mngl.in before Friday")
	if result.Verdict != models.VerdictSafe {
		t.Errorf("verdict = %q, want %q (trusted domain override)", result.Verdict, models.VerdictSafe)
	}

	// Above the override threshold the suspicious verdict stands
	analyzer = newTestAnalyzer(t, 0.7, &stubResolver{}, sb, who, ph)
	result = analyzer.Analyze(context.Background(), "Pay your gas bill at mngl.in before Friday")
	if result.Verdict != models.VerdictSuspicious {
		t.Errorf("verdict = %q, want %q (override must not fire at 0.7)", result.Verdict, models.VerdictSuspicious)
	}
}

func TestAnalyzeLinkOverride(t *testing.T) {
	tests := []struct {
		name         string
		whois        models.Report
		safeBrowsing models.Report
		probability  float64
		wantVerdict  models.Verdict
		wantOverride bool
	}{
		{
			name:         "suspicious whois forces high risk",
			whois:        models.SuspiciousReport("WHOIS Check: Domain age hidden (Suspicious for 'xyz' domain)."),
			safeBrowsing: models.SafeReport("Google Check: No known threats found."),
			probability:  0.1,
			wantVerdict:  models.VerdictHighRisk,
			wantOverride: true,
		},
		{
			name:         "dangerous safe browsing forces high risk",
			whois:        models.SafeReport("WHOIS Check: Domain created 400 days ago (Established)."),
			safeBrowsing: models.DangerousReport("Google Check: Flagged for SOCIAL_ENGINEERING."),
			probability:  0.1,
			wantVerdict:  models.VerdictHighRisk,
			wantOverride: true,
		},
		{
			name:         "suspicious safe browsing alone does not override",
			whois:        models.SafeReport("WHOIS Check: Domain created 400 days ago (Established)."),
			safeBrowsing: models.SuspiciousReport("Google Check: Failed (Error 403). Check API key."),
			probability:  0.1,
			wantVerdict:  models.VerdictSafe,
			wantOverride: false,
		},
		{
			name:         "override never fires on suspicious verdict",
			whois:        models.SuspiciousReport("WHOIS Check: Domain age hidden (Suspicious for 'xyz' domain)."),
			safeBrowsing: models.SafeReport("Google Check: No known threats found."),
			probability:  0.5,
			wantVerdict:  models.VerdictSuspicious,
			wantOverride: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ph := models.SafeReport("Google Search: No immediate scam reports found.")
			analyzer := newTestAnalyzer(t, tt.probability, &stubResolver{}, tt.safeBrowsing, tt.whois, ph)

			result := analyzer.Analyze(context.Background(), "check this out http://example-link.xyz/offer")
			if result.Verdict != tt.wantVerdict {
				t.Errorf("verdict = %q, want %q", result.Verdict, tt.wantVerdict)
			}
			if result.LinkOverride != tt.wantOverride {
				t.Errorf("link override = %v, want %v", result.LinkOverride, tt.wantOverride)
			}
			if result.Confidence != tt.probability {
				t.Errorf("confidence = %v, want %v", result.Confidence, tt.probability)
			}
		})
	}
}

func TestAnalyzeDeduplicatesURLs(t *testing.T) {
	sb, who, ph := allSafeReports()
	resolver := &stubResolver{}
	analyzer := newTestAnalyzer(t, 0.1, resolver, sb, who, ph)

	result := analyzer.Analyze(context.Background(),
		"http://bit.ly/x then http://bit.ly/x and once more http://bit.ly/x")
	if len(result.URLs) != 1 {
		t.Fatalf("url_analysis entries = %d, want 1", len(result.URLs))
	}
	if resolver.calls != 1 {
		t.Errorf("resolver called %d times, want 1", resolver.calls)
	}
}

func TestAnalyzeKeysResultsByResolvedURL(t *testing.T) {
	sb, who, ph := allSafeReports()
	resolver := &stubResolver{
		resolved: map[string]string{"http://bit.ly/x": "https://final.example/landing"},
		report:   models.SafeReport("Link Redirect: Original URL redirects to: `https://final.example/landing`"),
	}
	analyzer := newTestAnalyzer(t, 0.1, resolver, sb, who, ph)

	result := analyzer.Analyze(context.Background(), "Your SBI account KYC is pending, click here http://bit.ly/x to update")
	if result.Verdict != models.VerdictHighRisk {
		t.Errorf("verdict = %q, want %q", result.Verdict, models.VerdictHighRisk)
	}

	ua, ok := result.URLs["https://final.example/landing"]
	if !ok {
		t.Fatalf("url_analysis keyed by %v, want the resolved URL", mapKeys(result.URLs))
	}
	if ua.OriginalURL != "http://bit.ly/x" {
		t.Errorf("original_url = %q, want the raw extracted URL", ua.OriginalURL)
	}
}

func TestAnalyzeEmptyMessage(t *testing.T) {
	sb, who, ph := allSafeReports()
	analyzer := newTestAnalyzer(t, 0.2, &stubResolver{}, sb, who, ph)

	result := analyzer.Analyze(context.Background(), "dinner at eight?")
	if result.Verdict != models.VerdictSafe {
		t.Errorf("verdict = %q, want %q", result.Verdict, models.VerdictSafe)
	}
	if len(result.URLs) != 0 {
		t.Errorf("url_analysis should be empty, got %v", result.URLs)
	}
	if len(result.Phones) != 0 {
		t.Errorf("phone_analysis should be empty, got %v", result.Phones)
	}
}

func TestAnalyzePhoneLookups(t *testing.T) {
	sb, who, _ := allSafeReports()
	phoneReport := models.SuspiciousReport("Google Search: Found potential scam reports. Top result: 'reported as fraud...'")
	analyzer := newTestAnalyzer(t, 0.1, &stubResolver{}, sb, who, phoneReport)

	result := analyzer.Analyze(context.Background(), "call 9876543210 or 9876543210 to claim")
	if len(result.Phones) != 1 {
		t.Fatalf("phone_analysis entries = %d, want 1", len(result.Phones))
	}
	report, ok := result.Phones["9876543210"]
	if !ok {
		t.Fatalf("missing phone entry, got %v", result.Phones)
	}
	if report.Severity != models.SeveritySuspicious {
		t.Errorf("phone report severity = %q, want %q", report.Severity, models.SeveritySuspicious)
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	sb, who, ph := allSafeReports()
	analyzer := newTestAnalyzer(t, 0.3, &stubResolver{}, sb, who, ph)

	text := "check https://example.com/page or call 9876543210"
	first := analyzer.Analyze(context.Background(), text)
	second := analyzer.Analyze(context.Background(), text)

	if first.Verdict != second.Verdict {
		t.Errorf("verdicts differ: %q vs %q", first.Verdict, second.Verdict)
	}
	if first.Explanation != second.Explanation {
		t.Errorf("explanations differ")
	}
	if first.Confidence != second.Confidence {
		t.Errorf("confidences differ: %v vs %v", first.Confidence, second.Confidence)
	}
}

func mapKeys(m map[string]models.URLAnalysis) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
