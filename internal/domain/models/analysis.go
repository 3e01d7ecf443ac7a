package models

import "github.com/google/uuid"

// Verdict is the final classification surfaced to the caller
type Verdict string

const (
	VerdictSafe       Verdict = "safe"
	VerdictSuspicious Verdict = "suspicious"
	VerdictHighRisk   Verdict = "high_risk"
)

// Display labels shown to end users. The malicious-link label is used only
// when URL analysis overrides an otherwise safe text verdict.
const (
	labelSafe          = "✅ Looks Safe"
	labelSuspicious    = "⚠️ Be Cautious (Suspicious)"
	labelHighRisk      = "🚨 High Risk (Likely a Scam)"
	labelMaliciousLink = "🚨 High Risk (Malicious Link)"
)

// Label returns the fixed display label for the verdict
func (v Verdict) Label() string {
	switch v {
	case VerdictHighRisk:
		return labelHighRisk
	case VerdictSuspicious:
		return labelSuspicious
	default:
		return labelSafe
	}
}

// Severity is the tri-state signal carried by every reputation report
type Severity string

const (
	SeveritySafe       Severity = "safe"
	SeveritySuspicious Severity = "suspicious"
	SeverityDangerous  Severity = "dangerous"
)

// Report is a single reputation signal: a severity plus human-readable text.
// The marker symbol is rendered only at the serialization boundary.
type Report struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Render returns the display string with the severity marker prepended
func (r Report) Render() string {
	switch r.Severity {
	case SeverityDangerous:
		return "🚨 " + r.Message
	case SeveritySuspicious:
		return "⚠️ " + r.Message
	default:
		return "✅ " + r.Message
	}
}

// SafeReport builds a safe-severity report
func SafeReport(message string) Report {
	return Report{Severity: SeveritySafe, Message: message}
}

// SuspiciousReport builds a suspicious-severity report
func SuspiciousReport(message string) Report {
	return Report{Severity: SeveritySuspicious, Message: message}
}

// DangerousReport builds a dangerous-severity report
func DangerousReport(message string) Report {
	return Report{Severity: SeverityDangerous, Message: message}
}

// AnalysisRequest is a single free-text message to classify
type AnalysisRequest struct {
	Text string `json:"text"`
}

// URLAnalysis holds the three reputation reports for one resolved URL
type URLAnalysis struct {
	OriginalURL  string
	Unfurl       Report
	SafeBrowsing Report
	Whois        Report
}

// DangerSignal reports whether this URL contributes to the aggregated danger
// flag. A dangerous marker from any checker counts; of the suspicious
// outcomes only the WHOIS one does.
func (u URLAnalysis) DangerSignal() bool {
	if u.Unfurl.Severity == SeverityDangerous ||
		u.SafeBrowsing.Severity == SeverityDangerous ||
		u.Whois.Severity == SeverityDangerous {
		return true
	}
	return u.Whois.Severity == SeveritySuspicious
}

// AnalysisResult is the structured outcome of analyzing one message.
// Confidence always carries the raw classifier probability, even when a rule
// or the link override decided the verdict.
type AnalysisResult struct {
	ID           uuid.UUID
	Verdict      Verdict
	LinkOverride bool
	Explanation  string
	Confidence   float64
	URLs         map[string]URLAnalysis
	Phones       map[string]Report
}

// URLAnalysisResponse is the wire shape of one URL's reports
type URLAnalysisResponse struct {
	OriginalURL  string `json:"original_url"`
	UnfurlReport string `json:"unfurl_report"`
	SafeBrowsing string `json:"safe_browsing"`
	Whois        string `json:"whois"`
}

// AnalysisResponse is the wire shape returned by POST /analyze
type AnalysisResponse struct {
	Verdict       string                         `json:"verdict"`
	Explanation   string                         `json:"explanation"`
	Confidence    float64                        `json:"confidence"`
	URLAnalysis   map[string]URLAnalysisResponse `json:"url_analysis"`
	PhoneAnalysis map[string]string              `json:"phone_analysis"`
}

// Response renders the structured result into the wire shape, applying
// severity markers and display labels.
func (r *AnalysisResult) Response() AnalysisResponse {
	resp := AnalysisResponse{
		Verdict:       r.Verdict.Label(),
		Explanation:   r.Explanation,
		Confidence:    r.Confidence,
		URLAnalysis:   make(map[string]URLAnalysisResponse, len(r.URLs)),
		PhoneAnalysis: make(map[string]string, len(r.Phones)),
	}
	if r.LinkOverride {
		resp.Verdict = labelMaliciousLink
	}
	for resolved, ua := range r.URLs {
		resp.URLAnalysis[resolved] = URLAnalysisResponse{
			OriginalURL:  ua.OriginalURL,
			UnfurlReport: ua.Unfurl.Render(),
			SafeBrowsing: ua.SafeBrowsing.Render(),
			Whois:        ua.Whois.Render(),
		}
	}
	for phone, report := range r.Phones {
		resp.PhoneAnalysis[phone] = report.Render()
	}
	return resp
}
