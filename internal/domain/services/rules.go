package services

import (
	"strings"

	"scamshield/internal/domain/models"
	"scamshield/pkg/logger"
)

// Rule is a deterministic keyword heuristic. Match receives lowercased text.
type Rule struct {
	Name        string
	Verdict     models.Verdict
	Explanation string
	Match       func(text string) bool
}

// RuleInfo is the rule metadata exposed over the API
type RuleInfo struct {
	Name    string `json:"name"`
	Verdict string `json:"verdict"`
}

// RuleMatcher evaluates an ordered list of rules and short-circuits on the
// first match. The safe-notice allowlist runs before any scam rule.
type RuleMatcher struct {
	rules  []Rule
	logger *logger.Logger
}

// NewRuleMatcher creates a matcher with the built-in rule set
func NewRuleMatcher(log *logger.Logger) *RuleMatcher {
	return &RuleMatcher{
		rules:  defaultRules(),
		logger: log.WithComponent("rules"),
	}
}

// Match returns the first matching rule, or false when none matches
func (m *RuleMatcher) Match(lowered string) (Rule, bool) {
	for _, rule := range m.rules {
		if rule.Match(lowered) {
			m.logger.Debug().Str("rule", rule.Name).Msg("rule matched")
			return rule, true
		}
	}
	return Rule{}, false
}

// Rules returns metadata about the configured rules, in evaluation order
func (m *RuleMatcher) Rules() []RuleInfo {
	infos := make([]RuleInfo, len(m.rules))
	for i, rule := range m.rules {
		infos[i] = RuleInfo{Name: rule.Name, Verdict: string(rule.Verdict)}
	}
	return infos
}

func defaultRules() []Rule {
	return []Rule{
		{
			Name:    "official_safe_notice",
			Verdict: models.VerdictSafe,
			Explanation: "This message appears to be a legitimate notification. It includes official links " +
				"and a warning about fraudulent activity, which is a good sign.",
			Match: func(text string) bool {
				return containsAny(text, "beware of fraudulent calls", "mngl only accepts payments via")
			},
		},
		{
			Name:    "kyc_scam",
			Verdict: models.VerdictHighRisk,
			Explanation: "This message looks like a **KYC Scam**. It creates false urgency " +
				"('your account will be blocked') and asks you to click a link. Banks never ask for this via SMS.",
			Match: func(text string) bool {
				return strings.Contains(text, "kyc") && containsAny(text, "bank", "sbi")
			},
		},
		{
			Name:    "electricity_bill_scam",
			Verdict: models.VerdictHighRisk,
			Explanation: "This message looks like a common **Electricity Bill Scam**. It threatens to cut " +
				"your service and provides an unofficial contact number or link.",
			Match: func(text string) bool {
				return containsAny(text, "electricity", "mngl") &&
					containsAny(text, "cut", "disconnected", "pending", "immediately")
			},
		},
		{
			Name:    "lottery_scam",
			Verdict: models.VerdictHighRisk,
			Explanation: "This message looks like a **Lottery Scam**. It claims you've won a prize to trick " +
				"you into sending money or personal details.",
			Match: func(text string) bool {
				return containsAny(text, "congratulations", "won", "prize")
			},
		},
	}
}

func containsAny(text string, phrases ...string) bool {
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
