package services

import (
	"strings"
	"testing"

	"scamshield/internal/domain/models"
	"scamshield/pkg/logger"
)

func TestRuleMatcher(t *testing.T) {
	matcher := NewRuleMatcher(logger.NewDefault())

	tests := []struct {
		name        string
		text        string
		wantMatch   bool
		wantRule    string
		wantVerdict models.Verdict
	}{
		{
			name:        "safe notice allowlist",
			text:        "your bill is due. beware of fraudulent calls asking for otp.",
			wantMatch:   true,
			wantRule:    "official_safe_notice",
			wantVerdict: models.VerdictSafe,
		},
		{
			name:        "allowlist wins over scam keywords",
			text:        "congratulations! you won! beware of fraudulent calls.",
			wantMatch:   true,
			wantRule:    "official_safe_notice",
			wantVerdict: models.VerdictSafe,
		},
		{
			name:        "kyc with bank",
			text:        "your bank account kyc is pending, click here to update",
			wantMatch:   true,
			wantRule:    "kyc_scam",
			wantVerdict: models.VerdictHighRisk,
		},
		{
			name:        "kyc with sbi",
			text:        "your sbi kyc will expire today",
			wantMatch:   true,
			wantRule:    "kyc_scam",
			wantVerdict: models.VerdictHighRisk,
		},
		{
			name:      "kyc alone does not match",
			text:      "please complete your kyc at the branch",
			wantMatch: false,
		},
		{
			name:        "electricity disconnection threat",
			text:        "your electricity will be disconnected tonight, call now",
			wantMatch:   true,
			wantRule:    "electricity_bill_scam",
			wantVerdict: models.VerdictHighRisk,
		},
		{
			name:        "lottery prize",
			text:        "you have won a prize of 10 lakh",
			wantMatch:   true,
			wantRule:    "lottery_scam",
			wantVerdict: models.VerdictHighRisk,
		},
		{
			name:      "plain message",
			text:      "see you at lunch tomorrow",
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, ok := matcher.Match(strings.ToLower(tt.text))
			if ok != tt.wantMatch {
				t.Fatalf("Match() ok = %v, want %v", ok, tt.wantMatch)
			}
			if !tt.wantMatch {
				return
			}
			if rule.Name != tt.wantRule {
				t.Errorf("matched rule = %q, want %q", rule.Name, tt.wantRule)
			}
			if rule.Verdict != tt.wantVerdict {
				t.Errorf("rule verdict = %q, want %q", rule.Verdict, tt.wantVerdict)
			}
			if rule.Explanation == "" {
				t.Error("matched rule has empty explanation")
			}
		})
	}
}

func TestRuleMatcherKYCExplanationNamesScam(t *testing.T) {
	matcher := NewRuleMatcher(logger.NewDefault())

	rule, ok := matcher.Match("your sbi account kyc is pending, click here to update")
	if !ok {
		t.Fatal("expected KYC rule to match")
	}
	if !strings.Contains(rule.Explanation, "KYC Scam") {
		t.Errorf("explanation should name the KYC scam, got %q", rule.Explanation)
	}
}

func TestRuleMatcherOrder(t *testing.T) {
	matcher := NewRuleMatcher(logger.NewDefault())

	infos := matcher.Rules()
	if len(infos) == 0 {
		t.Fatal("expected rules to be configured")
	}
	if infos[0].Name != "official_safe_notice" {
		t.Errorf("first rule = %q, want the safe-notice allowlist", infos[0].Name)
	}
}
