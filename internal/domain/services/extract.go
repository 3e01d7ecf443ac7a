package services

import (
	"regexp"
	"strings"
)

var (
	urlPattern = regexp.MustCompile(`https?://[^\s<>"]+`)

	// Regional mobile numbers: optional country-code/trunk prefix, then ten
	// digits starting 6-9
	phonePattern = regexp.MustCompile(`\b(?:(?:\+91|91|0)?[-\s]?)?[6-9]\d{9}\b`)

	trailingPunctuation = ".,)!?];:"
)

// Extractor pulls URL-like and phone-number-like substrings out of raw text
type Extractor struct{}

// NewExtractor creates a new Extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// URLs returns the distinct URLs in text with trailing punctuation stripped.
// Order is not significant.
func (e *Extractor) URLs(text string) []string {
	seen := make(map[string]struct{})
	var urls []string
	for _, match := range urlPattern.FindAllString(text, -1) {
		cleaned := strings.TrimRight(match, trailingPunctuation)
		if cleaned == "" {
			continue
		}
		if _, ok := seen[cleaned]; ok {
			continue
		}
		seen[cleaned] = struct{}{}
		urls = append(urls, cleaned)
	}
	return urls
}

// Phones returns the distinct phone numbers in text. Order is not
// significant.
func (e *Extractor) Phones(text string) []string {
	seen := make(map[string]struct{})
	var phones []string
	for _, match := range phonePattern.FindAllString(text, -1) {
		// The optional separator in the pattern can swallow a leading space
		cleaned := strings.TrimSpace(match)
		if cleaned == "" {
			continue
		}
		if _, ok := seen[cleaned]; ok {
			continue
		}
		seen[cleaned] = struct{}{}
		phones = append(phones, cleaned)
	}
	return phones
}
