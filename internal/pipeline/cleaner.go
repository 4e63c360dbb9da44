// Package pipeline turns raw scraped postings into canonical jobs:
// cleaning, normalization, duplicate detection and reconciliation.
package pipeline

import (
	"fmt"
	"html"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"jobradar/internal/domain"
)

const (
	minTitleLen = 3
	maxTitleLen = 200
)

var (
	whitespaceRe  = regexp.MustCompile(`[\s\p{Zs}]+`)
	controlRe     = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)
	htmlTagRe     = regexp.MustCompile(`<[^>]+>`)
	titlePrefixRe = regexp.MustCompile(`(?i)^(job|position|role):\s*`)
	workModeRe    = regexp.MustCompile(`(?i)\s*-\s*(remote|hybrid|onsite)\s*$`)
	parentheticRe = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	sentenceRe    = regexp.MustCompile(`[.!?]+`)
)

// Sentinel values are scraper artifacts that mean "no data", not a real
// field value. Each field has its own list.
var (
	companySentinels = map[string]struct{}{
		"":                {},
		"n/a":             {},
		"na":              {},
		"unknown company": {},
	}
	locationSentinels = map[string]struct{}{
		"":                 {},
		"n/a":              {},
		"na":               {},
		"unknown location": {},
	}
	descriptionSentinels = map[string]struct{}{
		"":                          {},
		"n/a":                       {},
		"na":                        {},
		"no description available":  {},
		"description not available": {},
	}
)

// CleanedPosting is the output of cleaning, before normalization.
type CleanedPosting struct {
	Title       string
	Company     string
	Location    string
	Description string
}

// Cleaner scrubs scraper noise out of raw postings and gates out records
// too broken to reconcile.
type Cleaner struct {
	logger *slog.Logger
}

func NewCleaner(logger *slog.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean produces a cleaned posting or an error naming the validation rule
// the record failed. The error text ends up on the raw posting row, so it
// stays short and specific.
func (c *Cleaner) Clean(p *domain.RawPosting) (*CleanedPosting, error) {
	cleaned := &CleanedPosting{
		Title:       cleanTitle(p.RawTitle),
		Company:     cleanCompany(p.RawCompany),
		Location:    cleanLocation(p.RawLocation),
		Description: cleanDescription(p.RawDescription),
	}

	if n := utf8.RuneCountInString(cleaned.Title); n < minTitleLen || n > maxTitleLen {
		return nil, fmt.Errorf("title length %d outside [%d, %d]", n, minTitleLen, maxTitleLen)
	}
	if cleaned.Company == "" && cleaned.Location == "" {
		return nil, fmt.Errorf("neither company nor location present")
	}
	return cleaned, nil
}

// cleanText is the base pass shared by every field: entity decoding,
// control character removal and whitespace collapsing.
func cleanText(s string) string {
	s = html.UnescapeString(s)
	s = controlRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func cleanTitle(s string) string {
	s = cleanText(s)
	s = titlePrefixRe.ReplaceAllString(s, "")
	s = workModeRe.ReplaceAllString(s, "")
	s = parentheticRe.ReplaceAllString(s, "")
	return titleCase(strings.TrimSpace(s))
}

func cleanCompany(s string) string {
	s = cleanText(s)
	if _, bad := companySentinels[strings.ToLower(s)]; bad {
		return ""
	}
	return s
}

func cleanLocation(s string) string {
	s = cleanText(s)
	if _, bad := locationSentinels[strings.ToLower(s)]; bad {
		return ""
	}
	s = parentheticRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func cleanDescription(s string) string {
	if _, bad := descriptionSentinels[strings.ToLower(strings.TrimSpace(s))]; bad {
		return ""
	}
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = cleanText(s)
	if len(s) >= 100 {
		s = dedupeSentences(s)
	}
	return s
}

// dedupeSentences drops repeated sentences, keeping first occurrences in
// order. Listing sites frequently duplicate boilerplate paragraphs.
func dedupeSentences(s string) string {
	parts := sentenceRe.Split(s, -1)
	seen := make(map[string]struct{}, len(parts))
	var kept []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key := strings.ToLower(part)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, part)
	}
	return strings.Join(kept, ". ")
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}
