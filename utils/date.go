package utils

import (
	"regexp"
	"strings"
	"time"
)

const monthName = `(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)[a-z]*`

// DatePattern finds any supported date-shaped token in free text.
var DatePattern = regexp.MustCompile(`(?i)\b(?:` +
	`\d{4}-\d{2}-\d{2}` +
	`|\d{1,2}[/-]\d{1,2}[/-]\d{2,4}` +
	`|\d{1,2}\s+` + monthName + `,?\s+\d{2,4}` +
	`|` + monthName + `\s+\d{1,2},?\s+\d{4}` +
	`)\b`)

type dateShape struct {
	pattern *regexp.Regexp
	layouts []string
}

// date shapes in the order they are tried; the first layout that parses wins.
var dateLadder = []dateShape{
	{
		pattern: regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`),
		layouts: []string{"2/1/2006", "2-1-2006", "2/1/06", "2-1-06"},
	},
	{
		pattern: regexp.MustCompile(`(?i)\b\d{1,2}\s+[A-Za-z]{3,},?\s+\d{2,4}\b`),
		layouts: []string{"2 January 2006", "2 Jan 2006", "2 January 06", "2 Jan 06"},
	},
	{
		pattern: regexp.MustCompile(`(?i)\b[A-Za-z]{3,}\s+\d{1,2},?\s*\d{4}\b`),
		layouts: []string{"January 2 2006", "Jan 2 2006"},
	},
	{
		pattern: regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
		layouts: []string{"2006-01-02"},
	},
}

var (
	spaceRun = regexp.MustCompile(`\s+`)
	sept     = regexp.MustCompile(`(?i)\bsept\b`)
)

// ParseDate normalizes a statement date to YYYY-MM-DD. Numeric dates are day-first.
func ParseDate(s string) (string, bool) {
	if strings.TrimSpace(s) == "" {
		return "", false
	}

	for _, shape := range dateLadder {
		token := shape.pattern.FindString(s)
		if token == "" {
			continue
		}
		token = strings.ReplaceAll(token, ",", " ")
		token = strings.TrimSpace(spaceRun.ReplaceAllString(token, " "))
		token = sept.ReplaceAllString(token, "Sep")

		for _, layout := range shape.layouts {
			if t, err := time.Parse(layout, token); err == nil {
				return t.Format("2006-01-02"), true
			}
		}
	}
	return "", false
}
