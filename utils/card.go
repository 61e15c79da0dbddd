package utils

import "regexp"

// card number shapes; the first two yield the last four digits, the rest two.
var (
	last4Of16 = regexp.MustCompile(`\b\d{4}\s\d{4}\s\d{4}\s(\d{4})\b`)
	masked4   = regexp.MustCompile(`(?i)(?:\*|X){2,}\s?(\d{4})`)
	masked2   = regexp.MustCompile(`(?i)(?:\*|X){2,}\s?(\d{2})\b|\bXX(\d{2})\b|\*\*(\d{2})\b`)
)

// CardShapePattern finds raw card-number shapes when no card label is present.
var CardShapePattern = regexp.MustCompile(`(?i)\d{4}\s\d{4}\s\d{4}\s\d{4}|(?:\*|X){2,}\s?\d{2,4}`)

// LastTail returns the visible tail of a card number and its length (4 or 2).
// It returns ("", 0) when the text holds no card-shaped number.
func LastTail(text string) (string, int) {
	if m := last4Of16.FindStringSubmatch(text); m != nil {
		return m[1], 4
	}
	if m := masked4.FindStringSubmatch(text); m != nil {
		return m[1], 4
	}
	if m := masked2.FindStringSubmatch(text); m != nil {
		for _, g := range m[1:] {
			if g != "" {
				return g, 2
			}
		}
	}
	return "", 0
}

// CardMask formats a tail for display: "XXXX 1234" or "XXXX XX12".
func CardMask(tail string, length int) string {
	if length == 4 {
		return "XXXX " + tail
	}
	return "XXXX XX" + tail
}
