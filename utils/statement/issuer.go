package statement

import (
	"strings"

	"github.com/Aashish23092/statement-parser/dto"
)

// DetectIssuer scores every profile by how many of its keywords appear anywhere in
// the document. The highest score wins, ties go to the earlier profile, and a zero
// score means the issuer is unknown. Confidence is 1 or 0, never in between.
func DetectIssuer(pages []dto.Page) (dto.Issuer, float64) {
	texts := make([]string, 0, len(pages))
	for _, p := range pages {
		texts = append(texts, strings.ToLower(p.Text))
	}
	all := strings.Join(texts, "\n")

	best, bestScore := dto.IssuerUnknown, 0
	for _, profile := range IssuerProfiles {
		score := 0
		for _, kw := range profile.Keywords {
			if strings.Contains(all, kw) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = profile.Name, score
		}
	}

	if bestScore == 0 {
		return dto.IssuerUnknown, 0
	}
	return best, 1
}

func equalFoldTrim(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), b)
}
