package statement

import (
	"regexp"
	"sort"
	"strings"

	"github.com/Aashish23092/statement-parser/dto"
	"github.com/Aashish23092/statement-parser/utils"
)

// Layout search geometry, in the page's word-box units.
const (
	labelDriftY   = 150.0
	regionPadX    = 100.0
	regionBelowY  = 200.0
	regionOverlap = 5.0

	// second pass for "payment due" labels
	looseDriftY  = 200.0
	looseBelowY  = 250.0
	minTokenRune = 3
)

var nonWord = regexp.MustCompile(`\W+`)

type bbox struct {
	x0, y0, x1, y1 float64
}

// labelTokens splits a label into lowercase words of at least three characters.
func labelTokens(label string) []string {
	var toks []string
	for _, t := range nonWord.Split(strings.ToLower(label), -1) {
		if runeLen(t) >= minTokenRune {
			toks = append(toks, t)
		}
	}
	return toks
}

// labelBBox finds the label's words in reading order and returns the box spanning
// them. Words that drift more than maxDY vertically from the first token end the
// attempt for that anchor.
func labelBBox(words []dto.WordBox, tokens []string, maxDY float64) (bbox, bool) {
	if len(words) == 0 || len(tokens) == 0 {
		return bbox{}, false
	}

	type word struct {
		box  bbox
		text string
	}
	norm := make([]word, 0, len(words))
	for _, w := range words {
		txt := strings.ToLower(strings.TrimSpace(w.Text))
		if txt == "" {
			continue
		}
		norm = append(norm, word{box: bbox{w.X0, w.Y0, w.X1, w.Y1}, text: txt})
	}

	for i, anchor := range norm {
		if !strings.Contains(anchor.text, tokens[0]) {
			continue
		}
		found := []bbox{anchor.box}
		next := 1
		for j := i + 1; j < len(norm) && next < len(tokens); j++ {
			if abs(norm[j].box.y0-anchor.box.y0) > maxDY {
				break
			}
			if strings.Contains(norm[j].text, tokens[next]) {
				found = append(found, norm[j].box)
				next++
			}
		}
		if next == len(tokens) {
			return span(found), true
		}
	}
	return bbox{}, false
}

func span(boxes []bbox) bbox {
	out := boxes[0]
	for _, b := range boxes[1:] {
		out.x0 = min(out.x0, b.x0)
		out.y0 = min(out.y0, b.y0)
		out.x1 = max(out.x1, b.x1)
		out.y1 = max(out.y1, b.y1)
	}
	return out
}

// dateNearBox joins the words overlapping the region below the label, in reading
// order, and returns the first date-shaped run in them.
func dateNearBox(words []dto.WordBox, label bbox, below, padX float64) (string, bool) {
	minX, maxX := label.x0-padX, label.x1+padX
	minY, maxY := label.y1-regionOverlap, label.y1+below

	var region []dto.WordBox
	for _, w := range words {
		if w.X1 >= minX && w.X0 <= maxX && w.Y1 >= minY && w.Y0 <= maxY {
			region = append(region, w)
		}
	}
	if len(region) == 0 {
		return "", false
	}

	sort.SliceStable(region, func(i, j int) bool {
		if region[i].Y0 != region[j].Y0 {
			return region[i].Y0 < region[j].Y0
		}
		if region[i].X0 != region[j].X0 {
			return region[i].X0 < region[j].X0
		}
		return region[i].Text < region[j].Text
	})

	parts := make([]string, len(region))
	for i, w := range region {
		parts[i] = w.Text
	}
	m := utils.DatePattern.FindString(strings.Join(parts, " "))
	return m, m != ""
}

// findDateByLayout resolves a due date from word positions when the text order
// separates the label from its value.
func findDateByLayout(words []dto.WordBox, labels []string) (string, bool) {
	if len(words) == 0 {
		return "", false
	}

	for _, label := range labels {
		box, ok := labelBBox(words, labelTokens(label), labelDriftY)
		if !ok {
			continue
		}
		if raw, ok := dateNearBox(words, box, regionBelowY, regionPadX); ok {
			if iso, ok := utils.ParseDate(raw); ok {
				return iso, true
			}
		}
	}

	for _, label := range labels {
		low := strings.ToLower(label)
		if !strings.Contains(low, "payment") || !strings.Contains(low, "due") {
			continue
		}
		box, ok := labelBBox(words, []string{"payment", "due"}, looseDriftY)
		if !ok {
			continue
		}
		if raw, ok := dateNearBox(words, box, looseBelowY, regionPadX); ok {
			if iso, ok := utils.ParseDate(raw); ok {
				return iso, true
			}
		}
	}

	return "", false
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
