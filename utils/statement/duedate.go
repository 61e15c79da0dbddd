package statement

import (
	"regexp"
	"sort"

	"github.com/Aashish23092/statement-parser/dto"
	"github.com/Aashish23092/statement-parser/utils"
)

var noPaymentDue = regexp.MustCompile(`(?i)\bNO PAYMENT (?:REQUIRED|DUE)\b`)

// pageContext is one page prepared for searching.
type pageContext struct {
	page dto.Page
	text *pageText
}

func newPageContext(p dto.Page) *pageContext {
	return &pageContext{page: p, text: newPageText(p.Text)}
}

type dateMatch struct {
	value    string
	evidence dto.Evidence
}

// dateStrategy is one way of finding a due date on a page.
type dateStrategy func(e *Extractor, pc *pageContext, labels []string) (dateMatch, bool)

// issuerDateCascade is tried in order for issuers whose layout keeps the due date
// far from its label. The first strategy that succeeds wins.
var issuerDateCascade = []dateStrategy{
	(*Extractor).dateByLayout,
	(*Extractor).dateNearestLabel,
	(*Extractor).dateExtendedWindow,
	(*Extractor).firstDateOnPage,
}

// resolveDueDate finds the due date on one page, returning the value and the
// confidence tier of the strategy that found it.
func (e *Extractor) resolveDueDate(pc *pageContext, labels []string, cascade bool) (dateMatch, float64, bool) {
	if noPaymentDue.MatchString(pc.page.Text) {
		return dateMatch{
			value: dto.NoPaymentRequired,
			evidence: dto.Evidence{
				Snippet:  dto.NoPaymentRequired,
				Page:     pc.page.PageNum,
				Strategy: StrategyNoPayment,
			},
		}, e.opts.Tiers.TextDate, true
	}

	if cascade {
		for _, strategy := range issuerDateCascade {
			if m, ok := strategy(e, pc, labels); ok {
				return m, e.opts.Tiers.LayoutDate, true
			}
		}
		return dateMatch{}, 0, false
	}

	// a date-shaped token that does not normalize still falls through to layout
	if raw, ev, ok := e.findAfterLabel(pc.text, labels, utils.DatePattern, pc.page.PageNum); ok {
		if iso, ok := utils.ParseDate(raw); ok {
			return dateMatch{value: iso, evidence: ev}, e.opts.Tiers.TextDate, true
		}
	}

	if m, ok := e.dateByLayout(pc, labels); ok {
		return m, e.opts.Tiers.LayoutDate, true
	}
	return dateMatch{}, 0, false
}

func (e *Extractor) dateByLayout(pc *pageContext, labels []string) (dateMatch, bool) {
	iso, ok := findDateByLayout(pc.page.Words, labels)
	if !ok {
		return dateMatch{}, false
	}
	return dateMatch{
		value: iso,
		evidence: dto.Evidence{
			Snippet:  "date found via word-layout proximity",
			Page:     pc.page.PageNum,
			Strategy: StrategyWordLayout,
		},
	}, true
}

// dateNearestLabel picks the date closest to the first label occurrence, preferring
// dates that follow the label within nearestDateMaxChars.
func (e *Extractor) dateNearestLabel(pc *pageContext, labels []string) (dateMatch, bool) {
	labelPos := -1
	for _, label := range labels {
		if idx := pc.text.index(label); idx >= 0 {
			labelPos = idx
			break
		}
	}
	if labelPos < 0 {
		return dateMatch{}, false
	}

	type candidate struct {
		distance, pos int
		iso           string
	}
	var all []candidate
	for _, loc := range utils.DatePattern.FindAllStringIndex(pc.text.s, -1) {
		iso, ok := utils.ParseDate(pc.text.s[loc[0]:loc[1]])
		if !ok {
			continue
		}
		pos := pc.text.runeOffset(loc[0])
		all = append(all, candidate{distance: absInt(pos - labelPos), pos: pos, iso: iso})
	}
	if len(all) == 0 {
		return dateMatch{}, false
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].distance < all[j].distance })

	best := all[0]
	for _, c := range all {
		if c.pos > labelPos && c.distance < nearestDateMaxChars {
			best = c
			break
		}
	}
	return dateMatch{
		value: best.iso,
		evidence: dto.Evidence{
			Snippet:  pc.text.slice(best.pos-50, best.pos+50),
			Page:     pc.page.PageNum,
			Strategy: StrategyNearestDate,
		},
	}, true
}

func (e *Extractor) dateExtendedWindow(pc *pageContext, labels []string) (dateMatch, bool) {
	for _, label := range labels {
		idx := pc.text.index(label)
		if idx < 0 {
			continue
		}
		win := pc.text.slice(idx, idx+extendedWindowChars)
		raw := utils.DatePattern.FindString(win)
		if raw == "" {
			continue
		}
		if iso, ok := utils.ParseDate(raw); ok {
			return dateMatch{
				value: iso,
				evidence: dto.Evidence{
					Snippet:  truncate(win, e.opts.SnippetChars),
					Page:     pc.page.PageNum,
					Strategy: StrategyExtendedWindow,
				},
			}, true
		}
	}
	return dateMatch{}, false
}

func (e *Extractor) firstDateOnPage(pc *pageContext, _ []string) (dateMatch, bool) {
	loc := utils.DatePattern.FindStringIndex(pc.text.s)
	if loc == nil {
		return dateMatch{}, false
	}
	iso, ok := utils.ParseDate(pc.text.s[loc[0]:loc[1]])
	if !ok {
		return dateMatch{}, false
	}
	pos := pc.text.runeOffset(loc[0])
	return dateMatch{
		value: iso,
		evidence: dto.Evidence{
			Snippet:  pc.text.slice(pos-50, pos+100),
			Page:     pc.page.PageNum,
			Strategy: StrategyFirstDate,
		},
	}, true
}
