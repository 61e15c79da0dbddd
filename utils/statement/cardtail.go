package statement

import (
	"github.com/Aashish23092/statement-parser/dto"
	"github.com/Aashish23092/statement-parser/utils"
)

// findCardTail returns the card tail from the first page and first card label whose
// neighbourhood is free of ID-like context. Without a labelled hit it scans every
// page for raw card-number shapes.
func (e *Extractor) findCardTail(pages []*pageContext, labels []string) *dto.CardField {
	for _, pc := range pages {
		for _, label := range labels {
			idx := pc.text.index(label)
			if idx < 0 {
				continue
			}
			win := pc.text.slice(idx-cardLeadChars, idx+e.opts.WindowChars)
			if hasNegativeContext(win) {
				continue
			}
			if tail, n := utils.LastTail(win); tail != "" {
				return e.cardField(tail, n, win, pc.page.PageNum, StrategyCardLabel)
			}
		}
	}

	for _, pc := range pages {
		for _, loc := range utils.CardShapePattern.FindAllStringIndex(pc.text.s, -1) {
			start, end := pc.text.runeOffset(loc[0]), pc.text.runeOffset(loc[1])
			win := pc.text.slice(start-40, end+20)
			if hasNegativeContext(win) {
				continue
			}
			if tail, n := utils.LastTail(win); tail != "" {
				return e.cardField(tail, n, win, pc.page.PageNum, StrategyCardScan)
			}
		}
	}
	return nil
}

func (e *Extractor) cardField(tail string, n int, win string, pageNum int, strategy string) *dto.CardField {
	conf := e.opts.Tiers.CardLast2
	if n == 4 {
		conf = e.opts.Tiers.CardLast4
	}
	return &dto.CardField{
		Last:       tail,
		Mask:       utils.CardMask(tail, n),
		Confidence: conf,
		Evidence: dto.Evidence{
			Snippet:  truncate(win, e.opts.SnippetChars),
			Page:     pageNum,
			Strategy: strategy,
		},
	}
}
