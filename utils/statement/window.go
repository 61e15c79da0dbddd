package statement

import (
	"regexp"
	"strings"

	"github.com/Aashish23092/statement-parser/dto"
)

// Evidence strategies.
const (
	StrategyTextWindow     = "text_window"
	StrategyNextLines      = "text_window_next_lines"
	StrategyWordLayout     = "word_layout"
	StrategyNearestDate    = "nearest_date"
	StrategyExtendedWindow = "extended_window"
	StrategyFirstDate      = "first_date_on_page"
	StrategyNoPayment      = "no_payment_sentinel"
	StrategyCardLabel      = "card_label"
	StrategyCardScan       = "card_scan"
)

var lineBreaks = regexp.MustCompile(`[\r\n]+`)

// findAfterLabel looks for the first label synonym (in list order) whose following
// window contains a value matching pattern. If the value is not on the label's line
// it retries on the next two lines of the same window.
func (e *Extractor) findAfterLabel(t *pageText, labels []string, pattern *regexp.Regexp, pageNum int) (string, dto.Evidence, bool) {
	for _, label := range labels {
		idx := t.index(label)
		if idx < 0 {
			continue
		}

		start := idx + runeLen(label)
		win := t.slice(start, start+e.opts.WindowChars)
		if m := pattern.FindString(win); m != "" {
			return m, dto.Evidence{
				Snippet:  truncate(win, e.opts.SnippetChars),
				Page:     pageNum,
				Strategy: StrategyTextWindow,
			}, true
		}

		segments := lineBreaks.Split(win, -1)
		if len(segments) < 2 {
			continue
		}
		block := strings.Join(segments[1:min(3, len(segments))], " ")
		if m := pattern.FindString(block); m != "" {
			return m, dto.Evidence{
				Snippet:  truncate(block, e.opts.SnippetChars),
				Page:     pageNum,
				Strategy: StrategyNextLines,
			}, true
		}
	}
	return "", dto.Evidence{}, false
}
