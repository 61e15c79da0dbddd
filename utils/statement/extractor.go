package statement

import (
	"sort"

	"github.com/Aashish23092/statement-parser/dto"
	"github.com/Aashish23092/statement-parser/utils"
)

// Extractor locates statement fields in page text. It holds no per-document state
// and is safe for concurrent use.
type Extractor struct {
	opts Options
}

func NewExtractor(opts Options) *Extractor {
	return &Extractor{opts: opts.withDefaults()}
}

// Options returns the effective options.
func (e *Extractor) Options() Options {
	return e.opts
}

// Extract detects the issuer (unless hint names a known one), extracts one field
// record and applies the sanity pass.
func (e *Extractor) Extract(pages []dto.Page, hint dto.Issuer) dto.DocumentResult {
	issuer, conf := ParseIssuer(string(hint)), 1.0
	if issuer == dto.IssuerUnknown {
		issuer, conf = DetectIssuer(pages)
	}

	rec := e.ExtractFields(pages, ResolveLabels(issuer), dueDateCascade[issuer])
	AdjustConfidence(&rec, e.opts.Tiers.SanityFloor)

	return dto.DocumentResult{
		Success:          true,
		Issuer:           issuer,
		IssuerConfidence: conf,
		PageCount:        len(pages),
		Records:          []dto.FieldRecord{rec},
	}
}

// ExtractFields fills one record from the pages in page order. The card tail is
// searched across the whole document first; every other field takes the value
// from the first page that yields one.
func (e *Extractor) ExtractFields(pages []dto.Page, labels LabelTable, cascadeDueDate bool) dto.FieldRecord {
	ordered := make([]dto.Page, len(pages))
	copy(ordered, pages)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].PageNum < ordered[j].PageNum })

	contexts := make([]*pageContext, len(ordered))
	for i, p := range ordered {
		contexts[i] = newPageContext(p)
	}

	var rec dto.FieldRecord
	rec.Card = e.findCardTail(contexts, labels.Labels(LabelCard))

	for _, pc := range contexts {
		if rec.TotalAmountDue == nil {
			rec.TotalAmountDue = e.findAmount(pc, labels.Labels(LabelTotal))
		}
		if rec.MinimumAmountDue == nil {
			rec.MinimumAmountDue = e.findAmount(pc, labels.Labels(LabelMinimum))
		}
		if rec.PaymentDueDate == nil {
			if m, conf, ok := e.resolveDueDate(pc, labels.Labels(LabelDueDate), cascadeDueDate); ok {
				rec.PaymentDueDate = &dto.DateField{Value: m.value, Confidence: conf, Evidence: m.evidence}
			}
		}
		if rec.AvailableCreditLimit == nil {
			rec.AvailableCreditLimit = e.findAmount(pc, labels.Labels(LabelAvailLimit))
		}
	}
	return rec
}

func (e *Extractor) findAmount(pc *pageContext, labels []string) *dto.AmountField {
	raw, ev, ok := e.findAfterLabel(pc.text, labels, utils.AmountPattern, pc.page.PageNum)
	if !ok {
		return nil
	}
	v, ok := utils.ParseAmount(raw)
	if !ok {
		return nil
	}
	return &dto.AmountField{Value: v, Confidence: e.opts.Tiers.Amount, Evidence: ev}
}
