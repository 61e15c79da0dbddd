package dto

import "encoding/json"

// Issuer identifies the bank that produced a statement.
type Issuer string

const (
	IssuerIDFC    Issuer = "IDFC"
	IssuerHDFC    Issuer = "HDFC"
	IssuerSBI     Issuer = "SBI"
	IssuerAXIS    Issuer = "AXIS"
	IssuerICICI   Issuer = "ICICI"
	IssuerUnknown Issuer = "UNKNOWN"
)

// Field names used as keys in the confidence and evidence maps.
const (
	FieldCardLast             = "card_last"
	FieldTotalAmountDue       = "total_amount_due"
	FieldMinimumAmountDue     = "minimum_amount_due"
	FieldPaymentDueDate       = "payment_due_date"
	FieldAvailableCreditLimit = "available_credit_limit"
)

// NoPaymentRequired is stored as the due date when a statement says nothing is owed.
const NoPaymentRequired = "NO PAYMENT REQUIRED"

// WordBox is one token's bounding box on a page. Y grows downwards.
type WordBox struct {
	X0   float64 `json:"x0"`
	Y0   float64 `json:"y0"`
	X1   float64 `json:"x1"`
	Y1   float64 `json:"y1"`
	Text string  `json:"text"`
}

// Page is the text and word layout of one statement page, 1-based.
type Page struct {
	PageNum int       `json:"page_num"`
	Text    string    `json:"text"`
	Words   []WordBox `json:"words,omitempty"`
}

// Evidence points at the page and text that justify an extracted value.
type Evidence struct {
	Snippet  string `json:"snippet"`
	Page     int    `json:"page"`
	Strategy string `json:"strategy,omitempty"`
}

type CardField struct {
	Last       string
	Mask       string
	Confidence float64
	Evidence   Evidence
}

type AmountField struct {
	Value      float64
	Confidence float64
	Evidence   Evidence
}

type DateField struct {
	Value      string
	Confidence float64
	Evidence   Evidence
}

// FieldRecord holds the fields extracted for one card. A nil field was not found;
// a non-nil field always carries its confidence and evidence.
type FieldRecord struct {
	Card                 *CardField
	TotalAmountDue       *AmountField
	MinimumAmountDue     *AmountField
	PaymentDueDate       *DateField
	AvailableCreditLimit *AmountField
}

// Confidence returns the confidence of the named field, 0 when absent.
func (r *FieldRecord) Confidence(field string) float64 {
	switch field {
	case FieldCardLast:
		if r.Card != nil {
			return r.Card.Confidence
		}
	case FieldTotalAmountDue:
		if r.TotalAmountDue != nil {
			return r.TotalAmountDue.Confidence
		}
	case FieldMinimumAmountDue:
		if r.MinimumAmountDue != nil {
			return r.MinimumAmountDue.Confidence
		}
	case FieldPaymentDueDate:
		if r.PaymentDueDate != nil {
			return r.PaymentDueDate.Confidence
		}
	case FieldAvailableCreditLimit:
		if r.AvailableCreditLimit != nil {
			return r.AvailableCreditLimit.Confidence
		}
	}
	return 0
}

// fieldRecordJSON is the flat shape consumers read: values at the top level plus
// confidence and evidence maps keyed by field name.
type fieldRecordJSON struct {
	CardLast             *string             `json:"card_last"`
	CardMask             *string             `json:"card_mask"`
	TotalAmountDue       *float64            `json:"total_amount_due"`
	MinimumAmountDue     *float64            `json:"minimum_amount_due"`
	PaymentDueDate       *string             `json:"payment_due_date"`
	AvailableCreditLimit *float64            `json:"available_credit_limit"`
	Confidence           map[string]float64  `json:"confidence"`
	Evidence             map[string]Evidence `json:"evidence"`
}

func (r FieldRecord) MarshalJSON() ([]byte, error) {
	out := fieldRecordJSON{
		Confidence: map[string]float64{},
		Evidence:   map[string]Evidence{},
	}
	if r.Card != nil {
		out.CardLast = &r.Card.Last
		out.CardMask = &r.Card.Mask
		out.Confidence[FieldCardLast] = r.Card.Confidence
		out.Evidence[FieldCardLast] = r.Card.Evidence
	}
	setAmount := func(name string, f *AmountField, dst **float64) {
		if f == nil {
			return
		}
		v := f.Value
		*dst = &v
		out.Confidence[name] = f.Confidence
		out.Evidence[name] = f.Evidence
	}
	setAmount(FieldTotalAmountDue, r.TotalAmountDue, &out.TotalAmountDue)
	setAmount(FieldMinimumAmountDue, r.MinimumAmountDue, &out.MinimumAmountDue)
	setAmount(FieldAvailableCreditLimit, r.AvailableCreditLimit, &out.AvailableCreditLimit)
	if r.PaymentDueDate != nil {
		out.PaymentDueDate = &r.PaymentDueDate.Value
		out.Confidence[FieldPaymentDueDate] = r.PaymentDueDate.Confidence
		out.Evidence[FieldPaymentDueDate] = r.PaymentDueDate.Evidence
	}
	return json.Marshal(out)
}

// ErrorKind classifies a document-level failure.
type ErrorKind string

const (
	ErrorKindPasswordRequired ErrorKind = "password_required"
	ErrorKindUnreadable       ErrorKind = "unreadable"
	ErrorKindEmpty            ErrorKind = "empty"
)

// DocumentResult is the outcome of parsing one statement.
type DocumentResult struct {
	DocumentID       string        `json:"document_id,omitempty"`
	Filename         string        `json:"filename,omitempty"`
	Success          bool          `json:"success"`
	ErrorType        ErrorKind     `json:"error_type,omitempty"`
	Error            string        `json:"error,omitempty"`
	Issuer           Issuer        `json:"issuer"`
	IssuerConfidence float64       `json:"issuer_confidence"`
	PageCount        int           `json:"page_count,omitempty"`
	Records          []FieldRecord `json:"records"`
}
