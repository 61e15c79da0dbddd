package statement

import "github.com/Aashish23092/statement-parser/dto"

// Label table keys.
const (
	LabelTotal      = "total"
	LabelMinimum    = "minimum"
	LabelDueDate    = "due_date"
	LabelAvailLimit = "avail_limit"
	LabelCard       = "card"
)

// IssuerProfile lists the phrases whose presence identifies an issuer.
type IssuerProfile struct {
	Name     dto.Issuer
	Keywords []string
}

// IssuerProfiles is in declaration order, which also breaks detection ties.
var IssuerProfiles = []IssuerProfile{
	{Name: dto.IssuerIDFC, Keywords: []string{"idfc first", "idfc bank", "idfc first bank"}},
	{Name: dto.IssuerHDFC, Keywords: []string{"hdfc bank", "paytm hdfc", "hdfc credit card"}},
	{Name: dto.IssuerSBI, Keywords: []string{"sbi card", "simplyclick sbi", "state bank of india"}},
	{Name: dto.IssuerAXIS, Keywords: []string{"axis bank", "flipkart axis", "axis credit card"}},
	{Name: dto.IssuerICICI, Keywords: []string{"icici bank", "amazon pay icici", "icici credit card"}},
}

// cardLabels mark the neighbourhood of a card number.
var cardLabels = []string{
	"credit card number", "card number", "card no", "card #", "card no.", "primary card",
	"xxxx xxxx xxxx", "xxxx", "****", "masked",
}

// cardNegativeContext are numeric identifiers that look like card numbers but are not.
var cardNegativeContext = []string{
	"ckyc", "cxyc", "cif", "customer id", "customer no", "account no",
	"gstin", "gst", "ifsc", "micr", "ppn", "stmt no", "statement no", "reference no",
}

// LabelTable maps a field key to its label synonyms, most specific first.
type LabelTable map[string][]string

var genericLabels = LabelTable{
	LabelTotal: {
		"total payment due", "total amount due", "total due", "amount due",
		"total amount payable", "amount payable", "amount to be paid",
		"total outstanding", "total balance due",
	},
	LabelMinimum: {
		"minimum payment due", "minimum amount due", "min amount due", "min payment due",
		"minimum due", "minimum amount payable", "min due",
	},
	LabelDueDate: {"payment due date", "due date", "last date for payment", "pay by date"},
	LabelAvailLimit: {
		"available credit (including cash)", "available credit limit (₹)", "available credit limit",
		"available limit", "avail credit limit", "available cash limit", "available credit",
	},
	LabelCard: cardLabels,
}

var issuerLabels = map[dto.Issuer]LabelTable{
	dto.IssuerIDFC: {
		LabelTotal:      {"total amount due", "total payment due", "amount payable"},
		LabelMinimum:    {"minimum payment due", "minimum amount due", "min amount due"},
		LabelDueDate:    {"payment due date", "due date"},
		LabelAvailLimit: {"available credit limit", "available limit", "available credit (including cash)"},
		LabelCard:       cardLabels,
	},
	dto.IssuerHDFC: {
		LabelTotal:      {"total due", "total amount due", "amount payable", "total payment due"},
		LabelMinimum:    {"minimum amount due", "minimum payment due", "min payment due"},
		LabelDueDate:    {"payment due date", "due date"},
		LabelAvailLimit: {"available credit limit", "available limit", "available credit (including cash)"},
		LabelCard:       cardLabels,
	},
	dto.IssuerSBI: {
		LabelTotal:      {"*total amount due", "total outstanding", "total amount due", "total payment due"},
		LabelMinimum:    {"**minimum amount due", "minimum amount due", "minimum payment due", "min due"},
		LabelDueDate:    {"payment due date", "due date", "pay by date"},
		LabelAvailLimit: {"available credit limit ( ₹ )", "available credit limit", "available limit", "available credit (including cash)"},
		LabelCard:       cardLabels,
	},
	dto.IssuerAXIS: {
		LabelTotal:      {"total payment due", "total amount due", "total due", "amount payable"},
		LabelMinimum:    {"minimum payment due", "minimum amount due", "min amount due"},
		LabelDueDate:    {"payment due date", "due date"},
		LabelAvailLimit: {"available credit limit", "available limit", "available credit (including cash)"},
		LabelCard:       cardLabels,
	},
	dto.IssuerICICI: {
		LabelTotal:      {"total amount due", "amount due", "total payment due", "amount payable"},
		LabelMinimum:    {"minimum amount due", "minimum payment due", "min amount"},
		LabelDueDate:    {"payment due date", "due date", "pay by date"},
		LabelAvailLimit: {"available credit (including cash)", "available credit limit", "available limit"},
		LabelCard:       cardLabels,
	},
}

// dueDateCascade lists issuers whose due date needs the multi-strategy resolver.
var dueDateCascade = map[dto.Issuer]bool{
	dto.IssuerICICI: true,
}

// ResolveLabels returns the issuer's label table, or the generic one.
func ResolveLabels(issuer dto.Issuer) LabelTable {
	if t, ok := issuerLabels[issuer]; ok {
		return t
	}
	return genericLabels
}

// Labels returns the synonyms for field, falling back to the generic table when
// the issuer table has none.
func (t LabelTable) Labels(field string) []string {
	if l := t[field]; len(l) > 0 {
		return l
	}
	return genericLabels[field]
}

// ParseIssuer maps an issuer hint to a known issuer. Unknown hints yield IssuerUnknown.
func ParseIssuer(hint string) dto.Issuer {
	for _, p := range IssuerProfiles {
		if equalFoldTrim(hint, string(p.Name)) {
			return p.Name
		}
	}
	return dto.IssuerUnknown
}
