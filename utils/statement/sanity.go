package statement

import "github.com/Aashish23092/statement-parser/dto"

// AdjustConfidence raises the confidence of both dues to at least floor when the
// minimum due does not exceed the total due. Other fields are left alone.
func AdjustConfidence(rec *dto.FieldRecord, floor float64) {
	total, minimum := rec.TotalAmountDue, rec.MinimumAmountDue
	if total == nil || minimum == nil || minimum.Value > total.Value {
		return
	}
	total.Confidence = max(total.Confidence, floor)
	minimum.Confidence = max(minimum.Confidence, floor)
}
