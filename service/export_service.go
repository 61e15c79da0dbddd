package service

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Aashish23092/statement-parser/dto"
)

const exportSheet = "Statements"

var exportHeaders = []string{
	"Filename",
	"Status",
	"Issuer",
	"Card",
	"Total Amount Due",
	"Minimum Amount Due",
	"Payment Due Date",
	"Available Credit Limit",
	"Confidence (total/min/due)",
	"Error",
}

// ExportService renders parse results as an XLSX workbook, one row per record.
type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

// ExportXLSX returns the workbook bytes. Failed documents get a row with their error.
func (s *ExportService) ExportXLSX(results []dto.DocumentResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(exportSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}
	activeIndex, err := f.GetSheetIndex(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("locate sheet: %w", err)
	}
	f.SetActiveSheet(activeIndex)

	w := &sheetWriter{f: f, sheet: exportSheet}
	for i, h := range exportHeaders {
		w.set(i+1, 1, h)
	}

	row := 2
	for _, res := range results {
		if !res.Success {
			w.set(1, row, res.Filename)
			w.set(2, row, string(res.ErrorType))
			w.set(10, row, res.Error)
			row++
			continue
		}

		for _, rec := range res.Records {
			w.set(1, row, res.Filename)
			w.set(2, row, "ok")
			w.set(3, row, string(res.Issuer))
			if rec.Card != nil {
				w.set(4, row, rec.Card.Mask)
			}
			if rec.TotalAmountDue != nil {
				w.set(5, row, rec.TotalAmountDue.Value)
			}
			if rec.MinimumAmountDue != nil {
				w.set(6, row, rec.MinimumAmountDue.Value)
			}
			if rec.PaymentDueDate != nil {
				w.set(7, row, rec.PaymentDueDate.Value)
			}
			if rec.AvailableCreditLimit != nil {
				w.set(8, row, rec.AvailableCreditLimit.Value)
			}
			w.set(9, row, fmt.Sprintf("%.2f/%.2f/%.2f",
				rec.Confidence(dto.FieldTotalAmountDue),
				rec.Confidence(dto.FieldMinimumAmountDue),
				rec.Confidence(dto.FieldPaymentDueDate)))
			row++
		}
	}

	for _, cw := range []struct {
		from, to string
		width    float64
	}{
		{"A", "A", 28},
		{"C", "D", 12},
		{"E", "H", 20},
		{"I", "I", 24},
		{"J", "J", 48},
	} {
		if w.err == nil {
			w.err = f.SetColWidth(exportSheet, cw.from, cw.to, cw.width)
		}
	}
	if w.err != nil {
		return nil, fmt.Errorf("write cells: %w", w.err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetWriter keeps the first error from a run of cell writes.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) set(col, row int, v any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellValue(w.sheet, cell, v)
}
