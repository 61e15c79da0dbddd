package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Aashish23092/statement-parser/client"
	"github.com/Aashish23092/statement-parser/dto"
	"github.com/Aashish23092/statement-parser/metrics"
	"github.com/Aashish23092/statement-parser/utils/statement"
)

const sampleText = "Total Amount Due ₹12,345.00\n" +
	"Minimum Amount Due ₹500.00\n" +
	"Payment Due Date: 15 Oct 2024\n" +
	"Card Number XXXX XXXX XXXX 4321"

type fakePDF struct {
	decryptErr   error
	pages        []dto.Page
	pagesByData  map[string][]dto.Page
	extractErr   error
	panicMsg     string
	images       map[int][][]byte
	encrypted    bool
	pageCount    int
	pageCountErr error
}

func (f *fakePDF) Decrypt(data []byte, password string) ([]byte, error) {
	if f.decryptErr != nil {
		return nil, f.decryptErr
	}
	return data, nil
}

func (f *fakePDF) IsEncrypted([]byte) (bool, error) { return f.encrypted, nil }

func (f *fakePDF) PageCount([]byte) (int, error) { return f.pageCount, f.pageCountErr }

func (f *fakePDF) ExtractPages(data []byte) ([]dto.Page, error) {
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.pagesByData != nil {
		return f.pagesByData[string(data)], nil
	}
	return f.pages, f.extractErr
}

func (f *fakePDF) ExtractPageImages(_ []byte, pageNum int) ([][]byte, error) {
	return f.images[pageNum], nil
}

type fakeOCR struct {
	name string
	fn   func(img []byte) (*client.OCRResult, error)

	mu    sync.Mutex
	calls int
}

func (f *fakeOCR) Name() string { return f.name }

func (f *fakeOCR) Recognize(_ context.Context, img []byte) (*client.OCRResult, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.fn(img)
}

func newService(p PDFProcessor, engines ...client.OCREngine) (*StatementService, *metrics.Metrics) {
	m := metrics.New()
	svc := NewStatementService(p, engines, statement.NewExtractor(statement.DefaultOptions()), m, nil,
		StatementOptions{MinTextChars: 20, BatchConcurrency: 2})
	return svc, m
}

func TestParseDocument(t *testing.T) {
	svc, _ := newService(&fakePDF{pages: []dto.Page{{PageNum: 1, Text: sampleText}}})

	res := svc.ParseDocument(context.Background(), Document{Filename: "oct.pdf", Data: []byte("%PDF")})
	require.True(t, res.Success)
	assert.NotEmpty(t, res.DocumentID)
	assert.Equal(t, "oct.pdf", res.Filename)
	assert.Equal(t, dto.IssuerUnknown, res.Issuer)
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	assert.Equal(t, "4321", rec.Card.Last)
	assert.Equal(t, 12345.0, rec.TotalAmountDue.Value)
	assert.Equal(t, 500.0, rec.MinimumAmountDue.Value)
	assert.Equal(t, "2024-10-15", rec.PaymentDueDate.Value)
}

func TestParseDocumentFailures(t *testing.T) {
	tests := []struct {
		name string
		pdf  *fakePDF
		kind dto.ErrorKind
	}{
		{
			name: "wrong password",
			pdf:  &fakePDF{decryptErr: fmt.Errorf("%w: pdfcpu: please provide the correct password", ErrPasswordRequired)},
			kind: dto.ErrorKindPasswordRequired,
		},
		{
			name: "broken file",
			pdf:  &fakePDF{extractErr: fmt.Errorf("%w: malformed xref", ErrUnreadableDocument)},
			kind: dto.ErrorKindUnreadable,
		},
		{
			name: "no pages",
			pdf:  &fakePDF{},
			kind: dto.ErrorKindEmpty,
		},
		{
			name: "library panic",
			pdf:  &fakePDF{panicMsg: "index out of range"},
			kind: dto.ErrorKindUnreadable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(tt.pdf)

			res := svc.ParseDocument(context.Background(), Document{Filename: "x.pdf"})
			assert.False(t, res.Success)
			assert.Equal(t, tt.kind, res.ErrorType)
			assert.NotEmpty(t, res.Error)
			assert.Empty(t, res.Records)
			n, err := testutil.GatherAndCount(m.Registry(), "statement_parser_documents_total")
			require.NoError(t, err)
			assert.Equal(t, 1, n)
		})
	}
}

func TestParseDocumentOCRFallback(t *testing.T) {
	paddle := &fakeOCR{name: "paddle", fn: func([]byte) (*client.OCRResult, error) {
		return nil, errors.New("connection refused")
	}}
	tesseract := &fakeOCR{name: "tesseract", fn: func(img []byte) (*client.OCRResult, error) {
		switch string(img) {
		case "top":
			return &client.OCRResult{
				Text:  "Total Amount Due   ₹2,000.00",
				Words: []dto.WordBox{{X0: 10, Y0: 10, X1: 50, Y1: 22, Text: "Total"}},
			}, nil
		default:
			return &client.OCRResult{
				Text:  "Minimum Amount Due ₹200.00",
				Words: []dto.WordBox{{X0: 10, Y0: 5, X1: 50, Y1: 17, Text: "Minimum"}},
			}, nil
		}
	}}

	fake := &fakePDF{
		pages:  []dto.Page{{PageNum: 1, Text: "  "}},
		images: map[int][][]byte{1: {[]byte("top"), []byte("bottom")}},
	}
	svc, m := newService(fake, paddle, tesseract)

	res := svc.ParseDocument(context.Background(), Document{Filename: "scan.pdf"})
	require.True(t, res.Success)

	rec := res.Records[0]
	require.NotNil(t, rec.TotalAmountDue)
	assert.Equal(t, 2000.0, rec.TotalAmountDue.Value)
	require.NotNil(t, rec.MinimumAmountDue)
	assert.Equal(t, 200.0, rec.MinimumAmountDue.Value)

	assert.Equal(t, 2, paddle.calls)
	assert.Equal(t, 2, tesseract.calls)
	// paddle/failed and tesseract/ok
	n, err := testutil.GatherAndCount(m.Registry(), "statement_ocr_pages_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestParseDocumentOCRsOnlyBlankPagesByDefault(t *testing.T) {
	engine := &fakeOCR{name: "tesseract", fn: func([]byte) (*client.OCRResult, error) {
		return &client.OCRResult{Text: "Total Amount Due ₹700.00"}, nil
	}}
	fake := &fakePDF{
		pages: []dto.Page{
			{PageNum: 1, Text: "Page 1"},
			{PageNum: 2, Text: " \n\t "},
		},
		images: map[int][][]byte{1: {[]byte("p1")}, 2: {[]byte("p2")}},
	}
	svc := NewStatementService(fake, []client.OCREngine{engine},
		statement.NewExtractor(statement.DefaultOptions()), nil, nil, StatementOptions{})

	res := svc.ParseDocument(context.Background(), Document{Filename: "mixed.pdf"})
	require.True(t, res.Success)
	assert.Equal(t, 1, engine.calls)

	rec := res.Records[0]
	require.NotNil(t, rec.TotalAmountDue)
	assert.Equal(t, 700.0, rec.TotalAmountDue.Value)
	assert.Equal(t, 2, rec.TotalAmountDue.Evidence.Page)
}

func TestOCRPageStacksImages(t *testing.T) {
	engine := &fakeOCR{name: "tesseract", fn: func(img []byte) (*client.OCRResult, error) {
		return &client.OCRResult{
			Text:  string(img),
			Words: []dto.WordBox{{X0: 0, Y0: 0, X1: 10, Y1: 100, Text: string(img)}},
		}, nil
	}}
	svc, _ := newService(&fakePDF{images: map[int][][]byte{3: {[]byte("a"), []byte("b")}}}, engine)

	page := dto.Page{PageNum: 3}
	svc.ocrPage(context.Background(), nil, &page, svc.logger)

	assert.Equal(t, "a\nb", page.Text)
	require.Len(t, page.Words, 2)
	assert.Equal(t, 0.0, page.Words[0].Y0)
	assert.Equal(t, 100.0, page.Words[1].Y0)
	assert.Equal(t, 200.0, page.Words[1].Y1)
}

func TestOCRPageAllEnginesFail(t *testing.T) {
	engine := &fakeOCR{name: "tesseract", fn: func([]byte) (*client.OCRResult, error) {
		return nil, errors.New("no text")
	}}
	svc, _ := newService(&fakePDF{images: map[int][][]byte{1: {[]byte("img")}}}, engine)

	page := dto.Page{PageNum: 1}
	svc.ocrPage(context.Background(), nil, &page, svc.logger)
	assert.Empty(t, page.Text)
	assert.Empty(t, page.Words)
}

func TestParseBatchKeepsOrder(t *testing.T) {
	fake := &fakePDF{pagesByData: map[string][]dto.Page{
		"a": {{PageNum: 1, Text: "HDFC Bank\nTotal Amount Due ₹100.00"}},
		"c": {{PageNum: 1, Text: "SBI Card\n*Total Amount Due ₹300.00"}},
	}}
	svc, _ := newService(fake)

	results := svc.ParseBatch(context.Background(), []Document{
		{Filename: "a.pdf", Data: []byte("a")},
		{Filename: "b.pdf", Data: []byte("b")},
		{Filename: "c.pdf", Data: []byte("c")},
	})

	require.Len(t, results, 3)
	assert.Equal(t, "a.pdf", results[0].Filename)
	assert.Equal(t, dto.IssuerHDFC, results[0].Issuer)
	assert.Equal(t, 100.0, results[0].Records[0].TotalAmountDue.Value)

	assert.False(t, results[1].Success)
	assert.Equal(t, dto.ErrorKindEmpty, results[1].ErrorType)

	assert.Equal(t, dto.IssuerSBI, results[2].Issuer)
	assert.Equal(t, 300.0, results[2].Records[0].TotalAmountDue.Value)
}

func TestInspect(t *testing.T) {
	svc, _ := newService(&fakePDF{pageCount: 4})
	info, err := svc.Inspect([]byte("%PDF"), "a.pdf")
	require.NoError(t, err)
	assert.False(t, info.Encrypted)
	assert.Equal(t, 4, info.Pages)

	svc, _ = newService(&fakePDF{encrypted: true, pageCountErr: ErrPasswordRequired})
	info, err = svc.Inspect([]byte("%PDF"), "locked.pdf")
	require.NoError(t, err)
	assert.True(t, info.Encrypted)
	assert.Equal(t, 0, info.Pages)

	svc, _ = newService(&fakePDF{pageCountErr: ErrUnreadableDocument})
	_, err = svc.Inspect([]byte("junk"), "junk.pdf")
	assert.ErrorIs(t, err, ErrUnreadableDocument)
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, dto.ErrorKindPasswordRequired, ErrorKind(fmt.Errorf("wrap: %w", ErrPasswordRequired)))
	assert.Equal(t, dto.ErrorKindEmpty, ErrorKind(ErrEmptyDocument))
	assert.Equal(t, dto.ErrorKindUnreadable, ErrorKind(errors.New("boom")))

	assert.True(t, isPasswordError(errors.New("pdfcpu: please provide the correct password")))
	assert.True(t, isNotEncryptedError(errors.New("pdfcpu: this file is not encrypted")))
}

func TestNormalizePageText(t *testing.T) {
	assert.Equal(t, "Total Due ₹5\nCard XX12", normalizePageText("  Total\x00 Due \t ₹5 \r\n Card   XX12\n\n"))
	assert.Equal(t, "", normalizePageText(" \x00 "))
}

func TestGroupWords(t *testing.T) {
	glyphs := []pdf.Text{
		{X: 40, Y: 700, W: 6, FontSize: 10, S: "e"},
		{X: 10, Y: 700, W: 30, FontSize: 10, S: "Du"},
		{X: 50, Y: 700, W: 4, FontSize: 10, S: " "},
		{X: 55, Y: 700, W: 20, FontSize: 10, S: "Date"},
		{X: 200, Y: 700, W: 20, FontSize: 10, S: "15/10/2024"},
	}

	words := groupWords(glyphs, 800)
	require.Len(t, words, 3)
	assert.Equal(t, "Due", words[0].Text)
	assert.Equal(t, 10.0, words[0].X0)
	assert.Equal(t, 46.0, words[0].X1)
	assert.Equal(t, 90.0, words[0].Y0)
	assert.Equal(t, 100.0, words[0].Y1)
	assert.Equal(t, "Date", words[1].Text)
	assert.Equal(t, "15/10/2024", words[2].Text)
}

func TestExportXLSX(t *testing.T) {
	svc, _ := newService(&fakePDF{pages: []dto.Page{{PageNum: 1, Text: sampleText}}})
	ok := svc.ParseDocument(context.Background(), Document{Filename: "oct.pdf"})
	failed := failedResult("id", "locked.pdf", ErrPasswordRequired)

	data, err := NewExportService().ExportXLSX([]dto.DocumentResult{ok, failed})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	cell := func(axis string) string {
		v, err := f.GetCellValue(exportSheet, axis)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "Filename", cell("A1"))
	assert.Equal(t, "oct.pdf", cell("A2"))
	assert.Equal(t, "XXXX 4321", cell("D2"))
	assert.Equal(t, "12345", cell("E2"))
	assert.Equal(t, "2024-10-15", cell("G2"))
	assert.Equal(t, "locked.pdf", cell("A3"))
	assert.Equal(t, "password_required", cell("B3"))
}

func TestSheetWriterKeepsFirstError(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	w := &sheetWriter{f: f, sheet: "Sheet1"}
	w.set(1, 1, "ok")
	require.NoError(t, w.err)

	w.set(0, 1, "bad column")
	first := w.err
	require.Error(t, first)

	w.set(1, 2, "skipped")
	assert.Equal(t, first, w.err)
	v, err := f.GetCellValue("Sheet1", "A2")
	require.NoError(t, err)
	assert.Empty(t, v)

	w = &sheetWriter{f: f, sheet: "Missing"}
	w.set(1, 1, "x")
	assert.Error(t, w.err)
}
