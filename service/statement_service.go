package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Aashish23092/statement-parser/client"
	"github.com/Aashish23092/statement-parser/dto"
	"github.com/Aashish23092/statement-parser/metrics"
	"github.com/Aashish23092/statement-parser/utils/statement"
)

// Document is one uploaded statement.
type Document struct {
	Filename   string
	Data       []byte
	Password   string
	IssuerHint string
}

type StatementOptions struct {
	// MinTextChars is the embedded text length below which a page is OCR'd. The
	// default of 1 sends only whitespace-only pages to OCR.
	MinTextChars     int
	BatchConcurrency int
}

type StatementService struct {
	pdfProcessor PDFProcessor
	ocrEngines   []client.OCREngine
	extractor    *statement.Extractor
	metrics      *metrics.Metrics
	logger       *zap.Logger
	opts         StatementOptions
}

// NewStatementService wires the parser. OCR engines are tried in order for pages
// without usable embedded text.
func NewStatementService(
	pdfProcessor PDFProcessor,
	ocrEngines []client.OCREngine,
	extractor *statement.Extractor,
	m *metrics.Metrics,
	logger *zap.Logger,
	opts StatementOptions,
) *StatementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.New()
	}
	if opts.BatchConcurrency <= 0 {
		opts.BatchConcurrency = 1
	}
	if opts.MinTextChars <= 0 {
		opts.MinTextChars = 1
	}
	return &StatementService{
		pdfProcessor: pdfProcessor,
		ocrEngines:   ocrEngines,
		extractor:    extractor,
		metrics:      m,
		logger:       logger,
		opts:         opts,
	}
}

// ParseDocument decrypts, reads and extracts one statement. Failures, including
// panics in the PDF libraries, come back as an unsuccessful result.
func (s *StatementService) ParseDocument(ctx context.Context, doc Document) (res dto.DocumentResult) {
	start := time.Now()
	id := uuid.NewString()
	log := s.logger.With(zap.String("document_id", id), zap.String("filename", doc.Filename))

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic while parsing statement", zap.Any("panic", r))
			res = failedResult(id, doc.Filename, fmt.Errorf("%w: %v", ErrUnreadableDocument, r))
		}
		s.record(res, time.Since(start))
	}()

	pages, err := s.loadPages(ctx, doc, log)
	if err != nil {
		log.Warn("statement rejected", zap.Error(err))
		return failedResult(id, doc.Filename, err)
	}

	res = s.extractor.Extract(pages, dto.Issuer(doc.IssuerHint))
	res.DocumentID = id
	res.Filename = doc.Filename

	log.Info("statement parsed",
		zap.String("issuer", string(res.Issuer)),
		zap.Int("pages", res.PageCount),
		zap.Duration("elapsed", time.Since(start)))
	return res
}

// ParseBatch parses documents concurrently. Results keep the input order and one
// failing document does not affect the others.
func (s *StatementService) ParseBatch(ctx context.Context, docs []Document) []dto.DocumentResult {
	results := make([]dto.DocumentResult, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.BatchConcurrency)
	for i, doc := range docs {
		g.Go(func() error {
			results[i] = s.ParseDocument(gctx, doc)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Inspect reports whether a statement needs a password and, when readable, its
// page count.
func (s *StatementService) Inspect(data []byte, filename string) (*dto.InspectResponse, error) {
	encrypted, err := s.pdfProcessor.IsEncrypted(data)
	if err != nil {
		return nil, err
	}

	pages, err := s.pdfProcessor.PageCount(data)
	if err != nil {
		if !encrypted || !errors.Is(err, ErrPasswordRequired) {
			return nil, err
		}
		pages = 0
	}

	return &dto.InspectResponse{Filename: filename, Encrypted: encrypted, Pages: pages}, nil
}

func (s *StatementService) loadPages(ctx context.Context, doc Document, log *zap.Logger) ([]dto.Page, error) {
	data, err := s.pdfProcessor.Decrypt(doc.Data, doc.Password)
	if err != nil {
		return nil, err
	}

	pages, err := s.pdfProcessor.ExtractPages(data)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, ErrEmptyDocument
	}

	for i := range pages {
		if utf8.RuneCountInString(strings.TrimSpace(pages[i].Text)) >= s.opts.MinTextChars {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
		}
		log.Warn("page has no usable text, falling back to OCR", zap.Int("page", pages[i].PageNum))
		s.ocrPage(ctx, data, &pages[i], log)
	}
	return pages, nil
}

// ocrPage replaces a page's text and words with OCR output. Images on the same page
// are stacked top to bottom. When nothing is recognized the page is left as is.
func (s *StatementService) ocrPage(ctx context.Context, data []byte, page *dto.Page, log *zap.Logger) {
	images, err := s.pdfProcessor.ExtractPageImages(data, page.PageNum)
	if err != nil || len(images) == 0 {
		log.Warn("no images to OCR", zap.Int("page", page.PageNum), zap.Error(err))
		return
	}

	var texts []string
	var words []dto.WordBox
	offset := 0.0
	for _, img := range images {
		res := s.recognize(ctx, img, page.PageNum, log)
		if res == nil {
			continue
		}
		texts = append(texts, res.Text)

		bottom := offset
		for _, w := range res.Words {
			w.Y0 += offset
			w.Y1 += offset
			bottom = max(bottom, w.Y1)
			words = append(words, w)
		}
		offset = bottom
	}

	if len(texts) == 0 {
		return
	}
	page.Text = normalizePageText(strings.Join(texts, "\n"))
	page.Words = words
}

func (s *StatementService) recognize(ctx context.Context, img []byte, pageNum int, log *zap.Logger) *client.OCRResult {
	for _, engine := range s.ocrEngines {
		res, err := engine.Recognize(ctx, img)
		ok := err == nil && res != nil && strings.TrimSpace(res.Text) != ""
		s.metrics.RecordOCRPage(engine.Name(), ok)
		if ok {
			return res
		}
		log.Warn("OCR engine failed",
			zap.String("engine", engine.Name()),
			zap.Int("page", pageNum),
			zap.Error(err))
	}
	return nil
}

func (s *StatementService) record(res dto.DocumentResult, elapsed time.Duration) {
	status := "success"
	if !res.Success {
		status = string(res.ErrorType)
	}
	s.metrics.RecordDocument(string(res.Issuer), status, elapsed)

	for _, rec := range res.Records {
		if rec.Card != nil {
			s.metrics.RecordField(dto.FieldCardLast, rec.Card.Evidence.Strategy)
		}
		if rec.TotalAmountDue != nil {
			s.metrics.RecordField(dto.FieldTotalAmountDue, rec.TotalAmountDue.Evidence.Strategy)
		}
		if rec.MinimumAmountDue != nil {
			s.metrics.RecordField(dto.FieldMinimumAmountDue, rec.MinimumAmountDue.Evidence.Strategy)
		}
		if rec.PaymentDueDate != nil {
			s.metrics.RecordField(dto.FieldPaymentDueDate, rec.PaymentDueDate.Evidence.Strategy)
		}
		if rec.AvailableCreditLimit != nil {
			s.metrics.RecordField(dto.FieldAvailableCreditLimit, rec.AvailableCreditLimit.Evidence.Strategy)
		}
	}
}

func failedResult(id, filename string, err error) dto.DocumentResult {
	return dto.DocumentResult{
		DocumentID: id,
		Filename:   filename,
		Success:    false,
		ErrorType:  ErrorKind(err),
		Error:      err.Error(),
		Issuer:     dto.IssuerUnknown,
		Records:    []dto.FieldRecord{},
	}
}
