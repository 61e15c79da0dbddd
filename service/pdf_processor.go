package service

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/Aashish23092/statement-parser/dto"
)

// PDFProcessor turns statement bytes into pages.
type PDFProcessor interface {
	// Decrypt returns a decrypted copy of an encrypted PDF, or the input when it is
	// not encrypted.
	Decrypt(pdfData []byte, password string) ([]byte, error)
	IsEncrypted(pdfData []byte) (bool, error)
	PageCount(pdfData []byte) (int, error)
	// ExtractPages returns the text layer of every page, top-down, with word boxes.
	ExtractPages(pdfData []byte) ([]dto.Page, error)
	// ExtractPageImages returns the encoded images embedded in one page.
	ExtractPageImages(pdfData []byte, pageNum int) ([][]byte, error)
}

type pdfProcessor struct{}

func NewPDFProcessor() PDFProcessor {
	return &pdfProcessor{}
}

func (p *pdfProcessor) Decrypt(pdfData []byte, password string) ([]byte, error) {
	conf := model.NewDefaultConfiguration()
	conf.UserPW = password
	conf.OwnerPW = password

	var out bytes.Buffer
	err := api.Decrypt(bytes.NewReader(pdfData), &out, conf)
	switch {
	case err == nil:
		return out.Bytes(), nil
	case isNotEncryptedError(err):
		return pdfData, nil
	case isPasswordError(err):
		return nil, fmt.Errorf("%w: %v", ErrPasswordRequired, err)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}
}

func (p *pdfProcessor) IsEncrypted(pdfData []byte) (bool, error) {
	conf := model.NewDefaultConfiguration()
	err := api.Decrypt(bytes.NewReader(pdfData), &bytes.Buffer{}, conf)
	switch {
	case err == nil:
		// encrypted with an empty user password
		return true, nil
	case isNotEncryptedError(err):
		return false, nil
	case isPasswordError(err):
		return true, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}
}

func (p *pdfProcessor) PageCount(pdfData []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(pdfData), conf)
	if err == nil {
		err = ctx.EnsurePageCount()
	}
	if err != nil {
		if isPasswordError(err) && !isNotEncryptedError(err) {
			return 0, fmt.Errorf("%w: %v", ErrPasswordRequired, err)
		}
		return 0, fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}
	return ctx.PageCount, nil
}

func (p *pdfProcessor) ExtractPages(pdfData []byte) ([]dto.Page, error) {
	r, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		if isPasswordError(err) {
			return nil, fmt.Errorf("%w: %v", ErrPasswordRequired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}

	total := r.NumPage()
	pages := make([]dto.Page, 0, total)
	for pageIndex := 1; pageIndex <= total; pageIndex++ {
		page := dto.Page{PageNum: pageIndex}

		pg := r.Page(pageIndex)
		if !pg.V.IsNull() {
			// a page whose content cannot be decoded keeps empty text and goes to OCR
			if rows, err := pg.GetTextByRow(); err == nil {
				page.Text, page.Words = layoutRows(rows, pageHeight(pg))
			}
		}
		pages = append(pages, page)
	}
	return pages, nil
}

func (p *pdfProcessor) ExtractPageImages(pdfData []byte, pageNum int) ([][]byte, error) {
	tempDir, err := os.MkdirTemp("", "statement-images-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	tempFile, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(pdfData); err != nil {
		tempFile.Close()
		return nil, fmt.Errorf("failed to write pdf data: %w", err)
	}
	tempFile.Close()

	conf := model.NewDefaultConfiguration()
	selected := []string{strconv.Itoa(pageNum)}
	if err := api.ExtractImagesFile(tempFile.Name(), tempDir, selected, conf); err != nil {
		return nil, fmt.Errorf("failed to extract images from page %d: %w", pageNum, err)
	}

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read temp dir: %w", err)
	}

	var images [][]byte
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(tempDir, entry.Name()))
		if err != nil {
			continue
		}
		images = append(images, data)
	}
	return images, nil
}

// pageHeight reads the page's MediaBox, looking one level up the page tree when
// the page inherits it. Zero means unknown.
func pageHeight(pg pdf.Page) float64 {
	box := pg.V.Key("MediaBox")
	if box.IsNull() {
		box = pg.V.Key("Parent").Key("MediaBox")
	}
	if box.Len() < 4 {
		return 0
	}
	return box.Index(3).Float64() - box.Index(1).Float64()
}

// layoutRows joins glyph rows into page text and word boxes. PDF coordinates grow
// upwards, so Y is flipped against the page height.
func layoutRows(rows pdf.Rows, height float64) (string, []dto.WordBox) {
	if height <= 0 {
		for _, row := range rows {
			for _, t := range row.Content {
				height = max(height, t.Y+t.FontSize)
			}
		}
	}

	sorted := make(pdf.Rows, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Position > sorted[j].Position })

	var text strings.Builder
	var words []dto.WordBox
	for _, row := range sorted {
		rowWords := groupWords(row.Content, height)
		if len(rowWords) == 0 {
			continue
		}
		parts := make([]string, len(rowWords))
		for i, w := range rowWords {
			parts[i] = w.Text
		}
		text.WriteString(strings.Join(parts, " "))
		text.WriteString("\n")
		words = append(words, rowWords...)
	}
	return normalizePageText(text.String()), words
}

// groupWords merges the glyph runs of one row into words, splitting on spaces and on
// horizontal gaps wider than a third of the font size.
func groupWords(glyphs []pdf.Text, height float64) []dto.WordBox {
	sorted := make([]pdf.Text, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var words []dto.WordBox
	var cur *dto.WordBox
	var b strings.Builder
	flush := func() {
		if cur != nil && b.Len() > 0 {
			cur.Text = b.String()
			words = append(words, *cur)
		}
		cur = nil
		b.Reset()
	}

	for _, g := range sorted {
		s := strings.ReplaceAll(g.S, "\x00", " ")
		if strings.TrimSpace(s) == "" {
			flush()
			continue
		}
		if cur != nil && g.X-cur.X1 > g.FontSize/3 {
			flush()
		}
		top, bottom := height-(g.Y+g.FontSize), height-g.Y
		if cur == nil {
			cur = &dto.WordBox{X0: g.X, Y0: top, X1: g.X + g.W, Y1: bottom}
		} else {
			cur.X1 = max(cur.X1, g.X+g.W)
			cur.Y0 = min(cur.Y0, top)
			cur.Y1 = max(cur.Y1, bottom)
		}
		for _, r := range s {
			if unicode.IsSpace(r) {
				flush()
				continue
			}
			if cur == nil {
				cur = &dto.WordBox{X0: g.X, Y0: top, X1: g.X + g.W, Y1: bottom}
			}
			b.WriteRune(r)
		}
	}
	flush()
	return words
}

// normalizePageText replaces NULs, collapses runs of horizontal whitespace and trims
// every line, keeping line breaks.
func normalizePageText(s string) string {
	s = strings.ReplaceAll(s, "\x00", " ")
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
