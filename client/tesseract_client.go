package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/Aashish23092/statement-parser/dto"
)

type TesseractClient struct {
	dataPath string
}

func NewTesseractClient(dataPath string) *TesseractClient {
	return &TesseractClient{
		dataPath: dataPath,
	}
}

func (tc *TesseractClient) Name() string {
	return "tesseract"
}

// Recognize runs Tesseract on the image and returns its text with word-level boxes.
func (tc *TesseractClient) Recognize(ctx context.Context, img []byte) (*OCRResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if tc.dataPath != "" {
		_ = client.SetTessdataPrefix(tc.dataPath)
	}
	if err := client.SetLanguage("eng"); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(img); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("failed to extract text: %w", err)
	}

	// Word boxes are best effort; the text alone still feeds the label search.
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return &OCRResult{Text: text}, nil
	}

	words := make([]dto.WordBox, 0, len(boxes))
	for _, b := range boxes {
		w := strings.TrimSpace(b.Word)
		if w == "" {
			continue
		}
		words = append(words, dto.WordBox{
			X0:   float64(b.Box.Min.X),
			Y0:   float64(b.Box.Min.Y),
			X1:   float64(b.Box.Max.X),
			Y1:   float64(b.Box.Max.Y),
			Text: w,
		})
	}

	return &OCRResult{Text: text, Words: words}, nil
}
