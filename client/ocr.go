package client

import (
	"context"

	"github.com/Aashish23092/statement-parser/dto"
)

// OCRResult is the recognized text of one image and its word boxes, in image pixels.
type OCRResult struct {
	Text  string
	Words []dto.WordBox
}

// OCREngine recognizes text in an encoded image (PNG, JPEG, TIFF).
type OCREngine interface {
	Name() string
	Recognize(ctx context.Context, img []byte) (*OCRResult, error)
}
