package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/Aashish23092/statement-parser/dto"
)

// PaddleClient calls a PaddleOCR serving endpoint (ocr_system) over HTTP through a
// circuit breaker.
type PaddleClient struct {
	apiURL  string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*OCRResult]
	logger  *zap.Logger
}

func NewPaddleClient(apiURL string, timeout time.Duration, logger *zap.Logger) *PaddleClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	settings := gobreaker.Settings{
		Name:        "paddleocr",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			// a cancelled request says nothing about the server
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &PaddleClient{
		apiURL:  apiURL,
		http:    &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[*OCRResult](settings),
		logger:  logger,
	}
}

func (p *PaddleClient) Name() string {
	return "paddle"
}

type paddleResponse struct {
	Status  string `json:"status"`
	Msg     string `json:"msg"`
	Results [][]struct {
		Text       string      `json:"text"`
		Confidence float64     `json:"confidence"`
		TextRegion [][]float64 `json:"text_region"`
	} `json:"results"`
}

// Recognize sends the image to PaddleOCR. Lines come back with a quadrilateral
// region; each line is split into word boxes by character position.
func (p *PaddleClient) Recognize(ctx context.Context, img []byte) (*OCRResult, error) {
	return p.breaker.Execute(func() (*OCRResult, error) {
		return p.recognize(ctx, img)
	})
}

func (p *PaddleClient) recognize(ctx context.Context, img []byte) (*OCRResult, error) {
	payload, err := json.Marshal(map[string]any{
		"images": []string{base64.StdEncoding.EncodeToString(img)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build PaddleOCR request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call PaddleOCR API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("PaddleOCR API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result paddleResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode PaddleOCR response: %w", err)
	}

	out := &OCRResult{}
	var text strings.Builder
	if len(result.Results) > 0 {
		for _, line := range result.Results[0] {
			if strings.TrimSpace(line.Text) == "" {
				continue
			}
			text.WriteString(line.Text)
			text.WriteString("\n")
			out.Words = append(out.Words, splitLine(line.Text, line.TextRegion)...)
		}
	}
	out.Text = text.String()

	if out.Text == "" {
		return nil, errors.New("PaddleOCR extracted no text from image")
	}

	p.logger.Debug("paddleocr recognized page",
		zap.Int("chars", len(out.Text)),
		zap.Int("words", len(out.Words)))
	return out, nil
}

// splitLine turns one recognized line into word boxes, spreading the line's
// horizontal extent over its characters.
func splitLine(line string, region [][]float64) []dto.WordBox {
	if len(region) == 0 {
		return nil
	}
	x0, y0, x1, y1 := region[0][0], region[0][1], region[0][0], region[0][1]
	for _, pt := range region {
		if len(pt) < 2 {
			return nil
		}
		x0, x1 = min(x0, pt[0]), max(x1, pt[0])
		y0, y1 = min(y0, pt[1]), max(y1, pt[1])
	}

	runes := []rune(line)
	if len(runes) == 0 {
		return nil
	}
	perRune := (x1 - x0) / float64(len(runes))

	var words []dto.WordBox
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		words = append(words, dto.WordBox{
			X0:   x0 + float64(start)*perRune,
			Y0:   y0,
			X1:   x0 + float64(end)*perRune,
			Y1:   y1,
			Text: string(runes[start:end]),
		})
		start = -1
	}
	for i, r := range runes {
		if r == ' ' || r == '\t' {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
		}
	}
	flush(len(runes))
	return words
}
