package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Aashish23092/statement-parser/utils/statement"
)

const (
	EnvPrefix = "STATEMENT"

	DefaultPort            = "8080"
	DefaultTessdataPrefix  = "/usr/share/tesseract-ocr/5/tessdata/"
	DefaultPaddleTimeout   = 30 * time.Second
	DefaultMaxFileSize     = 10 * 1024 * 1024 // 10 MB
	DefaultMaxBatchFiles   = 10
	DefaultBatchConcurrent = 4
	DefaultLogLevel        = "info"
	DefaultOCRMinTextChars = 1
)

type Config struct {
	ServerPort string

	// OCR
	TesseractDataPath string
	// PaddleAPIURL is the PaddleOCR HTTP endpoint; empty disables Paddle.
	PaddleAPIURL    string
	PaddleTimeout   time.Duration
	OCRMinTextChars int

	MaxFileSize      int64
	MaxBatchFiles    int
	BatchConcurrency int
	LogLevel         string

	Extractor statement.Options
}

func DefaultConfig() *Config {
	return &Config{
		ServerPort:        DefaultPort,
		TesseractDataPath: DefaultTessdataPrefix,
		PaddleTimeout:     DefaultPaddleTimeout,
		OCRMinTextChars:   DefaultOCRMinTextChars,
		MaxFileSize:       DefaultMaxFileSize,
		MaxBatchFiles:     DefaultMaxBatchFiles,
		BatchConcurrency:  DefaultBatchConcurrent,
		LogLevel:          DefaultLogLevel,
		Extractor:         statement.DefaultOptions(),
	}
}

// LoadConfig reads flags, STATEMENT_* environment variables and defaults, in that
// order of precedence.
func LoadConfig(args []string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()
	fs := pflag.NewFlagSet("statement-parser", pflag.ContinueOnError)

	setDefaults(v, cfg)
	defineFlags(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	populate(v, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	// TESSDATA_PREFIX is honoured as well, as tesseract itself reads it
	if prefix := os.Getenv("TESSDATA_PREFIX"); prefix != "" {
		cfg.TesseractDataPath = prefix
	}

	v.SetDefault("port", cfg.ServerPort)
	v.SetDefault("tessdata_prefix", cfg.TesseractDataPath)
	v.SetDefault("paddle_api_url", cfg.PaddleAPIURL)
	v.SetDefault("paddle_timeout", cfg.PaddleTimeout)
	v.SetDefault("ocr_min_text_chars", cfg.OCRMinTextChars)
	v.SetDefault("max_file_size", cfg.MaxFileSize)
	v.SetDefault("max_batch_files", cfg.MaxBatchFiles)
	v.SetDefault("batch_concurrency", cfg.BatchConcurrency)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("search_window_chars", cfg.Extractor.WindowChars)
	v.SetDefault("snippet_chars", cfg.Extractor.SnippetChars)

	tiers := cfg.Extractor.Tiers
	v.SetDefault("confidence_card_last4", tiers.CardLast4)
	v.SetDefault("confidence_card_last2", tiers.CardLast2)
	v.SetDefault("confidence_amount", tiers.Amount)
	v.SetDefault("confidence_text_date", tiers.TextDate)
	v.SetDefault("confidence_layout_date", tiers.LayoutDate)
	v.SetDefault("confidence_sanity_floor", tiers.SanityFloor)
}

func defineFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.String("port", cfg.ServerPort, "HTTP listen port")
	fs.String("tessdata_prefix", cfg.TesseractDataPath, "Tesseract tessdata directory")
	fs.String("paddle_api_url", cfg.PaddleAPIURL, "PaddleOCR HTTP endpoint (empty disables Paddle)")
	fs.Duration("paddle_timeout", cfg.PaddleTimeout, "PaddleOCR request timeout")
	fs.Int("ocr_min_text_chars", cfg.OCRMinTextChars, "Pages with fewer non-space characters than this are OCR'd")
	fs.Int64("max_file_size", cfg.MaxFileSize, "Maximum statement size in bytes")
	fs.Int("max_batch_files", cfg.MaxBatchFiles, "Maximum files per batch request")
	fs.Int("batch_concurrency", cfg.BatchConcurrency, "Documents parsed concurrently in a batch")
	fs.String("log_level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.Int("search_window_chars", cfg.Extractor.WindowChars, "Characters searched after a label")
	fs.Int("snippet_chars", cfg.Extractor.SnippetChars, "Maximum evidence snippet length")
}

func populate(v *viper.Viper, cfg *Config) {
	cfg.ServerPort = v.GetString("port")
	cfg.TesseractDataPath = v.GetString("tessdata_prefix")
	cfg.PaddleAPIURL = v.GetString("paddle_api_url")
	cfg.PaddleTimeout = v.GetDuration("paddle_timeout")
	cfg.OCRMinTextChars = v.GetInt("ocr_min_text_chars")
	cfg.MaxFileSize = v.GetInt64("max_file_size")
	cfg.MaxBatchFiles = v.GetInt("max_batch_files")
	cfg.BatchConcurrency = v.GetInt("batch_concurrency")
	cfg.LogLevel = v.GetString("log_level")

	cfg.Extractor.WindowChars = v.GetInt("search_window_chars")
	cfg.Extractor.SnippetChars = v.GetInt("snippet_chars")
	cfg.Extractor.Tiers = statement.Tiers{
		CardLast4:   v.GetFloat64("confidence_card_last4"),
		CardLast2:   v.GetFloat64("confidence_card_last2"),
		Amount:      v.GetFloat64("confidence_amount"),
		TextDate:    v.GetFloat64("confidence_text_date"),
		LayoutDate:  v.GetFloat64("confidence_layout_date"),
		SanityFloor: v.GetFloat64("confidence_sanity_floor"),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return errors.New("port cannot be empty")
	}
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}
	if c.MaxBatchFiles <= 0 {
		return errors.New("maximum batch files must be positive")
	}
	if c.BatchConcurrency <= 0 {
		return errors.New("batch concurrency must be positive")
	}
	if c.OCRMinTextChars < 1 {
		return errors.New("ocr_min_text_chars must be at least 1")
	}
	if c.PaddleTimeout <= 0 {
		return errors.New("paddle timeout must be positive")
	}
	if c.Extractor.WindowChars <= 0 || c.Extractor.SnippetChars <= 0 {
		return errors.New("search window and snippet sizes must be positive")
	}

	t := c.Extractor.Tiers
	for name, v := range map[string]float64{
		"card_last4":   t.CardLast4,
		"card_last2":   t.CardLast2,
		"amount":       t.Amount,
		"text_date":    t.TextDate,
		"layout_date":  t.LayoutDate,
		"sanity_floor": t.SanityFloor,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("confidence %s must be within [0, 1], got %v", name, v)
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}
	return nil
}

// Address returns the listen address for the HTTP server.
func (c *Config) Address() string {
	return ":" + c.ServerPort
}
