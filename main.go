package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Aashish23092/statement-parser/client"
	"github.com/Aashish23092/statement-parser/config"
	"github.com/Aashish23092/statement-parser/handler"
	"github.com/Aashish23092/statement-parser/metrics"
	"github.com/Aashish23092/statement-parser/service"
	"github.com/Aashish23092/statement-parser/utils/statement"
)

func main() {
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	// OCR engines, tried in order
	var engines []client.OCREngine
	if cfg.PaddleAPIURL != "" {
		engines = append(engines, client.NewPaddleClient(cfg.PaddleAPIURL, cfg.PaddleTimeout, logger))
	}
	engines = append(engines, client.NewTesseractClient(cfg.TesseractDataPath))

	m := metrics.New()
	statementService := service.NewStatementService(
		service.NewPDFProcessor(),
		engines,
		statement.NewExtractor(cfg.Extractor),
		m,
		logger,
		service.StatementOptions{
			MinTextChars:     cfg.OCRMinTextChars,
			BatchConcurrency: cfg.BatchConcurrency,
		},
	)
	statementHandler := handler.NewStatementHandler(
		statementService,
		service.NewExportService(),
		logger,
		cfg.MaxFileSize,
		cfg.MaxBatchFiles,
	)

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), m.Middleware())

	// Configure max multipart memory (32 MB)
	router.MaxMultipartMemory = 32 << 20

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Credit Card Statement Parser",
		})
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))

	api := router.Group("/api/v1")
	{
		statements := api.Group("/statements")
		{
			statements.POST("/parse", statementHandler.ParseStatement)
			statements.POST("/parse/batch", statementHandler.ParseBatch)
			statements.POST("/export", statementHandler.ExportStatements)
			statements.POST("/inspect", statementHandler.InspectStatement)
		}
	}

	logger.Info("starting statement parser",
		zap.String("addr", cfg.Address()),
		zap.Bool("paddle_enabled", cfg.PaddleAPIURL != ""),
		zap.String("tessdata", cfg.TesseractDataPath))
	if err := router.Run(cfg.Address()); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}

	cfg := zap.NewProductionConfig()
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg.Level = lvl
	return cfg.Build()
}
