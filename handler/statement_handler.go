package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Aashish23092/statement-parser/dto"
	"github.com/Aashish23092/statement-parser/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// StatementParser is the part of service.StatementService the handler needs.
type StatementParser interface {
	ParseDocument(ctx context.Context, doc service.Document) dto.DocumentResult
	ParseBatch(ctx context.Context, docs []service.Document) []dto.DocumentResult
	Inspect(data []byte, filename string) (*dto.InspectResponse, error)
}

type StatementExporter interface {
	ExportXLSX(results []dto.DocumentResult) ([]byte, error)
}

type StatementHandler struct {
	parser        StatementParser
	exporter      StatementExporter
	logger        *zap.Logger
	maxFileSize   int64
	maxBatchFiles int
}

func NewStatementHandler(parser StatementParser, exporter StatementExporter, logger *zap.Logger, maxFileSize int64, maxBatchFiles int) *StatementHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatementHandler{
		parser:        parser,
		exporter:      exporter,
		logger:        logger,
		maxFileSize:   maxFileSize,
		maxBatchFiles: maxBatchFiles,
	}
}

// ParseStatement handles POST /statements/parse
func (h *StatementHandler) ParseStatement(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "file is required", err)
		return
	}

	request := &dto.StatementParseRequest{
		File:       file,
		Password:   c.PostForm("password"),
		IssuerHint: c.PostForm("issuer"),
	}
	if err := request.Validate(h.maxFileSize); err != nil {
		h.sendError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	data, err := readUpload(request.File)
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "failed to read upload", err)
		return
	}

	result := h.parser.ParseDocument(c.Request.Context(), service.Document{
		Filename:   request.File.Filename,
		Data:       data,
		Password:   request.Password,
		IssuerHint: request.IssuerHint,
	})
	if !result.Success {
		status, code := statusFor(result.ErrorType)
		h.sendError(c, status, code, result.Error, nil)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ParseBatch handles POST /statements/parse/batch
func (h *StatementHandler) ParseBatch(c *gin.Context) {
	docs, ok := h.batchDocuments(c)
	if !ok {
		return
	}

	results := h.parser.ParseBatch(c.Request.Context(), docs)

	response := dto.BatchParseResponse{
		Documents:   results,
		ProcessedAt: time.Now().Format(time.RFC3339),
	}
	for _, r := range results {
		if r.Success {
			response.Succeeded++
		} else {
			response.Failed++
		}
	}

	h.logger.Info("batch parsed",
		zap.Int("documents", len(results)),
		zap.Int("failed", response.Failed))
	c.JSON(http.StatusOK, response)
}

// ExportStatements handles POST /statements/export. It parses the uploaded batch and
// returns the results as an XLSX workbook.
func (h *StatementHandler) ExportStatements(c *gin.Context) {
	docs, ok := h.batchDocuments(c)
	if !ok {
		return
	}

	results := h.parser.ParseBatch(c.Request.Context(), docs)
	data, err := h.exporter.ExportXLSX(results)
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "EXPORT_FAILED", "failed to build workbook", err)
		return
	}

	filename := fmt.Sprintf("statements-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// InspectStatement handles POST /statements/inspect
func (h *StatementHandler) InspectStatement(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "file is required", err)
		return
	}
	request := &dto.StatementParseRequest{File: file}
	if err := request.Validate(h.maxFileSize); err != nil {
		h.sendError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	data, err := readUpload(file)
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "failed to read upload", err)
		return
	}

	info, err := h.parser.Inspect(data, file.Filename)
	if err != nil {
		status, code := statusFor(service.ErrorKind(err))
		h.sendError(c, status, code, err.Error(), nil)
		return
	}
	c.JSON(http.StatusOK, info)
}

// batchDocuments reads files[] and the optional metadata field. It writes the
// error response itself and reports false when the request is unusable.
func (h *StatementHandler) batchDocuments(c *gin.Context) ([]service.Document, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "failed to parse multipart form", err)
		return nil, false
	}

	request := &dto.BatchParseRequest{Files: form.File["files[]"]}
	if raw := c.PostForm("metadata"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &request.Metadata); err != nil {
			h.sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid metadata JSON", err)
			return nil, false
		}
	}
	if err := request.Validate(h.maxBatchFiles, h.maxFileSize); err != nil {
		h.sendError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return nil, false
	}

	docs := make([]service.Document, 0, len(request.Files))
	for _, f := range request.Files {
		data, err := readUpload(f)
		if err != nil {
			h.sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "failed to read "+f.Filename, err)
			return nil, false
		}
		meta := request.Metadata.MetaFor(f.Filename)
		docs = append(docs, service.Document{
			Filename:   f.Filename,
			Data:       data,
			Password:   meta.Password,
			IssuerHint: meta.IssuerHint,
		})
	}
	return docs, true
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func statusFor(kind dto.ErrorKind) (int, string) {
	switch kind {
	case dto.ErrorKindPasswordRequired:
		return http.StatusUnauthorized, "PASSWORD_REQUIRED"
	case dto.ErrorKindEmpty:
		return http.StatusUnprocessableEntity, "EMPTY_DOCUMENT"
	default:
		return http.StatusUnprocessableEntity, "UNREADABLE_DOCUMENT"
	}
}

// sendError sends a structured error response
func (h *StatementHandler) sendError(c *gin.Context, statusCode int, code, message string, err error) {
	if err != nil {
		h.logger.Warn(message, zap.Error(err), zap.Int("status", statusCode))
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   code,
		Message: message,
		Code:    statusCode,
	})
}
