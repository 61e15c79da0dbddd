package dto

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
)

// StatementParseRequest is a single uploaded statement.
type StatementParseRequest struct {
	File       *multipart.FileHeader
	Password   string
	IssuerHint string
}

// Validate validates the parse request
func (r *StatementParseRequest) Validate(maxFileSize int64) error {
	if r.File == nil {
		return errors.New("file is required")
	}
	return validateStatementFile(r.File, maxFileSize)
}

// DocumentMeta carries per-file options for batch uploads.
type DocumentMeta struct {
	Filename   string `json:"filename"`
	Password   string `json:"password,omitempty"`
	IssuerHint string `json:"issuer,omitempty"`
}

type UploadMetadata struct {
	Documents []DocumentMeta `json:"documents"`
}

// BatchParseRequest represents several statements uploaded together
type BatchParseRequest struct {
	Files    []*multipart.FileHeader
	Metadata UploadMetadata
}

func (r *BatchParseRequest) Validate(maxFiles int, maxFileSize int64) error {
	if len(r.Files) == 0 {
		return ErrNoFiles
	}
	if maxFiles > 0 && len(r.Files) > maxFiles {
		return fmt.Errorf("too many files: %d (max %d)", len(r.Files), maxFiles)
	}
	for _, f := range r.Files {
		if err := validateStatementFile(f, maxFileSize); err != nil {
			return err
		}
	}
	return nil
}

// MetaFor returns the metadata entry for filename, or an empty one.
func (m UploadMetadata) MetaFor(filename string) DocumentMeta {
	for _, d := range m.Documents {
		if d.Filename == filename {
			return d
		}
	}
	return DocumentMeta{Filename: filename}
}

func validateStatementFile(f *multipart.FileHeader, maxFileSize int64) error {
	if !strings.HasSuffix(strings.ToLower(f.Filename), ".pdf") {
		return fmt.Errorf("invalid file type for %s. Supported: PDF", f.Filename)
	}
	if maxFileSize > 0 && f.Size > maxFileSize {
		return fmt.Errorf("file %s exceeds maximum size of %d bytes", f.Filename, maxFileSize)
	}
	return nil
}
