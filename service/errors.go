package service

import (
	"errors"
	"strings"

	"github.com/Aashish23092/statement-parser/dto"
)

var (
	ErrPasswordRequired   = errors.New("statement is password protected and the password is missing or wrong")
	ErrUnreadableDocument = errors.New("statement could not be read")
	ErrEmptyDocument      = errors.New("statement has no pages")
)

// ErrorKind maps a processing error to the kind reported to clients.
func ErrorKind(err error) dto.ErrorKind {
	switch {
	case errors.Is(err, ErrPasswordRequired):
		return dto.ErrorKindPasswordRequired
	case errors.Is(err, ErrEmptyDocument):
		return dto.ErrorKindEmpty
	default:
		return dto.ErrorKindUnreadable
	}
}

// isPasswordError recognizes password failures from the PDF libraries, which do
// not export typed errors for them.
func isPasswordError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "password") || strings.Contains(msg, "encrypted")
}

func isNotEncryptedError(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "not encrypted")
}
