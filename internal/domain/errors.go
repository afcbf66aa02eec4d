package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnauthorized          = errors.New("unauthorized")
	ErrUnsupportedFileType   = errors.New("unsupported file type")
	ErrFileTooLarge          = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed          = errors.New("file upload to storage failed")
	ErrUnsupportedEncoding   = errors.New("unsupported text encoding")
	ErrFileUnreadable        = errors.New("file could not be read with any candidate encoding")
	ErrMissingRequiredColumn = errors.New("required column is not mapped")
	ErrUnknownHeader         = errors.New("mapping references a header that is not in the file")
	ErrUnknownField          = errors.New("mapping references an unknown canonical field")
	ErrDuplicateIdentifier   = errors.New("identifier already exists in inventory")
	ErrSessionNotFound       = errors.New("upload session not found")
	ErrInvalidSessionState   = errors.New("operation not allowed in the current session state")
	ErrNothingToCommit       = errors.New("upload has no valid records to commit")
)

// MissingColumnsError names every required field that has no mapped header.
type MissingColumnsError struct {
	Fields []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Fields, ", "))
}

func (e *MissingColumnsError) Unwrap() error { return ErrMissingRequiredColumn }

// DuplicateIdentifiersError lists identifiers that already exist for the owner.
type DuplicateIdentifiersError struct {
	Identifiers []string
}

func (e *DuplicateIdentifiersError) Error() string {
	return fmt.Sprintf("identifiers already in inventory: %s", strings.Join(e.Identifiers, ", "))
}

func (e *DuplicateIdentifiersError) Unwrap() error { return ErrDuplicateIdentifier }
