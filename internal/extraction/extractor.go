// Package extraction turns uploaded resume documents into validated plain text.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"

	"github.com/jonathan/internship-matcher/internal/types"
)

// Default limits.
const (
	DefaultMaxBytes = 10 * 1024 * 1024
	DefaultMinBytes = 100
	DefaultMinChars = 100
)

// Result is the raw output of a Backend.
type Result struct {
	Text  string
	Pages int
}

// Backend extracts raw text from one document format.
// Returned errors may wrap ErrEncrypted or ErrNoPages to aid classification.
type Backend interface {
	Extract(data []byte) (Result, error)
}

// Config holds extraction limits and the accepted media types.
type Config struct {
	MaxBytes int
	MinBytes int
	MinChars int
	// AllowDOCX accepts Word documents alongside PDF
	AllowDOCX bool
}

// DefaultConfig returns the default extraction limits (PDF only).
func DefaultConfig() Config {
	return Config{
		MaxBytes: DefaultMaxBytes,
		MinBytes: DefaultMinBytes,
		MinChars: DefaultMinChars,
	}
}

// Extractor validates documents and extracts their text.
type Extractor struct {
	config   Config
	backends map[string]Backend
}

// New creates an Extractor with the PDF backend, plus DOCX when enabled.
func New(config Config) *Extractor {
	e := &Extractor{
		config:   config,
		backends: map[string]Backend{types.MediaTypePDF: PDFBackend{}},
	}
	if config.AllowDOCX {
		e.backends[types.MediaTypeDOCX] = DOCXBackend{}
	}
	return e
}

// WithBackend registers or replaces the backend for a media type.
func (e *Extractor) WithBackend(mediaType string, backend Backend) *Extractor {
	e.backends[mediaType] = backend
	return e
}

// Accepts reports whether mediaType has a registered backend.
func (e *Extractor) Accepts(mediaType string) bool {
	_, ok := e.backends[normalizeMediaType(mediaType)]
	return ok
}

// Extract validates doc, extracts its text and checks the result is long enough
// to be a resume. Failures are *Error values, except a context that is
// already done, whose error is returned as is.
func (e *Extractor) Extract(ctx context.Context, doc types.Document) (*types.ExtractedText, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mediaType := normalizeMediaType(doc.MediaType)

	backend, err := e.validate(doc, mediaType)
	if err != nil {
		return nil, err
	}

	result, err := runBackend(backend, doc.Data)
	if err != nil {
		classified := classifyFault(err)
		log.Printf("[extract] %s failed for %q: %v", mediaType, doc.Name, err)
		return nil, classified
	}

	text := CleanText(result.Text)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "")
	}

	length := utf8.RuneCountInString(text)
	if length == 0 {
		return nil, newError(KindNoExtractableText, nil,
			"No text could be extracted. This may be a scanned document or image-based file. Please upload a text-based resume.")
	}
	if length < e.config.MinChars {
		return nil, newError(KindTooShort, nil,
			"The extracted text is too short (%d characters). Please ensure you are uploading a complete resume.", length)
	}

	return &types.ExtractedText{
		Text:        text,
		MediaType:   mediaType,
		SourceBytes: doc.Size(),
		Pages:       result.Pages,
		Hash:        computeHash(text),
	}, nil
}

// validate runs the pre-extraction checks and returns the backend to use
func (e *Extractor) validate(doc types.Document, mediaType string) (Backend, error) {
	backend, ok := e.backends[mediaType]
	if !ok {
		return nil, newError(KindInvalidFormat, nil,
			"Unsupported file type %q. Please upload %s.", doc.MediaType, e.acceptedLabel())
	}

	size := doc.Size()
	switch {
	case size == 0:
		return nil, newError(KindEmpty, nil, "The file is empty. Please upload a valid resume.")
	case e.config.MaxBytes > 0 && size > e.config.MaxBytes:
		return nil, newError(KindInvalidFormat, nil,
			"File size exceeds the %dMB limit. Please upload a smaller file.", e.config.MaxBytes/(1024*1024))
	case size < e.config.MinBytes:
		return nil, newError(KindEmpty, nil, "The file appears to be empty or corrupted. Please upload a valid resume.")
	}

	if !contentMatches(mediaType, doc.Data) {
		detected := mimetype.Detect(doc.Data).String()
		return nil, newError(KindInvalidFormat, fmt.Errorf("content detected as %s", detected),
			"The file content does not match its declared type. Please upload %s.", e.acceptedLabel())
	}

	return backend, nil
}

func (e *Extractor) acceptedLabel() string {
	if _, ok := e.backends[types.MediaTypeDOCX]; ok {
		return "a PDF or DOCX file"
	}
	return "a PDF file"
}

// runBackend calls the backend, turning a panic inside a third-party parser into an error
func runBackend(backend Backend, data []byte) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parser panic: %v", r)
		}
	}()
	return backend.Extract(data)
}

// classifyFault maps a backend fault onto the extraction taxonomy.
func classifyFault(err error) *Error {
	msg := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, ErrEncrypted) || strings.Contains(msg, "password") || strings.Contains(msg, "encrypt"):
		return newError(KindEncrypted, err,
			"The file is password-protected. Please remove the password and upload it again.")
	case errors.Is(err, ErrNoPages) || strings.Contains(msg, "no pages") || strings.Contains(msg, "zero pages"):
		return newError(KindNoExtractableText, err,
			"The document has no readable pages. Please upload a text-based resume.")
	default:
		return newError(KindUnreadable, err,
			"The file could not be read. It may be corrupted; try exporting it again and re-uploading.")
	}
}

// contentMatches sniffs the leading bytes and checks them against the declared type
func contentMatches(mediaType string, data []byte) bool {
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		if m.Is(mediaType) {
			return true
		}
		// Word documents are zip containers; detection may stop at the container.
		if mediaType == types.MediaTypeDOCX && m.Is("application/zip") {
			return true
		}
	}
	return false
}

func normalizeMediaType(mediaType string) string {
	if idx := strings.Index(mediaType, ";"); idx >= 0 {
		mediaType = mediaType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}
