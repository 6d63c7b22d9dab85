package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/harshitnub077/SynapticCare-sub000/pkg/logger"
)

// Extraction failure taxonomy. Callers branch on these with errors.Is;
// the cause is carried in the wrapped message.
var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrExtractionFailed     = errors.New("extraction failed")
)

// Metadata describes how the text was obtained.
type Metadata struct {
	Pages      int     `json:"pages,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Source     string  `json:"source"`
}

// Result is the outcome of a successful extraction. Text may be empty
// when the document holds no recognizable text; the empty-text policy
// belongs to the caller.
type Result struct {
	Text string
	Meta Metadata
}

// Extractor converts one media family into raw text.
type Extractor interface {
	Extract(ctx context.Context, r io.Reader) (*Result, error)
}

var extToMIME = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".tiff": "image/tiff",
	".webp": "image/webp",
}

// MediaTypeForExt maps a file extension to the declared media type the
// service dispatches on.
func MediaTypeForExt(ext string) (string, bool) {
	mt, ok := extToMIME[strings.ToLower(ext)]
	return mt, ok
}

// Service dispatches extraction by media type.
type Service struct {
	extractors map[string]Extractor
	logger     logger.Logger
}

// ServiceOption customizes extractor registration.
type ServiceOption func(*Service)

// WithExtractor registers (or overrides) the extractor for a media type.
func WithExtractor(mediaType string, e Extractor) ServiceOption {
	return func(s *Service) {
		s.extractors[normalizeMediaType(mediaType)] = e
	}
}

// NewService builds the extraction service with the default PDF and
// tesseract OCR extractors registered.
func NewService(log logger.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		extractors: make(map[string]Extractor),
		logger:     log,
	}

	s.extractors["application/pdf"] = NewPDFExtractor(log)

	ocr := NewOCRExtractor(log, nil)
	for _, mt := range []string{"image/jpeg", "image/png", "image/tiff", "image/webp"} {
		s.extractors[mt] = ocr
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Extract runs the extractor registered for the declared media type.
func (s *Service) Extract(ctx context.Context, r io.Reader, mediaType string) (*Result, error) {
	mt := normalizeMediaType(mediaType)

	extractor, ok := s.extractors[mt]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mediaType)
	}

	result, err := extractor.Extract(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrExtractionFailed, err)
	}

	s.logger.Debug("extraction completed",
		logger.String("mediaType", mt),
		logger.String("source", result.Meta.Source),
		logger.Int("chars", len(result.Text)),
	)

	return result, nil
}

func normalizeMediaType(mediaType string) string {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if mt == "image/jpg" {
		mt = "image/jpeg"
	}
	return mt
}
