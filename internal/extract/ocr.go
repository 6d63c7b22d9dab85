package extract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/harshitnub077/SynapticCare-sub000/pkg/logger"
)

// OCROptions controls the tesseract run and the preprocessing chain
// applied before it.
type OCROptions struct {
	Languages     []string
	PageSegMode   gosseract.PageSegMode
	MinConfidence float64
	Preprocessors []Preprocessor
}

func defaultOCROptions() *OCROptions {
	return &OCROptions{
		Languages:     []string{"eng"},
		PageSegMode:   gosseract.PSM_AUTO,
		MinConfidence: 60.0,
		Preprocessors: []Preprocessor{
			NewGrayscaleProcessor(),
			NewContrastProcessor(10),
			NewSharpenProcessor(0.5),
		},
	}
}

// OCRExtractor runs optical character recognition on raster images.
// A fresh tesseract client is created per call; gosseract clients are
// not safe for concurrent reuse.
type OCRExtractor struct {
	logger logger.Logger
	opts   *OCROptions
}

func NewOCRExtractor(log logger.Logger, opts *OCROptions) *OCRExtractor {
	if opts == nil {
		opts = defaultOCROptions()
	}
	return &OCRExtractor{logger: log, opts: opts}
}

func (e *OCRExtractor) Extract(ctx context.Context, r io.Reader) (*Result, error) {
	imageData, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	processed, err := applyPreprocessing(img, e.opts.Preprocessors)
	if err != nil {
		return nil, fmt.Errorf("failed to preprocess image: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(strings.Join(e.opts.Languages, "+")); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetPageSegMode(e.opts.PageSegMode); err != nil {
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, processed, &jpeg.Options{Quality: 100}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("failed to run ocr: %w", err)
	}

	confidence := e.meanConfidence(client, text)

	return &Result{
		Text: text,
		Meta: Metadata{
			Pages:      1,
			Confidence: confidence,
			Source:     "tesseract",
		},
	}, nil
}

func (e *OCRExtractor) meanConfidence(client *gosseract.Client, text string) float64 {
	boxes, err := client.GetBoundingBoxesVerbose()
	if err != nil {
		e.logger.Warn("failed to get ocr confidence", logger.Error(err))
		return 0
	}

	var total float64
	var n int
	for _, box := range boxes {
		if box.Confidence >= e.opts.MinConfidence {
			total += box.Confidence
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}
