package extract

import (
	"context"
	"fmt"
	"io"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	"github.com/harshitnub077/SynapticCare-sub000/pkg/logger"
)

// TextractConfig carries the AWS credentials for the managed OCR
// backend.
type TextractConfig struct {
	Region    string
	AccessKey string
	SecretKey string
}

// TextractExtractor is the cloud alternative to the local tesseract
// extractor, selected by configuration when AWS credentials are
// present.
type TextractExtractor struct {
	client *textract.Client
	logger logger.Logger
}

func NewTextractExtractor(ctx context.Context, cfg *TextractConfig, log logger.Logger) (*TextractExtractor, error) {
	creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	return &TextractExtractor{
		client: textract.NewFromConfig(awsCfg),
		logger: log,
	}, nil
}

func (e *TextractExtractor) Extract(ctx context.Context, r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	out, err := e.client.DetectDocumentText(ctx, &textract.DetectDocumentTextInput{
		Document: &types.Document{Bytes: data},
	})
	if err != nil {
		return nil, fmt.Errorf("textract call failed: %w", err)
	}

	var lines []string
	var total float64
	var n int
	for _, block := range out.Blocks {
		if block.BlockType != types.BlockTypeLine || block.Text == nil {
			continue
		}
		lines = append(lines, *block.Text)
		if block.Confidence != nil {
			total += float64(*block.Confidence)
			n++
		}
	}

	confidence := 0.0
	if n > 0 {
		confidence = total / float64(n)
	}

	return &Result{
		Text: strings.Join(lines, "\n"),
		Meta: Metadata{
			Pages:      1,
			Confidence: confidence,
			Source:     "textract",
		},
	}, nil
}
