package ocr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ridhwanrazaliwork/PR1ME-project/internal/domain"
	"github.com/ridhwanrazaliwork/PR1ME-project/internal/observability"
)

// Extractor implements domain.TextExtractor on top of an Engine.
type Extractor struct {
	engine Engine
	logger *observability.Logger
}

var _ domain.TextExtractor = (*Extractor)(nil)

// NewExtractor wraps engine; a nil logger discards output.
func NewExtractor(engine Engine, logger *observability.Logger) *Extractor {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Extractor{
		engine: engine,
		logger: logger.WithOperation("ocr"),
	}
}

// ExtractText returns the text of every detected region joined by a single
// space, in detection order. Nothing is filtered or deduplicated.
func (e *Extractor) ExtractText(ctx context.Context, imagePath string) (string, error) {
	regions, err := e.engine.Detect(ctx, imagePath)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", domain.ExtractionError("text extraction failed", fmt.Errorf("%s on %s: %w", e.engine.Name(), imagePath, err))
	}

	texts := make([]string, len(regions))
	for i, r := range regions {
		texts[i] = r.Text
	}

	e.logger.Debug().
		Str("engine", e.engine.Name()).
		Str("image", imagePath).
		Int("regions", len(regions)).
		Msg("text extracted")

	return strings.Join(texts, " "), nil
}
