package domain

import "context"

// Rasterizer renders every page of a PDF into a standalone image
type Rasterizer interface {
	// Convert writes one image per page into outDir, in page order
	Convert(ctx context.Context, pdfPath, outDir string) ([]PageImage, error)
}

// TextExtractor runs OCR over a single image file
type TextExtractor interface {
	// ExtractText returns the space-joined text of all detected regions
	ExtractText(ctx context.Context, imagePath string) (string, error)
}

// Completer is the hosted LLM capability
type Completer interface {
	// Complete sends role-tagged messages and returns the model's answer
	Complete(ctx context.Context, messages []Message) (string, error)
}
