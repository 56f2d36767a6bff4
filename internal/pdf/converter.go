// Package pdf renders uploaded PDF documents into one image per page.
package pdf

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"

	"github.com/ridhwanrazaliwork/PR1ME-project/internal/domain"
)

// DefaultDPI is the native PDF resolution (one pixel per point).
const DefaultDPI = 72.0

// Converter implements domain.Rasterizer using go-fitz (MuPDF).
type Converter struct {
	dpi float64
}

var _ domain.Rasterizer = (*Converter)(nil)

// NewConverter creates a converter rendering at dpi; non-positive values
// fall back to DefaultDPI.
func NewConverter(dpi float64) *Converter {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Converter{dpi: dpi}
}

// DPI returns the render resolution.
func (c *Converter) DPI() float64 {
	return c.dpi
}

// Convert renders every page of pdfPath, in order, to outDir/page_<n>.png.
// outDir must exist and is owned by the caller.
func (c *Converter) Convert(ctx context.Context, pdfPath, outDir string) ([]domain.PageImage, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, domain.DocumentFormatError("failed to open PDF", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount == 0 {
		return nil, domain.DocumentFormatError("PDF has no pages", nil)
	}

	images := make([]domain.PageImage, 0, pageCount)

	for pageNum := 0; pageNum < pageCount; pageNum++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		pageImage, err := c.renderPage(doc, pageNum, outDir)
		if err != nil {
			return nil, err
		}
		images = append(images, pageImage)
	}

	return images, nil
}

func (c *Converter) renderPage(doc *fitz.Document, pageNum int, outDir string) (domain.PageImage, error) {
	number := pageNum + 1

	img, err := doc.ImageDPI(pageNum, c.dpi)
	if err != nil {
		return domain.PageImage{}, domain.DocumentFormatError(fmt.Sprintf("failed to render page %d", number), err)
	}

	outputPath := filepath.Join(outDir, domain.PageKey(number)+".png")
	outputFile, err := os.Create(outputPath)
	if err != nil {
		return domain.PageImage{}, domain.IOError(fmt.Sprintf("failed to create image for page %d", number), err)
	}

	err = png.Encode(outputFile, img)
	closeErr := outputFile.Close()
	if err != nil {
		return domain.PageImage{}, domain.IOError(fmt.Sprintf("failed to encode page %d as PNG", number), err)
	}
	if closeErr != nil {
		return domain.PageImage{}, domain.IOError(fmt.Sprintf("failed to write page %d", number), closeErr)
	}

	bounds := img.Bounds()
	return domain.PageImage{
		PageNumber: number,
		ImagePath:  outputPath,
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
	}, nil
}
