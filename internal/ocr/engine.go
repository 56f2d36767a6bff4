// Package ocr turns page and image files into plain text.
package ocr

import (
	"context"
	"image"
)

// Region is one text line detected on an image.
type Region struct {
	Text       string
	Bounds     image.Rectangle
	Confidence float64 // 0..100 as reported by the engine
}

// Engine detects text regions on an image file, in reading order.
type Engine interface {
	Name() string
	Detect(ctx context.Context, imagePath string) ([]Region, error)
}
