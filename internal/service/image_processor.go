package service

import (
	"fmt"

	"github.com/h2non/bimg"
)

// ImageProcessor turns a downloaded illustration into a PNG card of fixed width.
// It uses bimg (bindings for libvips), which must be installed on the system.
type ImageProcessor struct {
	width int
}

// NewImageProcessor creates a processor producing cards width pixels wide.
func NewImageProcessor(width int) *ImageProcessor {
	return &ImageProcessor{width: width}
}

// Card resizes imageData (any format libvips reads) to the card width,
// keeping the aspect ratio, and encodes it as PNG.
func (p *ImageProcessor) Card(imageData []byte) ([]byte, error) {
	if p.width <= 0 {
		return nil, fmt.Errorf("invalid card width %d", p.width)
	}

	card, err := bimg.NewImage(imageData).Process(bimg.Options{
		Width:          p.width,
		Type:           bimg.PNG,
		Enlarge:        true,
		Interpretation: bimg.InterpretationSRGB,
	})
	if err != nil {
		return nil, fmt.Errorf("resizing to %dpx wide: %w", p.width, err)
	}

	return card, nil
}
