package images

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"log/slog"

	_ "golang.org/x/image/webp" // Register WebP decoder
)

// maxUploadBytes caps a single uploaded image at 10MB.
const maxUploadBytes = 10 * 1024 * 1024

// allowedFormats maps decoder format names to the file extension we store.
var allowedFormats = map[string]string{
	"jpeg": "jpg",
	"png":  "png",
	"gif":  "gif",
	"webp": "webp",
}

// ProcessedImage is the result of validating one uploaded image.
type ProcessedImage struct {
	Format   string // Normalized extension (jpg, png, gif, webp)
	Blurhash string
	Data     []byte
	Width    int
	Height   int
}

// Processor validates uploaded images and computes their placeholder hashes.
type Processor struct {
	logger *slog.Logger
}

// NewProcessor creates a new Processor instance.
func NewProcessor(logger *slog.Logger) *Processor {
	return &Processor{
		logger: logger,
	}
}

// Process decodes uploaded image bytes, rejecting unsupported formats and
// oversized files, and computes a BlurHash placeholder for the image.
func (p *Processor) Process(imgData []byte) (*ProcessedImage, error) {
	if len(imgData) == 0 {
		return nil, fmt.Errorf("image data cannot be empty")
	}
	if len(imgData) > maxUploadBytes {
		return nil, fmt.Errorf("image exceeds maximum size of %d bytes", maxUploadBytes)
	}

	img, format, err := image.Decode(bytes.NewReader(imgData))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	ext, ok := allowedFormats[format]
	if !ok {
		return nil, fmt.Errorf("unsupported image format %q", format)
	}

	hash, err := ComputeBlurHash(img)
	if err != nil {
		p.logger.Warn("failed to compute blurhash",
			"format", format,
			"error", err,
		)
		// A missing placeholder is not fatal, the image is still usable.
		hash = ""
	}

	bounds := img.Bounds()
	return &ProcessedImage{
		Format:   ext,
		Blurhash: hash,
		Data:     imgData,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
	}, nil
}
