package loader

import (
	"fmt"
	"image"
	"os"

	// Decoders registered with image.Decode.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageSource loads image bytes at a path and decodes them into a 2D pixel buffer.
// Implementations must be safe for concurrent use; the loader calls Open from worker goroutines.
type ImageSource interface {
	// Open decodes the image at the given path.
	//
	// Parameters:
	//   - path: the image location
	//
	// Returns:
	//   - image.Image: the decoded image
	//   - error: error if the image could not be read or decoded
	Open(path string) (image.Image, error)
}

// fileImageSource decodes images from the local filesystem. PNG and JPEG come from the standard
// library, BMP, TIFF and WebP from golang.org/x/image.
type fileImageSource struct{}

// NewFileImageSource returns an ImageSource reading from the local filesystem.
func NewFileImageSource() ImageSource {
	return fileImageSource{}
}

func (fileImageSource) Open(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if b := img.Bounds(); b.Empty() {
		return nil, fmt.Errorf("%s image %s has no pixels", format, path)
	}
	return img, nil
}
