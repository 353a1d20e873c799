package filestorage

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// PreviewMediaType is the content type of every rendered preview.
const PreviewMediaType = "image/jpeg"

// RenderPreview decodes an image and re-encodes it as a JPEG no wider than
// width, keeping the aspect ratio. Narrower images are not upscaled.
func RenderPreview(data []byte, width int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if img.Bounds().Dx() > width {
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}
	return buf.Bytes(), nil
}
