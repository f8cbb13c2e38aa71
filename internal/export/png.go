// Package export flattens the canvas into standard file formats.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
)

// EncodePNG encodes img losslessly at its native resolution.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("export: png: %w", err)
	}
	return buf.Bytes(), nil
}
