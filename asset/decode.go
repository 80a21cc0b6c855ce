// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package asset

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"github.com/gabriel-vasile/mimetype"
)

// ErrFormat means that asset data is not a supported
// image format.
var ErrFormat = errors.New("asset: unsupported format")

// Decode decodes image data, sniffing its format from
// the content rather than from name.
func Decode(name string, data []byte) (image.Image, error) {
	mt := mimetype.Detect(data)
	var (
		img image.Image
		err error
	)
	switch {
	case mt.Is("image/png"):
		img, err = png.Decode(bytes.NewReader(data))
	case mt.Is("image/jpeg"):
		img, err = jpeg.Decode(bytes.NewReader(data))
	case mt.Is("image/gif"):
		img, err = gif.Decode(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %s is %s", ErrFormat, name, mt.String())
	}
	if err != nil {
		return nil, fmt.Errorf("asset: decoding %s: %w", name, err)
	}
	return img, nil
}
