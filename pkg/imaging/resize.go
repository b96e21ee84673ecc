package imaging

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// MaxDimension bounds uploaded image width/height. Phone camera scans easily
// exceed 4000px; storing them full size wastes bucket space for documents
// that are only ever viewed at screen resolution.
const MaxDimension = 2000

const jpegQuality = 85

// Downscale re-encodes an image so neither dimension exceeds maxDim,
// preserving aspect ratio. Images already within bounds are returned
// unchanged. Only JPEG and PNG are handled; other content is passed through.
func Downscale(data []byte, mimeType string, maxDim int) ([]byte, error) {
	if mimeType != "image/jpeg" && mimeType != "image/png" {
		return data, nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return data, nil
	}

	if w >= h {
		h = h * maxDim / w
		w = maxDim
	} else {
		w = w * maxDim / h
		h = maxDim
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, dst)
	default:
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
