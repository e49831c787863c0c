package storage

import (
	"bytes"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	LogoMaxSide  = 512
	LogoMaxBytes = 5 << 20
	logoQuality  = 82
)

var ErrUnsupportedImage = errors.New("unsupported_image")

// EncodeLogo decodes a JPEG, PNG or WebP upload, shrinks it to fit a
// LogoMaxSide square keeping its aspect ratio, and re-encodes it as WebP.
func EncodeLogo(r io.Reader) ([]byte, error) {
	src, _, err := image.Decode(io.LimitReader(r, LogoMaxBytes+1))
	if err != nil {
		return nil, ErrUnsupportedImage
	}

	img := fit(src, LogoMaxSide)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: logoQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fit(src image.Image, max int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= max && h <= max {
		return src
	}

	nw, nh := max, max
	if w > h {
		nh = h * max / w
	} else {
		nw = w * max / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
