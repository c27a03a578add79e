package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

// TGA errors.
var (
	ErrTGATruncated   = errors.New("TGA data truncated")
	ErrTGAUnsupported = errors.New("unsupported TGA variant")
)

type tgaHeader struct {
	idLength    int
	colorMap    byte
	imageType   byte
	width       int
	height      int
	bpp         int
	topToBottom bool
}

func parseTGAHeader(data []byte) (tgaHeader, error) {
	if len(data) < 18 {
		return tgaHeader{}, fmt.Errorf("%w: header", ErrTGATruncated)
	}
	h := tgaHeader{
		idLength:    int(data[0]),
		colorMap:    data[1],
		imageType:   data[2],
		width:       int(data[12]) | int(data[13])<<8,
		height:      int(data[14]) | int(data[15])<<8,
		bpp:         int(data[16]),
		topToBottom: data[17]&0x20 != 0,
	}
	if h.colorMap != 0 {
		return h, fmt.Errorf("%w: color-mapped", ErrTGAUnsupported)
	}
	if h.imageType != TGATypeUncompressed && h.imageType != TGATypeRLE {
		return h, fmt.Errorf("%w: type %d", ErrTGAUnsupported, h.imageType)
	}
	if h.bpp != 24 && h.bpp != 32 {
		return h, fmt.Errorf("%w: %d bits per pixel", ErrTGAUnsupported, h.bpp)
	}
	return h, nil
}

// DecodeTGA decodes uncompressed (type 2) and RLE (type 10) true-color TGA
// data into an image with row 0 at the top.
func DecodeTGA(data []byte) (image.Image, error) {
	h, err := parseTGAHeader(data)
	if err != nil {
		return nil, err
	}

	offset := 18 + h.idLength
	if offset > len(data) {
		return nil, fmt.Errorf("%w: image ID", ErrTGATruncated)
	}
	pixels := data[offset:]

	img := image.NewRGBA(image.Rect(0, 0, h.width, h.height))
	bytesPerPixel := h.bpp / 8
	total := h.width * h.height

	// put stores the n-th pixel in file order.
	put := func(n int, px []byte) {
		x, y := n%h.width, n/h.width
		if !h.topToBottom {
			y = h.height - 1 - y
		}
		a := uint8(255)
		if bytesPerPixel == 4 {
			a = px[3]
		}
		img.SetRGBA(x, y, color.RGBA{R: px[2], G: px[1], B: px[0], A: a})
	}

	if h.imageType == TGATypeUncompressed {
		if len(pixels) < total*bytesPerPixel {
			return nil, fmt.Errorf("%w: pixel data", ErrTGATruncated)
		}
		for n := 0; n < total; n++ {
			put(n, pixels[n*bytesPerPixel:])
		}
		return img, nil
	}

	n, i := 0, 0
	for n < total {
		if i >= len(pixels) {
			return nil, fmt.Errorf("%w: RLE packet %d", ErrTGATruncated, n)
		}
		packet := pixels[i]
		i++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// Run: one pixel repeated.
			if i+bytesPerPixel > len(pixels) {
				return nil, fmt.Errorf("%w: RLE run", ErrTGATruncated)
			}
			px := pixels[i : i+bytesPerPixel]
			i += bytesPerPixel
			for k := 0; k < count && n < total; k++ {
				put(n, px)
				n++
			}
			continue
		}

		// Raw: count literal pixels.
		if i+count*bytesPerPixel > len(pixels) {
			return nil, fmt.Errorf("%w: RLE raw packet", ErrTGATruncated)
		}
		for k := 0; k < count && n < total; k++ {
			put(n, pixels[i:])
			i += bytesPerPixel
			n++
		}
	}

	return img, nil
}
