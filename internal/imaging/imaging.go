package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

const (
	MaxUploadBytes = 5 << 20
	Quality        = 80
	ContentType    = "image/webp"
)

// Size is a target box for cover resizing.
type Size struct {
	Width  int
	Height int
}

var (
	Portfolio = Size{Width: 800, Height: 600}
	Avatar    = Size{Width: 400, Height: 400}
)

// CheckUpload rejects anything that is not an image or is larger than 5 MB.
func CheckUpload(contentType string, size int64) error {
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return httperr.ErrValidation("invalid_file_type")
	}
	if size > MaxUploadBytes {
		return httperr.ErrValidation("file_too_large")
	}
	return nil
}

// Cover scales src so it fills box completely and crops the overflow
// around the centre.
func Cover(src image.Image, box Size) image.Image {
	b := src.Bounds()
	sw, sh := b.Dx(), b.Dy()

	dst := image.NewRGBA(image.Rect(0, 0, box.Width, box.Height))
	if sw == 0 || sh == 0 {
		return dst
	}

	// crop the source to the box's aspect ratio
	cropW, cropH := sw, sh
	if sw*box.Height > sh*box.Width {
		cropW = sh * box.Width / box.Height
	} else {
		cropH = sw * box.Height / box.Width
	}
	x0 := b.Min.X + (sw-cropW)/2
	y0 := b.Min.Y + (sh-cropH)/2
	sr := image.Rect(x0, y0, x0+cropW, y0+cropH)

	draw.CatmullRom.Scale(dst, dst.Bounds(), src, sr, draw.Over, nil)
	return dst
}

// Process decodes an uploaded image, cover-resizes it to box and encodes
// the result as WebP.
func Process(r io.Reader, box Size) ([]byte, error) {
	src, _, err := image.Decode(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, httperr.ErrValidation("invalid_image")
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, Cover(src, box), &webp.Options{Quality: Quality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}
