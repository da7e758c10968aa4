package layout

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	// Register decoders for the formats assets arrive in.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
)

// DPI is the raster density used when converting slide inches to pixels.
const DPI = 96

// FitMode selects how an image is mapped onto its target box.
type FitMode int

const (
	// FitCover scales and center-crops so the image exactly fills the
	// box. Used for content images.
	FitCover FitMode = iota
	// FitContain scales the whole image inside the box and pads with
	// transparency. Used for logos, which must not be cropped.
	FitContain
)

// FitImage renders src into a boxW x boxH inch box according to mode
// and returns the result encoded as PNG. The output dimensions equal
// the box dimensions at DPI resolution, so downstream placement needs
// no further aspect math.
func FitImage(src []byte, boxW, boxH float64, mode FitMode) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	tw := int(math.Round(boxW * DPI))
	th := int(math.Round(boxH * DPI))
	if tw < 1 || th < 1 {
		return nil, fmt.Errorf("target box %gx%g too small", boxW, boxH)
	}

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	bounds := img.Bounds()
	sw, sh := bounds.Dx(), bounds.Dy()
	if sw == 0 || sh == 0 {
		return nil, fmt.Errorf("source image is empty")
	}

	switch mode {
	case FitCover:
		// Scale by the larger relative axis, then crop the centered
		// region by selecting a reduced source rectangle.
		scale := math.Max(float64(tw)/float64(sw), float64(th)/float64(sh))
		cropW := int(math.Round(float64(tw) / scale))
		cropH := int(math.Round(float64(th) / scale))
		if cropW > sw {
			cropW = sw
		}
		if cropH > sh {
			cropH = sh
		}
		sx := bounds.Min.X + (sw-cropW)/2
		sy := bounds.Min.Y + (sh-cropH)/2
		srcRect := image.Rect(sx, sy, sx+cropW, sy+cropH)
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, srcRect, xdraw.Over, nil)

	case FitContain:
		scale := math.Min(float64(tw)/float64(sw), float64(th)/float64(sh))
		fw := int(math.Round(float64(sw) * scale))
		fh := int(math.Round(float64(sh) * scale))
		if fw < 1 {
			fw = 1
		}
		if fh < 1 {
			fh = 1
		}
		ox := (tw - fw) / 2
		oy := (th - fh) / 2
		dstRect := image.Rect(ox, oy, ox+fw, oy+fh)
		xdraw.CatmullRom.Scale(dst, dstRect, img, bounds, xdraw.Over, nil)

	default:
		return nil, fmt.Errorf("unknown fit mode %d", mode)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode fitted image: %w", err)
	}
	return buf.Bytes(), nil
}
