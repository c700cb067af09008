// Package imageio loads source images into the RGBA byte buffers
// pipeline.Process consumes, and renders a flat raster preview (never a
// vector one — that's an explicit spec non-goal) of a finished worksheet.
// Format registration mirrors mu-bmd-renderer/internal/texture's dispatch
// over multiple blank-imported decoders.
package imageio

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/HugoSmits86/nativewebp"
	_ "github.com/ftrvxmtrx/tga"
	_ "github.com/xfmoulet/qoi"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"img2worksheet/worksheet"
)

// downscaleMaxDim bounds the longest side of a Downscale result.
const downscaleMaxDim = 1024

// Downscale shrinks d to fit within downscaleMaxDim on its longest side
// using golang.org/x/image/draw's CatmullRom scaler, the same package
// mu-bmd-renderer/internal/postprocess uses for its resize step. Images
// already within bounds are returned unchanged.
//
// This never touches pipeline.Process's input: the pipeline always runs
// against the caller's full-resolution buffer, so PixelData/RegionMap and
// every region stay faithful to the original image. Downscale exists for
// callers that want a cheaper working copy for their own purposes (a
// quantizer candidate set, a bounded-size thumbnail) without paying for a
// full-resolution resample themselves.
func Downscale(d Decoded) Decoded {
	longest := d.Width
	if d.Height > longest {
		longest = d.Height
	}
	if longest <= downscaleMaxDim {
		return d
	}

	scale := float64(downscaleMaxDim) / float64(longest)
	dw := int(float64(d.Width) * scale)
	dh := int(float64(d.Height) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	src := &image.RGBA{Pix: d.Pixels, Stride: d.Width * 4, Rect: image.Rect(0, 0, d.Width, d.Height)}
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return Decoded{Pixels: dst.Pix, Width: dw, Height: dh}
}

// Decoded is a loaded source image ready for pipeline.Process.
type Decoded struct {
	Pixels        []byte
	Width, Height int
}

// Load decodes path using the registered image decoders (PNG, JPEG, BMP,
// WebP, TGA, QOI) and returns an interleaved RGBA buffer.
func Load(path string) (Decoded, error) {
	f, err := os.Open(path)
	if err != nil {
		return Decoded{}, fmt.Errorf("imageio: open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return Decoded{}, fmt.Errorf("imageio: decode %s: %w", path, err)
	}
	return FromImage(img), nil
}

// FromImage flattens any image.Image into the interleaved RGBA buffer the
// worksheet pipeline expects.
func FromImage(img image.Image) Decoded {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return Decoded{Pixels: rgba.Pix, Width: w, Height: h}
}

// SavePreview renders a flat raster preview of a finished worksheet — every
// pixel painted with its region's palette color, borders darkened — and
// encodes it as WebP via github.com/HugoSmits86/nativewebp, the same
// encoder mu-bmd-renderer/internal/batch uses for its rendered output.
func SavePreview(path string, img *worksheet.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: create %s: %w", path, err)
	}
	defer f.Close()
	return EncodePreview(f, img)
}

// EncodePreview writes the preview to w without touching the filesystem.
func EncodePreview(w io.Writer, img *worksheet.Image) error {
	preview := Render(img)
	return nativewebp.Encode(w, preview, nil)
}

// Render paints a flat raster preview: each pixel gets its region's palette
// color, with border pixels darkened for visibility.
func Render(img *worksheet.Image) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.OriginalWidth, img.OriginalHeight))
	for _, r := range img.Regions {
		c := img.Palette[r.ColorID].RGB
		for _, p := range r.Pixels {
			x := int(p) % img.OriginalWidth
			y := int(p) / img.OriginalWidth
			out.Set(x, y, pngColor(c))
		}
		for _, p := range r.BorderPixels {
			x := int(p) % img.OriginalWidth
			y := int(p) / img.OriginalWidth
			out.Set(x, y, darken(c))
		}
	}
	return out
}

func pngColor(c worksheet.RGB) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

func darken(c worksheet.RGB) color.RGBA {
	const factor = 0.55
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: 255,
	}
}
