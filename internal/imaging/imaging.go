// Package imaging turns uploaded image bytes into the classifier's input
// tensor: decode, force 3-channel RGB, bilinear resize to 150x150 and scale
// to [0,1].
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/dmitrijs2005/drscreen/internal/common"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Input geometry expected by the classifier.
const (
	Height   = 150
	Width    = 150
	Channels = 3
)

// MaxPixels bounds the decoded size of an upload.
const MaxPixels = 64 << 20

// Tensor is a dense float32 array in NHWC order.
type Tensor struct {
	Shape [4]int
	Data  []float32
}

// At returns the value at batch 0, row y, column x, channel c.
func (t *Tensor) At(y, x, c int) float32 {
	return t.Data[(y*t.Shape[2]+x)*t.Shape[3]+c]
}

// Decode parses any registered format. Unknown formats, corrupt data and
// empty or oversized images yield common.ErrorDecode.
func Decode(data []byte) (image.Image, string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", common.ErrorDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", fmt.Errorf("%w: empty image", common.ErrorDecode)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, "", fmt.Errorf("%w: image %dx%d too large", common.ErrorDecode, cfg.Width, cfg.Height)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", common.ErrorDecode, err)
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, "", fmt.Errorf("%w: empty image", common.ErrorDecode)
	}
	return img, format, nil
}

// Preprocess decodes data and converts it with FromImage. Equal input bytes
// always give an identical tensor.
func Preprocess(data []byte) (*Tensor, error) {
	img, _, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return FromImage(img), nil
}

// FromImage builds the [1,150,150,3] input tensor from img.
func FromImage(img image.Image) *Tensor {
	rgb := opaqueRGB(img)

	dst := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.BiLinear.Scale(dst, dst.Bounds(), rgb, rgb.Bounds(), draw.Src, nil)

	t := &Tensor{
		Shape: [4]int{1, Height, Width, Channels},
		Data:  make([]float32, Height*Width*Channels),
	}
	i := 0
	for y := 0; y < Height; y++ {
		row := dst.Pix[y*dst.Stride:]
		for x := 0; x < Width; x++ {
			p := row[x*4:]
			t.Data[i] = float32(p[0]) / 255
			t.Data[i+1] = float32(p[1]) / 255
			t.Data[i+2] = float32(p[2]) / 255
			i += 3
		}
	}
	return t
}

// opaqueRGB copies img into an RGBA image with the alpha channel discarded:
// colour values are taken un-premultiplied and alpha is forced to 255.
// Grayscale sources end up with R=G=B.
func opaqueRGB(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			out.SetRGBA(x-b.Min.X, y-b.Min.Y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		}
	}
	return out
}
