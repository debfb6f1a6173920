package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/dmitrijs2005/drscreen/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 5), B: uint8(x + y), A: 0xff})
		}
	}
	return img
}

func TestPreprocess_RedSquare(t *testing.T) {
	data := encodePNG(t, solid(10, 10, color.NRGBA{R: 255, A: 255}))

	tensor, err := Preprocess(data)
	require.NoError(t, err)
	assert.Equal(t, [4]int{1, Height, Width, Channels}, tensor.Shape)
	require.Len(t, tensor.Data, Height*Width*Channels)

	for _, pos := range [][2]int{{0, 0}, {75, 75}, {149, 149}, {0, 149}} {
		assert.Equal(t, float32(1), tensor.At(pos[0], pos[1], 0))
		assert.Equal(t, float32(0), tensor.At(pos[0], pos[1], 1))
		assert.Equal(t, float32(0), tensor.At(pos[0], pos[1], 2))
	}
}

func TestPreprocess_Deterministic(t *testing.T) {
	data := encodePNG(t, gradient(37, 23))

	a, err := Preprocess(data)
	require.NoError(t, err)
	b, err := Preprocess(data)
	require.NoError(t, err)

	assert.Equal(t, a.Data, b.Data)
}

func TestPreprocess_ValuesInUnitRange(t *testing.T) {
	tensor, err := Preprocess(encodePNG(t, gradient(300, 200)))
	require.NoError(t, err)

	for _, v := range tensor.Data {
		require.GreaterOrEqual(t, v, float32(0))
		require.LessOrEqual(t, v, float32(1))
	}
}

func TestPreprocess_GrayscaleReplicated(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x*10 + y)})
		}
	}

	tensor, err := Preprocess(encodePNG(t, img))
	require.NoError(t, err)
	assert.Equal(t, [4]int{1, Height, Width, 3}, tensor.Shape)

	for y := 0; y < Height; y += 13 {
		for x := 0; x < Width; x += 11 {
			r := tensor.At(y, x, 0)
			assert.Equal(t, r, tensor.At(y, x, 1))
			assert.Equal(t, r, tensor.At(y, x, 2))
		}
	}
}

func TestPreprocess_AlphaDropped(t *testing.T) {
	translucent, err := Preprocess(encodePNG(t, solid(8, 8, color.NRGBA{R: 200, G: 100, B: 50, A: 10})))
	require.NoError(t, err)
	opaque, err := Preprocess(encodePNG(t, solid(8, 8, color.NRGBA{R: 200, G: 100, B: 50, A: 255})))
	require.NoError(t, err)

	assert.Equal(t, [4]int{1, Height, Width, 3}, translucent.Shape)
	assert.InDelta(t, 200.0/255, translucent.At(10, 10, 0), 1.0/255)
	assert.InDelta(t, 100.0/255, translucent.At(10, 10, 1), 1.0/255)
	assert.InDelta(t, 50.0/255, translucent.At(10, 10, 2), 1.0/255)
	assert.Equal(t, opaque.Data, translucent.Data)
}

func TestPreprocess_OtherFormats(t *testing.T) {
	var jpg bytes.Buffer
	require.NoError(t, jpeg.Encode(&jpg, gradient(64, 48), &jpeg.Options{Quality: 90}))

	var bm bytes.Buffer
	require.NoError(t, bmp.Encode(&bm, gradient(16, 16)))

	for name, data := range map[string][]byte{"jpeg": jpg.Bytes(), "bmp": bm.Bytes()} {
		_, format, err := Decode(data)
		require.NoError(t, err, name)
		assert.Equal(t, name, format)

		tensor, err := Preprocess(data)
		require.NoError(t, err, name)
		assert.Len(t, tensor.Data, Height*Width*Channels)
	}
}

func TestPreprocess_DecodeErrors(t *testing.T) {
	for name, data := range map[string][]byte{
		"empty":     nil,
		"garbage":   []byte("definitely not an image"),
		"truncated": encodePNG(t, gradient(10, 10))[:40],
	} {
		_, err := Preprocess(data)
		assert.ErrorIs(t, err, common.ErrorDecode, name)
	}
}

func TestFromImage_NonZeroOrigin(t *testing.T) {
	src := gradient(40, 40)
	sub := src.SubImage(image.Rect(10, 10, 30, 30))

	tensor := FromImage(sub)
	assert.Len(t, tensor.Data, Height*Width*Channels)
	assert.InDelta(t, float64(uint8(10*7))/255, tensor.At(0, 0, 0), 2.0/255)
}
