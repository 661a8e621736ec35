package blogservice

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeThumbnailExt(t *testing.T) {
	assert.Equal(t, ".png", normalizeThumbnailExt(".png"))
	assert.Equal(t, ".jpg", normalizeThumbnailExt(".jpg"))
	assert.Equal(t, ".webp", normalizeThumbnailExt(".webp"))
	assert.Equal(t, ".png", normalizeThumbnailExt(""))
	assert.Equal(t, ".png", normalizeThumbnailExt(".exe"))
}

func TestNormalizeThumbnailPassThrough(t *testing.T) {
	// Undecodable bytes are stored exactly as given.
	raw := []byte{0xde, 0xad, 0xbe, 0xef}
	got, ext := normalizeThumbnail(raw, ".png")
	assert.Equal(t, raw, got)
	assert.Equal(t, ".png", ext)

	// Small decodable images are also stored byte-for-byte.
	small := seedThumbnail(100, 80, 5, color.RGBA{A: 0xff})
	got, ext = normalizeThumbnail(small, ".png")
	assert.Equal(t, small, got)
	assert.Equal(t, ".png", ext)
}

func TestNormalizeThumbnailDownscales(t *testing.T) {
	wide := seedThumbnail(1600, 400, 10, color.RGBA{R: 0xff, A: 0xff})

	got, ext := normalizeThumbnail(wide, ".png")
	require.Equal(t, ".png", ext)
	assert.NotEqual(t, wide, got)

	img, _, err := image.Decode(bytes.NewReader(got))
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestSeedThumbnailBorder(t *testing.T) {
	b := seedThumbnail(60, 40, 4, color.RGBA{R: 0x34, G: 0x98, B: 0xdb, A: 0xff})

	img, _, err := image.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, 60, img.Bounds().Dx())
	assert.Equal(t, 40, img.Bounds().Dy())

	r, g, bl, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0x34), r>>8)
	assert.Equal(t, uint32(0x98), g>>8)
	assert.Equal(t, uint32(0xdb), bl>>8)

	r, g, bl, _ = img.At(30, 20).RGBA()
	assert.Equal(t, uint32(0xff), r>>8)
	assert.Equal(t, uint32(0xff), g>>8)
	assert.Equal(t, uint32(0xff), bl>>8)
}
