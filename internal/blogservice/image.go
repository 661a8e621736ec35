package blogservice

import (
	"bytes"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

const maxThumbnailWidth = 800

var thumbnailExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

func normalizeThumbnailExt(ext string) string {
	if thumbnailExts[ext] {
		return ext
	}
	return ".png"
}

// normalizeThumbnail downscales decodable images wider than
// maxThumbnailWidth and re-encodes them as PNG. Anything that does not
// decode, or is already small enough, is returned unchanged. Used by the
// seeding path; user-supplied thumbnails are never rewritten.
func normalizeThumbnail(b []byte, ext string) ([]byte, string) {
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return b, ext
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxThumbnailWidth {
		return b, ext
	}

	newH := h * maxThumbnailWidth / w
	dst := image.NewRGBA(image.Rect(0, 0, maxThumbnailWidth, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return b, ext
	}

	return buf.Bytes(), ".png"
}

// seedThumbnail draws the bordered sample image used by post seeding.
func seedThumbnail(width, height, borderThickness int, border color.Color) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			onBorder := x < borderThickness || y < borderThickness ||
				x >= width-borderThickness || y >= height-borderThickness
			if onBorder {
				img.Set(x, y, border)
			} else {
				img.Set(x, y, color.White)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return PlaceholderThumbnail()
	}

	return buf.Bytes()
}
