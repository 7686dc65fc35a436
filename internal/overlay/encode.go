package overlay

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/rotisserie/eris"
)

// EncodePNG кодирует поверхность в PNG без потерь.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, eris.Wrap(err, "encode png")
	}
	return buf.Bytes(), nil
}

// EncodeJPEG кодирует изображение в JPEG, например для отправки в Telegram.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, eris.Wrap(err, "encode jpeg")
	}
	return buf.Bytes(), nil
}
