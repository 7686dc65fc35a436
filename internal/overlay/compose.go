package overlay

import (
	"image"
	"image/draw"

	"github.com/nfnt/resize"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	captionHeight = 24
	panelGap      = 10

	CaptionBefore = "Before"
	CaptionAfter  = "After (Damage Highlighted)"
)

// Compose склеивает before и after в одно изображение с подписями над панелями.
// maxWidth > 0 ограничивает ширину каждой панели, пропорции сохраняются.
func Compose(before, after image.Image, maxWidth int) *image.RGBA {
	left := fitWidth(before, maxWidth)
	right := fitWidth(after, maxWidth)
	lb, rb := left.Bounds(), right.Bounds()

	width := lb.Dx() + panelGap + rb.Dx()
	height := captionHeight + max(lb.Dy(), rb.Dy())
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(out, out.Bounds(), image.White, image.Point{}, draw.Src)

	rightX := lb.Dx() + panelGap
	drawCaption(out, CaptionBefore, 4)
	drawCaption(out, CaptionAfter, rightX+4)

	draw.Draw(out, image.Rect(0, captionHeight, lb.Dx(), captionHeight+lb.Dy()), left, lb.Min, draw.Src)
	draw.Draw(out, image.Rect(rightX, captionHeight, rightX+rb.Dx(), captionHeight+rb.Dy()), right, rb.Min, draw.Src)
	return out
}

func fitWidth(img image.Image, maxWidth int) image.Image {
	if maxWidth <= 0 || img.Bounds().Dx() <= maxWidth {
		return img
	}
	return resize.Resize(uint(maxWidth), 0, img, resize.Lanczos3)
}

func drawCaption(dst draw.Image, text string, x int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.Black,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, captionHeight-8),
	}
	d.DrawString(text)
}
