// Package overlay рисует детекции поверх фото и отвечает за подсказки при наведении.
package overlay

import (
	"image"
	"image/draw"
	"math"

	"damage-dashboard/internal/domain/entity"
)

// strokeWidth толщина обводки; линия центрирована по границе прямоугольника.
const strokeWidth = 2

// Render рисует две поверхности в натуральном размере изображения:
// before это копия оригинала, after это оригинал с подсветкой детекций.
// Каждый вызов перерисовывает обе поверхности с нуля.
func Render(img image.Image, detections []entity.Detection) (before, after *image.RGBA) {
	src := img.Bounds()
	bounds := image.Rect(0, 0, src.Dx(), src.Dy())

	before = image.NewRGBA(bounds)
	draw.Draw(before, bounds, img, src.Min, draw.Src)

	after = image.NewRGBA(bounds)
	draw.Draw(after, bounds, img, src.Min, draw.Src)

	// Порядок важен: более поздние детекции рисуются поверх ранних.
	for _, d := range detections {
		highlight(after, d)
	}
	return before, after
}

// highlight заливает прямоугольник детекции и обводит его цветом её уровня.
func highlight(dst *image.RGBA, d entity.Detection) {
	fill, stroke := entity.ColorOf(d.Band())
	r := pixelRect(d.Box)

	draw.Draw(dst, r, image.NewUniform(fill), image.Point{}, draw.Over)

	half := strokeWidth / 2
	src := image.NewUniform(stroke)
	top := image.Rect(r.Min.X-half, r.Min.Y-half, r.Max.X+half, r.Min.Y+half)
	bottom := image.Rect(r.Min.X-half, r.Max.Y-half, r.Max.X+half, r.Max.Y+half)
	draw.Draw(dst, top, src, image.Point{}, draw.Over)
	draw.Draw(dst, bottom, src, image.Point{}, draw.Over)

	// Боковые стороны без углов, чтобы углы не смешивались дважды.
	if r.Max.Y-half > r.Min.Y+half {
		left := image.Rect(r.Min.X-half, r.Min.Y+half, r.Min.X+half, r.Max.Y-half)
		right := image.Rect(r.Max.X-half, r.Min.Y+half, r.Max.X+half, r.Max.Y-half)
		draw.Draw(dst, left, src, image.Point{}, draw.Over)
		draw.Draw(dst, right, src, image.Point{}, draw.Over)
	}
}

func pixelRect(b entity.BoundingBox) image.Rectangle {
	return image.Rect(
		int(math.Round(b.X1)),
		int(math.Round(b.Y1)),
		int(math.Round(b.X2)),
		int(math.Round(b.Y2)),
	)
}
