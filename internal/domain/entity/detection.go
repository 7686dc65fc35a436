package entity

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/rotisserie/eris"
)

// ErrMalformedDetection: детекция от сервиса не проходит проверку формата.
var ErrMalformedDetection = eris.New("malformed detection")

// BoundingBox прямоугольник повреждения в пикселях исходного изображения.
// В JSON сервис оборачивает его в массив из одного элемента: [[x1, y1, x2, y2]].
type BoundingBox struct {
	X1, Y1, X2, Y2 float64
}

// Contains проверяет попадание точки, границы включаются.
func (b BoundingBox) Contains(x, y float64) bool {
	return x >= b.X1 && x <= b.X2 && y >= b.Y1 && y <= b.Y2
}

// Width ширина прямоугольника
func (b BoundingBox) Width() float64 { return b.X2 - b.X1 }

// Height высота прямоугольника
func (b BoundingBox) Height() float64 { return b.Y2 - b.Y1 }

// Validate проверяет, что координаты конечны и прямоугольник не вырожден.
func (b BoundingBox) Validate() error {
	for _, v := range []float64{b.X1, b.Y1, b.X2, b.Y2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return eris.Wrap(ErrMalformedDetection, "bbox has non-finite coordinate")
		}
	}
	if b.X1 >= b.X2 || b.Y1 >= b.Y2 {
		return eris.Wrapf(ErrMalformedDetection, "bbox is degenerate (%g,%g,%g,%g)", b.X1, b.Y1, b.X2, b.Y2)
	}
	return nil
}

// MarshalJSON пишет прямоугольник в форме сервиса детекции.
func (b BoundingBox) MarshalJSON() ([]byte, error) {
	return json.Marshal([][4]float64{{b.X1, b.Y1, b.X2, b.Y2}})
}

// UnmarshalJSON разворачивает единственный вложенный прямоугольник.
func (b *BoundingBox) UnmarshalJSON(data []byte) error {
	var boxes [][]float64
	if err := json.Unmarshal(data, &boxes); err != nil {
		return eris.Wrap(ErrMalformedDetection, "bbox is not a list of boxes")
	}
	if len(boxes) != 1 {
		return eris.Wrapf(ErrMalformedDetection, "bbox must contain exactly one box, got %d", len(boxes))
	}
	if len(boxes[0]) != 4 {
		return eris.Wrapf(ErrMalformedDetection, "bbox must have 4 coordinates, got %d", len(boxes[0]))
	}
	*b = BoundingBox{X1: boxes[0][0], Y1: boxes[0][1], X2: boxes[0][2], Y2: boxes[0][3]}
	return nil
}

// Detection одно найденное повреждение.
type Detection struct {
	Class      string      `json:"class"`
	Confidence float64     `json:"confidence"`
	Box        BoundingBox `json:"bbox"`
}

// Band возвращает уровень серьёзности по уверенности.
func (d Detection) Band() SeverityBand {
	return BandOf(d.Confidence)
}

// Percent уверенность в процентах, округлённая до целого.
func (d Detection) Percent() int {
	return int(math.Round(d.Confidence * 100))
}

// Label подпись для подсказки: "Dent (95%)".
func (d Detection) Label() string {
	return fmt.Sprintf("%s (%d%%)", d.Class, d.Percent())
}

// Validate проверяет уверенность и прямоугольник.
func (d Detection) Validate() error {
	if math.IsNaN(d.Confidence) || d.Confidence < 0 || d.Confidence > 1 {
		return eris.Wrapf(ErrMalformedDetection, "confidence %v is outside [0,1]", d.Confidence)
	}
	return d.Box.Validate()
}
