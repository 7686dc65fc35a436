package viewer

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"damage-dashboard/internal/overlay"
)

// PointerFunc получает координаты указателя относительно виджета,
// текущий размер виджета как layout и абсолютную позицию для всплывающей подсказки.
type PointerFunc func(x, y float64, layout overlay.Layout, abs fyne.Position)

// HoverImage растр, растянутый на весь виджет, который сообщает о движении мыши.
// Растягивание по осям независимое, поэтому layout передаётся целиком.
type HoverImage struct {
	widget.BaseWidget

	image *canvas.Image

	mu      sync.Mutex
	active  bool
	onMove  PointerFunc
	onLeave func()
}

// NewHoverImage создаёт пустой виджет. onMove и onLeave могут быть nil.
func NewHoverImage(onMove PointerFunc, onLeave func()) *HoverImage {
	h := &HoverImage{
		image:   canvas.NewImageFromImage(nil),
		onMove:  onMove,
		onLeave: onLeave,
	}
	h.image.FillMode = canvas.ImageFillStretch
	h.image.ScaleMode = canvas.ImageScalePixels
	h.image.SetMinSize(fyne.NewSize(320, 240))
	h.ExtendBaseWidget(h)
	return h
}

// SetImage показывает новую поверхность и включает обработку мыши.
func (h *HoverImage) SetImage(img image.Image) {
	h.mu.Lock()
	h.active = img != nil
	h.mu.Unlock()

	h.image.Image = img
	h.image.Refresh()
}

// Clear убирает изображение, события мыши больше не передаются.
func (h *HoverImage) Clear() {
	h.SetImage(nil)
}

func (h *HoverImage) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(h.image)
}

// MouseIn реализует desktop.Hoverable.
func (h *HoverImage) MouseIn(ev *desktop.MouseEvent) {
	h.MouseMoved(ev)
}

// MouseMoved реализует desktop.Hoverable.
func (h *HoverImage) MouseMoved(ev *desktop.MouseEvent) {
	h.mu.Lock()
	active, onMove := h.active, h.onMove
	h.mu.Unlock()
	if !active || onMove == nil {
		return
	}

	size := h.Size()
	layout := overlay.Layout{Width: float64(size.Width), Height: float64(size.Height)}
	onMove(float64(ev.Position.X), float64(ev.Position.Y), layout, ev.AbsolutePosition)
}

// MouseOut реализует desktop.Hoverable.
func (h *HoverImage) MouseOut() {
	h.mu.Lock()
	active, onLeave := h.active, h.onLeave
	h.mu.Unlock()
	if active && onLeave != nil {
		onLeave()
	}
}

var _ desktop.Hoverable = (*HoverImage)(nil)
