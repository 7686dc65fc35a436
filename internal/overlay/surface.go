package overlay

import (
	"image"
	"sync"
)

// Layout положение и отображаемый размер поверхности во viewport.
// Масштаб по осям может отличаться: вёрстка растягивает поверхность независимо.
type Layout struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PointerKind тип события указателя
type PointerKind int

const (
	PointerMove PointerKind = iota
	PointerLeave
)

// PointerEvent событие указателя в координатах viewport.
type PointerEvent struct {
	Kind PointerKind
	X, Y float64
}

// Listener получает события указателя над поверхностью.
type Listener func(PointerEvent)

type listenerEntry struct {
	id uint64
	fn Listener
}

// Surface растровая поверхность в натуральном размере изображения
// вместе с подписчиками на события указателя.
type Surface struct {
	mu        sync.Mutex
	img       *image.RGBA
	layout    Layout
	listeners []listenerEntry
	nextID    uint64
	closed    bool
}

// NewSurface создаёт поверхность, отображаемую 1:1 от начала координат.
func NewSurface(img *image.RGBA) *Surface {
	b := img.Bounds()
	return &Surface{
		img:    img,
		layout: Layout{Width: float64(b.Dx()), Height: float64(b.Dy())},
	}
}

// Image возвращает растр поверхности.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

// Size натуральный размер в пикселях.
func (s *Surface) Size() (width, height int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// SetLayout задаёт, где и в каком размере поверхность отображается сейчас.
// Нулевые ширина или высота означают натуральный размер по этой оси.
func (s *Surface) SetLayout(l Layout) {
	w, h := s.Size()
	if l.Width <= 0 {
		l.Width = float64(w)
	}
	if l.Height <= 0 {
		l.Height = float64(h)
	}
	s.mu.Lock()
	s.layout = l
	s.mu.Unlock()
}

// Layout текущее отображение поверхности.
func (s *Surface) Layout() Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout
}

// ToPixel переводит координаты viewport в пиксели поверхности,
// отдельно по каждой оси.
func (s *Surface) ToPixel(vx, vy float64) (px, py float64) {
	l := s.Layout()
	w, h := s.Size()
	return (vx - l.Left) * float64(w) / l.Width, (vy - l.Top) * float64(h) / l.Height
}

// Listen подписывает обработчик и возвращает функцию отписки.
// Отписка идемпотентна. На закрытую поверхность подписаться нельзя.
func (s *Surface) Listen(fn Listener) (release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return func() {}
	}
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *Surface) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.listeners {
		if l.id == id {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}

// ListenerCount число активных подписчиков.
func (s *Surface) ListenerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

// Dispatch рассылает событие подписчикам в порядке подписки.
// Обработчики вызываются без удержания блокировки поверхности.
func (s *Surface) Dispatch(ev PointerEvent) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	listeners := make([]Listener, len(s.listeners))
	for i, l := range s.listeners {
		listeners[i] = l.fn
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}
}

// PointerMove сообщает о движении указателя над поверхностью.
func (s *Surface) PointerMove(x, y float64) {
	s.Dispatch(PointerEvent{Kind: PointerMove, X: x, Y: y})
}

// PointerLeave сообщает, что указатель ушёл с поверхности.
func (s *Surface) PointerLeave() {
	s.Dispatch(PointerEvent{Kind: PointerLeave})
}

// Close отписывает всех и запрещает новые подписки.
func (s *Surface) Close() {
	s.mu.Lock()
	s.closed = true
	s.listeners = nil
	s.mu.Unlock()
}

// Closed сообщает, была ли поверхность закрыта.
func (s *Surface) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
