package overlay

import (
	"sync"

	"damage-dashboard/internal/domain/entity"
)

// Controller находит детекцию под указателем и ведёт состояние подсказки.
// Состояния: скрыта (начальное) и показана для конкретной детекции.
type Controller struct {
	mu         sync.Mutex
	surface    *Surface
	detections []entity.Detection
	release    func()
	tooltip    entity.TooltipState
	hovered    int // индекс детекции под указателем, -1 если подсказка скрыта
}

// NewController создаёт контроллер со скрытой подсказкой.
func NewController() *Controller {
	return &Controller{hovered: -1}
}

// Bind подписывается на поверхность. Повторный вызов для той же поверхности
// только обновляет детекции, подписка остаётся одна. Предыдущая поверхность
// отписывается. Подсказка сбрасывается.
func (c *Controller) Bind(s *Surface, detections []entity.Detection) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.detections = append([]entity.Detection(nil), detections...)
	c.reset()
	if c.surface == s && c.release != nil {
		return
	}
	c.unbindLocked()
	c.surface = s
	c.release = s.Listen(c.handle)
}

// Unbind отписывается от текущей поверхности и скрывает подсказку.
func (c *Controller) Unbind() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unbindLocked()
	c.detections = nil
	c.reset()
}

func (c *Controller) unbindLocked() {
	if c.release != nil {
		c.release()
	}
	c.release = nil
	c.surface = nil
}

func (c *Controller) handle(ev PointerEvent) {
	switch ev.Kind {
	case PointerMove:
		c.OnPointerMove(ev.X, ev.Y)
	case PointerLeave:
		c.OnPointerLeave()
	}
}

// OnPointerMove пересчитывает подсказку для координат viewport.
func (c *Controller) OnPointerMove(vx, vy float64) entity.TooltipState {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.surface == nil || c.surface.Closed() {
		c.reset()
		return c.tooltip
	}

	px, py := c.surface.ToPixel(vx, vy)
	i := entity.FirstHit(c.detections, px, py)
	if i < 0 {
		c.reset()
		return c.tooltip
	}
	c.hovered = i
	c.tooltip = entity.ShowTooltip(c.detections[i], vx, vy)
	return c.tooltip
}

// OnPointerLeave скрывает подсказку.
func (c *Controller) OnPointerLeave() entity.TooltipState {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
	return c.tooltip
}

// Tooltip текущее состояние подсказки.
func (c *Controller) Tooltip() entity.TooltipState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tooltip
}

// Hovered детекция под указателем, если подсказка показана.
func (c *Controller) Hovered() (entity.Detection, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hovered < 0 {
		return entity.Detection{}, false
	}
	return c.detections[c.hovered], true
}

// Bound сообщает, подписан ли контроллер на поверхность.
func (c *Controller) Bound() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.release != nil
}

func (c *Controller) reset() {
	c.hovered = -1
	c.tooltip = entity.HiddenTooltip()
}
