package overlay

import (
	"image"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"damage-dashboard/internal/domain/entity"
)

// Stage владеет парой поверхностей before/after и контроллером подсказок.
// Отрисовка откладывается до загрузки изображения; каждый Show увеличивает
// поколение, и результат устаревшей загрузки отбрасывается.
type Stage struct {
	mu         sync.Mutex
	generation uint64
	before     *Surface
	after      *Surface
	controller *Controller
	onError    func(error)
}

// NewStage создаёт пустую сцену. onError получает ошибки отложенной загрузки,
// может быть nil.
func NewStage(onError func(error)) *Stage {
	return &Stage{
		controller: NewController(),
		onError:    onError,
	}
}

// Show сбрасывает текущие поверхности и рисует новое изображение.
// Если оно уже загружено, отрисовка происходит сразу и ошибка загрузки
// возвращается из Show. Иначе отрисовка выполнится по завершении загрузки,
// а ошибка уйдёт в onError.
func (s *Stage) Show(asset *Asset, detections []entity.Detection) error {
	dets := append([]entity.Detection(nil), detections...)

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.teardownLocked()
	s.mu.Unlock()

	if img, loaded, err := asset.Result(); loaded {
		return s.paint(gen, img, err, dets)
	}

	asset.OnLoad(func(img image.Image, loadErr error) {
		if err := s.paint(gen, img, loadErr, dets); err != nil && s.onError != nil {
			s.onError(err)
		}
	})
	return nil
}

// Clear отменяет ожидающую отрисовку и закрывает поверхности.
func (s *Stage) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.teardownLocked()
}

func (s *Stage) paint(gen uint64, img image.Image, loadErr error, detections []entity.Detection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		zap.L().Debug("overlay: dropping stale render",
			zap.Uint64("generation", gen),
			zap.Uint64("current", s.generation),
		)
		return nil
	}
	if loadErr != nil {
		if !eris.Is(loadErr, ErrAssetLoad) {
			loadErr = eris.Wrapf(ErrAssetLoad, "%v", loadErr)
		}
		return loadErr
	}

	before, after := Render(img, detections)
	s.before = NewSurface(before)
	s.after = NewSurface(after)
	s.controller.Bind(s.after, detections)
	return nil
}

func (s *Stage) teardownLocked() {
	s.controller.Unbind()
	if s.before != nil {
		s.before.Close()
	}
	if s.after != nil {
		s.after.Close()
	}
	s.before, s.after = nil, nil
}

// Surfaces возвращает нарисованные поверхности, если отрисовка завершена.
func (s *Stage) Surfaces() (before, after *Surface, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.before == nil || s.after == nil {
		return nil, nil, false
	}
	return s.before, s.after, true
}

// Controller контроллер подсказок для поверхности after.
func (s *Stage) Controller() *Controller {
	return s.controller
}

// Generation номер последнего запроса на отрисовку.
func (s *Stage) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}
