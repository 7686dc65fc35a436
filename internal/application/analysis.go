package app

import (
	"context"
	"image"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"damage-dashboard/internal/domain/entity"
	"damage-dashboard/internal/domain/port"
	"damage-dashboard/internal/overlay"
)

// AnalysisView то, что показывает дашборд после анализа.
type AnalysisView struct {
	SessionID   string                 `json:"session_id"`
	Filename    string                 `json:"filename,omitempty"`
	Result      *entity.AnalysisResult `json:"result"`
	CostText    string                 `json:"cost_text"`
	ClaimStatus string                 `json:"claim_status"`
	Width       int                    `json:"width"`
	Height      int                    `json:"height"`
	Tooltips    []string               `json:"tooltips"`
}

// sessionStage сцена сессии и номер последней загрузки в неё.
type sessionStage struct {
	stage  *overlay.Stage
	upload uint64
}

type AnalysisService struct {
	sessions  port.SessionRepository
	detector  port.DamageDetector
	assistant port.ClaimAssistant
	gate      port.ImageQualityGate

	mu     sync.Mutex
	stages map[string]*sessionStage
}

// NewAnalysisService создаёт сервис анализа. assistant и gate могут быть nil.
func NewAnalysisService(
	sessions port.SessionRepository,
	detector port.DamageDetector,
	assistant port.ClaimAssistant,
	gate port.ImageQualityGate,
) *AnalysisService {
	return &AnalysisService{
		sessions:  sessions,
		detector:  detector,
		assistant: assistant,
		gate:      gate,
		stages:    make(map[string]*sessionStage),
	}
}

// Analyze отправляет фото в сервис детекции и рисует результат.
// Новая загрузка в ту же сессию заменяет предыдущую, даже если та ещё не закончилась.
func (s *AnalysisService) Analyze(ctx context.Context, sessionID, filename string, imageData []byte) (*AnalysisView, error) {
	if len(imageData) == 0 {
		return nil, eris.Wrap(ErrEmptyImage, "analyze")
	}
	if s.detector == nil {
		return nil, eris.Wrap(ErrNotConfigured, "detector")
	}
	// отклонённое фото не должно вытеснять текущую загрузку
	if s.gate != nil {
		if err := s.gate.Check(ctx, imageData); err != nil {
			return nil, err
		}
	}
	upload := s.beginUpload(sessionID)

	result, err := s.detector.Detect(ctx, filename, imageData)
	if err != nil {
		return nil, eris.Wrap(err, "detect damage")
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}

	zap.L().Info("analysis completed",
		zap.String("session", sessionID),
		zap.String("filename", filename),
		zap.Int("detections", len(result.Detections)),
	)
	return s.show(ctx, upload, sessionID, filename, imageData, result.WithDecision())
}

// Load показывает уже готовый результат без обращения к сервису детекции.
func (s *AnalysisService) Load(ctx context.Context, sessionID, filename string, imageData []byte, result *entity.AnalysisResult) (*AnalysisView, error) {
	if len(imageData) == 0 {
		return nil, eris.Wrap(ErrEmptyImage, "load")
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	upload := s.beginUpload(sessionID)
	return s.show(ctx, upload, sessionID, filename, imageData, result.WithDecision())
}

func (s *AnalysisService) beginUpload(sessionID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stageLocked(sessionID)
	st.upload++
	return st.upload
}

func (s *AnalysisService) stageLocked(sessionID string) *sessionStage {
	st, ok := s.stages[sessionID]
	if !ok {
		st = &sessionStage{
			stage: overlay.NewStage(func(err error) {
				zap.L().Warn("overlay render failed", zap.String("session", sessionID), zap.Error(err))
			}),
		}
		s.stages[sessionID] = st
	}
	return st
}

func (s *AnalysisService) show(
	ctx context.Context,
	upload uint64,
	sessionID, filename string,
	imageData []byte,
	result *entity.AnalysisResult,
) (*AnalysisView, error) {
	// сессия меняется только после успешного декодирования фото
	asset := overlay.LoadAsset(imageData)
	if _, err := asset.Wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	st, ok := s.stages[sessionID]
	if !ok || st.upload != upload {
		s.mu.Unlock()
		return nil, eris.Wrapf(ErrSuperseded, "session %q", sessionID)
	}
	session, err := s.sessions.GetOrCreate(ctx, sessionID)
	if err != nil {
		s.mu.Unlock()
		return nil, eris.Wrap(err, "get session")
	}
	session.Replace(filename, imageData, result)
	if err := s.sessions.Save(ctx, session); err != nil {
		s.mu.Unlock()
		return nil, eris.Wrap(err, "save session")
	}
	err = st.stage.Show(asset, result.Detections)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return s.View(ctx, sessionID)
}

// View возвращает текущее состояние сессии.
func (s *AnalysisService) View(ctx context.Context, sessionID string) (*AnalysisView, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.HasResult() {
		return nil, eris.Wrapf(ErrNoResult, "session %q", sessionID)
	}

	result := session.Result
	view := &AnalysisView{
		SessionID:   session.ID,
		Filename:    session.Filename,
		Result:      result,
		CostText:    entity.CostText(result),
		ClaimStatus: result.Decision.ClaimStatus(),
		Tooltips:    make([]string, 0, len(result.Detections)),
	}
	for _, d := range result.Detections {
		view.Tooltips = append(view.Tooltips, d.Label())
	}
	if _, after, err := s.Surfaces(sessionID); err == nil {
		view.Width, view.Height = after.Size()
	}
	return view, nil
}

// Surfaces возвращает нарисованные поверхности сессии.
func (s *AnalysisService) Surfaces(sessionID string) (before, after *overlay.Surface, err error) {
	stage, err := s.stage(sessionID)
	if err != nil {
		return nil, nil, err
	}
	before, after, ok := stage.Surfaces()
	if !ok {
		return nil, nil, eris.Wrapf(ErrNoResult, "session %q is not rendered", sessionID)
	}
	return before, after, nil
}

func (s *AnalysisService) stage(sessionID string) (*overlay.Stage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stages[sessionID]
	if !ok {
		return nil, eris.Wrapf(entity.ErrSessionNotFound, "session %q", sessionID)
	}
	return st.stage, nil
}

// Comparison склеивает before и after в одну картинку для отправки пользователю.
func (s *AnalysisService) Comparison(sessionID string, maxWidth int) (*image.RGBA, error) {
	before, after, err := s.Surfaces(sessionID)
	if err != nil {
		return nil, err
	}
	return overlay.Compose(before.Image(), after.Image(), maxWidth), nil
}

// PointerMove передаёт движение указателя поверхности after.
// layout, если задан, обновляет текущее положение и размер поверхности во viewport.
func (s *AnalysisService) PointerMove(sessionID string, x, y float64, layout *overlay.Layout) (entity.TooltipState, error) {
	stage, err := s.stage(sessionID)
	if err != nil {
		return entity.HiddenTooltip(), err
	}
	_, after, ok := stage.Surfaces()
	if !ok {
		return entity.HiddenTooltip(), eris.Wrapf(ErrNoResult, "session %q is not rendered", sessionID)
	}
	if layout != nil {
		after.SetLayout(*layout)
	}
	after.PointerMove(x, y)
	return stage.Controller().Tooltip(), nil
}

// PointerLeave скрывает подсказку.
func (s *AnalysisService) PointerLeave(sessionID string) (entity.TooltipState, error) {
	stage, err := s.stage(sessionID)
	if err != nil {
		return entity.HiddenTooltip(), err
	}
	if _, after, ok := stage.Surfaces(); ok {
		after.PointerLeave()
	}
	return stage.Controller().Tooltip(), nil
}

// Ask задаёт ассистенту вопрос по последнему результату сессии.
func (s *AnalysisService) Ask(ctx context.Context, sessionID, question string) (*entity.AgentAnswer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, eris.Wrap(ErrEmptyQuestion, "ask")
	}
	if s.assistant == nil {
		return nil, eris.Wrap(ErrNotConfigured, "assistant")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.HasResult() {
		return nil, eris.Wrapf(ErrNoResult, "session %q", sessionID)
	}

	answer, err := s.assistant.Ask(ctx, session.Result, question)
	if err != nil {
		return nil, eris.Wrap(err, "ask assistant")
	}
	return answer, nil
}

// Reset закрывает поверхности сессии и удаляет её.
// Незавершённый анализ этой сессии будет отброшен.
func (s *AnalysisService) Reset(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	if st, ok := s.stages[sessionID]; ok {
		st.stage.Clear()
		delete(s.stages, sessionID)
	}
	s.mu.Unlock()

	return s.sessions.Delete(ctx, sessionID)
}
