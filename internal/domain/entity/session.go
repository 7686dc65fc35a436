package entity

import (
	"time"

	"github.com/rotisserie/eris"
)

// ErrSessionNotFound: сессия с таким ID не существует.
var ErrSessionNotFound = eris.New("session not found")

// Session хранит загруженное фото и последний результат анализа.
type Session struct {
	ID        string
	Filename  string
	Image     []byte
	Result    *AnalysisResult
	CreatedAt time.Time
}

// NewSession создаёт пустую сессию.
func NewSession(id string, now time.Time) *Session {
	return &Session{ID: id, CreatedAt: now}
}

// Replace подменяет фото и результат целиком.
func (s *Session) Replace(filename string, image []byte, result *AnalysisResult) {
	s.Filename = filename
	s.Image = image
	s.Result = result
}

// HasResult сообщает, завершён ли анализ.
func (s *Session) HasResult() bool {
	return s.Result != nil
}
