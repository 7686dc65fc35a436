package app

import "github.com/rotisserie/eris"

var (
	ErrEmptyImage    = eris.New("image is empty")
	ErrEmptyQuestion = eris.New("question is empty")
	ErrNoResult      = eris.New("analysis has no result yet")
	ErrNotConfigured = eris.New("service is not configured")
	// ErrSuperseded: пока шёл анализ, в сессию загрузили другое фото.
	ErrSuperseded = eris.New("analysis superseded by a newer upload")
)
