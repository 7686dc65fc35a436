package entity

import "github.com/rotisserie/eris"

var (
	// ErrImageQuality: снимок не прошёл проверку качества до отправки в сервис.
	ErrImageQuality = eris.New("image quality is too low")

	// ErrUpstream: внешний сервис недоступен или ответил ошибкой.
	ErrUpstream = eris.New("upstream service failed")
)

// ErrUserNotFound: пользователь ещё не писал боту.
var ErrUserNotFound = eris.New("user not found")
