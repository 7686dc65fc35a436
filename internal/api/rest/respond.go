package rest

import (
	"encoding/json"
	"net/http"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	app "damage-dashboard/internal/application"
	"damage-dashboard/internal/domain/entity"
	"damage-dashboard/internal/overlay"
)

var errBadRequest = eris.New("bad request")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("write json response", zap.Error(err))
	}
}

func writePNG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// statusOf сопоставляет ошибку домена HTTP-статусу.
func statusOf(err error) int {
	switch {
	case eris.Is(err, errBadRequest),
		eris.Is(err, app.ErrEmptyImage),
		eris.Is(err, app.ErrEmptyQuestion),
		eris.Is(err, overlay.ErrAssetLoad):
		return http.StatusBadRequest
	case eris.Is(err, entity.ErrSessionNotFound):
		return http.StatusNotFound
	case eris.Is(err, app.ErrNoResult),
		eris.Is(err, app.ErrSuperseded):
		return http.StatusConflict
	case eris.Is(err, entity.ErrMalformedDetection),
		eris.Is(err, entity.ErrImageQuality):
		return http.StatusUnprocessableEntity
	case eris.Is(err, entity.ErrUpstream):
		return http.StatusBadGateway
	case eris.Is(err, app.ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
