package rest

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"

	"damage-dashboard/internal/overlay"
)

type pointerRequest struct {
	X      float64         `json:"x"`
	Y      float64         `json:"y"`
	Layout *overlay.Layout `json:"layout,omitempty"`
}

type askRequest struct {
	Question string `json:"question"`
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": serviceName,
	})
}

// create создаёт новую сессию и сразу анализирует фото из поля file.
func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	h.analyze(w, r, h.newID(), http.StatusCreated)
}

// upload загружает новое фото в существующую сессию, заменяя предыдущее.
func (h *handler) upload(w http.ResponseWriter, r *http.Request) {
	h.analyze(w, r, chi.URLParam(r, "id"), http.StatusOK)
}

func (h *handler) analyze(w http.ResponseWriter, r *http.Request, id string, status int) {
	filename, data, err := h.readUpload(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	view, err := h.analyses.Analyze(r.Context(), id, filename, data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, status, view)
}

func (h *handler) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		return "", nil, eris.Wrapf(errBadRequest, "parse multipart form: %v", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, eris.Wrapf(errBadRequest, "field file is required: %v", err)
	}
	defer file.Close() //nolint:errcheck

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, eris.Wrapf(errBadRequest, "read upload: %v", err)
	}
	return header.Filename, data, nil
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	view, err := h.analyses.View(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.analyses.Reset(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) before(w http.ResponseWriter, r *http.Request) {
	h.surface(w, r, true)
}

func (h *handler) after(w http.ResponseWriter, r *http.Request) {
	h.surface(w, r, false)
}

func (h *handler) surface(w http.ResponseWriter, r *http.Request, before bool) {
	b, a, err := h.analyses.Surfaces(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	s := a
	if before {
		s = b
	}
	data, err := overlay.EncodePNG(s.Image())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePNG(w, data)
}

func (h *handler) comparison(w http.ResponseWriter, r *http.Request) {
	img, err := h.analyses.Comparison(chi.URLParam(r, "id"), h.comparisonWidth)
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, err := overlay.EncodePNG(img)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePNG(w, data)
}

func (h *handler) pointer(w http.ResponseWriter, r *http.Request) {
	var req pointerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, eris.Wrapf(errBadRequest, "invalid pointer body: %v", err))
		return
	}

	tip, err := h.analyses.PointerMove(chi.URLParam(r, "id"), req.X, req.Y, req.Layout)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tip)
}

func (h *handler) pointerLeave(w http.ResponseWriter, r *http.Request) {
	tip, err := h.analyses.PointerLeave(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tip)
}

func (h *handler) ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, eris.Wrapf(errBadRequest, "invalid ask body: %v", err))
		return
	}

	answer, err := h.analyses.Ask(r.Context(), chi.URLParam(r, "id"), req.Question)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, answer)
}
