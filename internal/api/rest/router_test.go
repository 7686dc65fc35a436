package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "damage-dashboard/internal/application"
	"damage-dashboard/internal/domain/entity"
	"damage-dashboard/internal/infrastructure/storage"
)

type stubDetector struct {
	result *entity.AnalysisResult
	err    error
}

func (s *stubDetector) Detect(ctx context.Context, filename string, imageData []byte) (*entity.AnalysisResult, error) {
	return s.result, s.err
}

type stubAssistant struct{}

func (stubAssistant) Ask(ctx context.Context, result *entity.AnalysisResult, question string) (*entity.AgentAnswer, error) {
	return &entity.AgentAnswer{Answer: "because of " + result.Decision.FinalDamage, Source: "stub"}, nil
}

func dentResult() *entity.AnalysisResult {
	return &entity.AnalysisResult{
		Detections: []entity.Detection{{
			Class:      "Dent",
			Confidence: 0.95,
			Box:        entity.BoundingBox{X1: 0, Y1: 0, X2: 10, Y2: 10},
		}},
		Decision: entity.Decision{ClaimApproved: true, FinalDamage: "Dent"},
	}
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func multipartBody(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func newTestRouter(det *stubDetector) (http.Handler, *handler) {
	svc := app.NewAnalysisService(storage.NewMemorySessionRepository(), det, stubAssistant{}, nil)
	h := &handler{analyses: svc, maxUpload: 1 << 20, newID: func() string { return "abc" }}
	return h.routes(Options{CORSOrigins: []string{"*"}}), h
}

func do(t *testing.T, r http.Handler, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func createAnalysis(t *testing.T, r http.Handler) app.AnalysisView {
	t.Helper()
	body, ct := multipartBody(t, "file", "car.png", testPNG(t, 20, 20))
	rr := do(t, r, http.MethodPost, "/api/analyses", body, ct)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var view app.AnalysisView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	return view
}

func TestHealthEndpoint(t *testing.T) {
	r, _ := newTestRouter(&stubDetector{})
	rr := do(t, r, http.MethodGet, "/health", nil, "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "damage-dashboard", body["service"])
}

func TestCreateAnalysis(t *testing.T) {
	r, _ := newTestRouter(&stubDetector{result: dentResult()})
	view := createAnalysis(t, r)

	assert.Equal(t, "abc", view.SessionID)
	assert.Equal(t, "car.png", view.Filename)
	assert.Equal(t, "Approved", view.ClaimStatus)
	assert.Equal(t, "₹2,735 - ₹7,838", view.CostText)
	assert.Equal(t, 20, view.Width)
	assert.Equal(t, []string{"Dent (95%)"}, view.Tooltips)

	rr := do(t, r, http.MethodGet, "/api/analyses/abc", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCreateAnalysis_MissingFile(t *testing.T) {
	r, _ := newTestRouter(&stubDetector{result: dentResult()})
	body, ct := multipartBody(t, "photo", "car.png", testPNG(t, 4, 4))

	rr := do(t, r, http.MethodPost, "/api/analyses", body, ct)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "error")
}

func TestCreateAnalysis_UpstreamFailure(t *testing.T) {
	r, _ := newTestRouter(&stubDetector{err: eris.Wrap(entity.ErrUpstream, "status 500")})
	body, ct := multipartBody(t, "file", "car.png", testPNG(t, 4, 4))

	rr := do(t, r, http.MethodPost, "/api/analyses", body, ct)
	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestCreateAnalysis_MalformedResult(t *testing.T) {
	bad := dentResult()
	bad.Detections[0].Box = entity.BoundingBox{X1: 10, Y1: 0, X2: 5, Y2: 10}
	r, _ := newTestRouter(&stubDetector{result: bad})
	body, ct := multipartBody(t, "file", "car.png", testPNG(t, 4, 4))

	rr := do(t, r, http.MethodPost, "/api/analyses", body, ct)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestCreateAnalysis_UndecodableImage(t *testing.T) {
	r, _ := newTestRouter(&stubDetector{result: dentResult()})
	body, ct := multipartBody(t, "file", "car.png", []byte("garbage"))

	rr := do(t, r, http.MethodPost, "/api/analyses", body, ct)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetUnknownAnalysis(t *testing.T) {
	r, _ := newTestRouter(&stubDetector{})
	rr := do(t, r, http.MethodGet, "/api/analyses/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSurfaceImages(t *testing.T) {
	r, _ := newTestRouter(&stubDetector{result: dentResult()})
	createAnalysis(t, r)

	for _, name := range []string{"before.png", "after.png", "comparison.png"} {
		rr := do(t, r, http.MethodGet, "/api/analyses/abc/"+name, nil, "")
		require.Equal(t, http.StatusOK, rr.Code, name)
		assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))

		img, err := png.Decode(rr.Body)
		require.NoError(t, err, name)
		if name != "comparison.png" {
			assert.Equal(t, image.Rect(0, 0, 20, 20), img.Bounds())
		}
	}
}

func TestPointer(t *testing.T) {
	r, _ := newTestRouter(&stubDetector{result: dentResult()})
	createAnalysis(t, r)

	rr := do(t, r, http.MethodPost, "/api/analyses/abc/pointer", bytes.NewBufferString(`{"x":5,"y":5}`), "application/json")
	require.Equal(t, http.StatusOK, rr.Code)
	var tip entity.TooltipState
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tip))
	assert.True(t, tip.Visible)
	assert.Equal(t, "Dent (95%)", tip.Text)

	rr = do(t, r, http.MethodPost, "/api/analyses/abc/pointer",
		bytes.NewBufferString(`{"x":30,"y":30,"layout":{"left":0,"top":0,"width":80,"height":80}}`), "application/json")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tip))
	assert.True(t, tip.Visible) // пиксель (7.5, 7.5)

	rr = do(t, r, http.MethodPost, "/api/analyses/abc/pointer/leave", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tip))
	assert.False(t, tip.Visible)
}

func TestPointer_BadBody(t *testing.T) {
	r, _ := newTestRouter(&stubDetector{result: dentResult()})
	createAnalysis(t, r)

	rr := do(t, r, http.MethodPost, "/api/analyses/abc/pointer", bytes.NewBufferString(`{"x":`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAsk(t *testing.T) {
	r, _ := newTestRouter(&stubDetector{result: dentResult()})
	createAnalysis(t, r)

	rr := do(t, r, http.MethodPost, "/api/analyses/abc/ask", bytes.NewBufferString(`{"question":"why?"}`), "application/json")
	require.Equal(t, http.StatusOK, rr.Code)

	var answer entity.AgentAnswer
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &answer))
	assert.Equal(t, "because of Dent", answer.Answer)

	rr = do(t, r, http.MethodPost, "/api/analyses/abc/ask", bytes.NewBufferString(`{"question":""}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeleteAnalysis(t *testing.T) {
	r, _ := newTestRouter(&stubDetector{result: dentResult()})
	createAnalysis(t, r)

	rr := do(t, r, http.MethodDelete, "/api/analyses/abc", nil, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, r, http.MethodGet, "/api/analyses/abc/after.png", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestReupload(t *testing.T) {
	det := &stubDetector{result: dentResult()}
	r, _ := newTestRouter(det)
	createAnalysis(t, r)

	det.result = &entity.AnalysisResult{Decision: entity.Decision{FinalDamage: "none"}}
	body, ct := multipartBody(t, "file", "clean.png", testPNG(t, 30, 30))
	rr := do(t, r, http.MethodPost, "/api/analyses/abc/image", body, ct)
	require.Equal(t, http.StatusOK, rr.Code)

	var view app.AnalysisView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, "clean.png", view.Filename)
	assert.Equal(t, "Rejected", view.ClaimStatus)
	assert.Equal(t, 30, view.Width)
	assert.Empty(t, view.Tooltips)
}

func TestCORSPreflight(t *testing.T) {
	r, _ := newTestRouter(&stubDetector{})
	req := httptest.NewRequest(http.MethodOptions, "/api/analyses", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusConflict, statusOf(eris.Wrap(app.ErrNoResult, "x")))
	assert.Equal(t, http.StatusServiceUnavailable, statusOf(eris.Wrap(app.ErrNotConfigured, "x")))
	assert.Equal(t, http.StatusUnprocessableEntity, statusOf(eris.Wrap(entity.ErrImageQuality, "x")))
	assert.Equal(t, http.StatusInternalServerError, statusOf(eris.New("boom")))
}

func TestNewRouterDefaults(t *testing.T) {
	svc := app.NewAnalysisService(storage.NewMemorySessionRepository(), &stubDetector{}, nil, nil)
	r := NewRouter(svc, Options{})

	rr := do(t, r, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json"))
}
