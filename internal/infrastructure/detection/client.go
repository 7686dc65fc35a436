// Package detection клиент внешнего сервиса детекции повреждений и ассистента по заявкам.
package detection

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"damage-dashboard/internal/domain/entity"
	"damage-dashboard/internal/domain/port"
)

const (
	predictPath = "/predict"
	askPath     = "/ask-agent"

	requestIDHeader = "X-Request-ID"

	// maxErrorBody сколько байт тела ошибки попадает в сообщение
	maxErrorBody = 512
)

// Option настраивает клиента.
type Option func(*Client)

// WithHTTPClient задаёт свой HTTP-клиент.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit ограничивает число запросов в секунду.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// Client ходит в сервис по HTTP. Каждый запрос получает свой X-Request-ID.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	newID      func() string
}

// NewClient создаёт клиента для сервиса по адресу baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		limiter:    rate.NewLimiter(5, 5),
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Detect отправляет фото в multipart-поле file и разбирает ответ.
func (c *Client) Detect(ctx context.Context, filename string, imageData []byte) (*entity.AnalysisResult, error) {
	if filename == "" {
		filename = "upload.jpg"
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, eris.Wrap(err, "create form file")
	}
	if _, err := part.Write(imageData); err != nil {
		return nil, eris.Wrap(err, "write form file")
	}
	if err := mw.Close(); err != nil {
		return nil, eris.Wrap(err, "close multipart writer")
	}

	var result entity.AnalysisResult
	if err := c.do(ctx, predictPath, mw.FormDataContentType(), &body, &result); err != nil {
		return nil, err
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return &result, nil
}

type askRequest struct {
	Detections []entity.Detection `json:"detections"`
	Decision   entity.Decision    `json:"decision"`
	Question   string             `json:"question"`
}

// Ask передаёт ассистенту результат анализа вместе с вопросом.
func (c *Client) Ask(ctx context.Context, result *entity.AnalysisResult, question string) (*entity.AgentAnswer, error) {
	if result == nil {
		return nil, eris.New("ask: analysis result is nil")
	}
	req := askRequest{
		Detections: result.Detections,
		Decision:   result.Decision,
		Question:   question,
	}
	if req.Detections == nil {
		req.Detections = []entity.Detection{}
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "marshal ask request")
	}

	var answer entity.AgentAnswer
	if err := c.do(ctx, askPath, "application/json", bytes.NewReader(payload), &answer); err != nil {
		return nil, err
	}
	return &answer, nil
}

func (c *Client) do(ctx context.Context, path, contentType string, body io.Reader, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "rate limiter")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return eris.Wrapf(err, "build request %s", path)
	}
	requestID := c.newID()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return eris.Wrapf(entity.ErrUpstream, "POST %s: %v", path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	zap.L().Debug("detection service call",
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return eris.Wrapf(entity.ErrUpstream, "POST %s: status %d: %s",
			path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if eris.Is(err, entity.ErrMalformedDetection) {
			return err
		}
		return eris.Wrapf(entity.ErrUpstream, "POST %s: decode response: %v", path, err)
	}
	return nil
}

var (
	_ port.DamageDetector = (*Client)(nil)
	_ port.ClaimAssistant = (*Client)(nil)
)
