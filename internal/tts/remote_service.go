package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tts-generate/internal/metrics"
)

// maxErrorBody ограничивает размер тела ответа, попадающего в ошибку
const maxErrorBody = 512

var _ Synthesizer = (*RemoteService)(nil)

// RemoteService предоставляет функциональность Text-to-Speech через удаленный HTTP API
type RemoteService struct {
	logger     *zap.Logger
	opts       Options
	httpClient *http.Client
	metrics    *metrics.Metrics
}

// NewRemoteService создает новый клиент удаленного TTS API
func NewRemoteService(logger *zap.Logger, opts Options, m *metrics.Metrics) *RemoteService {
	return &RemoteService{
		logger: logger,
		opts:   opts,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		metrics: m,
	}
}

// GenerateTTS синтезирует речь и возвращает audio_path.
// При любой ошибке возвращается пустая строка вместе с ошибкой.
func (s *RemoteService) GenerateTTS(ctx context.Context, text, outputPath string) (string, error) {
	result, err := s.Synthesize(ctx, text, outputPath)
	if result == nil {
		return "", err
	}
	return result.AudioPath, err
}

// Synthesize выполняет один запрос к TTS API
func (s *RemoteService) Synthesize(ctx context.Context, text, outputPath string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		s.metrics.RecordRequest(Kind(ErrEmptyText), 0, 0)
		return nil, fmt.Errorf("❌ Input text is empty. Please provide valid input: %w", ErrEmptyText)
	}

	requestID := uuid.NewString()
	logger := s.logger.With(zap.String("request_id", requestID))

	logger.Info("🔈 Sending request to TTS API...",
		zap.String("url", s.opts.APIURL),
		zap.Int("text_length", len(text)))

	start := time.Now()
	audioPath, err := s.requestSynthesis(ctx, logger, requestID, text)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		s.metrics.RecordRequest(Kind(err), elapsed, 0)
		return nil, err
	}
	s.metrics.RecordRequest(Kind(nil), elapsed, float64(time.Now().Unix()))

	logger.Info(fmt.Sprintf("✅ Speech generated successfully: %s", audioPath),
		zap.String("audio_path", audioPath),
		zap.Float64("duration_seconds", elapsed))

	result := &Result{
		AudioPath: audioPath,
		RequestID: requestID,
	}

	if !s.opts.Download {
		return result, nil
	}

	saved, err := s.downloadAudio(ctx, logger, audioPath, outputPath)
	s.metrics.RecordDownload(err == nil)
	if err != nil {
		return result, err
	}
	result.SavedTo = saved

	return result, nil
}

// requestSynthesis отправляет запрос и разбирает ответ
func (s *RemoteService) requestSynthesis(ctx context.Context, logger *zap.Logger, requestID, text string) (string, error) {
	payload, err := json.Marshal(s.opts.newRequest(text))
	if err != nil {
		logger.Error("❌ Failed to encode TTS request", zap.Error(err))
		return "", fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.opts.APIURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		logger.Error(fmt.Sprintf("❌ Error during API request: %v", err), zap.Error(err))
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error(fmt.Sprintf("❌ Error during API request: %v", err), zap.Error(err))
		return "", &TransportError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		logger.Error(fmt.Sprintf("❌ Failed to synthesize speech, received status code: %d", resp.StatusCode),
			zap.Int("status_code", resp.StatusCode))
		return "", &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), maxErrorBody)}
	}

	var response SynthesisResponse
	if err := json.Unmarshal(body, &response); err != nil {
		logger.Error("❌ Invalid response from TTS API",
			zap.Error(err),
			zap.String("body", truncate(string(body), maxErrorBody)))
		return "", &ProtocolError{Reason: "ошибка парсинга ответа", Err: err}
	}

	if !response.Success {
		logger.Error(fmt.Sprintf("❌ API error: %s", response.Error), zap.String("error_message", response.Error))
		return "", &APIError{Message: response.Error}
	}

	if response.AudioPath == "" {
		logger.Error("❌ Invalid response from TTS API: audio_path is missing")
		return "", &ProtocolError{Reason: "в успешном ответе отсутствует audio_path"}
	}

	return response.AudioPath, nil
}

// truncate обрезает строку до n байт, не разрывая UTF-8 символы
func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
