package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// downloadAudio скачивает аудио по audio_path и сохраняет его в outputPath
func (s *RemoteService) downloadAudio(ctx context.Context, logger *zap.Logger, audioPath, outputPath string) (string, error) {
	if outputPath == "" {
		return "", fmt.Errorf("%w: не указан путь для сохранения", ErrDownload)
	}

	audioURL, err := resolveAudioURL(s.opts.APIURL, audioPath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownload, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: ошибка создания запроса для скачивания: %w", ErrDownload, err)
	}

	logger.Info("⬇️ Downloading audio...", zap.String("url", audioURL))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		logger.Error("❌ Failed to download audio", zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrDownload, &TransportError{Err: err})
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Error(fmt.Sprintf("❌ Failed to download audio, received status code: %d", resp.StatusCode),
			zap.Int("status_code", resp.StatusCode))
		return "", fmt.Errorf("%w: %w", ErrDownload, &StatusError{StatusCode: resp.StatusCode})
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", fmt.Errorf("%w: ошибка создания директории: %w", ErrDownload, err)
	}

	// пишем во временный файл, чтобы не оставить обрезанное аудио
	tmp, err := os.CreateTemp(filepath.Dir(outputPath), ".tts-*.part")
	if err != nil {
		return "", fmt.Errorf("%w: ошибка создания файла: %w", ErrDownload, err)
	}
	defer s.cleanupFile(tmp.Name())

	written, err := io.Copy(tmp, resp.Body)
	if err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: ошибка чтения аудио данных: %w", ErrDownload, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: ошибка записи файла: %w", ErrDownload, err)
	}
	if err := os.Rename(tmp.Name(), outputPath); err != nil {
		return "", fmt.Errorf("%w: ошибка сохранения файла: %w", ErrDownload, err)
	}

	logger.Info(fmt.Sprintf("💾 Audio saved to %s", outputPath),
		zap.String("output_path", outputPath),
		zap.Int64("audio_size", written))

	return outputPath, nil
}

// resolveAudioURL превращает audio_path в абсолютный URL относительно адреса API
func resolveAudioURL(apiURL, audioPath string) (string, error) {
	ref, err := url.Parse(audioPath)
	if err != nil {
		return "", fmt.Errorf("некорректный audio_path %q: %w", audioPath, err)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}

	base, err := url.Parse(apiURL)
	if err != nil {
		return "", fmt.Errorf("некорректный адрес API %q: %w", apiURL, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// cleanupFile удаляет временный файл
func (s *RemoteService) cleanupFile(filename string) {
	if err := os.Remove(filename); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("ошибка удаления временного файла",
			zap.String("filename", filename),
			zap.Error(err))
	}
}
