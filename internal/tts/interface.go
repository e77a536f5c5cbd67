package tts

import "context"

// Synthesizer представляет интерфейс для Text-to-Speech сервиса
type Synthesizer interface {
	// Synthesize отправляет текст на синтез и возвращает расположение аудио
	Synthesize(ctx context.Context, text, outputPath string) (*Result, error)
}

// Result содержит результат успешного синтеза
type Result struct {
	AudioPath string // путь или URL, возвращенный сервисом
	SavedTo   string // локальный файл, если аудио было скачано
	RequestID string
}
