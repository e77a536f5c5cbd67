package tts

import "time"

const (
	DefaultAPIURL      = "https://game-enormously-monkey.ngrok-free.app/tts/synthesize"
	DefaultModelName   = "AI-VIDEO-DUBBING"
	DefaultSpeaker     = "female"
	DefaultLengthScale = 1.0
)

// SynthesisRequest представляет тело запроса к TTS API
type SynthesisRequest struct {
	Text        string  `json:"text"`
	ModelName   string  `json:"model_name"`
	Speaker     string  `json:"speaker"`
	LengthScale float64 `json:"length_scale"` // 1.0 = обычная скорость
	Autocorrect bool    `json:"autocorrect"`
}

// SynthesisResponse представляет ответ TTS API
type SynthesisResponse struct {
	Success   bool   `json:"success"`
	AudioPath string `json:"audio_path,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Options содержит настройки клиента
type Options struct {
	APIURL      string
	ModelName   string
	Speaker     string
	LengthScale float64
	Autocorrect bool
	// Timeout 0 означает отсутствие таймаута, как у http.Client по умолчанию
	Timeout time.Duration
	// Download включает скачивание audio_path в outputPath
	Download bool
}

// DefaultOptions возвращает настройки по умолчанию
func DefaultOptions() Options {
	return Options{
		APIURL:      DefaultAPIURL,
		ModelName:   DefaultModelName,
		Speaker:     DefaultSpeaker,
		LengthScale: DefaultLengthScale,
		Autocorrect: false,
	}
}

// newRequest собирает новый запрос для каждого вызова
func (o Options) newRequest(text string) SynthesisRequest {
	return SynthesisRequest{
		Text:        text,
		ModelName:   o.ModelName,
		Speaker:     o.Speaker,
		LengthScale: o.LengthScale,
		Autocorrect: o.Autocorrect,
	}
}
