package config

import (
	"fmt"
	"math"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"tts-generate/internal/tts"
)

// Config содержит все конфигурационные параметры приложения
type Config struct {
	TTS     TTSConfig
	App     AppConfig
	Metrics MetricsConfig
}

// TTSConfig содержит настройки удаленного TTS API
type TTSConfig struct {
	APIURL      string
	ModelName   string
	Speaker     string
	LengthScale float64
	Autocorrect bool
	Timeout     time.Duration
	Download    bool
}

type AppConfig struct {
	Env      string
	LogLevel string
}

// MetricsConfig содержит настройки выгрузки метрик
type MetricsConfig struct {
	TextfilePath string
	// ListenAddr включает /metrics и /health на время выполнения запроса
	ListenAddr string
}

// Load загружает конфигурацию из переменных окружения и .env
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	var err error

	// TTS
	cfg.TTS.APIURL = getEnvDefault("TTS_API_URL", tts.DefaultAPIURL)
	cfg.TTS.ModelName = getEnvDefault("TTS_MODEL_NAME", tts.DefaultModelName)
	cfg.TTS.Speaker = getEnvDefault("TTS_SPEAKER", tts.DefaultSpeaker)
	if cfg.TTS.LengthScale, err = getEnvFloatDefault("TTS_LENGTH_SCALE", tts.DefaultLengthScale); err != nil {
		return nil, err
	}
	if cfg.TTS.Autocorrect, err = getEnvBoolDefault("TTS_AUTOCORRECT", false); err != nil {
		return nil, err
	}
	if cfg.TTS.Timeout, err = getEnvDurationDefault("TTS_TIMEOUT", 0); err != nil {
		return nil, err
	}
	if cfg.TTS.Download, err = getEnvBoolDefault("TTS_DOWNLOAD", false); err != nil {
		return nil, err
	}

	// Metrics
	cfg.Metrics.TextfilePath = os.Getenv("METRICS_TEXTFILE")
	cfg.Metrics.ListenAddr = os.Getenv("METRICS_ADDR")

	// App
	cfg.App.Env = getEnvDefault("APP_ENV", "development")
	cfg.App.LogLevel = getEnvDefault("LOG_LEVEL", "info")

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}

	return cfg, nil
}

func getEnvDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvFloatDefault(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: некорректное число %q: %w", key, v, err)
	}
	return f, nil
}

func getEnvBoolDefault(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: некорректное булево значение %q: %w", key, v, err)
	}
	return b, nil
}

func getEnvDurationDefault(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: некорректная длительность %q: %w", key, v, err)
	}
	return d, nil
}

// validateConfig проверяет корректность конфигурации
func validateConfig(config *Config) error {
	u, err := url.Parse(config.TTS.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("TTS_API_URL должен быть http(s) адресом: %q", config.TTS.APIURL)
	}
	if config.TTS.ModelName == "" {
		return fmt.Errorf("TTS_MODEL_NAME не установлен")
	}
	if config.TTS.Speaker == "" {
		return fmt.Errorf("TTS_SPEAKER не установлен")
	}
	if math.IsNaN(config.TTS.LengthScale) || math.IsInf(config.TTS.LengthScale, 0) || config.TTS.LengthScale <= 0 {
		return fmt.Errorf("TTS_LENGTH_SCALE должен быть положительным, получено %v", config.TTS.LengthScale)
	}
	if config.TTS.Timeout < 0 {
		return fmt.Errorf("TTS_TIMEOUT не может быть отрицательным")
	}

	return nil
}

// Options возвращает настройки для TTS клиента
func (c *TTSConfig) Options() tts.Options {
	return tts.Options{
		APIURL:      c.APIURL,
		ModelName:   c.ModelName,
		Speaker:     c.Speaker,
		LengthScale: c.LengthScale,
		Autocorrect: c.Autocorrect,
		Timeout:     c.Timeout,
		Download:    c.Download,
	}
}

// IsProduction проверяет, запущено ли приложение в продакшн режиме
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// GetLogLevel возвращает уровень логирования в формате zap
func (c *AppConfig) GetLogLevel() zap.AtomicLevel {
	switch c.LogLevel {
	case "debug":
		return zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		return zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		return zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	}
}
