package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tts-generate/internal/tts"
)

var configEnv = []string{
	"TTS_API_URL", "TTS_MODEL_NAME", "TTS_SPEAKER", "TTS_LENGTH_SCALE",
	"TTS_AUTOCORRECT", "TTS_TIMEOUT", "TTS_DOWNLOAD", "METRICS_TEXTFILE", "METRICS_ADDR",
	"APP_ENV", "LOG_LEVEL",
}

// clearEnv сбрасывает переменные окружения на время теста
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnv {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir()) // без .env

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// Проверяем значения по умолчанию
	assert.Equal(t, tts.DefaultAPIURL, cfg.TTS.APIURL)
	assert.Equal(t, "AI-VIDEO-DUBBING", cfg.TTS.ModelName)
	assert.Equal(t, "female", cfg.TTS.Speaker)
	assert.Equal(t, 1.0, cfg.TTS.LengthScale)
	assert.False(t, cfg.TTS.Autocorrect)
	assert.Equal(t, time.Duration(0), cfg.TTS.Timeout)
	assert.False(t, cfg.TTS.Download)
	assert.Empty(t, cfg.Metrics.TextfilePath)
	assert.Empty(t, cfg.Metrics.ListenAddr)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "info", cfg.App.LogLevel)

	assert.Equal(t, tts.DefaultOptions(), cfg.TTS.Options())
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	t.Setenv("TTS_API_URL", "http://localhost:9000/tts/synthesize")
	t.Setenv("TTS_MODEL_NAME", "other-model")
	t.Setenv("TTS_SPEAKER", "male")
	t.Setenv("TTS_LENGTH_SCALE", "1.5")
	t.Setenv("TTS_AUTOCORRECT", "true")
	t.Setenv("TTS_TIMEOUT", "45s")
	t.Setenv("TTS_DOWNLOAD", "1")
	t.Setenv("METRICS_TEXTFILE", "/var/lib/node_exporter/tts.prom")
	t.Setenv("METRICS_ADDR", "127.0.0.1:9464")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, tts.Options{
		APIURL:      "http://localhost:9000/tts/synthesize",
		ModelName:   "other-model",
		Speaker:     "male",
		LengthScale: 1.5,
		Autocorrect: true,
		Timeout:     45 * time.Second,
		Download:    true,
	}, cfg.TTS.Options())
	assert.Equal(t, "/var/lib/node_exporter/tts.prom", cfg.Metrics.TextfilePath)
	assert.Equal(t, "127.0.0.1:9464", cfg.Metrics.ListenAddr)
	assert.Equal(t, zap.DebugLevel, cfg.App.GetLogLevel().Level())
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "скорость не число", key: "TTS_LENGTH_SCALE", value: "abc"},
		{name: "скорость NaN", key: "TTS_LENGTH_SCALE", value: "NaN"},
		{name: "скорость +Inf", key: "TTS_LENGTH_SCALE", value: "+Inf"},
		{name: "скорость -Inf", key: "TTS_LENGTH_SCALE", value: "-Inf"},
		{name: "некорректный таймаут", key: "TTS_TIMEOUT", value: "soon"},
		{name: "некорректный autocorrect", key: "TTS_AUTOCORRECT", value: "maybe"},
		{name: "некорректный download", key: "TTS_DOWNLOAD", value: "yes please"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			chdir(t, t.TempDir())
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoadConfig_DotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TTS_SPEAKER=male\n"), 0o644))
	// godotenv не перезаписывает уже заданные переменные
	require.NoError(t, os.Unsetenv("TTS_SPEAKER"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "male", cfg.TTS.Speaker)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			TTS: TTSConfig{
				APIURL:      tts.DefaultAPIURL,
				ModelName:   tts.DefaultModelName,
				Speaker:     tts.DefaultSpeaker,
				LengthScale: 1.0,
			},
		}
	}

	assert.NoError(t, validateConfig(valid()))

	// Тест с пустыми обязательными полями
	assert.Error(t, validateConfig(&Config{}))

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "не http адрес", mutate: func(c *Config) { c.TTS.APIURL = "ftp://example.com" }},
		{name: "адрес без хоста", mutate: func(c *Config) { c.TTS.APIURL = "https://" }},
		{name: "пустая модель", mutate: func(c *Config) { c.TTS.ModelName = "" }},
		{name: "пустой голос", mutate: func(c *Config) { c.TTS.Speaker = "" }},
		{name: "нулевая скорость", mutate: func(c *Config) { c.TTS.LengthScale = 0 }},
		{name: "отрицательная скорость", mutate: func(c *Config) { c.TTS.LengthScale = -1 }},
		{name: "скорость NaN", mutate: func(c *Config) { c.TTS.LengthScale = math.NaN() }},
		{name: "бесконечная скорость", mutate: func(c *Config) { c.TTS.LengthScale = math.Inf(1) }},
		{name: "отрицательный таймаут", mutate: func(c *Config) { c.TTS.Timeout = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, validateConfig(cfg))
		})
	}
}

func TestAppConfigMethods(t *testing.T) {
	cfg := &AppConfig{
		Env:      "development",
		LogLevel: "warn",
	}

	assert.False(t, cfg.IsProduction())
	assert.Equal(t, zap.WarnLevel, cfg.GetLogLevel().Level())

	cfg.Env = "production"
	cfg.LogLevel = "unknown"
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, zap.InfoLevel, cfg.GetLogLevel().Level())
}
