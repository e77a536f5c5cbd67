package metrics

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Metrics содержит все метрики TTS клиента
type Metrics struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	// Счетчики
	ttsRequests    *prometheus.CounterVec
	audioDownloads *prometheus.CounterVec

	// Гистограммы
	ttsRequestDuration prometheus.Histogram

	// Gauge метрики
	lastSuccess prometheus.Gauge

	mu sync.Mutex
}

// New создает новый экземпляр метрик на собственном реестре
func New(logger *zap.Logger) *Metrics {
	m := &Metrics{
		logger:   logger,
		registry: prometheus.NewRegistry(),

		ttsRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tts_requests_total",
				Help: "Общее количество запросов к TTS API",
			},
			[]string{"status"}, // success, validation, transport, http_status, api_error, protocol, download
		),

		audioDownloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tts_audio_downloads_total",
				Help: "Общее количество скачиваний аудио",
			},
			[]string{"status"}, // success, failed
		),

		ttsRequestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tts_request_duration_seconds",
				Help:    "Время ответа TTS API в секундах",
				Buckets: prometheus.DefBuckets,
			},
		),

		lastSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "tts_last_success_timestamp_seconds",
				Help: "Timestamp последнего успешного синтеза",
			},
		),
	}

	m.registry.MustRegister(
		m.ttsRequests,
		m.audioDownloads,
		m.ttsRequestDuration,
		m.lastSuccess,
	)

	return m
}

// RecordRequest записывает результат запроса к TTS API
func (m *Metrics) RecordRequest(status string, responseTime float64, timestamp float64) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ttsRequests.WithLabelValues(status).Inc()
	// валидационные ошибки не доходят до сети
	if status != "validation" {
		m.ttsRequestDuration.Observe(responseTime)
	}
	if status == "success" {
		m.lastSuccess.Set(timestamp)
	}

	m.logger.Debug("метрика запроса записана",
		zap.String("status", status),
		zap.Float64("response_time", responseTime))
}

// RecordDownload записывает результат скачивания аудио
func (m *Metrics) RecordDownload(success bool) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "failed"
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.audioDownloads.WithLabelValues(status).Inc()
}

// WriteToTextfile сохраняет метрики для textfile коллектора node_exporter
func (m *Metrics) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("ошибка записи метрик в %s: %w", path, err)
	}
	m.logger.Debug("метрики записаны", zap.String("path", path))
	return nil
}

// Handler возвращает HTTP handler для метрик
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
