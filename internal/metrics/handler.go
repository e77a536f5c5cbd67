package metrics

import (
	"net/http"

	"go.uber.org/zap"
)

// Handler обрабатывает HTTP запросы для метрик
type Handler struct {
	metrics *Metrics
	logger  *zap.Logger
}

// NewHandler создает новый обработчик метрик
func NewHandler(metrics *Metrics, logger *zap.Logger) *Handler {
	return &Handler{
		metrics: metrics,
		logger:  logger,
	}
}

// Register подключает /metrics и /health к mux
func (h *Handler) Register(mux *http.ServeMux) {
	mux.Handle("/metrics", h.metrics.Handler())
	mux.HandleFunc("/health", h.HealthHandler)
}

// HealthHandler возвращает статус здоровья сервиса
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`{"status":"ok","service":"tts-generate"}`)); err != nil {
		h.logger.Warn("ошибка записи ответа health", zap.Error(err))
	}
}
