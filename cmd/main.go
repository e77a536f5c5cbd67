package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tts-generate/internal/config"
	"tts-generate/internal/metrics"
	"tts-generate/internal/tts"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd создает команду tts-generate "<text>" "<output_path>.mp3"
func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   `tts-generate "<text>" "<output_path>.mp3"`,
		Short: "Отправляет текст в TTS API и выводит путь к аудио",
		Long: `Отправляет текст в TTS API и выводит путь к аудио.

Оба аргумента позиционные, флаги не поддерживаются: текст может начинаться с "-".
Настройки читаются из переменных окружения и .env (TTS_*, METRICS_*, LOG_LEVEL).

Коды выхода:
  0  аудио сгенерировано
  1  неверное число аргументов, ошибка конфигурации или синтеза`,
		Args: cobra.ExactArgs(2),
		// текст передается как есть, даже "-5" или "--help"
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// аргументы валидны, дальше usage не нужен
			cmd.SilenceUsage = true

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
			}

			logger, err := initLogger(cfg.App)
			if err != nil {
				return fmt.Errorf("ошибка инициализации логгера: %w", err)
			}
			defer logger.Sync()

			// ошибки синтеза уже залогированы
			cmd.SilenceErrors = true

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, logger, args[0], args[1])
		},
	}
}

// run выполняет синтез и выгружает метрики
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, text, outputPath string) error {
	m := metrics.New(logger)

	if cfg.Metrics.ListenAddr != "" {
		addr, stop, err := startMetricsServer(cfg.Metrics.ListenAddr, metrics.NewHandler(m, logger), logger)
		if err != nil {
			return err
		}
		defer stop()
		logger.Debug("метрики доступны", zap.String("address", addr))
	}

	service := tts.NewRemoteService(logger, cfg.TTS.Options(), m)

	audioPath, err := service.GenerateTTS(ctx, text, outputPath)

	if cfg.Metrics.TextfilePath != "" {
		if werr := m.WriteToTextfile(cfg.Metrics.TextfilePath); werr != nil {
			logger.Warn("не удалось сохранить метрики", zap.Error(werr))
		}
	}

	if err != nil {
		if audioPath == "" {
			logger.Error("синтез не выполнен", zap.String("kind", tts.Kind(err)), zap.Error(err))
		} else {
			logger.Error("аудио сгенерировано, но не сохранено",
				zap.String("audio_path", audioPath),
				zap.Error(err))
		}
		return err
	}

	return nil
}

// startMetricsServer запускает HTTP сервер метрик на время выполнения запроса
func startMetricsServer(addr string, handler *metrics.Handler, logger *zap.Logger) (string, func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, fmt.Errorf("ошибка запуска HTTP сервера метрик: %w", err)
	}

	mux := http.NewServeMux()
	handler.Register(mux)
	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("ошибка HTTP сервера метрик", zap.Error(err))
		}
	}()

	logger.Info("HTTP сервер метрик запущен", zap.String("address", ln.Addr().String()))

	stop := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("ошибка при остановке HTTP сервера метрик", zap.Error(err))
		}
		logger.Info("HTTP сервер метрик остановлен")
	}

	return ln.Addr().String(), stop, nil
}

// initLogger инициализирует логгер для консольного вывода
func initLogger(app config.AppConfig) (*zap.Logger, error) {
	zapConfig := zap.NewDevelopmentConfig()
	if app.IsProduction() {
		zapConfig = zap.NewProductionConfig()
	}
	zapConfig.Level = app.GetLogLevel()
	zapConfig.OutputPaths = []string{"stdout"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}
	zapConfig.DisableStacktrace = true

	return zapConfig.Build()
}
