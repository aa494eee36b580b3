package di

import (
	"context"
	"fmt"

	"github.com/GoArmGo/Gallery/internal/adapter/picsum"
	"github.com/GoArmGo/Gallery/internal/adapter/storage/minio"
	"github.com/GoArmGo/Gallery/internal/app"
	"github.com/GoArmGo/Gallery/internal/config"
	"github.com/GoArmGo/Gallery/internal/core/ports"
	"github.com/GoArmGo/Gallery/internal/logger"
	"github.com/GoArmGo/Gallery/internal/rabbitmq"
	"github.com/GoArmGo/Gallery/internal/usecase"
)

// BuildApp инициализирует зависимости, нужные режиму mode, и возвращает готовый объект App.
func BuildApp(ctx context.Context, mode app.Mode) (*app.App, error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat, "mode", mode)

	// 2. Клиент внешнего источника и загрузчик страниц
	picsumClient := picsum.NewClient(cfg, slogger)

	policy, err := usecase.ParseStalePolicy(cfg.StaleResponses)
	if err != nil {
		return nil, err
	}
	loader := usecase.NewPageLoader(picsumClient, policy, slogger)

	var closers []func() error

	// 3. Файловое хранилище (только для API)
	var fileStorage ports.FileStorage
	if mode == app.ModeServe && cfg.StorageEnabled() {
		minioClient, err := minio.NewMinioClient(ctx, cfg, slogger)
		if err != nil {
			return nil, err
		}
		fileStorage = minioClient
	}
	exporter := usecase.NewImageExporter(loader, picsumClient, fileStorage, slogger)

	// 4. RabbitMQ: публикация переходов (serve) или наблюдение (watch)
	var consumer ports.PageStateConsumer
	if mode != app.ModeBrowse && cfg.EventsEnabled() {
		rabbitMQClient, err := rabbitmq.NewClient(cfg, slogger)
		if err != nil {
			return nil, err
		}
		closers = append(closers, rabbitMQClient.Close)

		switch mode {
		case app.ModeServe:
			loader.OnChange(usecase.ForwardPageStates(ctx, rabbitMQClient, slogger))
		case app.ModeWatch:
			consumer = rabbitMQClient
		}
	} else if mode == app.ModeWatch {
		return nil, fmt.Errorf("режим watch требует RABBITMQ_URL")
	}

	application := app.NewApp(cfg, slogger, loader, exporter, consumer, closers...)

	slogger.Info("dependencies initialized",
		"storage_enabled", fileStorage != nil,
		"events_enabled", cfg.EventsEnabled(),
		"stale_responses", policy.String(),
	)
	return application, nil
}
