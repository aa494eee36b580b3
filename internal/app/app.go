package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/Gallery/internal/config"
	"github.com/GoArmGo/Gallery/internal/core/ports"
	"github.com/GoArmGo/Gallery/internal/usecase"
)

// Mode определяет, какие внешние зависимости нужны приложению
type Mode string

const (
	ModeServe  Mode = "serve"
	ModeBrowse Mode = "browse"
	ModeWatch  Mode = "watch"
)

type App struct {
	Config   *config.Config
	logger   *slog.Logger
	loader   *usecase.PageLoader
	exporter usecase.ImageExporter
	consumer ports.PageStateConsumer
	closers  []func() error
}

func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	loader *usecase.PageLoader,
	exporter usecase.ImageExporter,
	consumer ports.PageStateConsumer,
	closers ...func() error,
) *App {
	return &App{
		Config:   cfg,
		logger:   logger,
		loader:   loader,
		exporter: exporter,
		consumer: consumer,
		closers:  closers,
	}
}

// LoggerIns возвращает основной логгер приложения
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Shutdown закрывает все ресурсы приложения
func (a *App) Shutdown() error {
	var errs []error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("ошибка при завершении: %w", err)
	}
	return nil
}
