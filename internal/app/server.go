package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/GoArmGo/Gallery/internal/handler"
)

// Serve запускает HTTP API галереи и выполняет первую загрузку страницы 1
func (a *App) Serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	galleryHandler := handler.NewGalleryHandler(a.loader, a.exporter, a.logger)
	router := handler.NewRouter(handler.RouterConfig{
		RequestTimeout: a.Config.RequestTimeout,
		AllowedOrigins: a.Config.CORSAllowedOrigins,
	}, galleryHandler, a.logger)

	serverAddr := fmt.Sprintf(":%s", a.Config.ServerPort)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.loader.Start(ctx)

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Info("gallery API available", "addr", serverAddr, "stale_responses", a.Config.StaleResponses)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("ошибка при запуске сервера: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutdown signal received, stopping server")

	ctxServer, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxServer); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	a.logger.Info("server stopped")
	return a.Shutdown()
}
