package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/GoArmGo/Gallery/internal/domain"
	"github.com/GoArmGo/Gallery/internal/messaging/payloads"
	"github.com/GoArmGo/Gallery/internal/view"
)

// ErrEventStreamClosed возвращается Watch, если брокер закрыл поток событий
var ErrEventStreamClosed = errors.New("поток событий RabbitMQ закрыт")

// Watch потребляет события о состоянии страницы и печатает панель для каждого
func (a *App) Watch(ctx context.Context, w io.Writer) error {
	if a.consumer == nil {
		return fmt.Errorf("RABBITMQ_URL не задан: наблюдать нечего")
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stopped, err := a.consumer.StartConsumingPageStates(ctx, func(ctx context.Context, p payloads.PageStatePayload) error {
		_, err := io.WriteString(w, FormatEvent(p))
		return err
	})
	if err != nil {
		return fmt.Errorf("ошибка при запуске потребителя RabbitMQ: %w", err)
	}

	a.logger.Info("watching page state events")
	select {
	case <-ctx.Done():
		a.logger.Info("watch stopped")
		return a.Shutdown()
	case <-stopped:
	}

	// потребитель также останавливается при отмене ctx
	if ctx.Err() != nil {
		a.logger.Info("watch stopped")
		return a.Shutdown()
	}

	a.logger.Error("page state consumer stopped unexpectedly")
	if err := a.Shutdown(); err != nil {
		return errors.Join(ErrEventStreamClosed, err)
	}
	return ErrEventStreamClosed
}

// FormatEvent возвращает строку для одного события
func FormatEvent(p payloads.PageStatePayload) string {
	panel := view.PanelFor(domain.Status(p.Status), p.ImageCount)
	line := fmt.Sprintf("%s page=%d gen=%d panel=%s", p.OccurredAt.Format(time.RFC3339), p.Page, p.Generation, panel)
	switch panel {
	case view.PanelGrid:
		line += fmt.Sprintf(" images=%d loaded_page=%d", p.ImageCount, p.LoadedPage)
	case view.PanelError:
		line += fmt.Sprintf(" message=%q", p.Message)
	}
	return line + "\n"
}
