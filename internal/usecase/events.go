package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/GoArmGo/Gallery/internal/core/ports"
	"github.com/GoArmGo/Gallery/internal/domain"
	"github.com/GoArmGo/Gallery/internal/messaging/payloads"
)

// ForwardPageStates возвращает слушателя для PageLoader.OnChange, который публикует
// каждый переход как событие. Ошибки публикации только логируются.
// Отмена ctx не останавливает публикацию: переходы во время остановки сервера тоже уходят.
func ForwardPageStates(ctx context.Context, publisher ports.PageStatePublisher, logger *slog.Logger) func(domain.Snapshot) {
	ctx = context.WithoutCancel(ctx)
	return func(snap domain.Snapshot) {
		payload := payloads.NewPageStatePayload(snap, time.Now())
		if err := publisher.PublishPageState(ctx, payload); err != nil {
			logger.Error("failed to publish page state",
				"event_id", payload.EventID,
				"page", payload.Page,
				"status", payload.Status,
				"error", err,
			)
		}
	}
}
