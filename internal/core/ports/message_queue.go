package ports

import (
	"context"

	"github.com/GoArmGo/Gallery/internal/messaging/payloads"
)

// PageStatePublisher публикует события о смене состояния страницы
type PageStatePublisher interface {
	PublishPageState(ctx context.Context, payload payloads.PageStatePayload) error
}

// PageStateConsumer потребляет события о смене состояния страницы.
// Используется удаленным слоем представления (команда watch).
// Возвращаемый канал закрывается, когда потребитель остановлен.
type PageStateConsumer interface {
	StartConsumingPageStates(ctx context.Context, handler func(context.Context, payloads.PageStatePayload) error) (<-chan struct{}, error)
}
