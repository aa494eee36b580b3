package payloads

import (
	"time"

	"github.com/GoArmGo/Gallery/internal/domain"
	"github.com/google/uuid"
)

// PageStatePayload - событие о переходе загрузчика страниц, передается через RabbitMQ.
type PageStatePayload struct {
	EventID    uuid.UUID `json:"event_id"`
	Page       int       `json:"page"`
	LoadedPage int       `json:"loaded_page"`
	Status     string    `json:"status"`
	Message    string    `json:"message,omitempty"`
	ImageCount int       `json:"image_count"`
	ImageIDs   []string  `json:"image_ids"`
	Generation uint64    `json:"generation"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewPageStatePayload строит событие из снимка состояния
func NewPageStatePayload(snap domain.Snapshot, now time.Time) PageStatePayload {
	ids := make([]string, 0, len(snap.Images))
	for _, img := range snap.Images {
		ids = append(ids, img.ID)
	}
	return PageStatePayload{
		EventID:    uuid.New(),
		Page:       snap.CurrentPage,
		LoadedPage: snap.LoadedPage,
		Status:     snap.Status.String(),
		Message:    snap.Message,
		ImageCount: len(snap.Images),
		ImageIDs:   ids,
		Generation: snap.Generation,
		OccurredAt: now.UTC(),
	}
}
