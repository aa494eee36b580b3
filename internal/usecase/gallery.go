package usecase

import (
	"context"
	"io"

	"github.com/GoArmGo/Gallery/internal/domain"
)

// Snapshotter отдает снимок текущего состояния страницы
type Snapshotter interface {
	Snapshot() domain.Snapshot
}

// Gallery определяет операции загрузчика страниц, доступные слою представления.
// Все операции возвращают канал, который закрывается после применения (или отбрасывания) ответа.
type Gallery interface {
	Snapshotter

	// Load переводит состояние в Loading и запрашивает страницу page
	Load(ctx context.Context, page int) <-chan struct{}

	// Retry повторяет загрузку текущей страницы
	Retry(ctx context.Context) <-chan struct{}

	// GoToPage переходит на страницу n; n <= 0 игнорируется
	GoToPage(ctx context.Context, n int) <-chan struct{}

	// NextPage и PrevPage сдвигают текущую страницу на единицу
	NextPage(ctx context.Context) <-chan struct{}
	PrevPage(ctx context.Context) <-chan struct{}
}

// Download - поток изображения, готовый к отдаче клиенту
type Download struct {
	Image       domain.ImageRecord
	Filename    string
	ContentType string
	Body        io.ReadCloser
}

// ImageExporter определяет интерфейс для скачивания и сохранения изображений текущей страницы
type ImageExporter interface {
	// Download открывает download_url изображения с текущей страницы
	Download(ctx context.Context, id string) (*Download, error)

	// Save копирует изображение в файловое хранилище и возвращает его URL
	Save(ctx context.Context, id string) (string, error)
}
