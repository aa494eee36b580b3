package ports

import (
	"context"
	"io"

	"github.com/GoArmGo/Gallery/internal/domain"
)

// ImageLister определяет метод получения одной страницы метаданных из внешнего источника
type ImageLister interface {
	// ListImages возвращает записи страницы в порядке ответа API.
	// Любая ошибка оборачивает domain.ErrFetchFailure.
	ListImages(ctx context.Context, page, limit int) ([]domain.ImageRecord, error)
}

// ImageOpener открывает поток с содержимым изображения по download_url
type ImageOpener interface {
	OpenImage(ctx context.Context, downloadURL string) (body io.ReadCloser, contentType string, err error)
}

// FileStorage - порт для хранения бинарных данных (S3, MinIO)
type FileStorage interface {
	UploadFile(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)
}
