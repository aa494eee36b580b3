package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GoArmGo/Gallery/internal/core/ports"
	"github.com/GoArmGo/Gallery/internal/domain"
)

// imageExporter реализует ImageExporter
type imageExporter struct {
	gallery     Snapshotter
	opener      ports.ImageOpener
	fileStorage ports.FileStorage
	logger      *slog.Logger
}

// NewImageExporter создает экспортер изображений. fileStorage может быть nil:
// тогда Save возвращает domain.ErrStorageDisabled.
func NewImageExporter(
	gallery Snapshotter,
	opener ports.ImageOpener,
	fileStorage ports.FileStorage,
	logger *slog.Logger,
) ImageExporter {
	return &imageExporter{
		gallery:     gallery,
		opener:      opener,
		fileStorage: fileStorage,
		logger:      logger,
	}
}

func (e *imageExporter) lookup(id string) (domain.ImageRecord, error) {
	img, ok := e.gallery.Snapshot().Find(id)
	if !ok {
		return domain.ImageRecord{}, fmt.Errorf("usecase: image %s: %w", id, domain.ErrImageNotFound)
	}
	return img, nil
}

// Download открывает download_url изображения. Вызывающий закрывает Body.
func (e *imageExporter) Download(ctx context.Context, id string) (*Download, error) {
	img, err := e.lookup(id)
	if err != nil {
		return nil, err
	}

	body, contentType, err := e.opener.OpenImage(ctx, img.DownloadURL)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка скачивания изображения %s: %w", id, err)
	}

	e.logger.Info("image download started", "id", id, "filename", img.DownloadFilename())
	return &Download{
		Image:       img,
		Filename:    img.DownloadFilename(),
		ContentType: contentType,
		Body:        body,
	}, nil
}

// Save скачивает изображение и загружает его в файловое хранилище
func (e *imageExporter) Save(ctx context.Context, id string) (string, error) {
	if e.fileStorage == nil {
		return "", domain.ErrStorageDisabled
	}

	start := time.Now()
	dl, err := e.Download(ctx, id)
	if err != nil {
		return "", err
	}
	defer dl.Body.Close()

	key := ObjectKey(dl.Image)
	location, err := e.fileStorage.UploadFile(ctx, key, dl.Body, dl.ContentType)
	if err != nil {
		return "", fmt.Errorf("usecase: ошибка загрузки изображения %s в хранилище: %w", id, err)
	}

	e.logger.Info("image saved to storage",
		"id", id,
		"key", key,
		"location", location,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return location, nil
}

// ObjectKey возвращает ключ объекта в хранилище: downloads/photo-by-<slug>-<id>.jpg
func ObjectKey(img domain.ImageRecord) string {
	base := strings.TrimSuffix(img.DownloadFilename(), ".jpg")
	return fmt.Sprintf("downloads/%s-%s.jpg", base, img.ID)
}
