package picsum

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/GoArmGo/Gallery/internal/config"
	"github.com/GoArmGo/Gallery/internal/domain"
)

// Client представляет клиент для Picsum API (https://picsum.photos/v2/list).
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient создает клиент. Таймаут 0 означает ожидание ответа без ограничения.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.FetchTimeout},
		baseURL:    cfg.PicsumBaseURL,
		logger:     logger,
	}
}

// ListImages реализует ports.ImageLister.
func (c *Client) ListImages(ctx context.Context, page, limit int) ([]domain.ImageRecord, error) {
	start := time.Now()

	params := url.Values{}
	params.Add("page", strconv.Itoa(page))
	params.Add("limit", strconv.Itoa(limit))
	endpoint := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: ошибка создания HTTP-запроса: %v", domain.ErrFetchFailure, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: ошибка выполнения HTTP-запроса к Picsum: %v", domain.ErrFetchFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: picsum API вернул статус %d: %s", domain.ErrFetchFailure, resp.StatusCode, string(bodyBytes))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: ошибка чтения ответа Picsum: %v", domain.ErrFetchFailure, err)
	}

	images, err := decodeList(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailure, err)
	}

	c.logger.Debug("picsum page fetched",
		"page", page,
		"limit", limit,
		"count", len(images),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return images, nil
}

// decodeList декодирует и валидирует тело ответа: JSON-массив объектов ImageRecord
func decodeList(body []byte) ([]domain.ImageRecord, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("ответ не является JSON-массивом")
	}

	var items []listItem
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("ошибка декодирования JSON ответа Picsum: %v", err)
	}

	images := make([]domain.ImageRecord, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for i, it := range items {
		rec, err := it.toDomain()
		if err != nil {
			return nil, fmt.Errorf("элемент %d: %v", i, err)
		}
		if _, dup := seen[rec.ID]; dup {
			return nil, fmt.Errorf("элемент %d: повторяющийся id %q", i, rec.ID)
		}
		seen[rec.ID] = struct{}{}
		images = append(images, rec)
	}
	return images, nil
}

// OpenImage реализует ports.ImageOpener. Вызывающий обязан закрыть body.
func (c *Client) OpenImage(ctx context.Context, downloadURL string) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: ошибка создания HTTP-запроса: %v", domain.ErrFetchFailure, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: ошибка скачивания изображения %s: %v", domain.ErrFetchFailure, downloadURL, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, "", fmt.Errorf("%w: неуспешный статус при скачивании изображения: %s", domain.ErrFetchFailure, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return resp.Body, contentType, nil
}
