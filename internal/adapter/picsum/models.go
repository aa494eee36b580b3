package picsum

import (
	"fmt"

	"github.com/GoArmGo/Gallery/internal/domain"
)

// listItem - элемент ответа /v2/list. Указатели позволяют отличить отсутствующее поле от нулевого.
type listItem struct {
	ID          *string `json:"id"`
	Author      *string `json:"author"`
	Width       *int    `json:"width"`
	Height      *int    `json:"height"`
	URL         *string `json:"url"`
	DownloadURL *string `json:"download_url"`
}

// toDomain проверяет наличие всех полей и маппит элемент в domain.ImageRecord
func (it listItem) toDomain() (domain.ImageRecord, error) {
	missing := make([]string, 0)
	if it.ID == nil {
		missing = append(missing, "id")
	}
	if it.Author == nil {
		missing = append(missing, "author")
	}
	if it.Width == nil {
		missing = append(missing, "width")
	}
	if it.Height == nil {
		missing = append(missing, "height")
	}
	if it.URL == nil {
		missing = append(missing, "url")
	}
	if it.DownloadURL == nil {
		missing = append(missing, "download_url")
	}
	if len(missing) > 0 {
		return domain.ImageRecord{}, fmt.Errorf("отсутствуют поля %v", missing)
	}

	rec := domain.ImageRecord{
		ID:          *it.ID,
		Author:      *it.Author,
		Width:       *it.Width,
		Height:      *it.Height,
		URL:         *it.URL,
		DownloadURL: *it.DownloadURL,
	}
	if err := rec.Validate(); err != nil {
		return domain.ImageRecord{}, err
	}
	return rec, nil
}
