package domain

import (
	"fmt"
	"strings"
	"unicode"
)

// ImageRecord представляет метаданные одной фотографии из внешнего источника списка.
// Значение неизменяемо: загрузчик страниц копирует записи и никогда их не правит.
type ImageRecord struct {
	ID          string `json:"id"`
	Author      string `json:"author"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	URL         string `json:"url"`
	DownloadURL string `json:"download_url"`
}

// Validate проверяет запись, полученную из внешнего API
func (r ImageRecord) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("пустой id")
	}
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("image %s: некорректные размеры %dx%d", r.ID, r.Width, r.Height)
	}
	if r.URL == "" {
		return fmt.Errorf("image %s: пустой url", r.ID)
	}
	if r.DownloadURL == "" {
		return fmt.Errorf("image %s: пустой download_url", r.ID)
	}
	return nil
}

// DownloadFilename возвращает имя файла для скачивания: photo-by-<slug>.jpg
func (r ImageRecord) DownloadFilename() string {
	slug := Slugify(r.Author)
	if slug == "" {
		slug = "unknown"
	}
	return "photo-by-" + slug + ".jpg"
}

// Slugify приводит строку к нижнему регистру и заменяет каждую серию пробельных символов дефисом.
func Slugify(s string) string {
	var b strings.Builder
	inSpace := false
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace {
			b.WriteByte('-')
			inSpace = false
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
