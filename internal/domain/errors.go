package domain

import "errors"

var (
	// ErrFetchFailure - любая ошибка получения страницы: сеть, статус не 2xx, битый JSON
	ErrFetchFailure = errors.New("fetch failure")

	// ErrImageNotFound - изображения нет на текущей странице
	ErrImageNotFound = errors.New("image not found on current page")

	// ErrStorageDisabled - хранилище файлов не настроено
	ErrStorageDisabled = errors.New("file storage is not configured")
)
