package domain

// Status описывает состояние загрузки страницы
type Status string

const (
	// StatusLoading - запрос страницы отправлен, ответа еще нет
	StatusLoading Status = "Loading"

	// StatusError - запрос завершился ошибкой
	StatusError Status = "Error"

	// StatusReady - страница загружена (список может быть пустым)
	StatusReady Status = "Ready"
)

// FetchFailedMessage - единственное сообщение об ошибке, которое видит пользователь.
const FetchFailedMessage = "Failed to load images. Please try again."

func (s Status) String() string {
	return string(s)
}

// IsSettled возвращает true, если запрос завершился (успешно или с ошибкой)
func (s Status) IsSettled() bool {
	return s == StatusReady || s == StatusError
}

// PageState - состояние, которым владеет загрузчик страниц
type PageState struct {
	CurrentPage int
	Status      Status
	Message     string
	Images      []ImageRecord
	LoadedPage  int
}

// Snapshot - копия состояния только для чтения, отдается слою представления.
type Snapshot struct {
	CurrentPage int           `json:"page"`
	Status      Status        `json:"status"`
	Message     string        `json:"message,omitempty"`
	Images      []ImageRecord `json:"images"`
	LoadedPage  int           `json:"loaded_page"`
	Generation  uint64        `json:"generation"`
}

// Find ищет запись по id среди изображений снимка
func (s Snapshot) Find(id string) (ImageRecord, bool) {
	for _, img := range s.Images {
		if img.ID == id {
			return img, true
		}
	}
	return ImageRecord{}, false
}
