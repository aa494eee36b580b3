package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"sync"

	"github.com/GoArmGo/Gallery/internal/domain"
	"github.com/GoArmGo/Gallery/internal/usecase"
	"github.com/GoArmGo/Gallery/internal/view"
	"github.com/go-chi/chi/v5"
)

// GalleryHandler — обработчик HTTP-запросов галереи. Выбранное изображение (детальный просмотр)
// принадлежит слою представления и сбрасывается, когда страница перезагружается.
type GalleryHandler struct {
	gallery  usecase.Gallery
	exporter usecase.ImageExporter
	logger   *slog.Logger

	mu          sync.Mutex
	selected    *domain.ImageRecord
	selectedGen uint64
}

// GalleryView — ответ со состоянием галереи
type GalleryView struct {
	Page       int                  `json:"page"`
	LoadedPage int                  `json:"loaded_page"`
	Status     domain.Status        `json:"status"`
	Message    string               `json:"message,omitempty"`
	Panel      view.Panel           `json:"panel"`
	Images     []domain.ImageRecord `json:"images"`
	Selected   *domain.ImageRecord  `json:"selected,omitempty"`
	Generation uint64               `json:"generation"`
}

// NewGalleryHandler создаёт новый экземпляр GalleryHandler.
func NewGalleryHandler(gallery usecase.Gallery, exporter usecase.ImageExporter, logger *slog.Logger) *GalleryHandler {
	return &GalleryHandler{
		gallery:  gallery,
		exporter: exporter,
		logger:   logger,
	}
}

// Routes регистрирует маршруты галереи
func (h *GalleryHandler) Routes(r chi.Router) {
	r.Get("/gallery", h.GetGallery)
	r.Post("/gallery/next", h.NextPage)
	r.Post("/gallery/prev", h.PrevPage)
	r.Post("/gallery/retry", h.Retry)
	r.Post("/gallery/page/{page}", h.GoToPage)
	r.Delete("/gallery/selection", h.ClearSelection)
	r.Get("/gallery/images/{id}", h.SelectImage)
	r.Get("/gallery/images/{id}/download", h.DownloadImage)
	r.Post("/gallery/images/{id}/save", h.SaveImage)
}

// respondWithJSON — отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithError — отправляет JSON-ответ с ошибкой.
func respondWithError(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, map[string]string{"error": message}, logger)
}

func (h *GalleryHandler) currentView() GalleryView {
	snap := h.gallery.Snapshot()

	h.mu.Lock()
	if h.selected != nil && h.selectedGen != snap.Generation {
		h.selected = nil
	}
	selected := h.selected
	h.mu.Unlock()

	return GalleryView{
		Page:       snap.CurrentPage,
		LoadedPage: snap.LoadedPage,
		Status:     snap.Status,
		Message:    snap.Message,
		Panel:      view.PanelFor(snap.Status, len(snap.Images)),
		Images:     snap.Images,
		Selected:   selected,
		Generation: snap.Generation,
	}
}

// respondAfter отвечает 202 с текущим состоянием; при ?wait=true дожидается завершения запроса.
func (h *GalleryHandler) respondAfter(w http.ResponseWriter, r *http.Request, done <-chan struct{}) {
	if r.URL.Query().Get("wait") == "true" {
		select {
		case <-done:
		case <-r.Context().Done():
			h.logger.Warn("request finished before page settled", "path", r.URL.Path)
		}
	}
	respondWithJSON(w, http.StatusAccepted, h.currentView(), h.logger)
}

// GetGallery — текущее состояние галереи.
func (h *GalleryHandler) GetGallery(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.currentView(), h.logger)
}

// NextPage — переход на следующую страницу.
func (h *GalleryHandler) NextPage(w http.ResponseWriter, r *http.Request) {
	h.respondAfter(w, r, h.gallery.NextPage(r.Context()))
}

// PrevPage — переход на предыдущую страницу.
func (h *GalleryHandler) PrevPage(w http.ResponseWriter, r *http.Request) {
	h.respondAfter(w, r, h.gallery.PrevPage(r.Context()))
}

// Retry — повторная загрузка текущей страницы.
func (h *GalleryHandler) Retry(w http.ResponseWriter, r *http.Request) {
	h.respondAfter(w, r, h.gallery.Retry(r.Context()))
}

// GoToPage — переход на страницу {page}. Нечисловые значения молча игнорируются.
func (h *GalleryHandler) GoToPage(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "page")
	page, err := strconv.Atoi(raw)
	if err != nil {
		h.logger.Debug("goto page ignored", "page", raw)
		respondWithJSON(w, http.StatusAccepted, h.currentView(), h.logger)
		return
	}
	h.respondAfter(w, r, h.gallery.GoToPage(r.Context(), page))
}

// SelectImage — открывает детальный просмотр изображения текущей страницы.
func (h *GalleryHandler) SelectImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap := h.gallery.Snapshot()

	img, ok := snap.Find(id)
	if !ok {
		h.logger.Warn("image not found on current page", "id", id, "page", snap.CurrentPage)
		respondWithError(w, http.StatusNotFound, "image not found on current page", h.logger)
		return
	}

	h.mu.Lock()
	h.selected = &img
	h.selectedGen = snap.Generation
	h.mu.Unlock()

	respondWithJSON(w, http.StatusOK, h.currentView(), h.logger)
}

// ClearSelection — закрывает детальный просмотр.
func (h *GalleryHandler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.selected = nil
	h.mu.Unlock()

	respondWithJSON(w, http.StatusOK, h.currentView(), h.logger)
}

// DownloadImage — отдает изображение как вложение photo-by-<author>.jpg.
func (h *GalleryHandler) DownloadImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	dl, err := h.exporter.Download(r.Context(), id)
	if err != nil {
		h.respondExportError(w, id, err)
		return
	}
	defer dl.Body.Close()

	w.Header().Set("Content-Type", dl.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": dl.Filename}))
	w.WriteHeader(http.StatusOK)

	n, err := io.Copy(w, dl.Body)
	if err != nil {
		h.logger.Error("failed to stream image", "id", id, "bytes", n, "error", err)
		return
	}
	h.logger.Info("image downloaded", "id", id, "filename", dl.Filename, "bytes", n)
}

// SaveImage — сохраняет изображение в файловое хранилище.
func (h *GalleryHandler) SaveImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	location, err := h.exporter.Save(r.Context(), id)
	if err != nil {
		h.respondExportError(w, id, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]string{"location": location}, h.logger)
}

func (h *GalleryHandler) respondExportError(w http.ResponseWriter, id string, err error) {
	switch {
	case errors.Is(err, domain.ErrImageNotFound):
		h.logger.Warn("image not found on current page", "id", id)
		respondWithError(w, http.StatusNotFound, "image not found on current page", h.logger)
	case errors.Is(err, domain.ErrStorageDisabled):
		respondWithError(w, http.StatusServiceUnavailable, "file storage is not configured", h.logger)
	default:
		h.logger.Error("image export failed", "id", id, "error", err)
		respondWithError(w, http.StatusBadGateway, "failed to fetch image", h.logger)
	}
}
