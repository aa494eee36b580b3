package app

import (
	"context"
	"fmt"
	"io"

	"github.com/GoArmGo/Gallery/internal/domain"
	"github.com/GoArmGo/Gallery/internal/view"
)

// Browse загружает одну страницу и печатает ее в w.
// Страница должна быть положительной: загрузчик номер не проверяет.
func (a *App) Browse(ctx context.Context, page int, w io.Writer) error {
	if page <= 0 {
		return fmt.Errorf("номер страницы должен быть положительным: %d", page)
	}

	select {
	case <-a.loader.GoToPage(ctx, page):
	case <-ctx.Done():
		return ctx.Err()
	}

	snap := a.loader.Snapshot()
	if err := view.RenderText(w, snap); err != nil {
		return fmt.Errorf("ошибка вывода страницы: %w", err)
	}
	if snap.Status == domain.StatusError {
		return fmt.Errorf("page %d: %w", page, domain.ErrFetchFailure)
	}
	return nil
}
