// Package view выбирает и рисует одну из четырех панелей галереи:
// спиннер, ошибка с повтором, пустая страница или сетка изображений.
package view

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/GoArmGo/Gallery/internal/domain"
)

// Panel - то, что слой представления показывает для текущего состояния
type Panel string

const (
	PanelSpinner Panel = "spinner"
	PanelError   Panel = "error"
	PanelEmpty   Panel = "empty"
	PanelGrid    Panel = "grid"
)

// PanelFor выбирает панель по статусу и количеству изображений
func PanelFor(status domain.Status, imageCount int) Panel {
	switch status {
	case domain.StatusError:
		return PanelError
	case domain.StatusReady:
		if imageCount == 0 {
			return PanelEmpty
		}
		return PanelGrid
	default:
		return PanelSpinner
	}
}

// RenderText печатает снимок в терминал
func RenderText(w io.Writer, snap domain.Snapshot) error {
	switch PanelFor(snap.Status, len(snap.Images)) {
	case PanelSpinner:
		_, err := fmt.Fprintf(w, "Loading page %d...\n", snap.CurrentPage)
		return err
	case PanelError:
		_, err := fmt.Fprintf(w, "Page %d: %s\n", snap.CurrentPage, snap.Message)
		return err
	case PanelEmpty:
		_, err := fmt.Fprintf(w, "No images on page %d\n", snap.CurrentPage)
		return err
	}

	if _, err := fmt.Fprintf(w, "Page %d (%d images)\n", snap.CurrentPage, len(snap.Images)); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "ID\tAUTHOR\tSIZE\tDOWNLOAD-AS"); err != nil {
		return err
	}
	for _, img := range snap.Images {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%dx%d\t%s\n", img.ID, img.Author, img.Width, img.Height, img.DownloadFilename()); err != nil {
			return err
		}
	}
	return tw.Flush()
}
