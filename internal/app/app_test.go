package app

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GoArmGo/Gallery/internal/config"
	"github.com/GoArmGo/Gallery/internal/core/ports"
	"github.com/GoArmGo/Gallery/internal/domain"
	"github.com/GoArmGo/Gallery/internal/logger"
	"github.com/GoArmGo/Gallery/internal/messaging/payloads"
	"github.com/GoArmGo/Gallery/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageLister map[int][]domain.ImageRecord

func (p pageLister) ListImages(ctx context.Context, page, limit int) ([]domain.ImageRecord, error) {
	images, ok := p[page]
	if !ok {
		return nil, domain.ErrFetchFailure
	}
	return images, nil
}

type fakeConsumer struct {
	events []payloads.PageStatePayload
	// closed имитирует закрытие доставки брокером после событий
	closed bool
}

func (f *fakeConsumer) StartConsumingPageStates(ctx context.Context, handler func(context.Context, payloads.PageStatePayload) error) (<-chan struct{}, error) {
	for _, e := range f.events {
		if err := handler(ctx, e); err != nil {
			return nil, err
		}
	}
	done := make(chan struct{})
	if f.closed {
		close(done)
	}
	return done, nil
}

func newTestApp(lister pageLister, consumer *fakeConsumer, closers ...func() error) *App {
	loader := usecase.NewPageLoader(lister, usecase.DiscardStale, logger.Discard())
	var c ports.PageStateConsumer
	if consumer != nil {
		c = consumer
	}
	return NewApp(&config.Config{}, logger.Discard(), loader, nil, c, closers...)
}

func TestBrowse_Grid(t *testing.T) {
	a := newTestApp(pageLister{
		2: {{ID: "5", Author: "Ann Lee", Width: 640, Height: 480, URL: "u", DownloadURL: "d"}},
	}, nil)

	var out bytes.Buffer
	require.NoError(t, a.Browse(context.Background(), 2, &out))

	assert.Contains(t, out.String(), "Page 2 (1 images)")
	assert.Contains(t, out.String(), "photo-by-ann-lee.jpg")
}

func TestBrowse_Empty(t *testing.T) {
	a := newTestApp(pageLister{40: {}}, nil)

	var out bytes.Buffer
	require.NoError(t, a.Browse(context.Background(), 40, &out))
	assert.Contains(t, out.String(), "No images on page 40")
}

func TestBrowse_Error(t *testing.T) {
	a := newTestApp(pageLister{}, nil)

	var out bytes.Buffer
	err := a.Browse(context.Background(), 3, &out)

	assert.ErrorIs(t, err, domain.ErrFetchFailure)
	assert.Contains(t, out.String(), domain.FetchFailedMessage)
}

func TestBrowse_RejectsNonPositivePage(t *testing.T) {
	a := newTestApp(pageLister{}, nil)
	assert.Error(t, a.Browse(context.Background(), 0, &bytes.Buffer{}))
}

func TestWatch_RequiresConsumer(t *testing.T) {
	a := newTestApp(pageLister{}, nil)
	assert.Error(t, a.Watch(context.Background(), &bytes.Buffer{}))
}

func TestWatch_PrintsEvents(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	consumer := &fakeConsumer{events: []payloads.PageStatePayload{
		{Page: 1, Status: "Loading", Generation: 1, OccurredAt: at},
		{Page: 1, Status: "Ready", ImageCount: 30, LoadedPage: 1, Generation: 1, OccurredAt: at},
	}}
	closed := false
	a := newTestApp(pageLister{}, consumer, func() error { closed = true; return nil })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	require.NoError(t, a.Watch(ctx, &out))

	assert.Equal(t,
		"2025-01-02T03:04:05Z page=1 gen=1 panel=spinner\n"+
			"2025-01-02T03:04:05Z page=1 gen=1 panel=grid images=30 loaded_page=1\n",
		out.String())
	assert.True(t, closed)
}

func TestWatch_ReturnsErrorWhenStreamCloses(t *testing.T) {
	consumer := &fakeConsumer{
		events: []payloads.PageStatePayload{{Page: 2, Status: "Loading", Generation: 3}},
		closed: true,
	}
	closed := false
	a := newTestApp(pageLister{}, consumer, func() error { closed = true; return nil })

	var out bytes.Buffer
	err := a.Watch(context.Background(), &out)

	assert.ErrorIs(t, err, ErrEventStreamClosed)
	assert.Contains(t, out.String(), "page=2 gen=3 panel=spinner")
	assert.True(t, closed)
}

func TestFormatEvent_Error(t *testing.T) {
	line := FormatEvent(payloads.PageStatePayload{Page: 3, Status: "Error", Message: domain.FetchFailedMessage})
	assert.Contains(t, line, "panel=error")
	assert.Contains(t, line, `message="Failed to load images. Please try again."`)
}

func TestShutdown_JoinsErrors(t *testing.T) {
	a := newTestApp(pageLister{}, nil,
		func() error { return errors.New("broker") },
		func() error { return nil },
	)
	assert.ErrorContains(t, a.Shutdown(), "broker")
}
