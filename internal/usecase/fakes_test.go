package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/GoArmGo/Gallery/internal/domain"
	"github.com/GoArmGo/Gallery/internal/messaging/payloads"
)

type listCall struct {
	page   int
	limit  int
	ctxErr error
}

type listResult struct {
	images []domain.ImageRecord
	err    error
}

// fakeLister отвечает заранее заданными результатами; gate блокирует ответ до release.
type fakeLister struct {
	mu      sync.Mutex
	calls   []listCall
	results map[int]listResult
	gates   map[int]chan struct{}
}

func newFakeLister() *fakeLister {
	return &fakeLister{
		results: make(map[int]listResult),
		gates:   make(map[int]chan struct{}),
	}
}

func (f *fakeLister) respond(page int, images []domain.ImageRecord, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[page] = listResult{images: images, err: err}
}

func (f *fakeLister) hold(page int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gates[page] = make(chan struct{})
}

func (f *fakeLister) release(page int) {
	f.mu.Lock()
	gate := f.gates[page]
	delete(f.gates, page)
	f.mu.Unlock()
	close(gate)
}

func (f *fakeLister) ListImages(ctx context.Context, page, limit int) ([]domain.ImageRecord, error) {
	f.mu.Lock()
	f.calls = append(f.calls, listCall{page: page, limit: limit, ctxErr: ctx.Err()})
	gate := f.gates[page]
	res := f.results[page]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return res.images, res.err
}

func (f *fakeLister) Calls() []listCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]listCall(nil), f.calls...)
}

type fakeOpener struct {
	body        string
	contentType string
	err         error
	openedURL   string
}

func (f *fakeOpener) OpenImage(ctx context.Context, downloadURL string) (io.ReadCloser, string, error) {
	f.openedURL = downloadURL
	if f.err != nil {
		return nil, "", f.err
	}
	return io.NopCloser(strings.NewReader(f.body)), f.contentType, nil
}

type fakeStorage struct {
	key         string
	data        string
	contentType string
	err         error
}

func (f *fakeStorage) UploadFile(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	f.key = key
	f.data = string(b)
	f.contentType = contentType
	return "http://localhost:9000/gallery/" + key, nil
}

type fakePublisher struct {
	mu       sync.Mutex
	payloads []payloads.PageStatePayload
	ctxErrs  []error
	err      error
}

func (f *fakePublisher) PublishPageState(ctx context.Context, payload payloads.PageStatePayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	if f.err != nil {
		return f.err
	}
	f.payloads = append(f.payloads, payload)
	return nil
}

var errBoom = errors.New("boom")

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("fetch did not settle in time")
	}
}

func isClosed(done <-chan struct{}) bool {
	select {
	case <-done:
		return true
	default:
		return false
	}
}

func record(id, author string) domain.ImageRecord {
	return domain.ImageRecord{
		ID:          id,
		Author:      author,
		Width:       200,
		Height:      300,
		URL:         "https://unsplash.com/photos/" + id,
		DownloadURL: "https://picsum.photos/id/" + id + "/200/300",
	}
}
