package picsum

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GoArmGo/Gallery/internal/config"
	"github.com/GoArmGo/Gallery/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg := &config.Config{PicsumBaseURL: srv.URL + "/v2/list"}
	return NewClient(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestListImages_Success(t *testing.T) {
	var gotPath, gotPage, gotLimit string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotPage = r.URL.Query().Get("page")
		gotLimit = r.URL.Query().Get("limit")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[
			{"id":"0","author":"Alejandro Escamilla","width":5000,"height":3333,"url":"https://unsplash.com/photos/yC-Yzbqy7PY","download_url":"https://picsum.photos/id/0/5000/3333"},
			{"id":"1","author":"Alejandro Escamilla","width":5000,"height":3333,"url":"https://unsplash.com/photos/LNRyGwIJr5c","download_url":"https://picsum.photos/id/1/5000/3333","extra":true}
		]`)
	})

	images, err := client.ListImages(context.Background(), 3, 30)
	require.NoError(t, err)

	assert.Equal(t, "/v2/list", gotPath)
	assert.Equal(t, "3", gotPage)
	assert.Equal(t, "30", gotLimit)
	require.Len(t, images, 2)
	assert.Equal(t, "0", images[0].ID)
	assert.Equal(t, "1", images[1].ID)
	assert.Equal(t, 5000, images[0].Width)
	assert.Equal(t, "https://picsum.photos/id/1/5000/3333", images[1].DownloadURL)
}

func TestListImages_EmptyArray(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})

	images, err := client.ListImages(context.Background(), 999, 30)
	require.NoError(t, err)
	assert.NotNil(t, images)
	assert.Empty(t, images)
}

func TestListImages_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `oops`},
		{"not found", http.StatusNotFound, `[]`},
		{"object instead of array", http.StatusOK, `{"id":"a"}`},
		{"null body", http.StatusOK, `null`},
		{"empty body", http.StatusOK, ``},
		{"truncated json", http.StatusOK, `[{"id":"a"`},
		{"wrong type", http.StatusOK, `[{"id":"a","author":"Jo","width":"200","height":300,"url":"u1","download_url":"d1"}]`},
		{"missing field", http.StatusOK, `[{"id":"a","author":"Jo","width":200,"height":300,"url":"u1"}]`},
		{"null element", http.StatusOK, `[null]`},
		{"zero width", http.StatusOK, `[{"id":"a","author":"Jo","width":0,"height":300,"url":"u1","download_url":"d1"}]`},
		{"duplicate id", http.StatusOK, `[
			{"id":"a","author":"Jo","width":200,"height":300,"url":"u1","download_url":"d1"},
			{"id":"a","author":"Jo","width":200,"height":300,"url":"u2","download_url":"d2"}
		]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			images, err := client.ListImages(context.Background(), 1, 30)
			assert.Nil(t, images)
			assert.ErrorIs(t, err, domain.ErrFetchFailure)
		})
	}
}

func TestListImages_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	client := NewClient(&config.Config{PicsumBaseURL: base}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := client.ListImages(context.Background(), 1, 30)
	assert.ErrorIs(t, err, domain.ErrFetchFailure)
}

func TestOpenImage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/id/0/10/10" {
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = io.WriteString(w, "jpegbytes")
			return
		}
		http.NotFound(w, r)
	})
	base := client.baseURL[:len(client.baseURL)-len("/v2/list")]

	body, contentType, err := client.OpenImage(context.Background(), base+"/id/0/10/10")
	require.NoError(t, err)
	defer body.Close()
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "jpegbytes", string(data))
	assert.Equal(t, "image/jpeg", contentType)

	_, _, err = client.OpenImage(context.Background(), base+"/missing")
	assert.ErrorIs(t, err, domain.ErrFetchFailure)
}
