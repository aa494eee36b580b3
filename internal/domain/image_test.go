package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"single word", "Jo", "jo"},
		{"two words", "Alejandro Escamilla", "alejandro-escamilla"},
		{"whitespace run", "Paul   Jarvis", "paul-jarvis"},
		{"tabs and newlines", "Ann\t\n Lee", "ann-lee"},
		{"trims edges", "  Ben Moore  ", "ben-moore"},
		{"keeps punctuation", "J. R. R. Tolkien", "j.-r.-r.-tolkien"},
		{"unicode", "Łukasz Łada", "łukasz-łada"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.in))
		})
	}
}

func TestImageRecord_DownloadFilename(t *testing.T) {
	assert.Equal(t, "photo-by-alejandro-escamilla.jpg", ImageRecord{Author: "Alejandro Escamilla"}.DownloadFilename())
	assert.Equal(t, "photo-by-unknown.jpg", ImageRecord{Author: "   "}.DownloadFilename())
}

func TestImageRecord_Validate(t *testing.T) {
	valid := ImageRecord{ID: "a", Author: "Jo", Width: 200, Height: 300, URL: "u1", DownloadURL: "d1"}
	assert.NoError(t, valid.Validate())

	noAuthor := valid
	noAuthor.Author = ""
	assert.NoError(t, noAuthor.Validate(), "author is free text")

	cases := map[string]func(r *ImageRecord){
		"empty id":           func(r *ImageRecord) { r.ID = "" },
		"zero width":         func(r *ImageRecord) { r.Width = 0 },
		"negative height":    func(r *ImageRecord) { r.Height = -1 },
		"empty url":          func(r *ImageRecord) { r.URL = "" },
		"empty download url": func(r *ImageRecord) { r.DownloadURL = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			r := valid
			mutate(&r)
			assert.Error(t, r.Validate())
		})
	}
}

func TestStatus_IsSettled(t *testing.T) {
	assert.False(t, StatusLoading.IsSettled())
	assert.True(t, StatusError.IsSettled())
	assert.True(t, StatusReady.IsSettled())
	assert.Equal(t, "Ready", StatusReady.String())
}

func TestSnapshot_Find(t *testing.T) {
	snap := Snapshot{Images: []ImageRecord{{ID: "a"}, {ID: "b", Author: "Bo"}}}

	img, ok := snap.Find("b")
	assert.True(t, ok)
	assert.Equal(t, "Bo", img.Author)

	_, ok = snap.Find("z")
	assert.False(t, ok)
}
