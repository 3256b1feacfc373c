package hosted

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regdesk/internal/media"
)

func TestSave_PostsMultipartAndReturnsSecureURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/upload", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "photo", r.FormValue("kind"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "selfie.jpg", header.Filename)
		assert.Equal(t, "image/jpeg", header.Header.Get("Content-Type"))

		contents, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "jpeg-bytes", string(contents))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"secure_url":"https://media.example.com/abc123.jpg"}`))
	}))
	defer server.Close()

	client := New(server.URL, "test-key")

	url, err := client.Save(context.Background(), media.KindPhoto, &media.File{
		Filename:    "selfie.jpg",
		ContentType: "image/jpeg",
		Content:     strings.NewReader("jpeg-bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, "https://media.example.com/abc123.jpg", url)
}

func TestSave_NonSuccessStatusFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := New(server.URL, "")

	_, err := client.Save(context.Background(), media.KindVideo, &media.File{
		Filename: "intro.mp4",
		Content:  strings.NewReader("mp4"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 502")
}

func TestSave_MissingSecureURLFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := New(server.URL, "")

	_, err := client.Save(context.Background(), media.KindPhoto, &media.File{
		Filename: "selfie.jpg",
		Content:  strings.NewReader("jpeg"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing secure_url")
}
