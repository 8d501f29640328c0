package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"video_ingest_service/pkg/contentkey"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestKeyCommand(t *testing.T) {
	data := []byte("some video bytes")
	path := writeTemp(t, "clip.MP4", data)

	out, err := runCLI(t, "key", "--prefix", "uploads/", path)
	require.NoError(t, err)

	want := contentkey.FromBytes("uploads/", data, "clip.MP4").String()
	assert.True(t, strings.HasPrefix(out, want), "got %q want prefix %q", out, want)
	assert.Contains(t, out, "16 bytes")
}

func TestKeyCommandMissingFile(t *testing.T) {
	_, err := runCLI(t, "key", filepath.Join(t.TempDir(), "nope.mp4"))
	assert.Error(t, err)
}

func TestUploadCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/upload-video", r.URL.Path)
		assert.Equal(t, "raw/", r.URL.Query().Get("prefix"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Ep12", r.FormValue("title"))
		assert.Equal(t, "podcast", r.FormValue("videoType"))

		file, header, err := r.FormFile("video")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "Ep12.mp4", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"key":"raw/abc.mp4","transcriptId":"job-1"}`))
	}))
	defer srv.Close()

	path := writeTemp(t, "Ep12.mp4", []byte("video"))
	out, err := runCLI(t, "upload", path,
		"--server", srv.URL,
		"--title", "Ep12",
		"--type", "podcast",
		"--prefix", "raw/",
		"--token", "tok",
	)
	require.NoError(t, err)
	assert.Contains(t, out, `"transcriptId": "job-1"`)
}

func TestUploadCommandIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "abc", r.FormValue("filename"))
		_, _, err := r.FormFile("video")
		assert.Error(t, err)
		_, _ = w.Write([]byte(`{"key":"abc.mov","store_skipped":true}`))
	}))
	defer srv.Close()

	out, err := runCLI(t, "upload", "--server", srv.URL, "--title", "Ep12", "--type", "podcast", "--identity", "abc")
	require.NoError(t, err)
	assert.Contains(t, out, `"store_skipped": true`)
}

func TestUploadCommandErrors(t *testing.T) {
	t.Run("no file or identity", func(t *testing.T) {
		_, err := runCLI(t, "upload", "--title", "Ep12", "--type", "podcast")
		assert.Error(t, err)
	})

	t.Run("missing title", func(t *testing.T) {
		_, err := runCLI(t, "upload", "--type", "podcast", "--identity", "abc")
		assert.Error(t, err)
	})

	t.Run("upstream failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"error":"dependency rejection"}`))
		}))
		defer srv.Close()

		_, err := runCLI(t, "upload", "--server", srv.URL, "--title", "Ep12", "--type", "podcast", "--identity", "abc")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
		assert.Contains(t, err.Error(), "dependency rejection")
	})
}

func TestUploadURL(t *testing.T) {
	u, err := uploadURL("http://localhost:8080/", "a b/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/upload-video?prefix=a+b%2F", u)
}
