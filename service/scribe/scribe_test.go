package scribe

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radioscribe/pkg/downloader"
	"radioscribe/pkg/extractor"
)

// stubSite stands in for a real site extractor so the service can be
// exercised against a local test server.
type stubSite struct {
	mediaURL string
}

func (s *stubSite) Name() string {
	return "stub"
}

func (s *stubSite) Match(url string) (string, bool) {
	if !strings.Contains(url, "/artykul/") {
		return "", false
	}
	return url[strings.LastIndex(url, "/")+1:], true
}

func (s *stubSite) Suitable(url string) bool {
	return true
}

func (s *stubSite) Extract(id, url string) (*extractor.MediaEntry, error) {
	return &extractor.MediaEntry{
		Kind:  extractor.KindMedia,
		ID:    id,
		URL:   s.mediaURL,
		Title: "nagranie",
	}, nil
}

func TestDownloadURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "audio-bytes")
	}))
	defer srv.Close()

	reg := extractor.NewRegistry(&stubSite{mediaURL: srv.URL + "/plik.mp3"})
	svc := &Service{
		cfg:      Config{WorkDir: t.TempDir()},
		registry: reg,
		resolver: extractor.NewResolver(reg),
		down:     downloader.New(downloader.Options{}),
	}

	path, err := svc.DownloadURL(context.Background(), "https://site.example/artykul/7")
	require.NoError(t, err)
	assert.Equal(t, "nagranie.mp3", filepath.Base(path))

	by, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "audio-bytes", string(by))
}

func TestDownloadURLNoMatch(t *testing.T) {
	reg := extractor.NewRegistry(&stubSite{})
	svc := &Service{
		cfg:      Config{WorkDir: t.TempDir()},
		registry: reg,
		resolver: extractor.NewResolver(reg),
		down:     downloader.New(downloader.Options{}),
	}

	_, err := svc.DownloadURL(context.Background(), "https://site.example/inne/7")
	assert.ErrorIs(t, err, extractor.ErrNoMatchingExtractor)
}
