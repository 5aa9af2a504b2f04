package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// Whisper calls an OpenAI-compatible /v1/audio/transcriptions endpoint.
type Whisper struct {
	url    string
	model  string
	client *http.Client
}

func NewWhisper(url, model string, timeout time.Duration) *Whisper {
	if timeout == 0 {
		timeout = time.Minute * 10
	}
	return &Whisper{
		url:    url,
		model:  model,
		client: &http.Client{Timeout: timeout},
	}
}

func (w *Whisper) Name() string {
	return "whisper"
}

func (w *Whisper) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, errors.Wrap(err, "open audio file")
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, err
	}
	if _, err = io.Copy(part, f); err != nil {
		return nil, err
	}
	if w.model != "" {
		mw.WriteField("model", w.model)
	}
	mw.WriteField("response_format", "verbose_json")
	if err = mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", w.url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "whisper request")
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("whisper: status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var parsed struct {
		Text     string  `json:"text"`
		Language string  `json:"language"`
		Duration float64 `json:"duration"`
	}
	if err = json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.Wrap(err, "whisper response")
	}
	return &Result{
		Text:     parsed.Text,
		Language: parsed.Language,
		Duration: parsed.Duration,
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
