package downloader

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"radioscribe/pkg/common"
	"radioscribe/pkg/extractor"
)

// ProgressSink receives download progress roughly once per second.
// total is zero when the server sends no Content-Length.
type ProgressSink func(total, downloaded, speed int64, percent float64)

type Options struct {
	Proxy   string
	Timeout time.Duration
}

type Downloader struct {
	client *http.Client
}

func New(opt Options) *Downloader {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}
	if opt.Proxy != "" {
		if proxyURL, err := url.Parse(opt.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}
	return &Downloader{
		client: &http.Client{
			Transport: transport,
			Timeout:   opt.Timeout,
		},
	}
}

// DownloadRecord fetches a resolved media record into dir and returns the
// local file path. The first declared format wins; records without
// formats download their direct URL.
func (d *Downloader) DownloadRecord(ctx context.Context, record *extractor.MediaEntry, dir string, sink ProgressSink) (string, error) {
	link := record.URL
	if len(record.Formats) > 0 && record.Formats[0].URL != "" {
		link = record.Formats[0].URL
	}
	if link == "" {
		return "", errors.New("record has no downloadable url")
	}
	stem := common.ReplaceWrongFileChars(record.Title)
	if stem == "" {
		stem = record.ID
	}
	if stem == "" {
		stem = time.Now().Format("20060102-150405")
	}
	path := filepath.Join(dir, stem+common.URLDotExt(link))
	if err := d.DownloadFile(ctx, link, path, sink); err != nil {
		return "", err
	}
	return path, nil
}

// DownloadFile fetches link into path. A file already present at path is
// kept as is and counts as success.
func (d *Downloader) DownloadFile(ctx context.Context, link, path string, sink ProgressSink) error {
	if common.IsExistsFile(path) {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return d.downloadW(ctx, link, f, sink)
}

func (d *Downloader) downloadW(ctx context.Context, link string, w io.Writer, sink ProgressSink) error {
	req, err := http.NewRequestWithContext(ctx, "GET", link, nil)
	if err != nil {
		return err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Errorf("download %s: status %d", link, resp.StatusCode)
	}

	var total int64
	if v := resp.Header.Get("Content-Length"); v != "" {
		total, _ = strconv.ParseInt(v, 10, 64)
	}

	var (
		downloaded     int64
		lastTime       = time.Now()
		lastDownloaded int64
		buf            = make([]byte, 32*1024)
	)
	for {
		if common.IsCtxDone(ctx) {
			return ctx.Err()
		}
		nRead, err := resp.Body.Read(buf)
		if err != nil && err != io.EOF {
			return err
		}
		if nRead == 0 {
			break
		}
		if _, err = w.Write(buf[:nRead]); err != nil {
			return err
		}
		downloaded += int64(nRead)
		if sink == nil {
			continue
		}
		now := time.Now()
		elapsed := now.Sub(lastTime).Seconds()
		if elapsed >= 1 {
			speed := float64(downloaded-lastDownloaded) / elapsed
			lastTime = now
			lastDownloaded = downloaded
			percent := float64(0)
			if total > 0 {
				percent = float64(downloaded) / float64(total) * 100
			}
			sink(total, downloaded, int64(speed), percent)
		}
	}
	if sink != nil {
		sink(total, downloaded, 0, 100)
	}
	return nil
}
