package fetch

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// Document is a fetched remote document. FinalURL is the URL after
// redirects, which extractors use to detect that a legacy page now lives
// on a redesigned site.
type Document struct {
	Body     []byte
	FinalURL string
	Header   http.Header
}

func (d *Document) Text() string {
	return string(d.Body)
}

func (d *Document) JSON() gjson.Result {
	return gjson.ParseBytes(d.Body)
}

func (d *Document) HTML() (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(d.Body))
	if err != nil {
		return nil, errors.Wrap(err, "parse html")
	}
	return doc, nil
}

// FetchError reports a failed document fetch. StatusCode is zero for
// transport-level failures.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetcher retrieves remote documents. Extractors depend on this interface
// so tests can feed canned pages.
type Fetcher interface {
	Fetch(url string, headers map[string]string) (*Document, error)
	Post(url string, headers map[string]string, body []byte) (*Document, error)
}

type Options struct {
	Timeout time.Duration
	Proxy   string
	Retries int
}

type Client struct {
	h       *http.Client
	retries int
}

func NewClient(opt Options) *Client {
	if opt.Timeout == 0 {
		opt.Timeout = time.Second * 30
	}
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}
	if opt.Proxy != "" {
		if proxyURL, err := url.Parse(opt.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}
	return &Client{
		h: &http.Client{
			Timeout:   opt.Timeout,
			Transport: transport,
		},
		retries: opt.Retries,
	}
}

func (c *Client) Fetch(link string, headers map[string]string) (*Document, error) {
	return c.do("GET", link, headers, nil)
}

func (c *Client) Post(link string, headers map[string]string, body []byte) (*Document, error) {
	return c.do("POST", link, headers, body)
}

func (c *Client) do(method, link string, headers map[string]string, body []byte) (*Document, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		doc, err := c.doOnce(method, link, headers, body)
		if err == nil {
			return doc, nil
		}
		lastErr = err
		var fe *FetchError
		// only transport errors are retried, HTTP statuses are final
		if errors.As(err, &fe) && fe.StatusCode != 0 {
			break
		}
	}
	return nil, lastErr
}

func (c *Client) doOnce(method, link string, headers map[string]string, body []byte) (*Document, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, link, reader)
	if err != nil {
		return nil, errors.Wrap(err, "new request")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", defaultUserAgent)
	}
	resp, err := c.h.Do(req)
	if err != nil {
		return nil, &FetchError{URL: link, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{URL: link, StatusCode: resp.StatusCode}
	}
	by, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: link, Err: err}
	}
	finalURL := link
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	return &Document{
		Body:     by,
		FinalURL: finalURL,
		Header:   resp.Header,
	}, nil
}

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// ProtoRelative turns //host/path URLs into https ones and leaves
// absolute URLs alone.
func ProtoRelative(link string) string {
	if strings.HasPrefix(link, "//") {
		return "https:" + link
	}
	return link
}

// JoinURL resolves a possibly relative href against a base URL.
func JoinURL(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	h, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}
