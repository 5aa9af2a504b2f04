package fetch

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchFollowsRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/old":
			http.Redirect(w, r, "/artykul/123", http.StatusFound)
		case "/artykul/123":
			io.WriteString(w, "<html>moved</html>")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(Options{})
	doc, err := c.Fetch(srv.URL+"/old", nil)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/artykul/123", doc.FinalURL)
	assert.Equal(t, "<html>moved</html>", doc.Text())
}

func TestFetchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := NewClient(Options{})
	_, err := c.Fetch(srv.URL+"/missing", nil)
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusNotFound, fe.StatusCode)
}

func TestFetchDoesNotRetryHTTPStatuses(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(Options{Retries: 3})
	_, err := c.Fetch(srv.URL, nil)
	require.Error(t, err)
	assert.Equal(t, 1, hits)
}

func TestFetchRetriesTransportErrors(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			// drop the connection mid-request to force a transport error
			conn, _, err := w.(http.Hijacker).Hijack()
			require.NoError(t, err)
			conn.Close()
			return
		}
		io.WriteString(w, "ok")
	}))
	defer srv.Close()

	c := NewClient(Options{Retries: 2})
	doc, err := c.Fetch(srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", doc.Text())
	assert.Equal(t, 2, hits)
}

func TestPostSendsBodyAndHeaders(t *testing.T) {
	var gotBody, gotType, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		by, _ := io.ReadAll(r.Body)
		gotBody = string(by)
		gotType = r.Header.Get("Content-Type")
		gotUA = r.Header.Get("User-Agent")
		io.WriteString(w, `{"ok":true}`)
	}))
	defer srv.Close()

	c := NewClient(Options{})
	doc, err := c.Post(srv.URL, map[string]string{"Content-Type": "application/json"}, []byte(`{"guids":["g1"]}`))
	require.NoError(t, err)
	assert.True(t, doc.JSON().Get("ok").Bool())
	assert.Equal(t, `{"guids":["g1"]}`, gotBody)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, defaultUserAgent, gotUA)
}

func TestDocumentHTML(t *testing.T) {
	doc := &Document{Body: []byte(`<html><head><meta property="og:title" content="Tytuł"/></head></html>`)}
	parsed, err := doc.HTML()
	require.NoError(t, err)
	content, _ := parsed.Find(`meta[property="og:title"]`).Attr("content")
	assert.Equal(t, "Tytuł", content)
}

func TestProtoRelative(t *testing.T) {
	assert.Equal(t, "https://static.prsa.pl/a.mp3", ProtoRelative("//static.prsa.pl/a.mp3"))
	assert.Equal(t, "http://example.com/a.mp3", ProtoRelative("http://example.com/a.mp3"))
	assert.Equal(t, "/relative/path", ProtoRelative("/relative/path"))
}

func TestJoinURL(t *testing.T) {
	assert.Equal(t,
		"https://www.polskieradio.pl/7/129/Strona/2",
		JoinURL("https://www.polskieradio.pl/7/129", "/7/129/Strona/2"))
	assert.Equal(t,
		"https://www.polskieradio.pl/7/Strona/2",
		JoinURL("https://www.polskieradio.pl/7/129", "Strona/2"))
	assert.True(t, strings.HasPrefix(
		JoinURL("https://www.polskieradio.pl/7/129", "https://other.example/x"),
		"https://other.example/"))
}
