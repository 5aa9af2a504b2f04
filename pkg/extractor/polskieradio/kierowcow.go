package polskieradio

import (
	"fmt"
	"regexp"

	"radioscribe/pkg/extractor"
	"radioscribe/pkg/fetch"
)

var kierowcowURLRe = regexp.MustCompile(`^https?://(?:www\.)?radiokierowcow\.pl/artykul/(?P<id>\d+)`)

// Kierowcow handles radiokierowcow.pl articles: a next.js site whose
// article JSON is served from the build data endpoint and whose body
// carries the same data-media player markup as the legacy sites.
type Kierowcow struct {
	f fetch.Fetcher
}

func NewKierowcow(f fetch.Fetcher) *Kierowcow {
	return &Kierowcow{f: f}
}

func (e *Kierowcow) Name() string {
	return NameKierowcow
}

func (e *Kierowcow) Match(link string) (string, bool) {
	return matchID(kierowcowURLRe, link)
}

func (e *Kierowcow) Suitable(link string) bool {
	return true
}

func (e *Kierowcow) Extract(id, link string) (*extractor.MediaEntry, error) {
	page, err := e.f.Fetch(link, nil)
	if err != nil {
		return nil, err
	}
	doc, err := page.HTML()
	if err != nil {
		return nil, err
	}
	js, ok := nextJSData(doc)
	if !ok {
		return nil, &extractor.ExtractionError{Extractor: NameKierowcow, Reason: "__NEXT_DATA__ block missing"}
	}
	buildID := js.Get("buildId").String()
	if buildID == "" {
		return nil, &extractor.ExtractionError{Extractor: NameKierowcow, Reason: "next.js build id missing"}
	}

	article, err := e.f.Fetch(fmt.Sprintf(
		"https://radiokierowcow.pl/_next/data/%s/artykul/%s.json?articleId=%s", buildID, id, id), nil)
	if err != nil {
		return nil, err
	}
	data := article.JSON().Get("pageProps.data")
	title := extractor.CleanText(data.Get("title").String())
	if title == "" {
		return nil, &extractor.ExtractionError{Extractor: NameKierowcow, Reason: "article title missing"}
	}

	entries := playerEntries(data.Get("content").String(), extractor.MediaEntry{Title: title})
	playlist := extractor.Playlist(id, extractor.NewSliceStream(entries...))
	playlist.Title = title
	playlist.Description = extractor.CleanText(data.Get("lead").String())
	playlist.EntryCount = int64(len(entries))
	return playlist, nil
}
