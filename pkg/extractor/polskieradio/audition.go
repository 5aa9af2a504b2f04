package polskieradio

import (
	"fmt"
	"regexp"

	"github.com/tidwall/gjson"

	"radioscribe/pkg/extractor"
	"radioscribe/pkg/fetch"
)

var auditionURLRe = regexp.MustCompile(`^https?://(?:[^/]+\.)?polskieradio\.pl/audycj[ae]/(?P<id>\d+)`)

const (
	lp3Base   = "https://lp3test.polskieradio.pl"
	lp3APIKey = "9bf6c5a2-a7d0-4980-9ed7-a3f7291f2a81"

	episodePageSize = 10
	articlePageSize = 9
)

// Audition handles broadcast series pages. The page itself only reveals
// series metadata and whether episodes or articles exist; the listings
// come from the lp3 API, paged open-endedly until an empty page. Episodes
// are concrete audio records while articles are references resolved by
// the modern article extractor, with list metadata carried as seed.
type Audition struct {
	f fetch.Fetcher

	// test override, zero keeps the site defaults
	pageSize int64
}

func NewAudition(f fetch.Fetcher) *Audition {
	return &Audition{f: f}
}

func (e *Audition) Name() string {
	return NameAudition
}

func (e *Audition) Match(link string) (string, bool) {
	return matchID(auditionURLRe, link)
}

func (e *Audition) Suitable(link string) bool {
	return true
}

func (e *Audition) Extract(id, link string) (*extractor.MediaEntry, error) {
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
		return nil, &extractor.ExtractionError{Extractor: NameAudition, Reason: "__NEXT_DATA__ block missing"}
	}
	props := js.Get("props.pageProps.data")
	if !props.Exists() {
		props = js.Get("props.pageProps")
	}

	hasEpisodes := hasItems(props.Get("episodes")) || hasItems(props.Get("audios"))
	hasArticles := hasItems(props.Get("articles"))

	streams := make([]*extractor.EntryStream, 0, 2)
	if hasEpisodes {
		streams = append(streams, extractor.NewPagedStream(e.episodePage(id)))
	}
	if hasArticles {
		streams = append(streams, extractor.NewPagedStream(e.articlePage(id)))
	}

	playlist := extractor.Playlist(id, extractor.ConcatStreams(streams...))
	playlist.Title = extractor.CleanText(props.Get("details.name").String())
	playlist.Description = extractor.CleanText(props.Get("details.description.lead").String())
	playlist.Thumbnail = props.Get("details.photo").String()
	return playlist, nil
}

// hasItems reports whether a listing field exists and is non-empty. The
// sites emit empty arrays for listings a series does not have; probing
// the lp3 API for those would always fetch one empty page.
func hasItems(r gjson.Result) bool {
	return r.Exists() && len(r.Array()) > 0
}

func (e *Audition) episodePage(categoryID string) extractor.PageFunc {
	return func(page int) ([]*extractor.MediaEntry, error) {
		data, err := e.callLP3("AudioArticle/GetListByCategoryId", categoryID, e.size(episodePageSize), page)
		if err != nil {
			return nil, err
		}
		entries := make([]*extractor.MediaEntry, 0, len(data))
		for _, episode := range data {
			entries = append(entries, &extractor.MediaEntry{
				Kind:      extractor.KindMedia,
				ID:        episode.Get("id").String(),
				URL:       episode.Get("file").String(),
				Title:     extractor.CleanText(episode.Get("title").String()),
				Duration:  episode.Get("duration").Int(),
				Timestamp: extractor.ParseTimestamp(episode.Get("datePublic").String()),
			})
		}
		return entries, nil
	}
}

func (e *Audition) articlePage(categoryID string) extractor.PageFunc {
	return func(page int) ([]*extractor.MediaEntry, error) {
		data, err := e.callLP3("Article/GetListByCategoryId", categoryID, e.size(articlePageSize), page)
		if err != nil {
			return nil, err
		}
		entries := make([]*extractor.MediaEntry, 0, len(data))
		for _, article := range data {
			ref := extractor.Ref(article.Get("url").String(), NameModern)
			ref.ID = article.Get("id").String()
			ref.Title = extractor.CleanText(article.Get("shortTitle").String())
			ref.Description = extractor.CleanText(article.Get("description.lead").String())
			ref.Timestamp = extractor.ParseTimestamp(article.Get("datePublic").String())
			entries = append(entries, ref)
		}
		return entries, nil
	}
}

func (e *Audition) callLP3(path, categoryID string, pageSize int64, page int) ([]gjson.Result, error) {
	link := fmt.Sprintf("%s/%s?categoryId=%s&PageSize=%d&skip=%d&format=400",
		lp3Base, path, categoryID, pageSize, page)
	doc, err := e.f.Fetch(link, map[string]string{"x-api-key": lp3APIKey})
	if err != nil {
		return nil, err
	}
	return doc.JSON().Get("data").Array(), nil
}

func (e *Audition) size(def int64) int64 {
	if e.pageSize > 0 {
		return e.pageSize
	}
	return def
}

// SetPageSize overrides both listing page sizes.
func (e *Audition) SetPageSize(n int64) {
	e.pageSize = n
}
