// Package polskieradio covers the Polish Radio site family: legacy and
// redesigned article pages, audition and category listings, the live
// player and the podcast service. All extractors share one fetcher and
// normalize into the generic media entry model.
package polskieradio

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/duke-git/lancet/v2/slice"
	"github.com/tidwall/gjson"

	"radioscribe/pkg/extractor"
	"radioscribe/pkg/extractor/jsobj"
	"radioscribe/pkg/fetch"
)

const (
	NameLegacy      = "polskieradio:legacy"
	NameModern      = "polskieradio"
	NameAudition    = "polskieradio:audition"
	NameCategory    = "polskieradio:category"
	NamePlayer      = "polskieradio:player"
	NamePodcastList = "polskieradio:podcast:list"
	NamePodcast     = "polskieradio:podcast"
	NameKierowcow   = "polskieradio:kierowcow"
)

// All returns the family in registration order. Order matters: Category
// overlaps Legacy's URL space and defers to it via Suitable.
func All(f fetch.Fetcher) []extractor.Extractor {
	return []extractor.Extractor{
		NewLegacy(f),
		NewModern(f),
		NewAudition(f),
		NewCategory(f),
		NewPlayer(f),
		NewPodcastList(f),
		NewPodcast(f),
		NewKierowcow(f),
	}
}

// SetListPageSize applies a listing page size override to every family
// extractor that pages through a remote API; zero or negative keeps the
// site defaults.
func SetListPageSize(extractors []extractor.Extractor, n int64) {
	if n <= 0 {
		return
	}
	for _, ex := range extractors {
		if a, ok := ex.(*Audition); ok {
			a.SetPageSize(n)
		}
	}
}

func matchID(re *regexp.Regexp, link string) (string, bool) {
	m := re.FindStringSubmatch(link)
	if m == nil {
		return "", false
	}
	idx := re.SubexpIndex("id")
	if idx < 0 || idx >= len(m) {
		return "", false
	}
	return m[idx], true
}

// nextJSData pulls the __NEXT_DATA__ JSON blob out of a next.js page.
func nextJSData(doc *goquery.Document) (gjson.Result, bool) {
	payload := doc.Find(`script#__NEXT_DATA__`).First().Text()
	if strings.TrimSpace(payload) == "" {
		return gjson.Result{}, false
	}
	return gjson.Parse(payload), true
}

func ogMeta(doc *goquery.Document, property string) string {
	content, _ := doc.Find(`meta[property="og:` + property + `"]`).First().Attr("content")
	return extractor.CleanText(content)
}

var dataMediaRe = regexp.MustCompile(`<[^>]+data-media="?({[^>]+})"?`)

// playerEntries parses the data-media player attributes embedded in an
// article body. Entries without a file or description are dropped and
// duplicate stream URLs are collapsed, both per document.
func playerEntries(content string, seed extractor.MediaEntry) []*extractor.MediaEntry {
	entries := make([]*extractor.MediaEntry, 0)
	seen := make([]string, 0)
	for _, m := range dataMediaRe.FindAllStringSubmatch(content, -1) {
		js, err := jsobj.Parse(extractor.CleanText(m[1]))
		if err != nil {
			continue
		}
		file := js.Get("file").String()
		desc := js.Get("desc").String()
		if file == "" || desc == "" {
			continue
		}
		mediaURL := fetch.ProtoRelative(file)
		if slice.Contain(seen, mediaURL) {
			continue
		}
		seen = append(seen, mediaURL)

		entry := seed
		entry.Kind = extractor.KindMedia
		entry.ID = js.Get("id").String()
		entry.URL = mediaURL
		entry.Duration = js.Get("length").Int()
		if js.Get("provider").String() == "audio" {
			entry.Formats = []*extractor.Format{{URL: mediaURL, Codec: "none"}}
		}
		if title := unquote(desc); title != "" {
			entry.Title = extractor.CleanText(title)
		}
		entries = append(entries, &entry)
	}
	return entries
}

func unquote(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return s
}
