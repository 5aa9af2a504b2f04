package polskieradio

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"radioscribe/pkg/extractor"
	"radioscribe/pkg/fetch"
)

var (
	categoryURLRe     = regexp.MustCompile(`^https?://(?:www\.)?polskieradio\.pl/\d+(?:,[^/]+)?/(?P<id>\d+)`)
	categoryTitleRe   = regexp.MustCompile(`<title>([^<]+) - [^<]+ - [^<]+</title>`)
	categoryArticleRe = regexp.MustCompile(`(?s)<article[^>]+>.*?(<a[^>]+href=["']/\d+/\d+/Artykul/(\d+)[^>]+>).*?</article>`)
	categoryNextRe    = regexp.MustCompile(`<div[^>]+class=["']next["'][^>]*>\s*<a[^>]+href=["']([^"']+)["']`)
)

// Category handles legacy category listings. Its pattern also swallows
// legacy article URLs, so Suitable yields those to the Legacy extractor.
// Listing pages chain via a "next" link instead of page indexes, making
// the entry stream single-pass.
type Category struct {
	f fetch.Fetcher
}

func NewCategory(f fetch.Fetcher) *Category {
	return &Category{f: f}
}

func (e *Category) Name() string {
	return NameCategory
}

func (e *Category) Match(link string) (string, bool) {
	return matchID(categoryURLRe, link)
}

func (e *Category) Suitable(link string) bool {
	_, isArticle := matchID(legacyURLRe, link)
	return !isArticle
}

func (e *Category) Extract(id, link string) (*extractor.MediaEntry, error) {
	page, err := e.f.Fetch(link, nil)
	if err != nil {
		return nil, err
	}
	if _, moved := matchID(auditionURLRe, page.FinalURL); moved {
		return extractor.Redirect(page.FinalURL, NameAudition), nil
	}

	title := ""
	if m := categoryTitleRe.FindStringSubmatch(page.Text()); m != nil {
		title = extractor.CleanText(m[1])
	}

	playlist := extractor.Playlist(id, e.entries(link, page.Text()))
	playlist.Title = title
	return playlist, nil
}

// entries walks listing pages one fetch per pull boundary: the next page
// is fetched only when the batch after the current one is demanded. The
// articles of each page become references to the Legacy extractor;
// iteration ends at the first page without a "next" link.
func (e *Category) entries(baseURL, firstPage string) *extractor.EntryStream {
	content := firstPage
	nextURL := ""
	first := true
	return extractor.NewFuncStream(func() ([]*extractor.MediaEntry, error) {
		for {
			if !first {
				if nextURL == "" {
					return nil, nil
				}
				page, err := e.f.Fetch(fetch.JoinURL(baseURL, nextURL), nil)
				if err != nil {
					return nil, err
				}
				content = page.Text()
			}
			first = false
			batch := categoryRefs(baseURL, content)
			nextURL = nextPageURL(content)
			// a listing page with no articles but a next link is skipped
			if len(batch) > 0 || nextURL == "" {
				return batch, nil
			}
		}
	})
}

func categoryRefs(baseURL, content string) []*extractor.MediaEntry {
	batch := make([]*extractor.MediaEntry, 0)
	for _, m := range categoryArticleRe.FindAllStringSubmatch(content, -1) {
		anchor, articleID := m[1], m[2]
		href := anchorAttr(anchor, "href")
		if href == "" {
			continue
		}
		ref := extractor.Ref(fetch.JoinURL(baseURL, href), NameLegacy)
		ref.ID = articleID
		ref.Title = extractor.CleanText(anchorAttr(anchor, "title"))
		batch = append(batch, ref)
	}
	return batch
}

func anchorAttr(anchor, name string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(anchor))
	if err != nil {
		return ""
	}
	val, _ := doc.Find("a").First().Attr(name)
	return val
}

func nextPageURL(content string) string {
	m := categoryNextRe.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	return m[1]
}
