package polskieradio

import (
	"regexp"

	"radioscribe/pkg/extractor"
	"radioscribe/pkg/fetch"
)

var (
	legacyURLRe  = regexp.MustCompile(`^https?://(?:www\.)?polskieradio(?:24)?\.pl/\d+/\d+/[Aa]rtykul/(?P<id>\d+)`)
	articleRe    = regexp.MustCompile(`(?s)<div[^>]+class="\s*this-article\s*"[^>]*>(.+?)<div[^>]+class="tags"[^>]*>`)
	recordURLRe  = regexp.MustCompile(`source:\s*'(//static\.prsa\.pl/[^']+)'`)
	datetime2Re  = regexp.MustCompile(`(?s)<span[^>]+id="datetime2"[^>]*>(.+?)</span>`)
	modernURLRe  = regexp.MustCompile(`^https?://(?:[^/]+\.)?polskieradio(?:24)?\.pl/artykul/(?P<id>\d+)`)
)

// Legacy handles pre-redesign article pages. Pages that meanwhile moved
// to the next.js frontend redirect there; the extractor notices via the
// final URL and hands resolution over to the modern extractor.
type Legacy struct {
	f fetch.Fetcher
}

func NewLegacy(f fetch.Fetcher) *Legacy {
	return &Legacy{f: f}
}

func (e *Legacy) Name() string {
	return NameLegacy
}

func (e *Legacy) Match(link string) (string, bool) {
	return matchID(legacyURLRe, link)
}

func (e *Legacy) Suitable(link string) bool {
	return true
}

func (e *Legacy) Extract(id, link string) (*extractor.MediaEntry, error) {
	page, err := e.f.Fetch(link, nil)
	if err != nil {
		return nil, err
	}
	if _, moved := matchID(modernURLRe, page.FinalURL); moved {
		return extractor.Redirect(page.FinalURL, NameModern), nil
	}

	doc, err := page.HTML()
	if err != nil {
		return nil, err
	}
	title := ogMeta(doc, "title")
	description := ogMeta(doc, "description")
	thumbnail := ogMeta(doc, "image")

	var timestamp int64
	if m := datetime2Re.FindStringSubmatch(page.Text()); m != nil {
		timestamp = extractor.ParseTimestamp(extractor.CleanText(m[1]))
	}

	content := ""
	if m := articleRe.FindStringSubmatch(page.Text()); m != nil {
		content = m[1]
	}
	if content == "" {
		// no player markup, the page carries a single audition record
		m := recordURLRe.FindStringSubmatch(page.Text())
		if m == nil {
			return nil, &extractor.ExtractionError{
				Extractor: NameLegacy,
				Reason:    "audition record url not found",
			}
		}
		return &extractor.MediaEntry{
			Kind:        extractor.KindMedia,
			ID:          id,
			URL:         fetch.ProtoRelative(m[1]),
			Title:       title,
			Description: description,
			Thumbnail:   thumbnail,
			Timestamp:   timestamp,
		}, nil
	}

	entries := playerEntries(content, extractor.MediaEntry{
		Title:     title,
		Timestamp: timestamp,
		Thumbnail: thumbnail,
	})
	playlist := extractor.Playlist(id, extractor.NewSliceStream(entries...))
	playlist.Title = title
	playlist.Description = description
	playlist.EntryCount = int64(len(entries))
	return playlist, nil
}
