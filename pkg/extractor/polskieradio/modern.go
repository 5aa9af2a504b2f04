package polskieradio

import (
	"radioscribe/pkg/extractor"
	"radioscribe/pkg/fetch"
)

// Modern handles article pages on the redesigned next.js sites. The whole
// article, attachments included, sits in the __NEXT_DATA__ blob.
type Modern struct {
	f fetch.Fetcher
}

func NewModern(f fetch.Fetcher) *Modern {
	return &Modern{f: f}
}

func (e *Modern) Name() string {
	return NameModern
}

func (e *Modern) Match(link string) (string, bool) {
	return matchID(modernURLRe, link)
}

func (e *Modern) Suitable(link string) bool {
	return true
}

func (e *Modern) Extract(id, link string) (*extractor.MediaEntry, error) {
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
		return nil, &extractor.ExtractionError{Extractor: NameModern, Reason: "__NEXT_DATA__ block missing"}
	}
	article := js.Get("props.pageProps.data.articleData")
	if !article.Exists() {
		return nil, &extractor.ExtractionError{Extractor: NameModern, Reason: "article data missing"}
	}
	title := extractor.CleanText(article.Get("title").String())
	if title == "" {
		return nil, &extractor.ExtractionError{Extractor: NameModern, Reason: "article title missing"}
	}
	description := extractor.CleanText(article.Get("lead").String())

	entries := make([]*extractor.MediaEntry, 0)
	for _, attachment := range article.Get("attachments").Array() {
		if attachment.Get("fileType").String() != "Audio" {
			continue
		}
		file := attachment.Get("file").String()
		if file == "" {
			continue
		}
		entryTitle := extractor.CleanText(attachment.Get("description").String())
		if entryTitle == "" {
			entryTitle = title
		}
		entries = append(entries, &extractor.MediaEntry{
			Kind:  extractor.KindMedia,
			ID:    extractor.SearchUUID(file),
			URL:   file,
			Title: entryTitle,
		})
	}

	playlist := extractor.Playlist(id, extractor.NewSliceStream(entries...))
	playlist.Title = title
	playlist.Description = description
	playlist.EntryCount = int64(len(entries))
	return playlist, nil
}
