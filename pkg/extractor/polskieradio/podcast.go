package polskieradio

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/tidwall/gjson"

	"radioscribe/pkg/extractor"
	"radioscribe/pkg/fetch"
)

var (
	podcastListURLRe = regexp.MustCompile(`^https?://podcasty\.polskieradio\.pl/podcast/(?P<id>\d+)`)
	podcastURLRe     = regexp.MustCompile(`^https?://podcasty\.polskieradio\.pl/track/(?P<id>[a-f\d]{8}(?:-[a-f\d]{4}){4}[a-f\d]{8})`)
)

const (
	podcastAPIBase     = "https://apipodcasts.polskieradio.pl/api"
	podcastPageSize    = 10
)

func parsePodcastEpisode(data gjson.Result) *extractor.MediaEntry {
	title := extractor.CleanText(data.Get("title").String())
	return &extractor.MediaEntry{
		Kind:        extractor.KindMedia,
		ID:          data.Get("guid").String(),
		URL:         data.Get("url").String(),
		Title:       title,
		Description: extractor.CleanText(data.Get("description").String()),
		Duration:    data.Get("length").Int(),
		Timestamp:   extractor.ParseTimestamp(data.Get("publishDate").String()),
		Thumbnail:   data.Get("image").String(),
		Series:      data.Get("podcastTitle").String(),
		Episode:     title,
		Formats: []*extractor.Format{{
			URL:      data.Get("url").String(),
			Filesize: data.Get("fileSize").Int(),
		}},
	}
}

// PodcastList handles podcast series pages. The API declares the total
// item count upfront, so the playlist pages with a known page count
// instead of probing for an empty page.
type PodcastList struct {
	f fetch.Fetcher
}

func NewPodcastList(f fetch.Fetcher) *PodcastList {
	return &PodcastList{f: f}
}

func (e *PodcastList) Name() string {
	return NamePodcastList
}

func (e *PodcastList) Match(link string) (string, bool) {
	return matchID(podcastListURLRe, link)
}

func (e *PodcastList) Suitable(link string) bool {
	return true
}

func (e *PodcastList) Extract(id, link string) (*extractor.MediaEntry, error) {
	first, err := e.callAPI(id, 1)
	if err != nil {
		return nil, err
	}
	if !first.Get("id").Exists() {
		return nil, &extractor.ExtractionError{Extractor: NamePodcastList, Reason: "podcast not found"}
	}

	fetchPage := func(page int) ([]*extractor.MediaEntry, error) {
		data := first
		if page > 1 {
			var err error
			data, err = e.callAPI(id, page)
			if err != nil {
				return nil, err
			}
		}
		items := data.Get("items").Array()
		entries := make([]*extractor.MediaEntry, 0, len(items))
		for _, item := range items {
			entries = append(entries, parsePodcastEpisode(item))
		}
		return entries, nil
	}

	playlist := extractor.Playlist(
		first.Get("id").String(),
		extractor.NewCountedStream(first.Get("itemCount").Int(), podcastPageSize, fetchPage),
	)
	playlist.Title = extractor.CleanText(first.Get("title").String())
	playlist.Description = extractor.CleanText(first.Get("description").String())
	playlist.Uploader = extractor.CleanText(first.Get("announcer").String())
	playlist.EntryCount = first.Get("itemCount").Int()
	return playlist, nil
}

func (e *PodcastList) callAPI(id string, page int) (gjson.Result, error) {
	link := fmt.Sprintf("%s/Podcasts/%s/?pageSize=%d&page=%d", podcastAPIBase, id, podcastPageSize, page)
	doc, err := e.f.Fetch(link, nil)
	if err != nil {
		return gjson.Result{}, err
	}
	return doc.JSON(), nil
}

// Podcast handles single podcast episode pages, looked up by guid
// through a POST endpoint.
type Podcast struct {
	f fetch.Fetcher
}

func NewPodcast(f fetch.Fetcher) *Podcast {
	return &Podcast{f: f}
}

func (e *Podcast) Name() string {
	return NamePodcast
}

func (e *Podcast) Match(link string) (string, bool) {
	return matchID(podcastURLRe, link)
}

func (e *Podcast) Suitable(link string) bool {
	return true
}

func (e *Podcast) Extract(id, link string) (*extractor.MediaEntry, error) {
	body, _ := json.Marshal(map[string]any{"guids": []string{id}})
	doc, err := e.f.Post(podcastAPIBase+"/audio", map[string]string{
		"Content-Type": "application/json",
	}, body)
	if err != nil {
		return nil, err
	}
	episodes := doc.JSON().Array()
	if len(episodes) == 0 {
		return nil, &extractor.ExtractionError{Extractor: NamePodcast, Reason: "episode metadata empty"}
	}
	return parsePodcastEpisode(episodes[0]), nil
}
