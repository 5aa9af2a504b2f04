package polskieradio

import (
	"regexp"

	"radioscribe/pkg/extractor"
	"radioscribe/pkg/extractor/jsobj"
	"radioscribe/pkg/fetch"
)

var (
	playerURLRe     = regexp.MustCompile(`^https?://player\.polskieradio\.pl/anteny/(?P<id>[^/?#]+)`)
	channelListRe   = regexp.MustCompile(`;var r="anteny",a=(\[.+?\])},`)
)

const (
	playerBase     = "https://player.polskieradio.pl"
	playerBundle   = playerBase + "/main.bundle.js"
	stationsAPIURL = "https://apipr.polskieradio.pl/api/stacje"
)

// Player handles the live station player. The channel table is embedded
// as a JS array literal in the player bundle, the stream URLs come from
// the stations API.
type Player struct {
	f fetch.Fetcher
}

func NewPlayer(f fetch.Fetcher) *Player {
	return &Player{f: f}
}

func (e *Player) Name() string {
	return NamePlayer
}

func (e *Player) Match(link string) (string, bool) {
	return matchID(playerURLRe, link)
}

func (e *Player) Suitable(link string) bool {
	return true
}

func (e *Player) Extract(slug, link string) (*extractor.MediaEntry, error) {
	bundle, err := e.f.Fetch(playerBundle, nil)
	if err != nil {
		return nil, err
	}
	m := channelListRe.FindStringSubmatch(bundle.Text())
	if m == nil {
		return nil, &extractor.ExtractionError{Extractor: NamePlayer, Reason: "channel list not found in player bundle"}
	}
	channels, err := jsobj.Parse(m[1])
	if err != nil {
		return nil, &extractor.ExtractionError{Extractor: NamePlayer, Reason: "channel list unparseable: " + err.Error()}
	}

	var channelID, channelName, streamName string
	for _, channel := range channels.Array() {
		if channel.Get("url").String() != slug {
			continue
		}
		channelID = channel.Get("id").String()
		channelName = channel.Get("name").String()
		streamName = channel.Get("streamName").String()
		break
	}
	if channelID == "" {
		return nil, &extractor.ExtractionError{Extractor: NamePlayer, Reason: "channel not found"}
	}
	if streamName == "" {
		streamName = channelName
	}

	stations, err := e.f.Fetch(stationsAPIURL, map[string]string{
		"Accept":  "application/json",
		"Referer": link,
		"Origin":  playerBase,
	})
	if err != nil {
		return nil, err
	}
	formats := make([]*extractor.Format, 0)
	for _, station := range stations.JSON().Array() {
		if station.Get("Name").String() != streamName {
			continue
		}
		for _, stream := range station.Get("Streams").Array() {
			formats = append(formats, &extractor.Format{
				URL:   fetch.ProtoRelative(stream.String()),
				Codec: "none",
			})
		}
		break
	}
	if len(formats) == 0 {
		return nil, &extractor.ExtractionError{Extractor: NamePlayer, Reason: "station not found even though channel was extracted"}
	}

	return &extractor.MediaEntry{
		Kind:      extractor.KindMedia,
		ID:        channelID,
		URL:       formats[0].URL,
		Title:     channelName,
		Thumbnail: playerBase + "/images/" + slug + "-color-logo.png",
		IsLive:    true,
		Formats:   formats,
	}, nil
}
