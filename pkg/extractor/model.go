package extractor

// Entry kinds. A concrete media entry always carries ID and URL; the
// other kinds still need work before they can be downloaded.
const (
	// KindMedia is a concrete, directly downloadable record.
	KindMedia = iota + 1
	// KindPlaylist carries a lazy stream of further entries.
	KindPlaylist
	// KindReference points at another page that a (possibly different)
	// extractor must resolve; the entry's own fields act as seed values
	// merged into whatever the deeper resolution produces.
	KindReference
	// KindRedirect tells the resolver to re-dispatch the URL to another
	// extractor. Returned when a fetch reveals the true document shape,
	// e.g. a legacy article URL that now redirects to the redesigned site.
	KindRedirect
)

// Format is one quality/container variant of a media entry.
type Format struct {
	URL      string
	Filesize int64
	Codec    string
}

// MediaEntry is the normalized unit every extractor produces. Duration is
// seconds, Timestamp is unix epoch; zero means unknown.
type MediaEntry struct {
	Kind int

	ID          string
	URL         string
	Title       string
	Description string
	Thumbnail   string
	Duration    int64
	Timestamp   int64
	Series      string
	Episode     string
	Uploader    string
	IsLive      bool
	Formats     []*Format

	// playlist fields
	EntryCount int64
	Entries    *EntryStream

	// reference/redirect fields
	TargetURL     string
	ExtractorHint string
}

// Ref builds a deferred reference entry. The seed fields go on the
// returned entry directly.
func Ref(targetURL, hint string) *MediaEntry {
	return &MediaEntry{
		Kind:          KindReference,
		TargetURL:     targetURL,
		ExtractorHint: hint,
	}
}

// Redirect builds a redirect entry dispatched again by the resolver.
func Redirect(targetURL, hint string) *MediaEntry {
	return &MediaEntry{
		Kind:          KindRedirect,
		TargetURL:     targetURL,
		ExtractorHint: hint,
	}
}

// Playlist wraps a lazy entry stream into a playlist entry.
func Playlist(id string, entries *EntryStream) *MediaEntry {
	return &MediaEntry{
		Kind:    KindPlaylist,
		ID:      id,
		Entries: entries,
	}
}

// overlaySeed fills unset fields of dst from seed. Concrete values found
// by the deeper resolution always win over seed values.
func overlaySeed(dst, seed *MediaEntry) {
	if seed == nil {
		return
	}
	if dst.ID == "" {
		dst.ID = seed.ID
	}
	if dst.Title == "" {
		dst.Title = seed.Title
	}
	if dst.Description == "" {
		dst.Description = seed.Description
	}
	if dst.Thumbnail == "" {
		dst.Thumbnail = seed.Thumbnail
	}
	if dst.Duration == 0 {
		dst.Duration = seed.Duration
	}
	if dst.Timestamp == 0 {
		dst.Timestamp = seed.Timestamp
	}
	if dst.Series == "" {
		dst.Series = seed.Series
	}
	if dst.Episode == "" {
		dst.Episode = seed.Episode
	}
	if dst.Uploader == "" {
		dst.Uploader = seed.Uploader
	}
}
