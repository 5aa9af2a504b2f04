package extractor

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNoMatchingExtractor is returned by Registry.Resolve when no
// registered extractor accepts the URL.
var ErrNoMatchingExtractor = errors.New("no matching extractor")

// ExtractionError reports that a successfully fetched document was
// missing data the extractor requires.
type ExtractionError struct {
	Extractor string
	Reason    string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Extractor, e.Reason)
}

func extractionErrorf(name, format string, args ...any) error {
	return &ExtractionError{Extractor: name, Reason: fmt.Sprintf(format, args...)}
}

// Extractor is a site-specific extraction strategy bound to a URL pattern.
type Extractor interface {
	Name() string

	// Match reports whether the URL fits this extractor's pattern and
	// returns the captured resolution id.
	Match(url string) (id string, ok bool)

	// Suitable may refuse a URL even though the pattern matches, so a
	// more specific extractor registered elsewhere can claim it.
	Suitable(url string) bool

	// Extract fetches whatever documents the site needs and returns a
	// concrete entry, a playlist, or a redirect to another extractor.
	Extract(id, url string) (*MediaEntry, error)
}

// Registry is an ordered, immutable set of extractors. It is built once
// at startup and only read during resolution, so concurrent resolution
// requests need no locking.
type Registry struct {
	extractors []Extractor
	byName     map[string]Extractor
}

func NewRegistry(extractors ...Extractor) *Registry {
	byName := make(map[string]Extractor, len(extractors))
	for _, ex := range extractors {
		byName[ex.Name()] = ex
	}
	return &Registry{
		extractors: extractors,
		byName:     byName,
	}
}

// Get returns an extractor by name.
func (r *Registry) Get(name string) (Extractor, bool) {
	ex, ok := r.byName[name]
	return ex, ok
}

// Resolve finds the extractor for a URL. Hints name preferred extractors
// tried before pattern matching; extractors are otherwise tried in
// registration order and the first one whose pattern matches and whose
// Suitable accepts wins.
func (r *Registry) Resolve(url string, hints ...string) (Extractor, string, error) {
	for _, hint := range hints {
		if hint == "" {
			continue
		}
		ex, ok := r.byName[hint]
		if !ok {
			continue
		}
		if id, matched := ex.Match(url); matched {
			return ex, id, nil
		}
	}
	for _, ex := range r.extractors {
		id, matched := ex.Match(url)
		if !matched {
			continue
		}
		if !ex.Suitable(url) {
			continue
		}
		return ex, id, nil
	}
	return nil, "", errors.Wrap(ErrNoMatchingExtractor, url)
}
