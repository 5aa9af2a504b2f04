package extractor

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubExtractor is a scriptable extractor for registry and resolver
// tests.
type stubExtractor struct {
	name     string
	pattern  *regexp.Regexp
	refuse   func(url string) bool
	extract  func(id, url string) (*MediaEntry, error)
	extracts int
}

func newStub(name, pattern string) *stubExtractor {
	return &stubExtractor{
		name:    name,
		pattern: regexp.MustCompile(pattern),
	}
}

func (s *stubExtractor) Name() string {
	return s.name
}

func (s *stubExtractor) Match(url string) (string, bool) {
	m := s.pattern.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	if len(m) > 1 {
		return m[1], true
	}
	return url, true
}

func (s *stubExtractor) Suitable(url string) bool {
	return s.refuse == nil || !s.refuse(url)
}

func (s *stubExtractor) Extract(id, url string) (*MediaEntry, error) {
	s.extracts++
	if s.extract != nil {
		return s.extract(id, url)
	}
	return &MediaEntry{Kind: KindMedia, ID: id, URL: url}, nil
}

func TestRegistryResolve(t *testing.T) {
	alpha := newStub("alpha", `^https://alpha\.example/(\d+)`)
	beta := newStub("beta", `^https://beta\.example/(\d+)`)
	reg := NewRegistry(alpha, beta)

	ex, id, err := reg.Resolve("https://beta.example/42")
	require.NoError(t, err)
	assert.Equal(t, "beta", ex.Name())
	assert.Equal(t, "42", id)
}

func TestRegistryNoMatch(t *testing.T) {
	reg := NewRegistry(newStub("alpha", `^https://alpha\.example/`))
	_, _, err := reg.Resolve("https://other.example/1")
	assert.ErrorIs(t, err, ErrNoMatchingExtractor)
}

func TestRegistrySuitablePrecedence(t *testing.T) {
	// both patterns match, the broad one refuses article URLs
	broad := newStub("broad", `^https://site\.example/(?:article/)?(\d+)`)
	broad.refuse = func(url string) bool {
		return strings.Contains(url, "/article/")
	}
	narrow := newStub("narrow", `^https://site\.example/article/(\d+)`)
	reg := NewRegistry(broad, narrow)

	for i := 0; i < 5; i++ {
		ex, _, err := reg.Resolve("https://site.example/article/7")
		require.NoError(t, err)
		assert.Equal(t, "narrow", ex.Name(), "precedence must be deterministic and repeatable")
	}

	ex, id, err := reg.Resolve("https://site.example/7")
	require.NoError(t, err)
	assert.Equal(t, "broad", ex.Name())
	assert.Equal(t, "7", id)
}

func TestRegistryHint(t *testing.T) {
	first := newStub("first", `^https://site\.example/(\d+)`)
	second := newStub("second", `^https://site\.example/(\d+)`)
	reg := NewRegistry(first, second)

	ex, _, err := reg.Resolve("https://site.example/1", "second")
	require.NoError(t, err)
	assert.Equal(t, "second", ex.Name())

	// unknown hints fall back to pattern order
	ex, _, err = reg.Resolve("https://site.example/1", "nonexistent")
	require.NoError(t, err)
	assert.Equal(t, "first", ex.Name())
}
