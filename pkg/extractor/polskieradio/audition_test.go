package polskieradio

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radioscribe/pkg/extractor"
)

const auditionPage = `<html><body>
<script id="__NEXT_DATA__" type="application/json">
{"props":{"pageProps":{"data":{
  "details":{"name":"Sygnały dnia","description":{"lead":"Poranek Jedynki"},"photo":"https://static.prsa.pl/sygnaly.jpg"},
  "episodes":[{"id":1}],
  "articles":[{"id":40}]
}}}}
</script>
</body></html>`

func lp3URL(path, categoryID string, pageSize, page int) string {
	return fmt.Sprintf("%s/%s?categoryId=%s&PageSize=%d&skip=%d&format=400",
		lp3Base, path, categoryID, pageSize, page)
}

func TestAuditionEpisodesAndArticles(t *testing.T) {
	f := newFakeFetcher()
	link := "https://www.polskieradio.pl/audycje/217"
	f.pages[link] = auditionPage

	f.pages[lp3URL("AudioArticle/GetListByCategoryId", "217", 2, 1)] = `{"data":[
		{"id":1,"file":"https://static.prsa.pl/e1.mp3","title":"Odcinek 1","duration":1800,"datePublic":"2020-06-20T12:00:00"},
		{"id":2,"file":"https://static.prsa.pl/e2.mp3","title":"Odcinek 2","duration":1750,"datePublic":"2020-06-21T12:00:00"}]}`
	f.pages[lp3URL("AudioArticle/GetListByCategoryId", "217", 2, 2)] = `{"data":[
		{"id":3,"file":"https://static.prsa.pl/e3.mp3","title":"Odcinek 3","duration":1700,"datePublic":"2020-06-22T12:00:00"}]}`
	f.pages[lp3URL("AudioArticle/GetListByCategoryId", "217", 2, 3)] = `{"data":[]}`

	f.pages[lp3URL("Article/GetListByCategoryId", "217", 2, 1)] = `{"data":[
		{"id":40,"url":"https://jedynka.polskieradio.pl/artykul/40","shortTitle":"Zapowiedź","description":{"lead":"Lead 40"},"datePublic":"2020-06-23T12:00:00"}]}`
	f.pages[lp3URL("Article/GetListByCategoryId", "217", 2, 2)] = `{"data":[]}`

	e := NewAudition(f)
	e.SetPageSize(2)

	entry, err := e.Extract("217", link)
	require.NoError(t, err)
	assert.Equal(t, extractor.KindPlaylist, entry.Kind)
	assert.Equal(t, "Sygnały dnia", entry.Title)
	assert.Equal(t, "Poranek Jedynki", entry.Description)
	assert.Equal(t, "https://static.prsa.pl/sygnaly.jpg", entry.Thumbnail)

	// the series page alone costs one fetch, listings are not touched yet
	assert.Equal(t, 0, f.calls[lp3URL("AudioArticle/GetListByCategoryId", "217", 2, 1)])

	records, err := entry.Entries.Collect()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, "1", records[0].ID)
	assert.Equal(t, "https://static.prsa.pl/e1.mp3", records[0].URL)
	assert.Equal(t, "Odcinek 1", records[0].Title)
	assert.Equal(t, int64(1800), records[0].Duration)
	assert.Equal(t, int64(1592654400), records[0].Timestamp)
	assert.Equal(t, "3", records[2].ID)

	ref := records[3]
	assert.Equal(t, extractor.KindReference, ref.Kind)
	assert.Equal(t, "https://jedynka.polskieradio.pl/artykul/40", ref.TargetURL)
	assert.Equal(t, NameModern, ref.ExtractorHint)
	assert.Equal(t, "40", ref.ID)
	assert.Equal(t, "Zapowiedź", ref.Title)
	assert.Equal(t, "Lead 40", ref.Description)

	// open-ended paging stops at the first empty page of each listing
	assert.Equal(t, 1, f.calls[lp3URL("AudioArticle/GetListByCategoryId", "217", 2, 3)])
	assert.Equal(t, 0, f.calls[lp3URL("AudioArticle/GetListByCategoryId", "217", 2, 4)])
	assert.Equal(t, 1, f.calls[lp3URL("Article/GetListByCategoryId", "217", 2, 2)])

	headers := f.headers[lp3URL("AudioArticle/GetListByCategoryId", "217", 2, 1)]
	assert.Equal(t, lp3APIKey, headers["x-api-key"])
}

func TestAuditionWithoutListings(t *testing.T) {
	f := newFakeFetcher()
	link := "https://www.polskieradio.pl/audycje/305"
	f.pages[link] = `<html><body><script id="__NEXT_DATA__" type="application/json">
{"props":{"pageProps":{"data":{"details":{"name":"Bez list"}}}}}
</script></body></html>`

	e := NewAudition(f)
	entry, err := e.Extract("305", link)
	require.NoError(t, err)

	records, err := entry.Entries.Collect()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAuditionEmptyListingsNotProbed(t *testing.T) {
	f := newFakeFetcher()
	link := "https://www.polskieradio.pl/audycje/306"
	f.pages[link] = `<html><body><script id="__NEXT_DATA__" type="application/json">
{"props":{"pageProps":{"data":{"details":{"name":"Puste listy"},"episodes":[],"articles":[]}}}}
</script></body></html>`

	e := NewAudition(f)
	e.SetPageSize(2)
	entry, err := e.Extract("306", link)
	require.NoError(t, err)

	records, err := entry.Entries.Collect()
	require.NoError(t, err)
	assert.Empty(t, records)

	// an empty embedded listing means there is nothing behind the API
	// either, so no lp3 page is fetched
	assert.Equal(t, 0, f.calls[lp3URL("AudioArticle/GetListByCategoryId", "306", 2, 1)])
	assert.Equal(t, 0, f.calls[lp3URL("Article/GetListByCategoryId", "306", 2, 1)])
}

func TestSetListPageSizeAppliesToAudition(t *testing.T) {
	f := newFakeFetcher()
	link := "https://www.polskieradio.pl/audycje/307"
	f.pages[link] = `<html><body><script id="__NEXT_DATA__" type="application/json">
{"props":{"pageProps":{"data":{"details":{"name":"Nadpisane"},"episodes":[{"id":9}]}}}}
</script></body></html>`
	f.pages[lp3URL("AudioArticle/GetListByCategoryId", "307", 2, 1)] = `{"data":[]}`

	extractors := All(f)
	SetListPageSize(extractors, 2)

	var audition extractor.Extractor
	for _, ex := range extractors {
		if ex.Name() == NameAudition {
			audition = ex
		}
	}
	require.NotNil(t, audition)

	entry, err := audition.Extract("307", link)
	require.NoError(t, err)
	records, err := entry.Entries.Collect()
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 1, f.calls[lp3URL("AudioArticle/GetListByCategoryId", "307", 2, 1)])
}
