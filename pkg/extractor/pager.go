package extractor

// PageFunc fetches one page of a paginated listing. Pages are numbered
// from 1. Implementations should be pure functions of the page index so
// the stream stays restartable.
type PageFunc func(page int) ([]*MediaEntry, error)

// batchFunc produces the next batch of entries. Returning an empty batch
// with a nil error ends the stream.
type batchFunc func() ([]*MediaEntry, error)

// EntryStream is a pull-based lazy sequence of entries. Each remote page
// is fetched only when iteration reaches it, one fetch per page boundary,
// so abandoning a stream early never costs more than the pages already
// consumed. Usage follows the scanner idiom:
//
//	for st.Next() {
//		entry := st.Entry()
//	}
//	if err := st.Err(); err != nil { ... }
//
// A fetch failure surfaces at the pull that needs the failing page;
// entries delivered before it remain valid.
type EntryStream struct {
	next    batchFunc
	restart func() batchFunc

	buf  []*MediaEntry
	cur  *MediaEntry
	err  error
	done bool
}

// NewSliceStream wraps already materialized entries.
func NewSliceStream(entries ...*MediaEntry) *EntryStream {
	start := func() batchFunc {
		sent := false
		return func() ([]*MediaEntry, error) {
			if sent {
				return nil, nil
			}
			sent = true
			return entries, nil
		}
	}
	return &EntryStream{next: start(), restart: start}
}

// NewPagedStream probes pages open-endedly starting at page 1 and stops
// at the first page that yields no items.
func NewPagedStream(fetch PageFunc) *EntryStream {
	start := func() batchFunc {
		page := 0
		return func() ([]*MediaEntry, error) {
			page++
			return fetch(page)
		}
	}
	return &EntryStream{next: start(), restart: start}
}

// NewCountedStream pages through a listing whose total item count is
// declared upfront: ceil(total/pageSize) pages are fetched, no probing
// fetch past the last page.
func NewCountedStream(total, pageSize int64, fetch PageFunc) *EntryStream {
	pages := int(0)
	if pageSize > 0 {
		pages = int((total + pageSize - 1) / pageSize)
	}
	start := func() batchFunc {
		page := 0
		return func() ([]*MediaEntry, error) {
			if page >= pages {
				return nil, nil
			}
			page++
			return fetch(page)
		}
	}
	return &EntryStream{next: start(), restart: start}
}

// NewFuncStream builds a single-pass stream from a stateful batch
// producer, e.g. a next-link chain where page N's URL is only known
// after fetching page N-1. Such streams do not support Reset.
func NewFuncStream(next func() ([]*MediaEntry, error)) *EntryStream {
	return &EntryStream{next: next}
}

// ConcatStreams yields all entries of each stream in order, advancing to
// the next stream only after the previous one is exhausted.
func ConcatStreams(streams ...*EntryStream) *EntryStream {
	start := func() batchFunc {
		idx := 0
		return func() ([]*MediaEntry, error) {
			for idx < len(streams) {
				st := streams[idx]
				if st.Next() {
					return []*MediaEntry{st.Entry()}, nil
				}
				if err := st.Err(); err != nil {
					return nil, err
				}
				idx++
			}
			return nil, nil
		}
	}
	s := &EntryStream{next: start()}
	s.restart = func() batchFunc {
		for _, st := range streams {
			if !st.Reset() {
				return nil
			}
		}
		return start()
	}
	return s
}

// Next advances the stream. It returns false when the sequence ends or a
// fetch fails; Err distinguishes the two.
func (s *EntryStream) Next() bool {
	if s.err != nil || s.done {
		return false
	}
	for len(s.buf) == 0 {
		batch, err := s.next()
		if err != nil {
			s.err = err
			return false
		}
		if len(batch) == 0 {
			s.done = true
			return false
		}
		s.buf = batch
	}
	s.cur = s.buf[0]
	s.buf = s.buf[1:]
	return true
}

// Entry returns the entry produced by the last successful Next.
func (s *EntryStream) Entry() *MediaEntry {
	return s.cur
}

func (s *EntryStream) Err() error {
	return s.err
}

// Reset rewinds a restartable stream to its first page. It reports false
// for single-pass streams, which stay untouched.
func (s *EntryStream) Reset() bool {
	if s.restart == nil {
		return false
	}
	next := s.restart()
	if next == nil {
		return false
	}
	s.next = next
	s.buf = nil
	s.cur = nil
	s.err = nil
	s.done = false
	return true
}

// Collect drains the stream. On error the entries read so far are
// returned together with the error.
func (s *EntryStream) Collect() ([]*MediaEntry, error) {
	entries := make([]*MediaEntry, 0)
	for s.Next() {
		entries = append(entries, s.Entry())
	}
	return entries, s.Err()
}
