package extractor

// DefaultMaxDepth bounds nested reference resolution. The reference graph
// is expected to be acyclic; the limit turns a cyclic input into an
// ExtractionError instead of an endless fetch loop.
const DefaultMaxDepth = 8

// Resolver flattens extractor output into concrete media records by
// dispatching deferred references and redirects through the registry.
type Resolver struct {
	registry *Registry
	maxDepth int
}

func NewResolver(registry *Registry) *Resolver {
	return &Resolver{
		registry: registry,
		maxDepth: DefaultMaxDepth,
	}
}

// SetMaxDepth overrides the nesting limit; values below 1 are ignored.
func (r *Resolver) SetMaxDepth(depth int) {
	if depth >= 1 {
		r.maxDepth = depth
	}
}

// ResolveURL dispatches a URL through the registry and flattens the
// extraction result. Hints name preferred extractors.
func (r *Resolver) ResolveURL(url string, hints ...string) (*EntryStream, error) {
	ex, id, err := r.registry.Resolve(url, hints...)
	if err != nil {
		return nil, err
	}
	root, err := ex.Extract(id, url)
	if err != nil {
		return nil, err
	}
	return r.Flatten(root), nil
}

// Flatten walks the entry depth-first and lazily yields only concrete
// media records, in source order. References are resolved through the
// registry at the pull that reaches them; their seed fields are overlaid
// onto every record the deeper resolution produces, never overwriting a
// concretely resolved value.
func (r *Resolver) Flatten(root *MediaEntry) *EntryStream {
	return r.flatten(root, nil, 0)
}

func (r *Resolver) flatten(entry *MediaEntry, seed *MediaEntry, depth int) *EntryStream {
	switch entry.Kind {
	case KindPlaylist:
		return r.flattenPlaylist(entry, seed, depth)
	case KindReference, KindRedirect:
		return r.flattenReference(entry, seed, depth)
	default:
		record := *entry
		overlaySeed(&record, seed)
		return NewSliceStream(&record)
	}
}

func (r *Resolver) flattenPlaylist(playlist *MediaEntry, seed *MediaEntry, depth int) *EntryStream {
	if playlist.Entries == nil {
		return NewSliceStream()
	}
	var inner *EntryStream
	return NewFuncStream(func() ([]*MediaEntry, error) {
		for {
			if inner != nil {
				if inner.Next() {
					return []*MediaEntry{inner.Entry()}, nil
				}
				if err := inner.Err(); err != nil {
					return nil, err
				}
				inner = nil
			}
			if !playlist.Entries.Next() {
				return nil, playlist.Entries.Err()
			}
			inner = r.flatten(playlist.Entries.Entry(), seed, depth)
		}
	})
}

func (r *Resolver) flattenReference(ref *MediaEntry, seed *MediaEntry, depth int) *EntryStream {
	// reference resolution is deferred until the first pull
	var inner *EntryStream
	return NewFuncStream(func() ([]*MediaEntry, error) {
		if inner == nil {
			if depth >= r.maxDepth {
				return nil, extractionErrorf(ref.ExtractorHint,
					"reference nesting exceeds depth %d at %s", r.maxDepth, ref.TargetURL)
			}
			ex, id, err := r.registry.Resolve(ref.TargetURL, ref.ExtractorHint)
			if err != nil {
				return nil, err
			}
			resolved, err := ex.Extract(id, ref.TargetURL)
			if err != nil {
				return nil, err
			}
			nextSeed := seed
			if ref.Kind == KindReference {
				// merge outer seed over this reference's own fields
				refSeed := *ref
				overlaySeed(&refSeed, seed)
				nextSeed = &refSeed
			}
			inner = r.flatten(resolved, nextSeed, depth+1)
		}
		if inner.Next() {
			return []*MediaEntry{inner.Entry()}, nil
		}
		return nil, inner.Err()
	})
}
