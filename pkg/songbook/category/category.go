// Package category groups songs by the \category tags they declare.
package category

import (
	"github.com/provide-io/songbook/go/songbook/pkg/songbook/fragment"
)

// Index maps a category tag to the songs declaring it. Tags and bucket
// entries both keep the order in which they were first added.
type Index struct {
	tags    []string
	buckets map[string][]*fragment.Fragment
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{buckets: make(map[string][]*fragment.Fragment)}
}

// Build indexes every category occurrence of every song, in input order.
// A song declaring a tag twice is listed twice in that bucket.
func Build(songs []*fragment.Fragment) *Index {
	idx := NewIndex()
	for _, song := range songs {
		for _, tag := range song.Categories {
			idx.Add(tag, song)
		}
	}
	return idx
}

// GetOrCreate returns the bucket for tag, registering the tag if it is new.
func (idx *Index) GetOrCreate(tag string) []*fragment.Fragment {
	bucket, ok := idx.buckets[tag]
	if !ok {
		idx.tags = append(idx.tags, tag)
		bucket = []*fragment.Fragment{}
		idx.buckets[tag] = bucket
	}
	return bucket
}

// Add appends song to the bucket for tag.
func (idx *Index) Add(tag string, song *fragment.Fragment) {
	idx.buckets[tag] = append(idx.GetOrCreate(tag), song)
}

// Get returns the songs filed under tag, or nil if the tag is unknown.
func (idx *Index) Get(tag string) []*fragment.Fragment {
	return idx.buckets[tag]
}

// Tags returns the known tags in first-seen order.
func (idx *Index) Tags() []string {
	out := make([]string, len(idx.tags))
	copy(out, idx.tags)
	return out
}

// Len returns the number of distinct tags.
func (idx *Index) Len() int {
	return len(idx.tags)
}
