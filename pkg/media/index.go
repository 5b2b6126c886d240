package media

import (
	"sort"
	"sync"

	"github.com/grafov/m3u8"
)

// SegmentIndex records which segments of which variant have been stored.
// It is safe for concurrent use and lives in memory only.
type SegmentIndex struct {
	mu     sync.RWMutex
	videos map[string]map[string][]int
}

// NewSegmentIndex creates an empty index
func NewSegmentIndex() *SegmentIndex {
	return &SegmentIndex{
		videos: make(map[string]map[string][]int),
	}
}

// Record adds a segment and reports whether it was new
func (s *SegmentIndex) Record(seg Segment) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	variants, ok := s.videos[seg.VideoID]
	if !ok {
		variants = make(map[string][]int)
		s.videos[seg.VideoID] = variants
	}

	indices := variants[seg.Variant]
	i := sort.SearchInts(indices, seg.Index)
	if i < len(indices) && indices[i] == seg.Index {
		return false
	}

	indices = append(indices, 0)
	copy(indices[i+1:], indices[i:])
	indices[i] = seg.Index
	variants[seg.Variant] = indices
	return true
}

// Has reports whether a segment has been recorded
func (s *SegmentIndex) Has(videoID, variant string, index int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	indices := s.videos[videoID][variant]
	i := sort.SearchInts(indices, index)
	return i < len(indices) && indices[i] == index
}

// Segments returns the recorded indices of a variant in ascending order
func (s *SegmentIndex) Segments(videoID, variant string) []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	indices := s.videos[videoID][variant]
	if len(indices) == 0 {
		return nil
	}
	out := make([]int, len(indices))
	copy(out, indices)
	return out
}

// Len returns the number of recorded segments
func (s *SegmentIndex) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, variants := range s.videos {
		for _, indices := range variants {
			n += len(indices)
		}
	}
	return n
}

// CachedVariants returns the variants of master that have segment index
// stored for videoID, in playlist order. Variants without a resolution are
// skipped.
func (s *SegmentIndex) CachedVariants(videoID string, master *m3u8.MasterPlaylist, index int) []*m3u8.Variant {
	if master == nil {
		return nil
	}

	var cached []*m3u8.Variant
	for _, v := range master.Variants {
		key, err := VariantKey(v)
		if err != nil {
			continue
		}
		if s.Has(videoID, key, index) {
			cached = append(cached, v)
		}
	}
	return cached
}
