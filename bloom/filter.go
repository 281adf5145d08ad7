// Package bloom provides document-name lookups fronted by a Bloom filter.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter wraps a Bloom filter for name membership tests.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected names
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add adds a name to the filter.
func (f *Filter) Add(name string) {
	f.f.AddString(name)
}

// Test returns true if the name might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(name string) bool {
	return f.f.TestString(name)
}

// EstimatedCount returns the approximate number of names in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}

// NameSet is an exact set of names. The map answers every lookup exactly;
// the filter in front of it only rules out absent names early.
type NameSet struct {
	filter *Filter
	names  map[string]struct{}
}

// NewNameSet creates an empty NameSet sized for n expected names.
func NewNameSet(n uint) *NameSet {
	if n == 0 {
		n = 1
	}
	return &NameSet{
		filter: NewFilter(n, 0.01),
		names:  make(map[string]struct{}, n),
	}
}

// Add inserts a name.
func (s *NameSet) Add(name string) {
	s.filter.Add(name)
	s.names[name] = struct{}{}
}

// Contains reports whether name was added. It never returns false positives.
func (s *NameSet) Contains(name string) bool {
	if !s.filter.Test(name) {
		return false
	}
	_, ok := s.names[name]
	return ok
}

// Len returns the number of distinct names in the set.
func (s *NameSet) Len() int {
	return len(s.names)
}
