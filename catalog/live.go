package catalog

import "sync/atomic"

// Live holds the index currently served. Admin edits build a new index
// and swap it in; readers never see a half-built one.
type Live struct {
	ix atomic.Pointer[Index]
}

func NewLive(ix *Index) *Live {
	l := &Live{}
	l.ix.Store(ix)
	return l
}

func (l *Live) Index() *Index { return l.ix.Load() }

func (l *Live) Swap(ix *Index) { l.ix.Store(ix) }
