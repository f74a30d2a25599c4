package scroll

// Source yields raw scroll offsets to subscribers.
type Source interface {
	// Subscribe registers fn for every future offset and returns a func that
	// removes it.
	Subscribe(fn func(offset float64)) (unsubscribe func())
}

// Feed is a Source fed by the host's scroll loop. Subscribers are notified
// in subscription order and only ever receive the offset.
type Feed struct {
	subs   map[uint64]func(float64)
	order  []uint64
	nextID uint64
	offset float64
	closed bool
}

// NewFeed creates an empty feed positioned at offset 0.
func NewFeed() *Feed {
	return &Feed{subs: make(map[uint64]func(float64))}
}

// Subscribe implements Source. Subscribing to a closed feed returns a no-op
// unsubscribe.
func (f *Feed) Subscribe(fn func(offset float64)) func() {
	if f.closed || fn == nil {
		return func() {}
	}

	f.nextID++
	id := f.nextID
	f.subs[id] = fn
	f.order = append(f.order, id)

	return func() { f.remove(id) }
}

func (f *Feed) remove(id uint64) {
	if _, ok := f.subs[id]; !ok {
		return
	}
	delete(f.subs, id)
	for i, v := range f.order {
		if v == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
}

// Publish records offset and hands it to every subscriber.
func (f *Feed) Publish(offset float64) {
	if f.closed {
		return
	}
	f.offset = offset

	// Snapshot so subscribers may unsubscribe (or subscribe others) mid-fanout.
	ids := append([]uint64(nil), f.order...)
	for _, id := range ids {
		if fn, ok := f.subs[id]; ok {
			fn(offset)
		}
	}
}

// Offset returns the last published offset.
func (f *Feed) Offset() float64 {
	return f.offset
}

// Len returns the number of subscribers.
func (f *Feed) Len() int {
	return len(f.order)
}

// Close drops every subscriber. Later publishes are ignored.
func (f *Feed) Close() {
	f.closed = true
	f.subs = make(map[uint64]func(float64))
	f.order = nil
}
