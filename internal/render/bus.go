package render

import (
	"fmt"
	"sort"
	"sync"
)

// Listener processes one event; returning an error stops the dispatch.
type Listener func(Event) error

type subscription struct {
	priority int
	seq      int
	fn       Listener
}

// Bus is a synchronous pub/sub bus keyed by event kind. Listeners run in
// priority order (lower first, ties in subscription order) and may mutate
// the event before control returns to the emitter. The bus never catches
// listener panics and provides no retry.
//
// The subscriber map is guarded because plugins may subscribe from init
// code; dispatch itself is single-threaded by construction.
type Bus struct {
	mu        sync.RWMutex
	seq       int
	listeners map[Kind][]subscription
}

func NewBus() *Bus {
	return &Bus{listeners: map[Kind][]subscription{}}
}

// Subscribe registers an untyped listener. Most callers want the typed
// helpers below; this exists for instrumentation that spans kinds.
func (b *Bus) Subscribe(kind Kind, priority int, fn Listener) {
	if fn == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	ls := append(b.listeners[kind], subscription{priority: priority, seq: b.seq, fn: fn})
	sort.SliceStable(ls, func(i, j int) bool {
		if ls[i].priority != ls[j].priority {
			return ls[i].priority < ls[j].priority
		}
		return ls[i].seq < ls[j].seq
	})
	b.listeners[kind] = ls
}

// OnRenderer registers a listener for the whole-run channels.
func (b *Bus) OnRenderer(kind Kind, priority int, fn func(*RendererEvent) error) error {
	if kind != BeginRender && kind != EndRender {
		return fmt.Errorf("kind %s does not carry a renderer event", kind)
	}
	b.Subscribe(kind, priority, func(e Event) error {
		return fn(e.(*RendererEvent))
	})
	return nil
}

// OnPage registers a listener for the per-page channels.
func (b *Bus) OnPage(kind Kind, priority int, fn func(*PageEvent) error) error {
	if kind != BeginPage && kind != EndPage {
		return fmt.Errorf("kind %s does not carry a page event", kind)
	}
	b.Subscribe(kind, priority, func(e Event) error {
		return fn(e.(*PageEvent))
	})
	return nil
}

// OnMarkdown registers a listener for markdown-parse invocations.
func (b *Bus) OnMarkdown(priority int, fn func(*MarkdownEvent) error) {
	b.Subscribe(ParseMarkdown, priority, func(e Event) error {
		return fn(e.(*MarkdownEvent))
	})
}

// OnIndex registers a listener for search index preparation.
func (b *Bus) OnIndex(priority int, fn func(*IndexEvent) error) {
	b.Subscribe(PrepareIndex, priority, func(e Event) error {
		return fn(e.(*IndexEvent))
	})
}

// Emit delivers e to every listener of kind, stopping on the first error.
func (b *Bus) Emit(kind Kind, e Event) error {
	b.mu.RLock()
	ls := append([]subscription(nil), b.listeners[kind]...)
	b.mu.RUnlock()
	for _, l := range ls {
		if err := l.fn(e); err != nil {
			return err
		}
	}
	return nil
}

// ListenerCount reports how many listeners a kind has.
func (b *Bus) ListenerCount(kind Kind) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[kind])
}
