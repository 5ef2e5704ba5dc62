package resource

import (
	"sort"
	"sync"
)

// Registry tracks live objects by kind and notifies observers about their
// creation and removal.
type Registry struct {
	store     *Store
	observers []Observer
	obsMu     sync.RWMutex
	closed    bool
	closeMu   sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		store: NewStore(),
	}
}

// Insert adds a value and returns its handle, or 0 once the registry is closed.
func (r *Registry) Insert(kind Kind, value any) Handle {
	r.closeMu.RLock()
	if r.closed {
		r.closeMu.RUnlock()
		return 0
	}
	r.closeMu.RUnlock()

	handle, err := r.store.Create(kind, value)
	if err != nil {
		return 0
	}

	r.notify(Event{
		Type:   EventCreated,
		Handle: handle,
		Kind:   kind,
		Value:  value,
	})

	return handle
}

// Get retrieves a value by handle.
func (r *Registry) Get(handle Handle) (any, bool) {
	return r.store.Get(handle)
}

// GetKind retrieves a value only if it was registered under kind.
func (r *Registry) GetKind(handle Handle, kind Kind) (any, bool) {
	actual, ok := r.store.Kind(handle)
	if !ok || actual != kind {
		return nil, false
	}
	return r.store.Get(handle)
}

// Remove drops an entry, runs its Dropper and returns (value, true) if found.
func (r *Registry) Remove(handle Handle) (any, bool) {
	value, kind, ok := r.store.Drop(handle)
	if !ok {
		return nil, false
	}

	if d, ok := value.(Dropper); ok {
		d.Drop()
	}

	r.notify(Event{
		Type:   EventDropped,
		Handle: handle,
		Kind:   kind,
		Value:  value,
	})

	return value, true
}

// Subscribe adds an observer for lifecycle events.
func (r *Registry) Subscribe(o Observer) {
	r.obsMu.Lock()
	defer r.obsMu.Unlock()
	r.observers = append(r.observers, o)
}

// Unsubscribe removes an observer.
func (r *Registry) Unsubscribe(o Observer) {
	r.obsMu.Lock()
	defer r.obsMu.Unlock()
	for i, obs := range r.observers {
		if obs == o {
			r.observers = append(r.observers[:i], r.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of live objects.
func (r *Registry) Len() int {
	return r.store.Len()
}

// CountKind returns the number of live objects of one kind.
func (r *Registry) CountKind(kind Kind) int {
	n := 0
	r.store.Each(func(_ Handle, k Kind, _ any) bool {
		if k == kind {
			n++
		}
		return true
	})
	return n
}

// Counts returns live object counts per kind.
func (r *Registry) Counts() map[Kind]int {
	counts := make(map[Kind]int)
	r.store.Each(func(_ Handle, k Kind, _ any) bool {
		counts[k]++
		return true
	})
	return counts
}

// Kinds returns the kinds with live objects in sorted order.
func (r *Registry) Kinds() []Kind {
	counts := r.Counts()
	kinds := make([]Kind, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Clear removes every live object, newest first.
func (r *Registry) Clear() {
	// Collect handles first to avoid holding lock during Remove
	var handles []Handle
	r.store.Each(func(h Handle, _ Kind, _ any) bool {
		handles = append(handles, h)
		return true
	})
	for i := len(handles) - 1; i >= 0; i-- {
		r.Remove(handles[i])
	}
}

// Close removes every live object and stops accepting inserts.
func (r *Registry) Close() error {
	r.closeMu.Lock()
	r.closed = true
	r.closeMu.Unlock()

	r.Clear()
	return r.store.Close()
}

func (r *Registry) notify(e Event) {
	r.obsMu.RLock()
	defer r.obsMu.RUnlock()
	for _, o := range r.observers {
		o.OnResourceEvent(e)
	}
}
