package event

// Handler receives a published event.
type Handler func(Event)

// Subscription identifies a registered handler.
type Subscription struct {
	kind Kind
	id   int
}

type entry struct {
	id int
	fn Handler
}

// Bus delivers events synchronously to handlers registered per kind, in
// registration order. A Bus belongs to one game session and is not safe
// for concurrent use.
type Bus struct {
	handlers map[Kind][]entry
	all      []entry
	nextID   int
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Kind][]entry)}
}

// Subscribe registers fn for events of kind k.
func (b *Bus) Subscribe(k Kind, fn Handler) Subscription {
	b.nextID++
	b.handlers[k] = append(b.handlers[k], entry{id: b.nextID, fn: fn})
	return Subscription{kind: k, id: b.nextID}
}

// SubscribeAll registers fn for every event. Catch-all handlers
// run after the per-kind ones.
func (b *Bus) SubscribeAll(fn Handler) Subscription {
	b.nextID++
	b.all = append(b.all, entry{id: b.nextID, fn: fn})
	return Subscription{id: b.nextID}
}

// Unsubscribe removes a handler. Unknown subscriptions are ignored.
func (b *Bus) Unsubscribe(s Subscription) {
	if s.kind == 0 {
		b.all = remove(b.all, s.id)
		return
	}
	b.handlers[s.kind] = remove(b.handlers[s.kind], s.id)
}

// Publish delivers e. A nil bus drops the event.
func (b *Bus) Publish(e Event) {
	if b == nil || e == nil {
		return
	}
	// Copy so handlers may subscribe or unsubscribe while running.
	for _, h := range append([]entry(nil), b.handlers[e.Kind()]...) {
		h.fn(e)
	}
	for _, h := range append([]entry(nil), b.all...) {
		h.fn(e)
	}
}

func remove(list []entry, id int) []entry {
	for i, h := range list {
		if h.id == id {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}
