// Package dll implements an intrusive doubly-linked list, generalized
// from a single-purpose waiter-list pattern into a reusable link type
// that a struct can embed multiple times, one per list it may
// simultaneously belong to (ready queue, sleep queue, a semaphore's
// waiter list, a thread's donor set, the all-threads list).
//
// Rather than hard-coding a single element type, List stores an opaque
// interface{} so the same implementation backs every scheduler queue.
// Ordering is the caller's responsibility: the scheduler and sync
// primitives insert elements via InsertOrdered using a less(a, b)
// comparator so that FIFO order is preserved between elements that
// compare equal (stable insertion): ties break by insertion order.
package dll

// Elem is a single link; it is zero-value ready only after MakeEmpty has
// been called on it, or it is designed to be used as a node that will
// always be explicitly inserted.
type Elem struct {
	next, prev *Elem
	Value      interface{} // payload set by the caller when constructing a node
}

// NewElem returns a freshly allocated, unlinked node carrying value.
func NewElem(value interface{}) *Elem {
	return &Elem{Value: value}
}

// List is the head/sentinel of a circular doubly-linked list. The zero
// value is not ready to use; call MakeEmpty first (mirrors nsync.dll).
type List struct {
	head Elem
}

// MakeEmpty makes the list empty. Requires that the list is not currently
// a non-empty list (i.e. this is construction-time initialization).
func (l *List) MakeEmpty() {
	l.head.next = &l.head
	l.head.prev = &l.head
}

// IsEmpty reports whether l is empty.
func (l *List) IsEmpty() bool {
	if l.head.next == nil {
		l.MakeEmpty()
	}
	return l.head.next == &l.head
}

// PushFront inserts e at the front of the list (the next element to be
// popped by Front/PopFront).
func (l *List) PushFront(e *Elem) {
	l.insertAfter(e, &l.head)
}

// PushBack inserts e at the back of the list.
func (l *List) PushBack(e *Elem) {
	l.insertAfter(e, l.head.prev)
}

// insertAfter splices e into the list immediately after p.
func (l *List) insertAfter(e, p *Elem) {
	if l.head.next == nil {
		l.MakeEmpty()
	}
	e.next = p.next
	e.prev = p
	e.next.prev = e
	e.prev.next = e
}

// Remove unlinks e from whatever list it is currently a member of.
// Requires that e is currently linked into some list.
func (e *Elem) Remove() {
	e.next.prev = e.prev
	e.prev.next = e.next
	e.next, e.prev = nil, nil
}

// Front returns the first element, or nil if the list is empty.
func (l *List) Front() *Elem {
	if l.IsEmpty() {
		return nil
	}
	return l.head.next
}

// Back returns the last element, or nil if the list is empty.
func (l *List) Back() *Elem {
	if l.IsEmpty() {
		return nil
	}
	return l.head.prev
}

// PopFront removes and returns the first element, or nil if the list is empty.
func (l *List) PopFront() *Elem {
	e := l.Front()
	if e != nil {
		e.Remove()
	}
	return e
}

// Next returns the element's successor, or nil if it is the list's head
// (callers iterate with `for e := l.Front(); e != nil; e = l.Next(e)`).
func (l *List) Next(e *Elem) *Elem {
	if e.next == &l.head {
		return nil
	}
	return e.next
}

// InsertOrdered inserts e into l so that the list remains sorted
// according to less: it walks from the front and inserts e immediately
// before the first existing element cur for which less(e, cur) holds --
// equivalently, after every existing element that e does not outrank --
// which preserves FIFO order among elements considered equal by less. O(n); the scheduler queues this backs are expected to be short
// relative to a full OS's thread count.
func (l *List) InsertOrdered(e *Elem, less func(a, b interface{}) bool) {
	if l.head.next == nil {
		l.MakeEmpty()
	}
	p := &l.head
	for cur := l.head.next; cur != &l.head; cur = cur.next {
		if less(e.Value, cur.Value) {
			break
		}
		p = cur
	}
	l.insertAfter(e, p)
}

// IsInList reports whether e is currently linked into l. Used to guard
// against acting on a waiter that has already been removed by a
// concurrent wake (the same defensive check nsync's CV wait performs via
// w.q.IsInList).
func (l *List) IsInList(e *Elem) bool {
	for cur := l.head.next; cur != &l.head; cur = cur.next {
		if cur == e {
			return true
		}
	}
	return false
}

// Len returns the number of elements currently in l. O(n); intended for
// tests and diagnostics, not scheduler hot paths.
func (l *List) Len() int {
	n := 0
	for e := l.Front(); e != nil; e = l.Next(e) {
		n++
	}
	return n
}
