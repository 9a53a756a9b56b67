package lru

// List is a doubly linked list ordered by recency: the front holds the
// most recently used element, the back the least recently used.
type List[T any] struct {
	root Element[T]
	size int
}

type Element[T any] struct {
	next *Element[T]
	prev *Element[T]
	list *List[T]

	Value T
}

func New[T any]() *List[T] {
	l := &List[T]{}
	l.root.next = &l.root
	l.root.prev = &l.root
	return l
}

func (l *List[T]) Len() int {
	return l.size
}

func (l *List[T]) Back() *Element[T] {
	if l.size == 0 {
		return nil
	}
	return l.root.prev
}

func (l *List[T]) PushFront(v T) *Element[T] {
	return l.insertValue(v, &l.root)
}

func (l *List[T]) MoveToFront(e *Element[T]) {
	if e == nil || e.list != l || l.root.next == e {
		return
	}
	l.move(e, &l.root)
}

func (l *List[T]) Remove(e *Element[T]) {
	if e == nil || e.list != l {
		return
	}
	l.remove(e)
}

func (e *Element[T]) Prev() *Element[T] {
	if e == nil || e.list == nil {
		return nil
	}
	p := e.prev
	if p == &e.list.root {
		return nil
	}
	return p
}

func (l *List[T]) insertValue(v T, at *Element[T]) *Element[T] {
	e := &Element[T]{Value: v}
	return l.insert(e, at)
}

func (l *List[T]) insert(e, at *Element[T]) *Element[T] {
	n := at.next
	at.next = e
	e.prev = at
	e.next = n
	n.prev = e
	e.list = l
	l.size++
	return e
}

func (l *List[T]) remove(e *Element[T]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.next = nil
	e.prev = nil
	e.list = nil
	l.size--
}

func (l *List[T]) move(e, at *Element[T]) {
	if e == at {
		return
	}
	e.prev.next = e.next
	e.next.prev = e.prev

	n := at.next
	at.next = e
	e.prev = at
	e.next = n
	n.prev = e
}
