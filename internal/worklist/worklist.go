package worklist

// Entry is a pending item together with the depth it was discovered at
type Entry[T any] struct {
	Item  T
	Depth int
}

// Worklist is a LIFO stack of pending items plus the set of keys already
// visited. It backs depth-first walks that must not revisit a node.
type Worklist[T any, K comparable] struct {
	items   []Entry[T]
	visited map[K]bool
}

// New creates an empty Worklist
func New[T any, K comparable]() *Worklist[T, K] {
	return &Worklist[T, K]{
		items:   make([]Entry[T], 0),
		visited: make(map[K]bool),
	}
}

// Push adds an item on top of the stack
func (w *Worklist[T, K]) Push(item T, depth int) {
	w.items = append(w.items, Entry[T]{Item: item, Depth: depth})
}

// Pop removes and returns the most recently pushed item
func (w *Worklist[T, K]) Pop() (Entry[T], bool) {
	if len(w.items) == 0 {
		return Entry[T]{}, false
	}

	last := len(w.items) - 1
	entry := w.items[last]
	w.items[last] = Entry[T]{}
	w.items = w.items[:last]

	return entry, true
}

// Visit marks key as visited. It returns false if the key had already
// been visited.
func (w *Worklist[T, K]) Visit(key K) bool {
	if w.visited[key] {
		return false
	}
	w.visited[key] = true
	return true
}

// Seen checks if a key has been visited
func (w *Worklist[T, K]) Seen(key K) bool {
	return w.visited[key]
}

// Len returns the number of pending items
func (w *Worklist[T, K]) Len() int {
	return len(w.items)
}

// VisitedCount returns the number of visited keys
func (w *Worklist[T, K]) VisitedCount() int {
	return len(w.visited)
}
