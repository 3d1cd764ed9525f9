package tui

import tea "github.com/charmbracelet/bubbletea"

// keyListener reports whether it consumed the key.
type keyListener func(tea.KeyMsg) bool

// keyListeners holds global key handlers that outlive any single pane.
// add returns the release func; releasing twice is harmless.
type keyListeners struct {
	next  int
	order []int
	fns   map[int]keyListener
}

func (l *keyListeners) add(fn keyListener) (release func()) {
	if l.fns == nil {
		l.fns = make(map[int]keyListener)
	}
	l.next++
	id := l.next
	l.fns[id] = fn
	l.order = append(l.order, id)
	return func() {
		if _, ok := l.fns[id]; !ok {
			return
		}
		delete(l.fns, id)
		for i, v := range l.order {
			if v == id {
				l.order = append(l.order[:i], l.order[i+1:]...)
				break
			}
		}
	}
}

// dispatch offers msg to listeners in registration order until one consumes it.
func (l *keyListeners) dispatch(msg tea.KeyMsg) bool {
	for _, id := range append([]int(nil), l.order...) {
		fn, ok := l.fns[id]
		if !ok {
			continue
		}
		if fn(msg) {
			return true
		}
	}
	return false
}

func (l *keyListeners) len() int { return len(l.fns) }
