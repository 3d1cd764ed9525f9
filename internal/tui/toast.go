package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type toastKind int

const (
	toastInfo toastKind = iota
	toastSuccess
	toastWarning
	toastError
)

type toast struct {
	id   int
	kind toastKind
	text string
}

type toastExpiredMsg struct{ id int }

// toastStack keeps the visible notifications, newest last.
type toastStack struct {
	ttl   time.Duration
	next  int
	items []toast
}

const maxToasts = 3

func (s *toastStack) push(kind toastKind, text string) tea.Cmd {
	s.next++
	t := toast{id: s.next, kind: kind, text: text}
	s.items = append(s.items, t)
	if len(s.items) > maxToasts {
		s.items = s.items[len(s.items)-maxToasts:]
	}
	ttl := s.ttl
	if ttl <= 0 {
		ttl = 3 * time.Second
	}
	id := t.id
	return tea.Tick(ttl, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} })
}

func (s *toastStack) expire(id int) {
	for i, t := range s.items {
		if t.id == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

func (s *toastStack) view(width int) string {
	if len(s.items) == 0 {
		return ""
	}
	lines := make([]string, 0, len(s.items))
	for _, t := range s.items {
		style := lipgloss.NewStyle().
			Foreground(toastColor(t.kind)).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(toastColor(t.kind)).
			Padding(0, 1)
		lines = append(lines, style.Render(truncate(t.text, max(10, width-4))))
	}
	return strings.Join(lines, "\n")
}
