package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/orbit/internal/database/repository"
	"github.com/jask/orbit/internal/state"
)

// Stage is the content rendered in the main column.
type Stage int

const (
	StagePulse Stage = iota
	StageDeepDive
	StageAnalytics
	StageSettings
)

func (s Stage) String() string {
	switch s {
	case StageDeepDive:
		return "deep-dive"
	case StageAnalytics:
		return "analytics"
	case StageSettings:
		return "settings"
	default:
		return "pulse"
	}
}

// StageFor picks the stage. A selected account always wins; otherwise the
// view decides and anything unrecognized shows the pulse.
func StageFor(selected *repository.Account, view state.View) Stage {
	if selected != nil {
		return StageDeepDive
	}
	switch view {
	case state.ViewAnalytics:
		return StageAnalytics
	case state.ViewSettings:
		return StageSettings
	default:
		return StagePulse
	}
}

// Title is the header text above the stage.
func Title(selected *repository.Account, view state.View) string {
	if selected != nil {
		return selected.Name
	}
	switch view {
	case state.ViewAnalytics:
		return "Analytics"
	case state.ViewSettings:
		return "Settings"
	default:
		return "Portfolio Overview"
	}
}

// StageKey identifies the stage content for transitions.
func StageKey(selected *repository.Account, view state.View) string {
	if selected != nil {
		return "account-" + selected.ID
	}
	return "view-" + string(view)
}

const (
	stageFrames        = 4
	stageFrameInterval = 40 * time.Millisecond
)

type stageTickMsg struct {
	key   string
	frame int
}

// stageContainer remembers the last key it rendered and plays a short enter
// transition whenever the key changes.
type stageContainer struct {
	key   string
	frame int // frames left in the transition
}

// enter records key. A new key restarts the transition; the same key is a no-op.
func (s *stageContainer) enter(key string) tea.Cmd {
	if key == s.key {
		return nil
	}
	s.key = key
	s.frame = stageFrames
	return stageTick(key, s.frame)
}

func (s *stageContainer) advance(msg stageTickMsg) tea.Cmd {
	if msg.key != s.key || msg.frame != s.frame || s.frame == 0 {
		return nil
	}
	s.frame--
	if s.frame == 0 {
		return nil
	}
	return stageTick(s.key, s.frame)
}

func (s *stageContainer) transitioning() bool { return s.frame > 0 }

func (s *stageContainer) render(content string) string {
	if !s.transitioning() {
		return content
	}
	return lipgloss.NewStyle().Faint(true).Render(content)
}

func stageTick(key string, frame int) tea.Cmd {
	return tea.Tick(stageFrameInterval, func(time.Time) tea.Msg {
		return stageTickMsg{key: key, frame: frame}
	})
}
