package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/orbit/internal/database/repository"
	"github.com/jask/orbit/internal/service"
)

type modalField int

const (
	fieldName modalField = iota
	fieldTier
	fieldIndustry
	fieldOwner
	fieldARR
	fieldHealth
	fieldCount
)

var modalFieldLabels = [fieldCount]string{"Name", "Tier", "Industry", "Owner", "ARR", "Health"}

// accountModal edits one account. editing is nil when creating.
type accountModal struct {
	editing *repository.Account
	inputs  [fieldCount]textinput.Model
	tier    int
	focus   modalField
	err     string
	saving  bool
	seq     int // identifies this modal instance in save replies
}

func newAccountModal(editing *repository.Account) *accountModal {
	m := &accountModal{editing: editing}
	for i := range m.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 64
		m.inputs[i] = in
	}
	m.inputs[fieldName].CharLimit = service.MaxNameLength
	m.inputs[fieldARR].Placeholder = "120000"
	m.inputs[fieldHealth].Placeholder = "0-100"
	m.inputs[fieldHealth].CharLimit = 3

	if editing != nil {
		m.inputs[fieldName].SetValue(editing.Name)
		m.inputs[fieldIndustry].SetValue(editing.Industry)
		m.inputs[fieldOwner].SetValue(editing.Owner)
		m.inputs[fieldARR].SetValue(formatPlain(editing.ARRCents))
		m.inputs[fieldHealth].SetValue(strconv.Itoa(editing.Health))
		for i, t := range repository.Tiers() {
			if t == editing.Tier {
				m.tier = i
			}
		}
	} else {
		m.inputs[fieldHealth].SetValue("70")
		m.tier = len(repository.Tiers()) - 1
	}
	m.setFocus(fieldName)
	return m
}

func (m *accountModal) creating() bool { return m.editing == nil }

func (m *accountModal) setFocus(f modalField) {
	m.focus = (f + fieldCount) % fieldCount
	for i := range m.inputs {
		if modalField(i) == m.focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m *accountModal) nextField() { m.setFocus(m.focus + 1) }
func (m *accountModal) prevField() { m.setFocus(m.focus - 1) }

func (m *accountModal) cycleTier(delta int) {
	n := len(repository.Tiers())
	m.tier = (m.tier + delta + n) % n
}

// HandleKey feeds a non-binding key to the focused input.
func (m *accountModal) HandleKey(msg tea.KeyMsg) tea.Cmd {
	if m.focus == fieldTier {
		switch msg.String() {
		case "h":
			m.cycleTier(-1)
		case "l", " ":
			m.cycleTier(1)
		}
		return nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.err = ""
	return cmd
}

// Account builds the account from the form. Numeric parse errors are
// reported here; everything else is left to service validation.
func (m *accountModal) Account() (repository.Account, error) {
	var a repository.Account
	if m.editing != nil {
		a = *m.editing
	}
	a.Name = m.inputs[fieldName].Value()
	a.Tier = repository.Tiers()[m.tier]
	a.Industry = m.inputs[fieldIndustry].Value()
	a.Owner = m.inputs[fieldOwner].Value()

	cents, err := service.ParseMoney(m.inputs[fieldARR].Value())
	if err != nil {
		return a, fmt.Errorf("ARR: %w", err)
	}
	a.ARRCents = cents

	health, err := strconv.Atoi(strings.TrimSpace(m.inputs[fieldHealth].Value()))
	if err != nil {
		return a, service.ErrHealthRange
	}
	a.Health = health
	return a, service.Validate(service.Normalize(a))
}

// fieldFor points the cursor at the input an error belongs to.
func fieldFor(err error) modalField {
	switch {
	case errors.Is(err, service.ErrNameRequired), errors.Is(err, service.ErrNameTooLong):
		return fieldName
	case errors.Is(err, service.ErrInvalidTier):
		return fieldTier
	case errors.Is(err, service.ErrNegativeARR), errors.Is(err, service.ErrInvalidAmount):
		return fieldARR
	case errors.Is(err, service.ErrHealthRange):
		return fieldHealth
	default:
		return -1
	}
}

func (m *accountModal) fail(err error) {
	m.saving = false
	m.err = err.Error()
	if f := fieldFor(err); f >= 0 {
		m.setFocus(f)
	}
}

func (m *accountModal) View(width int, keys *KeyRegistry) string {
	inner := max(40, width)
	title := "New account"
	if !m.creating() {
		title = "Edit " + m.editing.Name
	}
	lines := []string{titleStyle.Render(truncate(title, inner)), ""}

	labelWidth := 10
	for i := modalField(0); i < fieldCount; i++ {
		label := subtleStyle.Width(labelWidth).Render(modalFieldLabels[i])
		marker := "  "
		if i == m.focus {
			marker = cursorStyle.Render("▸ ")
			label = accentStyle.Width(labelWidth).Render(modalFieldLabels[i])
		}
		var value string
		if i == fieldTier {
			tier := repository.Tiers()[m.tier]
			value = lipgloss.NewStyle().Foreground(tierColor(tier)).Render("‹ " + tier + " ›")
		} else {
			m.inputs[i].Width = inner - labelWidth - 4
			value = m.inputs[i].View()
		}
		lines = append(lines, marker+label+value)
	}

	lines = append(lines, "")
	if m.err != "" {
		lines = append(lines, errorStyle.Render(truncate(m.err, inner)))
	} else if m.saving {
		lines = append(lines, mutedStyle.Render("Saving…"))
	} else {
		lines = append(lines, "")
	}
	lines = append(lines, renderHints(keys, scopeModal))

	body := lipgloss.NewStyle().Width(inner).Render(strings.Join(lines, "\n"))
	return overlayStyle.Render(body)
}

// formatPlain renders cents as an editable amount without symbol or grouping.
func formatPlain(cents int64) string {
	whole, frac := cents/100, cents%100
	if frac == 0 {
		return strconv.FormatInt(whole, 10)
	}
	return fmt.Sprintf("%d.%02d", whole, frac)
}

func textinputBlink() tea.Cmd { return textinput.Blink }
