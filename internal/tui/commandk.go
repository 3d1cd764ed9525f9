package tui

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/orbit/internal/database/repository"
	"github.com/jask/orbit/internal/state"
)

type paletteKind int

const (
	paletteView paletteKind = iota
	paletteAccount
	paletteCreate
)

type paletteItem struct {
	Kind      paletteKind
	Label     string
	Section   string
	Meta      string
	View      state.View
	AccountID string
}

type paletteAction int

const (
	paletteActionNone paletteAction = iota
	paletteActionRun
)

type paletteResult struct {
	Action paletteAction
	Item   paletteItem
}

type scoredPaletteItem struct {
	item    paletteItem
	score   int // lower ranks first
	section int // position of the item's section in the unfiltered list
}

// commandPalette is the Command-K launcher over views, accounts and actions.
type commandPalette struct {
	input    textinput.Model
	items    []paletteItem
	filtered []paletteItem
	cursor   int
}

const paletteMaxRows = 10

func newCommandPalette(accounts []repository.Account) *commandPalette {
	in := textinput.New()
	in.Placeholder = "Jump to a view or account…"
	in.Prompt = "› "
	in.CharLimit = 64
	in.Focus()

	p := &commandPalette{input: in}
	p.items = paletteItems(accounts)
	p.rebuildFiltered()
	return p
}

func paletteItems(accounts []repository.Account) []paletteItem {
	items := make([]paletteItem, 0, len(accounts)+5)
	for _, v := range state.Views() {
		items = append(items, paletteItem{Kind: paletteView, Label: v.Label, Section: "Views", View: v.View})
	}
	for _, a := range accounts {
		items = append(items, paletteItem{
			Kind:      paletteAccount,
			Label:     a.Name,
			Section:   "Accounts",
			Meta:      a.Tier,
			AccountID: a.ID,
		})
	}
	items = append(items, paletteItem{Kind: paletteCreate, Label: "Create account", Section: "Actions"})
	return items
}

func (p *commandPalette) Query() string { return strings.TrimSpace(p.input.Value()) }

func (p *commandPalette) SetQuery(q string) {
	p.input.SetValue(q)
	p.rebuildFiltered()
}

func (p *commandPalette) Filtered() []paletteItem { return p.filtered }

// HandleKey applies a key that is not a palette binding to the text input.
func (p *commandPalette) HandleKey(msg tea.KeyMsg) tea.Cmd {
	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != before {
		p.cursor = 0
		p.rebuildFiltered()
	}
	return cmd
}

func (p *commandPalette) Move(delta int) {
	if len(p.filtered) == 0 {
		p.cursor = 0
		return
	}
	p.cursor = (p.cursor + delta + len(p.filtered)) % len(p.filtered)
}

func (p *commandPalette) Run() paletteResult {
	if len(p.filtered) == 0 {
		return paletteResult{Action: paletteActionNone}
	}
	return paletteResult{Action: paletteActionRun, Item: p.filtered[p.cursor]}
}

// rebuildFiltered keeps each section contiguous so its header renders once.
// Sections are ordered by their best match, ties keeping the default order,
// and items are ranked by score inside their section.
func (p *commandPalette) rebuildFiltered() {
	q := strings.ToLower(p.Query())
	sectionIndex := map[string]int{}
	best := map[string]int{}
	scored := make([]scoredPaletteItem, 0, len(p.items))
	for _, it := range p.items {
		if _, seen := sectionIndex[it.Section]; !seen {
			sectionIndex[it.Section] = len(sectionIndex)
		}
		score, ok := paletteScore(it.Label, q)
		if !ok {
			continue
		}
		if b, seen := best[it.Section]; !seen || score < b {
			best[it.Section] = score
		}
		scored = append(scored, scoredPaletteItem{item: it, score: score, section: sectionIndex[it.Section]})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.section != b.section {
			ba, bb := best[a.item.Section], best[b.item.Section]
			if ba != bb {
				return ba < bb
			}
			return a.section < b.section
		}
		return a.score < b.score
	})
	out := make([]paletteItem, 0, len(scored))
	for _, s := range scored {
		out = append(out, s.item)
	}
	p.filtered = out
	if p.cursor >= len(out) {
		p.cursor = max(0, len(out)-1)
	}
}

// paletteScore ranks label against an already lowercased query: prefix 0,
// word prefix 1, substring 2, then 3+distance for the closest word within
// the typo budget.
func paletteScore(label, q string) (int, bool) {
	if q == "" {
		return 0, true
	}
	l := strings.ToLower(label)
	if strings.HasPrefix(l, q) {
		return 0, true
	}
	words := strings.Fields(l)
	for _, w := range words {
		if strings.HasPrefix(w, q) {
			return 1, true
		}
	}
	if strings.Contains(l, q) {
		return 2, true
	}
	budget := 2
	if len([]rune(q)) <= 4 {
		budget = 1
	}
	best := -1
	for _, w := range words {
		d := levenshtein.ComputeDistance(w, q)
		if d <= budget && (best < 0 || d < best) {
			best = d
		}
	}
	if best < 0 {
		return 0, false
	}
	return 3 + best, true
}

func (p *commandPalette) View(width int, keys *KeyRegistry) string {
	inner := max(30, width)
	p.input.Width = inner - 4

	lines := []string{titleStyle.Render("Go to…"), p.input.View(), ""}
	if len(p.filtered) == 0 {
		lines = append(lines, mutedStyle.Render("No matches"))
	}

	start := 0
	if p.cursor >= paletteMaxRows {
		start = p.cursor - paletteMaxRows + 1
	}
	section := ""
	for i := start; i < len(p.filtered) && i < start+paletteMaxRows; i++ {
		it := p.filtered[i]
		if it.Section != section {
			section = it.Section
			lines = append(lines, sectionStyle.MarginTop(0).Render(section))
		}
		label := it.Label
		if it.Meta != "" {
			label += mutedStyle.Render(" · " + it.Meta)
		}
		if i == p.cursor {
			lines = append(lines, cursorStyle.Render("▸ ")+label)
		} else {
			lines = append(lines, "  "+label)
		}
	}
	lines = append(lines, "", renderHints(keys, scopePalette))

	body := lipgloss.NewStyle().Width(inner).Render(strings.Join(lines, "\n"))
	return overlayStyle.Render(body)
}
