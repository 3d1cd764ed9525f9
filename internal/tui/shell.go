// Package tui renders the Orbit dashboard: a command dock, the account list
// and a stage whose content is routed from the shared selection and view.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/jask/orbit/internal/config"
	"github.com/jask/orbit/internal/database/repository"
	"github.com/jask/orbit/internal/state"
)

// AccountService is the slice of service.AccountService the shell uses.
type AccountService interface {
	Save(ctx context.Context, a repository.Account) (repository.Account, bool, error)
	List(ctx context.Context) ([]repository.Account, error)
	Activity(ctx context.Context, accountID string, limit int) ([]repository.Activity, error)
	Recent(ctx context.Context, limit int) ([]repository.Activity, error)
}

// Maintenance covers the destructive actions offered in settings.
type Maintenance interface {
	Reset(ctx context.Context) error
}

// Deps are the collaborators a Shell is built from.
type Deps struct {
	Store       state.Store
	Accounts    AccountService
	Maintenance Maintenance
	Log         *logrus.Logger
	// SaveConfig persists settings changes. Nil disables persistence.
	SaveConfig func(config.Config) error
}

type focusArea int

const (
	focusDock focusArea = iota
	focusList
	focusStage
	focusCount
)

const (
	timelineLimit = 20
	recentLimit   = 8
)

// ---------------------------------------------------------------------------
// Bubble Tea messages
// ---------------------------------------------------------------------------

type accountsLoadedMsg struct {
	accounts []repository.Account
	err      error
}

type timelineMsg struct {
	accountID string
	items     []repository.Activity
	err       error
}

type recentMsg struct {
	items []repository.Activity
	err   error
}

// accountSavedMsg answers the modal whose seq it carries.
type accountSavedMsg struct {
	seq     int
	account repository.Account
	created bool
	err     error
}

type resetDoneMsg struct {
	err error
}

type configSavedMsg struct {
	view state.View
	err  error
}

// Shell is the root Bubble Tea model.
type Shell struct {
	ctx        context.Context
	cfg        config.Config
	store      state.Store
	accounts   AccountService
	maint      Maintenance
	log        *logrus.Logger
	saveConfig func(config.Config) error
	keys       *KeyRegistry

	width  int
	height int

	focus      focusArea
	dockCursor int
	listCursor int

	showAccountModal bool
	editingAccount   *repository.Account
	modal            *accountModal
	modalSeq         int
	palette          *commandPalette
	confirmReset     bool

	stage         stageContainer
	toasts        toastStack
	listeners     keyListeners
	releaseEscape func()

	timeline map[string][]repository.Activity
	recent   []repository.Activity
}

// New builds the shell. Keybinding overrides from cfg are applied here so a
// bad override fails before the terminal is taken over.
func New(ctx context.Context, cfg config.Config, deps Deps) (*Shell, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("tui: store is required")
	}
	if deps.Accounts == nil {
		return nil, fmt.Errorf("tui: account service is required")
	}
	keys := NewKeyRegistry()
	if err := keys.ApplyOverrides(cfg.Keybindings); err != nil {
		return nil, err
	}
	log := deps.Log
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	s := &Shell{
		ctx:        ctx,
		cfg:        cfg,
		store:      deps.Store,
		accounts:   deps.Accounts,
		maint:      deps.Maintenance,
		log:        log,
		saveConfig: deps.SaveConfig,
		keys:       keys,
		focus:      focusList,
		timeline:   make(map[string][]repository.Activity),
	}
	s.toasts.ttl = time.Duration(cfg.UI.ToastSeconds) * time.Second
	for i, v := range state.Views() {
		if v.View == s.store.ActiveView() {
			s.dockCursor = i
		}
	}
	return s, nil
}

func (s *Shell) Init() tea.Cmd {
	s.mount()
	return tea.Batch(s.loadAccounts(), s.loadRecent(), s.syncStage())
}

// mount acquires the global Escape listener. Mounting twice keeps one.
func (s *Shell) mount() {
	if s.releaseEscape != nil {
		return
	}
	s.releaseEscape = s.listeners.add(func(msg tea.KeyMsg) bool {
		if normalizeKeyName(msg.String()) != "esc" {
			return false
		}
		return s.handleEscape()
	})
}

// Close releases everything mount acquired.
func (s *Shell) Close() {
	if s.releaseEscape != nil {
		s.releaseEscape()
		s.releaseEscape = nil
	}
}

// ---------------------------------------------------------------------------
// Routing handlers
// ---------------------------------------------------------------------------

// selected resolves the stored selection. A stale id resolves to nil.
func (s *Shell) selected() *repository.Account {
	id := s.store.SelectedAccountID()
	if id == "" {
		return nil
	}
	a, ok := s.store.AccountByID(id)
	if !ok {
		return nil
	}
	return &a
}

func (s *Shell) selectAccount(a repository.Account) {
	s.log.WithField("account", a.ID).Debug("select account")
	s.store.SelectAccount(a.ID)
	s.store.SetActiveView(state.ViewAccounts)
	s.syncCursors()
}

func (s *Shell) changeView(v state.View) {
	s.log.WithField("view", v).Debug("change view")
	s.store.SetActiveView(v)
	if v != state.ViewAccounts {
		s.store.SelectAccount("")
	}
	s.syncCursors()
}

func (s *Shell) backToDashboard() {
	s.store.SelectAccount("")
}

// handleEscape clears the selection. It reports false when there was none.
func (s *Shell) handleEscape() bool {
	if s.store.SelectedAccountID() == "" {
		return false
	}
	s.store.SelectAccount("")
	return true
}

func (s *Shell) newAccount() {
	s.editingAccount = nil
	s.showAccountModal = true
	s.modal = newAccountModal(nil)
	s.modalSeq++
	s.modal.seq = s.modalSeq
}

func (s *Shell) editAccount(a repository.Account) {
	s.editingAccount = &a
	s.showAccountModal = true
	s.modal = newAccountModal(&a)
	s.modalSeq++
	s.modal.seq = s.modalSeq
}

func (s *Shell) closeModal() {
	s.showAccountModal = false
	s.editingAccount = nil
	s.modal = nil
}

func (s *Shell) accountSaved(a repository.Account, created bool) tea.Cmd {
	s.store.SetAccounts(upsertAccount(s.store.Accounts(), a))
	s.store.SelectAccount(a.ID)
	s.store.SetActiveView(state.ViewAccounts)
	s.closeModal()
	s.syncCursors()
	delete(s.timeline, a.ID)

	text := "Account saved"
	if created {
		text = "Account created"
	}
	return tea.Batch(
		s.toasts.push(toastSuccess, text),
		s.loadAccounts(),
		s.loadRecent(),
		s.loadTimeline(a.ID),
	)
}

// savedInBackground handles a save whose modal was dismissed before the reply
// arrived. The cache is refreshed but selection and any open modal are left alone.
func (s *Shell) savedInBackground(a repository.Account, created bool) tea.Cmd {
	s.log.WithField("account", a.ID).Debug("save finished after its modal closed")
	s.store.SetAccounts(upsertAccount(s.store.Accounts(), a))
	s.syncCursors()
	delete(s.timeline, a.ID)

	text := "Account saved"
	if created {
		text = "Account created"
	}
	return tea.Batch(
		s.toasts.push(toastSuccess, text),
		s.loadAccounts(),
		s.loadRecent(),
	)
}

func upsertAccount(list []repository.Account, a repository.Account) []repository.Account {
	out := make([]repository.Account, 0, len(list)+1)
	replaced := false
	for _, existing := range list {
		if existing.ID == a.ID {
			out = append(out, a)
			replaced = true
			continue
		}
		out = append(out, existing)
	}
	if !replaced {
		out = append(out, a)
	}
	return out
}

// syncCursors points the rail and list cursors at what is active.
func (s *Shell) syncCursors() {
	for i, v := range state.Views() {
		if v.View == s.store.ActiveView() {
			s.dockCursor = i
		}
	}
	id := s.store.SelectedAccountID()
	for i, a := range s.store.Accounts() {
		if a.ID == id {
			s.listCursor = i
		}
	}
	s.syncCursors()
}

func (s *Shell) clampListCursor() {
	n := len(s.store.Accounts())
	if s.listCursor >= n {
		s.listCursor = n - 1
	}
	if s.listCursor < 0 {
		s.listCursor = 0
	}
}

// syncStage starts the enter transition when the stage key changes and
// fetches the timeline for a newly opened account.
func (s *Shell) syncStage() tea.Cmd {
	sel := s.selected()
	key := StageKey(sel, s.store.ActiveView())
	if key == s.stage.key {
		return nil
	}
	cmds := []tea.Cmd{s.stage.enter(key)}
	if sel != nil {
		cmds = append(cmds, s.loadTimeline(sel.ID))
	}
	return tea.Batch(cmds...)
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

func (s *Shell) loadAccounts() tea.Cmd {
	ctx, svc := s.ctx, s.accounts
	return func() tea.Msg {
		accounts, err := svc.List(ctx)
		return accountsLoadedMsg{accounts: accounts, err: err}
	}
}

func (s *Shell) loadRecent() tea.Cmd {
	ctx, svc := s.ctx, s.accounts
	return func() tea.Msg {
		items, err := svc.Recent(ctx, recentLimit)
		return recentMsg{items: items, err: err}
	}
}

func (s *Shell) loadTimeline(id string) tea.Cmd {
	ctx, svc := s.ctx, s.accounts
	return func() tea.Msg {
		items, err := svc.Activity(ctx, id, timelineLimit)
		return timelineMsg{accountID: id, items: items, err: err}
	}
}

func (s *Shell) saveAccount(seq int, a repository.Account) tea.Cmd {
	ctx, svc := s.ctx, s.accounts
	return func() tea.Msg {
		saved, created, err := svc.Save(ctx, a)
		return accountSavedMsg{seq: seq, account: saved, created: created, err: err}
	}
}

func (s *Shell) resetData() tea.Cmd {
	ctx, maint := s.ctx, s.maint
	return func() tea.Msg {
		if maint == nil {
			return resetDoneMsg{err: fmt.Errorf("reset is not available")}
		}
		return resetDoneMsg{err: maint.Reset(ctx)}
	}
}

// cycleDefaultView advances ui.default_view and persists it.
func (s *Shell) cycleDefaultView() tea.Cmd {
	views := state.Views()
	current := state.ParseView(s.cfg.UI.DefaultView)
	next := views[0].View
	for i, v := range views {
		if v.View == current {
			next = views[(i+1)%len(views)].View
		}
	}
	s.cfg.UI.DefaultView = string(next)
	if s.saveConfig == nil {
		return func() tea.Msg { return configSavedMsg{view: next} }
	}
	cfg, save := s.cfg, s.saveConfig
	return func() tea.Msg {
		return configSavedMsg{view: next, err: save(cfg)}
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func (s *Shell) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := s.update(msg)
	return s, tea.Batch(cmd, s.syncStage())
}

func (s *Shell) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width, s.height = msg.Width, msg.Height
		return nil

	case tea.KeyMsg:
		return s.handleKey(msg)

	case accountsLoadedMsg:
		if msg.err != nil {
			return s.fail("load accounts", msg.err)
		}
		s.store.SetAccounts(msg.accounts)
		s.syncCursors()
		return nil

	case timelineMsg:
		if msg.err != nil {
			return s.fail("load activity", msg.err)
		}
		s.timeline[msg.accountID] = msg.items
		return nil

	case recentMsg:
		if msg.err != nil {
			return s.fail("load recent activity", msg.err)
		}
		s.recent = msg.items
		return nil

	case accountSavedMsg:
		owner := s.showAccountModal && s.modal != nil && s.modal.seq == msg.seq
		if msg.err != nil {
			s.log.WithError(msg.err).Warn("save account")
			if owner {
				s.modal.fail(msg.err)
				return nil
			}
			return s.toasts.push(toastError, "save account: "+msg.err.Error())
		}
		if !owner {
			return s.savedInBackground(msg.account, msg.created)
		}
		return s.accountSaved(msg.account, msg.created)

	case resetDoneMsg:
		if msg.err != nil {
			return s.fail("reset data", msg.err)
		}
		s.store.SelectAccount("")
		s.timeline = make(map[string][]repository.Activity)
		s.recent = nil
		return tea.Batch(s.toasts.push(toastWarning, "All portfolio data removed"), s.loadAccounts())

	case configSavedMsg:
		if msg.err != nil {
			return s.fail("save config", msg.err)
		}
		return s.toasts.push(toastInfo, "Default view: "+msg.view.Label())

	case toastExpiredMsg:
		s.toasts.expire(msg.id)
		return nil

	case stageTickMsg:
		return s.stage.advance(msg)
	}
	return nil
}

func (s *Shell) fail(op string, err error) tea.Cmd {
	s.log.WithError(err).Error(op)
	return s.toasts.push(toastError, op+": "+err.Error())
}

func (s *Shell) handleKey(msg tea.KeyMsg) tea.Cmd {
	keyName := normalizeKeyName(msg.String())
	if keyName == "ctrl+c" {
		return tea.Quit
	}

	switch {
	case s.confirmReset:
		return s.updateConfirm(keyName)
	case s.showAccountModal && s.modal != nil:
		return s.updateModal(msg, keyName)
	case s.palette != nil:
		return s.updatePalette(msg, keyName)
	}

	if s.listeners.dispatch(msg) {
		return nil
	}

	scope := s.focusScope()
	b := s.keys.Lookup(keyName, scope)
	if b == nil {
		return nil
	}
	return s.runAction(b.Action, keyName, scope)
}

func (s *Shell) focusScope() string {
	switch s.focus {
	case focusDock:
		return scopeDock
	case focusList:
		return scopeList
	}
	switch StageFor(s.selected(), s.store.ActiveView()) {
	case StageDeepDive:
		return scopeDeepDive
	case StageSettings:
		return scopeSettings
	default:
		return scopeStage
	}
}

func (s *Shell) runAction(action Action, keyName, scope string) tea.Cmd {
	switch action {
	case actionQuit:
		return tea.Quit
	case actionNextFocus:
		s.focus = (s.focus + 1) % focusCount
	case actionPrevFocus:
		s.focus = (s.focus + focusCount - 1) % focusCount
	case actionPalette:
		s.palette = newCommandPalette(s.store.Accounts())
		return textinputBlink()
	case actionGoOverview:
		s.changeView(state.ViewOverview)
	case actionGoAccounts:
		s.changeView(state.ViewAccounts)
	case actionGoAnalytics:
		s.changeView(state.ViewAnalytics)
	case actionGoSettings:
		s.changeView(state.ViewSettings)
	case actionNewAccount:
		s.newAccount()
		return textinputBlink()
	case actionNavigate:
		delta := 1
		if keyName == "k" || keyName == "up" {
			delta = -1
		}
		if scope == scopeDock {
			n := len(state.Views())
			s.dockCursor = (s.dockCursor + delta + n) % n
		} else {
			s.listCursor += delta
			s.syncCursors()
		}
	case actionSelect:
		if scope == scopeDock {
			s.changeView(state.Views()[s.dockCursor].View)
			return nil
		}
		accounts := s.store.Accounts()
		if s.listCursor < len(accounts) {
			s.selectAccount(accounts[s.listCursor])
		}
	case actionEdit:
		if sel := s.selected(); sel != nil {
			s.editAccount(*sel)
			return textinputBlink()
		}
	case actionBack:
		s.backToDashboard()
	case actionDefaultView:
		return s.cycleDefaultView()
	case actionReset:
		s.confirmReset = true
	}
	return nil
}

func (s *Shell) updateModal(msg tea.KeyMsg, keyName string) tea.Cmd {
	m := s.modal
	b := s.keys.LookupExact(keyName, scopeModal)
	if b == nil {
		return m.HandleKey(msg)
	}
	switch b.Action {
	case actionClose:
		s.closeModal()
	case actionNextField:
		m.nextField()
	case actionPrevField:
		m.prevField()
	case actionCycle:
		if m.focus != fieldTier {
			return m.HandleKey(msg)
		}
		if keyName == "left" {
			m.cycleTier(-1)
		} else {
			m.cycleTier(1)
		}
	case actionSave:
		if m.saving {
			return nil
		}
		a, err := m.Account()
		if err != nil {
			m.fail(err)
			return nil
		}
		m.saving = true
		m.err = ""
		return s.saveAccount(m.seq, a)
	}
	return nil
}

func (s *Shell) updatePalette(msg tea.KeyMsg, keyName string) tea.Cmd {
	p := s.palette
	b := s.keys.LookupExact(keyName, scopePalette)
	if b == nil {
		return p.HandleKey(msg)
	}
	switch b.Action {
	case actionClose:
		s.palette = nil
	case actionNavigate:
		if keyName == "up" || keyName == "ctrl+p" {
			p.Move(-1)
		} else {
			p.Move(1)
		}
	case actionSelect:
		res := p.Run()
		if res.Action != paletteActionRun {
			return nil
		}
		s.palette = nil
		return s.runPaletteItem(res.Item)
	}
	return nil
}

func (s *Shell) runPaletteItem(it paletteItem) tea.Cmd {
	switch it.Kind {
	case paletteView:
		s.changeView(it.View)
	case paletteAccount:
		if a, ok := s.store.AccountByID(it.AccountID); ok {
			s.selectAccount(a)
		}
	case paletteCreate:
		s.newAccount()
		return textinputBlink()
	}
	return nil
}

func (s *Shell) updateConfirm(keyName string) tea.Cmd {
	b := s.keys.LookupExact(keyName, scopeConfirm)
	if b == nil {
		return nil
	}
	s.confirmReset = false
	if b.Action == actionConfirm {
		return s.resetData()
	}
	return nil
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

const (
	dockWidth = 18
	listWidth = 34
)

func (s *Shell) View() string {
	if s.width == 0 || s.height == 0 {
		return "Loading Orbit…"
	}
	bodyHeight := max(6, s.height-1)
	stageWidth := max(20, s.width-dockWidth-listWidth)

	sel := s.selected()
	view := s.store.ActiveView()

	dock := renderDock(view, s.dockCursor, s.focus == focusDock, dockWidth, bodyHeight)
	list := renderAccountList(s.store.Accounts(), s.store.SelectedAccountID(), s.listCursor,
		s.focus == focusList, s.cfg.UI.CurrencySymbol, listWidth, bodyHeight)
	stage := s.renderStage(sel, view, stageWidth, bodyHeight)

	body := lipgloss.JoinHorizontal(lipgloss.Top, dock, list, stage)
	footer := truncate(renderHints(s.keys, s.footerScopes()...), s.width)
	out := lipgloss.JoinVertical(lipgloss.Left, body, footer)

	if t := s.toasts.view(40); t != "" {
		out = overlayAt(out, t, max(0, s.width-lipgloss.Width(t)-1), 1, s.width, s.height)
	}
	switch {
	case s.confirmReset:
		out = overlayCenter(out, renderConfirm(s.keys), s.width, s.height)
	case s.showAccountModal && s.modal != nil:
		out = overlayCenter(out, s.modal.View(min(56, s.width-8), s.keys), s.width, s.height)
	case s.palette != nil:
		out = overlayCenter(out, s.palette.View(min(56, s.width-8), s.keys), s.width, s.height)
	}
	return out
}

func (s *Shell) footerScopes() []string {
	switch {
	case s.confirmReset:
		return []string{scopeConfirm}
	case s.showAccountModal:
		return []string{scopeModal}
	case s.palette != nil:
		return []string{scopePalette}
	}
	return []string{s.focusScope(), scopeGlobal}
}

func (s *Shell) renderStage(sel *repository.Account, view state.View, width, height int) string {
	inner := width - 4
	header := titleStyle.Render(truncate(Title(sel, view), inner-14))
	if sel != nil {
		header += " " + badgeStyle.Foreground(tierColor(sel.Tier)).Render(sel.Tier)
	}

	var content string
	switch StageFor(sel, view) {
	case StageDeepDive:
		items, loaded := s.timeline[sel.ID]
		content = renderDeepDive(*sel, items, loaded, s.cfg.UI.CurrencySymbol, inner)
	case StageAnalytics:
		content = renderAnalytics(s.store.Accounts(), s.cfg.UI.CurrencySymbol, inner)
	case StageSettings:
		content = renderSettings(s.cfg, s.keys, inner)
	default:
		content = renderPulse(s.store.Accounts(), s.recent, s.cfg.UI.CurrencySymbol, inner)
	}
	body := header + "\n\n" + s.stage.render(content)
	return pane(s.focus == focusStage).
		Width(width - 2).
		Height(height - 2).
		MaxHeight(height).
		Render(body)
}

func renderConfirm(keys *KeyRegistry) string {
	body := strings.Join([]string{
		titleStyle.Render("Reset all data?"),
		"",
		"Every account and its activity will be deleted.",
		errorStyle.Render("This cannot be undone."),
		"",
		renderHints(keys, scopeConfirm),
	}, "\n")
	return overlayStyle.BorderForeground(colorError).Render(body)
}
