// Package tui is the interactive items client: a form and a list on top of
// the store, with every network call made by the effect runner.
package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/idilsaglam/items/internal/effects"
	"github.com/idilsaglam/items/internal/model"
	"github.com/idilsaglam/items/internal/store"
	"github.com/idilsaglam/items/internal/ui"
)

type focus int

const (
	focusList focus = iota
	focusForm
)

// factMsg carries the outcome of one effect back onto the update loop.
type factMsg struct {
	fact store.Fact
}

// Model is the app shell. Apart from focus and the delete prompt, the only
// state it owns is the record under edit.
type Model struct {
	ctx     context.Context
	store   *store.Store
	runner  *effects.Runner
	log     *zap.Logger
	apiBase string

	form    Form
	list    List
	editing *model.Item
	focus   focus

	pendingDelete *model.Item

	width, height int
}

type Option func(*Model)

func WithLogger(l *zap.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.log = l
		}
	}
}

// WithAPIBase sets the URL shown in the footer.
func WithAPIBase(u string) Option {
	return func(m *Model) { m.apiBase = u }
}

func New(ctx context.Context, st *store.Store, runner *effects.Runner, opts ...Option) Model {
	m := Model{
		ctx:    ctx,
		store:  st,
		runner: runner,
		log:    zap.NewNop(),
		form:   NewForm(),
		list:   NewList(),
	}
	for _, o := range opts {
		o(&m)
	}
	m.list.SetItems(st.State().Items)
	return m
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(ctx context.Context, st *store.Store, runner *effects.Runner, opts ...Option) error {
	p := tea.NewProgram(New(ctx, st, runner, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init fetches the items once; there is no polling.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.dispatch(store.FetchItems()), m.list.Tick)
}

// dispatch marks the store loading, hands in to the store, and returns the
// command that performs the call. Each command runs on its own goroutine, so
// concurrent intents each get their own call.
func (m Model) dispatch(in store.Intent) tea.Cmd {
	m.store.Dispatch(store.SetLoading(true))
	m.store.Dispatch(in)
	m.log.Debug("intent", zap.String("action", string(in.Type())))

	ctx, runner := m.ctx, m.runner
	return func() tea.Msg {
		return factMsg{fact: runner.Handle(ctx, in)}
	}
}

func (m *Model) startEdit(it model.Item) tea.Cmd {
	m.editing = &it
	m.form.SetEditing(m.editing)
	m.focus = focusForm
	return m.form.Focus()
}

func (m *Model) cancelEdit() {
	m.editing = nil
	m.form.SetEditing(nil)
}

func (m *Model) toList() {
	m.focus = focusList
	m.form.Blur()
}

// Editing is the record under edit, if any.
func (m Model) Editing() *model.Item { return m.editing }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.form.SetWidth(msg.Width - 6)
		listHeight := msg.Height - 22
		if listHeight < 5 {
			listHeight = 5
		}
		m.list.SetSize(msg.Width-6, listHeight)
		return m, nil

	case factMsg:
		s := m.store.Dispatch(msg.fact)
		return m, m.list.SetItems(s.Items)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.pendingDelete != nil {
			return m.updateConfirm(msg)
		}
		if m.focus == focusForm {
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	it := *m.pendingDelete
	m.pendingDelete = nil
	switch strings.ToLower(msg.String()) {
	case "y":
		return m, m.dispatch(store.DeleteItem(it.ID))
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.editing != nil {
			m.cancelEdit()
		}
		m.toList()
		return m, nil

	case "ctrl+s":
		return m.submit()

	case "enter":
		if m.form.OnTitle() {
			return m.submit()
		}
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

// submit dispatches the form's intent. An accepted edit clears the
// selection right away, before the call completes.
func (m Model) submit() (tea.Model, tea.Cmd) {
	in, ok := m.form.Submit()
	if !ok {
		return m, nil
	}
	cmd := m.dispatch(in)
	if m.editing != nil {
		m.cancelEdit()
		m.toList()
	}
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "a", "n":
		if m.editing != nil {
			m.cancelEdit()
		}
		m.focus = focusForm
		return m, m.form.Focus()

	case "tab":
		m.focus = focusForm
		return m, m.form.Focus()

	case "e":
		if it, ok := m.selected(); ok {
			return m, m.startEdit(it)
		}
		return m, nil

	case "d":
		if it, ok := m.selected(); ok {
			m.pendingDelete = &it
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// selected is the highlighted row, but only while the rows are on screen.
func (m Model) selected() (model.Item, bool) {
	if ui.Pick(m.store.State()) != ui.ShowItems {
		return model.Item{}, false
	}
	return m.list.Selected()
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Items"))
	b.WriteString("  ")
	b.WriteString(subtitleStyle.Render("CRUD client • state store with effect runner"))
	b.WriteString("\n")

	b.WriteString(pane(m.form.View(), m.focus == focusForm, m.width))
	b.WriteString("\n")
	b.WriteString(pane(m.list.View(m.store.State()), m.focus == focusList, m.width))
	b.WriteString("\n")

	if m.pendingDelete != nil {
		b.WriteString(errorStyle.Render("Delete \"" + m.pendingDelete.Title + "\"? Are you sure? (y/n)"))
		b.WriteString("\n")
	}
	if m.apiBase != "" {
		b.WriteString(helpStyle.Render("API backend: ") + accentStyle.Render(m.apiBase))
	}
	return b.String()
}
