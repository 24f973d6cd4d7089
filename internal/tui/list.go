package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/items/internal/model"
	"github.com/idilsaglam/items/internal/store"
	"github.com/idilsaglam/items/internal/ui"
)

// listItem adapts model.Item to bubbles/list.Item
type listItem struct {
	item model.Item
}

// Implement list.Item interface
func (i listItem) Title() string       { return i.item.Title }
func (i listItem) Description() string { return i.item.Description }
func (i listItem) FilterValue() string { return i.item.Title }

// Custom delegate: title, first description line, id.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 3 }
func (d itemDelegate) Spacing() int                              { return 1 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	width := m.Width() - 4
	if width < 20 {
		width = 20
	}

	title := ui.Truncate(it.item.Title, width)
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render(">") + " "
		title = titleStyle.Render(title)
	}
	desc, _, _ := strings.Cut(it.item.Description, "\n")
	fmt.Fprintln(w, prefix+title)
	fmt.Fprintln(w, "  "+mutedStyle.Render(ui.Truncate(desc, width)))
	fmt.Fprint(w, "  "+helpStyle.Render("ID: "+it.item.ID.String()))
}

var (
	addBind    = key.NewBinding(key.WithKeys("a", "n"), key.WithHelp("a", "add"))
	editBind   = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	deleteBind = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	focusBind  = key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "form"))
)

// List renders the store state. It never changes the state itself; edit and
// delete requests are handled by the App.
type List struct {
	list    list.Model
	spinner spinner.Model
}

func NewList() List {
	l := list.New(nil, itemDelegate{}, 80, 20)
	l.Title = ui.HeaderText(0)
	l.SetShowTitle(true)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.SetStatusBarItemName("item", "items")

	// Extend help with Add / Edit / Delete bindings
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{addBind, editBind, deleteBind, focusBind} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{addBind, editBind, deleteBind, focusBind} }

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = loadingStyle

	return List{list: l, spinner: sp}
}

// SetItems replaces the rows, keeping server order.
func (l *List) SetItems(items []model.Item) tea.Cmd {
	rows := make([]list.Item, 0, len(items))
	for _, it := range items {
		rows = append(rows, listItem{item: it})
	}
	l.list.Title = ui.HeaderText(len(items))
	return l.list.SetItems(rows)
}

func (l *List) SetSize(w, h int) { l.list.SetSize(w, h) }

// Selected returns a copy of the highlighted row.
func (l List) Selected() (model.Item, bool) {
	it, ok := l.list.SelectedItem().(listItem)
	if !ok {
		return model.Item{}, false
	}
	return it.item, true
}

func (l List) Tick() tea.Msg { return l.spinner.Tick() }

func (l List) Update(msg tea.Msg) (List, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case spinner.TickMsg:
		l.spinner, cmd = l.spinner.Update(msg)
	default:
		l.list, cmd = l.list.Update(msg)
	}
	return l, cmd
}

// View shows exactly one of: loading, error, empty message, rows.
func (l List) View(s store.State) string {
	switch ui.Pick(s) {
	case ui.ShowLoading:
		return l.spinner.View() + " " + loadingStyle.Render(ui.LoadingText)
	case ui.ShowError:
		return errorBoxStyle.Render(ui.ErrorText(s.Error))
	case ui.ShowEmpty:
		return emptyStyle.Render(ui.EmptyText)
	}
	return l.list.View()
}
