package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/items/internal/model"
	"github.com/idilsaglam/items/internal/store"
)

const titleRequired = "Title is required"

type field int

const (
	fieldTitle field = iota
	fieldDescription
)

// Form edits a draft. With no record under edit it creates, otherwise it
// updates that record. It never waits for the server: the draft is reset as
// soon as a submit is accepted.
type Form struct {
	title       textinput.Model
	description textarea.Model
	field       field
	editing     *model.Item
	alert       string
}

func NewForm() Form {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Enter item title"
	ti.CharLimit = 200

	ta := textarea.New()
	ta.Placeholder = "Enter item description"
	ta.ShowLineNumbers = false
	ta.SetHeight(4)

	return Form{title: ti, description: ta}
}

// SetEditing switches mode. A record pre-fills the fields from a copy of it;
// nil switches to create mode with empty fields.
func (f *Form) SetEditing(it *model.Item) {
	f.alert = ""
	if it == nil {
		f.editing = nil
		f.reset()
		return
	}
	cp := *it
	f.editing = &cp
	f.title.SetValue(cp.Title)
	f.title.CursorEnd()
	f.description.SetValue(cp.Description)
}

// Editing reports the record under edit, if any.
func (f Form) Editing() *model.Item { return f.editing }

func (f Form) Draft() model.Draft {
	return model.Draft{Title: f.title.Value(), Description: f.description.Value()}
}

// Alert is the last validation message, shown until the next edit.
func (f Form) Alert() string { return f.alert }

// Submit validates the draft and returns the intent to dispatch.
// An empty or blank title is rejected and nothing is returned.
func (f *Form) Submit() (store.Intent, bool) {
	d := f.Draft()
	if strings.TrimSpace(d.Title) == "" {
		f.alert = titleRequired
		return nil, false
	}
	var in store.Intent
	if f.editing != nil {
		in = store.UpdateItem(f.editing.ID, d)
	} else {
		in = store.CreateItem(d)
	}
	f.alert = ""
	f.reset()
	return in, true
}

func (f *Form) reset() {
	f.title.SetValue("")
	f.description.Reset()
}

func (f *Form) Focus() tea.Cmd {
	f.field = fieldTitle
	f.description.Blur()
	return f.title.Focus()
}

func (f *Form) Blur() {
	f.title.Blur()
	f.description.Blur()
}

// OnTitle reports whether the title field has the cursor.
func (f Form) OnTitle() bool { return f.field == fieldTitle }

func (f *Form) SetWidth(w int) {
	if w < 20 {
		w = 20
	}
	f.title.Width = w - 4
	f.description.SetWidth(w)
}

func (f *Form) switchField() tea.Cmd {
	if f.field == fieldTitle {
		f.field = fieldDescription
		f.title.Blur()
		return f.description.Focus()
	}
	f.field = fieldTitle
	f.description.Blur()
	return f.title.Focus()
}

func (f Form) Update(msg tea.Msg) (Form, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "tab", "shift+tab":
			return f, f.switchField()
		}
		f.alert = ""
	}
	var cmd tea.Cmd
	if f.field == fieldTitle {
		f.title, cmd = f.title.Update(msg)
	} else {
		f.description, cmd = f.description.Update(msg)
	}
	return f, cmd
}

func (f Form) View() string {
	var b strings.Builder
	heading, action := "Create New Item", "Create"
	if f.editing != nil {
		heading, action = "Edit Item", "Update"
	}
	b.WriteString(titleStyle.Render(heading))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Title:"))
	b.WriteString("\n")
	b.WriteString(f.title.View())
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Description:"))
	b.WriteString("\n")
	b.WriteString(f.description.View())
	b.WriteString("\n\n")

	hint := "enter/ctrl+s " + strings.ToLower(action) + " • tab next field"
	if f.editing != nil {
		hint += " • esc cancel"
	} else {
		hint += " • esc back"
	}
	b.WriteString(helpStyle.Render(hint))
	if f.alert != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("✖ " + f.alert))
	}
	return b.String()
}
