package ui

import (
	"fmt"
	"strings"

	"github.com/idilsaglam/items/internal/model"
	"github.com/idilsaglam/items/internal/store"
)

// Listing is what an item list shows for a given state.
type Listing int

const (
	ShowLoading Listing = iota
	ShowError
	ShowEmpty
	ShowItems
)

const (
	LoadingText = "Loading items..."
	EmptyText   = "No items found. Create one to get started!"
)

// Pick chooses exactly one listing by priority: loading, error, empty, items.
func Pick(s store.State) Listing {
	switch {
	case s.Loading:
		return ShowLoading
	case s.Error != "":
		return ShowError
	case len(s.Items) == 0:
		return ShowEmpty
	}
	return ShowItems
}

func ErrorText(msg string) string { return "Error: " + msg }

func HeaderText(n int) string { return fmt.Sprintf("Items List (%d)", n) }

// ListingLines renders s as plain panel lines for the one-shot commands.
func ListingLines(s store.State) []string {
	t := Current()
	switch Pick(s) {
	case ShowLoading:
		return []string{C(t.Loading, LoadingText)}
	case ShowError:
		return []string{C(t.Error, ErrorText(s.Error))}
	case ShowEmpty:
		return []string{C(t.Muted, EmptyText)}
	}

	lines := []string{C(t.Title, HeaderText(len(s.Items))), ""}
	for i, it := range s.Items {
		lines = append(lines, itemLines(i, it)...)
	}
	return lines
}

func itemLines(i int, it model.Item) []string {
	t := Current()
	idx := fmt.Sprintf("%2d.", i+1)
	out := []string{fmt.Sprintf("%s %s %s", Dim(idx), C(t.Accent, t.Bullet), Truncate(it.Title, 80))}
	if desc := strings.TrimSpace(it.Description); desc != "" {
		for _, ln := range strings.Split(desc, "\n") {
			out = append(out, "      "+C(t.Muted, Truncate(ln, 76)))
		}
	}
	out = append(out, "      "+Dim("ID: "+it.ID.String()))
	return out
}
