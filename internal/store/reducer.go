package store

import "github.com/idilsaglam/items/internal/model"

// State is everything the views render.
// An empty Error means no error.
type State struct {
	Items   []model.Item
	Loading bool
	Error   string
}

// Reduce folds a into s. It never performs I/O and never writes into
// s.Items; a fresh slice is built whenever the items change.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case LoadingSet:
		s.Loading = a.Loading
		return s

	case FetchSucceeded:
		s.Items = a.Items
		return succeeded(s)

	case CreateSucceeded:
		items := make([]model.Item, len(s.Items), len(s.Items)+1)
		copy(items, s.Items)
		s.Items = append(items, a.Item)
		return succeeded(s)

	case UpdateSucceeded:
		items := make([]model.Item, len(s.Items))
		for i, it := range s.Items {
			if it.ID == a.Item.ID {
				it = a.Item
			}
			items[i] = it
		}
		s.Items = items
		return succeeded(s)

	case DeleteSucceeded:
		items := make([]model.Item, 0, len(s.Items))
		for _, it := range s.Items {
			if it.ID != a.ID {
				items = append(items, it)
			}
		}
		s.Items = items
		return succeeded(s)

	case Failed:
		s.Error = a.Message
		s.Loading = false
		return s
	}
	return s
}

func succeeded(s State) State {
	s.Loading = false
	s.Error = ""
	return s
}
