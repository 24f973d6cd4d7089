package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is a server-assigned item identifier.
// Servers hand out either numbers or strings; both decode into ID.
type ID string

func (id ID) String() string { return string(id) }

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Item is a record the server has confirmed.
type Item struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Draft is the editable part of an Item; it is the body of create and update calls.
type Draft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Draft returns the editable fields of it.
func (it Item) Draft() Draft {
	return Draft{Title: it.Title, Description: it.Description}
}
