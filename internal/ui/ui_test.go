package ui

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/idilsaglam/items/internal/model"
	"github.com/idilsaglam/items/internal/store"
)

func TestPick_Priority(t *testing.T) {
	tests := []struct {
		name  string
		state store.State
		want  Listing
	}{
		{"loading beats error", store.State{Loading: true, Error: "x"}, ShowLoading},
		{"error beats items", store.State{Error: "x", Items: []model.Item{{ID: "1"}}}, ShowError},
		{"empty", store.State{}, ShowEmpty},
		{"items", store.State{Items: []model.Item{{ID: "1"}}}, ShowItems},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Pick(tt.state))
		})
	}
}

func TestListingLines(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")

	assert.Equal(t, []string{LoadingText}, ListingLines(store.State{Loading: true, Error: "x"}))
	assert.Equal(t, []string{"Error: HTTP error! status: 500"}, ListingLines(store.State{Error: "HTTP error! status: 500"}))
	assert.Equal(t, []string{EmptyText}, ListingLines(store.State{}))

	lines := ListingLines(store.State{Items: []model.Item{
		{ID: "1", Title: "Buy milk", Description: "2L"},
		{ID: "2", Title: "Call mom"},
	}})
	joined := strings.Join(lines, "\n")
	assert.Equal(t, "Items List (2)", lines[0])
	assert.Contains(t, joined, " 1. - Buy milk")
	assert.Contains(t, joined, "2L")
	assert.Contains(t, joined, "ID: 2")
}

func TestFprintPanel(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")

	var buf bytes.Buffer
	FprintPanel(&buf, []string{"ab", "abcd"})
	assert.Equal(t, "+------+\n| ab   |\n| abcd |\n+------+\n", buf.String())
}

func TestOKFail(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")

	var out, errOut bytes.Buffer
	SetOutput(&out, &errOut)
	defer SetOutput(os.Stdout, os.Stderr)

	OK("created")
	Fail("nope")
	assert.Equal(t, "✔ created\n", out.String())
	assert.Equal(t, "✖ nope\n", errOut.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
}

func TestColorForcing(t *testing.T) {
	defer SetColorForcing(false, false)

	SetColorForcing(true, false)
	assert.Equal(t, fgRed+"x"+reset, C(fgRed, "x"))

	SetColorForcing(true, true)
	assert.Equal(t, "x", C(fgRed, "x"))
}

func TestPanel_WritesToOutput(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")

	var out bytes.Buffer
	SetOutput(&out, nil)
	defer SetOutput(os.Stdout, os.Stderr)

	Panel([]string{"ab"})
	assert.Equal(t, "+----+\n| ab |\n+----+\n", out.String())
}
