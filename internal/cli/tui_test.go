package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/archonhq/archon/pkg/model"
)

func pickerFixture() viewListModel {
	views := []*model.View{
		{ID: "v1", Name: "First", Kind: model.ViewKindFlow},
		{ID: "v2", Name: "Second", Kind: model.ViewKindArchimate},
		{ID: "v3", Name: "Third", Kind: model.ViewKindFlow},
	}
	return newViewListModel(views)
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

func TestViewListNavigation(t *testing.T) {
	m := pickerFixture()

	next, _ := m.Update(keyMsg("down"))
	m = next.(viewListModel)
	if m.Cursor != 1 {
		t.Errorf("cursor = %d after down, want 1", m.Cursor)
	}

	next, _ = m.Update(keyMsg("up"))
	m = next.(viewListModel)
	if m.Cursor != 0 {
		t.Errorf("cursor = %d after up, want 0", m.Cursor)
	}

	// Cursor stops at the edges.
	next, _ = m.Update(keyMsg("up"))
	m = next.(viewListModel)
	if m.Cursor != 0 {
		t.Errorf("cursor = %d at top edge, want 0", m.Cursor)
	}
}

func TestViewListSelect(t *testing.T) {
	m := pickerFixture()

	next, _ := m.Update(keyMsg("down"))
	m = next.(viewListModel)
	next, cmd := m.Update(keyMsg("enter"))
	m = next.(viewListModel)

	if m.Selected == nil || m.Selected.ID != "v2" {
		t.Errorf("Selected = %v, want v2", m.Selected)
	}
	if cmd == nil {
		t.Error("enter should quit the program")
	}
}

func TestViewListQuitWithoutSelection(t *testing.T) {
	m := pickerFixture()

	next, cmd := m.Update(keyMsg("q"))
	m = next.(viewListModel)

	if m.Selected != nil {
		t.Error("quit should not select a view")
	}
	if cmd == nil {
		t.Error("q should quit the program")
	}
}

func TestViewListView(t *testing.T) {
	m := pickerFixture()

	out := m.View()
	for _, name := range []string{"First", "Second", "Third"} {
		if !strings.Contains(out, name) {
			t.Errorf("View() output should contain %q", name)
		}
	}
}
