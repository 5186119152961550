package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"todoapp/internal/models"
)

// todoItem adapts a Todo to list.Item.
type todoItem struct {
	todo models.Todo
}

func (i todoItem) Title() string       { return i.todo.Name }
func (i todoItem) Description() string { return "" }
func (i todoItem) FilterValue() string { return i.todo.Name }

// itemDelegate renders each todo on a single line.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(todoItem)
	if !ok {
		return
	}

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+Checkbox(it.todo.Checked)+" "+Name(it.todo.Name, it.todo.Checked))
}

func toItems(todos []models.Todo) []list.Item {
	items := make([]list.Item, 0, len(todos))
	for _, todo := range todos {
		items = append(items, todoItem{todo: todo})
	}
	return items
}

func stats(todos []models.Todo) (done, pending int) {
	for _, todo := range todos {
		if todo.Checked {
			done++
		} else {
			pending++
		}
	}
	return
}
