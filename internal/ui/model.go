// Package ui renders the todo list in the terminal and turns key presses
// into calls on the client state store.
package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"todoapp/internal/client"
	"todoapp/internal/models"
	"todoapp/internal/state"
)

// Options configures the UI model.
type Options struct {
	// Timeout bounds each service call; zero uses client.DefaultTimeout.
	Timeout time.Duration
}

// editSession is the single open edit form.
type editSession struct {
	id      string
	pending bool
}

// viewState holds the transient state that belongs to the views rather than
// to the todo list itself.
type viewState struct {
	loading bool
	adding  bool
	edit    *editSession

	// focusID is the todo whose row regains the cursor when the edit form closes.
	focusID string

	width  int
	height int
}

// Model is the Bubble Tea model for the todo UI.
type Model struct {
	store   *state.Store
	timeout time.Duration

	list  list.Model
	input textinput.Model
	view  viewState
}

type (
	loadedMsg  struct{ err error }
	mutatedMsg struct{ err error }
	renamedMsg struct {
		id  string
		err error
	}
)

var (
	addKey     = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editKey    = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	toggleKey  = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	deleteKey  = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	dismissKey = key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss error"))
	reloadKey  = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload"))
	quitKey    = key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit"))
)

// New creates the UI model over store. The first load starts in Init.
func New(store *state.Store, opts Options) Model {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = client.DefaultTimeout
	}

	l := list.New(nil, itemDelegate{}, 80, 20)
	l.Title = "My Todo App"
	l.SetShowHelp(true)
	l.SetShowStatusBar(true)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.SetStatusBarItemName("todo", "todos")
	bindings := func() []key.Binding {
		return []key.Binding{addKey, editKey, toggleKey, deleteKey, dismissKey, reloadKey, quitKey}
	}
	l.AdditionalShortHelpKeys = bindings
	l.AdditionalFullHelpKeys = bindings

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = models.NameMaxLength

	return Model{
		store:   store,
		timeout: timeout,
		list:    l,
		input:   ti,
		view:    viewState{loading: true, width: 80, height: 24},
	}
}

// Run starts the UI in the alternate screen and blocks until it exits.
func Run(store *state.Store, opts Options) error {
	_, err := tea.NewProgram(New(store, opts), tea.WithAltScreen()).Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.view.width, m.view.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case loadedMsg:
		m.view.loading = false
		m.refresh()
		return m, nil

	case mutatedMsg:
		m.refresh()
		return m, nil

	case renamedMsg:
		m.refresh()
		if m.view.edit == nil || m.view.edit.id != msg.id {
			return m, nil
		}
		if msg.err != nil {
			m.view.edit.pending = false
			return m, nil
		}
		m.closeEdit()
		return m, nil

	case tea.KeyMsg:
		if m.view.loading {
			if key.Matches(msg, quitKey) {
				return m, tea.Quit
			}
			return m, nil
		}
		if m.view.adding {
			return m.updateAddForm(msg)
		}
		if m.view.edit != nil {
			return m.updateEditForm(msg)
		}
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, quitKey), msg.Type == tea.KeyEsc:
		return m, tea.Quit

	case key.Matches(msg, addKey):
		m.view.adding = true
		m.input.SetValue("")
		m.input.Placeholder = "New todo..."
		return m, m.input.Focus()

	case key.Matches(msg, editKey):
		todo, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.view.edit = &editSession{id: todo.ID}
		m.view.focusID = todo.ID
		m.input.SetValue(todo.Name)
		m.input.CursorEnd()
		m.input.Placeholder = "Edit todo..."
		return m, m.input.Focus()

	case key.Matches(msg, toggleKey):
		if todo, ok := m.selected(); ok {
			return m, m.mutateCmd(func(ctx context.Context) error { return m.store.Toggle(ctx, todo.ID) })
		}
		return m, nil

	case key.Matches(msg, deleteKey):
		if todo, ok := m.selected(); ok {
			return m, m.mutateCmd(func(ctx context.Context) error { return m.store.Delete(ctx, todo.ID) })
		}
		return m, nil

	case key.Matches(msg, dismissKey):
		m.store.DismissError()
		return m, nil

	case key.Matches(msg, reloadKey):
		m.view.loading = true
		return m, m.loadCmd()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAddForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		name := m.input.Value()
		m.input.SetValue("")
		m.input.Blur()
		m.view.adding = false
		return m, m.mutateCmd(func(ctx context.Context) error { return m.store.Add(ctx, name) })
	case tea.KeyEsc:
		m.input.SetValue("")
		m.input.Blur()
		m.view.adding = false
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateEditForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.view.edit.pending {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		// copy so the value in the returned model is the one marked pending
		edit := *m.view.edit
		edit.pending = true
		m.view.edit = &edit
		return m, m.renameCmd(edit.id, m.input.Value())
	case tea.KeyEsc:
		m.closeEdit()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// closeEdit ends the edit session and puts the cursor back on the row that
// opened it.
func (m *Model) closeEdit() {
	m.view.edit = nil
	m.input.SetValue("")
	m.input.Blur()
	m.focus(m.view.focusID)
	m.view.focusID = ""
}

func (m *Model) focus(id string) {
	for i, item := range m.list.Items() {
		if it, ok := item.(todoItem); ok && it.todo.ID == id {
			m.list.Select(i)
			return
		}
	}
}

func (m Model) selected() (models.Todo, bool) {
	it, ok := m.list.SelectedItem().(todoItem)
	if !ok {
		return models.Todo{}, false
	}
	return it.todo, true
}

// refresh copies the store's list into the list view, keeping the cursor
// on the same todo when it still exists.
func (m *Model) refresh() {
	current, hadSelection := m.selected()
	index := m.list.Index()

	todos := m.store.Todos()
	m.list.SetItems(toItems(todos))
	done, pending := stats(todos)
	m.list.Title = titleStyle.Render("My Todo App") + "   " + Stats(done, pending)

	if hadSelection {
		for i, todo := range todos {
			if todo.ID == current.ID {
				m.list.Select(i)
				return
			}
		}
	}
	if n := len(todos); n > 0 {
		if index >= n {
			index = n - 1
		}
		m.list.Select(index)
	}
}

func (m *Model) resize() {
	listHeight := m.view.height - 4
	if m.view.adding || m.view.edit != nil {
		listHeight -= 3
	}
	if m.store.Err() != "" {
		listHeight -= 3
	}
	if listHeight < 1 {
		listHeight = 1
	}
	m.list.SetSize(m.view.width-4, listHeight)
}

func (m Model) loadCmd() tea.Cmd {
	store, timeout := m.store, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return loadedMsg{err: store.Load(ctx)}
	}
}

func (m Model) mutateCmd(fn func(ctx context.Context) error) tea.Cmd {
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return mutatedMsg{err: fn(ctx)}
	}
}

func (m Model) renameCmd(id, name string) tea.Cmd {
	store, timeout := m.store, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return renamedMsg{id: id, err: store.Rename(ctx, id, name)}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.view.loading {
		return panelStyle.Render(titleStyle.Render("My Todo App") + "\n\n" + mutedStyle.Render("Loading todos..."))
	}

	m.resize()
	var b strings.Builder

	if msg := m.store.Err(); msg != "" {
		b.WriteString(errorBannerStyle.Render(errorStyle.Render("Error: "+msg) + "  " + helpStyle.Render("x to dismiss")))
		b.WriteString("\n")
	}

	if len(m.list.Items()) == 0 {
		b.WriteString(titleStyle.Render("My Todo App") + "\n\n" + mutedStyle.Render("Nothing to do. Press a to add a todo."))
	} else {
		b.WriteString(m.list.View())
	}

	switch {
	case m.view.adding:
		b.WriteString("\n" + m.formView("Add todo", ""))
	case m.view.edit != nil:
		status := ""
		if m.view.edit.pending {
			status = mutedStyle.Render("saving...")
		}
		b.WriteString("\n" + m.formView("Edit todo", status))
	}

	return panelStyle.Render(b.String())
}

func (m Model) formView(title, status string) string {
	heading := title
	if status != "" {
		heading += "  " + status
	}
	help := helpStyle.Render("enter save • esc cancel")
	bar := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
	return bar.Render(heading + "\n" + m.input.View() + "\n" + help)
}
