package ui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)

	errorBannerStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("9")).
				Padding(0, 1)

	boxChecked   = "☑"
	boxUnchecked = "☐"
)

// Checkbox renders the checked state the way the list view does.
func Checkbox(checked bool) string {
	if checked {
		return successStyle.Render(boxChecked)
	}
	return mutedStyle.Render(boxUnchecked)
}

// Name renders a todo name, struck through when checked.
func Name(name string, checked bool) string {
	if checked {
		return doneStyle.Render(name)
	}
	return name
}

// Stats renders the done / pending / total counters.
func Stats(done, pending int) string {
	return successStyle.Render("✔") + " " + strconv.Itoa(done) + "  " +
		pendingStyle.Render("•") + " " + strconv.Itoa(pending) + "  " +
		accentStyle.Render("Total") + " " + strconv.Itoa(done+pending)
}
