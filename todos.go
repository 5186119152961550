package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"todoapp/internal/client"
	"todoapp/internal/models"
	"todoapp/internal/state"
	"todoapp/internal/ui"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List todos, newest first",
	Long: `List todos, newest first.

On a terminal the list is styled like the interactive view. When the
output is piped each todo is printed as a tab-separated line:

  <id>	<checked>	<name>`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var addCmd = &cobra.Command{
	Use:   "add <name>...",
	Short: "Add a todo",
	Long: `Add a todo. Multiple arguments are joined with spaces.

Examples:
  todoapp add "Buy milk"
  todoapp add Buy milk --checked`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a todo between done and not done",
	Args:  cobra.ExactArgs(1),
	RunE:  runToggle,
}

var renameCmd = &cobra.Command{
	Use:   "rename <id> <name>...",
	Short: "Rename a todo",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runRename,
}

var rmCmd = &cobra.Command{
	Use:     "rm <id>...",
	Aliases: []string{"delete"},
	Short:   "Delete todo(s)",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runRm,
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the server and its database are reachable",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

var addChecked bool

func init() {
	addCmd.Flags().BoolVar(&addChecked, "checked", false, "create the todo already done")

	rootCmd.AddCommand(listCmd, addCmd, toggleCmd, renameCmd, rmCmd, healthCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	todos, err := newClient().ListTodos(commandContext(cmd))
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if !isTerminal(w) {
		for _, t := range todos {
			fmt.Fprintf(w, "%s\t%t\t%s\n", t.ID, t.Checked, t.Name)
		}
		return nil
	}

	if len(todos) == 0 {
		fmt.Fprintln(w, "No todos yet.")
		return nil
	}
	done := 0
	for _, t := range todos {
		if t.Checked {
			done++
		}
		fmt.Fprintf(w, "%s %s  %s\n", ui.Checkbox(t.Checked), ui.Name(t.Name, t.Checked), t.ID)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.Stats(done, len(todos)-done))
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	todo, err := newClient().CreateTodo(commandContext(cmd), strings.Join(args, " "), addChecked)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s\n", todo.ID, todo.Name)
	return nil
}

// runToggle goes through the state store so the inverse is computed from
// the server's current value.
func runToggle(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	id := args[0]

	s := state.New(newClient())
	if err := s.Load(ctx); err != nil {
		return err
	}
	if _, ok := s.Find(id); !ok {
		return fmt.Errorf("todo %s not found", id)
	}
	if err := s.Toggle(ctx, id); err != nil {
		return err
	}

	todo, _ := s.Find(id)
	status := "not done"
	if todo.Checked {
		status = "done"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Marked %s as %s\n", todo.ID, status)
	return nil
}

func runRename(cmd *cobra.Command, args []string) error {
	patch := models.TodoPatch{Name: models.Some(strings.Join(args[1:], " "))}
	todo, err := newClient().UpdateTodo(commandContext(cmd), args[0], patch)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s: %s\n", todo.ID, todo.Name)
	return nil
}

func runRm(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	c := newClient()

	var failed []string
	for _, id := range args {
		if err := c.DeleteTodo(ctx, id); err != nil {
			if client.IsNotFound(err) {
				failed = append(failed, id+": not found")
				continue
			}
			failed = append(failed, fmt.Sprintf("%s: %v", id, err))
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
	}
	if len(failed) > 0 {
		return errors.New(strings.Join(failed, "\n"))
	}
	return nil
}

func runHealth(cmd *cobra.Command, args []string) error {
	h, err := newClient().Health(commandContext(cmd))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (database %s)\n", h.Status, h.Message, h.Database)
	if h.Database != "connected" {
		return errors.New("database is not connected")
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}
