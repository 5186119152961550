package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"todoapp/internal/state"
	"todoapp/internal/ui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive todo list",
	Long: `Open the interactive todo list.

Keys:
  a      add a todo
  e      edit the selected todo
  space  toggle the selected todo
  d      delete the selected todo
  x      dismiss the error message
  r      reload from the server
  q      quit`,
	Args: cobra.NoArgs,
	RunE: runUI,
}

func init() {
	rootCmd.AddCommand(uiCmd)
}

func runUI(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("ui needs a terminal; use \"todoapp list\" for plain output")
	}
	return ui.Run(state.New(newClient()), ui.Options{Timeout: cfg.Timeout})
}
