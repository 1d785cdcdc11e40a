package cli

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-search-provider/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui [query]",
	Short: "Launch the interactive search UI",
	Long: `Launch an interactive search box that behaves like the shell overview:
results update as you type and extending the query refines the previous
results.

Controls:
  ↑/ctrl+p, ↓/ctrl+n - Navigate results
  Enter              - Open the selected result
  ctrl+o             - Open the search location
  Esc                - Clear the query
  ctrl+c             - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	provider, release, err := providerFor(cmd.Context())
	if err != nil {
		return err
	}
	defer release()

	app, err := tui.NewApp(tui.NewPorts(provider))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	app.WithContext(cmd.Context()).WithQuery(strings.Join(args, " "))

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
